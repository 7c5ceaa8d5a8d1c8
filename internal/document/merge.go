// File: internal/document/merge.go
// Brief: Field-level merge policy.

package document

// Fragment is a partial document supplied by defaults, callers or dependent features.
type Fragment map[string]any

// Merge folds fragment f into the accumulated value a and returns the result.
// Neither input is modified.
func Merge(a, f Value) (Value, error) {
	return merge("", a, f)
}

func merge(path string, a, f Value) (Value, error) {
	if f.IsNull() {
		return a, nil
	}
	if a.IsNull() {
		if f.kind == KindMapping {
			return mergeMapping(path, nil, f.entries)
		}
		if f.kind == KindSequence {
			return Value{kind: KindSequence, items: dedupe(nil, f.items)}, nil
		}
		return f, nil
	}
	switch {
	case a.kind == KindMapping && f.kind == KindMapping:
		return mergeMapping(path, a.entries, f.entries)
	case a.kind == KindSequence && f.kind == KindSequence:
		return Value{kind: KindSequence, items: dedupe(a.items, f.items)}, nil
	case a.kind == KindScalar && f.kind == KindScalar:
		return f, nil
	}
	return Value{}, &MismatchError{Path: path, Existing: a.kind, Incoming: f.kind}
}

func mergeMapping(path string, base, frag map[string]Value) (Value, error) {
	out := make(map[string]Value, len(base)+len(frag))
	for k, v := range base {
		out[k] = v
	}
	// Sorted iteration keeps the reported mismatch stable when several fields conflict.
	for _, k := range (Value{kind: KindMapping, entries: frag}).Keys() {
		fv := frag[k]
		if fv.IsNull() {
			continue
		}
		merged, err := merge(joinPath(path, k), out[k], fv)
		if err != nil {
			return Value{}, err
		}
		out[k] = merged
	}
	return Value{kind: KindMapping, entries: out}, nil
}

// dedupe appends next to prev and drops any element deeply equal to an earlier one.
func dedupe(prev, next []Value) []Value {
	out := make([]Value, 0, len(prev)+len(next))
	for _, group := range [][]Value{prev, next} {
		for _, item := range group {
			if containsValue(out, item) {
				continue
			}
			out = append(out, item)
		}
	}
	return out
}

func containsValue(items []Value, v Value) bool {
	for _, item := range items {
		if item.Equal(v) {
			return true
		}
	}
	return false
}

// MergeFragments pre-combines fragments with the same policy Apply uses, so that
// applying the result equals applying each fragment in turn.
func MergeFragments(fragments ...Fragment) (Fragment, error) {
	acc := Value{kind: KindMapping, entries: map[string]Value{}}
	for _, f := range fragments {
		fv, err := FromAny(map[string]any(f))
		if err != nil {
			return nil, err
		}
		acc, err = Merge(acc, fv)
		if err != nil {
			return nil, err
		}
	}
	return Fragment(acc.Any().(map[string]any)), nil
}
