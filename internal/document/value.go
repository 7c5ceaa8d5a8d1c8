// File: internal/document/value.go
// Brief: Tagged value model for document fields.

package document

import (
	"fmt"
	"reflect"
	"sort"
)

// Kind tags the shape of a Value.
type Kind uint8

const (
	// KindNull carries no instruction; merging it leaves the target untouched.
	KindNull Kind = iota
	KindScalar
	KindSequence
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a document field: a scalar, an ordered sequence or a nested mapping.
// Values are never mutated after construction, so they may be shared freely.
type Value struct {
	kind    Kind
	scalar  any
	items   []Value
	entries map[string]Value
}

// Scalar wraps a string, number or boolean.
func Scalar(v any) Value { return Value{kind: KindScalar, scalar: v} }

// Sequence builds an ordered sequence value.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: append([]Value{}, items...)}
}

// Mapping builds a mapping value.
func Mapping(entries map[string]Value) Value {
	out := make(map[string]Value, len(entries))
	for k, v := range entries {
		out[k] = v
	}
	return Value{kind: KindMapping, entries: out}
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value carries no instruction.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Items returns a copy of the sequence elements.
func (v Value) Items() []Value { return append([]Value(nil), v.items...) }

// Keys returns the mapping keys in sorted order.
func (v Value) Keys() []string {
	keys := make([]string, 0, len(v.entries))
	for k := range v.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Field returns the mapping entry stored under key.
func (v Value) Field(key string) (Value, bool) {
	if v.kind != KindMapping {
		return Value{}, false
	}
	f, ok := v.entries[key]
	return f, ok
}

// Any converts the value back to plain nested data (map[string]any, []any, scalars).
// Every call builds fresh containers.
func (v Value) Any() any {
	switch v.kind {
	case KindScalar:
		return v.scalar
	case KindSequence:
		out := make([]any, 0, len(v.items))
		for _, item := range v.items {
			out = append(out, item.Any())
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.entries))
		for k, e := range v.entries {
			out[k] = e.Any()
		}
		return out
	default:
		return nil
	}
}

// Equal compares two values deeply. Numbers compare by numeric value.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindScalar:
		return scalarEqual(v.scalar, o.scalar)
	case KindSequence:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.entries) != len(o.entries) {
			return false
		}
		for k, e := range v.entries {
			oe, ok := o.entries[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}

func scalarEqual(a, b any) bool {
	an, aNum := toNumber(a)
	bn, bNum := toNumber(b)
	if aNum && bNum {
		return an.equal(bn)
	}
	if aNum || bNum {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta != nil && !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

// number keeps integers exact; float64 is used only for float operands.
type number struct {
	kind reflect.Kind // Int64, Uint64 or Float64
	i    int64
	u    uint64
	f    float64
}

func toNumber(v any) (number, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{kind: reflect.Int64, i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return number{kind: reflect.Uint64, u: rv.Uint()}, true
	case reflect.Float32, reflect.Float64:
		return number{kind: reflect.Float64, f: rv.Float()}, true
	default:
		return number{}, false
	}
}

func (n number) equal(o number) bool {
	switch {
	case n.kind == reflect.Int64 && o.kind == reflect.Int64:
		return n.i == o.i
	case n.kind == reflect.Uint64 && o.kind == reflect.Uint64:
		return n.u == o.u
	case n.kind == reflect.Int64 && o.kind == reflect.Uint64:
		return n.i >= 0 && uint64(n.i) == o.u
	case n.kind == reflect.Uint64 && o.kind == reflect.Int64:
		return o.i >= 0 && n.u == uint64(o.i)
	}
	return n.float() == o.float()
}

func (n number) float() float64 {
	switch n.kind {
	case reflect.Int64:
		return float64(n.i)
	case reflect.Uint64:
		return float64(n.u)
	}
	return n.f
}

// FromAny converts plain Go data into the tagged model. Maps must be keyed by
// strings; anything that is not a string, number, boolean, slice or map is
// rejected with ErrSchemaMismatch.
func FromAny(in any) (Value, error) {
	return fromAny("", in)
}

func fromAny(path string, in any) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return t, nil
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return Scalar(t), nil
	case []any:
		items := make([]Value, 0, len(t))
		for i, item := range t {
			v, err := fromAny(fmt.Sprintf("%s[%d]", path, i), item)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindSequence, items: items}, nil
	case []string:
		items := make([]Value, 0, len(t))
		for _, item := range t {
			items = append(items, Scalar(item))
		}
		return Value{kind: KindSequence, items: items}, nil
	case map[string]any:
		entries := make(map[string]Value, len(t))
		for k, item := range t {
			v, err := fromAny(joinPath(path, k), item)
			if err != nil {
				return Value{}, err
			}
			entries[k] = v
		}
		return Value{kind: KindMapping, entries: entries}, nil
	case Fragment:
		return fromAny(path, map[string]any(t))
	}

	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return Value{}, nil
		}
		return fromAny(path, rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := fromAny(fmt.Sprintf("%s[%d]", path, i), rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return Value{kind: KindSequence, items: items}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, fmt.Errorf("%w: field %q has non-string map keys (%s)", ErrSchemaMismatch, path, rv.Type())
		}
		entries := make(map[string]Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			v, err := fromAny(joinPath(path, k), iter.Value().Interface())
			if err != nil {
				return Value{}, err
			}
			entries[k] = v
		}
		return Value{kind: KindMapping, entries: entries}, nil
	case reflect.String:
		return Scalar(rv.String()), nil
	case reflect.Bool:
		return Scalar(rv.Bool()), nil
	}
	return Value{}, fmt.Errorf("%w: field %q has unsupported type %T", ErrSchemaMismatch, path, in)
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
