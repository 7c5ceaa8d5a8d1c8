// File: internal/filewriter/tee.go
// Brief: Writer interface and fan-out to several sinks.

package filewriter

// Writer is the artifact sink consumed by project synthesis.
type Writer interface {
	Write(path string, content any, marker bool) error
}

type tee []Writer

// Tee returns a Writer that forwards every artifact to each of ws in order.
func Tee(ws ...Writer) Writer { return tee(ws) }

func (t tee) Write(path string, content any, marker bool) error {
	for _, w := range t {
		if err := w.Write(path, content, marker); err != nil {
			return err
		}
	}
	return nil
}
