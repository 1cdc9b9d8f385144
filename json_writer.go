package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// jsonObjectWriter builds a JSON object whose fields keep the order in which
// they were written. Its zero value is an empty object.
//
// The first failure is kept and returned by MarshalJSON; later calls are
// no-ops.
type jsonObjectWriter struct {
	buf bytes.Buffer
	err error
}

// Append writes key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	b, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot marshal %q: %w", key, err)
		return w
	}
	return w.raw(key, b)
}

func (w *jsonObjectWriter) raw(key string, value []byte) *jsonObjectWriter {
	k, _ := json.Marshal(key)
	w.sep()
	w.buf.Write(k)
	w.buf.WriteByte(':')
	w.buf.Write(value)
	return w
}

func (w *jsonObjectWriter) sep() {
	if w.buf.Len() > 0 {
		w.buf.WriteByte(',')
	}
}

// MarshalJSON returns the object built so far.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.buf.Len()+2)
	out = append(out, '{')
	out = append(out, w.buf.Bytes()...)
	return append(out, '}'), nil
}
