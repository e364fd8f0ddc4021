package schema

import (
	"bytes"
	"errors"

	"github.com/goccy/go-json"
)

// ErrCycle is returned when marshaling a schema that contains itself.
var ErrCycle = errors.New("schema: cannot marshal cyclic schema")

// MarshalJSON encodes s with its keywords in insertion order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, s, make(map[*Schema]bool)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalValue encodes any schema value (scalar, array or *Schema).
func MarshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, make(map[*Schema]bool)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any, active map[*Schema]bool) error {
	switch x := v.(type) {
	case *Schema:
		if x == nil {
			buf.WriteString("null")
			return nil
		}
		if active[x] {
			return ErrCycle
		}
		active[x] = true
		defer delete(active, x)

		buf.WriteByte('{')
		for i, k := range x.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.MarshalNoEscape(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := encodeValue(buf, x.values[k], active); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, item, active); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		b, err := json.MarshalNoEscape(x)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
}
