package jsonvalue

import (
	"fmt"
	"math"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// MarshalJSON renders the document in member order. A container met again on its own
// path renders as null.
func (v Value) MarshalJSON() ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := encodeValue(buf, v, make(map[any]struct{})); err != nil {
		return nil, err
	}
	return append([]byte(nil), buf.B...), nil
}

func encodeValue(buf *bytebufferpool.ByteBuffer, v Value, onPath map[any]struct{}) error {
	switch v.kind {
	case KindBool:
		buf.B = strconv.AppendBool(buf.B, v.b)
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			buf.B = append(buf.B, "null"...)
			return nil
		}
		buf.B = strconv.AppendFloat(buf.B, v.num, 'f', -1, 64)
	case KindString:
		return encodeString(buf, v.str)
	case KindObject:
		if _, seen := onPath[v.obj]; seen {
			buf.B = append(buf.B, "null"...)
			return nil
		}
		onPath[v.obj] = struct{}{}
		defer delete(onPath, v.obj)

		buf.B = append(buf.B, '{')
		for i, m := range v.obj.Members() {
			if i > 0 {
				buf.B = append(buf.B, ',')
			}
			if err := encodeString(buf, m.Key); err != nil {
				return err
			}
			buf.B = append(buf.B, ':')
			if err := encodeValue(buf, m.Value, onPath); err != nil {
				return fmt.Errorf("key %q: %w", m.Key, err)
			}
		}
		buf.B = append(buf.B, '}')
	case KindArray:
		if _, seen := onPath[v.arr]; seen {
			buf.B = append(buf.B, "null"...)
			return nil
		}
		onPath[v.arr] = struct{}{}
		defer delete(onPath, v.arr)

		buf.B = append(buf.B, '[')
		for i, item := range v.arr.Items() {
			if i > 0 {
				buf.B = append(buf.B, ',')
			}
			if err := encodeValue(buf, item, onPath); err != nil {
				return fmt.Errorf("index %d: %w", i, err)
			}
		}
		buf.B = append(buf.B, ']')
	default:
		buf.B = append(buf.B, "null"...)
	}
	return nil
}

func encodeString(buf *bytebufferpool.ByteBuffer, s string) error {
	quoted, err := sonic.Marshal(s)
	if err != nil {
		return err
	}
	buf.B = append(buf.B, quoted...)
	return nil
}
