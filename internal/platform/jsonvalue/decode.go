package jsonvalue

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/tidwall/gjson"
)

var ErrInvalidJSON = errors.New("invalid json document")

// Parse decodes raw bytes, preserving object key order.
func Parse(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Null(), ErrInvalidJSON
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(res gjson.Result) Value {
	switch res.Type {
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.Number:
		return Number(res.Num)
	case gjson.String:
		return String(res.Str)
	case gjson.JSON:
		if res.IsArray() {
			arr := NewArray()
			res.ForEach(func(_, item gjson.Result) bool {
				arr.Append(fromResult(item))
				return true
			})
			return arr.Value()
		}
		obj := NewObject()
		res.ForEach(func(key, item gjson.Result) bool {
			obj.Set(key.String(), fromResult(item))
			return true
		})
		return obj.Value()
	default:
		return Null()
	}
}

// FromAny converts an already decoded Go value. Typed structs round-trip through sonic;
// map keys are visited in sorted order so the result is deterministic.
func FromAny(input any) (Value, error) {
	switch typed := input.(type) {
	case nil:
		return Null(), nil
	case Value:
		return typed, nil
	case bool:
		return Bool(typed), nil
	case string:
		return String(typed), nil
	case float64:
		return Number(typed), nil
	case float32:
		return Number(float64(typed)), nil
	case int:
		return Number(float64(typed)), nil
	case int64:
		return Number(float64(typed)), nil
	case int32:
		return Number(float64(typed)), nil
	case json.Number:
		f, err := typed.Float64()
		if err != nil {
			return String(typed.String()), nil
		}
		return Number(f), nil
	case []byte:
		return Parse(typed)
	case json.RawMessage:
		return Parse(typed)
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, key := range keys {
			child, err := FromAny(typed[key])
			if err != nil {
				return Null(), fmt.Errorf("key %q: %w", key, err)
			}
			obj.Set(key, child)
		}
		return obj.Value(), nil
	case []any:
		arr := NewArray()
		for i, item := range typed {
			child, err := FromAny(item)
			if err != nil {
				return Null(), fmt.Errorf("index %d: %w", i, err)
			}
			arr.Append(child)
		}
		return arr.Value(), nil
	}

	if rv := reflect.ValueOf(input); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return Null(), nil
	}
	raw, err := sonic.Marshal(input)
	if err != nil {
		return Null(), fmt.Errorf("marshal %T: %w", input, err)
	}
	return Parse(raw)
}

// MustParse is for literals in tests and seeds.
func MustParse(raw string) Value {
	v, err := Parse([]byte(raw))
	if err != nil {
		panic(fmt.Sprintf("jsonvalue: %v: %s", err, raw))
	}
	return v
}
