// Package jsonvalue models upstream JSON payloads as an explicit recursive variant.
//
// Objects and arrays are held by pointer so traversals can track identity; this lets
// callers build self-referencing graphs (for tests or merged payloads) and walk them
// without looping forever.
package jsonvalue

import (
	"math"
	"strconv"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "null"
	}
}

// Value is one node of a decoded document. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string
	obj  *Object
	arr  *Array
}

type Member struct {
	Key   string
	Value Value
}

// Object keeps members in document order; duplicate keys keep the last value.
type Object struct {
	members []Member
	index   map[string]int
}

type Array struct {
	items []Value
}

func Null() Value { return Value{} }

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func String(s string) Value { return Value{kind: KindString, str: s} }

func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

func NewArray(items ...Value) *Array {
	return &Array{items: items}
}

func (o *Object) Value() Value { return Value{kind: KindObject, obj: o} }

func (a *Array) Value() Value { return Value{kind: KindArray, arr: a} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Object() (*Object, bool) {
	return v.obj, v.kind == KindObject && v.obj != nil
}

func (v Value) Array() (*Array, bool) {
	return v.arr, v.kind == KindArray && v.arr != nil
}

func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

func (v Value) Num() (float64, bool) {
	return v.num, v.kind == KindNumber
}

func (v Value) Boolean() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Text renders scalars the way a loosely typed client would coerce them to a string.
// Objects, arrays and null render empty.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if math.Trunc(v.num) == v.num && math.Abs(v.num) < 1e15 {
			return strconv.FormatInt(int64(v.num), 10)
		}
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Get returns the member value for key; missing keys yield null.
func (v Value) Get(key string) Value {
	obj, ok := v.Object()
	if !ok {
		return Null()
	}
	value, _ := obj.Get(key)
	return value
}

func (o *Object) Set(key string, value Value) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = value
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Null(), false
	}
	i, ok := o.index[key]
	if !ok {
		return Null(), false
	}
	return o.members[i].Value, true
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Members returns the backing slice; callers must not mutate it.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	return o.members
}

func (a *Array) Append(values ...Value) {
	a.items = append(a.items, values...)
}

func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.items)
}

func (a *Array) Items() []Value {
	if a == nil {
		return nil
	}
	return a.items
}
