// value.go — runtime value model for the evaluator.
//
// Value is a tagged sum covering the capabilities an expression can touch:
// scalars (null, bool, number, string), ordered sequences, ordered keyed
// mappings, and callables. Host models are built from these; the evaluator
// never reflects over arbitrary Go values. Callables receive the receiver
// they were reached through (see evaluator.go) plus their evaluated
// arguments, and may fail with an arbitrary host error.
package exprlang

import (
	"fmt"
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
// The tag determines which field of Value.Data is valid.
type ValueTag int

const (
	NullValue     ValueTag = iota // no payload
	BoolValue                     // bool
	NumberValue                   // float64
	StringValue                   // string
	ArrayValue                    // []Value
	MapValue                      // *MapObject (ordered map)
	CallableValue                 // *Callable
)

func (t ValueTag) String() string {
	switch t {
	case NullValue:
		return "null"
	case BoolValue:
		return "bool"
	case NumberValue:
		return "number"
	case StringValue:
		return "string"
	case ArrayValue:
		return "array"
	case MapValue:
		return "map"
	case CallableValue:
		return "callable"
	default:
		return "unknown"
	}
}

// Value is the universal runtime carrier.
//
// Invariants:
//   - When Tag==NullValue, Data is nil.
//   - When Tag==MapValue, Data is *MapObject preserving insertion order.
//   - When Tag==CallableValue, Data is *Callable.
type Value struct {
	Tag  ValueTag
	Data any
}

// Null is the singleton null Value.
var Null = Value{Tag: NullValue}

// Primitive constructors.
func Bool(b bool) Value    { return Value{Tag: BoolValue, Data: b} }
func Num(f float64) Value  { return Value{Tag: NumberValue, Data: f} }
func Str(s string) Value   { return Value{Tag: StringValue, Data: s} }
func Arr(xs []Value) Value { return Value{Tag: ArrayValue, Data: xs} }

// MapObject is an ordered string-keyed map. Insertion order is iteration
// order; Keys holds each key exactly once.
type MapObject struct {
	Entries map[string]Value
	Keys    []string
}

// NewMapObject returns an empty ordered map.
func NewMapObject() *MapObject {
	return &MapObject{Entries: make(map[string]Value)}
}

// Set binds key to v, appending key to the order on first insertion.
func (m *MapObject) Set(key string, v Value) {
	if _, ok := m.Entries[key]; !ok {
		m.Keys = append(m.Keys, key)
	}
	m.Entries[key] = v
}

// Get retrieves the value bound to key.
func (m *MapObject) Get(key string) (Value, bool) {
	v, ok := m.Entries[key]
	return v, ok
}

// MapVal wraps an ordered map into a Value.
func MapVal(m *MapObject) Value { return Value{Tag: MapValue, Data: m} }

// MapOf builds a map Value from alternating key, value pairs, preserving
// the order given. It panics on an odd argument count or a non-string key;
// intended for host model literals in Go code.
func MapOf(pairs ...any) Value {
	if len(pairs)%2 != 0 {
		panic("MapOf: odd number of arguments")
	}
	m := NewMapObject()
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			panic(fmt.Sprintf("MapOf: key %d is not a string", i/2))
		}
		value, ok := pairs[i+1].(Value)
		if !ok {
			panic(fmt.Sprintf("MapOf: value for %q is not a Value", key))
		}
		m.Set(key, value)
	}
	return MapVal(m)
}

// CallableFunc is the host implementation signature. recv is the implicit
// receiver the callable was reached through (Null for free calls); args are
// the evaluated arguments in order.
type CallableFunc func(recv Value, args []Value) (Value, error)

// Callable is an invokable host member.
type Callable struct {
	Name string
	Fn   CallableFunc
}

// FunVal wraps a host function into a callable Value.
func FunVal(name string, fn CallableFunc) Value {
	return Value{Tag: CallableValue, Data: &Callable{Name: name, Fn: fn}}
}

// Truthy reports the truthiness used by short-circuit operators, the
// ternary, and logical negation: null and false are falsy, as are 0 and "";
// arrays, maps, and callables are always truthy.
func (v Value) Truthy() bool {
	switch v.Tag {
	case NullValue:
		return false
	case BoolValue:
		return v.Data.(bool)
	case NumberValue:
		return v.Data.(float64) != 0
	case StringValue:
		return v.Data.(string) != ""
	default:
		return true
	}
}

// Equals implements the generic equality used by == and !=: tags must match
// and payloads compare structurally (arrays element-wise, maps entry-wise in
// key order). Callables compare by identity.
func (v Value) Equals(o Value) bool {
	if v.Tag != o.Tag {
		return false
	}
	switch v.Tag {
	case NullValue:
		return true
	case BoolValue:
		return v.Data.(bool) == o.Data.(bool)
	case NumberValue:
		return v.Data.(float64) == o.Data.(float64)
	case StringValue:
		return v.Data.(string) == o.Data.(string)
	case ArrayValue:
		a, b := v.Data.([]Value), o.Data.([]Value)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].Equals(b[i]) {
				return false
			}
		}
		return true
	case MapValue:
		a, b := v.Data.(*MapObject), o.Data.(*MapObject)
		if len(a.Keys) != len(b.Keys) {
			return false
		}
		for i, k := range a.Keys {
			if b.Keys[i] != k {
				return false
			}
			if !a.Entries[k].Equals(b.Entries[k]) {
				return false
			}
		}
		return true
	case CallableValue:
		return v.Data == o.Data
	default:
		return false
	}
}

// String renders a human-friendly representation for REPL/debug output.
func (v Value) String() string {
	switch v.Tag {
	case NullValue:
		return "null"
	case BoolValue:
		return strconv.FormatBool(v.Data.(bool))
	case NumberValue:
		return strconv.FormatFloat(v.Data.(float64), 'g', -1, 64)
	case StringValue:
		return strconv.Quote(v.Data.(string))
	case ArrayValue:
		var b strings.Builder
		b.WriteByte('[')
		for i, item := range v.Data.([]Value) {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(item.String())
		}
		b.WriteByte(']')
		return b.String()
	case MapValue:
		m := v.Data.(*MapObject)
		var b strings.Builder
		b.WriteByte('{')
		for i, k := range m.Keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s: %s", k, m.Entries[k])
		}
		b.WriteByte('}')
		return b.String()
	case CallableValue:
		c := v.Data.(*Callable)
		if c.Name != "" {
			return fmt.Sprintf("<callable %s>", c.Name)
		}
		return "<callable>"
	default:
		return "<unknown>"
	}
}
