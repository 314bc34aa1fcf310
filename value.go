package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

///////////////////////////////////////////////////////////////////////////////
// Kind
///////////////////////////////////////////////////////////////////////////////

// Kind identifies the variant held by a Value. The set is closed: every
// consumer dispatches on it exhaustively and treats anything else as a bug.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

///////////////////////////////////////////////////////////////////////////////
// Value
///////////////////////////////////////////////////////////////////////////////

// Value is the universal intermediate representation for parsed payload
// data: a tagged union over null, bool, int64, float64, string, array and
// object. All integers are normalized to int64 and all floats to float64,
// so numeric comparisons never have to care about source width.
//
// Values are cheap to copy. Array and Object variants share their backing
// storage when copied; parsers always build fresh backing storage, so a
// parsed payload is never aliased by another request.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	a    []Value
	o    *Object
}

// Constructors. Null() is the zero Value, so an uninitialized Value is Null.

func Null() Value               { return Value{kind: KindNull} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Int(i int64) Value         { return Value{kind: KindInt, i: i} }
func Float(f float64) Value     { return Value{kind: KindFloat, f: f} }
func String(s string) Value     { return Value{kind: KindString, s: s} }
func Array(vs ...Value) Value   { return Value{kind: KindArray, a: vs} }
func ObjectVal(o *Object) Value { return Value{kind: KindObject, o: o} }
func ArrayOf(vs []Value) Value  { return Value{kind: KindArray, a: vs} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Comma-ok accessors. Validators use these for their "skip if not
// applicable" arms instead of reflection.

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsFloat widens Int to Float, matching the numeric validators' contract.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.a, true
}

func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject || v.o == nil {
		return nil, false
	}
	return v.o, true
}

// Text renders the scalar variants as a display string. Arrays and objects
// fall back to their JSON form. Used for permissive string comparisons
// (string enums) and error details.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	default:
		return v.MustJSON()
	}
}

// Equal reports deep equality of two Values. Int and Float never compare
// equal to each other; numeric widening is a coercion concern, not an
// equality one.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	case KindArray:
		if len(v.a) != len(other.a) {
			return false
		}
		for i := range v.a {
			if !v.a[i].Equal(other.a[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if v.o.Len() != other.o.Len() {
			return false
		}
		for _, key := range v.o.Keys() {
			ov, ok := other.o.Get(key)
			if !ok {
				return false
			}
			mv, _ := v.o.Get(key)
			if !mv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Interface converts the Value into plain Go types (nil, bool, int64,
// float64, string, []any, map[string]any). Object order is lost; use
// MarshalJSON when order matters.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindArray:
		out := make([]any, len(v.a))
		for i, e := range v.a {
			out[i] = e.Interface()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.o.Len())
		for _, key := range v.o.Keys() {
			e, _ := v.o.Get(key)
			out[key] = e.Interface()
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON serializes the Value, preserving object key insertion order.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return json.Marshal(v.i)
	case KindFloat:
		return json.Marshal(v.f)
	case KindString:
		return json.Marshal(v.s)
	case KindArray:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range v.a {
			if i > 0 {
				sb.WriteByte(',')
			}
			b, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			sb.Write(b)
		}
		sb.WriteByte(']')
		return []byte(sb.String()), nil
	case KindObject:
		return v.o.MarshalJSON()
	default:
		return nil, fmt.Errorf("cannot marshal value of kind %s", v.kind)
	}
}

// MustJSON is MarshalJSON for contexts where the Value is known to be
// well-formed (every Value built through this package is).
func (v Value) MustJSON() string {
	b, err := v.MarshalJSON()
	if err != nil {
		panic(fmt.Sprintf("schema: unmarshalable Value: %v", err))
	}
	return string(b)
}

///////////////////////////////////////////////////////////////////////////////
// Object
///////////////////////////////////////////////////////////////////////////////

// Object is the map variant of Value. Keys are unique and iteration follows
// insertion order, so serialization and export walk deterministically.
type Object struct {
	keys  []string
	items map[string]Value
}

func NewObject() *Object {
	return &Object{items: make(map[string]Value)}
}

// Set inserts or overwrites key. Overwriting keeps the key's original
// position in the iteration order.
func (o *Object) Set(key string, v Value) {
	if _, exists := o.items[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.items[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.items[key]
	return v, ok
}

func (o *Object) Has(key string) bool {
	_, ok := o.items[key]
	return ok
}

func (o *Object) Delete(key string) {
	if _, ok := o.items[key]; !ok {
		return
	}
	delete(o.items, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

func (o *Object) Len() int { return len(o.items) }

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not mutate it.
func (o *Object) Keys() []string { return o.keys }

// Typed accessors for controller-facing field access on validated output.

func (o *Object) GetString(key string) (string, bool) {
	v, ok := o.Get(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}

func (o *Object) GetInt(key string) (int64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

func (o *Object) GetFloat(key string) (float64, bool) {
	v, ok := o.Get(key)
	if !ok {
		return 0, false
	}
	return v.AsFloat()
}

func (o *Object) GetBool(key string) (bool, bool) {
	v, ok := o.Get(key)
	if !ok {
		return false, false
	}
	return v.AsBool()
}

// GetTime parses a string field as RFC 3339 (the canonical form Time
// coercion produces).
func (o *Object) GetTime(key string) (time.Time, bool) {
	s, ok := o.GetString(key)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func (o *Object) GetArray(key string) ([]Value, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	return v.AsArray()
}

func (o *Object) GetObject(key string) (*Object, bool) {
	v, ok := o.Get(key)
	if !ok {
		return nil, false
	}
	return v.AsObject()
}

// Clone makes a shallow copy: new key order and map, shared nested values.
// Nested Arrays/Objects are immutable by convention once parsed, so this is
// enough for the engine's pass-through output.
func (o *Object) Clone() *Object {
	out := &Object{
		keys:  append([]string(nil), o.keys...),
		items: make(map[string]Value, len(o.items)),
	}
	for k, v := range o.items {
		out.items[k] = v
	}
	return out
}

// MarshalJSON serializes the object in key insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		kb, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		sb.Write(kb)
		sb.WriteByte(':')
		vb, err := o.items[key].MarshalJSON()
		if err != nil {
			return nil, err
		}
		sb.Write(vb)
	}
	sb.WriteByte('}')
	return []byte(sb.String()), nil
}
