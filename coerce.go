package schema

import (
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Type Names
///////////////////////////////////////////////////////////////////////////////

// Built-in type names accepted by FieldDefinition declarations and the
// coercion registry. Generic forms compose as "Array<T>" and
// "Map<String,T>" for any resolvable T.
const (
	TypeString   = "String"
	TypeInt32    = "Int32"
	TypeInt64    = "Int64"
	TypeFloat32  = "Float32"
	TypeFloat64  = "Float64"
	TypeBool     = "Bool"
	TypeTime     = "Time"
	TypeDateTime = "DateTime"
	TypeUUID     = "UUID"
	TypeFile     = "File"

	arrayTypePrefix = "Array<"
	mapTypePrefix   = "Map<String,"
	genericSuffix   = ">"
)

// Time formats tried in order when coercing strings to Time/DateTime.
var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Boolean spellings accepted by Bool coercion, lowercased.
var (
	truthyStrings = []string{"true", "1", "yes", "on", "enabled"}
	falsyStrings  = []string{"false", "0", "no", "off", "disabled"}
)

///////////////////////////////////////////////////////////////////////////////
// CoercionRegistry
///////////////////////////////////////////////////////////////////////////////

// CoerceFunc converts a Value to a type's canonical Value form. The second
// return is false when the input cannot represent the type; the engine maps
// that to a TypeMismatch error.
type CoerceFunc func(Value) (Value, bool)

// CoercionRegistry maps type names to converters. Custom registrations are
// consulted before the built-ins, so a registered name shadows a built-in
// of the same name (last registration wins).
//
// Registration is expected to complete before concurrent traffic begins;
// the mutex guards the stragglers.
type CoercionRegistry struct {
	mu sync.RWMutex
	m  map[string]CoerceFunc
}

func NewCoercionRegistry() *CoercionRegistry {
	return &CoercionRegistry{m: make(map[string]CoerceFunc)}
}

// Register installs or replaces the converter for a type name.
func (cr *CoercionRegistry) Register(typeName string, fn CoerceFunc) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.m[typeName] = fn
}

// Coerce converts v to typeName's canonical form. Custom converters are
// tried first, then built-ins, then the generic Array<T> / Map<String,T>
// forms. Returns false when the type name is unknown or the value cannot
// be converted.
func (cr *CoercionRegistry) Coerce(typeName string, v Value) (Value, bool) {
	cr.mu.RLock()
	fn, registered := cr.m[typeName]
	cr.mu.RUnlock()

	if registered {
		return fn(v)
	}
	return cr.coerceBuiltin(typeName, v)
}

// Known reports whether typeName resolves to a registered or built-in
// converter. Used to fail fast at schema-definition time.
func (cr *CoercionRegistry) Known(typeName string) bool {
	cr.mu.RLock()
	_, registered := cr.m[typeName]
	cr.mu.RUnlock()
	if registered {
		return true
	}

	switch typeName {
	case TypeString, TypeInt32, TypeInt64, TypeFloat32, TypeFloat64,
		TypeBool, TypeTime, TypeDateTime, TypeUUID, TypeFile:
		return true
	}
	if elem, ok := elementType(typeName); ok {
		return cr.Known(elem)
	}
	return false
}

func (cr *CoercionRegistry) coerceBuiltin(typeName string, v Value) (Value, bool) {
	switch typeName {
	case TypeString:
		return coerceString(v)
	case TypeInt64:
		return coerceInt(v, math.MinInt64, math.MaxInt64)
	case TypeInt32:
		return coerceInt(v, math.MinInt32, math.MaxInt32)
	case TypeFloat64:
		return coerceFloat(v, math.MaxFloat64)
	case TypeFloat32:
		return coerceFloat(v, math.MaxFloat32)
	case TypeBool:
		return coerceBool(v)
	case TypeTime, TypeDateTime:
		return coerceTime(v)
	case TypeUUID:
		return coerceUUID(v)
	case TypeFile:
		return coerceFile(v)
	}

	if elem, ok := strings.CutPrefix(typeName, arrayTypePrefix); ok && strings.HasSuffix(elem, genericSuffix) {
		return cr.coerceArray(strings.TrimSuffix(elem, genericSuffix), v)
	}
	if elem, ok := strings.CutPrefix(typeName, mapTypePrefix); ok && strings.HasSuffix(elem, genericSuffix) {
		return cr.coerceMap(strings.TrimSuffix(elem, genericSuffix), v)
	}

	return Null(), false
}

// coerceArray converts every element recursively; one bad element fails the
// whole array.
func (cr *CoercionRegistry) coerceArray(elemType string, v Value) (Value, bool) {
	arr, ok := v.AsArray()
	if !ok {
		return Null(), false
	}
	out := make([]Value, len(arr))
	for i, e := range arr {
		ce, converted := cr.Coerce(elemType, e)
		if !converted {
			return Null(), false
		}
		out[i] = ce
	}
	return ArrayOf(out), true
}

func (cr *CoercionRegistry) coerceMap(elemType string, v Value) (Value, bool) {
	obj, ok := v.AsObject()
	if !ok {
		return Null(), false
	}
	out := NewObject()
	for _, key := range obj.Keys() {
		e, _ := obj.Get(key)
		ce, converted := cr.Coerce(elemType, e)
		if !converted {
			return Null(), false
		}
		out.Set(key, ce)
	}
	return ObjectVal(out), true
}

// elementType extracts T from Array<T> or Map<String,T>.
func elementType(typeName string) (string, bool) {
	if elem, ok := strings.CutPrefix(typeName, arrayTypePrefix); ok && strings.HasSuffix(elem, genericSuffix) {
		return strings.TrimSuffix(elem, genericSuffix), true
	}
	if elem, ok := strings.CutPrefix(typeName, mapTypePrefix); ok && strings.HasSuffix(elem, genericSuffix) {
		return strings.TrimSuffix(elem, genericSuffix), true
	}
	return "", false
}

///////////////////////////////////////////////////////////////////////////////
// Built-in Converters
///////////////////////////////////////////////////////////////////////////////

func coerceString(v Value) (Value, bool) {
	switch v.Kind() {
	case KindString:
		return v, true
	case KindBool, KindInt, KindFloat:
		return String(v.Text()), true
	default:
		return Null(), false
	}
}

func coerceInt(v Value, min, max int64) (Value, bool) {
	switch v.Kind() {
	case KindInt:
		i, _ := v.AsInt()
		if i < min || i > max {
			return Null(), false
		}
		return Int(i), true
	case KindFloat:
		f, _ := v.AsFloat()
		// Only lossless conversions; 3.5 is not an int.
		if f != math.Trunc(f) {
			return Null(), false
		}
		i := int64(f)
		if i < min || i > max {
			return Null(), false
		}
		return Int(i), true
	case KindString:
		s, _ := v.AsString()
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil || i < min || i > max {
			return Null(), false
		}
		return Int(i), true
	default:
		return Null(), false
	}
}

func coerceFloat(v Value, max float64) (Value, bool) {
	switch v.Kind() {
	case KindInt, KindFloat:
		f, _ := v.AsFloat()
		if math.Abs(f) > max {
			return Null(), false
		}
		return Float(f), true
	case KindString:
		s, _ := v.AsString()
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.Abs(f) > max {
			return Null(), false
		}
		return Float(f), true
	default:
		return Null(), false
	}
}

func coerceBool(v Value) (Value, bool) {
	switch v.Kind() {
	case KindBool:
		return v, true
	case KindInt:
		i, _ := v.AsInt()
		switch i {
		case 1:
			return Bool(true), true
		case 0:
			return Bool(false), true
		}
		return Null(), false
	case KindString:
		s, _ := v.AsString()
		return parseBoolVariant(s)
	default:
		return Null(), false
	}
}

// parseBoolVariant accepts the extended boolean spellings, case-insensitive.
func parseBoolVariant(s string) (Value, bool) {
	lowered := strings.ToLower(strings.TrimSpace(s))
	for _, t := range truthyStrings {
		if lowered == t {
			return Bool(true), true
		}
	}
	for _, f := range falsyStrings {
		if lowered == f {
			return Bool(false), true
		}
	}
	return Null(), false
}

// coerceTime normalizes ISO-8601 strings and Unix epoch integers to an
// RFC 3339 UTC string.
func coerceTime(v Value) (Value, bool) {
	switch v.Kind() {
	case KindString:
		s, _ := v.AsString()
		for _, format := range timeFormats {
			if t, err := time.Parse(format, s); err == nil {
				return String(t.UTC().Format(time.RFC3339)), true
			}
		}
		return Null(), false
	case KindInt:
		epoch, _ := v.AsInt()
		return String(time.Unix(epoch, 0).UTC().Format(time.RFC3339)), true
	default:
		return Null(), false
	}
}

// coerceUUID validates the canonical 8-4-4-4-12 form and normalizes case.
func coerceUUID(v Value) (Value, bool) {
	s, ok := v.AsString()
	if !ok || len(s) != 36 {
		return Null(), false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return Null(), false
	}
	return String(id.String()), true
}

// coerceFile passes FileUpload-shaped objects through unchanged. The shape
// check is just the filename key; the file validators judge the rest.
func coerceFile(v Value) (Value, bool) {
	obj, ok := v.AsObject()
	if !ok || !obj.Has(FileKeyFilename) {
		return Null(), false
	}
	return v, true
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _gCoercions *CoercionRegistry

func init() {
	_gCoercions = NewCoercionRegistry()
}

// RegisterCoercion registers a custom type converter process-wide. Intended
// for initialization time, before concurrent request handling begins.
func RegisterCoercion(typeName string, fn CoerceFunc) {
	_gCoercions.Register(typeName, fn)
}

// Coerce converts v to typeName using the global registry.
func Coerce(typeName string, v Value) (Value, bool) {
	return _gCoercions.Coerce(typeName, v)
}
