package schema

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// JSONParser decodes JSON bodies into Objects. Non-object roots are
// wrapped so the result is always an Object: a root array lands under
// "data", a root scalar under "value". An empty body decodes to an empty
// object; malformed JSON is fatal.
type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

func (jp *JSONParser) Name() string {
	return JSONParserName
}

func (jp *JSONParser) ContentTypes() []string {
	return []string{ContentTypeJSON}
}

func (jp *JSONParser) Parse(body []byte, _ string) (*Object, error) {
	return ParseString(string(body))
}

// ParseString decodes a JSON string into an Object per the root-wrapping
// rules. Returns a *SchemaError for malformed input.
func ParseString(s string) (*Object, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return NewObject(), nil
	}

	if !gjson.Valid(trimmed) {
		return nil, NewSchemaError("Invalid JSON: %s", snippet(trimmed))
	}

	v := valueFromGJSON(gjson.Parse(trimmed))
	if obj, ok := v.AsObject(); ok {
		return obj, nil
	}

	wrapped := NewObject()
	if v.Kind() == KindArray {
		wrapped.Set(RootArrayKey, v)
	} else {
		wrapped.Set(RootScalarKey, v)
	}
	return wrapped, nil
}

// valueFromGJSON converts a decoded gjson node into a Value, preserving
// object key order and distinguishing integers from floats by the raw
// literal (gjson itself only carries float64).
func valueFromGJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.True:
		return Bool(true)
	case gjson.False:
		return Bool(false)
	case gjson.String:
		return String(r.String())
	case gjson.Number:
		return numberFromRaw(r)
	case gjson.JSON:
		if r.IsArray() {
			var elems []Value
			r.ForEach(func(_, elem gjson.Result) bool {
				elems = append(elems, valueFromGJSON(elem))
				return true
			})
			if elems == nil {
				elems = []Value{}
			}
			return ArrayOf(elems)
		}
		obj := NewObject()
		r.ForEach(func(key, elem gjson.Result) bool {
			obj.Set(key.String(), valueFromGJSON(elem))
			return true
		})
		return ObjectVal(obj)
	default:
		return Null()
	}
}

// numberFromRaw keeps 42 an Int and 42.0 a Float.
func numberFromRaw(r gjson.Result) Value {
	raw := r.Raw
	if !strings.ContainsAny(raw, ".eE") {
		if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Int(i)
		}
	}
	return Float(r.Float())
}

// snippet truncates a payload for inclusion in an error message.
func snippet(s string) string {
	const limit = 64
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
