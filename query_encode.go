package schema

import (
	"net/url"
	"strings"
)

// EncodeQuery renders an Object back into a query string, the inverse of
// ParseParams for flat and object-nested inputs. Nested objects use
// bracket notation ("user[address][city]=NYC"), arrays use append
// notation ("tags[]=a&tags[]=b"), Null leaves encode as an empty value.
// Key order follows the object's insertion order.
func EncodeQuery(obj *Object) string {
	var parts []string
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		parts = appendQueryValue(parts, url.QueryEscape(key), v)
	}
	return strings.Join(parts, "&")
}

func appendQueryValue(parts []string, prefix string, v Value) []string {
	switch v.Kind() {
	case KindArray:
		elems, _ := v.AsArray()
		for _, elem := range elems {
			parts = appendQueryValue(parts, prefix+"[]", elem)
		}
		return parts
	case KindObject:
		nested, _ := v.AsObject()
		for _, key := range nested.Keys() {
			child, _ := nested.Get(key)
			parts = appendQueryValue(parts, prefix+"["+url.QueryEscape(key)+"]", child)
		}
		return parts
	case KindNull:
		return append(parts, prefix+"=")
	default:
		return append(parts, prefix+"="+url.QueryEscape(v.Text()))
	}
}
