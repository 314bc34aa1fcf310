package schema

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

///////////////////////////////////////////////////////////////////////////////
// FormParser
///////////////////////////////////////////////////////////////////////////////

// FormParser converts ordered key/value pairs (query strings, URL-encoded
// bodies, route params) into a nested Object. Key syntax, in precedence
// order:
//
//  1. "key[2]"            array assignment at a literal index; the array
//                          grows as needed and gaps are backfilled with Null
//  2. "key[]"             append to the array at key
//  3. "key[a][b]", "k.a.b" nested object path; a path segment landing on an
//                          existing non-object value silently drops the pair
//  4. "key"               direct assignment, overwriting a prior value
//
// Every leaf string goes through scalar coercion unless RawStrings is set.
type FormParser struct {
	opts FormOptions
}

type FormOptions struct {
	// RawStrings keeps every leaf value a String instead of applying the
	// default scalar coercion.
	RawStrings bool
}

func NewFormParser() *FormParser {
	return &FormParser{}
}

func NewFormParserWithOptions(opts FormOptions) *FormParser {
	return &FormParser{opts: opts}
}

func (fp *FormParser) Name() string {
	return FormParserName
}

func (fp *FormParser) ContentTypes() []string {
	return []string{ContentTypeFormURLEncoded}
}

func (fp *FormParser) Parse(body []byte, _ string) (*Object, error) {
	return ParsePairs(SplitQuery(string(body)), fp.opts), nil
}

///////////////////////////////////////////////////////////////////////////////
// Pairs
///////////////////////////////////////////////////////////////////////////////

// Pair is one ordered key/value parameter before nesting is applied.
type Pair struct {
	Key   string
	Value string
}

// SplitQuery decodes a raw query string into ordered pairs. Unlike
// url.ParseQuery it preserves parameter order, which the nested-key
// algorithm depends on. Pairs that fail percent-decoding keep their raw
// text rather than being dropped.
func SplitQuery(query string) []Pair {
	query = strings.TrimPrefix(strings.TrimSpace(query), "?")
	if query == "" {
		return nil
	}

	var pairs []Pair
	for _, chunk := range strings.Split(query, "&") {
		if chunk == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(chunk, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			key = rawKey
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			value = rawValue
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return pairs
}

// ParseParams parses a query string into a nested Object with default
// scalar coercion.
func ParseParams(query string) *Object {
	return ParsePairs(SplitQuery(query), FormOptions{})
}

// ParsePairs applies the nested-key algorithm to ordered pairs.
func ParsePairs(pairs []Pair, opts FormOptions) *Object {
	root := NewObject()
	for _, pair := range pairs {
		leaf := coerceScalar(pair.Value)
		if opts.RawStrings {
			leaf = String(pair.Value)
		}
		assignNested(root, pair.Key, leaf)
	}
	return root
}

///////////////////////////////////////////////////////////////////////////////
// Nested-Key Algorithm
///////////////////////////////////////////////////////////////////////////////

type segmentKind int

const (
	segObject segmentKind = iota
	segIndex
	segAppend
)

type keySegment struct {
	kind  segmentKind
	name  string // object key for segObject
	index int    // array index for segIndex
}

// assignNested places val into root according to the key syntax rules.
// Shared by the form, multipart and request parsers.
func assignNested(root *Object, key string, val Value) {
	segs := splitKey(key)

	// Array segments are only meaningful in the final position; anything
	// else is treated as an unsupported shape and assigned verbatim.
	for _, seg := range segs[:len(segs)-1] {
		if seg.kind != segObject {
			root.Set(key, val)
			return
		}
	}

	last := segs[len(segs)-1]
	if last.kind == segObject {
		cur := navigate(root, segs[:len(segs)-1])
		if cur == nil {
			return // silent no-op on non-object collision
		}
		cur.Set(last.name, val)
		return
	}

	// Final segment addresses an array living at the preceding key.
	arrKey := segs[len(segs)-2]
	cur := navigate(root, segs[:len(segs)-2])
	if cur == nil {
		return
	}

	var arr []Value
	if existing, exists := cur.Get(arrKey.name); exists {
		elems, isArray := existing.AsArray()
		if !isArray {
			return // silent no-op, same as the object collision rule
		}
		arr = elems
	}

	switch last.kind {
	case segAppend:
		arr = append(arr, val)
	case segIndex:
		for len(arr) <= last.index {
			arr = append(arr, Null())
		}
		arr[last.index] = val
	}
	cur.Set(arrKey.name, ArrayOf(arr))
}

// navigate walks (and creates) the object chain for the leading segments.
// Returns nil when an existing non-object value blocks the path.
func navigate(root *Object, segs []keySegment) *Object {
	cur := root
	for _, seg := range segs {
		existing, exists := cur.Get(seg.name)
		if !exists {
			child := NewObject()
			cur.Set(seg.name, ObjectVal(child))
			cur = child
			continue
		}
		child, isObject := existing.AsObject()
		if !isObject {
			return nil
		}
		cur = child
	}
	return cur
}

// splitKey tokenizes a parameter key. Bracket groups take priority; dot
// notation applies only to bracket-free keys. Malformed bracket syntax
// degrades to a plain key.
func splitKey(key string) []keySegment {
	plain := []keySegment{{kind: segObject, name: key}}

	open := strings.IndexByte(key, '[')
	if open < 0 {
		if strings.Contains(key, ".") {
			parts := strings.Split(key, ".")
			segs := make([]keySegment, 0, len(parts))
			for _, part := range parts {
				if part == "" {
					return plain
				}
				segs = append(segs, keySegment{kind: segObject, name: part})
			}
			return segs
		}
		return plain
	}

	base := key[:open]
	if base == "" {
		return plain
	}

	segs := []keySegment{{kind: segObject, name: base}}
	rest := key[open:]
	for rest != "" {
		if rest[0] != '[' {
			return plain
		}
		closing := strings.IndexByte(rest, ']')
		if closing < 0 {
			return plain
		}
		inner := rest[1:closing]
		rest = rest[closing+1:]

		switch {
		case inner == "":
			segs = append(segs, keySegment{kind: segAppend})
		case isAllDigits(inner):
			index, err := strconv.Atoi(inner)
			if err != nil {
				return plain
			}
			segs = append(segs, keySegment{kind: segIndex, index: index})
		default:
			segs = append(segs, keySegment{kind: segObject, name: inner})
		}
	}
	return segs
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

///////////////////////////////////////////////////////////////////////////////
// Scalar Coercion
///////////////////////////////////////////////////////////////////////////////

// coerceScalar converts a leaf parameter string into a typed Value:
// "true"/"false" become Bool, integer literals Int, float literals
// (including scientific notation) Float, strings opening with '{' or '['
// are tried as embedded JSON, "null" and the empty string become Null,
// everything else stays String.
func coerceScalar(s string) Value {
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}

	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		if gjson.Valid(s) {
			return valueFromGJSON(gjson.Parse(s))
		}
		return String(s)
	}

	if s == "null" || s == "" {
		return Null()
	}
	return String(s)
}
