package schema

import (
	"fmt"
	"io"
	"net/http"
)

// ParseRequest reads an *http.Request into a single payload Object: the
// body goes through the format registry keyed by the Content-Type header,
// and URL query parameters are merged in through the nested-key algorithm.
// Body keys win over query keys of the same name.
//
// The body is consumed; callers needing it again must restore it
// themselves.
func ParseRequest(r *http.Request) (*Object, error) {
	return ParseRequestWith(_gFormats, r)
}

// ParseRequestWith is ParseRequest against an explicit registry.
func ParseRequestWith(reg *FormatRegistry, r *http.Request) (*Object, error) {
	var body []byte
	if r.Body != nil && r.ContentLength != 0 {
		read, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		body = read
	}

	obj, err := reg.Parse(body, r.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	if r.URL != nil && r.URL.RawQuery != "" {
		query := ParseParams(r.URL.RawQuery)
		for _, key := range query.Keys() {
			if obj.Has(key) {
				continue
			}
			v, _ := query.Get(key)
			obj.Set(key, v)
		}
	}

	return obj, nil
}
