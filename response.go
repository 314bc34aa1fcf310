package schema

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

///////////////////////////////////////////////////////////////////////////////
// Envelope
///////////////////////////////////////////////////////////////////////////////

// ResponseStatus is the envelope-level outcome marker.
type ResponseStatus string

const (
	StatusSuccess        ResponseStatus = "success"
	StatusPartialSuccess ResponseStatus = "partial_success"
	StatusError          ResponseStatus = "error"
)

// Response is the canonical envelope rendered for every outcome, whether
// built from a Result or assembled by hand.
type Response struct {
	Status    ResponseStatus `json:"status"`
	Success   bool           `json:"success"`
	Data      *Value         `json:"data,omitempty"`
	Errors    ErrorList      `json:"errors,omitempty"`
	Warnings  ErrorList      `json:"warnings,omitempty"`
	Meta      *Object        `json:"meta,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// HTTPStatus maps the envelope to a conventional status code: 200 for
// success (206 for partial success), 422 when any error is a
// validation-kind error, 400 otherwise.
func (r Response) HTTPStatus() int {
	switch r.Status {
	case StatusSuccess:
		return http.StatusOK
	case StatusPartialSuccess:
		return http.StatusPartialContent
	default:
		if r.Errors.hasValidationKind() {
			return http.StatusUnprocessableEntity
		}
		return http.StatusBadRequest
	}
}

// Write renders the envelope as JSON onto w with its mapped status code.
func (r Response) Write(w http.ResponseWriter) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(r.HTTPStatus())
	_, err = w.Write(body)
	return err
}

///////////////////////////////////////////////////////////////////////////////
// Pagination
///////////////////////////////////////////////////////////////////////////////

// Pagination is the standard paging metadata block.
type Pagination struct {
	Page       int64 `json:"page"`
	PerPage    int64 `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewPagination computes total_pages = ceil(total / per_page). A
// non-positive per_page yields zero pages.
func NewPagination(page, perPage, total int64) Pagination {
	p := Pagination{Page: page, PerPage: perPage, Total: total}
	if perPage > 0 {
		p.TotalPages = (total + perPage - 1) / perPage
	}
	return p
}

func (p Pagination) toObject() *Object {
	obj := NewObject()
	obj.Set("page", Int(p.Page))
	obj.Set("per_page", Int(p.PerPage))
	obj.Set("total", Int(p.Total))
	obj.Set("total_pages", Int(p.TotalPages))
	return obj
}

///////////////////////////////////////////////////////////////////////////////
// Builder
///////////////////////////////////////////////////////////////////////////////

// ResponseBuilder assembles an envelope. Zero value is not usable; start
// from NewResponse or FromResult.
type ResponseBuilder struct {
	resp Response
}

// NewResponse starts an empty successful envelope.
func NewResponse() *ResponseBuilder {
	return &ResponseBuilder{resp: Response{Status: StatusSuccess, Success: true}}
}

// FromResult seeds the envelope from a validation result: the coerced
// data object on Success, the collected errors on Failure.
func FromResult(res Result[*Object]) *ResponseBuilder {
	rb := NewResponse()
	if obj, ok := res.Unwrap(); ok {
		return rb.WithData(ObjectVal(obj))
	}
	return rb.WithErrors(res.Errors())
}

func (rb *ResponseBuilder) WithData(data Value) *ResponseBuilder {
	rb.resp.Data = &data
	return rb
}

// WithErrors attaches errors and flips the envelope to the error status.
// An empty list is ignored: a failure envelope always carries at least
// one error.
func (rb *ResponseBuilder) WithErrors(errs ErrorList) *ResponseBuilder {
	if len(errs) == 0 {
		return rb
	}
	rb.resp.Errors = append(rb.resp.Errors, errs...)
	rb.resp.Status = StatusError
	rb.resp.Success = false
	return rb
}

// WithWarnings attaches advisory records without changing the outcome.
func (rb *ResponseBuilder) WithWarnings(warnings ErrorList) *ResponseBuilder {
	rb.resp.Warnings = append(rb.resp.Warnings, warnings...)
	return rb
}

// Partial marks a successful envelope as a partial success (HTTP 206).
func (rb *ResponseBuilder) Partial() *ResponseBuilder {
	if rb.resp.Success {
		rb.resp.Status = StatusPartialSuccess
	}
	return rb
}

// WithMeta sets one metadata entry, preserving insertion order.
func (rb *ResponseBuilder) WithMeta(key string, v Value) *ResponseBuilder {
	if rb.resp.Meta == nil {
		rb.resp.Meta = NewObject()
	}
	rb.resp.Meta.Set(key, v)
	return rb
}

// WithPagination attaches the paging block under meta.pagination.
func (rb *ResponseBuilder) WithPagination(p Pagination) *ResponseBuilder {
	return rb.WithMeta("pagination", ObjectVal(p.toObject()))
}

// Build stamps the envelope. The timestamp is assigned here so a builder
// can be prepared ahead of time.
func (rb *ResponseBuilder) Build() Response {
	resp := rb.resp
	resp.Timestamp = time.Now().UTC()
	return resp
}
