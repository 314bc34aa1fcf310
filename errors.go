package schema

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

///////////////////////////////////////////////////////////////////////////////
// Error Codes
///////////////////////////////////////////////////////////////////////////////

// Machine-readable codes attached to collected field errors. The set is the
// public contract with API consumers; codes are stable even when messages
// change.
const (
	CodeRequiredFieldMissing = "required_field_missing"
	CodeTypeMismatch         = "type_mismatch"
	CodeLengthOutOfRange     = "length_out_of_range"
	CodeRangeOutOfRange      = "range_out_of_range"
	CodeInvalidFormat        = "invalid_format"
	CodeInvalidEnumValue     = "invalid_enum_value"
	CodePatternMismatch      = "pattern_mismatch"
	CodeCustomValidation     = "custom_validation"
	CodeUnexpectedField      = "unexpected_field"
	// CodeSchemaDefinitionError marks the fatal kind: it renders a
	// *SchemaError in the envelope and is not a per-field data error.
	CodeSchemaDefinitionError = "schema_definition_error"
)

// Codes for file upload validation.
const (
	CodeNotAFile             = "not_a_file"
	CodeFileTooLarge         = "file_too_large"
	CodeFileTooSmall         = "file_too_small"
	CodeInvalidContentType   = "invalid_content_type"
	CodeInvalidFileExtension = "invalid_file_extension"
	CodeInvalidFilename      = "invalid_filename"
)

// validationCodes is the set of codes that map a failed request to HTTP 422
// rather than a generic 400.
var validationCodes = []string{
	CodeRequiredFieldMissing,
	CodeTypeMismatch,
	CodeLengthOutOfRange,
	CodeRangeOutOfRange,
	CodeInvalidFormat,
	CodeInvalidEnumValue,
	CodePatternMismatch,
	CodeCustomValidation,
	CodeUnexpectedField,
	CodeNotAFile,
	CodeFileTooLarge,
	CodeFileTooSmall,
	CodeInvalidContentType,
	CodeInvalidFileExtension,
	CodeInvalidFilename,
}

///////////////////////////////////////////////////////////////////////////////
// FieldError
///////////////////////////////////////////////////////////////////////////////

// FieldError is one collected validation failure. Data errors are always
// accumulated as FieldErrors and never thrown; only SchemaError aborts a
// request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details *Value `json:"details,omitempty"`
}

// Error implements the error interface.
func (fe FieldError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", fe.Field, fe.Message, fe.Code)
}

// NewFieldError builds a FieldError without details.
func NewFieldError(field, message, code string) FieldError {
	return FieldError{Field: field, Message: message, Code: code}
}

// WithDetails attaches a details Value, returning a copy.
func (fe FieldError) WithDetails(details Value) FieldError {
	fe.Details = &details
	return fe
}

///////////////////////////////////////////////////////////////////////////////
// ErrorList
///////////////////////////////////////////////////////////////////////////////

// ErrorList is the collection form carried by Failure results. It
// implements error so a Failure can flow through ordinary error plumbing.
type ErrorList []FieldError

func (el ErrorList) Error() string {
	if len(el) == 0 {
		return "validation failed"
	}
	msgs := lo.Map(el, func(fe FieldError, _ int) string {
		return fe.Error()
	})
	return strings.Join(msgs, "; ")
}

// ByField groups errors by field name for controller-facing rendering.
func (el ErrorList) ByField() map[string]ErrorList {
	grouped := lo.GroupBy(el, func(fe FieldError) string {
		return fe.Field
	})
	out := make(map[string]ErrorList, len(grouped))
	for field, errs := range grouped {
		out[field] = errs
	}
	return out
}

// Fields returns the distinct field names that have errors, in first-error
// order.
func (el ErrorList) Fields() []string {
	return lo.Uniq(lo.Map(el, func(fe FieldError, _ int) string {
		return fe.Field
	}))
}

// HasCode reports whether any collected error carries the given code.
func (el ErrorList) HasCode(code string) bool {
	return lo.ContainsBy(el, func(fe FieldError) bool {
		return fe.Code == code
	})
}

// hasValidationKind reports whether any error is a validation-kind error
// (vs. an ad hoc application error placed in the envelope by hand).
func (el ErrorList) hasValidationKind() bool {
	return lo.ContainsBy(el, func(fe FieldError) bool {
		return lo.Contains(validationCodes, fe.Code)
	})
}

///////////////////////////////////////////////////////////////////////////////
// SchemaError
///////////////////////////////////////////////////////////////////////////////

// SchemaError is the single fatal error kind: unrecoverable payload syntax
// (malformed JSON/XML) or a broken schema definition (bad regex, unknown
// type name). It aborts parsing/validation outright; the surrounding layer
// turns it into a 4xx/5xx before field validation ever runs.
type SchemaError struct {
	reason string
	cause  error
}

func NewSchemaError(format string, args ...any) *SchemaError {
	return &SchemaError{reason: fmt.Sprintf(format, args...)}
}

func NewSchemaErrorWrap(err error, format string, args ...any) *SchemaError {
	return &SchemaError{reason: fmt.Sprintf(format, args...), cause: err}
}

func (se *SchemaError) Error() string {
	if se.cause != nil {
		return fmt.Sprintf("%s: %v", se.reason, se.cause)
	}
	return se.reason
}

func (se *SchemaError) Unwrap() error { return se.cause }

// FieldError renders the fatal error as a single collected error so it can
// share the envelope shape.
func (se *SchemaError) FieldError() FieldError {
	return NewFieldError("", se.Error(), CodeSchemaDefinitionError)
}
