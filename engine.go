package schema

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Validate runs one validation pass: for each declared field, resolve the
// raw value by alias or xpath, apply the default when an optional field is
// absent, coerce to the declared type, then run every attached validator.
// Fields are never skipped because an earlier field failed, so a Failure
// carries the complete set of violations.
//
// A coercion failure is reported as a single type mismatch and the field
// is treated as absent for its remaining validators; in particular a
// required-but-uncoercible field reports the mismatch, not an additional
// requirement error, since presence was already established.
func (s *SchemaDefinition) Validate() Result[*Object] {
	res, _ := s.ValidateDetailed()
	return res
}

// ValidateDetailed is Validate plus the finished context, for callers
// that want the accumulated warnings.
func (s *SchemaDefinition) ValidateDetailed() (Result[*Object], *ValidationContext) {
	ctx := newValidationContext(s)
	if s.defErr != nil {
		ctx.AddError(NewFieldError("", s.defErr.Error(), CodeSchemaDefinitionError))
		return Failure[*Object](s.defErr), ctx
	}

	out := NewObject()
	for _, def := range s.fields {
		s.processField(ctx, def, out)
	}
	s.processExtraKeys(ctx, out)

	if errs := ctx.Errors(); len(errs) > 0 {
		_logger.Debug().
			Int("error_count", len(errs)).
			Strs("fields", errs.Fields()).
			Msg("schema validation failed")
		return Failure[*Object](errs), ctx
	}
	return Success(out), ctx
}

func (s *SchemaDefinition) processField(ctx *ValidationContext, def *FieldDefinition, out *Object) {
	raw, exists := ctx.RawFieldValue(def.Name)

	switch {
	case !exists || raw.IsNull():
		// Absent or explicit null. The Required validator decides whether
		// that is an error; an optional field picks up its default.
		if !def.Required && def.Default != nil {
			ctx.setResolved(def.Name, *def.Default)
			out.Set(def.Name, *def.Default)
		}
	default:
		coerced, ok := s.coercions.Coerce(def.Type, raw)
		if !ok {
			ctx.AddError(NewFieldError(
				def.Name,
				fmt.Sprintf("cannot be interpreted as %s", def.Type),
				CodeTypeMismatch,
			))
			ctx.dropResolved(def.Name)
		} else {
			ctx.setResolved(def.Name, coerced)
			out.Set(def.Name, coerced)
		}
	}

	for _, v := range s.validators[def.Name] {
		v.Validate(ctx)
	}
}

// processExtraKeys handles raw keys no declaration consumed: rejected in
// strict mode, passed through to the output otherwise.
func (s *SchemaDefinition) processExtraKeys(ctx *ValidationContext, out *Object) {
	consumed := make(map[string]bool, len(s.fields))
	for _, def := range s.fields {
		if def.XPath == nil {
			consumed[def.SourceKey()] = true
		}
	}

	for _, key := range s.raw.Keys() {
		if consumed[key] {
			continue
		}
		if s.strict {
			ctx.AddError(NewFieldError(key, "is not an expected field", CodeUnexpectedField))
			continue
		}
		v, _ := s.raw.Get(key)
		out.Set(key, v)
	}
}

// validated memoizes the first successful validation for the typed
// accessors. A failed validation memoizes an empty object, so the
// accessors simply report absent fields.
func (s *SchemaDefinition) validated() *Object {
	s.memoOnce.Do(func() {
		res := s.Validate()
		if obj, ok := res.Unwrap(); ok {
			s.memo = obj
		} else {
			s.memo = NewObject()
		}
	})
	return s.memo
}

// Typed accessors keyed by canonical field name. The first call runs the
// validation pass; later calls reuse it.

func (s *SchemaDefinition) GetString(name string) (string, bool) {
	return s.validated().GetString(name)
}

func (s *SchemaDefinition) GetInt(name string) (int64, bool) {
	return s.validated().GetInt(name)
}

func (s *SchemaDefinition) GetFloat(name string) (float64, bool) {
	return s.validated().GetFloat(name)
}

func (s *SchemaDefinition) GetBool(name string) (bool, bool) {
	return s.validated().GetBool(name)
}

// ValidateTyped validates and decodes the coerced output into T through a
// JSON round-trip, so controllers can consume a plain struct with json
// tags instead of Value lookups.
func ValidateTyped[T any](s *SchemaDefinition) Result[T] {
	res := s.Validate()
	if res.IsFailure() {
		return Failure[T](res.Err())
	}

	raw, err := res.Value().MarshalJSON()
	if err != nil {
		return Failure[T](NewSchemaErrorWrap(err, "cannot serialize validated data"))
	}
	var typed T
	if err := json.Unmarshal(raw, &typed); err != nil {
		return Failure[T](NewSchemaErrorWrap(err, "validated data does not fit %T", typed))
	}
	return Success(typed)
}
