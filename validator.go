package schema

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Validator is one composable constraint check. Validate appends zero or
// more errors to the context and never returns early failures upward: the
// engine runs every validator for every field so one response carries the
// complete set of violations.
//
// Every validator except Required skips silently when its field is absent
// or Null, and when the value is not of a shape it can judge; absence is
// only the Required validator's business.
type Validator interface {
	Validate(ctx *ValidationContext)
}

// presentValue pulls a field value suitable for non-Required validators:
// the second return is false for absent and Null values.
func presentValue(ctx *ValidationContext, field string) (Value, bool) {
	v, ok := ctx.FieldValue(field)
	if !ok || v.IsNull() {
		return Null(), false
	}
	return v, true
}

///////////////////////////////////////////////////////////////////////////////
// Required
///////////////////////////////////////////////////////////////////////////////

// RequiredValidator fails when the field is absent, present-but-Null, or a
// literal empty string. Empty arrays and objects count as present; only
// the empty string is special-cased.
type RequiredValidator struct {
	field string
}

func NewRequiredValidator(field string) *RequiredValidator {
	return &RequiredValidator{field: field}
}

func (rv *RequiredValidator) Validate(ctx *ValidationContext) {
	v, exists := ctx.RawFieldValue(rv.field)
	if exists && !v.IsNull() {
		if s, isString := v.AsString(); !isString || s != "" {
			return
		}
	}
	ctx.AddError(NewFieldError(rv.field, "is required", CodeRequiredFieldMissing))
}

///////////////////////////////////////////////////////////////////////////////
// Type
///////////////////////////////////////////////////////////////////////////////

// TypeValidator checks the decoded value against the declared type tag.
// Float accepts integer values (widening); Array<T> and Map<String,T> are
// checked structurally, not element-wise; Time/DateTime validate by an
// ISO-8601 parse attempt.
type TypeValidator struct {
	field    string
	typeName string
}

func NewTypeValidator(field, typeName string) *TypeValidator {
	return &TypeValidator{field: field, typeName: typeName}
}

func (tv *TypeValidator) Validate(ctx *ValidationContext) {
	v, ok := presentValue(ctx, tv.field)
	if !ok {
		return
	}
	if !matchesType(tv.typeName, v, ctx.schema.coercions) {
		ctx.AddError(NewFieldError(
			tv.field,
			fmt.Sprintf("expected %s, got %s", tv.typeName, v.Kind()),
			CodeTypeMismatch,
		))
	}
}

func matchesType(typeName string, v Value, coercions *CoercionRegistry) bool {
	switch typeName {
	case TypeString:
		return v.Kind() == KindString
	case TypeInt32, TypeInt64:
		return v.Kind() == KindInt
	case TypeFloat32, TypeFloat64:
		return v.Kind() == KindFloat || v.Kind() == KindInt
	case TypeBool:
		return v.Kind() == KindBool
	case TypeTime, TypeDateTime:
		s, isString := v.AsString()
		if !isString {
			return false
		}
		for _, format := range timeFormats {
			if _, err := time.Parse(format, s); err == nil {
				return true
			}
		}
		return false
	case TypeUUID:
		s, isString := v.AsString()
		if !isString || len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	case TypeFile:
		obj, isObject := v.AsObject()
		return isObject && obj.Has(FileKeyFilename)
	}
	if strings.HasPrefix(typeName, arrayTypePrefix) {
		return v.Kind() == KindArray
	}
	if strings.HasPrefix(typeName, mapTypePrefix) {
		return v.Kind() == KindObject
	}
	// Custom registered types are judged by coercibility against the
	// schema's own registry, so an injected registry is honored here too.
	_, coercible := coercions.Coerce(typeName, v)
	return coercible
}

///////////////////////////////////////////////////////////////////////////////
// Length
///////////////////////////////////////////////////////////////////////////////

// LengthValidator constrains string character counts and array element
// counts. Other value shapes are skipped silently.
type LengthValidator struct {
	field string
	min   *int
	max   *int
}

func NewLengthValidator(field string, min, max *int) *LengthValidator {
	return &LengthValidator{field: field, min: min, max: max}
}

func (lv *LengthValidator) Validate(ctx *ValidationContext) {
	v, ok := presentValue(ctx, lv.field)
	if !ok {
		return
	}

	var length int
	switch v.Kind() {
	case KindString:
		s, _ := v.AsString()
		length = len([]rune(s))
	case KindArray:
		arr, _ := v.AsArray()
		length = len(arr)
	default:
		return
	}

	if lv.min != nil && length < *lv.min {
		ctx.AddError(NewFieldError(
			lv.field,
			fmt.Sprintf("length %d is below minimum %d", length, *lv.min),
			CodeLengthOutOfRange,
		))
	}
	if lv.max != nil && length > *lv.max {
		ctx.AddError(NewFieldError(
			lv.field,
			fmt.Sprintf("length %d exceeds maximum %d", length, *lv.max),
			CodeLengthOutOfRange,
		))
	}
}

///////////////////////////////////////////////////////////////////////////////
// Range
///////////////////////////////////////////////////////////////////////////////

// RangeValidator constrains numeric values, widened to float64 for
// comparison. Non-numeric shapes are skipped silently.
type RangeValidator struct {
	field string
	min   *float64
	max   *float64
}

func NewRangeValidator(field string, min, max *float64) *RangeValidator {
	return &RangeValidator{field: field, min: min, max: max}
}

func (rv *RangeValidator) Validate(ctx *ValidationContext) {
	v, ok := presentValue(ctx, rv.field)
	if !ok {
		return
	}
	n, isNumeric := v.AsFloat()
	if !isNumeric {
		return
	}

	if rv.min != nil && n < *rv.min {
		ctx.AddError(NewFieldError(
			rv.field,
			fmt.Sprintf("%v is below minimum %v", v.Text(), *rv.min),
			CodeRangeOutOfRange,
		))
	}
	if rv.max != nil && n > *rv.max {
		ctx.AddError(NewFieldError(
			rv.field,
			fmt.Sprintf("%v exceeds maximum %v", v.Text(), *rv.max),
			CodeRangeOutOfRange,
		))
	}
}

///////////////////////////////////////////////////////////////////////////////
// Format
///////////////////////////////////////////////////////////////////////////////

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hostnameRegexp = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?(\.[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?)*$`)
	phoneRegexp    = regexp.MustCompile(`^\+?[0-9][0-9 ().\-]{5,18}[0-9]$`)
	dateRegexp     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clockRegexp    = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
)

// FormatValidator checks a string field against one of the fixed format
// kinds. FormatCustom requires a pattern, compiled at construction.
type FormatValidator struct {
	field  string
	kind   FormatKind
	custom *regexp.Regexp
}

func NewFormatValidator(field string, kind FormatKind, pattern string) (*FormatValidator, error) {
	fv := &FormatValidator{field: field, kind: kind}
	if kind == FormatCustom {
		if pattern == "" {
			return nil, NewSchemaError("format validator for %q: custom format requires a pattern", field)
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, NewSchemaErrorWrap(err, "format validator for %q: invalid pattern", field)
		}
		fv.custom = re
	}
	return fv, nil
}

func (fv *FormatValidator) Validate(ctx *ValidationContext) {
	v, ok := presentValue(ctx, fv.field)
	if !ok {
		return
	}
	s, isString := v.AsString()
	if !isString {
		return
	}

	if !fv.matches(s) {
		ctx.AddError(NewFieldError(
			fv.field,
			fmt.Sprintf("is not a valid %s", fv.kind),
			CodeInvalidFormat,
		))
	}
}

func (fv *FormatValidator) matches(s string) bool {
	switch fv.kind {
	case FormatEmail:
		return emailRegexp.MatchString(s)
	case FormatURL:
		u, err := url.ParseRequestURI(s)
		return err == nil && u.Scheme != "" && u.Host != ""
	case FormatUUID:
		if len(s) != 36 {
			return false
		}
		_, err := uuid.Parse(s)
		return err == nil
	case FormatDate:
		if !dateRegexp.MatchString(s) {
			return false
		}
		_, err := time.Parse("2006-01-02", s)
		return err == nil
	case FormatDateTime:
		_, err := time.Parse(time.RFC3339, s)
		return err == nil
	case FormatTime:
		// Both the shape and the clock values are checked; 25:00:00 has
		// the right shape but does not parse.
		if !clockRegexp.MatchString(s) {
			return false
		}
		_, err := time.Parse("15:04:05", s)
		return err == nil
	case FormatIPv4:
		ip := net.ParseIP(s)
		return ip != nil && ip.To4() != nil && strings.Contains(s, ".")
	case FormatIPv6:
		ip := net.ParseIP(s)
		return ip != nil && strings.Contains(s, ":")
	case FormatHostname:
		return len(s) <= 253 && hostnameRegexp.MatchString(s)
	case FormatPhone:
		return phoneRegexp.MatchString(s)
	case FormatCustom:
		return fv.custom.MatchString(s)
	default:
		return false
	}
}

///////////////////////////////////////////////////////////////////////////////
// Pattern
///////////////////////////////////////////////////////////////////////////////

// PatternValidator matches a string field against an arbitrary regex, with
// an optional custom error message.
type PatternValidator struct {
	field   string
	re      *regexp.Regexp
	message string
}

func NewPatternValidator(field, expr, message string) (*PatternValidator, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, NewSchemaErrorWrap(err, "pattern validator for %q: invalid pattern", field)
	}
	if message == "" {
		message = fmt.Sprintf("does not match pattern %s", expr)
	}
	return &PatternValidator{field: field, re: re, message: message}, nil
}

func (pv *PatternValidator) Validate(ctx *ValidationContext) {
	v, ok := presentValue(ctx, pv.field)
	if !ok {
		return
	}
	s, isString := v.AsString()
	if !isString {
		return
	}
	if !pv.re.MatchString(s) {
		ctx.AddError(NewFieldError(pv.field, pv.message, CodePatternMismatch))
	}
}

///////////////////////////////////////////////////////////////////////////////
// Enum
///////////////////////////////////////////////////////////////////////////////

// EnumValidator restricts a field to a fixed allowed set. The constructor
// used decides the comparison strategy: string enums compare the incoming
// value's string form (permissive), numeric enums require the runtime
// numeric kind and value to match exactly (strict). Null values are always
// skipped.
type EnumValidator struct {
	field string
	opts  EnumOpts
}

func NewStringEnumValidator(field string, allowed []string) *EnumValidator {
	return &EnumValidator{field: field, opts: EnumOpts{Strings: allowed}}
}

func NewIntEnumValidator(field string, allowed []int64) *EnumValidator {
	return &EnumValidator{field: field, opts: EnumOpts{Ints: allowed}}
}

func NewFloatEnumValidator(field string, allowed []float64) *EnumValidator {
	return &EnumValidator{field: field, opts: EnumOpts{Floats: allowed}}
}

func (ev *EnumValidator) Validate(ctx *ValidationContext) {
	v, ok := presentValue(ctx, ev.field)
	if !ok {
		return
	}

	switch {
	case ev.opts.Strings != nil:
		if lo.Contains(ev.opts.Strings, v.Text()) {
			return
		}
	case ev.opts.Ints != nil:
		if i, isInt := v.AsInt(); isInt && lo.Contains(ev.opts.Ints, i) {
			return
		}
	case ev.opts.Floats != nil:
		if v.Kind() == KindFloat {
			f, _ := v.AsFloat()
			if lo.Contains(ev.opts.Floats, f) {
				return
			}
		}
	default:
		return
	}

	ctx.AddError(NewFieldError(
		ev.field,
		fmt.Sprintf("%s is not an allowed value", v.Text()),
		CodeInvalidEnumValue,
	))
}

///////////////////////////////////////////////////////////////////////////////
// Custom
///////////////////////////////////////////////////////////////////////////////

// CustomValidator adapts a user hook into the validator set. A nil return
// passes; a non-nil FieldError is collected with its field defaulted to
// the declared field and its code defaulted to custom_validation.
type CustomValidator struct {
	field string
	fn    func(Value) *FieldError
}

func NewCustomValidator(field string, fn func(Value) *FieldError) *CustomValidator {
	return &CustomValidator{field: field, fn: fn}
}

func (cv *CustomValidator) Validate(ctx *ValidationContext) {
	v, ok := presentValue(ctx, cv.field)
	if !ok {
		return
	}
	fe := cv.fn(v)
	if fe == nil {
		return
	}
	if fe.Field == "" {
		fe.Field = cv.field
	}
	if fe.Code == "" {
		fe.Code = CodeCustomValidation
	}
	ctx.AddError(*fe)
}
