package schema

///////////////////////////////////////////////////////////////////////////////
// FormatKind
///////////////////////////////////////////////////////////////////////////////

// FormatKind enumerates the fixed format checks. FormatCustom requires an
// explicit pattern at construction.
type FormatKind int

const (
	FormatEmail FormatKind = iota
	FormatURL
	FormatUUID
	FormatDate
	FormatDateTime
	FormatTime
	FormatIPv4
	FormatIPv6
	FormatHostname
	FormatPhone
	FormatCustom
)

func (fk FormatKind) String() string {
	switch fk {
	case FormatEmail:
		return "email"
	case FormatURL:
		return "url"
	case FormatUUID:
		return "uuid"
	case FormatDate:
		return "date"
	case FormatDateTime:
		return "datetime"
	case FormatTime:
		return "time"
	case FormatIPv4:
		return "ipv4"
	case FormatIPv6:
		return "ipv6"
	case FormatHostname:
		return "hostname"
	case FormatPhone:
		return "phone"
	case FormatCustom:
		return "custom"
	default:
		return "unknown"
	}
}

///////////////////////////////////////////////////////////////////////////////
// Option Structs
///////////////////////////////////////////////////////////////////////////////

// Typed constraint extensions attached to a FieldDefinition. One small
// struct per validator kind instead of a loosely-typed options bag, so a
// schema definition is checked at compile time.

type LengthOpts struct {
	Min *int
	Max *int
}

type RangeOpts struct {
	Min *float64
	Max *float64
}

type FormatOpts struct {
	Kind    FormatKind
	Pattern string // required for FormatCustom
}

type PatternOpts struct {
	Expr    string
	Message string // optional override for the default error message
}

type EnumOpts struct {
	// Exactly one of the three is set; the constructor's static type
	// decides the comparison strategy (string permissive, numeric strict).
	Strings []string
	Ints    []int64
	Floats  []float64
}

type FileOpts struct {
	MaxSize         *int64
	MinSize         *int64
	AllowedTypes    []string
	AllowedExts     []string
	FilenamePattern string
}

type XPathOpts struct {
	Expr       string
	Namespaces map[string]string
}

///////////////////////////////////////////////////////////////////////////////
// FieldDefinition
///////////////////////////////////////////////////////////////////////////////

// FieldDefinition declares one expected input field: canonical name,
// declared type, presence requirement, source aliasing, and constraint
// extensions. Definitions are built once at schema-definition time and
// read-only afterwards.
type FieldDefinition struct {
	Name     string
	Type     string
	Required bool
	// Alias is the source key in the raw payload; defaults to Name.
	Alias   string
	Default *Value

	Length  *LengthOpts
	Range   *RangeOpts
	Format  *FormatOpts
	Pattern *PatternOpts
	Enum    *EnumOpts
	File    *FileOpts
	XPath   *XPathOpts

	// CustomFn runs after the built-in validators; a non-nil return is
	// collected with the custom_validation code.
	CustomFn func(Value) *FieldError
}

// SourceKey returns the key this field reads from the raw payload.
func (fd *FieldDefinition) SourceKey() string {
	if fd.Alias != "" {
		return fd.Alias
	}
	return fd.Name
}

// FieldOption mutates a FieldDefinition at declaration time.
type FieldOption func(*FieldDefinition)

// Required marks the field as mandatory. Absent, Null, and empty-string
// values all fail the requirement; empty arrays and objects do not.
func Required() FieldOption {
	return func(fd *FieldDefinition) { fd.Required = true }
}

// Alias sets the source key to read instead of the field name.
func Alias(sourceKey string) FieldOption {
	return func(fd *FieldDefinition) { fd.Alias = sourceKey }
}

// Default supplies a value applied when an optional field is absent.
func Default(v Value) FieldOption {
	return func(fd *FieldDefinition) { fd.Default = &v }
}

// MinLength constrains string character count or array element count.
func MinLength(n int) FieldOption {
	return func(fd *FieldDefinition) {
		if fd.Length == nil {
			fd.Length = &LengthOpts{}
		}
		fd.Length.Min = &n
	}
}

// MaxLength constrains string character count or array element count.
func MaxLength(n int) FieldOption {
	return func(fd *FieldDefinition) {
		if fd.Length == nil {
			fd.Length = &LengthOpts{}
		}
		fd.Length.Max = &n
	}
}

// Min constrains the numeric lower bound (inclusive).
func Min(n float64) FieldOption {
	return func(fd *FieldDefinition) {
		if fd.Range == nil {
			fd.Range = &RangeOpts{}
		}
		fd.Range.Min = &n
	}
}

// Max constrains the numeric upper bound (inclusive).
func Max(n float64) FieldOption {
	return func(fd *FieldDefinition) {
		if fd.Range == nil {
			fd.Range = &RangeOpts{}
		}
		fd.Range.Max = &n
	}
}

// Format attaches a fixed format check.
func Format(kind FormatKind) FieldOption {
	return func(fd *FieldDefinition) { fd.Format = &FormatOpts{Kind: kind} }
}

// CustomFormat attaches a FormatCustom check with its pattern.
func CustomFormat(pattern string) FieldOption {
	return func(fd *FieldDefinition) {
		fd.Format = &FormatOpts{Kind: FormatCustom, Pattern: pattern}
	}
}

// Pattern attaches an arbitrary regex constraint.
func Pattern(expr string) FieldOption {
	return func(fd *FieldDefinition) { fd.Pattern = &PatternOpts{Expr: expr} }
}

// PatternMessage attaches a regex constraint with a custom error message.
func PatternMessage(expr, message string) FieldOption {
	return func(fd *FieldDefinition) {
		fd.Pattern = &PatternOpts{Expr: expr, Message: message}
	}
}

// Enum restricts the field to a fixed set of strings. Comparison is
// permissive: the incoming value's string form is compared.
func Enum(allowed ...string) FieldOption {
	return func(fd *FieldDefinition) { fd.Enum = &EnumOpts{Strings: allowed} }
}

// IntEnum restricts the field to a fixed set of integers. Comparison is
// strict: the incoming value must be an Int with a matching value.
func IntEnum(allowed ...int64) FieldOption {
	return func(fd *FieldDefinition) { fd.Enum = &EnumOpts{Ints: allowed} }
}

// FloatEnum restricts the field to a fixed set of floats. Comparison is
// strict: the incoming value must be a Float with a matching value.
func FloatEnum(allowed ...float64) FieldOption {
	return func(fd *FieldDefinition) { fd.Enum = &EnumOpts{Floats: allowed} }
}

// File attaches upload constraints; the field value is expected to be
// FileUpload-shaped.
func File(opts FileOpts) FieldOption {
	return func(fd *FieldDefinition) { fd.File = &opts }
}

// XPath resolves the field from the retained XML document instead of the
// flattened keys. Only meaningful when the schema carries an XMLDocument.
func XPath(expr string, namespaces map[string]string) FieldOption {
	return func(fd *FieldDefinition) {
		fd.XPath = &XPathOpts{Expr: expr, Namespaces: namespaces}
	}
}

// Custom attaches a user validation hook run after the built-in
// validators.
func Custom(fn func(Value) *FieldError) FieldOption {
	return func(fd *FieldDefinition) { fd.CustomFn = fn }
}
