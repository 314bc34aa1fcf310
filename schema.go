package schema

import (
	"regexp"
	"sync"
)

// SchemaDefinition is an ordered collection of FieldDefinitions bound to a
// parsed payload. One definition is instantiated per request and is
// immutable after the builder calls, except for the lazily-memoized
// accessor object.
//
// Definition-time faults (duplicate field, unknown type name, broken
// regex) are remembered and surface as a fatal *SchemaError from Validate,
// so a broken schema fails every request loudly instead of mis-validating.
type SchemaDefinition struct {
	fields []*FieldDefinition
	byName map[string]*FieldDefinition
	// validators built at definition time, keyed by canonical field name
	validators map[string][]Validator

	raw       *Object
	xmlDoc    *XMLDocument
	coercions *CoercionRegistry
	strict    bool
	defErr    error

	memoOnce sync.Once
	memo     *Object
}

// NewSchemaDefinition binds a schema under construction to a parsed
// payload. A nil payload is treated as empty.
func NewSchemaDefinition(raw *Object) *SchemaDefinition {
	if raw == nil {
		raw = NewObject()
	}
	return &SchemaDefinition{
		byName:     make(map[string]*FieldDefinition),
		validators: make(map[string][]Validator),
		raw:        raw,
		coercions:  _gCoercions,
	}
}

// WithXML retains the parsed XML document so xpath-bearing fields can
// bypass the flattened keys.
func (s *SchemaDefinition) WithXML(doc *XMLDocument) *SchemaDefinition {
	s.xmlDoc = doc
	return s
}

// WithCoercions swaps the process-wide coercion registry for an explicit
// one, for callers that prefer dependency injection over the singleton.
func (s *SchemaDefinition) WithCoercions(reg *CoercionRegistry) *SchemaDefinition {
	if reg != nil {
		s.coercions = reg
	}
	return s
}

// Strict makes Validate reject raw keys that no field consumes. The
// permissive default passes unknown keys through to the output object.
func (s *SchemaDefinition) Strict() *SchemaDefinition {
	s.strict = true
	return s
}

// Field declares one expected input field and builds its validator set.
func (s *SchemaDefinition) Field(name, typeName string, opts ...FieldOption) *SchemaDefinition {
	if _, dup := s.byName[name]; dup {
		s.fail(NewSchemaError("field %q declared twice", name))
		return s
	}
	if !s.coercions.Known(typeName) {
		s.fail(NewSchemaError("field %q: unknown type %q", name, typeName))
		return s
	}

	def := &FieldDefinition{Name: name, Type: typeName}
	for _, opt := range opts {
		opt(def)
	}

	s.fields = append(s.fields, def)
	s.byName[name] = def
	s.validators[name] = s.buildValidators(def)
	return s
}

// AddValidator attaches an extra validator to a declared field, for
// constraints the option set does not cover.
func (s *SchemaDefinition) AddValidator(field string, v Validator) *SchemaDefinition {
	if _, declared := s.byName[field]; !declared {
		s.fail(NewSchemaError("validator attached to undeclared field %q", field))
		return s
	}
	s.validators[field] = append(s.validators[field], v)
	return s
}

// Fields returns the declarations in declaration order.
func (s *SchemaDefinition) Fields() []*FieldDefinition {
	return s.fields
}

func (s *SchemaDefinition) fieldByName(name string) *FieldDefinition {
	return s.byName[name]
}

// fail records the first definition-time fault.
func (s *SchemaDefinition) fail(err error) {
	if s.defErr == nil {
		s.defErr = err
	}
}

// buildValidators assembles the validator chain for one declaration.
// Pattern and format compilation happens here, once, so a broken
// expression is a definition fault rather than a per-request surprise.
func (s *SchemaDefinition) buildValidators(def *FieldDefinition) []Validator {
	var vs []Validator

	if def.Required {
		vs = append(vs, NewRequiredValidator(def.Name))
	}
	vs = append(vs, NewTypeValidator(def.Name, def.Type))

	if def.Length != nil {
		vs = append(vs, NewLengthValidator(def.Name, def.Length.Min, def.Length.Max))
	}
	if def.Range != nil {
		vs = append(vs, NewRangeValidator(def.Name, def.Range.Min, def.Range.Max))
	}
	if def.Format != nil {
		fv, err := NewFormatValidator(def.Name, def.Format.Kind, def.Format.Pattern)
		if err != nil {
			s.fail(err)
		} else {
			vs = append(vs, fv)
		}
	}
	if def.Pattern != nil {
		pv, err := NewPatternValidator(def.Name, def.Pattern.Expr, def.Pattern.Message)
		if err != nil {
			s.fail(err)
		} else {
			vs = append(vs, pv)
		}
	}
	if def.Enum != nil {
		vs = append(vs, &EnumValidator{field: def.Name, opts: *def.Enum})
	}
	if def.File != nil {
		if def.File.FilenamePattern != "" {
			if _, err := regexp.Compile(def.File.FilenamePattern); err != nil {
				s.fail(NewSchemaErrorWrap(err, "field %q: invalid filename pattern", def.Name))
			}
		}
		vs = append(vs, &fileUploadValidator{field: def.Name, opts: *def.File})
	}
	if def.CustomFn != nil {
		vs = append(vs, NewCustomValidator(def.Name, def.CustomFn))
	}

	return vs
}

// fileUploadValidator adapts the standalone ValidateFileUpload into the
// per-field validator chain. The filename pattern was vetted at
// definition time, so the compile error path cannot trigger here.
type fileUploadValidator struct {
	field string
	opts  FileOpts
}

func (fv *fileUploadValidator) Validate(ctx *ValidationContext) {
	v, ok := presentValue(ctx, fv.field)
	if !ok {
		return
	}
	errs, err := ValidateFileUpload(fv.field, v, fv.opts)
	if err != nil {
		ctx.AddError(NewFieldError(fv.field, err.Error(), CodeSchemaDefinitionError))
		return
	}
	for _, fe := range errs {
		ctx.AddError(fe)
	}
}
