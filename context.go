package schema

// ValidationContext accumulates errors and warnings during a single
// validation pass and resolves field lookups through the schema's aliasing
// and XPath rules. A context lives for exactly one Validate call; only
// validators mutate it, and only by appending.
type ValidationContext struct {
	schema   *SchemaDefinition
	raw      *Object
	resolved map[string]Value
	errors   ErrorList
	warnings ErrorList
}

func newValidationContext(schema *SchemaDefinition) *ValidationContext {
	return &ValidationContext{
		schema:   schema,
		raw:      schema.raw,
		resolved: make(map[string]Value),
	}
}

// Raw returns the raw payload object.
func (ctx *ValidationContext) Raw() *Object { return ctx.raw }

// FieldExists reports whether the named field resolves to any raw value,
// following the field's alias or xpath declaration.
func (ctx *ValidationContext) FieldExists(name string) bool {
	_, ok := ctx.RawFieldValue(name)
	return ok
}

// RawFieldValue resolves the named field's raw (pre-coercion) value.
func (ctx *ValidationContext) RawFieldValue(name string) (Value, bool) {
	def := ctx.schema.fieldByName(name)
	if def == nil {
		return ctx.raw.Get(name)
	}
	if def.XPath != nil && ctx.schema.xmlDoc != nil {
		return ctx.schema.xmlDoc.XPath(def.XPath.Expr, def.XPath.Namespaces)
	}
	return ctx.raw.Get(def.SourceKey())
}

// FieldValue returns the coerced value when the engine has produced one,
// falling back to the raw resolution. Validators read through this so they
// see the post-coercion representation.
func (ctx *ValidationContext) FieldValue(name string) (Value, bool) {
	if v, ok := ctx.resolved[name]; ok {
		return v, true
	}
	return ctx.RawFieldValue(name)
}

// setResolved records a coerced value for validator consumption.
func (ctx *ValidationContext) setResolved(name string, v Value) {
	ctx.resolved[name] = v
}

// dropResolved marks a field absent for subsequent validators (used after
// a coercion failure so presence-established fields are not re-flagged).
func (ctx *ValidationContext) dropResolved(name string) {
	ctx.resolved[name] = Null()
}

// AddError appends a collected validation error.
func (ctx *ValidationContext) AddError(fe FieldError) {
	ctx.errors = append(ctx.errors, fe)
}

// AddWarning appends an advisory record. Warnings never change the
// Success/Failure outcome.
func (ctx *ValidationContext) AddWarning(fe FieldError) {
	ctx.warnings = append(ctx.warnings, fe)
}

func (ctx *ValidationContext) Errors() ErrorList   { return ctx.errors }
func (ctx *ValidationContext) Warnings() ErrorList { return ctx.warnings }
