// Package schema provides a request validation and coercion engine: it
// parses heterogeneous wire formats (JSON, URL-encoded forms, multipart
// uploads, XML) into a uniform tagged-union Value, applies a declarative
// field schema (types, constraints, aliases, nesting) to produce a
// validated typed result, and reports structured errors.
//
// The package has three layers, consumed through a narrow contract:
//
//   - Parsers turn raw bytes plus an optional content type into a nested
//     *Object of Values. Selection goes through a FormatRegistry keyed by
//     normalized content type, with auto-detection fallbacks (a body
//     starting with '<' is treated as XML; otherwise a JSON decode is
//     attempted; an empty body parses to an empty object). Query strings
//     and form bodies share one nested-key algorithm: "tags[]" appends,
//     "items[2]" grows a sparse array (gaps become Null), "user[address][city]"
//     and "user.address.city" build nested objects.
//
//   - A SchemaDefinition declares expected fields via a builder:
//
//     def := schema.NewSchemaDefinition(payload).
//         Field("name", schema.TypeString, schema.Required()).
//         Field("age", schema.TypeInt64, schema.Min(0), schema.Max(150)).
//         Field("email", schema.TypeString, schema.Format(schema.FormatEmail))
//
//     res := def.Validate()
//
//     Validation resolves each field by alias or XPath, coerces it to the
//     declared type through the CoercionRegistry (custom types register
//     process-wide via RegisterCoercion), runs every attached validator,
//     and accumulates all errors in one pass. Data errors are never
//     thrown; only structurally fatal conditions (malformed payload, a
//     broken schema definition) surface as a *SchemaError.
//
//   - The outcome is a Result: Success carrying the coerced data object,
//     or Failure carrying an ErrorList of {field, message, code} records.
//     Results compose with Map, OnSuccess, OnFailure and OrElse, and a
//     Response builder renders either variant as a canonical envelope
//     {status, success, data, errors, warnings, meta, timestamp} with
//     conventional HTTP status mapping.
//
// The engine is stateless between calls: a SchemaDefinition and its
// ValidationContext are built fresh per request. The only process-wide
// mutable state is the coercion and format registries, which are
// mutex-guarded and intended to be populated before concurrent traffic
// begins.
package schema
