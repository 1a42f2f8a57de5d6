// Package fieldmapper builds plain nested documents from domain objects
// according to a declarative field mapping.
//
// A DocumentSpec lists output fields in order. Each field is one of four
// FieldSpec variants:
//
//   - Literal: a fixed value copied into the output.
//   - FieldPath: a dot-delimited accessor chain resolved against the current
//     object, the parent object, or the builder itself.
//   - ConstantRef: a named constant (such as "Time") followed by a chain,
//     resolved through injected Constants rather than global lookup.
//   - ArrayField: a path producing a sequence; each element is built with a
//     child DocumentSpec and sees the current object as its parent.
//
// Objects are read through the Navigable capability. Maps, accessor tables and
// any type implementing Field(name) are navigable; time.Time values are
// navigable through a small built-in adapter.
//
// Missing data never fails a build: a nil intermediate or an unknown field
// yields nil. Configuration mistakes do fail it, with a *ConfigError: a parent
// reference when no parent is in scope, a self reference without a builder, an
// unregistered constant, or an array path that does not produce a sequence.
//
// Example:
//
//	spec := fieldmapper.NewDocumentSpec().
//	    Add("name", fieldmapper.Literal{Value: "John Doe"}).
//	    Add("age", fieldmapper.MustFieldPath("person.age", fieldmapper.CurrentObject))
//
//	doc, err := fieldmapper.New(nil).Build(obj, spec)
//	// doc.Map() == map[string]any{"name": "John Doe", "age": 30}
package fieldmapper
