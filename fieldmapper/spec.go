package fieldmapper

// Scope selects the root a FieldPath is resolved against.
type Scope int

const (
	// CurrentObject is the object being built.
	CurrentObject Scope = iota
	// ParentObject is the object whose ArrayField produced the current one.
	ParentObject
	// BuilderSelf is the message builder driving the build.
	BuilderSelf
)

func (s Scope) String() string {
	switch s {
	case CurrentObject:
		return "current"
	case ParentObject:
		return "parent"
	case BuilderSelf:
		return "self"
	}
	return "unknown"
}

// FieldSpec describes how one output field is derived.
// The variants are Literal, FieldPath, ConstantRef and ArrayField.
type FieldSpec interface {
	fieldSpec()
}

// Literal copies Value into the output unchanged.
type Literal struct {
	Value any
}

// FieldPath resolves Path against the root selected by Scope.
type FieldPath struct {
	Path  Path
	Scope Scope
}

// ConstantRef resolves the constant Name and then walks Chain on it.
type ConstantRef struct {
	Name  string
	Chain []string
}

// ArrayField resolves Path to a sequence and builds each element with Children.
type ArrayField struct {
	Path     Path
	Children *DocumentSpec
}

func (Literal) fieldSpec()     {}
func (FieldPath) fieldSpec()   {}
func (ConstantRef) fieldSpec() {}
func (ArrayField) fieldSpec()  {}

// MustFieldPath builds a FieldPath from a path literal.
func MustFieldPath(path string, scope Scope) FieldPath {
	return FieldPath{Path: MustParsePath(path), Scope: scope}
}

// MustConstantRef builds a ConstantRef from "Name.chain.parts".
func MustConstantRef(ref string) ConstantRef {
	p := MustParsePath(ref)
	return ConstantRef{Name: p.Segments[0], Chain: p.Segments[1:]}
}

// Entry is one named field of a DocumentSpec.
type Entry struct {
	Name string
	Spec FieldSpec
}

// DocumentSpec is an ordered mapping from output field name to FieldSpec.
//
// RootKey and LimsName are only meaningful on top-level specs: the built
// message is {"lims": LimsName, RootKey: fields}.
type DocumentSpec struct {
	RootKey  string
	LimsName string
	Fields   []Entry
}

// NewDocumentSpec returns an empty spec.
func NewDocumentSpec() *DocumentSpec {
	return &DocumentSpec{}
}

// Add appends a field, replacing an earlier field of the same name in place.
func (d *DocumentSpec) Add(name string, spec FieldSpec) *DocumentSpec {
	for i := range d.Fields {
		if d.Fields[i].Name == name {
			d.Fields[i].Spec = spec
			return d
		}
	}
	d.Fields = append(d.Fields, Entry{Name: name, Spec: spec})
	return d
}

// Len returns the number of fields.
func (d *DocumentSpec) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Fields)
}
