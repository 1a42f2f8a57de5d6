package fieldmapper

import (
	"fmt"
)

// LimsKey is the top-level key carrying the origin system name in messages.
const LimsKey = "lims"

// Mapper builds documents from objects. It is safe for concurrent use as long
// as the objects being read are.
type Mapper struct {
	constants *Constants
}

// New returns a Mapper resolving ConstantRef fields through constants.
// A nil table means NewConstants(time.Now).
func New(constants *Constants) *Mapper {
	if constants == nil {
		constants = NewConstants(nil)
	}
	return &Mapper{constants: constants}
}

// BuildOption supplies optional scopes to Build.
type BuildOption func(*scopes)

// WithParent makes parent available to ParentObject fields.
func WithParent(parent any) BuildOption {
	return func(s *scopes) {
		s.parent = parent
		s.hasParent = true
	}
}

// WithSelf makes self available to BuilderSelf fields.
func WithSelf(self Navigable) BuildOption {
	return func(s *scopes) {
		s.self = self
	}
}

type scopes struct {
	object    any
	parent    any
	hasParent bool
	self      Navigable
}

// Build produces the document described by spec for obj.
func (m *Mapper) Build(obj any, spec *DocumentSpec, opts ...BuildOption) (*Document, error) {
	s := scopes{object: obj}
	for _, opt := range opts {
		opt(&s)
	}
	return m.build(s, spec)
}

// BuildMessage produces a top-level message {"lims": LimsName, RootKey: fields}.
// self is the BuilderSelf scope and may be nil when the spec does not use it.
func (m *Mapper) BuildMessage(obj any, spec *DocumentSpec, self Navigable) (*Document, error) {
	fields, err := m.Build(obj, spec, WithSelf(self))
	if err != nil {
		return nil, err
	}

	msg := NewDocument()
	msg.Set(LimsKey, spec.LimsName)
	msg.Set(spec.RootKey, fields)
	return msg, nil
}

func (m *Mapper) build(s scopes, spec *DocumentSpec) (*Document, error) {
	doc := NewDocument()
	if spec == nil {
		return doc, nil
	}

	for _, entry := range spec.Fields {
		v, err := m.evaluate(s, entry.Spec)
		if err != nil {
			return nil, &ConfigError{Field: entry.Name, Err: err}
		}
		doc.Set(entry.Name, v)
	}
	return doc, nil
}

func (m *Mapper) evaluate(s scopes, spec FieldSpec) (any, error) {
	switch f := spec.(type) {
	case Literal:
		return f.Value, nil

	case FieldPath:
		root, err := s.root(f.Scope)
		if err != nil {
			return nil, err
		}
		return Resolve(root, f.Path), nil

	case ConstantRef:
		c, ok := m.constants.Lookup(f.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownConstant, f.Name)
		}
		if len(f.Chain) == 0 {
			return c, nil
		}
		return Resolve(c, Path{Segments: f.Chain}), nil

	case ArrayField:
		return m.evaluateArray(s, f)

	case nil:
		return nil, fmt.Errorf("missing field spec")
	}
	return nil, fmt.Errorf("unsupported field spec %T", spec)
}

func (m *Mapper) evaluateArray(s scopes, f ArrayField) (any, error) {
	raw := Resolve(s.object, f.Path)
	items, ok := asSequence(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s resolved to %T", ErrNotEnumerable, f.Path, raw)
	}

	out := make([]any, 0, len(items))
	for i, item := range items {
		child := scopes{
			object:    item,
			parent:    s.object,
			hasParent: true,
			self:      s.self,
		}
		doc, err := m.build(child, f.Children)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", f.Path, i, err)
		}
		out = append(out, doc)
	}
	return out, nil
}

func (s scopes) root(scope Scope) (any, error) {
	switch scope {
	case CurrentObject:
		return s.object, nil
	case ParentObject:
		if !s.hasParent {
			return nil, fmt.Errorf("%w: no parent object", ErrScope)
		}
		return s.parent, nil
	case BuilderSelf:
		if s.self == nil {
			return nil, fmt.Errorf("%w: no builder", ErrScope)
		}
		return s.self, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrScope, scope)
}

// Resolve walks path from root.
//
// At each step a map-like value is looked up by key and any other navigable
// value by field name. A nil intermediate, a scalar intermediate or an unknown
// field ends the walk with nil. Safe paths stop at the first nil; plain paths
// produce the same result because lookups on nil yield nil.
func Resolve(root any, path Path) any {
	cur := root
	for _, seg := range path.Segments {
		if isNil(cur) {
			return nil
		}
		nav, ok := AsNavigable(cur)
		if !ok {
			return nil
		}
		v, found := nav.Field(seg)
		if !found {
			return nil
		}
		cur = v
	}
	if isNil(cur) {
		return nil
	}
	return cur
}
