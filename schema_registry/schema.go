package schema_registry

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linkedin/goavro/v2"
)

// ResolvedSchema is a parsed schema for one subject and version.
type ResolvedSchema struct {
	Subject string
	Version int

	// Text is the schema exactly as fetched or cached.
	Text string

	// Fingerprint is the CRC-64-AVRO (Rabin) fingerprint of the schema's
	// Parsing Canonical Form. It does not depend on whitespace or attribute
	// order in Text.
	Fingerprint uint64

	codec *goavro.Codec
	root  *avroType
}

// ParseSchema parses Avro schema text. Failures wrap ErrSchemaParse.
func ParseSchema(subject string, version int, text string) (*ResolvedSchema, error) {
	codec, err := goavro.NewCodec(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s v%d: %w", ErrSchemaParse, subject, version, err)
	}

	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		// goavro accepts bare primitive names such as string that are not JSON.
		raw = strings.TrimSpace(text)
	}

	p := &schemaParser{names: make(map[string]*avroType)}
	root, err := p.parse(raw, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %s v%d: %w", ErrSchemaParse, subject, version, err)
	}

	return &ResolvedSchema{
		Subject:     subject,
		Version:     version,
		Text:        text,
		Fingerprint: codec.Rabin,
		codec:       codec,
		root:        root,
	}, nil
}

// CanonicalForm returns the Parsing Canonical Form the fingerprint is computed from.
func (s *ResolvedSchema) CanonicalForm() string {
	return s.codec.CanonicalSchema()
}

// avroType is the subset of a schema needed to coerce plain documents into the
// native form goavro encodes, and back.
type avroType struct {
	kind     string // primitive name, "record", "enum", "fixed", "array", "map", "union" or "ref"
	name     string // full name for named types, referenced name for "ref"
	logical  string
	fields   []avroField
	symbols  []string
	size     int
	items    *avroType
	values   *avroType
	branches []*avroType

	names map[string]*avroType // shared table used to resolve refs
}

type avroField struct {
	name       string
	typ        *avroType
	hasDefault bool
}

var primitives = map[string]bool{
	"null": true, "boolean": true, "int": true, "long": true,
	"float": true, "double": true, "bytes": true, "string": true,
}

type schemaParser struct {
	names map[string]*avroType
}

func (p *schemaParser) parse(raw any, namespace string) (*avroType, error) {
	switch v := raw.(type) {
	case string:
		if primitives[v] {
			return &avroType{kind: v}, nil
		}
		return &avroType{kind: "ref", name: qualify(v, namespace), names: p.names}, nil

	case []any:
		u := &avroType{kind: "union"}
		for _, member := range v {
			t, err := p.parse(member, namespace)
			if err != nil {
				return nil, err
			}
			u.branches = append(u.branches, t)
		}
		return u, nil

	case map[string]any:
		return p.parseComplex(v, namespace)
	}
	return nil, fmt.Errorf("unexpected schema element %T", raw)
}

func (p *schemaParser) parseComplex(m map[string]any, namespace string) (*avroType, error) {
	typeName, _ := m["type"].(string)
	logical, _ := m["logicalType"].(string)

	switch typeName {
	case "record", "error", "enum", "fixed":
		name, _ := m["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("%s without a name", typeName)
		}
		if ns, ok := m["namespace"].(string); ok && !strings.Contains(name, ".") {
			namespace = ns
		}
		full := qualify(name, namespace)
		if i := strings.LastIndex(full, "."); i >= 0 {
			namespace = full[:i]
		}

		t := &avroType{kind: typeName, name: full, logical: logical}
		if typeName == "error" {
			t.kind = "record"
		}
		p.names[full] = t

		switch t.kind {
		case "record":
			rawFields, _ := m["fields"].([]any)
			for _, rf := range rawFields {
				fm, ok := rf.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("record %s: malformed field", full)
				}
				fname, _ := fm["name"].(string)
				ft, err := p.parse(fm["type"], namespace)
				if err != nil {
					return nil, fmt.Errorf("record %s field %s: %w", full, fname, err)
				}
				_, hasDefault := fm["default"]
				t.fields = append(t.fields, avroField{name: fname, typ: ft, hasDefault: hasDefault})
			}
		case "enum":
			for _, s := range asSlice(m["symbols"]) {
				if sym, ok := s.(string); ok {
					t.symbols = append(t.symbols, sym)
				}
			}
		case "fixed":
			if size, ok := m["size"].(float64); ok {
				t.size = int(size)
			}
		}
		return t, nil

	case "array":
		items, err := p.parse(m["items"], namespace)
		if err != nil {
			return nil, err
		}
		return &avroType{kind: "array", items: items}, nil

	case "map":
		values, err := p.parse(m["values"], namespace)
		if err != nil {
			return nil, err
		}
		return &avroType{kind: "map", values: values}, nil
	}

	if primitives[typeName] {
		return &avroType{kind: typeName, logical: logical}, nil
	}
	if typeName != "" {
		return &avroType{kind: "ref", name: qualify(typeName, namespace), names: p.names}, nil
	}
	// {"type": {...}} nests a full schema.
	return p.parse(m["type"], namespace)
}

func qualify(name, namespace string) string {
	if strings.Contains(name, ".") || namespace == "" {
		return name
	}
	return namespace + "." + name
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// resolve follows named references.
func (t *avroType) resolve() (*avroType, error) {
	if t.kind != "ref" {
		return t, nil
	}
	if target, ok := t.names[t.name]; ok {
		return target, nil
	}
	// Unqualified reference to a type in the null namespace.
	if i := strings.LastIndex(t.name, "."); i >= 0 {
		if target, ok := t.names[t.name[i+1:]]; ok {
			return target, nil
		}
	}
	return nil, fmt.Errorf("unknown type %q", t.name)
}

// unionName is the branch name goavro expects when wrapping a union value.
func (t *avroType) unionName() string {
	switch t.kind {
	case "record", "enum", "fixed":
		return t.name
	case "long":
		switch t.logical {
		case "timestamp-millis", "timestamp-micros", "time-micros":
			return "long." + t.logical
		}
	case "int":
		switch t.logical {
		case "date", "time-millis":
			return "int." + t.logical
		}
	}
	return t.kind
}
