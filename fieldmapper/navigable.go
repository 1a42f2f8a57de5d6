package fieldmapper

import (
	"reflect"
	"time"
)

// Navigable is the read-only attribute access used to walk domain objects.
//
// Field returns the value of name and whether the object has such a field.
// Implementations must not mutate the object.
type Navigable interface {
	Field(name string) (any, bool)
}

// Map is the MapLike variant: path segments are looked up as keys.
type Map map[string]any

// Field implements Navigable.
func (m Map) Field(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Accessors is the ObjectWithAccessors variant: each field is computed on access.
type Accessors map[string]func() any

// Field implements Navigable.
func (a Accessors) Field(name string) (any, bool) {
	fn, ok := a[name]
	if !ok || fn == nil {
		return nil, false
	}
	return fn(), true
}

type stringMap map[string]string

func (m stringMap) Field(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// timeValue exposes a few conversions on instants, mostly for constant chains
// such as "Time.current.iso8601".
type timeValue struct {
	t time.Time
}

func (tv timeValue) Field(name string) (any, bool) {
	switch name {
	case "utc":
		return tv.t.UTC(), true
	case "iso8601":
		return tv.t.Format(time.RFC3339), true
	case "to_i":
		return tv.t.Unix(), true
	case "to_ms":
		return tv.t.UnixMilli(), true
	}
	return nil, false
}

// AsNavigable adapts v for path walking. It reports false for nil and for
// scalar values.
func AsNavigable(v any) (Navigable, bool) {
	if isNil(v) {
		return nil, false
	}
	switch n := v.(type) {
	case Navigable:
		return n, true
	case map[string]any:
		return Map(n), true
	case map[string]string:
		return stringMap(n), true
	case time.Time:
		return timeValue{t: n}, true
	case *time.Time:
		return timeValue{t: *n}, true
	}
	return nil, false
}

// Enumerable is implemented by domain collections that ArrayField can iterate.
type Enumerable interface {
	Items() []any
}

// Items converts a typed slice to the []any form used for ArrayField sources.
func Items[T any](s []T) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// asSequence returns the elements of v in source order.
// A nil value is an empty sequence.
func asSequence(v any) ([]any, bool) {
	if isNil(v) {
		return nil, true
	}
	switch s := v.(type) {
	case []any:
		return s, true
	case Enumerable:
		return s.Items(), true
	case []Navigable:
		return Items(s), true
	case []map[string]any:
		return Items(s), true
	case []Map:
		return Items(s), true
	case []string:
		return Items(s), true
	}
	return nil, false
}

// isNil treats typed nil pointers, maps, slices and funcs stored in an
// interface as nil, so adapters returning a nil *Plate behave like nil.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
