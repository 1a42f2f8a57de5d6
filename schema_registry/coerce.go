package schema_registry

import (
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/linkedin/goavro/v2"

	"github.com/aalemi-dev/lims-events/fieldmapper"
)

// toNative converts a built document value into the native form goavro
// expects for t. Records accept *fieldmapper.Document, plain maps and any
// fieldmapper.Navigable. Union values are wrapped in the first branch that
// accepts them.
func toNative(t *avroType, value any, path string) (any, error) {
	t, err := t.resolve()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	switch t.kind {
	case "null":
		if value != nil {
			return nil, fmt.Errorf("%s: expected null, got %T", path, value)
		}
		return nil, nil

	case "boolean":
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%s: expected boolean, got %T", path, value)
		}
		return b, nil

	case "int":
		return intNative(t, value, path)

	case "long":
		return longNative(t, value, path)

	case "float", "double":
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("%s: expected %s, got %T", path, t.kind, value)
		}
		if t.kind == "float" {
			return float32(f), nil
		}
		return f, nil

	case "string":
		switch s := value.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		case time.Time:
			return s.Format(time.RFC3339Nano), nil
		case fmt.Stringer:
			if !isNilValue(value) {
				return s.String(), nil
			}
		}
		return nil, fmt.Errorf("%s: expected string, got %T", path, value)

	case "bytes":
		switch b := value.(type) {
		case []byte:
			return b, nil
		case string:
			return []byte(b), nil
		}
		return nil, fmt.Errorf("%s: expected bytes, got %T", path, value)

	case "fixed":
		var b []byte
		switch v := value.(type) {
		case []byte:
			b = v
		case string:
			b = []byte(v)
		default:
			return nil, fmt.Errorf("%s: expected fixed %s, got %T", path, t.name, value)
		}
		if len(b) != t.size {
			return nil, fmt.Errorf("%s: fixed %s needs %d bytes, got %d", path, t.name, t.size, len(b))
		}
		return b, nil

	case "enum":
		s, ok := value.(string)
		if !ok {
			if st, isStringer := value.(fmt.Stringer); isStringer && !isNilValue(value) {
				s, ok = st.String(), true
			}
		}
		if !ok {
			return nil, fmt.Errorf("%s: expected enum %s symbol, got %T", path, t.name, value)
		}
		for _, sym := range t.symbols {
			if sym == s {
				return s, nil
			}
		}
		return nil, fmt.Errorf("%s: %q is not a symbol of enum %s", path, s, t.name)

	case "array":
		items, ok := sequence(value)
		if !ok {
			return nil, fmt.Errorf("%s: expected array, got %T", path, value)
		}
		out := make([]any, len(items))
		for i, item := range items {
			n, err := toNative(t.items, item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil

	case "map":
		entries, ok := stringKeyed(value)
		if !ok {
			return nil, fmt.Errorf("%s: expected map, got %T", path, value)
		}
		out := make(map[string]any, len(entries))
		for k, v := range entries {
			n, err := toNative(t.values, v, path+"."+k)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil

	case "record":
		return recordNative(t, value, path)

	case "union":
		return unionNative(t, value, path)
	}

	return nil, fmt.Errorf("%s: unsupported schema type %q", path, t.kind)
}

func recordNative(t *avroType, value any, path string) (any, error) {
	lookup, ok := fieldLookup(value)
	if !ok {
		return nil, fmt.Errorf("%s: expected record %s, got %T", path, t.name, value)
	}

	out := make(map[string]any, len(t.fields))
	for _, f := range t.fields {
		fieldPath := joinPath(path, f.name)
		v, present := lookup(f.name)
		if !present && f.hasDefault {
			continue
		}
		n, err := toNative(f.typ, v, fieldPath)
		if err != nil {
			if !present {
				return nil, fmt.Errorf("%s: required field is missing", fieldPath)
			}
			return nil, err
		}
		out[f.name] = n
	}
	return out, nil
}

func unionNative(t *avroType, value any, path string) (any, error) {
	for _, branch := range t.branches {
		b, err := branch.resolve()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if b.kind == "null" {
			if value == nil || isNilValue(value) {
				return nil, nil
			}
			continue
		}
		if value == nil {
			continue
		}
		n, err := toNative(b, value, path)
		if err != nil {
			continue
		}
		return goavro.Union(b.unionName(), n), nil
	}
	return nil, fmt.Errorf("%s: %T matches no branch of the union", path, value)
}

func intNative(t *avroType, value any, path string) (any, error) {
	if tm, ok := value.(time.Time); ok {
		switch t.logical {
		case "date":
			return tm, nil
		case "time-millis":
			return sinceMidnight(tm), nil
		}
	}
	if d, ok := value.(time.Duration); ok && t.logical == "time-millis" {
		return d, nil
	}
	i, ok := toInt(value)
	if !ok {
		return nil, fmt.Errorf("%s: expected int, got %T", path, value)
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return nil, fmt.Errorf("%s: %d overflows int", path, i)
	}
	return int32(i), nil
}

func longNative(t *avroType, value any, path string) (any, error) {
	if tm, ok := value.(time.Time); ok {
		switch t.logical {
		case "timestamp-millis", "timestamp-micros":
			return tm, nil
		case "time-micros":
			return sinceMidnight(tm), nil
		case "":
			// Plain longs carrying instants use epoch milliseconds.
			return tm.UnixMilli(), nil
		}
	}
	if d, ok := value.(time.Duration); ok && t.logical == "time-micros" {
		return d, nil
	}
	i, ok := toInt(value)
	if !ok {
		return nil, fmt.Errorf("%s: expected long, got %T", path, value)
	}
	return i, nil
}

func sinceMidnight(t time.Time) time.Duration {
	y, m, d := t.Date()
	return t.Sub(time.Date(y, m, d, 0, 0, 0, 0, t.Location()))
}

func toInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return 0, false
		}
		return int64(v), true
	case float64:
		// JSON-decoded numbers arrive as float64.
		if v == math.Trunc(v) && v >= math.MinInt64 && v < math.MaxInt64 {
			return int64(v), true
		}
	}
	return 0, false
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	}
	if i, ok := toInt(value); ok {
		return float64(i), true
	}
	return 0, false
}

func fieldLookup(value any) (func(string) (any, bool), bool) {
	switch v := value.(type) {
	case map[string]any:
		return func(name string) (any, bool) { x, ok := v[name]; return x, ok }, true
	case fieldmapper.Navigable:
		if isNilValue(value) {
			return nil, false
		}
		return v.Field, true
	}
	return nil, false
}

func stringKeyed(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case fieldmapper.Map:
		return v, true
	case *fieldmapper.Document:
		if v == nil {
			return nil, false
		}
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			out[k], _ = v.Get(k)
		}
		return out, true
	case map[string]string:
		out := make(map[string]any, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out, true
	}
	return nil, false
}

func sequence(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case fieldmapper.Enumerable:
		if isNilValue(value) {
			return nil, false
		}
		return v.Items(), true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func isNilValue(v any) bool {
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

func joinPath(path, field string) string {
	if path == "" {
		return field
	}
	return path + "." + field
}

// fromNative converts goavro's decoded value back into plain Go values,
// dropping union wrappers.
func fromNative(t *avroType, value any) any {
	t, err := t.resolve()
	if err != nil {
		return value
	}

	switch t.kind {
	case "union":
		m, ok := value.(map[string]any)
		if !ok || len(m) != 1 {
			return value
		}
		for name, inner := range m {
			for _, branch := range t.branches {
				b, err := branch.resolve()
				if err == nil && b.unionName() == name {
					return fromNative(b, inner)
				}
			}
			return inner
		}
	case "record":
		m, ok := value.(map[string]any)
		if !ok {
			return value
		}
		out := make(map[string]any, len(m))
		for _, f := range t.fields {
			if v, present := m[f.name]; present {
				out[f.name] = fromNative(f.typ, v)
			}
		}
		return out
	case "array":
		items, ok := value.([]any)
		if !ok {
			return value
		}
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = fromNative(t.items, item)
		}
		return out
	case "map":
		m, ok := value.(map[string]any)
		if !ok {
			return value
		}
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = fromNative(t.values, v)
		}
		return out
	}
	return value
}
