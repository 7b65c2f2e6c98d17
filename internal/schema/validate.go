package schema

import (
	"math"
	"strconv"
	"time"
)

// DateLayout is the wire format for date fields.
const DateLayout = "2006-01-02"

// Validate checks args against the schema and returns a coerced copy:
// defaults applied, JSON numbers narrowed to int, date strings checked,
// arrays element-checked (string arrays returned as []string), nested
// objects validated recursively. Explicit nulls on optional fields are
// treated as absent. Unknown argument keys are rejected so the caller can
// correct a misspelled parameter instead of having it silently dropped.
//
// On failure the returned error is a *ValidationError listing every
// offending field; the input map is never mutated.
func (s *Schema) Validate(args map[string]any) (map[string]any, error) {
	verr := &ValidationError{}
	out := s.validateFields(s.fields, args, "", verr)
	if len(verr.Errors) > 0 {
		return nil, verr
	}
	return out, nil
}

// validateFields applies one field list to one argument map. prefix scopes
// field names for nested objects ("recurrence_rule.interval").
func (s *Schema) validateFields(fields []FieldDef, args map[string]any, prefix string, verr *ValidationError) map[string]any {
	known := make(map[string]bool, len(fields))
	out := make(map[string]any, len(fields))

	for _, f := range fields {
		known[f.Name] = true
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}

		raw, present := args[f.Name]
		if present && raw == nil {
			present = false
		}
		if !present {
			switch {
			case f.Required:
				verr.add(path, "required")
			case f.Default != nil:
				out[f.Name] = f.Default
			}
			continue
		}

		if v, ok := s.coerce(f, raw, path, verr); ok {
			out[f.Name] = v
		}
	}

	for key := range args {
		if !known[key] {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			verr.add(path, "unknown argument")
		}
	}
	return out
}

// coerce checks one value against one field definition.
func (s *Schema) coerce(f FieldDef, raw any, path string, verr *ValidationError) (any, bool) {
	switch f.Type {
	case TypeString:
		str, ok := raw.(string)
		if !ok {
			verr.add(path, "expected string, got %T", raw)
			return nil, false
		}
		if len(f.Enum) > 0 && !containsString(f.Enum, str) {
			verr.add(path, "must be one of %v", f.Enum)
			return nil, false
		}
		return str, true

	case TypeInteger:
		n, ok := toInt(raw)
		if !ok {
			verr.add(path, "expected integer, got %v", raw)
			return nil, false
		}
		return n, true

	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			verr.add(path, "expected boolean, got %T", raw)
			return nil, false
		}
		return b, true

	case TypeDate:
		str, ok := raw.(string)
		if !ok {
			verr.add(path, "expected date string, got %T", raw)
			return nil, false
		}
		if _, err := time.Parse(DateLayout, str); err != nil {
			verr.add(path, "expected YYYY-MM-DD date, got %q", str)
			return nil, false
		}
		return str, true

	case TypeArray:
		items, ok := toSlice(raw)
		if !ok {
			verr.add(path, "expected array, got %T", raw)
			return nil, false
		}
		// String arrays come back as []string; other element types keep []any.
		if f.Items.Type == TypeString {
			elems := make([]string, 0, len(items))
			for i, item := range items {
				v, itemOK := s.coerce(*f.Items, item, indexPath(path, i), verr)
				if !itemOK {
					return nil, false
				}
				elems = append(elems, v.(string))
			}
			return elems, true
		}
		elems := make([]any, 0, len(items))
		for i, item := range items {
			v, itemOK := s.coerce(*f.Items, item, indexPath(path, i), verr)
			if !itemOK {
				return nil, false
			}
			elems = append(elems, v)
		}
		return elems, true

	case TypeObject:
		m, ok := raw.(map[string]any)
		if !ok {
			verr.add(path, "expected object, got %T", raw)
			return nil, false
		}
		before := len(verr.Errors)
		nested := s.validateFields(f.Fields, m, path, verr)
		if len(verr.Errors) > before {
			return nil, false
		}
		return nested, true

	case TypeMap:
		m, ok := raw.(map[string]any)
		if !ok {
			verr.add(path, "expected object, got %T", raw)
			return nil, false
		}
		return m, true
	}

	verr.add(path, "unsupported type %q", f.Type)
	return nil, false
}

// toInt narrows the numeric representations a JSON decoder or a native
// caller may supply. Fractional floats are rejected.
func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case float32:
		f := float64(v)
		if f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	default:
		return 0, false
	}
}

// toSlice accepts JSON-decoded and native string slices.
func toSlice(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	default:
		return nil, false
	}
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
