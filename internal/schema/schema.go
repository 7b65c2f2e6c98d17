// Package schema defines typed parameter schemas for tool calling.
//
// A schema is an ordered list of field definitions. Schemas are either
// hand-built (filter parameters) or derived from an entity's field catalog
// (see Derive), and every schema is checked by the same validation routine,
// so arguments behave identically no matter which component built the schema.
package schema

import (
	"fmt"
)

// Field types understood by the validator.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeBoolean = "boolean"

	// TypeDate is a string in YYYY-MM-DD form on the wire.
	TypeDate = "date"

	// TypeArray requires Items to describe the element type.
	TypeArray = "array"

	// TypeObject requires Fields to describe the nested fields.
	TypeObject = "object"

	// TypeMap accepts any JSON object without declared fields.
	TypeMap = "map"
)

// FieldDef describes a single parameter field.
type FieldDef struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`

	// Required fields must be present in the arguments. Optional fields
	// fall back to Default, or are omitted from the validated map when
	// no default is set.
	Required bool `json:"required"`
	Default  any  `json:"default,omitempty"`

	// Enum restricts a string field to the listed values.
	Enum []string `json:"enum,omitempty"`

	// Items describes array elements (type "array" only). Its Name is unused.
	Items *FieldDef `json:"items,omitempty"`

	// Fields describes nested fields (type "object" only).
	Fields []FieldDef `json:"fields,omitempty"`
}

// Schema is an immutable, ordered set of field definitions.
type Schema struct {
	fields []FieldDef
	index  map[string]int
}

// New builds a schema from the given field definitions.
// Field names must be unique and non-empty, and every type must be one the
// validator understands.
func New(fields []FieldDef) (*Schema, error) {
	s := &Schema{
		fields: make([]FieldDef, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(s.fields, fields)

	for i, f := range s.fields {
		if f.Name == "" {
			return nil, fmt.Errorf("field %d: %w", i, ErrFieldNameEmpty)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateField, f.Name)
		}
		if err := checkFieldType(f); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		s.index[f.Name] = i
	}
	return s, nil
}

// MustNew builds a schema and panics on error. For static schema literals
// whose validity is established by the package's own tests.
func MustNew(fields []FieldDef) *Schema {
	s, err := New(fields)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return s
}

// Fields returns a copy of the field definitions in schema order.
func (s *Schema) Fields() []FieldDef {
	out := make([]FieldDef, len(s.fields))
	copy(out, s.fields)
	return out
}

// Len returns the number of fields.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Field returns the definition for name.
func (s *Schema) Field(name string) (FieldDef, bool) {
	i, ok := s.index[name]
	if !ok {
		return FieldDef{}, false
	}
	return s.fields[i], true
}

// checkFieldType verifies the type tag and its nested requirements.
func checkFieldType(f FieldDef) error {
	switch f.Type {
	case TypeString, TypeInteger, TypeBoolean, TypeDate, TypeMap:
		return nil
	case TypeArray:
		if f.Items == nil {
			return fmt.Errorf("%w: array field needs Items", ErrBadFieldType)
		}
		return checkFieldType(*f.Items)
	case TypeObject:
		if len(f.Fields) == 0 {
			return fmt.Errorf("%w: object field needs Fields", ErrBadFieldType)
		}
		seen := make(map[string]bool, len(f.Fields))
		for _, nested := range f.Fields {
			if nested.Name == "" {
				return ErrFieldNameEmpty
			}
			if seen[nested.Name] {
				return fmt.Errorf("%w: %s", ErrDuplicateField, nested.Name)
			}
			seen[nested.Name] = true
			if err := checkFieldType(nested); err != nil {
				return fmt.Errorf("%s: %w", nested.Name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrBadFieldType, f.Type)
	}
}
