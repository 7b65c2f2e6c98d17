package schema

import (
	"fmt"
)

// Override adjusts a retained field during derivation. Only the description,
// the default, and optionality can change; a field's type always comes from
// the source catalog.
type Override struct {
	// Description replaces the source description when non-empty.
	Description string

	// Default replaces the source default when non-nil.
	Default any

	// Optional forces the field optional and clears any source default, so
	// an omitted argument stays absent from the validated map instead of
	// coming back as the catalog default. Combine with Default to force
	// optional while keeping a default.
	Optional bool
}

// Derive builds a new schema from a subset of an entity's field catalog.
//
// The result contains exactly the named fields in their source-catalog
// order, with overrides applied. Fields not named are dropped entirely.
// Naming a field absent from the source fails with ErrUnknownField, so a
// typo in a tool definition surfaces when the catalog is built, not on
// first use. Derivation never mutates the source and is deterministic.
func Derive(source []FieldDef, names []string, overrides map[string]Override) (*Schema, error) {
	available := make(map[string]bool, len(source))
	for _, f := range source {
		available[f.Name] = true
	}

	keep := make(map[string]bool, len(names))
	for _, name := range names {
		if !available[name] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		keep[name] = true
	}
	for name := range overrides {
		if !keep[name] {
			return nil, fmt.Errorf("%w: override for %q names a dropped or missing field", ErrUnknownField, name)
		}
	}

	fields := make([]FieldDef, 0, len(keep))
	for _, f := range source {
		if !keep[f.Name] {
			continue
		}
		// FieldDef is copied by value; Items and Fields are shared with the
		// source but never mutated by this package.
		if ov, ok := overrides[f.Name]; ok {
			if ov.Description != "" {
				f.Description = ov.Description
			}
			if ov.Optional {
				f.Required = false
				f.Default = nil
			}
			if ov.Default != nil {
				f.Default = ov.Default
			}
		}
		fields = append(fields, f)
	}

	return New(fields)
}

// MustDerive derives a schema and panics on error. For static tool
// definitions whose field names are established by the catalog's own tests.
func MustDerive(source []FieldDef, names []string, overrides map[string]Override) *Schema {
	s, err := Derive(source, names, overrides)
	if err != nil {
		panic(fmt.Sprintf("schema: %v", err))
	}
	return s
}
