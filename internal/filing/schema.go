package filing

import (
	"fmt"
	"time"
)

// Kind is the declared value type of a schema field.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

// String returns the kind name used in validation messages.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// accepts reports whether a runtime value agrees with the declared kind.
// Numeric widths are not significant: all integer widths satisfy KindInt
// and both float widths satisfy KindFloat.
func (k Kind) accepts(v any) bool {
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindInt:
		switch v.(type) {
		case int, int8, int16, int32, int64:
			return true
		}
		return false
	case KindFloat:
		switch v.(type) {
		case float32, float64, int, int64:
			return true
		}
		return false
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindTime:
		_, ok := v.(time.Time)
		return ok
	default:
		return false
	}
}

// FieldDef declares one schema field: its kind plus the required, indexed,
// and immutable flags the record model enforces.
type FieldDef struct {
	Name        string
	Kind        Kind
	Required    bool
	Indexed     bool
	Immutable   bool
	Description string
}

// Schema is an ordered set of field definitions. Extending a schema merges
// definitions: subtypes add or override fields but never remove base ones.
type Schema struct {
	defs   []FieldDef
	byName map[string]int
}

// NewSchema builds a schema from definitions in declaration order.
// A later definition with the same name overrides the earlier one in place.
func NewSchema(defs ...FieldDef) *Schema {
	s := &Schema{byName: make(map[string]int, len(defs))}
	for _, def := range defs {
		s.put(def)
	}
	return s
}

func (s *Schema) put(def FieldDef) {
	if i, ok := s.byName[def.Name]; ok {
		s.defs[i] = def
		return
	}
	s.byName[def.Name] = len(s.defs)
	s.defs = append(s.defs, def)
}

// Extend returns a new schema with the receiver's definitions followed by
// the given ones. The receiver is not modified.
func (s *Schema) Extend(defs ...FieldDef) *Schema {
	merged := NewSchema(s.defs...)
	for _, def := range defs {
		merged.put(def)
	}
	return merged
}

// Fields returns the definitions in declaration order.
func (s *Schema) Fields() []FieldDef {
	out := make([]FieldDef, len(s.defs))
	copy(out, s.defs)
	return out
}

// Lookup returns the definition for a field name.
func (s *Schema) Lookup(name string) (FieldDef, bool) {
	i, ok := s.byName[name]
	if !ok {
		return FieldDef{}, false
	}
	return s.defs[i], true
}

// Indexed returns the definitions the catalog exposes as queryable columns.
func (s *Schema) Indexed() []FieldDef {
	var out []FieldDef
	for _, def := range s.defs {
		if def.Indexed {
			out = append(out, def)
		}
	}
	return out
}

// Core field names shared by every filing shape.
const (
	FieldID        = "id"
	FieldSource    = "source"
	FieldChecksum  = "checksum"
	FieldName      = "name"
	FieldFormat    = "format"
	FieldIsZip     = "is_zip"
	FieldCreatedAt = "created_at"
	FieldPath      = "path"
)

// BaseSchema returns the shared base shape. id, source, name, and
// created_at are immutable once set; checksum is required but replaceable
// only through whole-record overwrite at the collection layer.
func BaseSchema() *Schema {
	return NewSchema(
		FieldDef{Name: FieldID, Kind: KindString, Required: true, Indexed: true, Immutable: true, Description: "Filing ID"},
		FieldDef{Name: FieldSource, Kind: KindString, Required: true, Indexed: true, Immutable: true, Description: "Data source"},
		FieldDef{Name: FieldChecksum, Kind: KindString, Required: true, Indexed: true, Description: "SHA-256 checksum"},
		FieldDef{Name: FieldName, Kind: KindString, Required: true, Indexed: true, Immutable: true, Description: "File name"},
		FieldDef{Name: FieldFormat, Kind: KindString, Indexed: true, Description: "Payload format"},
		FieldDef{Name: FieldIsZip, Kind: KindBool, Indexed: true, Description: "ZIP flag"},
		FieldDef{Name: FieldCreatedAt, Kind: KindTime, Required: true, Indexed: true, Immutable: true, Description: "Created timestamp"},
		FieldDef{Name: FieldPath, Kind: KindString, Indexed: true, Description: "Storage key"},
	)
}
