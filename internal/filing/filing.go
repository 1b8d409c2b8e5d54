package filing

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

// TimeFormat is the wire encoding for time-kind fields in maps and in the
// catalog. RFC 3339 text sorts chronologically, which the catalog relies on
// for ordered comparisons.
const TimeFormat = time.RFC3339Nano

// Filing is one disclosure-document metadata record. Implementations share
// the dynamic Base container; source-specific variants embed it and add
// typed getters.
type Filing interface {
	ID() string
	Source() string
	Checksum() string
	Name() string
	Format() string
	IsZip() bool
	CreatedAt() time.Time
	Path() string

	// Get returns the raw value of a field, declared or extra.
	Get(name string) (any, bool)

	// Set assigns a field value. Declared immutable fields reject
	// reassignment once populated; declared kinds are enforced.
	Set(name string, value any) error

	// ToMap returns the full record with time fields encoded as
	// TimeFormat strings. FromMap of the result reconstructs an equal
	// record.
	ToMap() map[string]any

	// IndexedFields returns name to value for every field the catalog
	// exposes as a queryable column, encoded as in ToMap.
	IndexedFields() map[string]any

	Schema() *Schema
	Equal(other Filing) bool
	String() string
}

// Base is the dynamic field container behind every filing shape. Values
// live in a flat map validated against the declared schema; keys outside
// the schema are retained opaquely so unknown sources round-trip.
type Base struct {
	label  string
	schema *Schema
	values map[string]any
}

// New constructs a base-shape filing, validating presence and type of every
// declared field. All violations are aggregated into one ValidationError.
func New(values map[string]any) (*Base, error) {
	return newBase(BaseSchema(), "Filing", values)
}

// FromMap reconstructs a base-shape filing from a ToMap result. It applies
// the same field-level validation as New.
func FromMap(values map[string]any) (*Base, error) {
	return New(values)
}

func newBase(schema *Schema, label string, values map[string]any) (*Base, error) {
	b := &Base{
		label:  label,
		schema: schema,
		values: make(map[string]any, len(values)),
	}

	var violations []*FieldError

	// Declared fields first, in declaration order, so aggregated errors
	// are deterministic.
	for _, def := range schema.Fields() {
		v, present := values[def.Name]
		if !present || v == nil {
			if def.Required {
				violations = append(violations, &FieldError{Field: def.Name, Kind: FieldRequired})
			}
			continue
		}
		nv, ferr := coerce(def, v)
		if ferr != nil {
			violations = append(violations, ferr)
			continue
		}
		b.values[def.Name] = nv
	}

	// Extra fields are kept opaquely, numeric widths normalized so value
	// equality is stable across round trips.
	extras := make([]string, 0)
	for k := range values {
		if _, declared := schema.Lookup(k); !declared {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		if v := values[k]; v != nil {
			b.values[k] = normalizeScalar(v)
		}
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return b, nil
}

// coerce checks a value against a declared field and normalizes numeric
// widths and time encodings.
func coerce(def FieldDef, v any) (any, *FieldError) {
	typeErr := func() *FieldError {
		return &FieldError{
			Field:    def.Name,
			Kind:     FieldType,
			Expected: def.Kind.String(),
			Actual:   fmt.Sprintf("%T", v),
		}
	}

	switch def.Kind {
	case KindTime:
		switch t := v.(type) {
		case time.Time:
			return t, nil
		case string:
			parsed, err := time.Parse(TimeFormat, t)
			if err != nil {
				return nil, typeErr()
			}
			return parsed, nil
		default:
			return nil, typeErr()
		}
	case KindInt:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int8:
			return int64(n), nil
		case int16:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case float64:
			// JSON decodes every number as float64; accept integral ones.
			if n == float64(int64(n)) {
				return int64(n), nil
			}
			return nil, typeErr()
		default:
			return nil, typeErr()
		}
	case KindFloat:
		switch n := v.(type) {
		case float64:
			return n, nil
		case float32:
			return float64(n), nil
		case int:
			return float64(n), nil
		case int64:
			return float64(n), nil
		default:
			return nil, typeErr()
		}
	default:
		if !def.Kind.accepts(v) {
			return nil, typeErr()
		}
		return v, nil
	}
}

func normalizeScalar(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case float32:
		return float64(n)
	default:
		return v
	}
}

// Get returns the raw value of a field.
func (b *Base) Get(name string) (any, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Set assigns a field value after construction. Reassigning a populated
// immutable field fails with a FieldImmutable error; declared kinds are
// enforced the same way as construction. Assigning nil clears an optional
// field and is rejected for required ones.
func (b *Base) Set(name string, value any) error {
	def, declared := b.schema.Lookup(name)
	if !declared {
		if value == nil {
			delete(b.values, name)
			return nil
		}
		b.values[name] = normalizeScalar(value)
		return nil
	}

	if def.Immutable {
		if current, ok := b.values[name]; ok {
			return &FieldError{
				Field:     name,
				Kind:      FieldImmutable,
				Current:   current,
				Attempted: value,
			}
		}
	}

	if value == nil {
		if def.Required {
			return &FieldError{Field: name, Kind: FieldRequired}
		}
		delete(b.values, name)
		return nil
	}

	nv, ferr := coerce(def, value)
	if ferr != nil {
		return ferr
	}
	b.values[name] = nv
	return nil
}

func (b *Base) getString(name string) string {
	s, _ := b.values[name].(string)
	return s
}

// ID returns the globally unique filing identifier.
func (b *Base) ID() string { return b.getString(FieldID) }

// Source returns the source discriminator, e.g. "edinet".
func (b *Base) Source() string { return b.getString(FieldSource) }

// Checksum returns the declared SHA-256 hex digest of the payload.
func (b *Base) Checksum() string { return b.getString(FieldChecksum) }

// Name returns the logical file name.
func (b *Base) Name() string { return b.getString(FieldName) }

// Format returns the payload format, or "" when unset.
func (b *Base) Format() string { return b.getString(FieldFormat) }

// IsZip reports whether the payload is a ZIP archive.
func (b *Base) IsZip() bool {
	z, _ := b.values[FieldIsZip].(bool)
	return z
}

// CreatedAt returns the creation timestamp, zero when unset.
func (b *Base) CreatedAt() time.Time {
	t, _ := b.values[FieldCreatedAt].(time.Time)
	return t
}

// Path returns the storage key the payload was persisted under, or ""
// before the filing has been added to a collection.
func (b *Base) Path() string { return b.getString(FieldPath) }

// Schema returns the declared schema of this filing shape.
func (b *Base) Schema() *Schema { return b.schema }

// ToMap returns every field with time values encoded as TimeFormat strings.
func (b *Base) ToMap() map[string]any {
	out := make(map[string]any, len(b.values))
	for k, v := range b.values {
		if t, ok := v.(time.Time); ok {
			out[k] = t.Format(TimeFormat)
		} else {
			out[k] = v
		}
	}
	return out
}

// IndexedFields returns the queryable subset of ToMap.
func (b *Base) IndexedFields() map[string]any {
	out := make(map[string]any)
	for _, def := range b.schema.Indexed() {
		v, ok := b.values[def.Name]
		if !ok {
			continue
		}
		if t, isTime := v.(time.Time); isTime {
			out[def.Name] = t.Format(TimeFormat)
		} else {
			out[def.Name] = v
		}
	}
	return out
}

// Equal reports value equality: two filings are equal iff every field
// value matches. The concrete shape does not participate.
func (b *Base) Equal(other Filing) bool {
	if other == nil {
		return false
	}
	return reflect.DeepEqual(b.ToMap(), other.ToMap())
}

// String returns a deterministic human-readable summary. Not guaranteed
// bit-stable across versions.
func (b *Base) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s(id=%q, source=%q", b.label, b.ID(), b.Source())
	if sum := b.Checksum(); sum != "" {
		short := sum
		if len(short) > 8 {
			short = short[:8]
		}
		fmt.Fprintf(&sb, ", checksum=%s", short)
	}
	sb.WriteString(")")
	return sb.String()
}
