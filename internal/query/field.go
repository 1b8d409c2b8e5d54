package query

// Kind is an optional type hint attached to a Field. The hint lets the
// engine-specific compiler cast non-physical columns explicitly instead of
// silently coercing; KindAny means "unknown".
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindTime
)

// String returns the hint name for diagnostics.
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
		return "any"
	}
}

// Field is a named reference to one filing metadata attribute. It is
// stateless beyond its name and optional type hint and carries no engine
// binding.
type Field struct {
	Name string
	Type Kind
}

// F is the shorthand constructor for an untyped field reference.
func F(name string) Field {
	return Field{Name: name}
}

// Typed constructs a field reference with an explicit type hint.
func Typed(name string, kind Kind) Field {
	return Field{Name: name, Type: kind}
}

// Eq builds "field = value".
func (f Field) Eq(value any) Expr {
	return Cmp{Field: f, Op: OpEq, Value: value}
}

// Ne builds "field != value".
func (f Field) Ne(value any) Expr {
	return Cmp{Field: f, Op: OpNe, Value: value}
}

// Gt builds "field > value".
func (f Field) Gt(value any) Expr {
	return Cmp{Field: f, Op: OpGt, Value: value}
}

// Ge builds "field >= value".
func (f Field) Ge(value any) Expr {
	return Cmp{Field: f, Op: OpGe, Value: value}
}

// Lt builds "field < value".
func (f Field) Lt(value any) Expr {
	return Cmp{Field: f, Op: OpLt, Value: value}
}

// Le builds "field <= value".
func (f Field) Le(value any) Expr {
	return Cmp{Field: f, Op: OpLe, Value: value}
}

// Contains builds a substring match.
func (f Field) Contains(value string) Expr {
	return Like{Field: f, Pattern: "%" + value + "%"}
}

// StartsWith builds a prefix match.
func (f Field) StartsWith(value string) Expr {
	return Like{Field: f, Pattern: value + "%"}
}

// EndsWith builds a suffix match.
func (f Field) EndsWith(value string) Expr {
	return Like{Field: f, Pattern: "%" + value}
}

// In builds set membership over the given values, in order.
func (f Field) In(values ...any) Expr {
	return In{Field: f, Values: values}
}

// NotIn builds negated set membership over the given values, in order.
func (f Field) NotIn(values ...any) Expr {
	return In{Field: f, Values: values, Negate: true}
}

// IsNull builds a null test.
func (f Field) IsNull() Expr {
	return Null{Field: f}
}

// IsNotNull builds a not-null test.
func (f Field) IsNotNull() Expr {
	return Null{Field: f, Negate: true}
}

// Between builds an inclusive range test.
func (f Field) Between(lo, hi any) Expr {
	return Between{Field: f, Lo: lo, Hi: hi}
}
