package query

// Expr is a sealed interface over predicate nodes. Only the node types in
// this package implement it; compilers exhaustively switch on them.
type Expr interface {
	isExpr()
}

// Op identifies a comparison operator on a Cmp leaf.
type Op string

const (
	OpEq Op = "="
	OpNe Op = "!="
	OpGt Op = ">"
	OpGe Op = ">="
	OpLt Op = "<"
	OpLe Op = "<="
)

// Ordered reports whether the operator implies an ordering comparison
// (as opposed to equality). Compilers use this to decide when a type
// hint is required.
func (o Op) Ordered() bool {
	switch o {
	case OpGt, OpGe, OpLt, OpLe:
		return true
	default:
		return false
	}
}

// Cmp is a single field-operator-value comparison leaf.
type Cmp struct {
	Field Field
	Op    Op
	Value any
}

func (Cmp) isExpr() {}

// Like is a pattern-match leaf. Pattern uses SQL LIKE wildcards and is
// always bound as a parameter, never interpolated.
type Like struct {
	Field   Field
	Pattern string
}

func (Like) isExpr() {}

// In is a set-membership leaf. Negate selects NOT IN semantics.
type In struct {
	Field  Field
	Values []any
	Negate bool
}

func (In) isExpr() {}

// Null is a null-test leaf. Negate selects IS NOT NULL semantics.
type Null struct {
	Field  Field
	Negate bool
}

func (Null) isExpr() {}

// Between is an inclusive range leaf.
type Between struct {
	Field  Field
	Lo, Hi any
}

func (Between) isExpr() {}

// AndExpr is the conjunction of its operands, in order.
type AndExpr struct {
	Exprs []Expr
}

func (AndExpr) isExpr() {}

// OrExpr is the disjunction of its operands, in order.
type OrExpr struct {
	Exprs []Expr
}

func (OrExpr) isExpr() {}

// NotExpr negates its operand.
type NotExpr struct {
	Expr Expr
}

func (NotExpr) isExpr() {}

// And combines expressions into a conjunction. Operand order is preserved.
func And(exprs ...Expr) Expr {
	return AndExpr{Exprs: exprs}
}

// Or combines expressions into a disjunction. Operand order is preserved.
func Or(exprs ...Expr) Expr {
	return OrExpr{Exprs: exprs}
}

// Not negates an expression.
func Not(expr Expr) Expr {
	return NotExpr{Expr: expr}
}
