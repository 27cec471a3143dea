package ast

// ArithOp is a binary arithmetic operator
type ArithOp int

const (
	Add ArithOp = iota
	Sub
	Mul
	Div
	Mod
)

// String returns the operator text used inside $(( ))
func (op ArithOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	default:
		return "?"
	}
}

// Precedence orders operators for parenthesization; higher binds tighter.
func (op ArithOp) Precedence() int {
	switch op {
	case Mul, Div, Mod:
		return 2
	default:
		return 1
	}
}

// Number is an integer literal inside arithmetic
type Number struct {
	Value int64
}

func (n *Number) ArithExpr() {}

// ArithVariable is a bare variable name inside arithmetic
type ArithVariable struct {
	Name string
}

func (v *ArithVariable) ArithExpr() {}

// ArithBinary is `left op right`
type ArithBinary struct {
	Op    ArithOp
	Left  ArithExpression
	Right ArithExpression
}

func (b *ArithBinary) ArithExpr() {}
