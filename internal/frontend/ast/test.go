package ast

// ComparisonOp is a binary test operator
type ComparisonOp int

const (
	StrEq ComparisonOp = iota // =
	StrNe                     // !=
	IntEq                     // -eq
	IntNe                     // -ne
	IntLt                     // -lt
	IntLe                     // -le
	IntGt                     // -gt
	IntGe                     // -ge
)

var comparisonFlags = [...]string{
	StrEq: "=",
	StrNe: "!=",
	IntEq: "-eq",
	IntNe: "-ne",
	IntLt: "-lt",
	IntLe: "-le",
	IntGt: "-gt",
	IntGe: "-ge",
}

// Flag returns the POSIX test operator text
func (op ComparisonOp) Flag() string {
	if int(op) < len(comparisonFlags) {
		return comparisonFlags[op]
	}
	return "?"
}

// IsInteger reports whether the operator compares integers
func (op ComparisonOp) IsInteger() bool {
	return op >= IntEq && op <= IntGe
}

// FileTestOp is a unary file predicate
type FileTestOp int

const (
	FileExists     FileTestOp = iota // -e
	FileReadable                     // -r
	FileWritable                     // -w
	FileExecutable                   // -x
	FileDirectory                    // -d
	FileRegular                      // -f
)

var fileTestFlags = [...]string{
	FileExists:     "-e",
	FileReadable:   "-r",
	FileWritable:   "-w",
	FileExecutable: "-x",
	FileDirectory:  "-d",
	FileRegular:    "-f",
}

// Flag returns the POSIX test operator text
func (op FileTestOp) Flag() string {
	if int(op) < len(fileTestFlags) {
		return fileTestFlags[op]
	}
	return "?"
}

// StringTestOp is an emptiness check
type StringTestOp int

const (
	StringEmpty    StringTestOp = iota // -z
	StringNonEmpty                     // -n
)

// Flag returns the POSIX test operator text
func (op StringTestOp) Flag() string {
	if op == StringNonEmpty {
		return "-n"
	}
	return "-z"
}

// Comparison represents `left op right`
type Comparison struct {
	Op    ComparisonOp
	Left  Expression
	Right Expression
}

func (c *Comparison) TestExpr() {}

// FileTest represents `-e path` and friends
type FileTest struct {
	Op   FileTestOp
	Path Expression
}

func (f *FileTest) TestExpr() {}

// StringTest represents `-z value` / `-n value`
type StringTest struct {
	Op    StringTestOp
	Value Expression
}

func (s *StringTest) TestExpr() {}

// TestAnd represents `a && b` between tests
type TestAnd struct {
	Left  TestExpression
	Right TestExpression
}

func (t *TestAnd) TestExpr() {}

// TestOr represents `a || b` between tests
type TestOr struct {
	Left  TestExpression
	Right TestExpression
}

func (t *TestOr) TestExpr() {}

// TestNot represents `! a`
type TestNot struct {
	Inner TestExpression
}

func (t *TestNot) TestExpr() {}
