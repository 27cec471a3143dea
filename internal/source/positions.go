package source

// Position is a point in a shell script. Line and Column are 1-based, Index is the byte offset.
type Position struct {
	Line   int
	Column int
	Index  int
}

// NewPosition creates a position from a 1-based line and column.
func NewPosition(line, column, index int) *Position {
	return &Position{Line: line, Column: column, Index: index}
}

// Before reports whether p comes strictly before other.
func (p *Position) Before(other *Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}
