package diagnostics

// Diagnostic codes for the shell toolchain
const (
	// Front-end errors (P prefix)
	ErrParseFailed       = "P0001"
	ErrUnsupportedSyntax = "P0002"

	// Type checker (T prefix)
	ErrTypeMismatch         = "T0001"
	ErrUndeclaredVariable   = "T0002"
	ErrImplicitCoercion     = "T0003"
	ErrStringInArithmetic   = "T0004"
	ErrArgumentTypeMismatch = "T0005"

	// Purifier notes (S prefix)
	InfoIdempotencyFix   = "S0001"
	WarnNonDeterministic = "S0002"

	// Lowering (L prefix)
	ErrEmptyMatch      = "L0001"
	ErrEmptyRange      = "L0002"
	ErrUnsupportedExpr = "L0003"
	ErrInvalidPattern  = "L0004"
)
