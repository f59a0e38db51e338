package diag

// Predefined errors (sentinel values). Derived errors created with With, Wrap
// or At still match these with errors.Is.
var (
	ErrUnexpectedToken   = New(KindParse, "unexpected token")
	ErrMissingTerminator = New(KindParse, "missing terminator")
	ErrUnknownOperator   = New(KindParse, "unknown operator")
	ErrMalformedLiteral  = New(KindParse, "malformed literal")
	ErrUnterminated      = New(KindParse, "unterminated input")
	ErrInvalidTarget     = New(KindParse, "invalid assignment target")
	ErrInvalidParameter  = New(KindParse, "invalid parameter")
	ErrUndefined         = New(KindScope, "undefined identifier")
	ErrImmutable         = New(KindScope, "cannot assign to immutable value")
	ErrNotVariable       = New(KindRuntime, "not a variable")
	ErrTupleArity        = New(KindRuntime, "tuple arity mismatch")
	ErrSingleToTuple     = New(KindRuntime, "cannot assign single value to tuple")
	ErrOperandType       = New(KindRuntime, "invalid operand type")
	ErrDivideByZero      = New(KindRuntime, "division by zero")
	ErrNotCallable       = New(KindRuntime, "value is not callable")
	ErrArgument          = New(KindRuntime, "invalid argument")
	ErrStackOverflow     = New(KindRuntime, "maximum call depth exceeded")
	ErrLabel             = New(KindRuntime, "label outside argument list")
	ErrIndex             = New(KindRuntime, "index out of range")
	ErrCanceled          = New(KindRuntime, "evaluation canceled")
	ErrNoMatchingMember  = New(KindNoMatchingMember, "no matching member")
	ErrAmbiguousCall     = New(KindAmbiguousCall, "ambiguous call")
	ErrNoSuchMember      = New(KindNoSuchMember, "no such member")
	ErrReadOnly          = New(KindNoSuchMember, "member is read-only")
	ErrConversion        = New(KindConversion, "cannot convert value")
	ErrHostInvocation    = New(KindHostInvocation, "host call failed")
	ErrThrow             = New(KindThrow, "uncaught throw")
	ErrRegistration      = New(KindRuntime, "invalid host registration")
)
