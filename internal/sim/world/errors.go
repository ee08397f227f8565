package world

import (
	"fmt"

	"arklift/internal/protocol"
)

// FatalError is any condition that disqualifies the rest of the run. There
// is no local recovery: once an invariant is broken the shared world state
// cannot be trusted, so the whole simulation aborts.
type FatalError struct {
	Code   string
	Detail string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Detail)
}

// Is matches any FatalError carrying the same code, so callers can use
// errors.Is(err, ErrIllegalAction) and friends.
func (e *FatalError) Is(target error) bool {
	t, ok := target.(*FatalError)
	return ok && t.Code == e.Code && t.Detail == ""
}

var (
	ErrProtocolViolation = &FatalError{Code: protocol.CodeProtocolViolation}
	ErrIllegalAction     = &FatalError{Code: protocol.CodeIllegalAction}
	ErrStructural        = &FatalError{Code: protocol.CodeStructural}
)

func protocolViolationf(format string, args ...any) *FatalError {
	return &FatalError{Code: protocol.CodeProtocolViolation, Detail: fmt.Sprintf(format, args...)}
}

func illegalActionf(format string, args ...any) *FatalError {
	return &FatalError{Code: protocol.CodeIllegalAction, Detail: fmt.Sprintf(format, args...)}
}

func structuralf(format string, args ...any) *FatalError {
	return &FatalError{Code: protocol.CodeStructural, Detail: fmt.Sprintf(format, args...)}
}
