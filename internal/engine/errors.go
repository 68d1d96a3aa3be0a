package engine

import "fmt"

// InvariantError signals one of the "must never happen" conditions the spec
// calls InternalInvariant. The engine returns it for a step on a thread that
// is not ready, a step whose action is not enabled, an RMW commit with no
// pending read, a fuzzer choice out of range, and an unexpected mutex kind;
// it does not check for a reused sequence number or a clock vector assigned
// twice. The engine never tries to paper over one.
type InvariantError struct {
	msg string
}

func (e *InvariantError) Error() string { return "model checker invariant violated: " + e.msg }

func invariantf(format string, args ...any) error {
	return &InvariantError{msg: fmt.Sprintf(format, args...)}
}
