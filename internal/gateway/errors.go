package gateway

import "fmt"

// ErrorKind classifies a dispatcher error per the error-handling design:
// configuration errors are fatal at startup, ingress-malformed and
// unknown-emergency-type errors are logged and dropped, allocation errors
// are recovered locally by re-queuing, and shutdown errors describe the
// drain path.
type ErrorKind string

const (
	KindConfiguration          ErrorKind = "configuration"
	KindIngressMalformed       ErrorKind = "ingress-malformed"
	KindUnknownEmergencyType   ErrorKind = "unknown-emergency-type"
	KindAllocationImpossible   ErrorKind = "allocation-impossible"
	KindInternalAllocationFail ErrorKind = "internal-allocation-failure"
	KindShutdown               ErrorKind = "shutdown"
)

// DispatchError wraps an underlying error with the operation that produced
// it and its ErrorKind, so callers can branch on Kind() without string
// matching.
type DispatchError struct {
	kind ErrorKind
	op   string
	err  error
}

func newError(kind ErrorKind, op string, err error) *DispatchError {
	return &DispatchError{kind: kind, op: op, err: err}
}

// Kind reports the classification of this error.
func (e *DispatchError) Kind() ErrorKind {
	return e.kind
}

func (e *DispatchError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.op, e.kind, e.err)
	}
	return fmt.Sprintf("%s: %s", e.op, e.kind)
}

func (e *DispatchError) Unwrap() error {
	return e.err
}
