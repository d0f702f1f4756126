package persistence

// ErrUnavailable indicates that a store could not serve an operation for
// infrastructure reasons (connection loss, timeout, failed query). It wraps
// the driver error so callers can distinguish "the backend is down" from
// domain outcomes like not-found or a constraint violation.
type ErrUnavailable struct {
	Op  string
	Err error
}

func (e ErrUnavailable) Error() string {
	return e.Op + ": store unavailable: " + e.Err.Error()
}

func (e ErrUnavailable) Unwrap() error {
	return e.Err
}

// Is matches any ErrUnavailable when the target carries no operation name
func (e ErrUnavailable) Is(target error) bool {
	t, ok := target.(ErrUnavailable)
	if !ok {
		return false
	}
	return t.Op == "" || e.Op == t.Op
}
