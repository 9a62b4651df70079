package errors

import (
	"fmt"
)

// RecoverPanic turns a panic in the deferring function into an AppError
// stored in errp. It must be called directly by defer.
func RecoverPanic(errp *error, code ErrorCode, message string) {
	r := recover()
	if r == nil {
		return
	}

	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("%v", r)
	}
	*errp = Wrap(cause, code, message).
		WithSeverity(SeverityCritical).
		WithContext("panic", fmt.Sprint(r))
}
