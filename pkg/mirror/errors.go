package mirror

import (
	"errors"
	"fmt"
)

// TypeMismatchError is returned by GetValue when the remote value's Go type
// does not match the requested type parameter.
type TypeMismatchError struct {
	Variable string
	Want     string
	Got      string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("variable %s: value is %s, not %s", e.Variable, e.Got, e.Want)
}

// AsTypeMismatch checks if an error is a TypeMismatchError and returns it.
func AsTypeMismatch(err error) (*TypeMismatchError, bool) {
	var te *TypeMismatchError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
