// Package sentinel provides a string-backed error type for declaring
// sentinel errors as constants.
package sentinel

var _ error = Error("")

// Error is an error whose value is its message. Because the type is a plain
// string, sentinels built from it can be declared const, which rules out the
// accidental reassignment a var sentinel allows.
//
// Error is comparable, so errors.Is matches it through wrapped chains with
// the default == comparison and no Is method is needed.
type Error string

// Error returns the message.
func (e Error) Error() string {
	return string(e)
}
