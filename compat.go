package git

// ArgvArray is the historic name for Strvec, kept so code written against
// the old API keeps compiling. The alias carries every method, so existing
// call sites need no changes beyond gofmt.
//
// Deprecated: use Strvec.
type ArgvArray = Strvec

// EmptyArgvArray is the historic name for the shared empty terminator view.
//
// Deprecated: use EmptyStrvec.
var EmptyArgvArray = EmptyStrvec

// NewArgvArray returns a vector holding the given values in order.
//
// Deprecated: use NewStrvec.
func NewArgvArray(values ...string) *ArgvArray {
	return NewStrvec(values...)
}
