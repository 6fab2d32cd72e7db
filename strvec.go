package git

import (
	"fmt"
	"strings"
)

// EmptyStrvec is the canonical empty argv view: a single nil terminator and
// nothing else. Zero-value and freshly cleared vectors alias it instead of
// holding an allocation of their own, so an empty vector still presents a
// valid terminated argv. Callers must treat it as read-only; mutating code
// swaps in an owned backing array before the first write.
var EmptyStrvec = []*string{nil}

// Strvec is a dynamically growing vector of strings that keeps its backing
// array terminated by a trailing nil entry at every point in its lifetime.
// The terminated view is what Argv returns, and it is shaped for handoff to
// process-spawning code that expects argv or envp conventions.
//
// The zero value is an empty vector ready for use. A Strvec owns the strings
// it stores: every push records its own copy, and pointers returned by Push
// and Pushf identify the stored copy, remaining valid across later growth.
//
// A Strvec is not safe for concurrent use; confine each vector to a single
// goroutine or guard it externally.
type Strvec struct {
	argv []*string
}

// NewStrvec returns a vector holding the given values in order.
func NewStrvec(values ...string) *Strvec {
	v := &Strvec{}
	v.Pushl(values...)
	return v
}

// Init resets the vector to the canonical empty state, aliasing EmptyStrvec.
// Any previously stored elements are released. The zero value is already
// usable; Init exists for re-initializing a vector in place.
func (v *Strvec) Init() {
	v.argv = EmptyStrvec
}

// Count returns the number of stored elements, excluding the terminator.
func (v *Strvec) Count() int {
	if len(v.argv) == 0 {
		return 0
	}
	return len(v.argv) - 1
}

// Argv returns the terminated backing view: Count() elements followed by one
// nil entry. The slice shares storage with the vector and is valid until the
// next mutating call. Empty vectors return EmptyStrvec.
func (v *Strvec) Argv() []*string {
	if len(v.argv) == 0 {
		return EmptyStrvec
	}
	return v.argv
}

// At returns the element at index i. Indexes follow slice semantics: i must
// be in [0, Count()) or At panics.
func (v *Strvec) At(i int) string {
	return *v.argv[:v.Count()][i]
}

// Strings returns the stored elements as an independent string slice, without
// the trailing terminator. It returns nil when the vector is empty.
func (v *Strvec) Strings() []string {
	n := v.Count()
	if n == 0 {
		return nil
	}
	out := make([]string, n)
	for i, p := range v.argv[:n] {
		out[i] = *p
	}
	return out
}

// String renders the elements joined by single spaces, mainly for logs and
// debugging output. It performs no quoting.
func (v *Strvec) String() string {
	return strings.Join(v.Strings(), " ")
}

// Push appends a copy of s and returns a pointer to the stored copy. The
// returned pointer stays valid however much the vector grows afterwards, and
// is released only by Pop, Clear, or Init dropping the element.
func (v *Strvec) Push(s string) *string {
	stored := s
	v.pushRef(&stored)
	return &stored
}

// Pushf formats according to fmt.Sprintf and pushes the result, returning a
// pointer to the stored string.
func (v *Strvec) Pushf(format string, a ...any) *string {
	return v.Push(fmt.Sprintf(format, a...))
}

// Pushl pushes each value in order.
func (v *Strvec) Pushl(values ...string) {
	for _, s := range values {
		v.Push(s)
	}
}

// Pushv pushes every element of argv in order. It is equivalent to a Push
// per element.
func (v *Strvec) Pushv(argv []string) {
	for _, s := range argv {
		v.Push(s)
	}
}

// Split pushes the whitespace-separated tokens of s in order. Runs of
// Unicode whitespace separate tokens, and leading or trailing whitespace
// carries no empty tokens with it. Splitting an empty or all-whitespace
// string pushes nothing.
func (v *Strvec) Split(s string) {
	for _, tok := range strings.Fields(s) {
		// Copy each token so the vector does not pin s's backing bytes.
		v.Push(strings.Clone(tok))
	}
}

// Pop removes the last element, moving the terminator down one slot. Popping
// an empty vector is a no-op.
func (v *Strvec) Pop() {
	n := len(v.argv)
	if n <= 1 {
		return
	}
	// The dropped slot becomes the new terminator.
	v.argv[n-2] = nil
	v.argv = v.argv[:n-1]
}

// Clear releases all elements and returns the vector to the canonical empty
// state. Clearing an empty vector is a no-op, and a cleared vector is ready
// for reuse.
func (v *Strvec) Clear() {
	if !v.unowned() {
		// Drop element references before the backing array goes.
		clear(v.argv)
	}
	v.argv = EmptyStrvec
}

// Detach hands the terminated backing array to the caller and resets the
// vector to the canonical empty state. The caller takes sole ownership of
// the returned slice, whose final entry is the nil terminator. Detaching an
// empty vector returns a fresh single-terminator slice, never EmptyStrvec
// itself, so the result is always safe to modify.
func (v *Strvec) Detach() []*string {
	if v.unowned() {
		return make([]*string, 1)
	}
	argv := v.argv
	v.Init()
	return argv
}

// unowned reports whether the backing array is missing or aliases the shared
// EmptyStrvec singleton. In either state the backing must be replaced before
// any write.
func (v *Strvec) unowned() bool {
	return len(v.argv) == 0 || &v.argv[0] == &EmptyStrvec[0]
}

// pushRef appends the given element pointer, keeping the terminator at the
// final index. It grows the backing array geometrically so repeated pushes
// amortize to constant time per element.
func (v *Strvec) pushRef(s *string) {
	if v.unowned() {
		v.argv = nil
	}
	count := len(v.argv)
	if count > 0 {
		count--
	}
	if need := count + 2; cap(v.argv) < need {
		v.argv = growArgv(v.argv, need)
	}
	v.argv = v.argv[:count+2]
	v.argv[count] = s
	v.argv[count+1] = nil
}

// growArgv returns a backing array with capacity for at least need entries,
// carrying over the current contents. Capacity grows by half again plus a
// small pad each step, then jumps straight to need when that still falls
// short.
func growArgv(argv []*string, need int) []*string {
	newCap := (cap(argv) + 16) * 3 / 2
	if newCap < need {
		newCap = need
	}
	grown := make([]*string, len(argv), newCap)
	copy(grown, argv)
	return grown
}
