package btree

import "fmt"

// assertf panics if cond is false. It guards structural preconditions the
// insert/delete engines rely on internally (e.g. "the borrow lender has
// spare capacity") — conditions that cannot fail when prior mutations
// preserved the tree's invariants. A panic here means the on-disk tree is
// already inconsistent, which is a data bug, not a caller-recoverable
// condition, so it is not returned as an error.
func assertf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("btree: assertion failed: "+format, args...))
	}
}
