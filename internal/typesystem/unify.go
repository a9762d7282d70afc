package typesystem

// Unify reconciles a and b per spec.md §4.3: returns a if b is
// Unknown, b if a is Unknown, a if they are equal, else reports a
// mismatch via ok=false and returns Unknown. Unlike funxy's
// substitution-based Unify (which solves for type variables), Nova
// has no polymorphism (spec.md Non-goals), so this is a pure
// three-way comparison with no substitution to build.
func Unify(a, b ID) (result ID, ok bool) {
	if b == Unknown {
		return a, true
	}
	if a == Unknown {
		return b, true
	}
	if a == b {
		return a, true
	}
	return Unknown, false
}
