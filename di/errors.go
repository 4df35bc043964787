package di

// IllegalComponentError reports a component that cannot be introspected as
// written: an interface bound without a constructor, an unexported field
// tagged for injection, a duplicate binding, more than one scope on the
// same component, and similar structural problems caught before any
// instance is built.
type IllegalComponentError struct {
	Component ComponentKey
	Reason    string
}

// Error implements the error interface.
func (e IllegalComponentError) Error() string {
	return "di: illegal component " + e.Component.String() + ": " + e.Reason
}

// DependencyNotFoundError reports that Component declares a dependency on
// Dependency but no binding for Dependency exists. It is reported for the
// nearest edge, not the root of whatever resolution chain found it.
type DependencyNotFoundError struct {
	Component  ComponentKey
	Dependency ComponentKey
}

// Error implements the error interface.
func (e DependencyNotFoundError) Error() string {
	return "di: " + e.Component.String() + " depends on unbound " + e.Dependency.String()
}

// CyclicDependenciesFoundError reports a cycle found while validating the
// direct-reference subgraph. Components lists the cycle in traversal
// order; Components[0] and Components[len-1] are the same key.
type CyclicDependenciesFoundError struct {
	Components []ComponentKey
}

// Error implements the error interface.
func (e CyclicDependenciesFoundError) Error() string {
	s := "di: cyclic dependency:"
	for i, c := range e.Components {
		if i > 0 {
			s += " ->"
		}
		s += " " + c.String()
	}
	return s
}

// InternalError wraps a panic or a non-nil error recovered from reflective
// construction or method invocation. It is never one of the three error
// kinds above — those report structural problems in the graph, this
// reports a failure of a constructor/method the caller wrote.
type InternalError struct {
	Component ComponentKey
	Cause     error
}

// Error implements the error interface.
func (e InternalError) Error() string {
	return "di: " + e.Component.String() + " failed to construct: " + e.Cause.Error()
}

// Unwrap supports errors.Is/As against the wrapped cause.
func (e InternalError) Unwrap() error { return e.Cause }
