package di

import "reflect"

// Qualifier distinguishes two bindings of the same type.
//
// QualifierKey must be stable and comparable by value — two Qualifier
// values that mean the same thing must return the same string. Named is
// the only built-in implementation; custom qualifiers (an enum-like marker
// type, a request scope id, ...) need only implement this one method.
type Qualifier interface {
	QualifierKey() string
}

// Named is a string-valued Qualifier, the Go equivalent of @Named("value").
type Named string

// QualifierKey implements Qualifier.
func (n Named) QualifierKey() string { return "name:" + string(n) }

// ComponentKey identifies one binding: a type plus an optional qualifier.
//
// ComponentKey is a plain comparable struct so it can be used directly as a
// map key — there is no polymorphic Equal method to call, unlike the
// annotation-identity comparison a reflective Java container needs.
type ComponentKey struct {
	Type         reflect.Type
	QualifierKey string
}

// KeyOf builds the unqualified ComponentKey for t.
func KeyOf(t reflect.Type) ComponentKey {
	return ComponentKey{Type: t}
}

// KeyOfQualified builds a ComponentKey for t under q. A nil q is the same
// as calling KeyOf.
func KeyOfQualified(t reflect.Type, q Qualifier) ComponentKey {
	if q == nil {
		return KeyOf(t)
	}
	return ComponentKey{Type: t, QualifierKey: q.QualifierKey()}
}

// String renders the key for diagnostics and error messages.
func (k ComponentKey) String() string {
	if k.QualifierKey == "" {
		return k.Type.String()
	}
	return k.Type.String() + "@" + k.QualifierKey
}
