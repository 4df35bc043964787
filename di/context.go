package di

import "reflect"

// Context is the immutable, resolved result of Config.Resolve. Get never
// fails with "binding missing" by the time a Context exists — that is
// exactly what Resolve's Validator already ruled out — so its only
// failure mode is the absent-optional case for a ref nobody ever bound,
// which cannot happen for any ref the Validator walked. A caller assembling
// a ComponentRef by hand (rather than through an InjectionPlan) can still
// legitimately get false back.
type Context struct {
	bindings map[ComponentKey]Binding
}

// Get resolves ref against this Context. ok is false only if no binding
// exists for ref.Key; a reflective failure while building the component
// panics (see Binding.Produce) rather than silently reporting "missing".
func (c *Context) Get(ref ComponentRef) (any, bool) {
	return c.getByRef(ref)
}

// ResolveAs is a typed convenience wrapper around Get, not present in the
// original API but a natural Go ergonomics addition: the common case of
// knowing T at the call site shouldn't require a manual type assertion.
func ResolveAs[T any](c *Context, ref ComponentRef) (T, bool) {
	v, ok := c.getByRef(ref)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Resolve is the typed, top-level entry point a composition root uses to
// pull a component out of a resolved Context: it builds the ComponentRef
// itself from T and an optional qualifier, so callers never construct a
// ComponentRef by hand. Pass nil for q to resolve the unqualified binding.
func Resolve[T any](ctx *Context, q Qualifier) (T, bool) {
	ref := ComponentRef{Key: KeyOfQualified(componentType[T](), q)}
	return ResolveAs[T](ctx, ref)
}

func (c *Context) getByRef(ref ComponentRef) (any, bool) {
	p, ok := c.bindings[ref.Key]
	if !ok {
		return nil, false
	}

	if ref.Kind == IndirectProvider {
		return c.makeProviderValue(ref), true
	}

	val, err := p.Produce(c)
	if err != nil {
		panic(err)
	}
	return val, true
}

// makeProviderValue reflectively builds a Provider[T] value of the exact
// type an injection site declared (ref.ContainerType), since Go generics
// give no way to instantiate Provider[T] from a runtime-only type.
func (c *Context) makeProviderValue(ref ComponentRef) any {
	pv := reflect.New(ref.ContainerType).Elem()
	pv.FieldByName("Ctx").Set(reflect.ValueOf(c))
	pv.FieldByName("Ref").Set(reflect.ValueOf(ComponentRef{Key: ref.Key, Kind: Direct}))
	return pv.Interface()
}
