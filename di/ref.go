package di

import "reflect"

// ContainerKind tells Context.Get how to deliver a resolved dependency.
type ContainerKind int

const (
	// Direct means the dependency resolves to the component instance itself.
	Direct ContainerKind = iota
	// IndirectProvider means the dependency resolves to a Provider[T] that
	// builds the instance lazily, each time its Get method is called.
	IndirectProvider
)

// ComponentRef is one edge in the dependency graph: what to resolve, and
// whether to resolve it eagerly or behind a Provider[T]. ContainerType is
// only set for IndirectProvider refs — the exact Provider[T] type the
// injection site declared, needed to build that value back reflectively
// since a runtime reflect.Type alone cannot instantiate a Go generic type.
type ComponentRef struct {
	Key           ComponentKey
	Kind          ContainerKind
	ContainerType reflect.Type
}

// RefOf derives the ComponentRef implied by an injection site's declared
// Go type (a constructor parameter, a tagged field, an InjectSites method
// parameter). Exactly one layer of Provider[T] is peeled; any other
// generic single-type-parameter shape is left as a Direct reference over
// the container type itself, which will simply fail to bind unless the
// caller registered that exact type — this package never invents
// semantics for containers it doesn't recognize.
func RefOf(t reflect.Type, q Qualifier) ComponentRef {
	if elem, ok := peelProvider(t); ok {
		return ComponentRef{Key: KeyOfQualified(elem, q), Kind: IndirectProvider, ContainerType: t}
	}
	return ComponentRef{Key: KeyOfQualified(t, q), Kind: Direct}
}

// elemTypeProvider is implemented by Provider[T] for any T; it is how
// RefOf recognizes the marker without string-matching the type name.
type elemTypeProvider interface {
	elemType() reflect.Type
}

func peelProvider(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() != reflect.Struct {
		return nil, false
	}
	zero := reflect.New(t).Elem().Interface()
	p, ok := zero.(elemTypeProvider)
	if !ok {
		return nil, false
	}
	return p.elemType(), true
}

// Provider is a lazily-resolved handle to a component, the Go counterpart
// of jakarta.inject.Provider<T>. Declaring a field or constructor
// parameter of this type breaks a cycle that would otherwise be direct,
// because the dependency is not built until Get is called.
//
// Ctx and Ref are exported only so Context can hydrate a Provider[T] value
// purely through reflection (Go has no way to instantiate a generic type
// from a runtime-only reflect.Type). Application code should never
// construct one by hand — the only valid Provider[T] values are the ones
// Context.Get/field injection hands you.
type Provider[T any] struct {
	Ctx *Context
	Ref ComponentRef
}

// elemType implements elemTypeProvider.
func (Provider[T]) elemType() reflect.Type {
	var zero T
	return reflect.TypeOf(&zero).Elem()
}

// Get builds (or, under a scope, fetches) the referenced component. It
// panics if the Provider was not obtained from a resolved Context.
func (p Provider[T]) Get() T {
	if p.Ctx == nil {
		panic("di: zero-value Provider[T] used; Provider[T] must come from Context, never be constructed directly")
	}
	v, ok := p.Ctx.getByRef(p.Ref)
	if !ok {
		panic("di: Provider[" + p.Ref.Key.String() + "] used outside a resolved Context")
	}
	return v.(T)
}
