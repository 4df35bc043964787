package di

import (
	"fmt"
	"reflect"
)

// Binding is what a ComponentKey resolves to: a pre-built instance, an
// injection-built component, or a scope wrapping either of those.
// Dependencies is consulted by the Validator and never constructs
// anything; Produce is the only method that touches reflection to
// actually build a value.
type Binding interface {
	Dependencies() []ComponentRef
	Produce(ctx *Context) (any, error)
}

// instanceProvider serves a value bound directly (BindInstance). It has no
// dependencies of its own.
type instanceProvider struct {
	val any
}

func newInstanceProvider(val any) *instanceProvider { return &instanceProvider{val: val} }

func (p *instanceProvider) Dependencies() []ComponentRef { return nil }

func (p *instanceProvider) Produce(*Context) (any, error) { return p.val, nil }

// constructorProvider runs an InjectionPlan: build, then set fields, then
// call methods, in that fixed order. Every reflective failure — a panicking
// constructor or method, or a constructor's own returned error — surfaces
// as an InternalError value rather than propagating the raw panic.
type constructorProvider struct {
	key  ComponentKey
	plan *InjectionPlan
}

func newConstructorProvider(key ComponentKey, plan *InjectionPlan) *constructorProvider {
	return &constructorProvider{key: key, plan: plan}
}

// Dependencies concatenates constructor, field, then method dependencies,
// in the order Produce resolves them.
func (p *constructorProvider) Dependencies() []ComponentRef {
	deps := make([]ComponentRef, 0, len(p.plan.CtorDeps)+len(p.plan.Fields)+4)
	deps = append(deps, p.plan.CtorDeps...)
	for _, f := range p.plan.Fields {
		deps = append(deps, f.Ref)
	}
	for _, m := range p.plan.Methods {
		deps = append(deps, m.Refs...)
	}
	return deps
}

func (p *constructorProvider) Produce(ctx *Context) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			val = nil
			err = InternalError{Component: p.key, Cause: panicToError(r)}
		}
	}()

	v, cerr := p.construct(ctx)
	if cerr != nil {
		return nil, InternalError{Component: p.key, Cause: cerr}
	}

	// A component bound as a pointer type itself (an external type such as
	// *redis.Client) never has tagged fields or an InjectSites hook to run
	// (see collectFields) — only a struct-kind component does.
	if v.Kind() == reflect.Struct {
		for _, fs := range p.plan.Fields {
			dep, ok := ctx.getByRef(fs.Ref)
			if !ok {
				return nil, InternalError{Component: p.key, Cause: errMissingAtProduce(fs.Ref)}
			}
			v.FieldByIndex(fs.Index).Set(reflect.ValueOf(dep))
		}

		for _, ms := range p.plan.Methods {
			args := make([]reflect.Value, len(ms.Refs))
			for i, ref := range ms.Refs {
				dep, ok := ctx.getByRef(ref)
				if !ok {
					return nil, InternalError{Component: p.key, Cause: errMissingAtProduce(ref)}
				}
				args[i] = reflect.ValueOf(dep)
			}
			v.Addr().MethodByName(ms.Name).Call(args)
		}
	}

	return v.Interface(), nil
}

// construct calls the bound constructor (or, with none, zero-allocates
// plan.Type) and returns a reflect.Value of plan.Type itself — never of
// *plan.Type — so Produce can treat "the component" uniformly whether
// plan.Type is an ordinary struct (the value is then addressable) or, for a
// component bound as a pointer type (an external type like *redis.Client),
// a pointer already (the value is then returned as the constructor gave it).
func (p *constructorProvider) construct(ctx *Context) (reflect.Value, error) {
	if !p.plan.CtorFn.IsValid() {
		return reflect.New(p.plan.Type).Elem(), nil
	}

	args := make([]reflect.Value, len(p.plan.CtorDeps))
	for i, ref := range p.plan.CtorDeps {
		dep, ok := ctx.getByRef(ref)
		if !ok {
			return reflect.Value{}, errMissingAtProduce(ref)
		}
		args[i] = reflect.ValueOf(dep)
	}

	results := p.plan.CtorFn.Call(args)
	if p.plan.CtorErr && !results[1].IsNil() {
		return reflect.Value{}, results[1].Interface().(error)
	}

	out := results[0]
	if out.Type() == p.plan.Type {
		if out.CanAddr() || out.Kind() != reflect.Struct {
			return out, nil
		}
		// Constructor returned T by value directly rather than *T — copy
		// into an addressable slot so field/method injection still applies.
		addr := reflect.New(p.plan.Type)
		addr.Elem().Set(out)
		return addr.Elem(), nil
	}
	// out is *T and plan.Type (T) is the plain struct — Elem() of a pointer
	// Value is always addressable, regardless of how the pointer itself
	// was obtained, so field/method injection can still apply.
	return out.Elem(), nil
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

func errMissingAtProduce(ref ComponentRef) error {
	return fmt.Errorf("di: dependency %s not found at produce time", ref.Key.String())
}
