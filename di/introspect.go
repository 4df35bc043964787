package di

import (
	"reflect"
	"strings"
)

// fieldSite is one struct field discovered as an injection point. Index is
// the path reflect.Value.FieldByIndex expects, which lets fields declared
// on an anonymously-embedded struct (a "superclass") be set directly on
// the outer value without the caller ever seeing the embedding.
type fieldSite struct {
	Index []int
	Ref   ComponentRef
}

// methodSite is one method discovered as an injection point, in the order
// it should be invoked.
type methodSite struct {
	Name string
	Refs []ComponentRef
}

// InjectionPlan is the introspection result for one component type: how to
// construct it and, once constructed, which fields to set and which
// methods to call, and with what.
type InjectionPlan struct {
	Type     reflect.Type // the struct type itself, never a pointer
	CtorFn   reflect.Value
	CtorDeps []ComponentRef
	CtorErr  bool // true if the constructor's second return value is error
	Fields   []fieldSite
	Methods  []methodSite
}

// injectSitesHook is the Go counterpart of a class carrying one or more
// @Inject-annotated methods. A component opts a method into injection by
// listing its name here; composing embedded types' own InjectSites calls
// (see package doc) naturally produces superclass-first ordering and lets
// an override either re-list a name (runs once, still injected) or omit it
// (suppressed, the Go analogue of an override that drops @Inject).
//
// An entry may be "Name" (unqualified) or "Name:qualifier" — the qualifier
// applies to the method's first parameter only; methods with more than one
// dependency parameter beyond the first are always unqualified for the
// rest, a deliberate simplification since Go has no per-parameter tag.
type injectSitesHook interface {
	InjectSites() []string
}

// Introspect builds the InjectionPlan for t (a struct type). ctor, if
// non-nil, is a constructor function value; its parameter types (read
// left to right, matched against ctorQuals by position) become CtorDeps.
// A nil ctor means the no-arg case: t must be a concrete struct, built via
// reflect.New, with only field/method injection applied.
func Introspect(t reflect.Type, ctor any, ctorQuals []Qualifier) (*InjectionPlan, error) {
	key := KeyOf(t)

	plan := &InjectionPlan{Type: t}

	if ctor == nil {
		if t.Kind() != reflect.Struct {
			return nil, IllegalComponentError{Component: key, Reason: "no constructor supplied and type is not a concrete struct"}
		}
	} else {
		ctorVal := reflect.ValueOf(ctor)
		if ctorVal.Kind() != reflect.Func {
			return nil, IllegalComponentError{Component: key, Reason: "constructor is not a function"}
		}
		ctorType := ctorVal.Type()
		if ctorType.NumOut() != 1 && ctorType.NumOut() != 2 {
			return nil, IllegalComponentError{Component: key, Reason: "constructor must return (T) or (T, error)"}
		}
		if !assignableToComponent(ctorType.Out(0), t) {
			return nil, IllegalComponentError{Component: key, Reason: "constructor's first return value is not " + t.String() + " or *" + t.String()}
		}
		if ctorType.NumOut() == 2 {
			errType := reflect.TypeOf((*error)(nil)).Elem()
			if !ctorType.Out(1).Implements(errType) {
				return nil, IllegalComponentError{Component: key, Reason: "constructor's second return value must be error"}
			}
			plan.CtorErr = true
		}
		if len(ctorQuals) > 0 && len(ctorQuals) != ctorType.NumIn() {
			return nil, IllegalComponentError{Component: key, Reason: "constructor qualifier count does not match parameter count"}
		}
		for i := 0; i < ctorType.NumIn(); i++ {
			var q Qualifier
			if i < len(ctorQuals) {
				q = ctorQuals[i]
			}
			plan.CtorDeps = append(plan.CtorDeps, RefOf(ctorType.In(i), q))
		}
		plan.CtorFn = ctorVal
	}

	fields, err := collectFields(t, nil)
	if err != nil {
		return nil, err
	}
	plan.Fields = fields

	methods, err := collectMethods(t)
	if err != nil {
		return nil, err
	}
	plan.Methods = methods

	return plan, nil
}

func assignableToComponent(out, t reflect.Type) bool {
	if out == t {
		return true
	}
	return out.Kind() == reflect.Ptr && out.Elem() == t
}

// collectFields walks t's anonymous-embedding tree depth-first, collecting
// every field (at any depth) tagged `inject:"..."`. This is the literal Go
// counterpart of InjectionProvider.traverse applied to getDeclaredFields:
// fields owned by an embedded struct are reached through it, never copied
// up, so Index always records the true path from the root value.
func collectFields(t reflect.Type, prefix []int) ([]fieldSite, error) {
	if t.Kind() != reflect.Struct {
		// A component type bound as a pointer itself (an external type like
		// *redis.Client, never a struct we allocate) has no fields we could
		// tag with `inject:"..."` in the first place.
		return nil, nil
	}

	var out []fieldSite
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		idx := appendIndex(prefix, i)

		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			sub, err := collectFields(f.Type, idx)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}

		tag, ok := f.Tag.Lookup("inject")
		if !ok {
			continue
		}
		if f.PkgPath != "" {
			return nil, IllegalComponentError{Component: KeyOf(t), Reason: "field " + f.Name + " is unexported and cannot be injected"}
		}
		q := parseQualifierTag(tag)
		out = append(out, fieldSite{Index: idx, Ref: RefOf(f.Type, q)})
	}
	return out, nil
}

func appendIndex(prefix []int, i int) []int {
	idx := make([]int, len(prefix)+1)
	copy(idx, prefix)
	idx[len(prefix)] = i
	return idx
}

// parseQualifierTag reads a field's `inject` tag value into a Qualifier.
// "" and "true" mean unqualified; "qualifier=x" and a bare "x" both mean
// Named("x").
func parseQualifierTag(tag string) Qualifier {
	if tag == "" || tag == "true" {
		return nil
	}
	if v, ok := strings.CutPrefix(tag, "qualifier="); ok {
		return Named(v)
	}
	return Named(tag)
}

// collectMethods resolves t's InjectSites hook, if any, into ordered
// methodSites. A name not found on t is IllegalComponent — a typo or a
// method removed without updating InjectSites.
func collectMethods(t reflect.Type) ([]methodSite, error) {
	zero := reflect.New(t)
	hook, ok := zero.Interface().(injectSitesHook)
	if !ok {
		return nil, nil
	}

	seen := map[string]bool{}
	var out []methodSite
	for _, raw := range hook.InjectSites() {
		name, qualVal, hasQual := strings.Cut(raw, ":")
		if seen[name] {
			continue
		}
		seen[name] = true

		m := zero.MethodByName(name)
		if !m.IsValid() {
			return nil, IllegalComponentError{Component: KeyOf(t), Reason: "InjectSites names unknown method " + name}
		}
		mt := m.Type()
		var refs []ComponentRef
		for i := 0; i < mt.NumIn(); i++ {
			var q Qualifier
			if i == 0 && hasQual {
				q = Named(qualVal)
			}
			refs = append(refs, RefOf(mt.In(i), q))
		}
		out = append(out, methodSite{Name: name, Refs: refs})
	}
	return out, nil
}
