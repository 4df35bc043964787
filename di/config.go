package di

import "reflect"

// Config collects bindings before they are validated into a Context. Every
// Bind*/BindConstructor call either adds one or more bindings or returns an
// IllegalComponentError; nothing is checked against the rest of the graph
// until Resolve.
type Config struct {
	bindings map[ComponentKey]Binding
	scopes   *ScopeRegistry

	// Values is ambient, named configuration a scope factory closure may
	// read from when it is registered (see RegisterScope). The container
	// itself never writes to it and never reads it on any resolution path.
	Values *MapRegistry
}

// New returns an empty Config with the singleton scope pre-registered.
func New() *Config {
	return &Config{
		bindings: map[ComponentKey]Binding{},
		scopes:   NewScopeRegistry(),
		Values:   NewMapRegistry(),
	}
}

// BindOption configures one Bind/BindConstructor/BindInstance call.
type BindOption func(*bindSpec)

type bindSpec struct {
	qualifiers      []Qualifier
	scope           Scope
	paramQualifiers []Qualifier
}

// WithQualifier binds this component under an additional qualifier. Given
// more than once, the same instance/plan is registered once per qualifier
// (see BindInstance's multi-qualifier scenario).
func WithQualifier(q Qualifier) BindOption {
	return func(s *bindSpec) { s.qualifiers = append(s.qualifiers, q) }
}

// WithScope wraps this component's Binding in the named scope. At most
// one of WithScope or the component's own Scope() method may apply —
// supplying both is IllegalComponent.
func WithScope(sc Scope) BindOption {
	return func(s *bindSpec) { s.scope = sc }
}

// ParamQualifiers supplies, positionally, the qualifier for each of a
// bound constructor's parameters. Go has no per-parameter tag, so this is
// the only way to qualify a constructor dependency; pass nil for a
// position that needs no qualifier.
func ParamQualifiers(qs ...Qualifier) BindOption {
	return func(s *bindSpec) { s.paramQualifiers = qs }
}

// Bind registers T with no constructor: it is built via reflect.New and
// wired through field/method injection only, the Go analogue of a class
// with no @Inject constructor falling back to its no-arg constructor.
func Bind[T any](c *Config, opts ...BindOption) error {
	return bindComponent[T](c, nil, opts)
}

// BindConstructor registers T built by calling ctor, a func(...) T or
// func(...) (T, error) whose parameter types become its dependencies.
func BindConstructor[T any](c *Config, ctor any, opts ...BindOption) error {
	return bindComponent[T](c, ctor, opts)
}

func componentType[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func bindComponent[T any](c *Config, ctor any, opts []BindOption) error {
	typ := componentType[T]()

	spec := &bindSpec{}
	for _, opt := range opts {
		opt(spec)
	}

	scope, err := resolveScope(typ, spec)
	if err != nil {
		return err
	}

	plan, err := Introspect(typ, ctor, spec.paramQualifiers)
	if err != nil {
		return err
	}

	keys := keysFor(typ, spec.qualifiers)
	for _, key := range keys {
		if _, exists := c.bindings[key]; exists {
			return IllegalComponentError{Component: key, Reason: "component already bound"}
		}

		var p Binding = newConstructorProvider(key, plan)
		if scope != nil {
			wrapped, ok := c.scopes.Wrap(scope, p)
			if !ok {
				return IllegalComponentError{Component: key, Reason: "unregistered scope " + scope.ScopeKey()}
			}
			p = wrapped
		}
		c.bindings[key] = p
	}
	return nil
}

// BindInstance registers a pre-built value. The Go analogue of
// Context.bind(Type.class, instance) — no introspection, no scope (the
// instance already behaves like a singleton), optionally under one or
// more qualifiers.
func BindInstance[T any](c *Config, instance T, opts ...BindOption) error {
	typ := componentType[T]()

	spec := &bindSpec{}
	for _, opt := range opts {
		opt(spec)
	}
	if spec.scope != nil {
		return IllegalComponentError{Component: KeyOf(typ), Reason: "BindInstance does not accept a scope"}
	}

	p := newInstanceProvider(instance)
	keys := keysFor(typ, spec.qualifiers)
	for _, key := range keys {
		if _, exists := c.bindings[key]; exists {
			return IllegalComponentError{Component: key, Reason: "component already bound"}
		}
		c.bindings[key] = p
	}
	return nil
}

// RegisterScope adds a user-defined scope, the Go analogue of
// config.scope(CustomAnnotation.class, CustomProvider::new). See
// package scopes for the Pooled reference example.
func (c *Config) RegisterScope(key string, factory func(Binding) Binding) {
	c.scopes.Register(key, factory)
}

// Resolve validates the full graph (every dependency bound, the
// direct-reference subgraph acyclic) and returns an immutable Context.
func (c *Config) Resolve() (*Context, error) {
	if err := Validate(c.bindings); err != nil {
		return nil, err
	}
	return &Context{bindings: c.bindings}, nil
}

// MustResolve calls Resolve and panics on error — convenient in a
// composition root (main) where a malformed graph should fail fast at
// startup rather than be handled as a recoverable error.
func MustResolve(c *Config) *Context {
	ctx, err := c.Resolve()
	if err != nil {
		panic(err)
	}
	return ctx
}

func resolveScope(typ reflect.Type, spec *bindSpec) (Scope, error) {
	var fromType Scope
	if sa, ok := reflect.New(typ).Interface().(scopeAnnotated); ok {
		fromType = sa.Scope()
	}
	if fromType != nil && spec.scope != nil {
		return nil, IllegalComponentError{Component: KeyOf(typ), Reason: "component carries both a type-level Scope() and an explicit WithScope option"}
	}
	if fromType != nil {
		return fromType, nil
	}
	return spec.scope, nil
}

func keysFor(typ reflect.Type, quals []Qualifier) []ComponentKey {
	if len(quals) == 0 {
		return []ComponentKey{KeyOf(typ)}
	}
	keys := make([]ComponentKey, len(quals))
	for i, q := range quals {
		keys[i] = KeyOfQualified(typ, q)
	}
	return keys
}
