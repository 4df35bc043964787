package di

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------
// plain struct component, constructor returns *T
// ---------------------------------------------------------------------

type provTestWidget struct {
	Name string
}

func newProvTestWidget() *provTestWidget { return &provTestWidget{Name: "w"} }

func TestProvide_ConstructorReturningPointer_ResolvesToValue(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindConstructor[provTestWidget](cfg, newProvTestWidget))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	v, ok := Resolve[provTestWidget](ctx, nil)
	require.True(t, ok)
	assert.Equal(t, "w", v.Name)
}

// ---------------------------------------------------------------------
// plain struct component, constructor returns T by value
// ---------------------------------------------------------------------

type provTestValueWidget struct {
	Name string
}

func newProvTestValueWidget() provTestValueWidget { return provTestValueWidget{Name: "v"} }

func TestProvide_ConstructorReturningValue_ResolvesToValue(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindConstructor[provTestValueWidget](cfg, newProvTestValueWidget))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	v, ok := Resolve[provTestValueWidget](ctx, nil)
	require.True(t, ok)
	assert.Equal(t, "v", v.Name)
}

// ---------------------------------------------------------------------
// no-constructor component, reflect.New fallback
// ---------------------------------------------------------------------

type provTestBare struct {
	N int
}

func TestProvide_NoConstructor_ZeroValue(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, Bind[provTestBare](cfg))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	v, ok := Resolve[provTestBare](ctx, nil)
	require.True(t, ok)
	assert.Equal(t, 0, v.N)
}

// ---------------------------------------------------------------------
// pointer-typed component (external-library shape: *redis.Client)
// ---------------------------------------------------------------------

type provTestExternalClient struct {
	addr string
}

func newProvTestExternalClient(addr provTestAddr) *provTestExternalClient {
	return &provTestExternalClient{addr: string(addr)}
}

type provTestAddr string

type provTestConsumer struct {
	Client *provTestExternalClient
}

func newProvTestConsumer(c *provTestExternalClient) *provTestConsumer {
	return &provTestConsumer{Client: c}
}

func TestProvide_PointerBoundComponent_SharedAcrossDependents(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindInstance[provTestAddr](cfg, provTestAddr("localhost")))
	require.NoError(t, BindConstructor[*provTestExternalClient](cfg, newProvTestExternalClient, WithScope(SingletonScope{})))
	require.NoError(t, BindConstructor[provTestConsumer](cfg, newProvTestConsumer))

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	client, ok := Resolve[*provTestExternalClient](ctx, nil)
	require.True(t, ok)
	assert.Equal(t, "localhost", client.addr)

	consumer, ok := Resolve[provTestConsumer](ctx, nil)
	require.True(t, ok)
	assert.Same(t, client, consumer.Client)
}

// ---------------------------------------------------------------------
// field and method injection
// ---------------------------------------------------------------------

type provTestDep struct{ V int }

func newProvTestDep() provTestDep { return provTestDep{V: 42} }

type provTestFieldTarget struct {
	Dep provTestDep `inject:"true"`
}

func TestProvide_FieldInjection(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindConstructor[provTestDep](cfg, newProvTestDep))
	require.NoError(t, Bind[provTestFieldTarget](cfg))

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	target, ok := Resolve[provTestFieldTarget](ctx, nil)
	require.True(t, ok)
	assert.Equal(t, 42, target.Dep.V)
}

type provTestMethodTarget struct {
	got provTestDep
}

func (m *provTestMethodTarget) InjectSites() []string { return []string{"SetDep"} }
func (m *provTestMethodTarget) SetDep(d provTestDep)  { m.got = d }

func TestProvide_MethodInjection(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindConstructor[provTestDep](cfg, newProvTestDep))
	require.NoError(t, Bind[provTestMethodTarget](cfg))

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	target, ok := Resolve[provTestMethodTarget](ctx, nil)
	require.True(t, ok)
	assert.Equal(t, 42, target.got.V)
}

// ---------------------------------------------------------------------
// constructor error propagation
// ---------------------------------------------------------------------

type provTestFailing struct{}

func newProvTestFailing() (*provTestFailing, error) {
	return nil, errors.New("construction failed")
}

func TestProduce_ConstructorErrorWrappedAsInternalError(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindConstructor[provTestFailing](cfg, newProvTestFailing))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	var internalErr InternalError
	func() {
		defer func() {
			r := recover()
			require.NotNil(t, r)
			err, ok := r.(error)
			require.True(t, ok)
			require.True(t, errors.As(err, &internalErr))
		}()
		ctx.Get(ComponentRef{Key: KeyOf(componentType[provTestFailing]())})
	}()
	assert.Equal(t, "construction failed", internalErr.Cause.Error())
}

// ---------------------------------------------------------------------
// panic recovery during Produce
// ---------------------------------------------------------------------

type provTestPanicker struct{}

func newProvTestPanicker() *provTestPanicker {
	panic("boom")
}

func TestProduce_RecoversPanicAsInternalError(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindConstructor[provTestPanicker](cfg, newProvTestPanicker))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	key := KeyOf(componentType[provTestPanicker]())
	binding := ctx.bindings[key]
	_, produceErr := binding.Produce(ctx)
	require.Error(t, produceErr)
	var internalErr InternalError
	require.True(t, errors.As(produceErr, &internalErr))
	assert.Contains(t, internalErr.Cause.Error(), "boom")
}
