package di

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxTestGreeting string

type ctxTestGreeter struct {
	Greeting ctxTestGreeting
}

func newCtxTestGreeter(g ctxTestGreeting) *ctxTestGreeter {
	return &ctxTestGreeter{Greeting: g}
}

func TestResolve_UnqualifiedRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindInstance[ctxTestGreeting](cfg, ctxTestGreeting("hi")))
	require.NoError(t, BindConstructor[ctxTestGreeter](cfg, newCtxTestGreeter))

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	g, ok := Resolve[ctxTestGreeter](ctx, nil)
	require.True(t, ok)
	assert.Equal(t, ctxTestGreeting("hi"), g.Greeting)
}

func TestResolve_MissingKeyReturnsFalse(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindInstance[ctxTestGreeting](cfg, ctxTestGreeting("hi")))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	_, ok := Resolve[ctxTestGreeter](ctx, nil)
	assert.False(t, ok)
}

func TestResolve_QualifiedBindingsAreIndependent(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindInstance[ctxTestGreeting](cfg, ctxTestGreeting("utc"), WithQualifier(Named("utc"))))
	require.NoError(t, BindInstance[ctxTestGreeting](cfg, ctxTestGreeting("local"), WithQualifier(Named("local"))))

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	utc, ok := Resolve[ctxTestGreeting](ctx, Named("utc"))
	require.True(t, ok)
	assert.Equal(t, ctxTestGreeting("utc"), utc)

	local, ok := Resolve[ctxTestGreeting](ctx, Named("local"))
	require.True(t, ok)
	assert.Equal(t, ctxTestGreeting("local"), local)

	_, ok = Resolve[ctxTestGreeting](ctx, nil)
	assert.False(t, ok)
}

func TestGet_PanicsOnConstructorFailure(t *testing.T) {
	t.Parallel()
	cfg := New()
	require.NoError(t, BindConstructor[ctxTestGreeter](cfg, func() (*ctxTestGreeter, error) {
		return nil, assertErrBoom
	}))
	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	assert.Panics(t, func() {
		ctx.Get(ComponentRef{Key: KeyOf(componentType[ctxTestGreeter]())})
	})
}

var assertErrBoom = assertError("boom")

type assertError string

func (e assertError) Error() string { return string(e) }
