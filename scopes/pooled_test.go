package scopes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell/odi/di"
)

type pooledTestWorker struct{ ID int }

func TestPooled_ScopeKeyIncludesValuesKey(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "pooled-workers", PooledScope{Key: "workers"}.ScopeKey())
	assert.Equal(t, "pooled-connections", PooledScope{Key: "connections"}.ScopeKey())
}

func TestPooled_PanicsWhenValuesKeyMissing(t *testing.T) {
	t.Parallel()
	cfg := di.New()
	assert.Panics(t, func() { Pooled(cfg, "workers") })
}

func TestPooled_ReadsSizeFromConfigValues(t *testing.T) {
	t.Parallel()
	cfg := di.New()
	cfg.Values.Provide("workers", 2)
	pool := Pooled(cfg, "workers")

	calls := 0
	require.NoError(t, di.BindConstructor[pooledTestWorker](cfg, func() pooledTestWorker {
		calls++
		return pooledTestWorker{ID: calls}
	}, di.WithScope(pool)))

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	var seq []int
	for i := 0; i < 5; i++ {
		w, ok := di.Resolve[pooledTestWorker](ctx, nil)
		require.True(t, ok)
		seq = append(seq, w.ID)
	}

	assert.Equal(t, []int{1, 2, 1, 2, 1}, seq)
	assert.Equal(t, 2, calls)
}

func TestPooled_SizeOneBehavesLikeSingleton(t *testing.T) {
	t.Parallel()
	cfg := di.New()
	cfg.Values.Provide("workers", 1)
	pool := Pooled(cfg, "workers")

	calls := 0
	require.NoError(t, di.BindConstructor[pooledTestWorker](cfg, func() pooledTestWorker {
		calls++
		return pooledTestWorker{ID: calls}
	}, di.WithScope(pool)))

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	a, _ := di.Resolve[pooledTestWorker](ctx, nil)
	b, _ := di.Resolve[pooledTestWorker](ctx, nil)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, calls)
}

func TestPooled_IndependentPoolsPerBinding(t *testing.T) {
	t.Parallel()
	cfg := di.New()
	cfg.Values.Provide("workers", 2)
	poolA := Pooled(cfg, "workers")

	callsA, callsB := 0, 0
	require.NoError(t, di.BindConstructor[pooledTestWorker](cfg, func() pooledTestWorker {
		callsA++
		return pooledTestWorker{ID: callsA}
	}, di.WithScope(poolA), di.WithQualifier(di.Named("a"))))
	require.NoError(t, di.BindConstructor[pooledTestWorker](cfg, func() pooledTestWorker {
		callsB++
		return pooledTestWorker{ID: 100 + callsB}
	}, di.WithScope(poolA), di.WithQualifier(di.Named("b"))))

	ctx, err := cfg.Resolve()
	require.NoError(t, err)

	wa, _ := di.Resolve[pooledTestWorker](ctx, di.Named("a"))
	wb, _ := di.Resolve[pooledTestWorker](ctx, di.Named("b"))
	assert.Equal(t, 1, wa.ID)
	assert.Equal(t, 101, wb.ID)
}
