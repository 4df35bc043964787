// Package scopes holds user-defined Scope implementations. Pooled is the
// reference example: the Go counterpart of the original's
// PooledProvider<T>, a bounded round-robin pool sitting between the
// default (fresh-every-Produce) and singleton (built-once) lifecycles.
package scopes

import "github.com/inkwell/odi/di"

// PooledScope marks a component as belonging to a named pool. Key is the
// di.Config.Values entry the pool's size was read from — it is part of
// the scope's identity on purpose, so a caller can register "workers" and
// "connections" as independent pools side by side.
type PooledScope struct {
	Key string
}

// ScopeKey implements di.Scope.
func (s PooledScope) ScopeKey() string { return "pooled-" + s.Key }

// Pooled returns a Scope and registers its factory on cfg in one step,
// mirroring the original's config.scope(Pooled.class, PooledProvider::new)
// registration call. The pool size is not a literal argument here — it is
// read from cfg.Values under key, the ambient-configuration lookup
// Config.Values' own doc comment anticipates a scope factory making.
// Provide it before calling Pooled:
//
//	cfg.Values.Provide("workers", 2)
//	pool := scopes.Pooled(cfg, "workers")
//
// MustGet panics immediately if key was never provided, so a misconfigured
// pool fails at bind time rather than on first Produce.
func Pooled(cfg *di.Config, key string) di.Scope {
	size := cfg.Values.MustGet(key).(int)
	s := PooledScope{Key: key}
	cfg.RegisterScope(s.ScopeKey(), func(inner di.Binding) di.Binding {
		return newPooledBinding(inner, size)
	})
	return s
}

// pooledBinding builds up to size instances, then serves them round-robin.
// No locking, same contract as the rest of this package's default scopes.
type pooledBinding struct {
	inner   di.Binding
	size    int
	pool    []any
	current int
}

func newPooledBinding(inner di.Binding, size int) di.Binding {
	return &pooledBinding{inner: inner, size: size}
}

func (p *pooledBinding) Dependencies() []di.ComponentRef { return p.inner.Dependencies() }

func (p *pooledBinding) Produce(ctx *di.Context) (any, error) {
	if len(p.pool) < p.size {
		val, err := p.inner.Produce(ctx)
		if err != nil {
			return nil, err
		}
		p.pool = append(p.pool, val)
		return val, nil
	}
	val := p.pool[p.current%p.size]
	p.current++
	return val, nil
}
