// Package odi is the repository root for a reflective dependency-injection
// container for Go.
//
// The engine lives in the di subpackage:
//
//   - di: ComponentKey/ComponentRef, Introspector, Provider, ScopeRegistry,
//     Config, Validator, Context
//   - scopes: the Pooled reference scope, built on top of di.ScopeRegistry
//   - cmd/odiscan, cmd/odidoc: static tools that read injection tags
//     (odiscan) and di.Bind* call sites (odidoc) without instantiating
//     anything
//
// Unlike the explicit, reflection-free wiring style this repository started
// from, di builds the dependency graph from struct tags, constructor
// signatures and the InjectSites hook, validates it eagerly, and resolves
// instances through a Context. See di's package doc for the full contract.
package odi
