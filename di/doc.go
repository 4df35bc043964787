// Package di is a reflective dependency-injection container.
//
// A component is any Go struct. Its dependencies are discovered from three
// places:
//
//   - a bound constructor function's parameter list (BindConstructor)
//   - struct fields tagged `inject:"..."` (field injection)
//   - methods named in that struct level's own InjectSites() []string
//     (method injection)
//
// Dependencies are expressed as ComponentRef values: a plain reference
// resolves eagerly, a Provider[T]-typed reference resolves lazily. Config
// collects bindings, Resolve validates the whole graph up front (every
// dependency bound, no cycle through direct references) and returns an
// immutable Context that can build instances on demand.
//
// Design goals:
//   - Eager diagnosis: a malformed component is reported by Bind and an
//     unsatisfiable graph at Resolve time, never discovered mid-construction.
//   - Inheritance through composition: method injection runs exactly the
//     names returned by the component's InjectSites() (see Introspect). A
//     subtype that composes its embedded type's list first gets
//     superclass-first order, and one whose own InjectSites omits a name
//     suppresses that method. Introspect does not walk the embedding chain
//     itself: a subtype without its own InjectSites uses the promoted list,
//     and a listed name resolves to whichever method *T has under it.
//   - Small typed error surface: three error kinds cover every structural
//     failure this package can report, plus InternalError for a failing
//     constructor or injected method; callers use errors.As, not string
//     matching.
//
// This is not safe for concurrent Resolve/Get calls against the same
// Context from multiple goroutines; see LockedScope if you need that.
//
// Import
//
//	"github.com/inkwell/odi/di"
package di
