// Command odiscan — static injection-tag linter (Go)
//
// odiscan reads the .go files in a package directory with go/parser and
// reports two classes of problem the container would otherwise only catch
// at Resolve/Produce time, without instantiating or reflecting on anything:
//
//   - a struct field tagged `inject:"..."` that is unexported — di.Introspect
//     rejects this as IllegalComponentError, but only once that type is
//     actually bound; odiscan catches it at lint time.
//   - an InjectSites() []string method whose returned literal names a
//     method the receiver type does not actually declare anywhere in the
//     package — di.Introspect rejects this too, again only once bound,
//     unless the name is a method promoted from an embedded type, which
//     di.Introspect accepts and odiscan still reports.
//
// Usage
//
//	odiscan -dir ./internal/services
//
// Exit status is 0 with no output when the directory is clean, 1 with one
// line per finding otherwise. odiscan never writes anything; unlike
// odidoc it only scans.
package main
