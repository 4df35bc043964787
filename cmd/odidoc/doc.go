// Command odidoc — wiring-report generator (Go)
//
// odidoc scans a package directory with go/parser for di.Bind /
// di.BindConstructor / di.BindInstance call sites and writes a
// `DO NOT EDIT` Go file listing every component key it found: the bound
// type, its qualifier (if any), and its scope (if any). It never runs the
// container and never reflects on a live value — everything is read
// straight from the call-site syntax, the same AST-only approach
// cmd/odiscan takes.
//
// Usage
//
//	odidoc -dir ./internal/services -out ./internal/services/wiring.gen.go
//
// The generated file's header comment embeds a sha256 of the scanned
// source, the same "has anything actually changed" signal cmd/di2 used
// around its own spec hash, and it is written atomically (temp file plus
// rename) so a concurrent reader never observes a partial file.
package main
