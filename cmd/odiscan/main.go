package main

import (
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"io/fs"
	"os"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// finding is one lint result, positioned so an editor can jump to it.
type finding struct {
	Pos     token.Position
	Message string
}

// run executes the scan and prints findings, one per line, sorted by
// file/line. It exists separately from main so tests can exercise it
// without os.Exit.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("odiscan", flag.ContinueOnError)
	flags.SetOutput(stderr)
	dir := flags.String("dir", ".", "package directory to scan")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	findings, err := scanDir(*dir)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 2
	}

	for _, f := range findings {
		_, _ = fmt.Fprintf(stdout, "%s: %s\n", f.Pos, f.Message)
	}
	if len(findings) > 0 {
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// scanDir parses every non-test .go file in dir and reports:
//   - inject-tagged fields that are unexported (di.Introspect would reject
//     these as IllegalComponentError the first time the type is bound)
//   - InjectSites() names that don't resolve to any method declared on the
//     same receiver type anywhere in the package
func scanDir(dir string) ([]finding, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, nonTestGoFile, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var findings []finding
	methodsByType := map[string]map[string]bool{}
	var injectSitesDecls []*ast.FuncDecl
	receiverOf := map[*ast.FuncDecl]string{}

	for _, pkg := range pkgs {
		for _, file := range pkg.Files {
			for _, decl := range file.Decls {
				fd, ok := decl.(*ast.FuncDecl)
				if !ok || fd.Recv == nil || len(fd.Recv.List) == 0 {
					continue
				}
				typeName := receiverTypeName(fd.Recv.List[0].Type)
				if typeName == "" {
					continue
				}
				if methodsByType[typeName] == nil {
					methodsByType[typeName] = map[string]bool{}
				}
				methodsByType[typeName][fd.Name.Name] = true
				if fd.Name.Name == "InjectSites" {
					injectSitesDecls = append(injectSitesDecls, fd)
					receiverOf[fd] = typeName
				}
			}

			findings = append(findings, scanUnexportedInjectFields(fset, file)...)
		}
	}

	for _, fd := range injectSitesDecls {
		typeName := receiverOf[fd]
		known := methodsByType[typeName]
		pos := fset.Position(fd.Pos())
		for _, raw := range literalStringsIn(fd.Body) {
			name, _, _ := strings.Cut(raw, ":")
			if name == "" || name == "InjectSites" {
				continue
			}
			if !known[name] {
				findings = append(findings, finding{
					Pos:     pos,
					Message: fmt.Sprintf("%s.InjectSites names unknown method %q", typeName, name),
				})
			}
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i].Pos, findings[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Line < b.Line
	})
	return findings, nil
}

func scanUnexportedInjectFields(fset *token.FileSet, file *ast.File) []finding {
	var findings []finding
	ast.Inspect(file, func(n ast.Node) bool {
		ts, ok := n.(*ast.TypeSpec)
		if !ok {
			return true
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok || st.Fields == nil {
			return true
		}
		for _, field := range st.Fields.List {
			if field.Tag == nil {
				continue
			}
			tag := reflect.StructTag(strings.Trim(field.Tag.Value, "`"))
			if _, ok := tag.Lookup("inject"); !ok {
				continue
			}
			for _, name := range field.Names {
				if !ast.IsExported(name.Name) {
					findings = append(findings, finding{
						Pos:     fset.Position(name.Pos()),
						Message: fmt.Sprintf("field %s.%s is tagged inject but unexported", ts.Name.Name, name.Name),
					})
				}
			}
		}
		return true
	})
	return findings
}

// receiverTypeName unwraps a pointer receiver (*T) down to its identifier,
// the Go-AST analogue of stripping a class name from its annotation.
func receiverTypeName(expr ast.Expr) string {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if ident, ok := expr.(*ast.Ident); ok {
		return ident.Name
	}
	return ""
}

// literalStringsIn collects every string literal appearing anywhere in
// body. This is deliberately approximate rather than a full evaluator for
// InjectSites' return expression — a composed return like
// append(d.Base.InjectSites(), "Configure") is common and not a plain
// slice literal, so odiscan reads every string literal in the body
// instead of requiring one specific shape, and accepts the small risk of
// picking up an unrelated string constant along the way.
func literalStringsIn(body *ast.BlockStmt) []string {
	if body == nil {
		return nil
	}
	var out []string
	ast.Inspect(body, func(n ast.Node) bool {
		lit, ok := n.(*ast.BasicLit)
		if !ok || lit.Kind != token.STRING {
			return true
		}
		if s, err := strconv.Unquote(lit.Value); err == nil {
			out = append(out, s)
		}
		return true
	})
	return out
}

func nonTestGoFile(fi fs.FileInfo) bool {
	name := fi.Name()
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}
