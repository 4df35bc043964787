package main

import (
	"crypto/sha256"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

// binding is one discovered di.Bind*/BindConstructor/BindInstance call
// site, read straight from its syntax — no type-checking, no reflection.
type binding struct {
	Verb      string
	Type      string
	Qualifier string
	Scope     string
	Pos       token.Position
}

// run executes the scan-and-generate pipeline and returns an exit code.
// It exists separately from main so tests can exercise it without os.Exit.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("odidoc", flag.ContinueOnError)
	flags.SetOutput(stderr)
	dir := flags.String("dir", ".", "package directory to scan")
	outPath := flags.String("out", "", "output .gen.go file path")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if strings.TrimSpace(*outPath) == "" {
		_, _ = fmt.Fprintln(stderr, "usage: odidoc -dir <pkgdir> -out <file.gen.go>")
		return 2
	}

	bindings, pkgName, hash, err := scanBindings(*dir)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	var out strings.Builder
	if err := genTemplate.Execute(&out, templateData{
		Package:  pkgName,
		Hash:     hash,
		Bindings: bindings,
	}); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	if err := writeFileAtomic(filepath.Clean(*outPath), []byte(out.String()), 0o644); err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// scanBindings parses every non-test .go file in dir and extracts every
// di.Bind/di.BindConstructor/di.BindInstance[T] call, along with any
// WithQualifier/WithScope option passed alongside it.
func scanBindings(dir string) ([]binding, string, string, error) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, dir, nonTestGoFile, parser.ParseComments)
	if err != nil {
		return nil, "", "", err
	}

	var bindings []binding
	pkgName := ""
	hasher := sha256.New()

	var fileNames []string
	for name := range pkgs {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	for _, name := range fileNames {
		pkg := pkgs[name]
		if pkgName == "" {
			pkgName = pkg.Name
		}
		var paths []string
		for path := range pkg.Files {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		for _, path := range paths {
			file := pkg.Files[path]
			src, readErr := os.ReadFile(path)
			if readErr == nil {
				hasher.Write(src)
			}

			ast.Inspect(file, func(n ast.Node) bool {
				call, ok := n.(*ast.CallExpr)
				if !ok {
					return true
				}
				verb, typeArg := bindCallSignature(call.Fun)
				if verb == "" {
					return true
				}
				b := binding{
					Verb: verb,
					Type: types.ExprString(typeArg),
					Pos:  fset.Position(call.Pos()),
				}
				for _, arg := range call.Args {
					if q, ok := qualifierOf(arg); ok {
						b.Qualifier = q
					}
					if s, ok := scopeOf(arg); ok {
						b.Scope = s
					}
				}
				bindings = append(bindings, b)
				return true
			})
		}
	}

	sort.Slice(bindings, func(i, j int) bool {
		a, b := bindings[i].Pos, bindings[j].Pos
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		return a.Line < b.Line
	})

	return bindings, pkgName, fmt.Sprintf("%x", hasher.Sum(nil))[:16], nil
}

// bindCallSignature recognizes di.Bind[T]/di.BindConstructor[T]/
// di.BindInstance[T] — a generic call is an *ast.IndexExpr wrapping the
// selector, with the type argument as its Index.
func bindCallSignature(fun ast.Expr) (verb string, typeArg ast.Expr) {
	idx, ok := fun.(*ast.IndexExpr)
	if !ok {
		return "", nil
	}
	sel, ok := idx.X.(*ast.SelectorExpr)
	if !ok {
		return "", nil
	}
	pkgIdent, ok := sel.X.(*ast.Ident)
	if !ok || pkgIdent.Name != "di" {
		return "", nil
	}
	switch sel.Sel.Name {
	case "Bind", "BindConstructor", "BindInstance":
		return sel.Sel.Name, idx.Index
	default:
		return "", nil
	}
}

// qualifierOf recognizes di.WithQualifier(di.Named("x")) and returns "x".
func qualifierOf(arg ast.Expr) (string, bool) {
	call, ok := arg.(*ast.CallExpr)
	if !ok || !isDIFunc(call.Fun, "WithQualifier") || len(call.Args) != 1 {
		return "", false
	}
	named, ok := call.Args[0].(*ast.CallExpr)
	if !ok || !isDIFunc(named.Fun, "Named") || len(named.Args) != 1 {
		return "", false
	}
	lit, ok := named.Args[0].(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return s, true
}

// scopeOf recognizes di.WithScope(<expr>) and renders <expr> as source
// text; di.SingletonScope{} is normalized to "singleton" since that is
// the name components actually resolve it under.
func scopeOf(arg ast.Expr) (string, bool) {
	call, ok := arg.(*ast.CallExpr)
	if !ok || !isDIFunc(call.Fun, "WithScope") || len(call.Args) != 1 {
		return "", false
	}
	text := types.ExprString(call.Args[0])
	if text == "di.SingletonScope{}" {
		return "singleton", true
	}
	return text, true
}

func isDIFunc(fun ast.Expr, name string) bool {
	sel, ok := fun.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != name {
		return false
	}
	pkgIdent, ok := sel.X.(*ast.Ident)
	return ok && pkgIdent.Name == "di"
}

func nonTestGoFile(fi fs.FileInfo) bool {
	name := fi.Name()
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}

type templateData struct {
	Package  string
	Hash     string
	Bindings []binding
}

var genTemplate = template.Must(template.New("odidoc").Parse(`// Code generated by odidoc; DO NOT EDIT.
// source hash: {{.Hash}}

package {{.Package}}

// Wiring report — one line per discovered binding.
//
{{range .Bindings -}}
//   {{.Verb}}[{{.Type}}]{{if .Qualifier}} @"{{.Qualifier}}"{{end}}{{if .Scope}} scope={{.Scope}}{{end}}
{{end -}}
`))

type tempFile interface {
	Name() string
	Write([]byte) (int, error)
	Close() error
}

var (
	createTempFile = func(dir, pattern string) (tempFile, error) { return os.CreateTemp(dir, pattern) }
	chmodFile      = os.Chmod
	renameFile     = os.Rename
	removeFile     = os.Remove
)

// writeFileAtomic writes to a temp file in the same directory and renames
// it over targetPath, so a concurrent reader never observes a partial
// write.
func writeFileAtomic(targetPath string, data []byte, perm os.FileMode) (err error) {
	targetDir := filepath.Dir(targetPath)

	tmpFile, err := createTempFile(targetDir, filepath.Base(targetPath)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			_ = removeFile(tmpPath)
		}
	}()

	if _, err = tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err = tmpFile.Close(); err != nil {
		return err
	}
	if err = chmodFile(tmpPath, perm); err != nil {
		return err
	}
	if err = renameFile(tmpPath, targetPath); err != nil {
		return err
	}
	return nil
}
