package main

import (
	"errors"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rogpeppe/go-internal/txtar"
)

// TestFunc represents a parsed test function.
type TestFunc struct {
	Name    string // Function name (e.g., "TestRegister_AppendKeepsIDs")
	Doc     string // Doc comment text
	Line    int    // Line number in source file
	IsTable bool   // Whether this appears to be a table-driven test
}

// TestFile represents a parsed test file.
type TestFile struct {
	Name  string     // File name (e.g., "registry_test.go")
	Path  string     // Full path to file
	Tests []TestFunc // Test functions in this file
}

// TestPackage represents a collection of test files in a package.
type TestPackage struct {
	Name       string     // Package path relative to root
	Files      []TestFile // Test files in this package
	TotalTests int        // Total test count
}

// Script is one testscript scenario.
type Script struct {
	Name     string   // File name without .txtar
	Summary  string   // First comment line
	Commands []string // mgit subcommands exercised, in first-use order
	Files    int      // Files embedded in the archive
}

// ParseTestFiles walks the directory tree and parses all *_test.go files.
func ParseTestFiles(root string) ([]TestPackage, error) {
	packageMap := make(map[string]*TestPackage)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip vendor, hidden and underscore directories
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}

		testFile, err := parseTestFile(path)
		if err != nil {
			return err
		}
		if len(testFile.Tests) == 0 {
			return nil
		}

		pkgPath, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil || pkgPath == "." {
			pkgPath = filepath.Base(root)
		}
		pkgPath = filepath.ToSlash(pkgPath)

		pkg, ok := packageMap[pkgPath]
		if !ok {
			pkg = &TestPackage{Name: pkgPath}
			packageMap[pkgPath] = pkg
		}
		pkg.Files = append(pkg.Files, *testFile)
		pkg.TotalTests += len(testFile.Tests)

		return nil
	})
	if err != nil {
		return nil, err
	}

	packages := make([]TestPackage, 0, len(packageMap))
	for _, pkg := range packageMap {
		slices.SortFunc(pkg.Files, func(a, b TestFile) int { return strings.Compare(a.Name, b.Name) })
		packages = append(packages, *pkg)
	}
	slices.SortFunc(packages, func(a, b TestPackage) int { return strings.Compare(a.Name, b.Name) })

	return packages, nil
}

// parseTestFile parses a single test file and extracts test functions.
func parseTestFile(path string) (*TestFile, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	testFile := &TestFile{
		Name: filepath.Base(path),
		Path: path,
	}

	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv != nil {
			continue
		}
		if !strings.HasPrefix(fn.Name.Name, "Test") || fn.Name.Name == "TestMain" {
			continue
		}
		if !isTestFunction(fn) {
			continue
		}

		testFunc := TestFunc{
			Name:    fn.Name.Name,
			Line:    fset.Position(fn.Pos()).Line,
			IsTable: detectTableDriven(fn),
		}
		if fn.Doc != nil {
			testFunc.Doc = strings.TrimSpace(fn.Doc.Text())
		}

		testFile.Tests = append(testFile.Tests, testFunc)
	}

	return testFile, nil
}

// isTestFunction checks if the function signature matches a test function.
func isTestFunction(fn *ast.FuncDecl) bool {
	if fn.Type.Params == nil || len(fn.Type.Params.List) != 1 {
		return false
	}

	starExpr, ok := fn.Type.Params.List[0].Type.(*ast.StarExpr)
	if !ok {
		return false
	}
	selExpr, ok := starExpr.X.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	ident, ok := selExpr.X.(*ast.Ident)
	if !ok {
		return false
	}

	return ident.Name == "testing" && (selExpr.Sel.Name == "T" || selExpr.Sel.Name == "B")
}

// detectTableDriven reports whether a range loop in the test calls t.Run.
func detectTableDriven(fn *ast.FuncDecl) bool {
	if fn.Body == nil {
		return false
	}

	isTable := false
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		rangeStmt, ok := n.(*ast.RangeStmt)
		if !ok {
			return true
		}

		ast.Inspect(rangeStmt.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			if sel, ok := call.Fun.(*ast.SelectorExpr); ok && sel.Sel.Name == "Run" {
				isTable = true
				return false
			}
			return true
		})

		return !isTable
	})

	return isTable
}

// ParseScripts reads every *.txtar file in dir. A missing dir yields no scripts.
func ParseScripts(dir string) ([]Script, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txtar"))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
	}
	slices.Sort(paths)

	scripts := make([]Script, 0, len(paths))
	for _, path := range paths {
		ar, err := txtar.ParseFile(path)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, parseScript(strings.TrimSuffix(filepath.Base(path), ".txtar"), ar))
	}
	return scripts, nil
}

// parseScript extracts the summary and the subcommands of "exec mgit" lines.
func parseScript(name string, ar *txtar.Archive) Script {
	s := Script{Name: name, Files: len(ar.Files)}

	for _, line := range strings.Split(string(ar.Comment), "\n") {
		line = strings.TrimSpace(line)
		if s.Summary == "" && strings.HasPrefix(line, "#") {
			s.Summary = strings.TrimSpace(strings.TrimPrefix(line, "#"))
			continue
		}
		if sub := extractSubcommand(line); sub != "" && !slices.Contains(s.Commands, sub) {
			s.Commands = append(s.Commands, sub)
		}
	}
	return s
}

// extractSubcommand returns the first non-flag argument of an
// "exec mgit ..." line, with any "!" negation or condition prefix removed.
// Examples:
//   - exec mgit status --last -> status
//   - ! exec mgit load 42     -> load
//   - [unix] exec mgit -v list -> list
func extractSubcommand(line string) string {
	fields := strings.Fields(line)
	for len(fields) > 0 && (fields[0] == "!" || fields[0] == "?" || strings.HasPrefix(fields[0], "[")) {
		fields = fields[1:]
	}
	if len(fields) < 2 || fields[0] != "exec" || fields[1] != "mgit" {
		return ""
	}
	for _, f := range fields[2:] {
		if strings.HasPrefix(f, "-") {
			if f == "--version" {
				return f
			}
			continue
		}
		return f
	}
	return ""
}
