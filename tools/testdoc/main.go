// Package main provides a CLI tool to generate markdown documentation
// from Go test functions, their doc comments and the CLI test scripts.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	var (
		rootDir    string
		scriptsDir string
		outputFile string
	)

	flag.StringVar(&rootDir, "root", ".", "root directory to scan for test files")
	flag.StringVar(&scriptsDir, "scripts", "cmd/mgit/testscripts", "directory holding *.txtar CLI scripts (relative to root)")
	flag.StringVar(&outputFile, "out", "docs/TESTS.md", "output markdown file")
	flag.Parse()

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error resolving root directory: %v\n", err)
		os.Exit(1)
	}

	packages, err := ParseTestFiles(absRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing test files: %v\n", err)
		os.Exit(1)
	}

	if !filepath.IsAbs(scriptsDir) {
		scriptsDir = filepath.Join(absRoot, scriptsDir)
	}
	scripts, err := ParseScripts(scriptsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing test scripts: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "error creating output directory: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Create(outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating output file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := RenderMarkdown(f, packages, scripts); err != nil {
		fmt.Fprintf(os.Stderr, "error rendering markdown: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s with %d packages and %d scripts\n", outputFile, len(packages), len(scripts))
}
