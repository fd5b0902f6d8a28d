package main

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

var anchorInvalid = regexp.MustCompile(`[^a-z0-9-]`)

// RenderMarkdown writes the test documentation as markdown.
func RenderMarkdown(w io.Writer, packages []TestPackage, scripts []Script) error {
	fmt.Fprintf(w, "# Test Documentation\n\n")
	fmt.Fprintf(w, "Generated: %s\n\n", time.Now().Format("2006-01-02"))

	// Summary
	fmt.Fprintf(w, "## Summary\n\n")
	fmt.Fprintf(w, "| Package | Tests | Table-driven |\n")
	fmt.Fprintf(w, "|---------|-------|--------------|\n")

	totalTests := 0
	for _, pkg := range packages {
		table := 0
		for _, file := range pkg.Files {
			for _, test := range file.Tests {
				if test.IsTable {
					table++
				}
			}
		}
		fmt.Fprintf(w, "| [%s](#%s) | %d | %d |\n", pkg.Name, toAnchor(pkg.Name), pkg.TotalTests, table)
		totalTests += pkg.TotalTests
	}
	fmt.Fprintf(w, "| **Total** | **%d** | |\n\n", totalTests)

	for _, pkg := range packages {
		renderPackageSection(w, pkg)
	}

	if len(scripts) > 0 {
		renderScriptSection(w, scripts)
	}

	return nil
}

func renderPackageSection(w io.Writer, pkg TestPackage) {
	fmt.Fprintf(w, "## %s\n\n", pkg.Name)
	fmt.Fprintf(w, "| Test | File | Description |\n")
	fmt.Fprintf(w, "|------|------|-------------|\n")

	for _, file := range pkg.Files {
		for _, test := range file.Tests {
			desc := extractDescription(test.Doc, test.Name)
			// Escape pipes in description for markdown table
			desc = strings.ReplaceAll(desc, "|", "\\|")
			fmt.Fprintf(w, "| `%s` | %s:%d | %s |\n", test.Name, file.Name, test.Line, desc)
		}
	}
	fmt.Fprintf(w, "\n")
}

func renderScriptSection(w io.Writer, scripts []Script) {
	fmt.Fprintf(w, "## CLI scenarios\n\n")
	fmt.Fprintf(w, "| Script | Commands | Description |\n")
	fmt.Fprintf(w, "|--------|----------|-------------|\n")

	for _, s := range scripts {
		cmds := make([]string, len(s.Commands))
		for i, c := range s.Commands {
			cmds[i] = "`mgit " + c + "`"
		}
		desc := s.Summary
		if desc == "" {
			desc = "_No documentation_"
		}
		fmt.Fprintf(w, "| `%s` | %s | %s |\n", s.Name, strings.Join(cmds, ", "), strings.ReplaceAll(desc, "|", "\\|"))
	}
	fmt.Fprintf(w, "\n")
}

// extractDescription gets the first line of the doc comment as description.
// It strips the test function name from the beginning if present.
func extractDescription(doc string, testName string) string {
	for _, line := range strings.Split(doc, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// "TestScan_Recursive walks..." -> "Walks..."
		line = strings.TrimPrefix(line, testName+" ")
		return strings.ToUpper(line[:1]) + line[1:]
	}
	return "_No documentation_"
}

// toAnchor converts a heading to a markdown anchor.
func toAnchor(heading string) string {
	anchor := strings.ToLower(strings.ReplaceAll(heading, " ", "-"))
	return anchorInvalid.ReplaceAllString(anchor, "")
}
