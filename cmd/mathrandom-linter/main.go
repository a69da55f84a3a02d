// Command mathrandom-linter scans a source tree for math/rand imports
// in production code. Test files are exempt.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gonoise/gonoise/pkg/linter/mathrandom"
)

var (
	rootDir      = flag.String("dir", ".", "Root directory to scan")
	outputFormat = flag.String("format", "text", "Output format (text, json)")
	silentMode   = flag.Bool("silent", false, "Only produce output when issues are found")
	exitWithCode = flag.Bool("exit-code", true, "Exit non-zero when issues are found")
)

func main() {
	flag.Parse()

	absRoot, err := filepath.Abs(*rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving path: %v\n", err)
		os.Exit(1)
	}

	if !*silentMode {
		fmt.Printf("Scanning directory: %s\n", absRoot)
	}

	issues, err := mathrandom.LintProject(absRoot, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error during linting: %v\n", err)
		os.Exit(1)
	}

	if len(issues) == 0 {
		if !*silentMode {
			fmt.Println("No issues found.")
		}
		return
	}

	if *outputFormat == "json" {
		outputJSON(issues)
	} else {
		outputText(absRoot, issues)
	}

	if *exitWithCode {
		os.Exit(1)
	}
}

func outputText(root string, issues []mathrandom.Issue) {
	fmt.Printf("Found %d issues:\n\n", len(issues))
	for i, issue := range issues {
		rel, err := filepath.Rel(root, issue.File)
		if err != nil {
			rel = issue.File
		}
		fmt.Printf("%d) %s:%d:%d: %s\n", i+1, rel, issue.Line, issue.Column, issue.Message)
	}
	fmt.Println("\nEntropy for noise decisions must come from crypto/rand or pkg/securerandom.")
}

func outputJSON(issues []mathrandom.Issue) {
	out := struct {
		Issues []mathrandom.Issue `json:"issues"`
		Total  int                `json:"total_issues"`
	}{Issues: issues, Total: len(issues)}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling to JSON: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}
