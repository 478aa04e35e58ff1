package vcs

import (
	"regexp"
	"strings"

	"github.com/waigani/diffparser"
)

// DefaultTestPatterns match common test file naming conventions across
// JavaScript/TypeScript, Go, C# and Python.
var DefaultTestPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.test\.[jt]sx?$`),
	regexp.MustCompile(`\.spec\.[jt]sx?$`),
	regexp.MustCompile(`_test\.go$`),
	regexp.MustCompile(`Tests?\.cs$`),
	regexp.MustCompile(`(^|/)test_[^/]+\.py$`),
	regexp.MustCompile(`_test\.py$`),
}

var newFileLine = regexp.MustCompile(`(?m)^\+\+\+ b/(.+)$`)

// ExtractTestFiles returns the added or modified files in diff whose names
// match one of patterns (DefaultTestPatterns when none are given). This is a
// filename heuristic only; deleted files are skipped.
func ExtractTestFiles(diff string, patterns ...*regexp.Regexp) []string {
	if len(patterns) == 0 {
		patterns = DefaultTestPatterns
	}

	names := changedFiles(diff)

	seen := make(map[string]bool)
	var files []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if seen[name] || !matchesAny(name, patterns) {
			continue
		}
		seen[name] = true
		files = append(files, name)
	}
	return files
}

// changedFiles lists the non-deleted target paths in diff. It falls back to
// scanning "+++ b/" lines when the diff cannot be parsed.
func changedFiles(diff string) (names []string) {
	defer func() {
		if recover() != nil {
			names = scanNewFiles(diff)
		}
	}()

	parsed, err := diffparser.Parse(diff)
	if err != nil || len(parsed.Files) == 0 {
		return scanNewFiles(diff)
	}
	for _, f := range parsed.Files {
		if f.Mode == diffparser.DELETED || f.NewName == "" {
			continue
		}
		names = append(names, f.NewName)
	}
	return names
}

func scanNewFiles(diff string) []string {
	var names []string
	for _, m := range newFileLine.FindAllStringSubmatch(diff, -1) {
		names = append(names, m[1])
	}
	return names
}

func matchesAny(name string, patterns []*regexp.Regexp) bool {
	for _, p := range patterns {
		if p.MatchString(name) {
			return true
		}
	}
	return false
}
