// Package normalize turns raw source text into the snippet shown to players.
//
// Comment stripping is a text heuristic, not a lexer: markers that appear
// inside string literals (a "#" in a Python string, "/*" in a glob pattern)
// are stripped as if they were comments, and comment syntaxes outside the
// recognized set are kept. Both are accepted limitations.
package normalize

import (
	"regexp"
	"strings"
)

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	htmlComment  = regexp.MustCompile(`(?s)<!--.*?-->`)
	lineComment  = regexp.MustCompile(`(?i)^\s*(//|#|--|;|%|REM\b)`)
	// Any run of carriage returns before a newline is one line break, so a
	// joined result splits back into the same lines.
	lineBreak = regexp.MustCompile(`\r*\n`)
)

const tabWidth = "    "

// Normalize strips comments, expands tabs, trims blank edge lines and
// removes the indentation shared by every non-blank line.
func Normalize(raw string) string {
	return Dedent(StripComments(raw))
}

// StripComments removes block comments and full-line comments.
func StripComments(text string) string {
	// Removing one block can splice its neighbours into a new one
	// ("/" + "/*x*/" + "*y*/"), so repeat until nothing matches.
	for {
		next := htmlComment.ReplaceAllString(blockComment.ReplaceAllString(text, ""), "")
		if next == text {
			break
		}
		text = next
	}

	lines := lineBreak.Split(text, -1)
	kept := lines[:0]
	for _, line := range lines {
		if lineComment.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Dedent expands tabs, drops blank lines at both edges and strips the
// smallest leading-space count from every line.
func Dedent(text string) string {
	lines := lineBreak.Split(strings.ReplaceAll(text, "\t", tabWidth), -1)

	for len(lines) > 0 && isBlank(lines[0]) {
		lines = lines[1:]
	}
	for len(lines) > 0 && isBlank(lines[len(lines)-1]) {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	minIndent := -1
	for _, line := range lines {
		if isBlank(line) {
			continue
		}
		if n := leadingSpaces(line); minIndent < 0 || n < minIndent {
			minIndent = n
		}
	}
	if minIndent < 0 {
		minIndent = 0
	}

	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = line[min(minIndent, leadingSpaces(line)):]
	}
	return strings.Join(out, "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

func leadingSpaces(line string) int {
	return len(line) - len(strings.TrimLeft(line, " "))
}
