package store

import (
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders a git-like line diff between two route tables. Both tables
// are sorted first so registration order does not show up as a change.
// An empty string means the tables are equal.
func Diff(before, after []string) string {
	a := slices.Clone(before)
	b := slices.Clone(after)
	slices.Sort(a)
	slices.Sort(b)
	if slices.Equal(a, b) {
		return ""
	}
	dmp := diffmatchpatch.New()
	chars1, chars2, lines := dmp.DiffLinesToChars(joinLines(a), joinLines(b))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(chars1, chars2, false), lines)
	return formatDiff(diffs)
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func formatDiff(diffs []diffmatchpatch.Diff) string {
	var result strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.Split(d.Text, "\n") {
			if line != "" {
				result.WriteString(prefix + line + "\n")
			}
		}
	}
	return result.String()
}
