package skills

import (
	"fmt"
	"strings"
)

// FilterConfidence keeps the learnings of tier c, preserving order
func FilterConfidence(learnings []Learning, c Confidence) []Learning {
	var out []Learning
	for _, l := range learnings {
		if l.Confidence == c {
			out = append(out, l)
		}
	}
	return out
}

// WithoutKnown drops learnings whose rule is already in known (case-insensitive)
func WithoutKnown(learnings []Learning, known []string) []Learning {
	seen := make(map[string]bool, len(known))
	for _, k := range known {
		seen[normalizeRule(k)] = true
	}
	var out []Learning
	for _, l := range learnings {
		key := normalizeRule(l.Rule)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}

func normalizeRule(rule string) string {
	return strings.ToLower(strings.Join(strings.Fields(rule), " "))
}

// FormatLearningsSection renders learnings as a dated markdown section,
// grouped by confidence tier from high to low.
func FormatLearningsSection(date string, learnings []Learning) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n## Learnings (%s)\n", date)

	for _, c := range Confidences {
		group := FilterConfidence(learnings, c)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", c.Title())
		for _, l := range group {
			fmt.Fprintf(&b, "- %s\n", oneLine(l.Rule))
			fmt.Fprintf(&b, "  - Evidence: \"%s\"\n", oneLine(l.Evidence))
		}
	}
	return b.String()
}

// oneLine keeps multi-line model output from breaking the list structure
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
