package tui

import (
	"strings"
)

// normalizePane forces s to exactly width columns and height lines so stacked
// sections keep their positions while content changes.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		// Bound the width computation on pathological lines.
		if len(ln) > 8192 {
			ln = ln[:8192]
		}
		lines[i] = fitWidth(ln, width)
	}
	return strings.Join(lines, "\n")
}
