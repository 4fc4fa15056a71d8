package merge

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// RenderMarkdown turns a report into the human-readable markdown summary.
// Codepoints carry a U+ annotation next to the decimal key. Conflicts and
// removals are rendered as unchecked checkboxes listing the resolution
// tokens, so the block can be edited into a choices file for a second run.
// Conflict entries include a line diff of ours versus theirs for context.
func RenderMarkdown(report *Report) string {
	var out strings.Builder
	out.WriteString("# .pxf merge report\n\n")
	fmt.Fprintf(&out, "num_glyphs: %d\n\n", report.Summary.GlyphCount)
	fmt.Fprintf(&out, "added: %d, removed: %d, changed one side: %d, conflicts: %d\n",
		report.Summary.Added, report.Summary.Removed,
		report.Summary.ChangedSingleSide, report.Summary.ChangedBothSides)

	if len(report.Added) > 0 {
		fmt.Fprintf(&out, "\n## Added (%d)\n\n", len(report.Added))
		for _, key := range report.Added {
			fmt.Fprintf(&out, "- %s\n", codepoint(key))
		}
	}

	if len(report.Removed) > 0 {
		fmt.Fprintf(&out, "\n## Removed (%d)\n\n", len(report.Removed))
		for _, key := range report.Removed {
			fmt.Fprintf(&out, "- [ ] %s: %s\n", codepoint(key), tokenMenu())
		}
	}

	if len(report.ChangedSingleSide) > 0 {
		fmt.Fprintf(&out, "\n## Changed on one side (%d)\n\n", len(report.ChangedSingleSide))
		for _, key := range report.ChangedSingleSide {
			fmt.Fprintf(&out, "- %s\n", codepoint(key))
		}
	}

	if len(report.ChangedBothSides) > 0 {
		fmt.Fprintf(&out, "\n## Conflicts (%d)\n\n", len(report.ChangedBothSides))
		for _, key := range report.ChangedBothSides {
			fmt.Fprintf(&out, "- [ ] %s: %s\n", codepoint(key), tokenMenu())
			if detail, ok := report.Conflicts[key]; ok {
				out.WriteString(renderConflictDiff(detail))
			}
		}
	}

	return out.String()
}

func codepoint(key int) string {
	return fmt.Sprintf("%d (U+%04X)", key, key)
}

func tokenMenu() string {
	quoted := make([]string, len(ResolutionTokens))
	for i, token := range ResolutionTokens {
		quoted[i] = "`" + token + "`"
	}
	return strings.Join(quoted, " / ")
}

// renderConflictDiff produces a fenced diff block of ours versus theirs.
// The line-level reduction avoids newline boundary artifacts when turning
// character diffs back into line operations.
func renderConflictDiff(detail ConflictDetail) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(detail.Ours, detail.Theirs)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	out.WriteString("\n  ```diff\n")
	for _, diff := range diffs {
		prefix := "  "
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "  -"
		case diffmatchpatch.DiffInsert:
			prefix = "  +"
		}
		for _, line := range strings.Split(strings.TrimRight(diff.Text, "\n"), "\n") {
			out.WriteString(prefix)
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	out.WriteString("  ```\n")
	return out.String()
}
