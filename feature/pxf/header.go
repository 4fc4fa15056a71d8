package pxf

import (
	"fmt"
	"strings"
)

// CountField is the derived header field holding the glyph count.
const CountField = "num_glyphs"

// RewriteGlyphCount replaces the integer of the first num_glyphs line in the
// header with count, leaving every other line byte-identical. If no such line
// exists, a new one is inserted immediately before the anchor line. Rewriting
// twice with the same count is a no-op relative to the first rewrite.
//
// A header that has neither a num_glyphs line nor an anchor line is returned
// unchanged; there is no position the field could be derived into.
func RewriteGlyphCount(header string, count int) string {
	lines := splitAfterNewlines(header)
	field := fmt.Sprintf("%s: %d\n", CountField, count)

	if hasCountLine(lines) {
		var out strings.Builder
		replaced := false
		for _, line := range lines {
			if !replaced && isCountLine(line) {
				out.WriteString(field)
				replaced = true
				continue
			}
			out.WriteString(line)
		}
		return out.String()
	}

	var out strings.Builder
	for _, line := range lines {
		if strings.TrimSpace(line) == AnchorLine {
			out.WriteString(field)
		}
		out.WriteString(line)
	}
	return out.String()
}

func hasCountLine(lines []string) bool {
	for _, line := range lines {
		if isCountLine(line) {
			return true
		}
	}
	return false
}

// isCountLine matches "num_glyphs:" anchored at line start, followed by a
// decimal integer and only whitespace before the terminator.
func isCountLine(line string) bool {
	rest, ok := strings.CutPrefix(line, CountField+":")
	if !ok || !strings.HasSuffix(rest, "\n") {
		return false
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// splitAfterNewlines splits text into lines keeping each terminator attached,
// like bufio scanning but without dropping an unterminated tail.
func splitAfterNewlines(text string) []string {
	var lines []string
	for len(text) > 0 {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			lines = append(lines, text)
			break
		}
		lines = append(lines, text[:i+1])
		text = text[i+1:]
	}
	return lines
}
