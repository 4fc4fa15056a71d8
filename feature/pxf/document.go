package pxf

import "strings"

// AnchorLine is the keyword line separating the header from the glyph body.
const AnchorLine = "glyphs:"

// NormalizeLineEndings converts CRLF and bare CR terminators to LF.
// Revisions routinely cross Windows and Unix checkouts; normalizing first
// keeps the per-glyph comparison from flagging every block as changed.
func NormalizeLineEndings(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// SplitHeaderBody splits a document at the first anchor line.
// The header includes the anchor line and its terminator; the body is
// everything after it. A document without an anchor line is valid, if
// degenerate: the whole text is header and the body is empty.
//
// The anchor line may carry leading and trailing whitespace but must be
// newline terminated, matching the original pipeline behavior.
// HasAnchor reports whether the document contains an anchor line, in the
// same terms SplitHeaderBody uses to find one.
func HasAnchor(text string) bool {
	for _, line := range strings.SplitAfter(text, "\n") {
		if !strings.HasSuffix(line, "\n") {
			break
		}
		if strings.TrimSpace(line) == AnchorLine {
			return true
		}
	}
	return false
}

func SplitHeaderBody(text string) (header, body string) {
	offset := 0
	for offset < len(text) {
		end := strings.IndexByte(text[offset:], '\n')
		if end < 0 {
			// Unterminated final line can never be the anchor.
			break
		}
		line := text[offset : offset+end]
		if strings.TrimSpace(line) == AnchorLine {
			cut := offset + end + 1
			return text[:cut], text[cut:]
		}
		offset += end + 1
	}
	return text, ""
}
