package pxf

import "strings"

// Assemble concatenates a header with glyph blocks in ascending codepoint
// order. Blocks missing a trailing newline get one so that no two blocks ever
// run together. Output is byte-deterministic for identical inputs.
func Assemble(header string, records RecordSet) string {
	var out strings.Builder
	out.WriteString(header)
	for _, key := range records.Keys() {
		block := records[key]
		out.WriteString(block)
		if !strings.HasSuffix(block, "\n") {
			out.WriteString("\n")
		}
	}
	return out.String()
}
