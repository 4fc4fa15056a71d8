package pxf

import (
	"sort"
	"strconv"
	"strings"
)

// RecordSet maps a glyph codepoint to its verbatim block text.
// Each block includes its own start line and all continuation lines and is
// normalized to end with exactly one newline. Absence of a key means the
// glyph does not exist in that revision.
type RecordSet map[int]string

// Keys returns the codepoints of the set in ascending order.
func (rs RecordSet) Keys() []int {
	keys := make([]int, 0, len(rs))
	for key := range rs {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}

// ParseRecords partitions a document body into glyph blocks.
//
// The scan is a two-state machine over lines: outside a block, lines are
// skipped; once a start line is seen, lines accumulate until the next start
// line or the end of the body. Text before the first start line is discarded.
// Empty or malformed bodies yield an empty set, never an error.
//
// Duplicate codepoints within one body are unspecified upstream; the last
// block wins, since a later start line simply overwrites the map entry.
func ParseRecords(body string) RecordSet {
	records := make(RecordSet)
	key := -1
	var block strings.Builder

	flush := func() {
		if key < 0 {
			return
		}
		records[key] = strings.TrimRight(block.String(), "\n") + "\n"
		block.Reset()
	}

	for offset := 0; offset < len(body); {
		end := strings.IndexByte(body[offset:], '\n')
		var line string
		if end < 0 {
			line = body[offset:]
			offset = len(body)
		} else {
			line = body[offset : offset+end+1]
			offset += end + 1
		}

		if next, ok := recordStartKey(line); ok {
			flush()
			key = next
		}
		if key >= 0 {
			block.WriteString(line)
		}
	}
	flush()
	return records
}

// StartKeys returns the codepoint of every record-start line in the body, in
// document order and with duplicates preserved. ParseRecords collapses
// duplicate keys, so this is the way to detect them.
func StartKeys(body string) []int {
	var keys []int
	for offset := 0; offset < len(body); {
		end := strings.IndexByte(body[offset:], '\n')
		var line string
		if end < 0 {
			line = body[offset:]
			offset = len(body)
		} else {
			line = body[offset : offset+end+1]
			offset += end + 1
		}
		if key, ok := recordStartKey(line); ok {
			keys = append(keys, key)
		}
	}
	return keys
}

// recordStartKey reports whether a line (terminator included) opens a glyph
// block: exactly one leading tab, a decimal integer, a colon, and nothing but
// whitespace after. Returns the parsed codepoint on a match.
func recordStartKey(line string) (int, bool) {
	line = strings.TrimRight(line, "\n")
	if len(line) < 3 || line[0] != '\t' {
		return 0, false
	}
	i := 1
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 1 || i >= len(line) || line[i] != ':' {
		return 0, false
	}
	if strings.TrimSpace(line[i+1:]) != "" {
		return 0, false
	}
	key, err := strconv.Atoi(line[1:i])
	if err != nil {
		return 0, false
	}
	return key, true
}
