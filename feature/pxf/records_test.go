package pxf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecords(t *testing.T) {
	t.Run("Two Blocks", func(t *testing.T) {
		_, body := SplitHeaderBody(sampleDoc)
		records := ParseRecords(body)
		require.Len(t, records, 2)
		assert.Equal(t, "\t65:\n\t\tadvance: 6\n\t\tpixels: 0 0, 1 0\n", records[65])
		assert.Equal(t, "\t66:\n\t\tadvance: 6\n\t\tpixels: 0 1\n", records[66])
	})

	t.Run("Empty Body", func(t *testing.T) {
		assert.Empty(t, ParseRecords(""))
	})

	t.Run("Malformed Body", func(t *testing.T) {
		assert.Empty(t, ParseRecords("no records here\njust prose\n"))
	})

	t.Run("Text Before First Block Is Dropped", func(t *testing.T) {
		records := ParseRecords("stray line\n\t65:\n\t\tadvance: 6\n")
		require.Len(t, records, 1)
		assert.Equal(t, "\t65:\n\t\tadvance: 6\n", records[65])
	})

	t.Run("Trailing Newlines Normalized", func(t *testing.T) {
		records := ParseRecords("\t65:\n\t\tadvance: 6\n\n\n")
		assert.Equal(t, "\t65:\n\t\tadvance: 6\n", records[65])
	})

	t.Run("Unterminated Final Block", func(t *testing.T) {
		records := ParseRecords("\t65:\n\t\tadvance: 6")
		assert.Equal(t, "\t65:\n\t\tadvance: 6\n", records[65])
	})

	// Duplicate keys are unspecified in the format; the scanner keeps the
	// last block, since block boundaries are purely positional.
	t.Run("Duplicate Key Last Block Wins", func(t *testing.T) {
		records := ParseRecords("\t65:\n\t\tadvance: 1\n\t65:\n\t\tadvance: 2\n")
		require.Len(t, records, 1)
		assert.Equal(t, "\t65:\n\t\tadvance: 2\n", records[65])
	})

	t.Run("Start Line Shape", func(t *testing.T) {
		tests := []struct {
			name  string
			body  string
			found bool
		}{
			{"Plain", "\t65:\n", true},
			{"Trailing Spaces", "\t65:  \n", true},
			{"No Tab", "65:\n", false},
			{"Double Tab", "\t\t65:\n", false},
			{"Space Indent", " 65:\n", false},
			{"No Colon", "\t65\n", false},
			{"Trailing Garbage", "\t65: x\n", false},
			{"Not A Number", "\tAB:\n", false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				records := ParseRecords(tt.body)
				if tt.found {
					assert.Contains(t, records, 65)
				} else {
					assert.Empty(t, records)
				}
			})
		}
	})
}

func TestStartKeys(t *testing.T) {
	t.Run("Document Order With Duplicates", func(t *testing.T) {
		body := "\t66:\n\t\tadvance: 6\n\t65:\n\t\tadvance: 1\n\t65:\n\t\tadvance: 2\n"
		assert.Equal(t, []int{66, 65, 65}, StartKeys(body))
	})

	t.Run("No Records", func(t *testing.T) {
		assert.Empty(t, StartKeys("just prose\n"))
	})
}

func TestRecordSetKeys(t *testing.T) {
	rs := RecordSet{9: "a", 1: "b", 5: "c"}
	assert.Equal(t, []int{1, 5, 9}, rs.Keys())
	assert.Empty(t, RecordSet{}.Keys())
}
