package cmd

import (
	"fmt"
	"os"
	"strings"

	"pxf-manager/feature/pxf"

	"github.com/spf13/cobra"
)

// inspectCmd prints the structure of a .pxf file without modifying it.
var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Inspect the glyph table of a .pxf file",
	Long: `Parse a .pxf file and print its glyph inventory: the number of glyph
records, the codepoint range, whether the header counter matches the
actual record count, and any duplicate codepoints in the source.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%w: expected FILE, got %d argument(s)", ErrUsage, len(args))
		}
		return nil
	},
	RunE: runInspect,
}

func init() {
	RootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	text := pxf.NormalizeLineEndings(string(data))
	header, body := pxf.SplitHeaderBody(text)
	records := pxf.ParseRecords(body)
	keys := records.Keys()

	fmt.Printf("file: %s\n", args[0])
	if !pxf.HasAnchor(text) {
		fmt.Println("warning: no glyphs: anchor found, whole file treated as header")
	}
	fmt.Printf("glyphs: %d\n", len(keys))
	if len(keys) > 0 {
		fmt.Printf("range: %d (U+%04X) .. %d (U+%04X)\n",
			keys[0], keys[0], keys[len(keys)-1], keys[len(keys)-1])
	}

	if declared, ok := declaredGlyphCount(header); ok {
		match := "matches"
		if declared != len(keys) {
			match = "MISMATCH"
		}
		fmt.Printf("num_glyphs: declared %d, actual %d (%s)\n", declared, len(keys), match)
	} else {
		fmt.Println("num_glyphs: not declared in header")
	}

	for _, key := range duplicateKeys(pxf.StartKeys(body)) {
		fmt.Printf("warning: duplicate glyph %d (U+%04X), last occurrence wins\n", key, key)
	}

	return nil
}

// declaredGlyphCount extracts the value of the header counter field, if any.
func declaredGlyphCount(header string) (int, bool) {
	for _, line := range strings.Split(header, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, pxf.CountField) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(trimmed, pxf.CountField))
		rest = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
		var n int
		if _, err := fmt.Sscanf(rest, "%d", &n); err == nil {
			return n, true
		}
		return 0, false
	}
	return 0, false
}

func duplicateKeys(keys []int) []int {
	seen := make(map[int]int, len(keys))
	for _, key := range keys {
		seen[key]++
	}
	var dupes []int
	for _, key := range keys {
		if seen[key] > 1 {
			dupes = append(dupes, key)
			seen[key] = 0 // report each duplicate once
		}
	}
	return dupes
}
