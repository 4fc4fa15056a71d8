package merge

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
)

// Choice is one externally supplied per-glyph decision. Tokens are parsed
// into this closed enumeration at the boundary so the "unrecognized degrades
// to deletion" contract lives in exactly one place instead of being spread
// through string comparisons.
type Choice int

const (
	// ChoiceUnrecognized is any token outside the known set. It resolves to
	// deletion, a conservative and highly visible degradation.
	ChoiceUnrecognized Choice = iota
	// ChoiceOurs keeps ours's version; absence in ours means deletion.
	ChoiceOurs
	// ChoiceTheirs keeps theirs's version; absence in theirs means deletion.
	ChoiceTheirs
	// ChoiceBase restores base's version; absence in base means deletion.
	ChoiceBase
	// ChoiceKeep keeps whichever side still has the glyph: ours, then
	// theirs, then base.
	ChoiceKeep
	// ChoiceDrop forces deletion.
	ChoiceDrop
)

// ResolutionTokens are the external spellings a choices file may use,
// in the order they are offered to humans in rendered reports.
var ResolutionTokens = []string{"ours", "theirs", "base", "keep", "drop"}

// ParseChoice translates an external token into a Choice. Matching is
// case-insensitive and ignores surrounding whitespace.
func ParseChoice(token string) Choice {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "ours":
		return ChoiceOurs
	case "theirs":
		return ChoiceTheirs
	case "base":
		return ChoiceBase
	case "keep":
		return ChoiceKeep
	case "drop":
		return ChoiceDrop
	default:
		return ChoiceUnrecognized
	}
}

// String returns the external spelling of c.
func (c Choice) String() string {
	switch c {
	case ChoiceOurs:
		return "ours"
	case ChoiceTheirs:
		return "theirs"
	case ChoiceBase:
		return "base"
	case ChoiceKeep:
		return "keep"
	case ChoiceDrop:
		return "drop"
	default:
		return "unrecognized"
	}
}

// ChoiceMap maps a glyph codepoint to its explicit conflict decision.
type ChoiceMap map[int]Choice

// NormalizeChoices converts raw string-keyed choice data into a ChoiceMap.
// Keys that do not parse as non-negative integers are ignored; values go
// through ParseChoice, so typos survive as ChoiceUnrecognized rather than
// being dropped silently.
func NormalizeChoices(raw map[string]string) ChoiceMap {
	choices := make(ChoiceMap, len(raw))
	for rawKey, token := range raw {
		key, err := strconv.Atoi(strings.TrimSpace(rawKey))
		if err != nil || key < 0 {
			continue
		}
		choices[key] = ParseChoice(token)
	}
	return choices
}

// LoadChoices reads a choices JSON file, an object of codepoint to token:
//
//	{"33": "ours", "34": "theirs", "35": "drop"}
//
// A missing or unparseable file yields an empty map; choice data is advisory
// and must never make a merge fail.
func LoadChoices(path string) ChoiceMap {
	data, err := os.ReadFile(path)
	if err != nil {
		return ChoiceMap{}
	}
	return parseChoicesJSON(data)
}

func parseChoicesJSON(data []byte) ChoiceMap {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return ChoiceMap{}
	}
	return NormalizeChoices(raw)
}
