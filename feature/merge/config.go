package merge

// Policy selects the surviving side for a both-sides conflict that has no
// explicit choice entry.
type Policy string

const (
	// PolicyTheirs keeps the incoming side, last-writer-wins. The default.
	PolicyTheirs Policy = "theirs"
	// PolicyOurs keeps the local side.
	PolicyOurs Policy = "ours"
	// PolicyBase discards both contested edits.
	PolicyBase Policy = "base"
)

// Valid reports whether p is a known policy value.
func (p Policy) Valid() bool {
	switch p {
	case PolicyTheirs, PolicyOurs, PolicyBase:
		return true
	default:
		return false
	}
}

// Config holds configuration for the merge engine.
type Config struct {
	// DefaultPolicy is the conflict policy applied when no explicit choice
	// exists for a glyph (theirs, ours, base).
	DefaultPolicy string `mapstructure:"default_policy" default:"theirs"`
}

// Policy returns the configured default policy, falling back to theirs when
// the configured value is not a known policy.
func (c Config) Policy() Policy {
	p := Policy(c.DefaultPolicy)
	if !p.Valid() {
		return PolicyTheirs
	}
	return p
}
