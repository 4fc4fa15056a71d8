package merge

import (
	"sort"

	"pxf-manager/feature/pxf"
)

// ConflictDetail carries both contested versions of a glyph so reports can
// show what the two sides actually disagree about. An empty string means the
// side deleted the glyph.
type ConflictDetail struct {
	Ours   string
	Theirs string
}

// Outcome is the result of reconciling three record sets. Records holds the
// surviving glyphs; a codepoint absent from Records was deleted. The changed
// lists classify every contested codepoint relative to base and are disjoint
// by construction.
type Outcome struct {
	Records           pxf.RecordSet
	ChangedSingleSide []int
	ChangedBothSides  []int
	Conflicts         map[int]ConflictDetail
}

// Reconcile merges three record sets glyph by glyph.
//
// For every codepoint in the union of the three key sets, ours and theirs are
// each compared against base, absence counting as a value distinct from any
// block text. Unchanged glyphs keep base's block; when base never had the
// glyph but both sides introduced it identically, the shared block survives
// and the glyph is still classified unchanged (the comparison is against
// base, and neither side disagrees with the other). A glyph changed on one
// side takes that side's version. A glyph changed on both sides is a true
// conflict: an explicit choice decides it, otherwise the default policy does.
// Choices are consulted only for true conflicts, never for single-side
// changes.
func Reconcile(base, ours, theirs pxf.RecordSet, choices ChoiceMap, policy Policy) *Outcome {
	outcome := &Outcome{
		Records:           make(pxf.RecordSet),
		ChangedSingleSide: []int{},
		ChangedBothSides:  []int{},
		Conflicts:         make(map[int]ConflictDetail),
	}

	for _, key := range unionKeys(base, ours, theirs) {
		baseBlock, inBase := base[key]
		oursBlock, inOurs := ours[key]
		theirsBlock, inTheirs := theirs[key]

		oursChanged := inOurs != inBase || oursBlock != baseBlock
		theirsChanged := inTheirs != inBase || theirsBlock != baseBlock

		switch {
		case !oursChanged && !theirsChanged:
			// Keep whichever revision has it; with neither side diverging
			// from base they are all interchangeable, but the base-ours-
			// theirs order is fixed for determinism.
			block, ok := firstPresent(
				baseBlock, inBase, oursBlock, inOurs, theirsBlock, inTheirs)
			keep(outcome, key, block, ok)

		case oursChanged && theirsChanged && !inBase && inOurs && inTheirs && oursBlock == theirsBlock:
			// Base never had the glyph and both sides introduced the exact
			// same block. The sides agree, so there is nothing to contest:
			// the shared block survives via the ordinary tie-break and the
			// glyph counts as unchanged rather than added.
			block, ok := firstPresent(
				baseBlock, inBase, oursBlock, inOurs, theirsBlock, inTheirs)
			keep(outcome, key, block, ok)

		case oursChanged && theirsChanged:
			outcome.ChangedBothSides = append(outcome.ChangedBothSides, key)
			outcome.Conflicts[key] = ConflictDetail{Ours: oursBlock, Theirs: theirsBlock}
			if choice, chosen := choices[key]; chosen {
				block, ok := applyChoice(choice,
					baseBlock, inBase, oursBlock, inOurs, theirsBlock, inTheirs)
				keep(outcome, key, block, ok)
			} else {
				block, ok := applyPolicy(policy,
					baseBlock, inBase, oursBlock, inOurs, theirsBlock, inTheirs)
				keep(outcome, key, block, ok)
			}

		case oursChanged:
			outcome.ChangedSingleSide = append(outcome.ChangedSingleSide, key)
			keep(outcome, key, oursBlock, inOurs)

		default:
			outcome.ChangedSingleSide = append(outcome.ChangedSingleSide, key)
			keep(outcome, key, theirsBlock, inTheirs)
		}
	}

	return outcome
}

func keep(outcome *Outcome, key int, block string, present bool) {
	if present {
		outcome.Records[key] = block
	}
}

// applyChoice resolves a true conflict with an explicit decision. Every
// branch may resolve to absence, which the caller turns into a deletion.
func applyChoice(choice Choice, baseBlock string, inBase bool, oursBlock string, inOurs bool, theirsBlock string, inTheirs bool) (string, bool) {
	switch choice {
	case ChoiceOurs:
		return oursBlock, inOurs
	case ChoiceTheirs:
		return theirsBlock, inTheirs
	case ChoiceBase:
		return baseBlock, inBase
	case ChoiceKeep:
		return firstPresent(oursBlock, inOurs, theirsBlock, inTheirs, baseBlock, inBase)
	default:
		// ChoiceDrop and ChoiceUnrecognized both delete.
		return "", false
	}
}

// applyPolicy resolves a true conflict that has no explicit choice.
func applyPolicy(policy Policy, baseBlock string, inBase bool, oursBlock string, inOurs bool, theirsBlock string, inTheirs bool) (string, bool) {
	switch policy {
	case PolicyOurs:
		return oursBlock, inOurs
	case PolicyBase:
		return baseBlock, inBase
	default:
		return theirsBlock, inTheirs
	}
}

func firstPresent(a string, aOK bool, b string, bOK bool, c string, cOK bool) (string, bool) {
	if aOK {
		return a, true
	}
	if bOK {
		return b, true
	}
	return c, cOK
}

func unionKeys(sets ...pxf.RecordSet) []int {
	seen := make(map[int]struct{})
	for _, set := range sets {
		for key := range set {
			seen[key] = struct{}{}
		}
	}
	keys := make([]int, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}
