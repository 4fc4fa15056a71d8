package merge

import "pxf-manager/feature/pxf"

// Report is the structured change report of one merge run. The four key
// lists are disjoint; every codepoint is listed in ascending order.
type Report struct {
	// Added lists codepoints present in the merged output but absent from
	// base. Glyphs introduced identically by both sides are classified
	// unchanged and are deliberately not listed here.
	Added []int `json:"added"`

	// Removed lists codepoints present in base but absent from the merged
	// output.
	Removed []int `json:"removed"`

	// ChangedSingleSide lists codepoints present in base and changed in
	// exactly one of the two incoming revisions. A glyph base never had is
	// reported under Added only, even though the reconciler treats its
	// introduction as a single-side change.
	ChangedSingleSide []int `json:"changed_single_side"`

	// ChangedBothSides lists true conflicts: codepoints changed from base
	// in both incoming revisions.
	ChangedBothSides []int `json:"changed_both_sides"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`

	// Conflicts carries the contested block texts per conflicted codepoint,
	// for diff rendering. Not serialized; the key lists are the contract.
	Conflicts map[int]ConflictDetail `json:"-"`
}

// Summary provides aggregate counts for a merge report.
type Summary struct {
	// Added counts added glyphs.
	Added int `json:"added"`
	// Removed counts removed glyphs.
	Removed int `json:"removed"`
	// ChangedSingleSide counts single-side changes.
	ChangedSingleSide int `json:"changed_single_side"`
	// ChangedBothSides counts both-sides conflicts.
	ChangedBothSides int `json:"changed_both_sides"`
	// GlyphCount is the number of glyphs in the merged output, the value
	// written into the num_glyphs header field.
	GlyphCount int `json:"glyph_count"`
}

// BuildReport classifies a reconciliation outcome against the base record
// set. Added and removed are derived from presence in the outcome versus
// presence in base; the both-sides list passes through from the reconciler,
// while the single-side list is restricted to keys base actually had.
func BuildReport(outcome *Outcome, base pxf.RecordSet) *Report {
	contested := make(map[int]struct{}, len(outcome.ChangedSingleSide)+len(outcome.ChangedBothSides))
	for _, key := range outcome.ChangedSingleSide {
		contested[key] = struct{}{}
	}
	for _, key := range outcome.ChangedBothSides {
		contested[key] = struct{}{}
	}

	// Introductions are classified as changes by the reconciler but read as
	// additions: a key absent from base belongs under added, not under
	// changed_single_side.
	changedSingle := make([]int, 0, len(outcome.ChangedSingleSide))
	for _, key := range outcome.ChangedSingleSide {
		if _, inBase := base[key]; inBase {
			changedSingle = append(changedSingle, key)
		}
	}

	report := &Report{
		Added:             []int{},
		Removed:           []int{},
		ChangedSingleSide: changedSingle,
		ChangedBothSides:  outcome.ChangedBothSides,
		Conflicts:         outcome.Conflicts,
	}

	for _, key := range outcome.Records.Keys() {
		if _, inBase := base[key]; inBase {
			continue
		}
		// Present in the outcome, absent from base. Identical independent
		// introductions never enter the changed lists and stay unlisted.
		if _, ok := contested[key]; ok {
			report.Added = append(report.Added, key)
		}
	}
	for _, key := range base.Keys() {
		if _, ok := outcome.Records[key]; !ok {
			report.Removed = append(report.Removed, key)
		}
	}

	report.Summary = Summary{
		Added:             len(report.Added),
		Removed:           len(report.Removed),
		ChangedSingleSide: len(report.ChangedSingleSide),
		ChangedBothSides:  len(report.ChangedBothSides),
		GlyphCount:        len(outcome.Records),
	}
	return report
}
