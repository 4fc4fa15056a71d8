// Package merge implements the three-way semantic merge of .pxf font sources.
//
// Unlike a generic line diff, the merge reconciles BASE, OURS, and THEIRS at
// glyph granularity: each glyph block is an opaque unit that survives, is
// replaced, or is deleted as a whole. For every codepoint seen in any of the
// three revisions, each side is compared independently against base:
//
//   - neither side changed: the base block survives,
//   - exactly one side changed: that side's version survives,
//   - both sides changed: an explicit per-glyph choice decides, or the
//     configured default policy (theirs, unless overridden) picks a side.
//
// Explicit choices form a closed token set: ours, theirs, base, keep, drop.
// An unrecognized token degrades to deletion; an empty merged glyph is easy
// to notice and fix, whereas silently accepted garbage is not.
//
// The reconciliation also produces a change report: added, removed,
// single-side-changed, and both-sides-changed codepoints, serializable as
// JSON or rendered as a markdown summary with per-conflict diffs and the
// resolution tokens needed to drive a follow-up run.
//
// The core merge is a pure computation over in-memory text and never fails
// on malformed domain input. File, object storage, and HTTP plumbing live at
// the edges (Service, Handler).
package merge
