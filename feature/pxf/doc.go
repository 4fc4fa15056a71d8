// Package pxf implements the textual model of PixelForge .pxf font sources.
//
// A .pxf document is line oriented and indentation structured:
//
//	name: my_font
//	num_glyphs: 2
//	glyphs:
//		65:
//			advance: 6
//			pixels: 0 0, 1 0, 2 0
//		66:
//			advance: 6
//			pixels: 0 1, 1 1
//
// Everything up to and including the "glyphs:" anchor line is the header.
// After the anchor, each glyph block starts with a line consisting of one tab,
// a decimal codepoint, and a colon; the block runs until the next such line or
// the end of the document. Block content is treated as an opaque byte blob:
// this package never interprets advance widths, pixel coordinates, or any
// other glyph-internal field.
//
// All functions here are total: malformed or empty input degrades to an empty
// result rather than an error, so callers can feed untrusted revisions
// straight through without validation.
package pxf
