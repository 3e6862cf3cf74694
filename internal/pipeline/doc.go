// Package pipeline chains the detection operators and the compositor into
// the views a presentation layer shows: single operator views, the
// side-by-side comparison of all three operators, and the line-art render.
//
// Presentation state (overlay on or off, thresholds, blend weights) is
// passed in on every call; the package keeps nothing between calls.
package pipeline
