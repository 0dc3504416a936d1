// Package viz renders simplex tableaux and solutions in the terminal.
//
// The package provides:
//
//   - [RenderTableau]: the working matrix with basis labels and the next
//     pivot highlighted
//   - [RenderSolution], [RenderEquilibrium], [RenderTrace]: text summaries
//   - [Chart]: asciigraph line charts of objective traces and sweeps
//   - [Stepper]: a Bubble Tea model that pivots one step per key press
//   - Theme selection with 4 built-in colour schemes
//
// # Key Bindings
//
//	n, Space - Perform one pivot
//	A        - Toggle automatic stepping
//	R        - Rebuild the initial tableau
//	T        - Cycle colour themes
//	?        - Show help
//	Q        - Quit
package viz
