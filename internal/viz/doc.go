// Package viz draws a running scene in the terminal.
//
// [Model] is a Bubble Tea program that steps a scene on a timer and renders
// a side view of every body on a Braille [Canvas], next to frame statistics
// and a kinetic energy graph.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	.     - Single step while paused
//	+/-   - Frames per tick
//	R     - Rebuild the scene
//	Q     - Quit
package viz
