// Package viz provides a terminal preview of the drone animation.
//
// [CanvasSurface] implements scene.Surface on a Braille [Canvas], and
// [Model] is a Bubble Tea program that plays a scene sequence on it.
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	Right - Step one frame while paused
//	R     - Restart from the blank frame
//	F     - Toggle the payload fill polygon
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// G records the Braille frames and writes them as a GIF to
// LiveOptions.RecordPath when pressed again or when playback ends.
package viz
