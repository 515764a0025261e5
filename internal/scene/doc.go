// Package scene computes the on-screen geometry of a drone carrying a
// payload on a wire.
//
// Motion is scripted, not simulated: every primitive is a closed-form
// function of the frame index. The package exposes:
//
//   - [Compute]: pure per-frame update producing a [Scene]
//   - [Options]: geometry, motion and indicator styling
//   - [Surface]: the drawing collaborator the scene is pushed to
//   - [Apply]: pushes a [Scene] to a [Surface], replacing the previous
//     frame's indicator glyphs
//
// # Example
//
//	opts := scene.FillOptions()
//	var ov scene.Overlay
//	for f := 0; f < 400; f++ {
//		ov = scene.Apply(surface, scene.Compute(f, opts), ov)
//	}
package scene
