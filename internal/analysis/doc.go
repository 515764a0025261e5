// Package analysis characterises the motion traces of an animation.
//
//   - [DominantFrequency]: spectral peak of a sampled series
//   - [CrossingPeriod]: period from mean-level crossings
//   - [Summarize]: range and moments of a series
//   - [NewPhasePortrait]: one series against another
//
// # Period of the drone height
//
// At the default motion the drone height repeats every π scene time
// units, which is about 157 frames at 50 frames per time unit:
//
//	hz := analysis.DominantFrequency(heights, 1)
//	period := 1 / hz // frames
package analysis
