// Package analysis inspects recorded trajectories.
//
//   - [PowerSpectrum] and [DominantFrequency]: spectral content of one
//     state column, for spotting oscillation in springs, buoys and bridges
//   - [Divergence]: exponential growth rate of the separation between two
//     runs of the same scene
//   - [NewPhasePortrait]: one column against another, rendered as text
//
// Trajectories come from [storage.Store.LoadStates] or straight from a
// [sim.Result].
package analysis
