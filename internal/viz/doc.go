// Package viz renders fall trajectories in the terminal.
//
// [Player] is a Bubble Tea model that replays a precomputed trajectory one
// sample per frame as an asciigraph height plot with a status line. It can
// be embedded in a larger program through [Player.Step] or run on its own
// with [Play].
//
// # Key Bindings
//
//	Space, P - Pause/Resume playback
//	R        - Replay from the release point
//	Q, Esc   - Quit (standalone only)
//
// [PlotSeries] and [PlotHeights] produce the static plots printed by the
// command line.
package viz
