// Package fall provides closed-form trajectories for a body released from
// rest and falling under gravity.
//
// Two simulators are available:
//
//   - [FreeFallSimulator]: constant acceleration, no opposing force
//   - [DragFallSimulator]: quadratic air drag with a terminal velocity
//
// Both sample the analytic solution at a fixed time step and return a
// [Trajectory] of (time, height, speed) samples that ends when the body
// reaches the ground.
//
// # Example
//
//	sim := fall.NewDragFallSimulator()
//	traj, err := sim.Simulate(fall.DragParams{
//	    Params:          fall.Params{Mass: 1, Height: 10, Gravity: 9.8},
//	    AirDensity:      1.225,
//	    Area:            0.01,
//	    DragCoefficient: 0.47,
//	})
//
// # Thread Safety
//
// Simulators carry only immutable settings and every call allocates its own
// trajectory, so a single simulator may be used from many goroutines.
package fall
