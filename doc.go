// Package lpastar provides an incremental grid planner based on Lifelong
// Planning A* (LPA*).
//
// It exposes two main entry points:
//
//   - Planner.Plan: plan (or repair) a path over a costmap and get a Result.
//   - Stepper: drive a single Plan call one expansion at a time, for UIs or
//     debugging tools.
//
// A Planner keeps its per-cell g/rhs estimates between calls. When the next
// costmap only differs near the robot, Plan repairs the affected region
// instead of searching from scratch. A Planner is not safe for concurrent
// use; callers serialize Plan calls or keep one Planner per worker.
package lpastar
