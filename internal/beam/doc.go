// Package beam provides the pure geometry and torque model of a seesaw.
//
// The functions hold no state between calls; [Follower] is the one stateful
// helper, wrapping [Follow] for a driver loop.
//
//   - [ToLocal] and [ToWorld]: rotate between screen space and the beam frame
//   - [ComputeTorques] and [TargetAngle]: map a load to a resting tilt
//   - [Follow]: one smoothing step of the rendered angle toward the target
//
// All angles are in degrees, all lengths in pixels, all weights in kg.
package beam
