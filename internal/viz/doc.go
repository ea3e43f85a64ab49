// Package viz draws a seesaw into a terminal.
//
// Drawing is a pure function of a [Frame]: the same frame always produces
// the same picture, and nothing here reads back from the canvas to decide
// physics.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [Viewport]: maps world pixels to canvas dots and back
//   - [Draw]: plank, pivot, placed weights and the ghost preview
//   - [Theme]: lipgloss color schemes for the HUD and log pane
package viz
