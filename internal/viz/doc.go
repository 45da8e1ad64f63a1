// Package viz is the terminal front end of the controller lab.
//
// It runs the simulation reducer inside a Bubble Tea program: a tick message
// every period advances the controller, mouse input in the canvas becomes
// pointer events, and keystrokes edit the gain text.
//
//   - [Model]: the Bubble Tea model
//   - [Renderer]: draws the entity and the target as two filled circles
//   - [Canvas]: braille pixel canvas
//
// # Key Bindings
//
//	Tab/Shift+Tab - Select gain field
//	0-9 . - e     - Edit the selected gain text
//	Backspace     - Delete one character
//	Ctrl+U        - Clear the selected field
//	R             - Restart from the initial state
//	T             - Cycle color themes
//	Q             - Quit
package viz
