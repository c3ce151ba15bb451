// Package hotkey delivers key-down timestamps for the dictation trigger key.
// The default trigger is the right Option/Alt key; combo mode uses
// Ctrl+Shift+Space for environments without a raw key hook.
package hotkey

import "time"

// Listener is a global key-event source reduced to the one key of interest.
// Taps carries the OS timestamp of each qualifying key-down; events for
// every other key are discarded at this layer.
type Listener interface {
	Register() error
	Unregister()
	Taps() <-chan time.Time
}

// tapBuffer bounds the taps channel; the gesture consumer is fast, but a
// wedged consumer must not block the OS callback path.
const tapBuffer = 8

func send(ch chan time.Time, at time.Time) {
	select {
	case ch <- at:
	default:
	}
}
