package hotkey

import "time"

// FakeListener lets tests drive the tap stream by hand.
type FakeListener struct {
	taps chan time.Time
}

func NewFake() *FakeListener {
	return &FakeListener{taps: make(chan time.Time, tapBuffer)}
}

func (f *FakeListener) Register() error       { return nil }
func (f *FakeListener) Unregister()           {}
func (f *FakeListener) Taps() <-chan time.Time { return f.taps }

// Tap simulates one key-down of the trigger key at the given time.
func (f *FakeListener) Tap(at time.Time) { f.taps <- at }
