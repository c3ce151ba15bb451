package audio

import "sync"

// FakeContext hands out FakeCapture devices for tests and headless runs.
type FakeContext struct {
	// StartErr is injected into every capture created afterwards.
	StartErr error
}

func NewFakeContext() *FakeContext { return &FakeContext{} }

func (f *FakeContext) Devices() ([]DeviceInfo, error) {
	return []DeviceInfo{{ID: "fake", Name: "fake"}}, nil
}

func (f *FakeContext) NewCapture(_ *DeviceInfo, _ CaptureConfig) (CaptureDevice, error) {
	return &FakeCapture{startErr: f.StartErr}, nil
}

func (f *FakeContext) Close() {}

// FakeCapture is a hand-driven capture device: tests push sample chunks
// through Feed and they arrive on the registered callback, exactly like a
// device-thread delivery.
type FakeCapture struct {
	mu       sync.Mutex
	cb       DataCallback
	started  bool
	startErr error

	Starts int
	Stops  int
}

func (f *FakeCapture) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		return f.startErr
	}
	f.started = true
	f.Starts++
	return nil
}

func (f *FakeCapture) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		f.started = false
		f.Stops++
	}
}

func (f *FakeCapture) Close() {}

func (f *FakeCapture) SetCallback(cb DataCallback) {
	f.mu.Lock()
	f.cb = cb
	f.mu.Unlock()
}

func (f *FakeCapture) ClearCallback() {
	f.mu.Lock()
	f.cb = nil
	f.mu.Unlock()
}

func (f *FakeCapture) DeviceName() string { return "fake" }

// SetStartErr makes subsequent Start calls fail.
func (f *FakeCapture) SetStartErr(err error) {
	f.mu.Lock()
	f.startErr = err
	f.mu.Unlock()
}

// Started reports whether the stream is currently open.
func (f *FakeCapture) Started() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

// Feed delivers one chunk to the callback, as the audio thread would.
// Chunks fed while the stream is stopped are dropped.
func (f *FakeCapture) Feed(samples []float32) {
	f.mu.Lock()
	cb := f.cb
	started := f.started
	f.mu.Unlock()
	if cb != nil && started {
		cb(samples, uint32(len(samples)))
	}
}
