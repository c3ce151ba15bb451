package transcriber

import (
	"context"
	"os"
	"sync"
)

// FakeEngine records how it was called and replays canned segments.
type FakeEngine struct {
	Segments []Segment
	Err      error

	mu         sync.Mutex
	calls      int
	lastPath   string
	pathExists bool
}

func NewFakeEngine(segments []Segment, err error) *FakeEngine {
	return &FakeEngine{Segments: segments, Err: err}
}

func (f *FakeEngine) Name() string { return "fake" }

func (f *FakeEngine) Transcribe(_ context.Context, wavPath string) ([]Segment, error) {
	f.mu.Lock()
	f.calls++
	f.lastPath = wavPath
	_, statErr := os.Stat(wavPath)
	f.pathExists = statErr == nil
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	return f.Segments, nil
}

func (f *FakeEngine) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *FakeEngine) LastPath() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastPath
}

// PathExisted reports whether the WAV artifact existed while the engine ran.
func (f *FakeEngine) PathExisted() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pathExists
}
