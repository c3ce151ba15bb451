// Package session owns the recording state machine. It is the single
// authority on whether audio is being captured: the only way to open or
// close the microphone stream is a Start or Stop transition.
package session

import (
	"fmt"
	"math"
	"sync"

	"murmur/audio"
)

type State int

const (
	Idle State = iota
	Recording
)

func (s State) String() string {
	if s == Recording {
		return "recording"
	}
	return "idle"
}

// Session gates an audio.CaptureDevice. The transition flag flip and stream
// open/close run under a single mutex, so a Stop can never race a concurrent
// Start. The sample buffer has its own lock since the audio thread appends
// to it while transitions run.
type Session struct {
	mu      sync.Mutex
	state   State
	capture audio.CaptureDevice

	bufMu   sync.Mutex
	chunks  [][]float32
	frames  uint64
	stopped bool

	onLevel func(rms float64)
}

func New(capture audio.CaptureDevice) *Session {
	return &Session{capture: capture, stopped: true}
}

// State returns the current recording state for read-only consumers (the
// gesture detector and any presentation shell).
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Recording() bool { return s.State() == Recording }

// Start transitions Idle -> Recording: clears the buffer, registers the
// append callback and opens the stream. Starting while already recording is
// a no-op. If the stream fails to open the session stays Idle and the error
// is returned; there is no retry.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Recording {
		return nil
	}

	s.bufMu.Lock()
	s.chunks = nil
	s.frames = 0
	s.stopped = false
	s.bufMu.Unlock()

	s.capture.SetCallback(s.appendSamples)
	if err := s.capture.Start(); err != nil {
		s.capture.ClearCallback()
		s.bufMu.Lock()
		s.stopped = true
		s.bufMu.Unlock()
		return fmt.Errorf("opening capture stream: %w", err)
	}

	s.state = Recording
	return nil
}

// SetLevelFunc installs a hook that receives the RMS level of each chunk.
// Set it before Start; fn runs on the audio thread and must not block.
func (s *Session) SetLevelFunc(fn func(rms float64)) {
	s.bufMu.Lock()
	s.onLevel = fn
	s.bufMu.Unlock()
}

// appendSamples runs on the audio thread. The chunk is already a copy owned
// by this callback, so storing it is the only work done here.
func (s *Session) appendSamples(samples []float32, _ uint32) {
	s.bufMu.Lock()
	dropped := s.stopped
	onLevel := s.onLevel
	if !dropped {
		s.chunks = append(s.chunks, samples)
		s.frames += uint64(len(samples))
	}
	s.bufMu.Unlock()

	if !dropped && onLevel != nil && len(samples) > 0 {
		var sum float64
		for _, v := range samples {
			sum += float64(v) * float64(v)
		}
		onLevel(math.Sqrt(sum / float64(len(samples))))
	}
}

// Stop transitions Recording -> Idle and returns the concatenated samples of
// the finished episode. The stream is stopped and the callback cleared
// before the buffer is read, so no append can race the concatenation.
// Stopping while idle is a no-op and returns nil. An empty buffer returns an
// empty (non-nil) slice; the caller treats it as a silent no-op.
func (s *Session) Stop() []float32 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Recording {
		return nil
	}

	s.capture.Stop()
	s.capture.ClearCallback()
	s.state = Idle

	s.bufMu.Lock()
	s.stopped = true
	chunks := s.chunks
	frames := s.frames
	s.chunks = nil
	s.frames = 0
	s.bufMu.Unlock()

	out := make([]float32, 0, frames)
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

// Frames reports how many samples have been buffered so far in the current
// episode.
func (s *Session) Frames() uint64 {
	s.bufMu.Lock()
	defer s.bufMu.Unlock()
	return s.frames
}
