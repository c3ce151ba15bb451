package session

import (
	"errors"
	"sync"
	"testing"

	"murmur/audio"
)

func newFake(t *testing.T) *audio.FakeCapture {
	t.Helper()
	ctx := audio.NewFakeContext()
	cap, err := ctx.NewCapture(nil, audio.CaptureConfig{SampleRate: audio.SampleRate, Channels: audio.Channels})
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	return cap.(*audio.FakeCapture)
}

func chunk(n int, v float32) []float32 {
	c := make([]float32, n)
	for i := range c {
		c[i] = v
	}
	return c
}

func TestStartStop(t *testing.T) {
	fake := newFake(t)
	s := New(fake)

	if s.State() != Idle {
		t.Fatal("new session not idle")
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.Recording() || !fake.Started() {
		t.Fatal("expected open stream after Start")
	}

	fake.Feed(chunk(1024, 0.5))
	out := s.Stop()
	if s.Recording() || fake.Started() {
		t.Fatal("expected closed stream after Stop")
	}
	if len(out) != 1024 {
		t.Fatalf("got %d samples, want 1024", len(out))
	}
}

func TestStartWhileRecordingIsNoop(t *testing.T) {
	fake := newFake(t)
	s := New(fake)

	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	fake.Feed(chunk(100, 0.1))
	if err := s.Start(); err != nil {
		t.Fatalf("reentrant Start: %v", err)
	}
	if fake.Starts != 1 {
		t.Fatalf("stream opened %d times, want 1", fake.Starts)
	}
	// The buffer survives the no-op Start.
	if got := s.Stop(); len(got) != 100 {
		t.Fatalf("got %d samples after reentrant Start, want 100", len(got))
	}
}

func TestStopWhileIdleIsNoop(t *testing.T) {
	fake := newFake(t)
	s := New(fake)

	if out := s.Stop(); out != nil {
		t.Fatalf("Stop on idle returned %d samples, want nil", len(out))
	}
	if fake.Stops != 0 {
		t.Fatal("Stop on idle touched the stream")
	}
}

func TestStartFailureStaysIdle(t *testing.T) {
	fake := newFake(t)
	fake.SetStartErr(errors.New("device busy"))
	s := New(fake)

	if err := s.Start(); err == nil {
		t.Fatal("expected error from failed Start")
	}
	if s.Recording() {
		t.Fatal("session recording after failed Start")
	}
	// A later Start succeeds once the device recovers.
	fake.SetStartErr(nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start after recovery: %v", err)
	}
}

func TestConcatenatesChunksInOrder(t *testing.T) {
	// 3 one-second chunks at 16 kHz concatenate to 48,000 samples.
	fake := newFake(t)
	s := New(fake)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		fake.Feed(chunk(audio.SampleRate, float32(i+1)))
	}
	out := s.Stop()
	if len(out) != 3*audio.SampleRate {
		t.Fatalf("got %d samples, want %d", len(out), 3*audio.SampleRate)
	}
	for i := 0; i < 3; i++ {
		if v := out[i*audio.SampleRate]; v != float32(i+1) {
			t.Fatalf("chunk %d out of order: sample = %v", i, v)
		}
	}
}

func TestEmptyEpisode(t *testing.T) {
	fake := newFake(t)
	s := New(fake)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	out := s.Stop()
	if out == nil || len(out) != 0 {
		t.Fatalf("empty episode returned %v, want empty slice", out)
	}
}

func TestBufferNotSharedAcrossEpisodes(t *testing.T) {
	fake := newFake(t)
	s := New(fake)

	s.Start()
	fake.Feed(chunk(10, 1))
	first := s.Stop()

	s.Start()
	fake.Feed(chunk(20, 2))
	second := s.Stop()

	if len(first) != 10 || len(second) != 20 {
		t.Fatalf("episodes leaked: %d then %d samples", len(first), len(second))
	}
	if first[0] != 1 || second[0] != 2 {
		t.Fatal("episode data crossed over")
	}
}

func TestLateCallbackDropped(t *testing.T) {
	// A chunk arriving after Stop must not land in the next episode.
	fake := newFake(t)
	s := New(fake)

	s.Start()
	s.Stop()
	fake.Feed(chunk(64, 9))

	s.Start()
	if got := s.Frames(); got != 0 {
		t.Fatalf("late chunk leaked into new episode: %d frames", got)
	}
}

func TestAtMostOneStreamOpen(t *testing.T) {
	// Hammer Start/Stop from several goroutines; the fake panics on double
	// bookkeeping would show as mismatched counters.
	fake := newFake(t)
	s := New(fake)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Start()
				s.Stop()
			}
		}()
	}
	wg.Wait()

	if fake.Started() {
		t.Fatal("stream left open")
	}
	if fake.Starts != fake.Stops {
		t.Fatalf("starts=%d stops=%d, want equal", fake.Starts, fake.Stops)
	}
}
