package main

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"murmur/audio"
	"murmur/gesture"
	"murmur/session"
)

type fakeEngine struct {
	mu    sync.Mutex
	text  string
	err   error
	calls int
	got   int
}

func (f *fakeEngine) Transcribe(_ context.Context, samples []float32) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.got = len(samples)
	return f.text, f.err
}

func (f *fakeEngine) EngineName() string { return "fake" }

func (f *fakeEngine) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeInjector struct {
	mu    sync.Mutex
	texts []string
	err   error
}

func (f *fakeInjector) Inject(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeInjector) Injected() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.texts...)
}

type recordSink struct {
	mu     sync.Mutex
	events []string
	texts  []string
}

func (r *recordSink) add(ev string) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recordSink) RecordingStart()    { r.add("start") }
func (r *recordSink) RecordingStop()     { r.add("stop") }
func (r *recordSink) AudioLevel(float64) {}
func (r *recordSink) Transcribing()      { r.add("transcribing") }

func (r *recordSink) Transcription(text string, noSpeech bool) {
	r.mu.Lock()
	if noSpeech {
		r.events = append(r.events, "no_speech")
	} else {
		r.events = append(r.events, "text")
		r.texts = append(r.texts, text)
	}
	r.mu.Unlock()
}

func (r *recordSink) Error(msg string) { r.add("error:" + msg) }

func (r *recordSink) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newTestController(t *testing.T, engine *fakeEngine) (*Controller, *audio.FakeCapture, *fakeInjector, *recordSink) {
	t.Helper()
	ctx := audio.NewFakeContext()
	dev, err := ctx.NewCapture(nil, audio.CaptureConfig{SampleRate: audio.SampleRate, Channels: audio.Channels})
	if err != nil {
		t.Fatalf("NewCapture: %v", err)
	}
	capture := dev.(*audio.FakeCapture)
	injector := &fakeInjector{}
	sink := &recordSink{}
	c := NewController(gesture.New(0), session.New(capture), engine, injector, sink, true)
	return c, capture, injector, sink
}

func TestFirstTapDoesNotStart(t *testing.T) {
	c, capture, _, _ := newTestController(t, &fakeEngine{})
	c.HandleTap(time.Unix(10, 0))
	if capture.Started() {
		t.Fatal("single tap opened the stream")
	}
}

func TestDoubleTapStartsRecording(t *testing.T) {
	c, capture, _, sink := newTestController(t, &fakeEngine{})
	base := time.Unix(10, 0)
	c.HandleTap(base)
	c.HandleTap(base.Add(200 * time.Millisecond))
	if !capture.Started() {
		t.Fatal("double tap did not open the stream")
	}
	if got := sink.Events(); len(got) != 1 || got[0] != "start" {
		t.Errorf("events = %v, want [start]", got)
	}
}

func TestTapStopsTranscribesAndInjects(t *testing.T) {
	engine := &fakeEngine{text: "Hello world"}
	c, capture, injector, sink := newTestController(t, engine)

	base := time.Unix(10, 0)
	c.HandleTap(base)
	c.HandleTap(base.Add(200 * time.Millisecond))
	capture.Feed(make([]float32, audio.SampleRate))
	c.HandleTap(base.Add(2 * time.Second))
	c.Wait()

	if capture.Started() {
		t.Fatal("stream still open after stop tap")
	}
	if engine.Calls() != 1 {
		t.Fatalf("engine calls = %d, want 1", engine.Calls())
	}
	if got := injector.Injected(); len(got) != 1 || got[0] != "Hello world" {
		t.Errorf("injected = %v, want [Hello world]", got)
	}
	if c.LastText() != "Hello world" {
		t.Errorf("LastText = %q", c.LastText())
	}
	if c.Count() != 1 {
		t.Errorf("Count = %d, want 1", c.Count())
	}
	events := sink.Events()
	want := []string{"start", "stop", "transcribing", "text"}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

func TestEmptyEpisodeIsSilentNoop(t *testing.T) {
	engine := &fakeEngine{text: "should not appear"}
	c, _, injector, sink := newTestController(t, engine)

	base := time.Unix(10, 0)
	c.HandleTap(base)
	c.HandleTap(base.Add(200 * time.Millisecond))
	c.HandleTap(base.Add(2 * time.Second))
	c.Wait()

	if engine.Calls() != 0 {
		t.Errorf("engine called %d times for empty episode", engine.Calls())
	}
	if len(injector.Injected()) != 0 {
		t.Error("empty episode injected text")
	}
	for _, ev := range sink.Events() {
		if ev == "transcribing" || ev == "text" {
			t.Errorf("unexpected event %q for empty episode", ev)
		}
	}
}

func TestEngineErrorSkipsInjection(t *testing.T) {
	engine := &fakeEngine{err: errors.New("model not loaded")}
	c, capture, injector, sink := newTestController(t, engine)

	base := time.Unix(10, 0)
	c.HandleTap(base)
	c.HandleTap(base.Add(200 * time.Millisecond))
	capture.Feed(make([]float32, 1600))
	c.HandleTap(base.Add(2 * time.Second))
	c.Wait()

	if len(injector.Injected()) != 0 {
		t.Error("injection ran despite engine error")
	}
	found := false
	for _, ev := range sink.Events() {
		if ev == "error:model not loaded" {
			found = true
		}
	}
	if !found {
		t.Errorf("error not reported, events = %v", sink.Events())
	}
}

func TestNoSpeechReportedWithoutInjection(t *testing.T) {
	engine := &fakeEngine{text: ""}
	c, capture, injector, sink := newTestController(t, engine)

	base := time.Unix(10, 0)
	c.HandleTap(base)
	c.HandleTap(base.Add(200 * time.Millisecond))
	capture.Feed(make([]float32, 1600))
	c.HandleTap(base.Add(2 * time.Second))
	c.Wait()

	if len(injector.Injected()) != 0 {
		t.Error("empty text was injected")
	}
	events := sink.Events()
	if len(events) == 0 || events[len(events)-1] != "no_speech" {
		t.Errorf("events = %v, want trailing no_speech", events)
	}
	if c.Count() != 0 {
		t.Errorf("Count = %d, want 0 for no-speech episode", c.Count())
	}
}

func TestAutoPasteOffCopiesInstead(t *testing.T) {
	engine := &fakeEngine{text: "copied only"}
	c, capture, injector, _ := newTestController(t, engine)
	c.SetAutoPaste(false)

	var copied []string
	var mu sync.Mutex
	c.copyFn = func(text string) error {
		mu.Lock()
		copied = append(copied, text)
		mu.Unlock()
		return nil
	}

	base := time.Unix(10, 0)
	c.HandleTap(base)
	c.HandleTap(base.Add(200 * time.Millisecond))
	capture.Feed(make([]float32, 1600))
	c.HandleTap(base.Add(2 * time.Second))
	c.Wait()

	if len(injector.Injected()) != 0 {
		t.Error("injector ran with auto-paste off")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(copied) != 1 || copied[0] != "copied only" {
		t.Errorf("copied = %v, want [copied only]", copied)
	}
}

func TestTapWhileRecordingNeverRestarts(t *testing.T) {
	c, capture, _, _ := newTestController(t, &fakeEngine{})
	base := time.Unix(10, 0)
	c.HandleTap(base)
	c.HandleTap(base.Add(200 * time.Millisecond))
	if capture.Starts != 1 {
		t.Fatalf("Starts = %d, want 1", capture.Starts)
	}
	// Two quick taps while recording: the first stops, the second must not
	// count the stop tap as half of a new double tap.
	c.HandleTap(base.Add(300 * time.Millisecond))
	if capture.Started() {
		t.Fatal("tap while recording did not stop")
	}
	c.HandleTap(base.Add(2 * time.Second))
	if capture.Started() {
		t.Fatal("slow tap after stop started a recording")
	}
	c.Wait()
}

func TestRunConsumesTapsUntilQuit(t *testing.T) {
	engine := &fakeEngine{text: "via run loop"}
	c, capture, injector, _ := newTestController(t, engine)

	taps := make(chan time.Time, 8)
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		c.Run(taps, quit)
		close(done)
	}()

	base := time.Unix(10, 0)
	taps <- base
	taps <- base.Add(200 * time.Millisecond)

	deadline := time.After(2 * time.Second)
	for !capture.Started() {
		select {
		case <-deadline:
			t.Fatal("run loop never started recording")
		case <-time.After(5 * time.Millisecond):
		}
	}
	capture.Feed(make([]float32, 1600))
	taps <- base.Add(2 * time.Second)

	for capture.Started() {
		select {
		case <-deadline:
			t.Fatal("run loop never stopped recording")
		case <-time.After(5 * time.Millisecond):
		}
	}
	close(quit)
	<-done

	if got := injector.Injected(); len(got) != 1 || got[0] != "via run loop" {
		t.Errorf("injected = %v", got)
	}
}
