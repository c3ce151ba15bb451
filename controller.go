package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"murmur/audio"
	"murmur/clipboard"
	"murmur/gesture"
	"murmur/log"
	"murmur/session"
)

// TextInjector places text at the OS focus.
type TextInjector interface {
	Inject(text string) error
}

// Transcriber turns a finished recording into text.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32) (string, error)
	EngineName() string
}

// Controller drives the dictation pipeline: taps feed the gesture detector,
// its commands flip the session, and finished episodes run through
// transcription and injection on a worker goroutine so the tap loop never
// blocks.
type Controller struct {
	detector *gesture.Detector
	session  *session.Session
	engine   Transcriber
	injector TextInjector
	sink     EventSink

	mu        sync.Mutex
	autoPaste bool
	lastText  string
	count     int

	copyFn func(string) error

	wg sync.WaitGroup
}

func NewController(detector *gesture.Detector, sess *session.Session, engine Transcriber, injector TextInjector, sink EventSink, autoPaste bool) *Controller {
	if sink == nil {
		sink = noopSink{}
	}
	c := &Controller{
		detector:  detector,
		session:   sess,
		engine:    engine,
		injector:  injector,
		sink:      sink,
		autoPaste: autoPaste,
		copyFn:    clipboard.Write,
	}
	sess.SetLevelFunc(sink.AudioLevel)
	return c
}

func (c *Controller) SetAutoPaste(on bool) {
	c.mu.Lock()
	c.autoPaste = on
	c.mu.Unlock()
}

// LastText returns the most recent recognized text, for the copy-last action.
func (c *Controller) LastText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastText
}

// Count reports how many transcriptions produced text this session.
func (c *Controller) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// HandleTap classifies one trigger-key press and applies the resulting
// command. A panic anywhere downstream is contained here so a bad episode
// cannot take the tap loop down.
func (c *Controller) HandleTap(at time.Time) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("tap handler panic: %v", r)
			c.sink.Error(fmt.Sprintf("internal error: %v", r))
		}
	}()

	switch c.detector.Classify(at, c.session.Recording()) {
	case gesture.Start:
		c.StartRecording()
	case gesture.Stop:
		c.StopRecording()
	}
}

// StartRecording opens the capture stream. Also called directly by the menu
// bar item, bypassing the gesture detector.
func (c *Controller) StartRecording() {
	if err := c.session.Start(); err != nil {
		log.Errorf("recording start: %v", err)
		c.sink.Error(err.Error())
		return
	}
	log.Info("recording_start")
	c.sink.RecordingStart()
}

// StopRecording closes the stream and hands the episode to a worker. An
// episode with no buffered audio ends silently.
func (c *Controller) StopRecording() {
	samples := c.session.Stop()
	if samples == nil {
		return
	}
	log.Info("recording_stop")
	c.sink.RecordingStop()

	if len(samples) == 0 {
		log.Info("empty_recording")
		return
	}

	c.sink.Transcribing()
	c.wg.Add(1)
	go c.finish(samples)
}

func (c *Controller) finish(samples []float32) {
	defer c.wg.Done()

	started := time.Now()
	text, err := c.engine.Transcribe(context.Background(), samples)
	if err != nil {
		log.Errorf("transcription: %v", err)
		c.sink.Error(err.Error())
		return
	}

	audioSeconds := float64(len(samples)) / float64(audio.SampleRate)
	if text == "" {
		log.Info("no_speech")
		c.sink.Transcription("", true)
		return
	}

	c.mu.Lock()
	c.lastText = text
	c.count++
	autoPaste := c.autoPaste
	c.mu.Unlock()

	log.Transcription(c.engine.EngineName(), audioSeconds, time.Since(started).Seconds(), len(text))
	log.TranscriptionText(text)

	if autoPaste {
		if err := c.injector.Inject(text); err != nil {
			log.Errorf("injection: %v", err)
			c.sink.Error(err.Error())
		}
	} else if err := c.copyFn(text); err != nil {
		log.Errorf("clipboard copy: %v", err)
		c.sink.Error(err.Error())
	}

	c.sink.Transcription(text, false)
}

// Run consumes taps until quit fires. Pending transcription workers are
// waited out before returning.
func (c *Controller) Run(taps <-chan time.Time, quit <-chan struct{}) {
	for {
		select {
		case at := <-taps:
			c.HandleTap(at)
		case <-quit:
			c.wg.Wait()
			return
		}
	}
}

// Wait blocks until all in-flight transcriptions have finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}
