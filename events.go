package main

// EventSink abstracts the display layer so the Bubble Tea TUI, the menu bar
// item and the headless console all receive the same pipeline events.
type EventSink interface {
	RecordingStart()
	RecordingStop()
	AudioLevel(rms float64)
	Transcribing()
	Transcription(text string, noSpeech bool)
	Error(msg string)
}

type noopSink struct{}

func (noopSink) RecordingStart()            {}
func (noopSink) RecordingStop()             {}
func (noopSink) AudioLevel(float64)         {}
func (noopSink) Transcribing()              {}
func (noopSink) Transcription(string, bool) {}
func (noopSink) Error(string)               {}

// multiSink fans one event out to every attached sink.
type multiSink []EventSink

func (m multiSink) RecordingStart() {
	for _, s := range m {
		s.RecordingStart()
	}
}

func (m multiSink) RecordingStop() {
	for _, s := range m {
		s.RecordingStop()
	}
}

func (m multiSink) AudioLevel(rms float64) {
	for _, s := range m {
		s.AudioLevel(rms)
	}
}

func (m multiSink) Transcribing() {
	for _, s := range m {
		s.Transcribing()
	}
}

func (m multiSink) Transcription(text string, noSpeech bool) {
	for _, s := range m {
		s.Transcription(text, noSpeech)
	}
}

func (m multiSink) Error(msg string) {
	for _, s := range m {
		s.Error(msg)
	}
}
