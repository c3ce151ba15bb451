// Package transcriber bridges a finished recording to the external speech
// engine. The engine is an opaque collaborator behind the Engine interface;
// this package only serializes audio, invokes it, and joins the segments it
// returns.
package transcriber

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"murmur/encoder"
)

// Segment is one ordered piece of recognized text as emitted by the engine.
type Segment struct {
	Text  string
	Start time.Duration
	End   time.Duration
}

// Engine is the speech-to-text boundary: decode the WAV file at path and
// return text segments in emission order.
type Engine interface {
	Name() string
	Transcribe(ctx context.Context, wavPath string) ([]Segment, error)
}

// Config selects and parameterizes an engine.
type Config struct {
	Engine   string // "whisper" (local CLI, default) or "openai"
	Command  string // override for the whisper CLI invocation
	Model    string // model path (whisper) or model name (openai)
	Language string // ISO-639-1 code, empty for auto-detect
}

// New builds the configured engine. The default is the local whisper CLI;
// "openai" selects the HTTP engine using OPENAI_API_KEY or GROQ_API_KEY.
func New(cfg Config) (Engine, error) {
	switch cfg.Engine {
	case "", "whisper":
		return NewWhisperCLI(cfg.Command, cfg.Model, cfg.Language)
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		base := os.Getenv("OPENAI_BASE_URL")
		if key == "" {
			key = os.Getenv("GROQ_API_KEY")
			if base == "" {
				base = groqBaseURL
			}
		}
		if key == "" {
			return nil, fmt.Errorf("set OPENAI_API_KEY or GROQ_API_KEY for the openai engine")
		}
		return NewOpenAI(key, base, cfg.Model, cfg.Language), nil
	default:
		return nil, fmt.Errorf("unknown engine %q (use whisper or openai)", cfg.Engine)
	}
}

// Adapter converts a recording into text: temp WAV out, engine in, joined
// segments back. One Adapter serves the whole process lifetime.
type Adapter struct {
	engine Engine
	tmpDir string // "" means os.TempDir
}

func NewAdapter(engine Engine) *Adapter {
	return &Adapter{engine: engine}
}

// Transcribe writes samples to a transient WAV artifact, hands it to the
// engine and concatenates the returned segments with no separator. The temp
// file is removed unconditionally, engine failure included. An engine that
// finds no speech yields "".
func (a *Adapter) Transcribe(ctx context.Context, samples []float32) (string, error) {
	f, err := os.CreateTemp(a.tmpDir, "murmur_*.wav")
	if err != nil {
		return "", fmt.Errorf("temp wav: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if err := encoder.Encode(f, samples); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing temp wav: %w", err)
	}

	segments, err := a.engine.Transcribe(ctx, path)
	if err != nil {
		return "", fmt.Errorf("engine %s: %w", a.engine.Name(), err)
	}

	var b strings.Builder
	for _, seg := range segments {
		b.WriteString(seg.Text)
	}
	return strings.TrimSpace(b.String()), nil
}

// EngineName exposes the underlying engine's name for status lines.
func (a *Adapter) EngineName() string { return a.engine.Name() }
