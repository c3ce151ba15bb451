package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mattn/go-shellwords"
)

// whisperBinaries are tried in order when no command is configured;
// whisper-cli is the Homebrew name, main the bare whisper.cpp build.
var whisperBinaries = []string{"whisper-cli", "whisper-cpp", "whisper", "main"}

// WhisperCLI runs the local whisper.cpp command-line tool on the WAV
// artifact and parses its JSON output.
type WhisperCLI struct {
	cmd   []string
	model string
	lang  string
}

// NewWhisperCLI builds the local engine. command may be a full invocation
// ("/opt/whisper/main --threads 4"); empty means look up a known binary on
// PATH. model is passed as -m when set.
func NewWhisperCLI(command, model, lang string) (*WhisperCLI, error) {
	var argv []string
	if command != "" {
		parsed, err := shellwords.NewParser().Parse(command)
		if err != nil {
			return nil, fmt.Errorf("parsing engine command: %w", err)
		}
		if len(parsed) == 0 {
			return nil, fmt.Errorf("engine command is empty")
		}
		argv = parsed
	} else {
		bin := FindWhisperBinary()
		if bin == "" {
			return nil, fmt.Errorf("no whisper binary found on PATH (install whisper.cpp or use -engine openai)")
		}
		argv = []string{bin}
	}
	return &WhisperCLI{cmd: argv, model: model, lang: lang}, nil
}

// FindWhisperBinary returns the first known whisper.cpp binary on PATH.
func FindWhisperBinary() string {
	for _, name := range whisperBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func (w *WhisperCLI) Name() string { return "whisper" }

// whisperOutput mirrors whisper.cpp's -oj JSON shape. Offsets are
// milliseconds.
type whisperOutput struct {
	Transcription []struct {
		Text    string `json:"text"`
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
	} `json:"transcription"`
}

func (w *WhisperCLI) Transcribe(ctx context.Context, wavPath string) ([]Segment, error) {
	args := append([]string{}, w.cmd[1:]...)
	args = append(args, "-f", wavPath, "-oj", "--no-prints")
	if w.model != "" {
		args = append(args, "-m", w.model)
	}
	if w.lang != "" {
		args = append(args, "-l", w.lang)
	}

	cmd := exec.CommandContext(ctx, w.cmd[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("whisper run: %w: %s", err, stderr.String())
	}

	// -oj writes <input>.json next to the WAV.
	jsonPath := wavPath + ".json"
	data, readErr := os.ReadFile(jsonPath)
	if readErr == nil {
		defer os.Remove(jsonPath)
	} else {
		// Some builds ignore -oj and print plain text.
		text := strings.TrimSpace(stdout.String())
		if text == "" {
			return nil, fmt.Errorf("reading whisper output: %w", readErr)
		}
		return []Segment{{Text: text}}, nil
	}

	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding whisper output: %w", err)
	}

	segments := make([]Segment, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		segments = append(segments, Segment{
			Text:  seg.Text,
			Start: time.Duration(seg.Offsets.From) * time.Millisecond,
			End:   time.Duration(seg.Offsets.To) * time.Millisecond,
		})
	}
	return segments, nil
}
