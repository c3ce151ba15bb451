package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupLogDir(t *testing.T) string {
	t.Helper()
	d := t.TempDir()
	SetDir(d)
	t.Cleanup(Close)
	return d
}

func TestResolveDirFlagWins(t *testing.T) {
	t.Setenv("MURMUR_LOG_PATH", "/env/path")
	got, err := ResolveDir("/flag/path")
	if err != nil {
		t.Fatalf("ResolveDir: %v", err)
	}
	if got != "/flag/path" {
		t.Errorf("got %q, want /flag/path", got)
	}
}

func TestResolveDirRelativeFlag(t *testing.T) {
	got, err := ResolveDir("rel/logs")
	if err != nil {
		t.Fatalf("ResolveDir: %v", err)
	}
	wd, _ := os.Getwd()
	want := filepath.Join(wd, "rel", "logs")
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResolveDirEnv(t *testing.T) {
	t.Setenv("MURMUR_LOG_PATH", "/env/path")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatalf("ResolveDir: %v", err)
	}
	if got != "/env/path" {
		t.Errorf("got %q, want /env/path", got)
	}
}

func TestResolveDirDefault(t *testing.T) {
	t.Setenv("MURMUR_LOG_PATH", "")
	got, err := ResolveDir("")
	if err != nil {
		t.Fatalf("ResolveDir: %v", err)
	}
	if !strings.Contains(got, "murmur") {
		t.Errorf("default dir %q does not contain murmur", got)
	}
}

func TestInitCreatesFiles(t *testing.T) {
	d := setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Info("hello")
	Close()

	for _, name := range []string{"diagnostics_log.txt", "transcribe_log.txt"} {
		if _, err := os.Stat(filepath.Join(d, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(d, "diagnostics_log.txt"))
	if err != nil {
		t.Fatalf("read diagnostics: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("diagnostics log missing message, got %q", data)
	}
}

func TestTranscriptionText(t *testing.T) {
	d := setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	TranscriptionText("Hello world")
	Close()

	data, err := os.ReadFile(filepath.Join(d, "transcribe_log.txt"))
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	line := strings.TrimSpace(string(data))
	parts := strings.Split(line, "\t")
	if len(parts) != 3 {
		t.Fatalf("want 3 tab fields, got %d: %q", len(parts), line)
	}
	if parts[2] != "Hello world" {
		t.Errorf("text field = %q", parts[2])
	}
}

func TestLogBeforeInitIsNoop(t *testing.T) {
	setupLogDir(t)
	Info("dropped")
	TranscriptionText("dropped")
}

func TestCloseIdempotent(t *testing.T) {
	setupLogDir(t)
	if err := Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	Close()
	Close()
}
