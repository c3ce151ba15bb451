// Package inject places transcribed text at the OS input focus by way of
// the clipboard, then puts the user's previous clipboard back.
package inject

import (
	"fmt"
	"sync"
	"time"

	"murmur/clipboard"
)

const (
	// DefaultSettle is the pause between writing the clipboard and sending
	// the paste chord; pasting immediately can read the stale clipboard.
	DefaultSettle = 100 * time.Millisecond
	// DefaultRestoreAfter is how long the transcribed text stays on the
	// clipboard before the snapshot is put back.
	DefaultRestoreAfter = time.Second
)

// Clipboard and Paster are seams over the OS so tests can observe ordering.
type Clipboard interface {
	Read() (string, error)
	Write(text string) error
}

type Paster interface {
	Paste() error
}

type sysClipboard struct{}

func (sysClipboard) Read() (string, error)  { return clipboard.Read() }
func (sysClipboard) Write(text string) error { return clipboard.Write(text) }

type sysPaster struct{}

func (sysPaster) Paste() error { return clipboard.Paste() }

// Injector performs one injection at a time: snapshot, write, settle, paste,
// delayed restore. The restore is a cancellable timer; a newer injection
// cancels a pending restore so rapid dictations cannot put a stale snapshot
// back out of order. If the process exits before the delay elapses the
// restore never runs — a known limitation, not a guarantee violation.
type Injector struct {
	clip         Clipboard
	paster       Paster
	settle       time.Duration
	restoreAfter time.Duration

	mu           sync.Mutex
	restoreTimer *time.Timer
}

// NewSystem builds an Injector over the real OS clipboard and paste chord.
func NewSystem() *Injector {
	return New(sysClipboard{}, sysPaster{})
}

func New(clip Clipboard, paster Paster) *Injector {
	return &Injector{
		clip:         clip,
		paster:       paster,
		settle:       DefaultSettle,
		restoreAfter: DefaultRestoreAfter,
	}
}

// SetDelays overrides the settle and restore delays (tests, tuning).
func (in *Injector) SetDelays(settle, restoreAfter time.Duration) {
	in.settle = settle
	in.restoreAfter = restoreAfter
}

// Inject pastes text at the current focus. Empty text is a no-op: no
// clipboard touch, no paste. On paste failure the text is left on the
// clipboard for a manual paste and the error reports that fallback.
func (in *Injector) Inject(text string) error {
	if text == "" {
		return nil
	}

	in.cancelPendingRestore()

	snapshot, readErr := in.clip.Read()

	if err := in.clip.Write(text); err != nil {
		return fmt.Errorf("clipboard write: %w", err)
	}
	time.Sleep(in.settle)

	if err := in.paster.Paste(); err != nil {
		// Deliberate fallback: the text stays on the clipboard.
		return fmt.Errorf("paste failed, text left on clipboard: %w", err)
	}

	if readErr == nil {
		in.scheduleRestore(snapshot)
	}
	return nil
}

func (in *Injector) cancelPendingRestore() {
	in.mu.Lock()
	if in.restoreTimer != nil {
		in.restoreTimer.Stop()
		in.restoreTimer = nil
	}
	in.mu.Unlock()
}

func (in *Injector) scheduleRestore(snapshot string) {
	in.mu.Lock()
	in.restoreTimer = time.AfterFunc(in.restoreAfter, func() {
		in.clip.Write(snapshot)
		in.mu.Lock()
		in.restoreTimer = nil
		in.mu.Unlock()
	})
	in.mu.Unlock()
}

// RestorePending reports whether a clipboard restore is scheduled.
func (in *Injector) RestorePending() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.restoreTimer != nil
}
