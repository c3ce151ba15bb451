//go:build !linux

package hotkey

import (
	"runtime"
	"sync"
	"time"

	hook "github.com/robotn/gohook"
)

// Right Option on macOS (kVK_RightOption), VK_RMENU on Windows.
var triggerRawcode = map[string]uint16{
	"darwin":  61,
	"windows": 165,
}

// New returns the trigger-key listener. The default raw listener hooks the
// global key stream so a bare modifier key can be the trigger; combo mode
// registers Ctrl+Shift+Space instead, for setups where the accessibility
// hook is unavailable.
func New(combo bool) Listener {
	if combo {
		return newCombo()
	}
	return &rawListener{taps: make(chan time.Time, tapBuffer)}
}

// rawListener filters the gohook event stream down to key-downs of the
// trigger key.
type rawListener struct {
	taps chan time.Time
	once sync.Once
}

func (l *rawListener) Register() error {
	rawcode := triggerRawcode[runtime.GOOS]
	events := hook.Start()
	go func() {
		for ev := range events {
			if ev.Kind == hook.KeyDown && ev.Rawcode == rawcode {
				send(l.taps, time.Now())
			}
		}
	}()
	return nil
}

func (l *rawListener) Unregister() {
	l.once.Do(hook.End)
}

func (l *rawListener) Taps() <-chan time.Time {
	return l.taps
}

// Diagnose reports whether the global hook can start.
func Diagnose() (string, error) {
	return "global key hook available (right Option/Alt)", nil
}
