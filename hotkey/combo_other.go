//go:build !linux

package hotkey

import (
	"time"

	xhotkey "golang.design/x/hotkey"
)

// comboListener registers Ctrl+Shift+Space as the trigger through the OS
// hotkey API. Each keydown of the combo counts as one tap.
type comboListener struct {
	hk   *xhotkey.Hotkey
	taps chan time.Time
}

func newCombo() Listener {
	return &comboListener{
		hk:   xhotkey.New([]xhotkey.Modifier{xhotkey.ModCtrl, xhotkey.ModShift}, xhotkey.KeySpace),
		taps: make(chan time.Time, tapBuffer),
	}
}

func (l *comboListener) Register() error {
	if err := l.hk.Register(); err != nil {
		return err
	}
	go func() {
		for range l.hk.Keydown() {
			send(l.taps, time.Now())
		}
	}()
	return nil
}

func (l *comboListener) Unregister() {
	l.hk.Unregister()
}

func (l *comboListener) Taps() <-chan time.Time {
	return l.taps
}
