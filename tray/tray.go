// Package tray shows a menu bar item mirroring the dictation state. It is a
// no-op outside macOS.
package tray

import (
	"fmt"
	"sync"
	"time"
)

var (
	quitCh    = make(chan struct{})
	closeOnce sync.Once

	recordFn   func()
	stopFn     func()
	copyLastFn func()

	recording bool

	autoPasteOn bool
	autoPasteCb func(bool)
)

func OnRecord(start, stop func()) { recordFn = start; stopFn = stop }
func OnCopyLast(fn func())        { copyLastFn = fn }
func SetAutoPaste(on bool)        { autoPasteOn = on }
func OnAutoPaste(fn func(bool))   { autoPasteCb = fn }

func SetRecording(rec bool) {
	recording = rec
	updateRecordingIcon(rec)
}

// SetStatus shows msg in the item tooltip for a while, then reverts.
func SetStatus(msg string) {
	updateTooltip("murmur – " + msg)
	go func() {
		time.Sleep(10 * time.Second)
		updateTooltip("murmur – double-tap to dictate")
	}()
}

// SetLastText updates the copy-last entry after a transcription lands.
func SetLastText(chars int) {
	updateCopyLastTitle(fmt.Sprintf("Copy Last Text (%d chars)", chars))
}

func Quit() {
	closeOnce.Do(func() { close(quitCh) })
}
