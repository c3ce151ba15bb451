//go:build darwin

package tray

import (
	"fyne.io/systray"
	"golang.design/x/hotkey/mainthread"
)

var (
	mRecord *systray.MenuItem
	mCopy   *systray.MenuItem
)

func Init() <-chan struct{} {
	start, _ := systray.RunWithExternalLoop(onReady, onExit)
	done := make(chan struct{})
	mainthread.Call(func() {
		start()
		close(done)
	})
	<-done
	return quitCh
}

func onReady() {
	systray.SetTemplateIcon(iconIdle, iconIdle)
	systray.SetTooltip("murmur – double-tap to dictate")

	mCopy = systray.AddMenuItem("Copy Last Text", "Copy last transcription to clipboard")
	mCopy.Disable()
	go func() {
		for range mCopy.ClickedCh {
			if copyLastFn != nil {
				copyLastFn()
			}
		}
	}()

	systray.AddSeparator()

	mRecord = systray.AddMenuItem("Start Dictation", "Start or stop dictation")
	go func() {
		for range mRecord.ClickedCh {
			if recording {
				if stopFn != nil {
					stopFn()
				}
			} else {
				if recordFn != nil {
					recordFn()
				}
			}
		}
	}()

	mAutoPaste := systray.AddMenuItemCheckbox("Auto-paste", "Paste transcribed text at the cursor", autoPasteOn)
	go func() {
		for range mAutoPaste.ClickedCh {
			if mAutoPaste.Checked() {
				mAutoPaste.Uncheck()
			} else {
				mAutoPaste.Check()
			}
			if autoPasteCb != nil {
				autoPasteCb(mAutoPaste.Checked())
			}
		}
	}()

	systray.AddSeparator()
	mQuit := systray.AddMenuItem("Quit", "Quit murmur")
	go func() {
		<-mQuit.ClickedCh
		Quit()
	}()
}

func updateRecordingIcon(rec bool) {
	if rec {
		systray.SetIcon(iconRec)
		if mRecord != nil {
			mRecord.SetTitle("Stop Dictation")
		}
	} else {
		systray.SetTemplateIcon(iconIdle, iconIdle)
		if mRecord != nil {
			mRecord.SetTitle("Start Dictation")
		}
	}
}

func updateTooltip(msg string) {
	systray.SetTooltip(msg)
}

func updateCopyLastTitle(title string) {
	if mCopy != nil {
		mCopy.SetTitle(title)
		mCopy.Enable()
	}
}

func onExit() {
	closeOnce.Do(func() { close(quitCh) })
}
