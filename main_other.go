//go:build !linux

package main

import (
	"runtime"

	"golang.design/x/hotkey/mainthread"
)

func init() {
	runtime.LockOSThread()
}

// The OS hotkey API and the menu bar both need the main thread.
func main() {
	mainthread.Init(run)
}
