//go:build !windows

package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"murmur/shutdown"
)

// The key hook can leave the terminal in raw mode.
func resetTerminal() {
	exec.Command("stty", "sane").Run()
}

func setupInterruptHandler() {
	ch := make(chan os.Signal, 1)
	shutdown.Notify(ch)
	go func() {
		<-ch
		fmt.Println("\nInterrupted")
		os.Exit(1)
	}()
}

func printPasteHint() {
	switch runtime.GOOS {
	case "linux":
		fmt.Println("  Fix with: sudo chmod 660 /dev/uinput && sudo chgrp input /dev/uinput")
	case "darwin":
		fmt.Println("  Grant Accessibility permission in System Settings > Privacy & Security")
	}
}
