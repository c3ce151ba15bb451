//go:build windows

package doctor

import (
	"fmt"
	"os"

	"murmur/shutdown"
)

func resetTerminal() {}

func setupInterruptHandler() {
	ch := make(chan os.Signal, 1)
	shutdown.Notify(ch)
	go func() {
		<-ch
		fmt.Println("\nInterrupted")
		os.Exit(1)
	}()
}

func printPasteHint() {}
