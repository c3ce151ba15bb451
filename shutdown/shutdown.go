// Package shutdown runs cleanup exactly once on interrupt or explicit quit.
package shutdown

import (
	"os"
	"os/signal"
	"sync"
)

var once sync.Once

// Notify subscribes ch to the platform's termination signals.
func Notify(ch chan os.Signal) {
	signal.Notify(ch, signals()...)
}

// Handle waits for an interrupt in the background and runs cleanup once.
// The returned func triggers the same cleanup path without a signal, for
// quit actions from the UI.
func Handle(cleanup func()) func() {
	run := func() { once.Do(cleanup) }

	ch := make(chan os.Signal, 1)
	Notify(ch)
	go func() {
		<-ch
		run()
		os.Exit(0)
	}()

	return run
}
