// Package gesture classifies taps of the dictation trigger key into
// recording commands: a double-tap starts a recording, any single tap while
// recording stops it.
package gesture

import "time"

// DefaultThreshold is the maximum gap between two taps for them to count as
// a double-tap.
const DefaultThreshold = 500 * time.Millisecond

type Command int

const (
	None Command = iota
	Start
	Stop
)

func (c Command) String() string {
	switch c {
	case Start:
		return "start"
	case Stop:
		return "stop"
	default:
		return "none"
	}
}

// Detector holds the timestamp of the last qualifying tap. It does not track
// whether a recording is active: callers pass the session's current state so
// the detector can never diverge from it. The tap stream is serial, so no
// locking is needed.
type Detector struct {
	threshold time.Duration
	lastTap   time.Time
}

func New(threshold time.Duration) *Detector {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Detector{threshold: threshold}
}

// Classify consumes one qualifying key-down event.
//
// While recording, any tap stops. While idle, a tap within threshold of the
// previous one starts; otherwise it only arms the detector. The very first
// tap can never start a recording since there is no previous timestamp.
func (d *Detector) Classify(at time.Time, recording bool) Command {
	prev := d.lastTap
	d.lastTap = at

	if recording {
		return Stop
	}
	if !prev.IsZero() && at.Sub(prev) < d.threshold {
		return Start
	}
	return None
}
