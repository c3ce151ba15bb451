package gesture

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(offset time.Duration) time.Time { return t0.Add(offset) }

func TestFirstTapNeverStarts(t *testing.T) {
	d := New(DefaultThreshold)
	if cmd := d.Classify(at(0), false); cmd != None {
		t.Fatalf("first tap = %v, want none", cmd)
	}
}

func TestDoubleTapStarts(t *testing.T) {
	// 2 taps at t=0.0s and t=0.2s while idle: Start exactly once, at the
	// second tap.
	d := New(DefaultThreshold)
	if cmd := d.Classify(at(0), false); cmd != None {
		t.Fatalf("tap 1 = %v, want none", cmd)
	}
	if cmd := d.Classify(at(200*time.Millisecond), false); cmd != Start {
		t.Fatalf("tap 2 = %v, want start", cmd)
	}
}

func TestSlowTapsDoNotStart(t *testing.T) {
	d := New(DefaultThreshold)
	d.Classify(at(0), false)
	if cmd := d.Classify(at(700*time.Millisecond), false); cmd != None {
		t.Fatalf("slow second tap = %v, want none", cmd)
	}
	// The slow tap re-armed the detector; a quick third tap starts.
	if cmd := d.Classify(at(900*time.Millisecond), false); cmd != Start {
		t.Fatalf("quick third tap = %v, want start", cmd)
	}
}

func TestAnyTapStopsWhileRecording(t *testing.T) {
	d := New(DefaultThreshold)
	d.Classify(at(0), false)
	d.Classify(at(100*time.Millisecond), false) // start

	// Both a quick and a slow tap stop; no debouncing.
	if cmd := d.Classify(at(150*time.Millisecond), true); cmd != Stop {
		t.Fatalf("quick tap while recording = %v, want stop", cmd)
	}
	d.Classify(at(200*time.Millisecond), false)
	d.Classify(at(300*time.Millisecond), false)
	if cmd := d.Classify(at(10*time.Second), true); cmd != Stop {
		t.Fatalf("slow tap while recording = %v, want stop", cmd)
	}
}

func TestNeverStartsWhileRecording(t *testing.T) {
	d := New(DefaultThreshold)
	for i := 0; i < 10; i++ {
		cmd := d.Classify(at(time.Duration(i)*100*time.Millisecond), true)
		if cmd == Start {
			t.Fatalf("tap %d emitted start while recording", i)
		}
	}
}

func TestStopArmsNextStart(t *testing.T) {
	// The stopping tap's timestamp is recorded, so a quick follow-up tap
	// starts the next episode.
	d := New(DefaultThreshold)
	if cmd := d.Classify(at(0), true); cmd != Stop {
		t.Fatal("expected stop")
	}
	if cmd := d.Classify(at(200*time.Millisecond), false); cmd != Start {
		t.Fatal("expected start right after stop")
	}
}

func TestThresholdBoundary(t *testing.T) {
	d := New(DefaultThreshold)
	d.Classify(at(0), false)
	// Gap exactly equal to the threshold does not start.
	if cmd := d.Classify(at(DefaultThreshold), false); cmd != None {
		t.Fatalf("gap == threshold = %v, want none", cmd)
	}
}

func TestZeroThresholdFallsBackToDefault(t *testing.T) {
	d := New(0)
	if d.threshold != DefaultThreshold {
		t.Fatalf("threshold = %v, want %v", d.threshold, DefaultThreshold)
	}
}
