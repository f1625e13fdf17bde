package core

import (
	"testing"
	"time"
)

func TestCoarseNowTracksRealTime(t *testing.T) {
	StartCoarseClock()
	// Allow the ticker to fire at least once
	time.Sleep(2 * time.Millisecond)

	got := CoarseNow()
	now := time.Now()

	diff := now.Sub(got)
	if diff < 0 {
		diff = -diff
	}

	// The cached time should stay within 5ms of real time
	if diff > 5*time.Millisecond {
		t.Errorf("CoarseNow() drifted %v from time.Now()", diff)
	}
}

func TestCoarseNowAdvances(t *testing.T) {
	StartCoarseClock()

	first := CoarseNow()
	time.Sleep(5 * time.Millisecond)
	second := CoarseNow()

	if !second.After(first) {
		t.Errorf("CoarseNow() did not advance: %v then %v", first, second)
	}
}

func TestStartCoarseClockIdempotent(t *testing.T) {
	// Calling multiple times must not panic or reset the clock
	StartCoarseClock()
	StartCoarseClock()
	StartCoarseClock()

	if CoarseNow().IsZero() {
		t.Error("CoarseNow() returned zero time after repeated StartCoarseClock calls")
	}
}
