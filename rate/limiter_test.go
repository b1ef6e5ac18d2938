package rate

import (
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	interval := 10 * time.Millisecond
	lim := NewLimiter(1, 100, Every(interval))

	tooshort := 1 * time.Millisecond

	client := "10.0.0.1"
	expected := []bool{true, false, true, true, false, false}
	waits := []time.Duration{tooshort, interval, interval, tooshort, tooshort, tooshort}
	for i, exp := range expected {
		if got := lim.Check(client); got != exp {
			t.Fatalf("iteration %d: expected %v, but got %v", i, exp, got)
		}
		time.Sleep(waits[i])
	}
}

func TestLimiterWithBurst(t *testing.T) {
	interval := 100 * time.Millisecond
	tooshort := 10 * time.Millisecond
	shortest := 1 * time.Millisecond

	// The full burst is available up front, then tokens refill one per
	// interval.
	expected := []bool{true, true, true, true, true, true, true, true, true, true}
	waits := []time.Duration{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}

	expected = append(expected, false, true, true, false, false, false)
	waits = append(waits, interval, interval, tooshort, tooshort, shortest, shortest)

	lim := NewLimiter(10, 100, Every(interval))
	client := "10.0.0.2"
	for i, exp := range expected {
		if got := lim.Check(client); got != exp {
			t.Fatalf("iteration %d: expected %v, but got %v", i, exp, got)
		}
		time.Sleep(waits[i])
	}
}

func TestLimiterIsolatesClients(t *testing.T) {
	lim := NewLimiter(1, 100, Every(time.Minute))

	if !lim.Check("10.0.0.1") {
		t.Fatal("first client should be allowed")
	}
	if lim.Check("10.0.0.1") {
		t.Fatal("first client should be throttled on the second hit")
	}
	if !lim.Check("10.0.0.2") {
		t.Fatal("second client should have its own bucket")
	}
}
