package backoff

import (
	"errors"
	"math"
	"testing"
	"time"
)

// centered is a Rand source pinned to 0.5, i.e. zero jitter.
func centered() float64 { return 0.5 }

func TestPolicy_ExponentialGrowth(t *testing.T) {
	p := &Policy{
		Base:        100 * time.Millisecond,
		Max:         time.Second,
		JitterRatio: 0.5,
		Rand:        centered,
	}

	want := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second, // capped
		time.Second,
	}

	for i, w := range want {
		got, err := p.Next()
		if err != nil {
			t.Fatalf("Next() attempt %d: %v", i, err)
		}
		if got != w {
			t.Errorf("Next() attempt %d = %v, want %v", i, got, w)
		}
	}
	if p.Attempt() != len(want) {
		t.Errorf("Attempt() = %d, want %d", p.Attempt(), len(want))
	}
}

func TestPolicy_JitterBounds(t *testing.T) {
	p := &Policy{
		Base:        50 * time.Millisecond,
		Max:         400 * time.Millisecond,
		JitterRatio: 0.3,
	}

	bound := time.Duration(float64(p.Max) * (1 + p.JitterRatio))
	for i := 0; i < 200; i++ {
		got, err := p.Next()
		if err != nil {
			t.Fatalf("Next(): %v", err)
		}
		if got < 0 || got > bound {
			t.Fatalf("Next() attempt %d = %v, outside [0, %v]", i, got, bound)
		}
	}
}

func TestPolicy_AttemptCapPreventsOverflow(t *testing.T) {
	p := &Policy{
		Base: time.Nanosecond,
		Max:  time.Duration(math.MaxInt64),
		Rand: centered,
	}

	var last time.Duration
	for i := 0; i < 40; i++ {
		got, err := p.Next()
		if err != nil {
			t.Fatalf("Next(): %v", err)
		}
		if got < 0 {
			t.Fatalf("Next() attempt %d = %v, overflowed", i, got)
		}
		last = got
	}

	// Past the internal cap the delay stops growing: 2^30 ns.
	if want := time.Duration(1) << 30; last != want {
		t.Errorf("Next() after cap = %v, want %v", last, want)
	}
}

func TestPolicy_MaxRetriesTerminal(t *testing.T) {
	p := &Policy{
		Base:       time.Millisecond,
		Max:        time.Second,
		MaxRetries: 2,
		Rand:       centered,
	}

	for i := 0; i < 2; i++ {
		if _, err := p.Next(); err != nil {
			t.Fatalf("Next() attempt %d: %v", i, err)
		}
	}

	for i := 0; i < 3; i++ {
		_, err := p.Next()
		if !errors.Is(err, ErrMaxRetries) {
			t.Fatalf("Next() past budget = %v, want ErrMaxRetries", err)
		}
	}
	if p.Attempt() != 2 {
		t.Errorf("Attempt() = %d, want 2", p.Attempt())
	}
}

func TestPolicy_Reset(t *testing.T) {
	p := &Policy{
		Base:       10 * time.Millisecond,
		Max:        time.Second,
		MaxRetries: 3,
		Rand:       centered,
	}

	for i := 0; i < 3; i++ {
		if _, err := p.Next(); err != nil {
			t.Fatalf("Next(): %v", err)
		}
	}
	if _, err := p.Next(); !errors.Is(err, ErrMaxRetries) {
		t.Fatalf("Next() = %v, want ErrMaxRetries", err)
	}

	p.Reset()

	if p.Attempt() != 0 {
		t.Errorf("Attempt() after Reset = %d, want 0", p.Attempt())
	}
	got, err := p.Next()
	if err != nil {
		t.Fatalf("Next() after Reset: %v", err)
	}
	if got != p.Base {
		t.Errorf("Next() after Reset = %v, want %v", got, p.Base)
	}
}

func TestPolicy_NegativeJitterClampsToZero(t *testing.T) {
	p := &Policy{
		Base:        time.Millisecond,
		Max:         time.Second,
		JitterRatio: 1.5,
		Rand:        func() float64 { return 0 }, // full negative jitter
	}

	got, err := p.Next()
	if err != nil {
		t.Fatalf("Next(): %v", err)
	}
	if got != 0 {
		t.Errorf("Next() = %v, want 0", got)
	}
}
