package generator

import (
	"testing"
	"time"
)

func TestDrawsStayInRange(t *testing.T) {
	delay := Range{Min: 2 * time.Second, Max: 5 * time.Second}
	visible := Range{Min: 2 * time.Second, Max: 6 * time.Second}
	g := NewSeeded(delay, visible, 42)
	for i := 0; i < 500; i++ {
		if d := g.NextDelay(); d < delay.Min || d >= delay.Max {
			t.Fatalf("delay %v outside [%v, %v)", d, delay.Min, delay.Max)
		}
		if v := g.NextVisible(); v < visible.Min || v >= visible.Max {
			t.Fatalf("visible %v outside [%v, %v)", v, visible.Min, visible.Max)
		}
	}
}

func TestSeededIsDeterministic(t *testing.T) {
	r := Range{Min: time.Second, Max: 3 * time.Second}
	a := NewSeeded(r, r, 7)
	b := NewSeeded(r, r, 7)
	for i := 0; i < 10; i++ {
		if a.NextDelay() != b.NextDelay() || a.NextVisible() != b.NextVisible() {
			t.Fatalf("expected identical sequences at draw %d", i)
		}
	}
}

func TestDegenerateRange(t *testing.T) {
	r := Range{Min: 1500 * time.Millisecond, Max: 1500 * time.Millisecond}
	g := NewSeeded(r, r, 1)
	if d := g.NextDelay(); d != r.Min {
		t.Fatalf("expected constant %v, got %v", r.Min, d)
	}
}
