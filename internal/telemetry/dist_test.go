package telemetry

import (
	"math"
	"math/rand"
	"testing"
)

func TestUniformBounds(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		v := Uniform(r, -15.0, -5.0)
		if v < -15.0 || v >= -5.0 {
			t.Fatalf("Uniform out of range: %f", v)
		}
	}
}

func TestIntBetweenInclusive(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	seen := make(map[int]bool)
	for i := 0; i < 10000; i++ {
		v := IntBetween(r, 10, 50)
		if v < 10 || v > 50 {
			t.Fatalf("IntBetween out of range: %d", v)
		}
		seen[v] = true
	}
	if !seen[10] || !seen[50] {
		t.Errorf("expected both bounds to be drawn, got min=%v max=%v", seen[10], seen[50])
	}
}

func TestPickMembership(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	cells := []string{"cell_001", "cell_002", "cell_003"}
	for i := 0; i < 100; i++ {
		got := Pick(r, cells)
		found := false
		for _, c := range cells {
			if c == got {
				found = true
			}
		}
		if !found {
			t.Fatalf("Pick returned %q, not in input", got)
		}
	}
}

func TestChanceFrequency(t *testing.T) {
	cases := []float64{0.2, 0.3}
	for _, p := range cases {
		r := rand.New(rand.NewSource(42))
		const n = 10000
		hits := 0
		for i := 0; i < n; i++ {
			if Chance(r, p) {
				hits++
			}
		}
		freq := float64(hits) / n
		if math.Abs(freq-p) > 0.03 {
			t.Errorf("Chance(%.2f) frequency %.4f outside tolerance", p, freq)
		}
	}
}

func TestChanceDegenerate(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	for i := 0; i < 100; i++ {
		if Chance(r, 0) {
			t.Fatal("Chance(0) returned true")
		}
		if !Chance(r, 1) {
			t.Fatal("Chance(1) returned false")
		}
	}
}
