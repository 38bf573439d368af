package sampler

import (
	"testing"
)

func TestRandomRoundSize(t *testing.T) {
	tests := []struct {
		requested int
		expected  int
	}{
		{0, 1},
		{-5, 1},
		{1, 1},
		{16, 16},
		{1024, 1024},
		{4096, 1024},
	}

	s := NewRandom(1)
	for _, tt := range tests {
		if got := s.RoundSize(tt.requested); got != tt.expected {
			t.Errorf("RoundSize(%d) = %d, expected %d", tt.requested, got, tt.expected)
		}
	}
}

func TestStratifiedRoundSize(t *testing.T) {
	tests := []struct {
		requested int
		expected  int
	}{
		{1, 1},
		{2, 4},
		{4, 4},
		{5, 9},
		{16, 16},
		{17, 25},
	}

	s := NewStratified(1)
	for _, tt := range tests {
		if got := s.RoundSize(tt.requested); got != tt.expected {
			t.Errorf("RoundSize(%d) = %d, expected %d", tt.requested, got, tt.expected)
		}
	}
}

func TestSamplerRanges(t *testing.T) {
	random := NewRandom(7)
	stratified := NewStratified(7)
	stratified.RoundSize(16)

	for i := 0; i < 1000; i++ {
		for name, v := range map[string]float64{
			"random":     random.Get1D(),
			"stratified": stratified.Get1D(),
		} {
			if v < 0 || v >= 1 {
				t.Fatalf("%s Get1D out of range: %f", name, v)
			}
		}

		p := stratified.Get2D()
		if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
			t.Fatalf("stratified Get2D out of range: %+v", p)
		}
	}
}

func TestStratifiedCoversAllStrata(t *testing.T) {
	s := NewStratified(3)
	spp := s.RoundSize(4) // 2x2 grid

	seen := make(map[[2]int]bool)
	for i := 0; i < spp; i++ {
		p := s.Get2D()
		seen[[2]int{int(p.X * 2), int(p.Y * 2)}] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct strata, got %d", len(seen))
	}
}

func TestSamplerDeterminism(t *testing.T) {
	a := NewRandom(42)
	b := NewRandom(42)
	for i := 0; i < 100; i++ {
		if a.Get1D() != b.Get1D() {
			t.Fatal("expected identical sequences for identical seeds")
		}
	}
}

func TestCreate(t *testing.T) {
	for _, name := range []string{"random", "stratified"} {
		factory, err := Create(name, nil)
		if err != nil {
			t.Fatalf("Create(%q): %v", name, err)
		}
		if s := factory(1); s == nil {
			t.Fatalf("factory for %q returned nil", name)
		}
	}

	if _, err := Create("sobol", nil); err == nil {
		t.Error("expected error for unregistered sampler type")
	}
}
