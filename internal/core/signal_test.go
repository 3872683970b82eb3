package core

import (
	"math"
	"testing"
)

func TestNewSignalIsAllNaN(t *testing.T) {
	s := NewSignal(5)
	if len(s) != 5 {
		t.Fatalf("len = %d, want 5", len(s))
	}
	for i, v := range s {
		if !math.IsNaN(v) {
			t.Errorf("s[%d] = %v, want NaN", i, v)
		}
	}
}

func TestPadLeft(t *testing.T) {
	s := Signal{1, 2, 3}
	padded := s.PadLeft(2)
	if len(padded) != 5 {
		t.Fatalf("len = %d, want 5", len(padded))
	}
	if padded[0] != 0 || padded[1] != 0 {
		t.Errorf("expected leading zero padding, got %v", padded[:2])
	}
	if padded[2] != 1 || padded[3] != 2 || padded[4] != 3 {
		t.Errorf("original samples shifted incorrectly: %v", padded)
	}
}

func TestPadLeftZeroIsCopy(t *testing.T) {
	s := Signal{1, 2, 3}
	padded := s.PadLeft(0)
	if len(padded) != 3 {
		t.Fatalf("len = %d, want 3", len(padded))
	}
	padded[0] = 99
	if s[0] == 99 {
		t.Errorf("PadLeft(0) should return a copy, not alias the source")
	}
}

func TestPadRight(t *testing.T) {
	s := Signal{1, 2, 3}
	padded := s.PadRight(2)
	if len(padded) != 5 {
		t.Fatalf("len = %d, want 5", len(padded))
	}
	if padded[0] != 1 || padded[1] != 2 || padded[2] != 3 {
		t.Errorf("original samples corrupted: %v", padded)
	}
}

func TestModeOfUniformSamples(t *testing.T) {
	s := Signal{5, 5, 5, 6}
	if got := s.Mode(); got != 5 {
		t.Errorf("Mode() = %v, want 5", got)
	}
}

func TestModeIgnoresNaN(t *testing.T) {
	s := Signal{math.NaN(), 3, 3, math.NaN(), 4}
	if got := s.Mode(); got != 3 {
		t.Errorf("Mode() = %v, want 3", got)
	}
}

func TestModeOfAllNaNIsZero(t *testing.T) {
	s := NewSignal(4)
	if got := s.Mode(); got != 0 {
		t.Errorf("Mode() = %v, want 0", got)
	}
}
