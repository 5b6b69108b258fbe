package audio

import (
	"math"
	"testing"
)

func TestPlayEmptyBuffer(t *testing.T) {
	// The empty check runs before any device is acquired, so this is safe on
	// machines without audio hardware.
	p := NewPlayer()
	if err := p.Play(nil, 48000); err != ErrEmptyBuffer {
		t.Errorf("Expected ErrEmptyBuffer, got %v", err)
	}
}

func TestSanitize(t *testing.T) {
	buffer := []float32{0.5, float32(math.NaN()), -0.25, float32(math.Inf(1)), float32(math.Inf(-1))}
	sanitize(buffer)
	expected := []float32{0.5, 0, -0.25, 0, 0}
	for i, want := range expected {
		if buffer[i] != want {
			t.Errorf("Sample %d: expected %f, got %f", i, want, buffer[i])
		}
	}
}
