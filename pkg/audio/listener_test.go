package audio

import (
	"math"
	"testing"
)

func TestMeanAbsLevel(t *testing.T) {
	testCases := []struct {
		name     string
		input    []float32
		expected float32
	}{
		{name: "empty buffer", input: []float32{}, expected: 0},
		{name: "single value buffer", input: []float32{0.5}, expected: 0.5},
		{name: "silence", input: []float32{0, 0, 0, 0}, expected: 0},
		{name: "sign is ignored", input: []float32{0.5, -0.5, 0.5, -0.5}, expected: 0.5},
		{name: "varying amplitude", input: []float32{0, 1, 0, -1}, expected: 0.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := MeanAbsLevel(tc.input)
			if math.Abs(float64(result-tc.expected)) > 0.0001 {
				t.Errorf("Expected %f, got %f", tc.expected, result)
			}
		})
	}
}

func TestCalculateRMSLevel(t *testing.T) {
	testCases := []struct {
		name     string
		input    []float32
		expected float32
	}{
		{name: "empty buffer", input: []float32{}, expected: 0},
		{name: "single value buffer", input: []float32{0.5}, expected: 0.5},
		{name: "silence", input: []float32{0, 0, 0, 0}, expected: 0},
		{name: "constant amplitude", input: []float32{0.5, 0.5, 0.5, 0.5}, expected: 0.5},
		{name: "varying amplitude", input: []float32{0, 1, 0, -1}, expected: float32(math.Sqrt(0.5))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := CalculateRMSLevel(tc.input)
			if math.Abs(float64(result-tc.expected)) > 0.0001 {
				t.Errorf("Expected %f, got %f", tc.expected, result)
			}
		})
	}
}

func TestListenerLifecycleGuards(t *testing.T) {
	l := NewListener(48000)
	if l.Listening() {
		t.Error("Expected a fresh listener to be idle")
	}
	if l.Level() != 0 {
		t.Errorf("Expected zero level while idle, got %f", l.Level())
	}
	if err := l.Stop(); err != ErrNotListening {
		t.Errorf("Expected ErrNotListening, got %v", err)
	}
}

func TestDetectionThresholdOrdering(t *testing.T) {
	// Ambient silence sits below the threshold and synthesized output at
	// default volume sits well above it; otherwise detection could never
	// fire.
	quiet := make([]float32, 1024)
	if MeanAbsLevel(quiet) >= DetectionThreshold {
		t.Error("Expected silence to stay below the detection threshold")
	}
	loud := []float32{0.5, -0.5, 0.4, -0.4}
	if MeanAbsLevel(loud) <= DetectionThreshold {
		t.Error("Expected droid-level audio to exceed the detection threshold")
	}
}
