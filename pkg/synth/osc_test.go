package synth

import (
	"math"
	"testing"
)

func ones(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1
	}
	return out
}

func TestSampleCount(t *testing.T) {
	testCases := []struct {
		name     string
		rate     int
		duration float64
		expected int
	}{
		{name: "one second", rate: 48000, duration: 1.0, expected: 48000},
		{name: "default character", rate: 48000, duration: 0.1, expected: 4800},
		{name: "rounds to nearest", rate: 44100, duration: 0.0001, expected: 4},
		{name: "zero duration", rate: 48000, duration: 0, expected: 0},
		{name: "negative clamps to zero", rate: 48000, duration: -0.5, expected: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := sampleCount(tc.rate, tc.duration); got != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, got)
			}
		})
	}
}

func TestSquareWaveDuty(t *testing.T) {
	// One full cycle of a 1 Hz square sampled at 1000 Hz: the fraction of
	// high samples equals the duty cycle.
	const n = 1000
	for _, duty := range []float64{0.3, 0.5, 0.7} {
		wave := squareWave(1, duty, n, 1000)
		high := 0
		for _, s := range wave {
			if s == 1 {
				high++
			}
		}
		got := float64(high) / float64(n)
		if math.Abs(got-duty) > 0.001 {
			t.Errorf("Duty %.1f: expected high fraction %.1f, got %f", duty, duty, got)
		}
	}
}

func TestSquareWaveLevels(t *testing.T) {
	wave := squareWave(440, 0.5, 256, 48000)
	for i, s := range wave {
		if s != 1 && s != -1 {
			t.Fatalf("Sample %d: expected +1 or -1, got %f", i, s)
		}
	}
}

func TestSineWave(t *testing.T) {
	// 1 Hz sampled at 4 Hz walks the quarter points: 0, 1, 0, -1, 0.
	wave := sineWave(linearPhase(1, 5, 4))
	expected := []float64{0, 1, 0, -1, 0}
	for i, want := range expected {
		if math.Abs(wave[i]-want) > 0.0001 {
			t.Errorf("Sample %d: expected %f, got %f", i, want, wave[i])
		}
	}
}

func TestIntegratePhaseMatchesLinear(t *testing.T) {
	// For a constant frequency the integrated ramp tracks the closed-form
	// ramp exactly one step ahead.
	const (
		freq = 440.0
		rate = 48000
		n    = 128
	)
	freqs := make([]float64, n)
	for i := range freqs {
		freqs[i] = freq
	}
	linear := linearPhase(freq, n, rate)
	integrated := integratePhase(freqs, rate)
	step := twoPi * freq / float64(rate)
	for i := range linear {
		if math.Abs(integrated[i]-linear[i]-step) > 0.0001 {
			t.Errorf("Sample %d: expected offset %f, got %f", i, step, integrated[i]-linear[i])
		}
	}
}

func TestFadeWindow(t *testing.T) {
	t.Run("ramps both ends to zero", func(t *testing.T) {
		samples := ones(100)
		fadeWindow(samples, 10)
		if samples[0] != 0 || samples[99] != 0 {
			t.Errorf("Expected zeroed endpoints, got %f and %f", samples[0], samples[99])
		}
		if samples[9] != 1 || samples[90] != 1 {
			t.Errorf("Expected full gain at the ramp ends, got %f and %f", samples[9], samples[90])
		}
		if samples[50] != 1 {
			t.Errorf("Expected the middle untouched, got %f", samples[50])
		}
	})

	t.Run("window clamps to half the segment", func(t *testing.T) {
		samples := ones(4)
		fadeWindow(samples, 100)
		expected := []float64{0, 1, 1, 0}
		for i, want := range expected {
			if samples[i] != want {
				t.Errorf("Sample %d: expected %f, got %f", i, want, samples[i])
			}
		}
	})

	t.Run("single sample window zeroes the endpoints", func(t *testing.T) {
		samples := ones(5)
		fadeWindow(samples, 1)
		expected := []float64{0, 1, 1, 1, 0}
		for i, want := range expected {
			if samples[i] != want {
				t.Errorf("Sample %d: expected %f, got %f", i, want, samples[i])
			}
		}
	})

	t.Run("zero window is a no-op", func(t *testing.T) {
		samples := ones(3)
		fadeWindow(samples, 0)
		for i, s := range samples {
			if s != 1 {
				t.Errorf("Sample %d: expected 1, got %f", i, s)
			}
		}
	})

	t.Run("empty segment does not panic", func(t *testing.T) {
		fadeWindow(nil, 4)
	})
}

func TestProgress(t *testing.T) {
	if got := progress(0, 10); got != 0 {
		t.Errorf("Expected 0 at the start, got %f", got)
	}
	if got := progress(9, 10); got != 1 {
		t.Errorf("Expected 1 at the end, got %f", got)
	}
	if got := progress(0, 1); got != 0 {
		t.Errorf("Expected 0 for a single-sample segment, got %f", got)
	}
	if got := progress(0, 0); got != 0 {
		t.Errorf("Expected 0 for an empty segment, got %f", got)
	}
}
