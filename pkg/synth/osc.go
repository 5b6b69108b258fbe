package synth

import "math"

const twoPi = 2 * math.Pi

// clickFadeDuration is how long the anti-click ramp lasts at each end of a
// tone segment, in seconds.
const clickFadeDuration = 0.01

// sampleCount converts a duration in seconds to a whole number of samples.
func sampleCount(sampleRate int, duration float64) int {
	n := int(math.Round(float64(sampleRate) * duration))
	if n < 0 {
		return 0
	}
	return n
}

// linearPhase returns the phase ramp of a constant-frequency tone, with
// phase zero at the first sample.
func linearPhase(freq float64, n int, sampleRate int) []float64 {
	phase := make([]float64, n)
	step := twoPi * freq / float64(sampleRate)
	for i := range phase {
		phase[i] = step * float64(i)
	}
	return phase
}

// integratePhase accumulates an instantaneous frequency curve into a phase
// ramp. Sweeping a tone by evaluating sin(2*pi*f(t)*t) directly makes the
// pitch overshoot, since the earlier cycles get retroactively rescaled every
// time f changes; integrating keeps the waveform continuous through the
// sweep.
func integratePhase(freqs []float64, sampleRate int) []float64 {
	phase := make([]float64, len(freqs))
	step := twoPi / float64(sampleRate)
	var acc float64
	for i, f := range freqs {
		acc += f
		phase[i] = step * acc
	}
	return phase
}

// sineWave evaluates a sine at each phase value.
func sineWave(phase []float64) []float64 {
	out := make([]float64, len(phase))
	for i, p := range phase {
		out[i] = math.Sin(p)
	}
	return out
}

// squareFromPhase produces a square wave from a phase ramp: +1 while the
// position within the cycle is below the duty cycle, -1 after.
func squareFromPhase(phase []float64, duty float64) []float64 {
	out := make([]float64, len(phase))
	for i, p := range phase {
		cycle := p / twoPi
		if cycle-math.Floor(cycle) < duty {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

// squareFromPhaseVar is squareFromPhase with a per-sample duty cycle, used by
// effects that wobble the duty over the course of a segment. The duty slice
// must be at least as long as the phase slice.
func squareFromPhaseVar(phase, duty []float64) []float64 {
	out := make([]float64, len(phase))
	for i, p := range phase {
		cycle := p / twoPi
		if cycle-math.Floor(cycle) < duty[i] {
			out[i] = 1
		} else {
			out[i] = -1
		}
	}
	return out
}

// squareWave generates a constant-frequency square wave segment.
func squareWave(freq, duty float64, n int, sampleRate int) []float64 {
	return squareFromPhase(linearPhase(freq, n, sampleRate), duty)
}

// applyFade ramps the segment edges to zero so the speaker cone is not
// slammed at segment boundaries.
func applyFade(samples []float64, sampleRate int) {
	fadeWindow(samples, sampleCount(sampleRate, clickFadeDuration))
}

// fadeWindow applies a linear ramp from 0 to 1 over the first w samples and
// back down over the last w. The window is clamped to half the segment so
// the two ramps cannot overlap on very short segments.
func fadeWindow(samples []float64, w int) {
	if half := len(samples) / 2; w > half {
		w = half
	}
	if w <= 0 {
		return
	}
	if w == 1 {
		samples[0] = 0
		samples[len(samples)-1] = 0
		return
	}
	for i := 0; i < w; i++ {
		g := float64(i) / float64(w-1)
		samples[i] *= g
		samples[len(samples)-1-i] *= g
	}
}

// progress maps a sample index to [0, 1] across an n-sample segment.
func progress(i, n int) float64 {
	if n <= 1 {
		return 0
	}
	return float64(i) / float64(n-1)
}
