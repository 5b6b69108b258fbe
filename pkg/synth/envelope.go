package synth

import "math"

// lfoEnvelope is the tremolo applied to every voiced segment. Exaggeration
// sets how deep the dips go: at zero the gain stays within [0.8, 1.0], at
// full it swings all the way down to silence.
func lfoEnvelope(rate, exaggeration float64, n int, sampleRate int) []float64 {
	depth := 0.2 + 0.6*exaggeration
	offset := 1 - depth
	env := make([]float64, n)
	for i := range env {
		t := float64(i) / float64(sampleRate)
		env[i] = offset + depth*(0.5+0.5*math.Sin(twoPi*rate*t))
	}
	return env
}

// freqModCurve returns an instantaneous frequency curve oscillating
// sinusoidally around center, for vibrato-style effects.
func freqModCurve(center, depth, rate float64, n int, sampleRate int) []float64 {
	freqs := make([]float64, n)
	for i := range freqs {
		t := float64(i) / float64(sampleRate)
		freqs[i] = center + depth*math.Sin(twoPi*rate*t)
	}
	return freqs
}

// subEnvelope is a secondary amplitude chop layered on top of the main LFO
// by the blatt and trill warbles. A square oscillator gives the hard
// sputtering gate, a sine gives the smooth flutter. Depth scales with
// exaggeration and never drives the gain to zero.
func subEnvelope(rate, exaggeration float64, n int, sampleRate int, square bool) []float64 {
	d := 0.5 * exaggeration
	env := make([]float64, n)
	for i := range env {
		t := float64(i) / float64(sampleRate)
		var osc float64
		if square {
			cycle := rate * t
			if cycle-math.Floor(cycle) < 0.5 {
				osc = 1
			} else {
				osc = -1
			}
		} else {
			osc = math.Sin(twoPi * rate * t)
		}
		env[i] = (1 - d) + d*(0.5+0.5*osc)
	}
	return env
}

// applyEnvelope multiplies samples by a gain curve in place. The envelope
// must be at least as long as the sample slice.
func applyEnvelope(samples, env []float64) {
	for i := range samples {
		samples[i] *= env[i]
	}
}
