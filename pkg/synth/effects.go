package synth

import (
	"math"

	"github.com/jeff-barlow-spady/droidspeak/pkg/logger"
)

// segment synthesizes one voiced segment of exactly n samples: a Random or
// out-of-range kind is pinned to a concrete effect first, then the raw wave
// is generated, edge-faded, and warbled. The same resolved kind drives both
// the raw stage and the warble stage so a segment never mixes two effects.
func (e *Engine) segment(kind EffectKind, freq float64, n int) []float64 {
	kind = e.concrete(kind)
	wave := e.rawWave(kind, freq, n)
	applyFade(wave, e.cfg.SampleRate)
	e.applyWarble(kind, wave)
	return wave
}

// concrete resolves the Random meta-effect to one of the eight real effects,
// chosen uniformly. Kinds outside the known set degrade to Normal with a
// warning rather than failing the whole message.
func (e *Engine) concrete(kind EffectKind) EffectKind {
	if kind == EffectRandom {
		return EffectKind(e.intn(numConcreteEffects))
	}
	if kind < EffectNormal || kind > EffectRandom {
		logger.Warning(logger.CategorySynth, "Unknown effect %d, falling back to normal", int(kind))
		return EffectNormal
	}
	return kind
}

func (e *Engine) rawWave(kind EffectKind, freq float64, n int) []float64 {
	switch kind {
	case EffectBlatt:
		return e.rawBlatt(freq, n)
	case EffectTrill:
		return e.rawTrill(freq, n)
	case EffectWhistle:
		return e.rawWhistle(freq, n)
	case EffectScream:
		return e.rawScream(freq, n)
	case EffectHappy:
		return e.rawHappy(freq, n)
	case EffectSad:
		return e.rawSad(freq, n)
	case EffectQuestion:
		return e.rawQuestion(freq, n)
	default:
		return e.rawNormal(freq, n)
	}
}

// rawNormal is the baseline droid chirp: a square wave whose duty cycle
// drifts slowly around the configured value.
func (e *Engine) rawNormal(freq float64, n int) []float64 {
	duty := make([]float64, n)
	for i := range duty {
		t := float64(i) / float64(e.cfg.SampleRate)
		duty[i] = e.cfg.DutyCycle + 0.1*math.Sin(twoPi*0.5*t)
	}
	return squareFromPhaseVar(linearPhase(freq, n, e.cfg.SampleRate), duty)
}

// rawBlatt is the flatulent sputter. The duty cycle pumps hard at the
// sputter rate and the pitch jitters around the carrier. The jittered
// frequency is folded straight into the phase instead of being integrated;
// the resulting phase discontinuities are the rasp.
func (e *Engine) rawBlatt(freq float64, n int) []float64 {
	rate := e.cfg.SampleRate
	sputter := 20 + 40*e.cfg.Exaggeration
	jitter := 100 * e.cfg.Exaggeration
	phase := make([]float64, n)
	duty := make([]float64, n)
	for i := range phase {
		t := float64(i) / float64(rate)
		phase[i] = twoPi * (freq + jitter*math.Sin(twoPi*15*t)) * t
		duty[i] = clamp(e.cfg.DutyCycle+0.3*math.Sin(twoPi*sputter*t), 0.1, 0.9)
	}
	wave := squareFromPhaseVar(phase, duty)
	boost := sampleCount(rate, 0.01)
	if boost > n {
		boost = n
	}
	if boost > 1 {
		for i := 0; i < boost; i++ {
			wave[i] *= 0.5 + float64(i)/float64(boost-1)
		}
	}
	return wave
}

// rawTrill sweeps the carrier up and down fast enough to read as a rolled
// "brrr". The sweep goes through phase integration so the square wave stays
// continuous across the sweep.
func (e *Engine) rawTrill(freq float64, n int) []float64 {
	fmRate := 12 + 25*e.cfg.Exaggeration
	fmDepth := 200 + 500*e.cfg.Exaggeration
	freqs := freqModCurve(freq, fmDepth, fmRate, n, e.cfg.SampleRate)
	return squareFromPhase(integratePhase(freqs, e.cfg.SampleRate), e.cfg.DutyCycle)
}

// rawWhistle is the one pure tone in the set: a sine pitched well above the
// carrier with a slow vibrato.
func (e *Engine) rawWhistle(freq float64, n int) []float64 {
	center := (2 + e.cfg.Exaggeration) * freq
	vibRate := 8 + 7*e.cfg.Exaggeration
	vibDepth := 30 + 70*e.cfg.Exaggeration
	freqs := freqModCurve(center, vibDepth, vibRate, n, e.cfg.SampleRate)
	return sineWave(integratePhase(freqs, e.cfg.SampleRate))
}

// rawScream rises quadratically to five times the carrier while the duty
// cycle and the signal itself are roughed up with Gaussian noise. Both noise
// contributions scale with exaggeration, so a zero-exaggeration scream is
// fully deterministic.
func (e *Engine) rawScream(freq float64, n int) []float64 {
	rate := e.cfg.SampleRate
	exag := e.cfg.Exaggeration
	dutyNoise := e.normSlice(n)
	freqs := make([]float64, n)
	duty := make([]float64, n)
	for i := range freqs {
		u := progress(i, n)
		freqs[i] = freq * (1 + 4*u*u)
		duty[i] = clamp(e.cfg.DutyCycle+0.1*exag*dutyNoise[i], 0.1, 0.9)
	}
	wave := squareFromPhaseVar(integratePhase(freqs, rate), duty)
	mixNoise := e.normSlice(n)
	for i := range wave {
		wave[i] = 0.7*wave[i] + 0.3*exag*mixNoise[i]
	}
	return wave
}

// rawHappy plays a rising scale of short beeps. Each beep gets its own edge
// fade so the steps stay distinct, and the tail is zero-padded so the
// segment still lands on exactly n samples.
func (e *Engine) rawHappy(freq float64, n int) []float64 {
	out := make([]float64, n)
	beeps := 3 + int(math.Round(4*e.cfg.Exaggeration))
	if beeps <= 0 || n == 0 {
		return out
	}
	beepLen := n / beeps
	if beepLen == 0 {
		return out
	}
	pos := 0
	for i := 0; i < beeps && pos+beepLen <= n; i++ {
		beep := squareWave(freq*(1+0.15*float64(i)), e.cfg.DutyCycle, beepLen, e.cfg.SampleRate)
		fadeWindow(beep, int(math.Round(0.15*float64(beepLen))))
		copy(out[pos:], beep)
		pos += beepLen
	}
	return out
}

// rawSad lets the pitch sag over the segment and layers a slow 3 Hz droop
// onto the amplitude, independent of the configured LFO rate.
func (e *Engine) rawSad(freq float64, n int) []float64 {
	drop := 0.5 * e.cfg.Exaggeration
	freqs := make([]float64, n)
	for i := range freqs {
		freqs[i] = freq * (1 - drop*progress(i, n))
	}
	wave := squareFromPhase(integratePhase(freqs, e.cfg.SampleRate), e.cfg.DutyCycle)
	applyEnvelope(wave, lfoEnvelope(3, e.cfg.Exaggeration, n, e.cfg.SampleRate))
	return wave
}

// rawQuestion holds the carrier steady for the first 70% of the segment and
// then bends it upward, quadratically with a touch of 15 Hz wobble, like a
// rising inflection at the end of a sentence.
func (e *Engine) rawQuestion(freq float64, n int) []float64 {
	rate := e.cfg.SampleRate
	split := int(math.Round(0.7 * float64(n)))
	rise := 0.5 + 1.5*e.cfg.Exaggeration
	jitter := 30 * e.cfg.Exaggeration
	freqs := make([]float64, n)
	for i := range freqs {
		if i < split {
			freqs[i] = freq
			continue
		}
		v := progress(i-split, n-split)
		t := float64(i) / float64(rate)
		freqs[i] = freq*(1+rise*v*v) + jitter*math.Sin(twoPi*15*t)
	}
	return squareFromPhase(integratePhase(freqs, rate), e.cfg.DutyCycle)
}

// applyWarble layers the amplitude modulation for the resolved effect onto a
// finished raw wave. Every effect carries the main LFO; blatt and trill chop
// it further with a sub-envelope, and scream multiplies in three detuned
// flutters that deepen with exaggeration.
func (e *Engine) applyWarble(kind EffectKind, wave []float64) {
	n := len(wave)
	rate := e.cfg.SampleRate
	exag := e.cfg.Exaggeration
	env := lfoEnvelope(e.cfg.LFORate, exag, n, rate)
	switch kind {
	case EffectBlatt:
		applyEnvelope(env, subEnvelope(30, exag, n, rate, true))
	case EffectTrill:
		applyEnvelope(env, subEnvelope(20, exag, n, rate, false))
	case EffectScream:
		for i := range env {
			t := float64(i) / float64(rate)
			for _, f := range [3]float64{13, 27, 41} {
				env[i] *= 1 - exag*(0.5-0.5*math.Sin(twoPi*f*t))
			}
		}
	}
	applyEnvelope(wave, env)
}
