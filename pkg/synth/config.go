// Package synth implements the droid vocalization synthesis engine: oscillator
// primitives, the effect algorithms, the character-to-effect mapping policy, and
// the message compiler that turns text into a single normalized audio buffer.
package synth

// Protocol selects a carrier frequency profile.
type Protocol string

const (
	// ProtocolAudible uses the droid frequency range (300 Hz - 3 kHz)
	ProtocolAudible Protocol = "audible"
	// ProtocolUltrasound moves the carriers above the hearing range
	ProtocolUltrasound Protocol = "ultrasound"
)

// Default parameters
const (
	DefaultSampleRate   = 48000
	DefaultVolume       = 0.5 // 0.0 - 1.0
	DefaultDutyCycle    = 0.5 // 0.3 - 0.7 for variable square waves
	DefaultLFORate      = 12  // 5 - 20 Hz for the warbling effect
	DefaultExaggeration = 0.5 // 0.0 - 1.0
	// DefaultCharDuration is the base seconds of sound per character
	DefaultCharDuration = 0.1
)

// NumCarriers is the size of every carrier profile.
const NumCarriers = 5

var (
	// R2-D2 frequency range: 300 Hz - 3 kHz
	audibleCarriers = [NumCarriers]float64{300, 800, 1500, 2200, 3000}
	// Higher frequencies that keep the droid-like character inaudible
	ultrasoundCarriers = [NumCarriers]float64{17500, 18000, 18500, 19000, 19500}
)

// CarriersFor returns the carrier profile for a protocol. Unknown protocol
// names fall back to the audible profile.
func CarriersFor(p Protocol) [NumCarriers]float64 {
	if p == ProtocolUltrasound {
		return ultrasoundCarriers
	}
	return audibleCarriers
}

// Config holds the synthesis parameters. A Config is read once when an Engine
// is constructed; out-of-range values are clamped silently at that point and
// the engine's copy never changes afterwards.
type Config struct {
	// Sample rate in Hz
	SampleRate int
	// Output volume (0.0 - 1.0)
	Volume float64
	// Duty cycle for square waves (0.3 - 0.7)
	DutyCycle float64
	// Low-frequency oscillator rate in Hz for the warbling effect
	LFORate float64
	// Level of droid sound exaggeration (0.0 - 1.0)
	Exaggeration float64
	// Base pitches characters are mapped onto; all five must be positive
	CarrierFrequencies [NumCarriers]float64
	// Effect used when a character class has no mapping entry
	DefaultEffect EffectKind
}

// DefaultConfig returns the default synthesis configuration with the audible
// carrier profile.
func DefaultConfig() Config {
	return Config{
		SampleRate:         DefaultSampleRate,
		Volume:             DefaultVolume,
		DutyCycle:          DefaultDutyCycle,
		LFORate:            DefaultLFORate,
		Exaggeration:       DefaultExaggeration,
		CarrierFrequencies: audibleCarriers,
		DefaultEffect:      EffectNormal,
	}
}

// normalize clamps the tunable parameters into their valid intervals and
// substitutes defaults for unusable values. Never rejects.
func (c Config) normalize() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	c.Volume = clamp(c.Volume, 0.0, 1.0)
	c.DutyCycle = clamp(c.DutyCycle, 0.3, 0.7)
	c.Exaggeration = clamp(c.Exaggeration, 0.0, 1.0)
	if c.LFORate <= 0 {
		c.LFORate = DefaultLFORate
	}
	for _, f := range c.CarrierFrequencies {
		if f <= 0 {
			c.CarrierFrequencies = audibleCarriers
			break
		}
	}
	return c
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
