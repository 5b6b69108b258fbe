package synth

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/jeff-barlow-spady/droidspeak/pkg/logger"
)

// Engine synthesizes droid vocalizations from text. It holds an immutable
// configuration and a random source used only for Random-effect resolution
// and scream noise. Encode allocates a fresh buffer per call and touches no
// other engine state, so one engine may serve concurrent callers.
type Engine struct {
	cfg Config

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds an engine from cfg, clamping out-of-range knobs. The random
// source is seeded from the clock.
func New(cfg Config) *Engine {
	return NewSeeded(cfg, time.Now().UnixNano())
}

// NewSeeded builds an engine whose random choices replay identically for a
// given seed.
func NewSeeded(cfg Config, seed int64) *Engine {
	return &Engine{
		cfg: cfg.normalize(),
		rng: rand.New(rand.NewSource(seed)),
	}
}

// Config returns the effective configuration after clamping.
func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) intn(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Intn(n)
}

func (e *Engine) normSlice(n int) []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]float64, n)
	for i := range out {
		out[i] = e.rng.NormFloat64()
	}
	return out
}

// EncodeOptions adjusts a single Encode call without touching the engine
// configuration.
type EncodeOptions struct {
	// Duration is the base per-character segment length in seconds. Zero or
	// negative selects DefaultCharDuration.
	Duration float64

	// Mapping overrides the class-to-effect table. Nil selects
	// DefaultMapping.
	Mapping EffectMapping

	// AddPersonality wraps sufficiently long messages in an intro trill and
	// an outro celebration.
	AddPersonality bool

	// EffectOverride forces a single effect for every character, replacing
	// the mapping outright rather than filling gaps in it. Punctuation
	// overrides still apply on top.
	EffectOverride *EffectKind
}

// Encode turns a message into a normalized mono buffer at the configured
// sample rate. Each character becomes a pitched, effect-modulated segment;
// segments are separated by short pauses, optionally framed by personality
// phrases, then the whole buffer is normalized to peak 1 and scaled by the
// configured volume. Encode never fails: empty input yields an empty buffer
// and unknown effects degrade to Normal.
func (e *Engine) Encode(message string, opts EncodeOptions) []float32 {
	baseDur := opts.Duration
	if baseDur <= 0 {
		baseDur = DefaultCharDuration
	}
	mapping := opts.Mapping
	if opts.EffectOverride != nil {
		mapping = uniformMapping(*opts.EffectOverride)
	} else if mapping == nil {
		mapping = DefaultMapping()
	}

	runes := []rune(message)
	rate := e.cfg.SampleRate
	logger.Debug(logger.CategorySynth, "Encoding %d characters at %d Hz", len(runes), rate)

	var buf []float64

	if opts.AddPersonality && len(runes) > 3 {
		intro := e.segment(EffectTrill, e.cfg.CarrierFrequencies[0]*1.2, sampleCount(rate, 2.5*baseDur))
		buf = append(buf, intro...)
		buf = append(buf, make([]float64, sampleCount(rate, 0.3*baseDur))...)
	}

	for i, r := range runes {
		c := int(r)
		baseFreq := e.cfg.CarrierFrequencies[c%NumCarriers] + float64(c%10)*20
		last := i == len(runes)-1
		effect := resolveEffect(r, Classify(r), mapping, e.cfg.DefaultEffect, last)

		// Blatt is clipped short and trill stretched before Random
		// resolution, so segment lengths never depend on the random draw.
		dur := baseDur
		switch effect {
		case EffectBlatt:
			dur *= 0.7
		case EffectTrill:
			dur *= 1.3
		}

		buf = append(buf, e.segment(effect, baseFreq, sampleCount(rate, dur))...)
		if !last {
			buf = append(buf, make([]float64, sampleCount(rate, 0.2*baseDur))...)
		}
	}

	if opts.AddPersonality && len(runes) > 5 {
		buf = append(buf, make([]float64, sampleCount(rate, 0.4*baseDur))...)
		outro := e.segment(EffectHappy, e.cfg.CarrierFrequencies[2]*1.1, sampleCount(rate, 2.0*baseDur))
		buf = append(buf, outro...)
	}

	return e.finalize(buf)
}

// finalize normalizes the assembled buffer to a peak of 1, scales it to the
// configured volume, and narrows to 32-bit samples. A silent buffer skips
// normalization and stays silent.
func (e *Engine) finalize(buf []float64) []float32 {
	var peak float64
	for _, s := range buf {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	scale := e.cfg.Volume
	if peak > 0 {
		scale /= peak
	}
	out := make([]float32, len(buf))
	for i, s := range buf {
		out[i] = float32(s * scale)
	}
	return out
}
