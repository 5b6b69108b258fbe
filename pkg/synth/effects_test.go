package synth

import (
	"math"
	"testing"
)

func TestSegmentLength(t *testing.T) {
	// Every effect must land on exactly the requested sample count, including
	// the degenerate lengths.
	engine := NewSeeded(DefaultConfig(), 42)
	for kind := EffectNormal; kind <= EffectRandom; kind++ {
		t.Run(kind.String(), func(t *testing.T) {
			for _, n := range []int{0, 1, 100, 4800} {
				seg := engine.segment(kind, 800, n)
				if len(seg) != n {
					t.Errorf("n=%d: expected %d samples, got %d", n, n, len(seg))
				}
			}
		})
	}
}

func TestSegmentAmplitude(t *testing.T) {
	// The raw waves live in [-1, 1] and the warble only attenuates. Blatt and
	// scream may overshoot before normalization: blatt's attack boost scales
	// up to 1.5 and scream mixes additive noise.
	engine := NewSeeded(DefaultConfig(), 7)
	for kind := EffectNormal; kind < EffectRandom; kind++ {
		if kind == EffectBlatt || kind == EffectScream {
			continue
		}
		seg := engine.segment(kind, 800, 4800)
		for i, s := range seg {
			if math.Abs(s) > 1.0001 {
				t.Errorf("%v sample %d: amplitude %f outside [-1, 1]", kind, i, s)
				break
			}
		}
	}
}

func TestSegmentDeterminism(t *testing.T) {
	// The random draws happen in a fixed order, so equal seeds replay equal
	// waveforms even for the effects that consume randomness.
	a := NewSeeded(DefaultConfig(), 99)
	b := NewSeeded(DefaultConfig(), 99)
	for _, kind := range []EffectKind{EffectScream, EffectRandom} {
		segA := a.segment(kind, 800, 2400)
		segB := b.segment(kind, 800, 2400)
		for i := range segA {
			if segA[i] != segB[i] {
				t.Fatalf("%v: seeded engines diverged at sample %d", kind, i)
			}
		}
	}
}

func TestScreamDeterministicWithoutExaggeration(t *testing.T) {
	// Both noise contributions scale with exaggeration, so screams from
	// differently seeded engines coincide at zero.
	cfg := DefaultConfig()
	cfg.Exaggeration = 0
	a := NewSeeded(cfg, 1)
	b := NewSeeded(cfg, 2)
	segA := a.segment(EffectScream, 800, 2400)
	segB := b.segment(EffectScream, 800, 2400)
	for i := range segA {
		if segA[i] != segB[i] {
			t.Fatalf("Screams diverged at sample %d: %f vs %f", i, segA[i], segB[i])
		}
	}
}

func TestUnknownEffectFallsBackToNormal(t *testing.T) {
	engine := NewSeeded(DefaultConfig(), 5)
	bogus := engine.segment(EffectKind(42), 800, 2400)
	normal := engine.segment(EffectNormal, 800, 2400)
	for i := range bogus {
		if bogus[i] != normal[i] {
			t.Fatalf("Expected the unknown kind to synthesize as normal, diverged at sample %d", i)
		}
	}
}

func TestHappyLeavesTailSilent(t *testing.T) {
	// Three beeps at zero exaggeration; whatever the integer division leaves
	// over stays zero padding.
	cfg := DefaultConfig()
	cfg.Exaggeration = 0
	engine := NewSeeded(cfg, 3)
	const n = 1000
	seg := engine.rawHappy(800, n)
	if len(seg) != n {
		t.Fatalf("Expected %d samples, got %d", n, len(seg))
	}
	beepLen := n / 3
	for i := beepLen * 3; i < n; i++ {
		if seg[i] != 0 {
			t.Errorf("Sample %d: expected silent tail, got %f", i, seg[i])
		}
	}
	var energy float64
	for _, s := range seg[:beepLen] {
		energy += math.Abs(s)
	}
	if energy == 0 {
		t.Error("Expected the first beep to carry signal")
	}
}

func TestWhistleIsSmooth(t *testing.T) {
	// The whistle is the one pure tone: consecutive samples of a sine at
	// these frequencies never jump the way a square wave does.
	engine := NewSeeded(DefaultConfig(), 11)
	seg := engine.rawWhistle(800, 4800)
	for i := 1; i < len(seg); i++ {
		if math.Abs(seg[i]-seg[i-1]) > 0.5 {
			t.Fatalf("Sample %d: step of %f looks like a square edge", i, math.Abs(seg[i]-seg[i-1]))
		}
	}
}
