package app

import (
	"reflect"
	"testing"

	"github.com/jeff-barlow-spady/droidspeak/config"
)

func TestDefaultMessengerOptions(t *testing.T) {
	opts := DefaultMessengerOptions()

	if opts.SampleRate != 48000 {
		t.Errorf("Expected default SampleRate to be 48000, got %d", opts.SampleRate)
	}
	if opts.Volume != 0.5 {
		t.Errorf("Expected default Volume to be 0.5, got %f", opts.Volume)
	}
	if opts.Protocol != "audible" {
		t.Errorf("Expected default Protocol to be 'audible', got '%s'", opts.Protocol)
	}
	if opts.Effect != "" {
		t.Errorf("Expected no default effect override, got '%s'", opts.Effect)
	}
	if !opts.AddPersonality {
		t.Error("Expected default AddPersonality to be true")
	}
	if opts.Seed != 0 {
		t.Errorf("Expected default Seed to be 0, got %d", opts.Seed)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	t.Run("nil config falls back to defaults", func(t *testing.T) {
		opts := OptionsFromConfig(nil)
		if !reflect.DeepEqual(opts, DefaultMessengerOptions()) {
			t.Errorf("Expected defaults for a nil config, got %+v", opts)
		}
	})

	t.Run("loaded values carry over", func(t *testing.T) {
		cfg := &config.Config{
			SampleRate:     44100,
			Volume:         0.8,
			DutyCycle:      0.6,
			LFORate:        9,
			Exaggeration:   0.9,
			Effect:         "trill",
			Protocol:       "ultrasound",
			AddPersonality: false,
		}
		opts := OptionsFromConfig(cfg)
		if opts.SampleRate != 44100 {
			t.Errorf("Expected SampleRate 44100, got %d", opts.SampleRate)
		}
		if opts.Volume != 0.8 {
			t.Errorf("Expected Volume 0.8, got %f", opts.Volume)
		}
		if opts.Effect != "trill" {
			t.Errorf("Expected Effect 'trill', got '%s'", opts.Effect)
		}
		if opts.Protocol != "ultrasound" {
			t.Errorf("Expected Protocol 'ultrasound', got '%s'", opts.Protocol)
		}
		if opts.AddPersonality {
			t.Error("Expected AddPersonality false to carry over")
		}
	})
}

func TestMessengerSampleRate(t *testing.T) {
	opts := DefaultMessengerOptions()
	opts.SampleRate = 44100
	m := NewMessenger(opts)
	if m.SampleRate() != 44100 {
		t.Errorf("Expected sample rate 44100, got %d", m.SampleRate())
	}

	// An unusable rate is replaced at engine construction.
	opts.SampleRate = 0
	m = NewMessenger(opts)
	if m.SampleRate() != 48000 {
		t.Errorf("Expected the default 48000 for a zero rate, got %d", m.SampleRate())
	}
}

func TestMessengerProtocolSelection(t *testing.T) {
	opts := DefaultMessengerOptions()
	opts.Protocol = "ultrasound"
	m := NewMessenger(opts)
	if carriers := m.engine.Config().CarrierFrequencies; carriers[0] < 17000 {
		t.Errorf("Expected ultrasound carriers, got %v", carriers)
	}

	// Unknown protocols warn and keep the audible profile.
	opts.Protocol = "subspace"
	m = NewMessenger(opts)
	if carriers := m.engine.Config().CarrierFrequencies; carriers[0] != 300 {
		t.Errorf("Expected audible carriers for an unknown protocol, got %v", carriers)
	}
}

func TestMessengerEncodeDeterministic(t *testing.T) {
	opts := DefaultMessengerOptions()
	opts.Seed = 7
	opts.Effect = "random"
	a := NewMessenger(opts)
	b := NewMessenger(opts)

	bufA := a.Encode("Beep boop")
	bufB := b.Encode("Beep boop")
	if len(bufA) != len(bufB) {
		t.Fatalf("Expected equal lengths, got %d and %d", len(bufA), len(bufB))
	}
	for i := range bufA {
		if bufA[i] != bufB[i] {
			t.Fatalf("Buffers diverged at sample %d", i)
		}
	}
}

func TestMessengerPersonalityFraming(t *testing.T) {
	framedOpts := DefaultMessengerOptions()
	framedOpts.Seed = 1
	plainOpts := framedOpts
	plainOpts.AddPersonality = false

	framed := NewMessenger(framedOpts).Encode("Beep boop")
	plain := NewMessenger(plainOpts).Encode("Beep boop")

	// Intro is 0.28 s and outro 0.24 s at the default 0.1 s character
	// duration: 13440 plus 11520 samples at 48 kHz.
	if got, want := len(framed), len(plain)+13440+11520; got != want {
		t.Errorf("Expected %d samples with framing, got %d", want, got)
	}
}

func TestMessengerEffectOverride(t *testing.T) {
	opts := DefaultMessengerOptions()
	opts.AddPersonality = false
	opts.Seed = 1
	opts.Effect = "blatt"
	m := NewMessenger(opts)

	// Forced blatt clips both characters to 0.07 s: 3360 samples each around
	// a 960 sample pause.
	if got := len(m.Encode("AB")); got != 3360+960+3360 {
		t.Errorf("Expected 7680 samples, got %d", got)
	}
}

func TestMessengerUnknownEffectDegradesToNormal(t *testing.T) {
	opts := DefaultMessengerOptions()
	opts.AddPersonality = false
	opts.Seed = 1
	opts.Effect = "kazoo"
	m := NewMessenger(opts)

	// The override is still applied, as normal: the uppercase characters
	// lose their trill stretch, so each segment is exactly 0.1 s.
	if got := len(m.Encode("AB")); got != 4800+960+4800 {
		t.Errorf("Expected 10560 samples, got %d", got)
	}
}

func TestMessengerDetectionCallback(t *testing.T) {
	m := NewMessenger(DefaultMessengerOptions())

	var received string
	m.SetOnDetect(func(msg string) { received = msg })
	m.handleDetection("[Droid sounds detected]")
	if received != "[Droid sounds detected]" {
		t.Errorf("Expected the detection text to reach the callback, got '%s'", received)
	}

	// A nil callback only logs; it must not panic.
	m.SetOnDetect(nil)
	m.handleDetection("[Droid sounds detected]")
}

func TestMessengerCloseIdle(t *testing.T) {
	// Closing a messenger that never listened is a no-op, twice over.
	m := NewMessenger(DefaultMessengerOptions())
	m.Close()
	m.Close()
}
