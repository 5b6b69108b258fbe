// Package app contains the messenger tying the synthesis engine to the
// audio collaborators and the configuration file.
package app

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jeff-barlow-spady/droidspeak/config"
	"github.com/jeff-barlow-spady/droidspeak/pkg/audio"
	"github.com/jeff-barlow-spady/droidspeak/pkg/logger"
	"github.com/jeff-barlow-spady/droidspeak/pkg/synth"
)

// MessengerOptions contains options for creating a messenger
type MessengerOptions struct {
	SampleRate   int
	Volume       float64
	DutyCycle    float64
	LFORate      float64
	Exaggeration float64

	// Protocol selects the carrier profile, "audible" or "ultrasound".
	Protocol string

	// Effect, when non-empty, forces one effect for every character.
	Effect string

	// AddPersonality wraps long messages in intro/outro flourishes.
	AddPersonality bool

	// Seed fixes the random source; zero draws a time-based seed.
	Seed int64

	// OnDetect is called with the detection text when the listener hears
	// droid-band energy. Nil means detections are only logged.
	OnDetect func(string)
}

// DefaultMessengerOptions returns the default options for creating a messenger
func DefaultMessengerOptions() MessengerOptions {
	return MessengerOptions{
		SampleRate:     synth.DefaultSampleRate,
		Volume:         synth.DefaultVolume,
		DutyCycle:      synth.DefaultDutyCycle,
		LFORate:        synth.DefaultLFORate,
		Exaggeration:   synth.DefaultExaggeration,
		Protocol:       string(synth.ProtocolAudible),
		AddPersonality: true,
	}
}

// OptionsFromConfig builds messenger options from a loaded configuration
// file.
func OptionsFromConfig(c *config.Config) MessengerOptions {
	opts := DefaultMessengerOptions()
	if c == nil {
		return opts
	}
	opts.SampleRate = c.SampleRate
	opts.Volume = c.Volume
	opts.DutyCycle = c.DutyCycle
	opts.LFORate = c.LFORate
	opts.Exaggeration = c.Exaggeration
	opts.Protocol = c.Protocol
	opts.Effect = c.Effect
	opts.AddPersonality = c.AddPersonality
	return opts
}

// Messenger sends and receives droid transmissions: it owns one synthesis
// engine, a player, and a listener. Sending synthesizes and plays; receiving
// is energy detection only.
type Messenger struct {
	engine      *synth.Engine
	player      *audio.Player
	listener    *audio.Listener
	override    *synth.EffectKind
	personality bool

	mu       sync.Mutex
	onDetect func(string)
}

// NewMessenger creates a messenger from options. No audio hardware is
// touched until a send or listen actually happens.
func NewMessenger(opts MessengerOptions) *Messenger {
	proto := synth.Protocol(opts.Protocol)
	if opts.Protocol != "" && proto != synth.ProtocolAudible && proto != synth.ProtocolUltrasound {
		logger.Warning(logger.CategoryApp, "Unknown protocol %q, using audible carriers", opts.Protocol)
	}

	cfg := synth.Config{
		SampleRate:         opts.SampleRate,
		Volume:             opts.Volume,
		DutyCycle:          opts.DutyCycle,
		LFORate:            opts.LFORate,
		Exaggeration:       opts.Exaggeration,
		CarrierFrequencies: synth.CarriersFor(proto),
		DefaultEffect:      synth.EffectNormal,
	}

	var engine *synth.Engine
	if opts.Seed != 0 {
		engine = synth.NewSeeded(cfg, opts.Seed)
	} else {
		engine = synth.New(cfg)
	}

	var override *synth.EffectKind
	if opts.Effect != "" {
		kind, err := synth.ParseEffect(opts.Effect)
		if err != nil {
			logger.Warning(logger.CategoryApp, "Unknown effect %q, falling back to normal", opts.Effect)
		}
		override = &kind
	}

	return &Messenger{
		engine:      engine,
		player:      audio.NewPlayer(),
		listener:    audio.NewListener(engine.Config().SampleRate),
		override:    override,
		personality: opts.AddPersonality,
		onDetect:    opts.OnDetect,
	}
}

// SampleRate returns the messenger's effective sample rate.
func (m *Messenger) SampleRate() int {
	return m.engine.Config().SampleRate
}

// Encode synthesizes a message into a buffer without any playback, so the
// caller can route the same buffer to the device, a file, or both.
func (m *Messenger) Encode(message string) []float32 {
	return m.engine.Encode(message, synth.EncodeOptions{
		AddPersonality: m.personality,
		EffectOverride: m.override,
	})
}

// Play writes an already-synthesized buffer to the output device.
func (m *Messenger) Play(buffer []float32) error {
	return m.player.Play(buffer, m.SampleRate())
}

// Send synthesizes a message and plays it.
func (m *Messenger) Send(message string) error {
	logger.Info(logger.CategoryApp, "Sending message: %s", message)
	return m.Play(m.Encode(message))
}

// SendToFile synthesizes a message and writes it to a WAV file without
// playing it.
func (m *Messenger) SendToFile(message, path string) error {
	logger.Info(logger.CategoryApp, "Saving message to %s", path)
	return audio.SaveToWav(m.Encode(message), m.SampleRate(), path)
}

// PlayFile loads a WAV file and plays it at the file's own sample rate.
func (m *Messenger) PlayFile(path string) error {
	samples, sampleRate, err := audio.LoadFromWav(path)
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return m.player.Play(samples, sampleRate)
}

// StartListening begins watching the input device for droid transmissions.
func (m *Messenger) StartListening() error {
	return m.listener.Start(m.handleDetection)
}

// StopListening releases the input device.
func (m *Messenger) StopListening() error {
	return m.listener.Stop()
}

// Listening reports whether the listener is active.
func (m *Messenger) Listening() bool {
	return m.listener.Listening()
}

// InputLevel returns the RMS level of the most recent input buffer.
func (m *Messenger) InputLevel() float32 {
	return m.listener.Level()
}

// Close releases anything the messenger still holds. Safe to call twice.
func (m *Messenger) Close() {
	if err := m.StopListening(); err != nil && !errors.Is(err, audio.ErrNotListening) {
		logger.Error(logger.CategoryApp, "Error stopping listener: %v", err)
	}
}

// SetOnDetect replaces the detection callback. The console uses this to
// route detections into the UI after the messenger is built.
func (m *Messenger) SetOnDetect(fn func(string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onDetect = fn
}

func (m *Messenger) handleDetection(msg string) {
	m.mu.Lock()
	fn := m.onDetect
	m.mu.Unlock()

	if fn != nil {
		fn(msg)
		return
	}
	logger.Info(logger.CategoryApp, "Received: %s", msg)
}
