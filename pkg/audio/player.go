package audio

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/gordonklaus/portaudio"

	"github.com/jeff-barlow-spady/droidspeak/pkg/logger"
)

// ErrEmptyBuffer is returned when playback is asked for zero samples.
var ErrEmptyBuffer = errors.New("audio buffer is empty")

// defaultFramesPerBuffer is the chunk size for device I/O.
const defaultFramesPerBuffer = 1024

// Player writes synthesized buffers to the default output device. The device
// is acquired when Play starts and released before it returns, on every exit
// path, so an idle Player holds no audio resources.
type Player struct {
	framesPerBuffer int
}

// NewPlayer creates a player. It touches no audio hardware; Play does.
func NewPlayer() *Player {
	return &Player{framesPerBuffer: defaultFramesPerBuffer}
}

// Play writes a mono float buffer to the default output device at the given
// sample rate and blocks until the last chunk has been handed to the device.
func (p *Player) Play(samples []float32, sampleRate int) error {
	if len(samples) == 0 {
		return ErrEmptyBuffer
	}

	if err := portaudio.Initialize(); err != nil {
		logPortAudioHint(err)
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer portaudio.Terminate()

	out := make([]float32, p.framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), len(out), &out)
	if err != nil {
		logPortAudioHint(err)
		return fmt.Errorf("failed to open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("failed to start output stream: %w", err)
	}
	defer stream.Stop()

	logger.Debug(logger.CategoryAudio, "Playing %d samples at %d Hz (%.2fs)",
		len(samples), sampleRate, float64(len(samples))/float64(sampleRate))

	for pos := 0; pos < len(samples); pos += len(out) {
		n := copy(out, samples[pos:])
		for i := n; i < len(out); i++ {
			out[i] = 0
		}
		sanitize(out)

		if err := stream.Write(); err != nil {
			// Underflow on a chunk boundary is audible at worst, not fatal.
			if err == portaudio.OutputUnderflowed {
				logger.Debug(logger.CategoryAudio, "Output underflow near sample %d", pos)
				continue
			}
			return fmt.Errorf("failed to write to output stream: %w", err)
		}
	}

	return nil
}

// sanitize replaces NaN and Inf samples with silence before they reach the
// device.
func sanitize(buffer []float32) {
	for i, sample := range buffer {
		if math.IsNaN(float64(sample)) || math.IsInf(float64(sample), 0) {
			buffer[i] = 0
		}
	}
}

// logPortAudioHint logs setup guidance for the common ALSA failure modes.
func logPortAudioHint(err error) {
	if !strings.Contains(err.Error(), "ALSA") {
		return
	}
	logger.Warning(logger.CategoryAudio, "ALSA error detected. This is usually due to a configuration issue.")
	logger.Info(logger.CategoryAudio, "- Check audio hardware with 'aplay -l' and 'arecord -l'")
	logger.Info(logger.CategoryAudio, "- Check for permission issues: 'sudo usermod -a -G audio $USER'")
	logger.Info(logger.CategoryAudio, "- You may need to configure ~/.asoundrc or /etc/asound.conf")
}
