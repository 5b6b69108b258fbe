package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"

	"github.com/jeff-barlow-spady/droidspeak/pkg/logger"
)

// Sentinel errors for listener lifecycle misuse.
var (
	ErrAlreadyListening = errors.New("already listening")
	ErrNotListening     = errors.New("not listening")
)

// DetectionThreshold is the mean absolute sample level above which incoming
// audio counts as droid activity. This is energy detection only, not
// demodulation; nothing is decoded.
const DetectionThreshold = 0.01

// detectionText is handed to the detection callback. There is no payload to
// report because the listener does not decode anything.
const detectionText = "[Droid sounds detected]"

// detectionInterval is the minimum gap between two detection callbacks, so a
// sustained transmission reads as one event per second instead of one per
// device buffer.
const detectionInterval = time.Second

// Listener watches the default input device for droid-band energy and fires
// a callback when it hears some. The device is acquired in Start and released
// in Stop; a reader goroutine owns the stream in between.
type Listener struct {
	sampleRate      int
	framesPerBuffer int

	mu         sync.Mutex
	stream     *portaudio.Stream
	listening  bool
	stop       chan struct{}
	done       chan struct{}
	onDetect   func(string)
	level      float32
	lastDetect time.Time
}

// NewListener creates a listener for the given sample rate. It touches no
// audio hardware; Start does.
func NewListener(sampleRate int) *Listener {
	return &Listener{
		sampleRate:      sampleRate,
		framesPerBuffer: defaultFramesPerBuffer,
	}
}

// Start opens the default input stream and begins watching for droid sounds
// on a background goroutine. onDetect may be nil, in which case detections
// are only logged.
func (l *Listener) Start(onDetect func(msg string)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.listening {
		return ErrAlreadyListening
	}

	if err := portaudio.Initialize(); err != nil {
		logPortAudioHint(err)
		return fmt.Errorf("failed to initialize PortAudio: %w", err)
	}

	in := make([]float32, l.framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(l.sampleRate), len(in), &in)
	if err != nil {
		portaudio.Terminate()
		logPortAudioHint(err)
		return fmt.Errorf("failed to open input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("failed to start input stream: %w", err)
	}

	l.stream = stream
	l.listening = true
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	l.onDetect = onDetect
	l.level = 0
	l.lastDetect = time.Time{}

	go l.run(stream, in, l.stop, l.done)

	logger.Info(logger.CategoryAudio, "Started listening for droid transmissions")
	return nil
}

// run reads fixed-size buffers from the stream until stopped, tracking the
// input level and firing detections.
func (l *Listener) run(stream *portaudio.Stream, in []float32, stop, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return
		default:
		}

		if err := stream.Read(); err != nil {
			if err == portaudio.InputOverflowed {
				logger.Debug(logger.CategoryAudio, "Input overflow while listening")
				continue
			}
			logger.Error(logger.CategoryAudio, "Error reading input stream: %v", err)
			return
		}

		sanitize(in)
		energy := MeanAbsLevel(in)
		rms := CalculateRMSLevel(in)

		l.mu.Lock()
		l.level = rms
		fire := energy > DetectionThreshold && time.Since(l.lastDetect) >= detectionInterval
		if fire {
			l.lastDetect = time.Now()
		}
		callback := l.onDetect
		l.mu.Unlock()

		if fire {
			logger.Debug(logger.CategoryAudio, "Droid-band energy %.4f above threshold", energy)
			if callback != nil {
				callback(detectionText)
			}
		}
	}
}

// Stop signals the reader goroutine, waits for it to drain, and releases the
// stream and the audio device.
func (l *Listener) Stop() error {
	l.mu.Lock()
	if !l.listening {
		l.mu.Unlock()
		return ErrNotListening
	}
	close(l.stop)
	stream := l.stream
	done := l.done
	l.listening = false
	l.stream = nil
	l.onDetect = nil
	l.level = 0
	l.mu.Unlock()

	<-done

	var firstErr error
	if err := stream.Stop(); err != nil {
		firstErr = fmt.Errorf("failed to stop input stream: %w", err)
	}
	if err := stream.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close input stream: %w", err)
	}
	portaudio.Terminate()

	logger.Info(logger.CategoryAudio, "Stopped listening")
	return firstErr
}

// Listening reports whether the listener currently holds an input stream.
func (l *Listener) Listening() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.listening
}

// Level returns the RMS level of the most recent input buffer, zero when not
// listening.
func (l *Listener) Level() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// MeanAbsLevel is the average absolute sample value, the energy measure used
// for detection.
func MeanAbsLevel(buffer []float32) float32 {
	if len(buffer) == 0 {
		return 0
	}
	var sum float64
	for _, sample := range buffer {
		sum += math.Abs(float64(sample))
	}
	return float32(sum / float64(len(buffer)))
}

// CalculateRMSLevel calculates the Root Mean Square level of audio data
func CalculateRMSLevel(buffer []float32) float32 {
	if len(buffer) == 0 {
		return 0
	}

	// Calculate sum of squares
	var sumOfSquares float64
	for _, sample := range buffer {
		sumOfSquares += float64(sample * sample)
	}

	// Calculate RMS
	meanSquare := sumOfSquares / float64(len(buffer))
	return float32(math.Sqrt(meanSquare))
}
