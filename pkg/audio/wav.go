// Package audio provides the device and file boundaries around the synthesis
// engine: WAV encoding and decoding, playback through the default output
// device, and the input-energy listener.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jeff-barlow-spady/droidspeak/pkg/logger"
)

// pcm16 quantizes one float sample in [-1, 1] to a signed 16-bit value.
// Non-finite samples become silence, out-of-range samples clip.
func pcm16(sample float32) int16 {
	f := float64(sample)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	v := math.Round(f * 32767.0)
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}

// writeWAV writes a complete mono 16-bit PCM WAV stream: the 44-byte RIFF
// header followed by the quantized samples.
func writeWAV(w io.Writer, samples []float32, sampleRate int) error {
	numChannels := 1
	bitsPerSample := 16

	subChunk2Size := len(samples) * 2 // 2 bytes per sample (16-bit PCM)
	chunkSize := 36 + subChunk2Size

	// ChunkID: "RIFF"
	if _, err := w.Write([]byte("RIFF")); err != nil {
		return err
	}

	// ChunkSize
	if err := binary.Write(w, binary.LittleEndian, uint32(chunkSize)); err != nil {
		return err
	}

	// Format: "WAVE"
	if _, err := w.Write([]byte("WAVE")); err != nil {
		return err
	}

	// Subchunk1ID: "fmt "
	if _, err := w.Write([]byte("fmt ")); err != nil {
		return err
	}

	// Subchunk1Size: 16 for PCM
	if err := binary.Write(w, binary.LittleEndian, uint32(16)); err != nil {
		return err
	}

	// AudioFormat: 1 for PCM
	if err := binary.Write(w, binary.LittleEndian, uint16(1)); err != nil {
		return err
	}

	// NumChannels: 1 for mono
	if err := binary.Write(w, binary.LittleEndian, uint16(numChannels)); err != nil {
		return err
	}

	// SampleRate
	if err := binary.Write(w, binary.LittleEndian, uint32(sampleRate)); err != nil {
		return err
	}

	// ByteRate: SampleRate * NumChannels * BitsPerSample/8
	byteRate := sampleRate * numChannels * bitsPerSample / 8
	if err := binary.Write(w, binary.LittleEndian, uint32(byteRate)); err != nil {
		return err
	}

	// BlockAlign: NumChannels * BitsPerSample/8
	blockAlign := numChannels * bitsPerSample / 8
	if err := binary.Write(w, binary.LittleEndian, uint16(blockAlign)); err != nil {
		return err
	}

	// BitsPerSample
	if err := binary.Write(w, binary.LittleEndian, uint16(bitsPerSample)); err != nil {
		return err
	}

	// Subchunk2ID: "data"
	if _, err := w.Write([]byte("data")); err != nil {
		return err
	}

	// Subchunk2Size: NumSamples * NumChannels * BitsPerSample/8
	if err := binary.Write(w, binary.LittleEndian, uint32(subChunk2Size)); err != nil {
		return err
	}

	for _, sample := range samples {
		if err := binary.Write(w, binary.LittleEndian, pcm16(sample)); err != nil {
			return err
		}
	}

	return nil
}

// EncodeWAV serializes a mono float buffer to WAV bytes at the given sample
// rate.
func EncodeWAV(samples []float32, sampleRate int) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(44 + len(samples)*2)
	if err := writeWAV(&buf, samples, sampleRate); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveToWav writes a mono float buffer to a WAV file, creating the target
// directory if needed.
func SaveToWav(samples []float32, sampleRate int, outputPath string) error {
	logger.Debug(logger.CategoryAudio, "Saving %d samples to WAV file: %s", len(samples), outputPath)

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		logger.Error(logger.CategoryAudio, "Failed to create output directory: %v", err)
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if len(samples) == 0 {
		logger.Warning(logger.CategoryAudio, "Saving an empty buffer to %s", outputPath)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		logger.Error(logger.CategoryAudio, "Failed to create WAV file: %v", err)
		return fmt.Errorf("failed to create WAV file: %w", err)
	}
	defer f.Close()

	if err := writeWAV(f, samples, sampleRate); err != nil {
		return fmt.Errorf("failed to write WAV data: %w", err)
	}

	return f.Sync()
}

// LoadFromWav decodes a PCM WAV file back to float samples in [-1, 1] and
// reports the file's sample rate. Multi-channel files keep only the first
// channel.
func LoadFromWav(filePath string) ([]float32, int, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file: %s", filePath)
	}

	var buf *goaudio.IntBuffer
	buf, err = dec.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode PCM data: %w", err)
	}

	sampleRate := int(dec.SampleRate)
	samples := pcmToFloat(buf)
	logger.Info(logger.CategoryAudio, "Loaded WAV file: %d samples, %d Hz, %d-bit, %d channel(s)",
		len(samples), sampleRate, dec.BitDepth, dec.NumChans)

	return samples, sampleRate, nil
}

// pcmToFloat rescales decoded integer PCM frames to [-1, 1], dropping all but
// the first channel.
func pcmToFloat(buf *goaudio.IntBuffer) []float32 {
	channels := 1
	if buf.Format != nil && buf.Format.NumChannels > 0 {
		channels = buf.Format.NumChannels
	}
	if channels != 1 {
		logger.Warning(logger.CategoryAudio, "WAV file has %d channels, keeping channel 0 only", channels)
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int(1)<<(bitDepth-1) - 1)

	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		s := float32(buf.Data[i*channels]) / scale
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		samples[i] = s
	}
	return samples
}
