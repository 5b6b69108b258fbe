// Package main is the droidspeak command: it synthesizes droid vocalizations
// from text, plays or saves them, and hosts the interactive transmission
// console.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/jeff-barlow-spady/droidspeak/config"
	"github.com/jeff-barlow-spady/droidspeak/pkg/app"
	"github.com/jeff-barlow-spady/droidspeak/pkg/audio"
	"github.com/jeff-barlow-spady/droidspeak/pkg/logger"
	"github.com/jeff-barlow-spady/droidspeak/pkg/ui"
)

func main() {
	// Initialize logger
	logger.Initialize()

	// Load the config file first so flag defaults reflect saved settings
	if err := config.LoadConfig(); err != nil {
		logger.Warning(logger.CategoryConfig, "Could not load config, using defaults: %v", err)
	}
	cfg := config.Current

	// Parse command-line flags
	savePath := flag.String("save", "", "Save the synthesized message to a WAV file")
	volume := flag.Float64("volume", cfg.Volume, "Output volume (0.0-1.0)")
	duty := flag.Float64("duty", cfg.DutyCycle, "Square wave duty cycle (0.3-0.7)")
	lfoRate := flag.Float64("lfo", cfg.LFORate, "LFO rate in Hz (5-20)")
	exaggeration := flag.Float64("exaggeration", cfg.Exaggeration, "Droid exaggeration level (0.0-1.0)")
	effect := flag.String("effect", cfg.Effect, "Force one effect: normal, blatt, trill, whistle, scream, happy, sad, question, random")
	protocol := flag.String("protocol", cfg.Protocol, "Carrier profile: audible or ultrasound")
	noPersonality := flag.Bool("no-personality", false, "Disable intro/outro personality sounds")
	seed := flag.Int64("seed", 0, "Random seed for reproducible output (0 uses the clock)")
	interactive := flag.Bool("interactive", false, "Start the interactive transmission console")
	noPlay := flag.Bool("no-play", false, "Skip playback")
	debugMode := flag.Bool("debug", false, "Run in debug mode")
	flag.Parse()

	if *debugMode || cfg.Debug {
		logger.SetLevel(logger.LevelDebug)
		logger.Debug(logger.CategoryApp, "Debug logging enabled")
	}

	opts := app.OptionsFromConfig(cfg)
	opts.Volume = *volume
	opts.DutyCycle = *duty
	opts.LFORate = *lfoRate
	opts.Exaggeration = *exaggeration
	opts.Effect = *effect
	opts.Protocol = *protocol
	opts.Seed = *seed
	if *noPersonality {
		opts.AddPersonality = false
	}

	if *interactive {
		runConsole(opts)
		return
	}

	message := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if message == "" {
		fmt.Fprintln(os.Stderr, "Usage: droidspeak [flags] <message>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	messenger := app.NewMessenger(opts)

	// Ensure cleanup only happens once, whether we exit normally or on a signal
	var cleanupOnce sync.Once
	cleanup := func() {
		cleanupOnce.Do(func() {
			messenger.Close()
		})
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info(logger.CategoryApp, "Received termination signal, cleaning up...")
		cleanup()
		os.Exit(0)
	}()

	// Synthesize once; the same buffer goes to the file and the speaker.
	buffer := messenger.Encode(message)

	if *savePath != "" {
		if err := audio.SaveToWav(buffer, messenger.SampleRate(), *savePath); err != nil {
			logger.Error(logger.CategoryApp, "Failed to save WAV: %v", err)
			cleanup()
			os.Exit(1)
		}
		fmt.Printf("Saved to %s\n", *savePath)
	}

	if !*noPlay {
		fmt.Printf("Droid says: %s\n", message)
		if err := messenger.Play(buffer); err != nil {
			logger.Error(logger.CategoryApp, "Playback failed: %v", err)
			cleanup()
			os.Exit(1)
		}
	}

	cleanup()
}

// runConsole starts the interactive transmission console.
func runConsole(opts app.MessengerOptions) {
	// Route logger output into the console UI instead of over it, and drop
	// ANSI color codes that would fight the UI styling.
	logBuffer := &ui.LogBuffer{}
	logger.SetOutput(logBuffer)
	logger.EnableColors(false)

	messenger := app.NewMessenger(opts)
	repl := ui.NewRepl(messenger)
	logBuffer.SetLogConsumer(repl)

	var cleanupOnce sync.Once
	cleanup := func() {
		cleanupOnce.Do(func() {
			messenger.Close()
			logger.SetOutput(os.Stderr)
		})
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cleanup()
		os.Exit(0)
	}()

	err := repl.RunBlocking()
	cleanup()
	if err != nil {
		logger.Error(logger.CategoryUI, "Console error: %v", err)
		os.Exit(1)
	}
}
