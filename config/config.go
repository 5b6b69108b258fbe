package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the application configuration
type Config struct {
	// Synthesis configuration
	SampleRate   int
	Volume       float64
	DutyCycle    float64
	LFORate      float64
	Exaggeration float64

	// Effect forces one effect for every character when non-empty
	// (normal, blatt, trill, whistle, scream, happy, sad, question, random)
	Effect string

	// Protocol selects the carrier profile ("audible" or "ultrasound")
	Protocol string

	// AddPersonality wraps messages in intro/outro flourishes
	AddPersonality bool

	// Debug enables verbose logging
	Debug bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SampleRate:     48000,
		Volume:         0.5,
		DutyCycle:      0.5,
		LFORate:        12,
		Exaggeration:   0.5,
		Effect:         "",
		Protocol:       "audible",
		AddPersonality: true,
		Debug:          false,
	}
}

// Current holds the active configuration
var Current = DefaultConfig()

// GetAppDir returns the path to the .droidspeak directory
func GetAppDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	appDir := filepath.Join(homeDir, ".droidspeak")

	// Create the directory if it doesn't exist
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create .droidspeak directory: %w", err)
	}

	return appDir, nil
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() (string, error) {
	appDir, err := GetAppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(appDir, "config.json"), nil
}

// LoadConfig loads the configuration from the config file
func LoadConfig() error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, use defaults
		Current = DefaultConfig()
		// Save the default config
		return SaveConfig()
	}

	// Read the config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON data
	var config Config
	err = json.Unmarshal(data, &config)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// Update current config
	Current = &config

	// A hand-edited file can zero these out; fall back rather than synthesize
	// at a nonsense rate. Finer range clamping happens at engine construction.
	if Current.SampleRate <= 0 {
		Current.SampleRate = DefaultConfig().SampleRate
	}
	if Current.Protocol == "" {
		Current.Protocol = DefaultConfig().Protocol
	}

	return nil
}

// SaveConfig saves the configuration to the config file
func SaveConfig() error {
	configPath, err := GetConfigFilePath()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal config to JSON
	data, err := json.MarshalIndent(Current, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to file
	err = os.WriteFile(configPath, data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
