// SPDX-License-Identifier: MIT
// Package config loads and validates the application configuration from
// YAML, with environment variable overrides layered on top.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	applog "liveshift/internal/log"
	"liveshift/pkg/bitint"
	"liveshift/pkg/shifter"
)

// Limits and defaults for the audio and pitch settings.
const (
	DefaultDevice   = -1 // -1 selects the system default device
	MinSampleRate   = 8000
	MaxSampleRate   = 192000
	MaxPitchOctaves = 4 // sanity bound on requested shift, up or down
)

// Config is the root application configuration, loaded from YAML.
type Config struct {
	Debug    bool   `yaml:"debug"`             // Verbose logging and engine debug output.
	LogLevel string `yaml:"log_level"`         // Logging level ("debug", "info", "warn", "error").
	Command  string `yaml:"command,omitempty"` // One-off command instead of running the engine (e.g. "list").

	// Interactive selects the device picker TUI. Set from the command
	// line only.
	Interactive bool `yaml:"-"`

	Audio     AudioConfig     `yaml:"audio"`     // Capture/playback settings.
	Pitch     PitchConfig     `yaml:"pitch"`     // Pitch shifting settings.
	Recording RecordingConfig `yaml:"recording"` // Output recording settings.
	Monitor   MonitorConfig   `yaml:"monitor"`   // Spectrum monitoring settings.
}

// AudioConfig holds capture and playback settings.
type AudioConfig struct {
	InputDevice  int     `yaml:"input_device"`  // PortAudio input device index (-1 for default).
	OutputDevice int     `yaml:"output_device"` // PortAudio output device index (-1 for default).
	SampleRate   float64 `yaml:"sample_rate"`   // Sample rate in Hz (e.g. 44100, 48000).
	Channels     int     `yaml:"channels"`      // Channel count (1 mono, 2 stereo).
	LowLatency   bool    `yaml:"low_latency"`   // Request low-latency settings from the device.
}

// PitchConfig holds the pitch shifter settings applied at startup.
type PitchConfig struct {
	Semitones   float64 `yaml:"semitones"`    // Shift in semitones, positive up.
	Cents       float64 `yaml:"cents"`        // Additional shift in cents.
	Window      string  `yaml:"window"`       // "short" or "medium".
	Formant     string  `yaml:"formant"`      // "shifted" or "preserved".
	ChannelMode string  `yaml:"channel_mode"` // "apart" or "together".
	DebugLevel  int     `yaml:"debug_level"`  // Engine debug verbosity; only 0 is realtime-safe.
}

// RecordingConfig holds settings for recording the shifted output.
type RecordingConfig struct {
	Enabled    bool   `yaml:"enabled"`
	OutputFile string `yaml:"output_file"` // Empty generates a timestamped name.
	BitDepth   int    `yaml:"bit_depth"`   // 16 or 24.
}

// MonitorConfig holds settings for publishing output spectrum frames.
type MonitorConfig struct {
	WebSocketEnabled bool          `yaml:"websocket_enabled"`
	WebSocketAddr    string        `yaml:"websocket_addr"` // e.g. ":8080"
	UDPEnabled       bool          `yaml:"udp_enabled"`
	UDPTargetAddress string        `yaml:"udp_target_address"` // e.g. "127.0.0.1:9090"
	UDPSendInterval  time.Duration `yaml:"udp_send_interval"`
	FFTSize          int           `yaml:"fft_size"` // Power of 2.
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Debug:    false,
		LogLevel: "info",
		Audio: AudioConfig{
			InputDevice:  DefaultDevice,
			OutputDevice: DefaultDevice,
			SampleRate:   48000,
			Channels:     2,
			LowLatency:   true,
		},
		Pitch: PitchConfig{
			Semitones:   0,
			Cents:       0,
			Window:      "short",
			Formant:     "shifted",
			ChannelMode: "apart",
			DebugLevel:  0,
		},
		Recording: RecordingConfig{
			Enabled:    false,
			OutputFile: "",
			BitDepth:   16,
		},
		Monitor: MonitorConfig{
			WebSocketEnabled: false,
			WebSocketAddr:    ":8080",
			UDPEnabled:       false,
			UDPTargetAddress: "127.0.0.1:9090",
			UDPSendInterval:  33 * time.Millisecond, // ~30 Hz
			FFTSize:          2048,
		},
	}
}

// Load reads the configuration from a YAML file. An empty path falls back
// to "config.yaml" in the working directory, or to the built-in defaults
// when no file exists. Environment overrides are applied after the file,
// and the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		} else {
			cfg.applyEnvOverrides()
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the engine or devices cannot honor.
func (c *Config) Validate() error {
	if c.Audio.SampleRate < MinSampleRate || c.Audio.SampleRate > MaxSampleRate {
		return fmt.Errorf("audio.sample_rate %v out of range [%d, %d]",
			c.Audio.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Audio.Channels < 1 {
		return fmt.Errorf("audio.channels must be at least 1, got %d", c.Audio.Channels)
	}
	if _, err := c.Pitch.WindowOption(); err != nil {
		return err
	}
	if _, err := c.Pitch.FormantOption(); err != nil {
		return err
	}
	if _, err := c.Pitch.ChannelModeOption(); err != nil {
		return err
	}
	if total := c.Pitch.Semitones + c.Pitch.Cents/100; math.Abs(total) > MaxPitchOctaves*12 {
		return fmt.Errorf("pitch shift of %.1f semitones exceeds %d octaves", total, MaxPitchOctaves)
	}
	if c.Recording.Enabled && c.Recording.BitDepth != 16 && c.Recording.BitDepth != 24 {
		return fmt.Errorf("recording.bit_depth must be 16 or 24, got %d", c.Recording.BitDepth)
	}
	if c.Monitor.WebSocketEnabled || c.Monitor.UDPEnabled {
		if !bitint.IsPowerOfTwo(c.Monitor.FFTSize) {
			return fmt.Errorf("monitor.fft_size must be a power of 2, got %d", c.Monitor.FFTSize)
		}
	}
	if c.Monitor.UDPEnabled {
		if c.Monitor.UDPTargetAddress == "" {
			return fmt.Errorf("monitor.udp_target_address must be set when UDP is enabled")
		}
		if c.Monitor.UDPSendInterval <= 0 {
			return fmt.Errorf("monitor.udp_send_interval must be positive when UDP is enabled")
		}
	}
	return nil
}

// Scale returns the pitch ratio combining semitones and cents.
func (p PitchConfig) Scale() float64 {
	return math.Pow(2, (p.Semitones*100+p.Cents)/1200)
}

// WindowOption maps the configured window name to the shifter option.
func (p PitchConfig) WindowOption() (shifter.Window, error) {
	switch p.Window {
	case "", "short":
		return shifter.WindowShort, nil
	case "medium":
		return shifter.WindowMedium, nil
	default:
		return 0, fmt.Errorf("pitch.window must be \"short\" or \"medium\", got %q", p.Window)
	}
}

// FormantOption maps the configured formant name to the shifter option.
func (p PitchConfig) FormantOption() (shifter.Formant, error) {
	switch p.Formant {
	case "", "shifted":
		return shifter.FormantShifted, nil
	case "preserved":
		return shifter.FormantPreserved, nil
	default:
		return 0, fmt.Errorf("pitch.formant must be \"shifted\" or \"preserved\", got %q", p.Formant)
	}
}

// ChannelModeOption maps the configured channel mode name to the shifter
// option.
func (p PitchConfig) ChannelModeOption() (shifter.ChannelMode, error) {
	switch p.ChannelMode {
	case "", "apart":
		return shifter.ChannelsApart, nil
	case "together":
		return shifter.ChannelsTogether, nil
	default:
		return 0, fmt.Errorf("pitch.channel_mode must be \"apart\" or \"together\", got %q", p.ChannelMode)
	}
}

// applyEnvOverrides layers LIVESHIFT_* environment variables over the
// loaded configuration.
func (cfg *Config) applyEnvOverrides() {
	if val, ok := os.LookupEnv("LIVESHIFT_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Debug = bVal
			applog.Infof("config: overriding debug from env: %v", bVal)
		}
	}
	if val, ok := os.LookupEnv("LIVESHIFT_SEMITONES"); ok {
		if fVal, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Pitch.Semitones = fVal
			applog.Infof("config: overriding pitch.semitones from env: %v", fVal)
		}
	}
	if val, ok := os.LookupEnv("LIVESHIFT_UDP_ENABLED"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			cfg.Monitor.UDPEnabled = bVal
			applog.Infof("config: overriding monitor.udp_enabled from env: %v", bVal)
		}
	}
	if val, ok := os.LookupEnv("LIVESHIFT_UDP_TARGET_ADDRESS"); ok {
		cfg.Monitor.UDPTargetAddress = val
		applog.Infof("config: overriding monitor.udp_target_address from env: %s", val)
	}
	if val, ok := os.LookupEnv("LIVESHIFT_UDP_SEND_INTERVAL"); ok {
		if dur, err := time.ParseDuration(val); err == nil {
			cfg.Monitor.UDPSendInterval = dur
			applog.Infof("config: overriding monitor.udp_send_interval from env: %s", dur)
		}
	}
}
