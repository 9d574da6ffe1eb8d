// SPDX-License-Identifier: MIT
// Package cmd parses command line arguments into the application
// configuration. Flag defaults come from the config file (when present),
// so flags always win over the file.
package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"liveshift/internal/config"
	"liveshift/pkg/build"
)

// ParseArgs loads the configuration file, then overlays command line
// flags. It returns the final configuration, with cfg.Command set for
// one-off commands like "list".
func ParseArgs() (*config.Config, error) {
	info := build.Get()

	cfg, err := config.Load(configPathFromArgs(os.Args[1:]))
	if err != nil {
		return nil, err
	}

	rootCmd := &cobra.Command{
		Use:           info.Name,
		Short:         "Live microphone pitch shifter",
		Version:       info.String(),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Run: func(cmd *cobra.Command, args []string) {
			cfg.Command = "list"
		},
	}
	rootCmd.AddCommand(listCmd)

	// The config file path is parsed before cobra runs so the file can
	// seed the flag defaults; register it here only for help output.
	var configPath string
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to the YAML configuration file")

	// Audio device configuration.
	rootCmd.PersistentFlags().IntVarP(&cfg.Audio.InputDevice, "device", "d", cfg.Audio.InputDevice,
		"Input device ID. Use 'list' to see available devices.")
	rootCmd.PersistentFlags().IntVarP(&cfg.Audio.OutputDevice, "output-device", "D", cfg.Audio.OutputDevice,
		"Output device ID. Use 'list' to see available devices.")
	rootCmd.PersistentFlags().IntVarP(&cfg.Audio.Channels, "channels", "c", cfg.Audio.Channels,
		"Number of channels (1=mono, 2=stereo)")
	rootCmd.PersistentFlags().Float64VarP(&cfg.Audio.SampleRate, "sample-rate", "s", cfg.Audio.SampleRate,
		"Sample rate, measured in Hertz (Hz)")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Audio.LowLatency, "low-latency", "l", cfg.Audio.LowLatency,
		"Use low latency mode for real-time processing")

	// Pitch configuration.
	rootCmd.PersistentFlags().Float64VarP(&cfg.Pitch.Semitones, "semitones", "t", cfg.Pitch.Semitones,
		"Pitch shift in semitones (positive shifts up)")
	rootCmd.PersistentFlags().Float64Var(&cfg.Pitch.Cents, "cents", cfg.Pitch.Cents,
		"Additional pitch shift in cents")
	rootCmd.PersistentFlags().StringVarP(&cfg.Pitch.Window, "window", "w", cfg.Pitch.Window,
		"Processing window: 'short' or 'medium'")
	rootCmd.PersistentFlags().StringVarP(&cfg.Pitch.Formant, "formant", "f", cfg.Pitch.Formant,
		"Formant handling: 'shifted' or 'preserved'")
	rootCmd.PersistentFlags().StringVarP(&cfg.Pitch.ChannelMode, "channel-mode", "m", cfg.Pitch.ChannelMode,
		"Multi-channel mode: 'apart' or 'together'")

	// Recording configuration.
	rootCmd.PersistentFlags().BoolVarP(&cfg.Recording.Enabled, "record", "r", cfg.Recording.Enabled,
		"Record the shifted output to a WAV file")
	rootCmd.PersistentFlags().StringVarP(&cfg.Recording.OutputFile, "output", "o", cfg.Recording.OutputFile,
		"Output file name. Default is shifted-DD-MM-YYYY-HHMMSS.wav")

	// TUI and debug configuration.
	rootCmd.PersistentFlags().BoolVarP(&cfg.Interactive, "interactive", "i", cfg.Interactive,
		"Pick the device and pitch settings interactively")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Debug, "verbose", "v", cfg.Debug,
		"Show verbose output")

	if cfg.Recording.OutputFile == "" {
		cfg.Recording.OutputFile = "shifted-" +
			time.Now().UTC().Format("02-01-2006-150405") + ".wav"
	}

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configPathFromArgs extracts --config before cobra parses anything, so
// the file can provide the defaults for every other flag.
func configPathFromArgs(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--config" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
