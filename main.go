// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"liveshift/cmd"
	"liveshift/internal/config"
	"liveshift/internal/engine"
	applog "liveshift/internal/log"
	"liveshift/internal/spectrum"
	"liveshift/internal/transport"
	"liveshift/internal/transport/udp"
	"liveshift/internal/tui"
	"liveshift/pkg/build"
	"liveshift/pkg/shifter"
)

// main runs in three phases:
//
// 1. Startup (cold path): parse arguments, resolve devices, build the
// shifter and monitoring pipeline.
//
// 2. Concurrent (hot path): the duplex stream runs the audio callback;
// monitoring and recording hang off the shifted output.
//
// 3. Shutdown (cold path): on SIGINT/SIGTERM, stop recording, close the
// stream, and tear down transports.
func main() {
	// One OS thread for the audio callback, one for everything else.
	runtime.GOMAXPROCS(2)

	cfg, err := cmd.ParseArgs()
	if err != nil {
		applog.Fatalf("%v", err)
	}

	if cfg.Debug {
		applog.SetLevel(applog.LevelDebug)
	} else if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}

	if cfg.Command == "list" {
		if err := engine.ListDevices(); err != nil {
			applog.Fatalf("%v", err)
		}
		return
	}

	if cfg.Interactive {
		selection, err := tui.Run()
		if err != nil {
			applog.Fatalf("device picker failed: %v", err)
		}
		if selection == nil {
			return // user quit without confirming
		}
		cfg.Audio.InputDevice = selection.DeviceID
		cfg.Pitch.Semitones = selection.Semitones
		cfg.Pitch.Window = selection.Window
		cfg.Pitch.Formant = selection.Formant
		cfg.Pitch.ChannelMode = selection.ChannelMode
		if err := cfg.Validate(); err != nil {
			applog.Fatalf("%v", err)
		}
	}

	if err := engine.Initialize(); err != nil {
		applog.Fatalf("%v", err)
	}
	defer engine.Terminate()

	sh, err := buildShifter(cfg)
	if err != nil {
		applog.Fatalf("failed to build shifter: %v", err)
	}
	defer sh.Close()

	applog.Infof("%s starting: %+.2f semitones at %.0f Hz, %d channel(s), delay %d frames",
		build.Get().Name, cfg.Pitch.Semitones+cfg.Pitch.Cents/100,
		cfg.Audio.SampleRate, cfg.Audio.Channels, sh.StartDelay())

	spectrumProc, shutdownMonitor, err := buildMonitor(cfg)
	if err != nil {
		applog.Fatalf("failed to start monitoring: %v", err)
	}
	defer shutdownMonitor()

	eng, err := engine.New(cfg, sh, spectrumProc)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Start of the hot path: PortAudio begins invoking the callback.
	if err := eng.Start(); err != nil {
		applog.Fatalf("failed to start stream: %v", err)
	}

	if cfg.Recording.Enabled {
		if err := eng.StartRecording(cfg.Recording.OutputFile); err != nil {
			applog.Fatalf("failed to start recording: %v", err)
		}
	}

	fmt.Println("Shifting. Press Ctrl+C to stop.")
	<-done

	if cfg.Recording.Enabled {
		if err := eng.StopRecording(); err != nil {
			applog.Errorf("error stopping recording: %v", err)
		} else {
			fmt.Printf("\nRecording saved to: %s\n", cfg.Recording.OutputFile)
		}
	}

	if err := eng.Close(); err != nil {
		applog.Errorf("error closing engine: %v", err)
	}
	if n := eng.FallbackBlocks(); n > 0 {
		applog.Debugf("%d block(s) passed through while the shifter was busy", n)
	}
}

// buildShifter constructs the pitch shifter from the validated
// configuration and applies the initial pitch.
func buildShifter(cfg *config.Config) (*shifter.LiveShifter, error) {
	window, err := cfg.Pitch.WindowOption()
	if err != nil {
		return nil, err
	}
	formant, err := cfg.Pitch.FormantOption()
	if err != nil {
		return nil, err
	}
	channelMode, err := cfg.Pitch.ChannelModeOption()
	if err != nil {
		return nil, err
	}

	builder, err := shifter.NewBuilder(uint32(cfg.Audio.SampleRate), uint32(cfg.Audio.Channels))
	if err != nil {
		return nil, err
	}
	sh := builder.
		Window(window).
		Formant(formant).
		ChannelMode(channelMode).
		DebugLevel(cfg.Pitch.DebugLevel).
		Build()

	sh.SetPitchScale(cfg.Pitch.Scale())
	return sh, nil
}

// buildMonitor wires the spectrum processor to the enabled transports.
// It returns a nil processor when monitoring is disabled, and a shutdown
// function that is always safe to call.
func buildMonitor(cfg *config.Config) (*spectrum.Processor, func(), error) {
	if !cfg.Monitor.WebSocketEnabled && !cfg.Monitor.UDPEnabled {
		return nil, func() {}, nil
	}

	var (
		ws  *transport.WebSocketTransport
		tr  spectrum.Transport
		pub *udp.Publisher
		snd *udp.Sender
	)
	shutdown := func() {
		if pub != nil {
			pub.Stop()
		}
		if snd != nil {
			snd.Close()
		}
		if ws != nil {
			ws.Close()
		}
	}

	if cfg.Monitor.WebSocketEnabled {
		ws = transport.NewWebSocketTransport(cfg.Monitor.WebSocketAddr, cfg.Monitor.UDPSendInterval)
		tr = ws
	}

	proc, err := spectrum.NewProcessor(cfg.Monitor.FFTSize, cfg.Audio.SampleRate, tr)
	if err != nil {
		shutdown()
		return nil, nil, err
	}

	if cfg.Monitor.UDPEnabled {
		snd, err = udp.NewSender(cfg.Monitor.UDPTargetAddress)
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		pub, err = udp.NewPublisher(cfg.Monitor.UDPSendInterval, snd, proc)
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		pub.Start()
	}

	return proc, shutdown, nil
}
