// cmd/muxkeys/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/RobbyVocke/muxkeys/internal/config"
	"github.com/RobbyVocke/muxkeys/internal/events"
	"github.com/RobbyVocke/muxkeys/internal/gpio"
	"github.com/RobbyVocke/muxkeys/internal/indicator"
	"github.com/RobbyVocke/muxkeys/internal/keys"
	"github.com/RobbyVocke/muxkeys/internal/mux"
	"github.com/RobbyVocke/muxkeys/internal/transmit"
	"github.com/RobbyVocke/muxkeys/internal/transmit/midiport"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: muxkeys [-debug] <config.yaml>")
		os.Exit(2)
	}

	log := newLogger(*debug)
	defer func() { _ = log.Sync() }()

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(flag.Arg(0))
	if err != nil {
		log.Fatal("config load failed", zap.Error(err))
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal("config validation failed", zap.Error(err))
	}
	config.Normalize(cfg)
	c := cfg.Controller

	// --------------------
	// GPIO board + lines
	// --------------------

	board, err := gpio.Open(c.Board.Device, c.Board.Baud, log)
	if err != nil {
		log.Fatal("board open failed", zap.Error(err))
	}
	defer board.Close()

	sel := make([]mux.OutputLine, 0, len(c.Board.SelectPins))
	for _, pin := range c.Board.SelectPins {
		line, err := board.Output(pin)
		if err != nil {
			log.Fatal("select line setup failed", zap.Uint8("pin", pin), zap.Error(err))
		}
		sel = append(sel, line)
	}

	// --------------------
	// Event pipeline
	// --------------------

	onQ := events.New(c.Transmit.QueueCapacity)
	offQ := events.New(c.Transmit.QueueCapacity)

	state, err := keys.NewState(keys.Keymap(c.Keymap), onQ, offQ, log)
	if err != nil {
		log.Fatal("key state setup failed", zap.Error(err))
	}

	scanner, err := mux.New(
		mux.Config{
			Debounce: time.Duration(c.Scan.DebounceMs) * time.Millisecond,
			Settle:   time.Duration(c.Scan.SettleUs) * time.Microsecond,
		},
		sel,
		state,
	)
	if err != nil {
		log.Fatal("scanner setup failed", zap.Error(err))
	}
	for _, pin := range c.Board.ChipPins {
		common, err := board.InputPullup(pin)
		if err != nil {
			log.Fatal("chip line setup failed", zap.Uint8("pin", pin), zap.Error(err))
		}
		if err := scanner.AddChip(common); err != nil {
			log.Fatal("chip registration failed", zap.Uint8("pin", pin), zap.Error(err))
		}
	}

	// --------------------
	// MIDI output + transmission loop
	// --------------------

	port, err := midiport.Open(c.MIDI.PortMatch)
	if err != nil {
		log.Fatal("midi output open failed", zap.Error(err))
	}
	defer port.Close()

	loop, err := transmit.New(
		transmit.Config{
			Channel:  uint8(c.MIDI.Channel - 1), // 1-based in config, 0-based on the wire
			Velocity: uint8(c.MIDI.Velocity),
			Interval: time.Duration(c.Transmit.IntervalMs) * time.Millisecond,
		},
		onQ, offQ, port, log,
	)
	if err != nil {
		log.Fatal("transmit loop setup failed", zap.Error(err))
	}

	// Octave indicator (optional per config)
	if c.LEDs != nil {
		up, err := board.Output(c.LEDs.UpPin)
		if err != nil {
			log.Fatal("up LED setup failed", zap.Error(err))
		}
		down, err := board.Output(c.LEDs.DownPin)
		if err != nil {
			log.Fatal("down LED setup failed", zap.Error(err))
		}
		loop.SetIndicator(indicator.New(up, down), state)
	}

	// --------------------
	// Run until interrupted
	// --------------------

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("muxkeys running",
		zap.String("board", c.Board.Device),
		zap.Int("chips", scanner.Chips()),
		zap.String("midi_out", port.Name()),
		zap.Int("midi_channel", c.MIDI.Channel),
		zap.Int("debounce_ms", c.Scan.DebounceMs),
	)

	go scanner.Run(ctx)
	go loop.Run(ctx)

	<-ctx.Done()
	log.Info("shutting down")
}

func newLogger(debug bool) *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if debug {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	return log
}
