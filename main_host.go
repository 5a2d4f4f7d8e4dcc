//go:build !tinygo

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"valewind/app"
	"valewind/engine"
	"valewind/engine/broker"
	"valewind/engine/loop"
	"valewind/hal"
	"valewind/internal/buildinfo"
	"valewind/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "", "TOML configuration file.")
		title       = flag.String("title", "", "Window title.")
		width       = flag.Int("width", 0, "Canvas width in pixels.")
		height      = flag.Int("height", 0, "Canvas height in pixels.")
		assets      = flag.String("assets", "", "Root directory for relative font paths.")
		headless    = flag.Bool("headless", false, "Run without a window.")
		hz          = flag.Int("hz", 0, "Tick rate in headless mode.")
		ticks       = flag.Uint64("ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
		logLevel    = flag.String("log-level", "", "debug|info|warn|error.")
		printConfig = flag.Bool("print-config", false, "Print the effective configuration and exit.")
		version     = flag.Bool("version", false, "Print the build identifier and exit.")
	)
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.String())
		return 0
	}

	f := config.Default()
	if *configPath != "" {
		var err error
		if f, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	}
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "title":
			f.Window.Title = *title
		case "width":
			f.Window.Width = *width
		case "height":
			f.Window.Height = *height
		case "assets":
			f.Assets.Path = *assets
		case "headless":
			f.Loop.Headless = *headless
		case "hz":
			f.Loop.Hz = *hz
		case "ticks":
			f.Loop.Ticks = *ticks
		case "log-level":
			f.Log.Level = *logLevel
		}
	})
	if err := f.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if *printConfig {
		data, err := f.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		_, _ = os.Stdout.Write(data)
		return 0
	}

	level, _ := f.Level()
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	engine.SetLogger(log)
	log.Info("valewind starting", "build", buildinfo.Short(), "headless", f.Loop.Headless)

	h := hal.New()
	bc := f.BrokerConfig()
	b, err := broker.NewBuilder().
		Title(buildinfo.Title(bc.Title)).
		CanvasSize(bc.CanvasWidth, bc.CanvasHeight).
		AssetsPath(bc.AssetsPath).
		Build(h)
	if err != nil {
		log.Error("init failed", "err", err)
		return 1
	}

	d := loop.New(b, app.New(f.AppConfig()))
	step := app.Guard(b, d.Step)

	if f.Loop.Headless {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		err = hal.RunHeadless(ctx, step, hal.HeadlessConfig{Hz: f.Loop.Hz, Ticks: f.Loop.Ticks})
		stop()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	} else {
		err = hal.RunWindow(h, step)
	}

	code := 0
	if err != nil {
		log.Error("loop stopped", "err", err, "ticks", d.Ticks())
		code = 1
	}
	if cerr := b.Close(); cerr != nil {
		log.Error("shutdown", "err", cerr)
		code = 1
	}
	log.Info("valewind stopped", "ticks", d.Ticks())
	return code
}
