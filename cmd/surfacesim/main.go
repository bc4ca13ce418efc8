//go:build linux

// Command surfacesim creates a virtual touch table through uinput and plays
// scripted swipes on it, so surfacemon can be tried without hardware.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akamensky/argparse"

	"kuldippatel.dev/surfaceinput"
	"kuldippatel.dev/surfaceinput/internal/log"
)

func main() {
	parser := argparse.NewParser("surfacesim", "Virtual multitouch table on /dev/uinput")

	width := parser.Int("", "width", &argparse.Options{
		Required: false,
		Default:  1024,
		Help:     "surface width in pixels",
	})
	height := parser.Int("", "height", &argparse.Options{
		Required: false,
		Default:  768,
		Help:     "surface height in pixels",
	})
	loops := parser.Int("n", "loops", &argparse.Options{
		Required: false,
		Default:  0,
		Help:     "number of swipe rounds, 0 runs until interrupted",
	})
	debug := parser.Flag("d", "debug", &argparse.Options{
		Required: false,
		Default:  false,
		Help:     "debug logging",
	})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	if *debug {
		log.Init("debug")
	} else {
		log.Init("info")
	}

	cfg := surfaceinput.DefaultVirtualSurfaceConfig()
	cfg.Width = int32(*width)
	cfg.Height = int32(*height)

	surface, err := surfaceinput.NewVirtualSurface(cfg)
	if err != nil {
		log.Error("create virtual surface failed", "err", err)
		os.Exit(1)
	}
	defer surface.Close()
	log.Info("virtual surface ready", "name", cfg.Name, "width", cfg.Width, "height", cfg.Height)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	size := surface.Size()
	w, h := size.Width, size.Height
	finger := surfaceinput.Size{Width: 24, Height: 32}
	swipes := []struct {
		from, to surfaceinput.Vector2D
	}{
		{surfaceinput.Vector2D{X: w * 0.7, Y: h * 0.2}, surfaceinput.Vector2D{X: w * 0.7, Y: h * 0.8}},
		{surfaceinput.Vector2D{X: w * 0.3, Y: h * 0.2}, surfaceinput.Vector2D{X: w * 0.7, Y: h * 0.8}},
		{surfaceinput.Vector2D{X: w * 0.7, Y: h * 0.8}, surfaceinput.Vector2D{X: w * 0.7, Y: h * 0.2}},
		{surfaceinput.Vector2D{X: w * 0.7, Y: h * 0.8}, surfaceinput.Vector2D{X: w * 0.3, Y: h * 0.2}},
	}

	trackingID := 0
	for round := 0; *loops == 0 || round < *loops; round++ {
		for _, s := range swipes {
			select {
			case sig := <-stop:
				log.Info("received signal", "signal", sig.String())
				return
			case <-time.After(3 * time.Second):
			}

			trackingID++
			c := surfaceinput.Contact{ID: trackingID, X: s.from.X, Y: s.from.Y, Bounds: finger}
			if err := surface.Swipe(0, c, s.to); err != nil {
				log.Error("swipe failed", "err", err)
				return
			}
			log.Debug("swipe done", "id", trackingID, "from", s.from, "to", s.to)
		}
	}
}
