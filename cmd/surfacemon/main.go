// Command surfacemon evaluates a touch node once per frame and prints the
// normalized contacts.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/akamensky/argparse"

	"kuldippatel.dev/surfaceinput"
	"kuldippatel.dev/surfaceinput/internal/log"
)

func main() {
	// The hidden window belongs to the thread that created it.
	runtime.LockOSThread()

	parser := argparse.NewParser("surfacemon", "Print live touch contacts once per frame")

	configPath := parser.String("c", "config", &argparse.Options{
		Required: false,
		Help:     "YAML config file",
	})
	devicePath := parser.String("", "device", &argparse.Options{
		Required: false,
		Default:  "",
		Help:     "evdev node to read, e.g. /dev/input/event3",
	})
	variant := parser.Selector("", "variant", []string{string(surfaceinput.VariantLegacy), string(surfaceinput.VariantTouchPoint)}, &argparse.Options{
		Required: false,
		Help:     "reference dimensions: legacy (fixed 1024x768) or touchpoint (device surface)",
	})
	raw := parser.Flag("r", "raw", &argparse.Options{
		Required: false,
		Default:  false,
		Help:     "print positions in device pixels",
	})
	simulate := parser.Flag("s", "simulate", &argparse.Options{
		Required: false,
		Default:  false,
		Help:     "use the built-in simulator instead of hardware",
	})
	fps := parser.Int("f", "fps", &argparse.Options{
		Required: false,
		Default:  30,
		Help:     "evaluation cycles per second",
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

	cfg := surfaceinput.DefaultConfig()
	if *configPath != "" {
		loaded, err := surfaceinput.LoadConfig(*configPath)
		if err != nil {
			log.Error("load config failed", "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *devicePath != "" {
		cfg.DevicePath = *devicePath
	}
	if *variant != "" {
		cfg.Variant = surfaceinput.Variant(*variant)
	}
	if *raw {
		cfg.NormalizeValues = false
	}
	if *fps <= 0 {
		log.Error("fps must be positive", "fps", *fps)
		os.Exit(1)
	}

	var sim *surfaceinput.Simulator
	opener := surfaceinput.EvdevOpener(cfg.DevicePath)
	if *simulate {
		sim = surfaceinput.NewSimulator(surfaceinput.Dimensions{Width: 1024, Height: 768})
		opener = surfaceinput.SimulatorOpener(sim)
	}

	target := surfaceinput.NewTarget(surfaceinput.WithDeviceOpener(opener))
	node, err := surfaceinput.NewNode(target, cfg)
	if err != nil {
		log.Error("touch node failed", "err", err)
		os.Exit(1)
	}
	defer node.Close()

	if sim != nil {
		go playSwipes(sim)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	inputs := cfg.Inputs()
	for {
		select {
		case sig := <-signals:
			log.Info("received signal", "signal", sig.String())
			return
		case <-ticker.C:
			if err := node.Evaluate(inputs); err != nil {
				log.Warn("evaluate failed", "err", err)
				continue
			}
			printFrame(node.Frame())
		}
	}
}

func printFrame(frame surfaceinput.Frame) {
	if frame.Len() == 0 {
		return
	}
	fmt.Printf("-------------------------------------\n")
	for i := range frame.IDs {
		fmt.Printf("ID: %d | Pos: %.3f,%.3f | Size: %.3f,%.3f | Rot: %.3f\n",
			frame.IDs[i],
			frame.Positions[i].X, frame.Positions[i].Y,
			frame.Sizes[i].X, frame.Sizes[i].Y,
			frame.Rotations[i])
	}
}

// playSwipes Drags simulated fingers across the table forever.
func playSwipes(sim *surfaceinput.Simulator) {
	const pause = 15 * time.Millisecond
	step := func() { time.Sleep(pause) }

	finger := func(id int, x, y float64) surfaceinput.Contact {
		return surfaceinput.Contact{ID: id, X: x, Y: y, Bounds: surfaceinput.Size{Width: 24, Height: 32}}
	}

	for id := 1; ; id += 2 {
		sim.Swipe(finger(id, 100, 384), surfaceinput.Vector2D{X: 924, Y: 384}, step)
		time.Sleep(time.Second)

		sim.Touch(finger(id+1, 512, 100))
		sim.Swipe(finger(id, 512, 668), surfaceinput.Vector2D{X: 512, Y: 400}, step)
		sim.Lift(id + 1)
		time.Sleep(time.Second)
	}
}
