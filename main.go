package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/hajimehoshi/ebiten/v2"

	"nes-core/bus"
	"nes-core/cartridge"
	"nes-core/controller"
	"nes-core/headless"
	"nes-core/ppu"
)

const statsAddress = "localhost:12600"

func main() {
	var (
		romFile       = flag.String("rom", "", "iNES file to run")
		scale         = flag.Int("scale", 3, "window scale")
		debug         = flag.Bool("debug", false, "show CPU, code, OAM and pattern tables; starts paused")
		frames        = flag.Int("headless", 0, "run this many frames without a window and print the frame crc32")
		memvizFile    = flag.String("memviz", "", "write a Graphviz dump of the machine after a headless run")
		stats         = flag.Bool("statsview", false, "serve runtime statistics on "+statsAddress)
		saveFile      = flag.String("save", "", "battery backed save RAM file")
		verbose       = flag.Bool("verbose", false, "log cartridge and reset events")
		noSpriteLimit = flag.Bool("nospritelimit", false, "draw more than eight sprites per scanline")
	)
	flag.Parse()

	if *romFile == "" && flag.NArg() > 0 {
		*romFile = flag.Arg(0)
	}
	if *romFile == "" {
		fmt.Fprintln(os.Stderr, "usage: nes-core [flags] -rom file.nes")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cart, err := cartridge.Load(*romFile)
	if err != nil {
		log.Fatal(err)
	}

	pad := controller.NewJoypad()
	nes, err := bus.New(
		bus.WithLogger(log.Default()),
		bus.Verbose(*verbose),
		bus.WithController(0, pad),
		bus.WithPPUOptions(ppu.SpriteLimit(!*noSpriteLimit)),
	)
	if err != nil {
		log.Fatal(err)
	}
	nes.InsertCartridge(cart)

	battery := *saveFile != "" && cart.Header().Battery()
	if battery {
		if err := loadSaveRAM(cart, *saveFile); err != nil {
			log.Fatal(err)
		}
	}
	nes.Reset()

	if *stats {
		go func() {
			viewer.SetConfiguration(viewer.WithAddr(statsAddress))
			statsview.New().Start()
		}()
		log.Printf("stats server available at %s/debug/statsview", statsAddress)
	}

	if *frames > 0 {
		res, err := headless.Run(nes, *frames)
		fmt.Println(res)
		if *memvizFile != "" {
			if err := headless.DumpFile(*memvizFile, nes); err != nil {
				log.Print(err)
			}
		}
		if err != nil {
			log.Fatal(err)
		}
	} else {
		ebiten.SetWindowSize(layoutSize(*debug, *scale))
		ebiten.SetWindowTitle(*romFile)
		if err := ebiten.RunGame(NewGame(nes, pad, *debug)); err != nil {
			log.Fatal(err)
		}
	}

	if battery {
		if err := writeSaveRAM(cart, *saveFile); err != nil {
			log.Fatal(err)
		}
	}
}

func layoutSize(debug bool, scale int) (int, int) {
	if debug {
		return debugWidth, debugHeight
	}
	return ppu.Width * scale, ppu.Height * scale
}

func loadSaveRAM(cart *cartridge.Cartridge, filename string) error {
	f, err := os.Open(filename)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()
	return cart.LoadSaveRAM(f)
}

func writeSaveRAM(cart *cartridge.Cartridge, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := cart.SaveRAM(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
