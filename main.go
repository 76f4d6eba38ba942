package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	emubridge "github.com/user-none/chlorsnd/bridge/ebiten"
	"github.com/user-none/chlorsnd/cli"
	"github.com/user-none/chlorsnd/emu"
	"github.com/user-none/chlorsnd/patch"
)

func main() {
	patchPath := flag.String("patch", "", "path to Lua patch script (required)")
	volume := flag.Float64("volume", 0.8, "playback volume, 0.0-1.0")
	fps := flag.Int("fps", emu.DefaultFPS, "render periods per second")
	flag.Parse()

	if *patchPath == "" {
		log.Fatal("Patch path is required. Usage: chlorsnd -patch <script.lua>")
	}
	if *volume < 0 || *volume > 1 {
		log.Fatalf("Invalid volume: %v (use 0.0-1.0)", *volume)
	}
	if *fps < 1 || *fps > 1000 {
		log.Fatalf("Invalid fps: %d (use 1-1000)", *fps)
	}

	chip := emu.New()
	if err := patch.Run(chip, *patchPath); err != nil {
		log.Fatalf("Failed to load patch: %v", err)
	}

	e := emubridge.NewEmulator(chip, emu.SampleRate, *fps)

	ebiten.SetWindowSize(emu.ScopeWidth*2, emu.ScopeHeight*2)
	ebiten.SetWindowTitle(emu.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(emu.ScopeWidth/2, emu.ScopeHeight/2, -1, -1)
	ebiten.SetTPS(60)

	defer e.Close()
	runner := cli.NewRunner(e, *volume)
	defer runner.Close()

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}
