//go:build !libretro && !ios

package main

import (
	"flag"
	"log"
	"path/filepath"
	"strconv"

	"github.com/user-none/eblitui/standalone"

	"github.com/user-none/chlorsnd/adapter"
	"github.com/user-none/chlorsnd/emu"
)

func main() {
	patchPath := flag.String("patch", "", "path to Lua patch script (opens UI if not provided)")
	volume := flag.Int("volume", 100, "output volume in percent, 0-100")
	flag.Parse()

	if *volume < 0 || *volume > 100 {
		log.Fatalf("Invalid volume: %d (use 0-100)", *volume)
	}

	factory := &adapter.Factory{}

	if *patchPath != "" {
		factory.ScriptDir = filepath.Dir(*patchPath)
		options := map[string]string{
			emu.OptionVolume: strconv.Itoa(*volume),
		}
		if err := standalone.RunDirect(factory, *patchPath, "ntsc", options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
