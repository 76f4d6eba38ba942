// Package adapter exposes the synth to eblitui frontends. The "ROM" a
// frontend loads is a Lua patch script.
package adapter

import (
	"fmt"

	emucore "github.com/user-none/eblitui/api"

	"github.com/user-none/chlorsnd/emu"
	"github.com/user-none/chlorsnd/patch"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the synth.
type Factory struct {
	// ScriptDir resolves relative sample paths in patches. Empty means the
	// working directory.
	ScriptDir string
}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	buttons := make([]emucore.Button, emu.NumChannels)
	pads := [emu.NumChannels]string{"Y", "B", "A", "X", "L1", "R1", "Select", "Start"}
	for i := range buttons {
		buttons[i] = emucore.Button{
			Name:       fmt.Sprintf("Ch%d", i+1),
			ID:         emu.ButtonChannelBase + i,
			DefaultKey: fmt.Sprintf("%d", i+1),
			DefaultPad: pads[i],
		}
	}

	return emucore.SystemInfo{
		Name:            emu.Name,
		ConsoleName:     "ChlorSND",
		Extensions:      []string{".lua"},
		ScreenWidth:     emu.ScopeWidth,
		MaxScreenHeight: emu.ScopeHeight,
		AspectRatio:     float64(emu.ScopeWidth) / float64(emu.ScopeHeight),
		SampleRate:      emu.SampleRate,
		Buttons:         buttons,
		Players:         1,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         emu.OptionVolume,
				Label:       "Output Volume",
				Description: "Master output level in percent",
				Type:        emucore.CoreOptionRange,
				Default:     "100",
				Min:         0,
				Max:         100,
				Step:        5,
				Category:    emucore.CoreOptionCategoryAudio,
			},
		},
		DataDirName: emu.Name,
		CoreName:    emu.Name,
		CoreVersion: emu.Version,
	}
}

// CreateEmulator runs rom as a patch script against a fresh chip. The
// region is ignored.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	chip := emu.New()
	if err := patch.RunString(chip, string(rom), f.ScriptDir); err != nil {
		return nil, err
	}
	return emu.NewEmulator(chip, emu.SampleRate, emu.DefaultFPS), nil
}

// DetectRegion always reports NTSC. The bool return is false since no
// database lookup is involved.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emucore.RegionNTSC, false
}
