// Package patch runs Lua scripts that program a chip through its register
// bus. A patch sets up sample memory, envelopes and channels, leaving the
// chip ready to render.
//
// Globals available to scripts:
//
//	poke(reg, value)            write one register byte
//	poke16(reg, value)          write a 16-bit register, low byte first
//	peek(reg)                   read one register byte
//	upload(addr, {bytes...})    copy bytes into sample memory
//	sample(path, addr[, rate])  load a WAV/MP3 into sample memory, returns length
//	select_channels(mask)       set the channel broadcast mask
//	select_envelopes(mask)      set the envelope broadcast mask
//	envelope(mask, {...})       program envelopes: multiplier, stride, hold, control, entries
//	channel(mask, {...})        program channels: volume_l, volume_r, rate, amp_eg,
//	                            stage0, stage1, loop_start, loop_end, control
//
// Register addresses are exported as constants (REG_CONTROL, ENV_STRIDE,
// CH_LOOP_START, ...).
package patch

import (
	"fmt"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/user-none/chlorsnd/emu"
)

// Target is the register bus a patch programs.
type Target interface {
	Poke(reg uint16, val uint8)
	Peek(reg uint16) uint8
}

// Run executes the patch file at path against t. Relative sample paths
// inside the script resolve against the script's directory.
func Run(t Target, path string) error {
	L := newState(t, filepath.Dir(path))
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("patch: %s: %w", filepath.Base(path), err)
	}
	return nil
}

// RunString executes patch source against t. Relative sample paths
// resolve against dir.
func RunString(t Target, src, dir string) error {
	L := newState(t, dir)
	defer L.Close()

	if err := L.DoString(src); err != nil {
		return fmt.Errorf("patch: %w", err)
	}
	return nil
}

// newState builds an interpreter with the standard libraries and the chip
// API installed.
func newState(t Target, dir string) *lua.LState {
	L := lua.NewState()
	a := &api{t: t, dir: dir}

	for name, fn := range map[string]lua.LGFunction{
		"poke":             a.poke,
		"poke16":           a.poke16,
		"peek":             a.peek,
		"upload":           a.upload,
		"sample":           a.sample,
		"select_channels":  a.selectChannels,
		"select_envelopes": a.selectEnvelopes,
		"envelope":         a.envelope,
		"channel":          a.channel,
	} {
		L.SetGlobal(name, L.NewFunction(fn))
	}
	for name, v := range constants {
		L.SetGlobal(name, lua.LNumber(v))
	}
	return L
}

var constants = map[string]int{
	"REG_CONTROL":        emu.RegControl,
	"REG_CHANNEL_SELECT": emu.RegChannelSelect,
	"REG_ENV_SELECT":     emu.RegEnvSelect,
	"REG_WRITE_PTR":      emu.RegWritePtr,
	"REG_WRITE_DATA":     emu.RegWriteData,

	"ENV_CONTROL":    emu.EnvPortBase + emu.EnvControl,
	"ENV_MULTIPLIER": emu.EnvPortBase + emu.EnvMultiplier,
	"ENV_HOLD_POINT": emu.EnvPortBase + emu.EnvHoldPoint,
	"ENV_STRIDE":     emu.EnvPortBase + emu.EnvStride,
	"ENV_ENTRIES":    emu.EnvPortBase + emu.EnvEntries,
	"ENV_KEY_RESET":  emu.EnvKeyReset,
	"ENV_KEY_ON":     emu.EnvKeyOn,

	"CH_CONTROL":         emu.ChannelPortBase + emu.ChControl,
	"CH_VOLUME_L":        emu.ChannelPortBase + emu.ChVolumeL,
	"CH_VOLUME_R":        emu.ChannelPortBase + emu.ChVolumeR,
	"CH_ACCUMULATOR_MAX": emu.ChannelPortBase + emu.ChAccumulatorMax,
	"CH_AMPLITUDE_EG":    emu.ChannelPortBase + emu.ChAmplitudeEG,
	"CH_STAGE0_EGS":      emu.ChannelPortBase + emu.ChStage0EGs,
	"CH_STAGE1_EGS":      emu.ChannelPortBase + emu.ChStage1EGs,
	"CH_LOOP_START":      emu.ChannelPortBase + emu.ChLoopStart,
	"CH_LOOP_END":        emu.ChannelPortBase + emu.ChLoopEnd,
	"CH_RUN_START":       emu.ChannelPortBase + emu.ChRunStart,
	"CH_RUN_END":         emu.ChannelPortBase + emu.ChRunEnd,
	"CH_KEY_RESET":       emu.ChKeyReset,

	"MEMORY_SIZE":   emu.MemorySize,
	"NUM_CHANNELS":  emu.NumChannels,
	"NUM_ENVELOPES": emu.NumEnvelopes,
}
