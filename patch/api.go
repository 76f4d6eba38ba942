package patch

import (
	"path/filepath"

	lua "github.com/yuin/gopher-lua"

	"github.com/user-none/chlorsnd/emu"
	"github.com/user-none/chlorsnd/pcm"
)

// api binds script globals to a target.
type api struct {
	t   Target
	dir string
}

func (a *api) poke(L *lua.LState) int {
	a.t.Poke(checkReg(L, 1), uint8(L.CheckInt(2)))
	return 0
}

func (a *api) poke16(L *lua.LState) int {
	reg := checkReg(L, 1)
	v := L.CheckInt(2)
	a.poke16Reg(reg, uint16(v))
	return 0
}

func (a *api) poke16Reg(reg, v uint16) {
	a.t.Poke(reg, uint8(v))
	a.t.Poke(reg+1, uint8(v>>8))
}

func (a *api) peek(L *lua.LState) int {
	L.Push(lua.LNumber(a.t.Peek(checkReg(L, 1))))
	return 1
}

func (a *api) upload(L *lua.LState) int {
	addr := checkReg(L, 1)
	tbl := L.CheckTable(2)

	data := make([]byte, tbl.Len())
	for i := range data {
		v, ok := tbl.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			L.ArgError(2, "byte table must hold numbers")
		}
		data[i] = byte(int(v))
	}
	if err := pcm.Upload(a.t, addr, data); err != nil {
		L.RaiseError("upload: %v", err)
	}
	return 0
}

func (a *api) sample(L *lua.LState) int {
	path := L.CheckString(1)
	addr := checkReg(L, 2)
	rate := L.OptInt(3, 0)

	if !filepath.IsAbs(path) {
		path = filepath.Join(a.dir, path)
	}
	s, err := pcm.LoadAt(path, rate)
	if err != nil {
		L.RaiseError("sample %s: %v", path, err)
	}
	if err := pcm.Upload(a.t, addr, s.Bytes()); err != nil {
		L.RaiseError("sample %s: %v", path, err)
	}

	L.Push(lua.LNumber(len(s.Data)))
	return 1
}

func (a *api) selectChannels(L *lua.LState) int {
	a.t.Poke(emu.RegChannelSelect, uint8(L.CheckInt(1)))
	return 0
}

func (a *api) selectEnvelopes(L *lua.LState) int {
	a.poke16Reg(emu.RegEnvSelect, uint16(L.CheckInt(1)))
	return 0
}

// envelope programs every envelope in mask from a field table. Absent
// fields are left alone; control is written last so a key-reset applies
// to the new table.
func (a *api) envelope(L *lua.LState) int {
	mask := uint16(L.CheckInt(1))
	tbl := L.CheckTable(2)
	a.poke16Reg(emu.RegEnvSelect, mask)

	a.optByte(L, tbl, "multiplier", emu.EnvPortBase+emu.EnvMultiplier)
	a.optByte(L, tbl, "stride", emu.EnvPortBase+emu.EnvStride)
	a.optByte(L, tbl, "hold", emu.EnvPortBase+emu.EnvHoldPoint)
	a.optBytes(L, tbl, "entries", emu.EnvPortBase+emu.EnvEntries, 40)
	a.optByte(L, tbl, "control", emu.EnvPortBase+emu.EnvControl)
	return 0
}

// channel programs every channel in mask from a field table. Absent
// fields are left alone; control is written last.
func (a *api) channel(L *lua.LState) int {
	mask := uint8(L.CheckInt(1))
	tbl := L.CheckTable(2)
	a.t.Poke(emu.RegChannelSelect, mask)

	a.optByte(L, tbl, "volume_l", emu.ChannelPortBase+emu.ChVolumeL)
	a.optByte(L, tbl, "volume_r", emu.ChannelPortBase+emu.ChVolumeR)
	a.optWord(L, tbl, "rate", emu.ChannelPortBase+emu.ChAccumulatorMax)
	a.optByte(L, tbl, "amp_eg", emu.ChannelPortBase+emu.ChAmplitudeEG)
	a.optBytes(L, tbl, "stage0", emu.ChannelPortBase+emu.ChStage0EGs, 5)
	a.optBytes(L, tbl, "stage1", emu.ChannelPortBase+emu.ChStage1EGs, 5)
	a.optWord(L, tbl, "loop_start", emu.ChannelPortBase+emu.ChLoopStart)
	a.optWord(L, tbl, "loop_end", emu.ChannelPortBase+emu.ChLoopEnd)
	a.optWord(L, tbl, "control", emu.ChannelPortBase+emu.ChControl)
	return 0
}

// field returns a numeric table field, or false when absent.
func field(L *lua.LState, tbl *lua.LTable, key string) (int, bool) {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return 0, false
	}
	n, ok := v.(lua.LNumber)
	if !ok {
		L.RaiseError("field %q must be a number, got %s", key, v.Type())
	}
	return int(n), true
}

func (a *api) optByte(L *lua.LState, tbl *lua.LTable, key string, reg uint16) {
	if v, ok := field(L, tbl, key); ok {
		a.t.Poke(reg, uint8(v))
	}
}

func (a *api) optWord(L *lua.LState, tbl *lua.LTable, key string, reg uint16) {
	if v, ok := field(L, tbl, key); ok {
		a.poke16Reg(reg, uint16(v))
	}
}

// optBytes writes up to limit consecutive registers from an array field.
func (a *api) optBytes(L *lua.LState, tbl *lua.LTable, key string, reg uint16, limit int) {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return
	}
	arr, ok := v.(*lua.LTable)
	if !ok {
		L.RaiseError("field %q must be a table, got %s", key, v.Type())
	}
	n := min(arr.Len(), limit)
	for i := 0; i < n; i++ {
		b, ok := arr.RawGetInt(i + 1).(lua.LNumber)
		if !ok {
			L.RaiseError("field %q[%d] must be a number", key, i+1)
		}
		a.t.Poke(reg+uint16(i), uint8(int(b)))
	}
}

// checkReg reads a 16-bit register or address argument.
func checkReg(L *lua.LState, n int) uint16 {
	v := L.CheckInt(n)
	if v < 0 || v > 0xFFFF {
		L.ArgError(n, "register out of range")
	}
	return uint16(v)
}
