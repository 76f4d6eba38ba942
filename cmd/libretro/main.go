package main

import (
	libretro "github.com/user-none/eblitui/libretro"

	"github.com/user-none/chlorsnd/adapter"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadY, BitID: 4},       // Ch1
		{RetroID: libretro.JoypadB, BitID: 5},       // Ch2
		{RetroID: libretro.JoypadA, BitID: 6},       // Ch3
		{RetroID: libretro.JoypadX, BitID: 7},       // Ch4
		{RetroID: libretro.JoypadL, BitID: 8},       // Ch5
		{RetroID: libretro.JoypadR, BitID: 9},       // Ch6
		{RetroID: libretro.JoypadSelect, BitID: 10}, // Ch7
		{RetroID: libretro.JoypadStart, BitID: 11},  // Ch8
	})
}

func main() {}
