// Package hotkey describes global shortcuts and, on Windows, listens for
// them. A Listener registers a set of Hotkeys with RegisterHotKey and calls
// back with the index of whichever one was pressed. One message loop serves
// the whole set.
package hotkey

import (
	"fmt"
	"strings"
)

// Modifier flags for RegisterHotKey.
const (
	ModAlt   = 0x1
	ModCtrl  = 0x2
	ModShift = 0x4
	ModWin   = 0x8
)

// Hotkey is a modifier mask plus a virtual-key code.
type Hotkey struct {
	Mod int
	Key int
}

// String formats h the way Windows shortcuts are written, e.g. "Win+Alt+1".
func (h Hotkey) String() string {
	var parts []string
	for _, m := range []struct {
		flag int
		name string
	}{
		{ModWin, "Win"},
		{ModCtrl, "Ctrl"},
		{ModAlt, "Alt"},
		{ModShift, "Shift"},
	} {
		if h.Mod&m.flag != 0 {
			parts = append(parts, m.name)
		}
	}
	return strings.Join(append(parts, keyName(h.Key)), "+")
}

func keyName(vk int) string {
	switch {
	case vk >= 0x30 && vk <= 0x39, vk >= 0x41 && vk <= 0x5A:
		return string(rune(vk))
	case vk >= 0x60 && vk <= 0x69:
		return fmt.Sprintf("Num%d", vk-0x60)
	case vk >= 0x70 && vk <= 0x87:
		return fmt.Sprintf("F%d", vk-0x6F)
	}
	return fmt.Sprintf("VK_%02X", vk)
}
