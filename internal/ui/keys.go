package ui

import (
	"fmt"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

var specialKeys = map[tcell.Key]string{
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "backtab",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyDelete:     "delete",
	tcell.KeyInsert:     "insert",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
}

// KeyName turns a key event into a keymap key name.
func KeyName(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	key := ev.Key()

	if key == tcell.KeyRune {
		r := ev.Rune()
		name := string(unicode.ToLower(r))
		if r == ' ' {
			name = "space"
		}
		// Shift is already folded into the rune.
		if mods&tcell.ModAlt != 0 {
			name = "alt+" + name
		}
		if mods&tcell.ModCtrl != 0 {
			name = "ctrl+" + name
		}
		return name
	}

	name, ok := specialKeys[key]
	if !ok {
		switch {
		case key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ:
			return fmt.Sprintf("ctrl+%c", 'a'+rune(key-tcell.KeyCtrlA))
		case key >= tcell.KeyF1 && key <= tcell.KeyF12:
			name = fmt.Sprintf("f%d", int(key-tcell.KeyF1)+1)
		default:
			return ""
		}
	}

	prefix := ""
	if mods&tcell.ModCtrl != 0 {
		prefix += "ctrl+"
	}
	if mods&tcell.ModAlt != 0 {
		prefix += "alt+"
	}
	if mods&tcell.ModShift != 0 {
		prefix += "shift+"
	}
	return prefix + name
}
