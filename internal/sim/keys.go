package sim

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/odin75/internal/keyboard"
	kc "github.com/dshills/odin75/internal/keycode"
)

// KeyName returns the binding name of a terminal key event: the rune itself
// for printable keys, optionally prefixed with "Alt+", and tcell's key name
// otherwise ("Enter", "F5", "Ctrl+L").
func KeyName(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyRune:
		name := string(ev.Rune())
		if ev.Modifiers()&tcell.ModAlt != 0 {
			return "Alt+" + name
		}
		return name
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "Backspace"
	}
	return strings.Replace(ev.Name(), "Ctrl-", "Ctrl+", 1)
}

// DefaultBindings maps terminal keys onto the base layer. Shifted runes map
// to the same key as their unshifted form.
func DefaultBindings() map[string]kc.Keycode {
	b := map[string]kc.Keycode{
		"Esc":       kc.TD(keyboard.EscFuck),
		"Enter":     kc.Enter,
		"Tab":       keyboard.TabLayer,
		"Backspace": kc.Backspace,
		"Delete":    kc.Delete,
		"Insert":    kc.Insert,
		"Home":      kc.TD(keyboard.DanceHome),
		"End":       kc.TD(keyboard.DanceEnd),
		"PgUp":      kc.TD(keyboard.DancePgUp),
		"PgDn":      kc.TD(keyboard.DancePgDn),
		"Up":        kc.Up,
		"Down":      kc.Down,
		"Left":      kc.Left,
		"Right":     kc.Right,
		" ":         kc.Space,
		"\\":        kc.TD(keyboard.BkspBsl),
		"|":         kc.TD(keyboard.BkspBsl),
	}

	for i := 0; i < 26; i++ {
		b[string(rune('a'+i))] = kc.A + kc.Keycode(i)
		b[string(rune('A'+i))] = kc.A + kc.Keycode(i)
	}
	digits := "1234567890"
	shifted := "!@#$%^&*()"
	for i := range digits {
		b[digits[i:i+1]] = kc.N1 + kc.Keycode(i)
		b[shifted[i:i+1]] = kc.N1 + kc.Keycode(i)
	}
	for _, p := range []struct {
		plain, shift string
		code         kc.Keycode
	}{
		{"-", "_", kc.Minus},
		{"=", "+", kc.Equal},
		{"[", "{", kc.LeftBracket},
		{"]", "}", kc.RightBracket},
		{";", ":", kc.Semicolon},
		{"'", "\"", kc.Quote},
		{",", "<", kc.Comma},
		{".", ">", kc.Dot},
		{"/", "?", kc.Slash},
		{"`", "~", kc.Grave},
	} {
		b[p.plain] = p.code
		b[p.shift] = p.code
	}

	fkeys := []kc.Keycode{kc.F1, kc.F2, kc.F3, kc.F4, kc.F5, kc.F6, kc.F7, kc.F8, kc.F9, kc.F10, kc.F11, kc.F12}
	for i, code := range fkeys {
		b[tcell.KeyNames[tcell.KeyF1+tcell.Key(i)]] = code
	}
	return b
}
