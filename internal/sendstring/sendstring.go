// Package sendstring encodes and plays back send-string payloads.
//
// A payload is plain text mixed with escape sequences. Printable characters
// are typed through a US ANSI layout. A 0x01 prefix introduces a raw key
// operation on the following byte (tap, down or up) or a delay written as
// decimal milliseconds terminated by '|'.
package sendstring

import (
	"strconv"
	"strings"

	"github.com/dshills/odin75/internal/keycode"
)

// Escape codes.
const (
	Prefix    = 0x01
	CodeTap   = 0x01
	CodeDown  = 0x02
	CodeUp    = 0x03
	CodeDelay = 0x04

	delayEnd = '|'
)

// DefaultInterval is the delay between items in milliseconds.
const DefaultInterval = 16

// Kind is the type of a decoded item.
type Kind uint8

// Item kinds.
const (
	KindSkip Kind = iota
	KindTap
	KindDown
	KindUp
	KindDelay
)

func (k Kind) String() string {
	switch k {
	case KindTap:
		return "tap"
	case KindDown:
		return "down"
	case KindUp:
		return "up"
	case KindDelay:
		return "delay"
	default:
		return "skip"
	}
}

// Item is one decoded operation.
type Item struct {
	Kind  Kind
	Code  keycode.Keycode
	Delay uint32
}

// Tap encodes a tap of kc.
func Tap(kc keycode.Keycode) string { return raw(CodeTap, kc) }

// Down encodes a press of kc.
func Down(kc keycode.Keycode) string { return raw(CodeDown, kc) }

// Up encodes a release of kc.
func Up(kc keycode.Keycode) string { return raw(CodeUp, kc) }

func raw(code byte, kc keycode.Keycode) string {
	return string([]byte{Prefix, code, byte(kc.Basic())})
}

// Delay encodes a pause of ms milliseconds.
func Delay(ms int) string {
	return string([]byte{Prefix, CodeDelay}) + strconv.Itoa(ms) + string(delayEnd)
}

// Hold wraps s in a press and release of mod.
func Hold(mod keycode.Keycode, s string) string {
	return Down(mod) + s + Up(mod)
}

// LCtl types s with left control held.
func LCtl(s string) string { return Hold(keycode.LCtrl, s) }

// LSft types s with left shift held.
func LSft(s string) string { return Hold(keycode.LShift, s) }

// LAlt types s with left alt held.
func LAlt(s string) string { return Hold(keycode.LAlt, s) }

// LGui types s with left GUI held.
func LGui(s string) string { return Hold(keycode.LGUI, s) }

// Repeat returns s repeated n times.
func Repeat(s string, n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(s, n)
}

// Web opens address in a new browser tab.
func Web(address string) string {
	return LCtl("t") + address + LCtl("\n")
}

// Browse opens the browser home page and navigates to address.
func Browse(address string) string {
	return Tap(keycode.WWWHome) + Delay(300) + LCtl("l") + address + LCtl("\n")
}

// Start launches program by searching for it in the start menu.
func Start(program string) string {
	return Tap(keycode.LGUI) + Delay(200) + program + Delay(200) + "\n" + Delay(650)
}

// Decode reads the item starting at pos and returns it with the position of
// the next item. At the end of s it returns pos unchanged.
func Decode(s string, pos int) (Item, int) {
	if pos >= len(s) {
		return Item{}, pos
	}
	c := s[pos]
	if c != Prefix {
		kc, ok := ASCII(c)
		if !ok {
			return Item{Kind: KindSkip}, pos + 1
		}
		return Item{Kind: KindTap, Code: kc}, pos + 1
	}

	if pos+1 >= len(s) {
		return Item{Kind: KindSkip}, len(s)
	}
	switch code := s[pos+1]; code {
	case CodeTap, CodeDown, CodeUp:
		if pos+2 >= len(s) {
			return Item{Kind: KindSkip}, len(s)
		}
		kind := KindTap
		if code == CodeDown {
			kind = KindDown
		} else if code == CodeUp {
			kind = KindUp
		}
		return Item{Kind: kind, Code: keycode.Keycode(s[pos+2])}, pos + 3
	case CodeDelay:
		i := pos + 2
		var ms uint32
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			ms = ms*10 + uint32(s[i]-'0')
			i++
		}
		if i < len(s) && s[i] == delayEnd {
			i++
		}
		return Item{Kind: KindDelay, Delay: ms}, i
	default:
		return Item{Kind: KindSkip}, pos + 2
	}
}

// Parse decodes every item of s.
func Parse(s string) []Item {
	var items []Item
	for pos := 0; pos < len(s); {
		var it Item
		it, pos = Decode(s, pos)
		if it.Kind != KindSkip {
			items = append(items, it)
		}
	}
	return items
}
