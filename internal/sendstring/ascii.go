package sendstring

import kc "github.com/dshills/odin75/internal/keycode"

var asciiTable = func() [128]kc.Keycode {
	var t [128]kc.Keycode
	t['\b'] = kc.Backspace
	t['\t'] = kc.Tab
	t['\n'] = kc.Enter
	t[0x1B] = kc.Escape
	t[' '] = kc.Space
	t[0x7F] = kc.Delete

	for c := 'a'; c <= 'z'; c++ {
		t[c] = kc.A + kc.Keycode(c-'a')
		t[c-'a'+'A'] = kc.Sft(kc.A + kc.Keycode(c-'a'))
	}
	t['0'] = kc.N0
	for c := '1'; c <= '9'; c++ {
		t[c] = kc.N1 + kc.Keycode(c-'1')
	}

	pairs := []struct {
		plain, shifted byte
		key            kc.Keycode
	}{
		{'1', '!', kc.N1},
		{'2', '@', kc.N2},
		{'3', '#', kc.N3},
		{'4', '$', kc.N4},
		{'5', '%', kc.N5},
		{'6', '^', kc.N6},
		{'7', '&', kc.N7},
		{'8', '*', kc.N8},
		{'9', '(', kc.N9},
		{'0', ')', kc.N0},
		{'-', '_', kc.Minus},
		{'=', '+', kc.Equal},
		{'[', '{', kc.LeftBracket},
		{']', '}', kc.RightBracket},
		{'\\', '|', kc.Backslash},
		{';', ':', kc.Semicolon},
		{'\'', '"', kc.Quote},
		{'`', '~', kc.Grave},
		{',', '<', kc.Comma},
		{'.', '>', kc.Dot},
		{'/', '?', kc.Slash},
	}
	for _, p := range pairs {
		t[p.plain] = p.key
		t[p.shifted] = kc.Sft(p.key)
	}
	return t
}()

// ASCII returns the keycode that types c, with shift applied where needed.
func ASCII(c byte) (kc.Keycode, bool) {
	if c >= 128 || asciiTable[c] == kc.No {
		return kc.No, false
	}
	return asciiTable[c], true
}
