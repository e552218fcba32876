package sendstring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/odin75/internal/keycode"
)

type opHost struct {
	ops []string
}

func (h *opHost) Register(kc keycode.Keycode)   { h.ops = append(h.ops, fmt.Sprintf("+%02X", uint16(kc))) }
func (h *opHost) Unregister(kc keycode.Keycode) { h.ops = append(h.ops, fmt.Sprintf("-%02X", uint16(kc))) }
func (h *opHost) Tap(kc keycode.Keycode)        { h.ops = append(h.ops, fmt.Sprintf("%04X", uint16(kc))) }

// ==================== Encoding Tests ====================

func TestBuilders(t *testing.T) {
	assert.Equal(t, "\x01\x01\x2B", Tap(keycode.Tab))
	assert.Equal(t, "\x01\x02\xE0", Down(keycode.LCtrl))
	assert.Equal(t, "\x01\x03\xE0", Up(keycode.LCtrl))
	assert.Equal(t, "\x01\x04300|", Delay(300))
	assert.Equal(t, "\x01\x02\xE2vps\x01\x03\xE2", LAlt("vps"))
	assert.Equal(t, "abab", Repeat("ab", 2))
	assert.Equal(t, "", Repeat("ab", 0))
}

func TestParse(t *testing.T) {
	items := Parse(LCtl(LSft("s")) + Delay(300) + Repeat(Tap(keycode.Tab), 2) + "D!")

	want := []Item{
		{Kind: KindDown, Code: keycode.LCtrl},
		{Kind: KindDown, Code: keycode.LShift},
		{Kind: KindTap, Code: keycode.S},
		{Kind: KindUp, Code: keycode.LShift},
		{Kind: KindUp, Code: keycode.LCtrl},
		{Kind: KindDelay, Delay: 300},
		{Kind: KindTap, Code: keycode.Tab},
		{Kind: KindTap, Code: keycode.Tab},
		{Kind: KindTap, Code: keycode.Sft(keycode.D)},
		{Kind: KindTap, Code: keycode.Sft(keycode.N1)},
	}
	assert.Equal(t, want, items)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Item
	}{
		{"trailing prefix", "a\x01", []Item{{Kind: KindTap, Code: keycode.A}}},
		{"tap without code", "\x01\x01", nil},
		{"unknown escape", "\x01\x09b", []Item{{Kind: KindTap, Code: keycode.B}}},
		{"unterminated delay", "\x01\x0425", []Item{{Kind: KindDelay, Delay: 25}}},
		{"non ascii", "\x80c", []Item{{Kind: KindTap, Code: keycode.C}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestASCII(t *testing.T) {
	tests := []struct {
		c    byte
		want keycode.Keycode
	}{
		{'a', keycode.A},
		{'Z', keycode.Sft(keycode.Z)},
		{'0', keycode.N0},
		{'7', keycode.N7},
		{'\n', keycode.Enter},
		{' ', keycode.Space},
		{'.', keycode.Dot},
		{'/', keycode.Slash},
		{'?', keycode.Sft(keycode.Slash)},
		{'|', keycode.Sft(keycode.Backslash)},
		{'"', keycode.Sft(keycode.Quote)},
	}
	for _, tt := range tests {
		got, ok := ASCII(tt.c)
		require.True(t, ok, "%q", tt.c)
		assert.Equal(t, tt.want, got, "%q", tt.c)
	}

	_, ok := ASCII(0x02)
	assert.False(t, ok)
	_, ok = ASCII(0xC8)
	assert.False(t, ok)
}

func TestMacroHelpers(t *testing.T) {
	web := Parse(Web("x"))
	require.Len(t, web, 7)
	assert.Equal(t, Item{Kind: KindTap, Code: keycode.T}, web[1])
	assert.Equal(t, Item{Kind: KindTap, Code: keycode.X}, web[3])
	assert.Equal(t, Item{Kind: KindTap, Code: keycode.Enter}, web[5])

	start := Parse(Start("ff"))
	assert.Equal(t, []Item{
		{Kind: KindTap, Code: keycode.LGUI},
		{Kind: KindDelay, Delay: 200},
		{Kind: KindTap, Code: keycode.F},
		{Kind: KindTap, Code: keycode.F},
		{Kind: KindDelay, Delay: 200},
		{Kind: KindTap, Code: keycode.Enter},
		{Kind: KindDelay, Delay: 650},
	}, start)

	browse := Parse(Browse("y"))
	assert.Equal(t, Item{Kind: KindTap, Code: keycode.WWWHome}, browse[0])
	assert.Equal(t, Item{Kind: KindDelay, Delay: 300}, browse[1])
}

// ==================== Sender Tests ====================

func TestSenderSteps(t *testing.T) {
	h := &opHost{}
	s := NewSender("a"+Delay(100)+LCtl("b"), DefaultInterval)

	assert.Equal(t, uint32(16), s.Step(h))
	assert.Equal(t, []string{"0004"}, h.ops)

	assert.Equal(t, uint32(116), s.Step(h), "delay item adds to the interval")
	assert.Len(t, h.ops, 1)

	assert.Equal(t, uint32(16), s.Step(h))
	assert.Equal(t, []keycode.Keycode{keycode.LCtrl}, s.Held())
	assert.Equal(t, uint32(16), s.Step(h))
	assert.Equal(t, uint32(0), s.Step(h), "last item finishes the payload")
	assert.True(t, s.Done())
	assert.Empty(t, s.Held())

	assert.Equal(t, []string{"0004", "+E0", "0005", "-E0"}, h.ops)
	assert.Equal(t, uint32(0), s.Step(h))
}

func TestSenderZeroInterval(t *testing.T) {
	h := &opHost{}
	s := NewSender("ab", 0)
	assert.Equal(t, uint32(1), s.Step(h), "a continuing payload never asks for a zero delay")
	assert.Equal(t, uint32(0), s.Step(h))
}

func TestSenderRelease(t *testing.T) {
	h := &opHost{}
	s := NewSender(LCtl(LSft("s"))+"tail", DefaultInterval)
	s.Step(h)
	s.Step(h)
	require.Len(t, s.Held(), 2)

	s.Release(h)
	assert.Equal(t, []string{"+E0", "+E1", "-E1", "-E0"}, h.ops)
	assert.True(t, s.Done())
	assert.Equal(t, uint32(0), s.Step(h))
}
