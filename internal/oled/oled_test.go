package oled

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/odin75/internal/display"
	"github.com/dshills/odin75/internal/hid"
	"github.com/dshills/odin75/internal/layer"
	"github.com/dshills/odin75/internal/macro"
	"github.com/dshills/odin75/internal/renderer/bitmap"
	"github.com/dshills/odin75/internal/settings"
	"github.com/dshills/odin75/internal/timer"
)

var testLayers = []layer.Info{
	{Name: "Base"},
	{Name: "Num", Prefix: true},
	{Name: "Func"},
	{Name: "Macro"},
	{Name: "Confg"},
	{Name: "Mou", Prefix: true},
}

type fakeTelemetry struct{ wpm uint8 }

func (f *fakeTelemetry) CurrentWPM() uint8 { return f.wpm }

type fakeStatus struct{ st Status }

func (f *fakeStatus) OLEDStatus() Status { return f.st }

type fixture struct {
	task   *Task
	fb     *display.Framebuffer
	clock  *timer.Manual
	tel    *fakeTelemetry
	status *fakeStatus
	values *settings.Values
}

func newFixture(opts ...Option) *fixture {
	v := settings.Defaults()
	f := &fixture{
		fb:     display.NewFramebuffer(),
		clock:  timer.NewManual(0),
		tel:    &fakeTelemetry{},
		status: &fakeStatus{},
		values: &v,
	}
	opts = append([]Option{WithLayers(testLayers, 4)}, opts...)
	f.task = NewTask(f.fb, f.clock, f.tel, f.status, f.values, opts...)
	return f
}

// frame advances one frame interval and runs the task.
func (f *fixture) frame() bool {
	f.clock.Advance(f.task.FrameInterval())
	return f.task.Task()
}

// pastNotice advances beyond any notice.
func (f *fixture) pastNotice() {
	f.clock.Advance(NoticeTime + 1)
	f.task.Task()
}

func fill(n int, b byte) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

// ==================== Frame Pacing Tests ====================

func TestTaskFrameLimit(t *testing.T) {
	f := newFixture()
	assert.Equal(t, uint32(33), f.task.FrameInterval())

	f.clock.Set(10)
	assert.False(t, f.task.Task())
	f.clock.Set(33)
	assert.True(t, f.task.Task())
	f.clock.Set(40)
	assert.False(t, f.task.Task())
	f.clock.Set(65)
	assert.False(t, f.task.Task())
	f.clock.Set(66)
	assert.True(t, f.task.Task())
}

func TestTaskWithFPS(t *testing.T) {
	f := newFixture(WithFPS(10))
	assert.Equal(t, uint32(100), f.task.FrameInterval())
}

// ==================== Boot And Notice Tests ====================

func TestBootGreeting(t *testing.T) {
	f := newFixture()
	assert.Equal(t, ModeBooting, f.task.Mode())

	require.True(t, f.frame())
	assert.Equal(t, Greeting, f.fb.Text())
	assert.Equal(t, ModeBooting, f.task.Mode())

	f.pastNotice()
	assert.Equal(t, ModeInfo, f.task.Mode())
	assert.True(t, strings.HasPrefix(f.fb.Text(), "\n Layer: Base\n"))
}

func TestShowMacroNotice(t *testing.T) {
	f := newFixture()
	f.pastNotice()
	clears := f.fb.Clears()

	f.task.ShowMacro("Web", "Twitch.tv")
	assert.Equal(t, clears+1, f.fb.Clears())
	assert.Equal(t, ModeNotice, f.task.Mode())

	f.frame()
	assert.Equal(t, "\n Send Macro\n Type\x1AWeb\n Name\x1ATwitch.tv", f.fb.Text())

	// The notice is still up at exactly NoticeTime.
	f.clock.Advance(NoticeTime - f.task.FrameInterval())
	f.task.Task()
	assert.Equal(t, ModeNotice, f.task.Mode())
	assert.Contains(t, f.fb.Text(), "Send Macro")

	f.clock.Advance(f.task.FrameInterval())
	f.task.Task()
	assert.Equal(t, ModeInfo, f.task.Mode())
	assert.Contains(t, f.fb.Text(), "Layer:")
}

func TestShowFeatureOverridesScene(t *testing.T) {
	f := newFixture()
	f.values.ShowInfo = false
	f.pastNotice()
	assert.Equal(t, ModeScene, f.task.Mode())

	f.task.ShowFeature("EEPROM", "Save Config")
	f.frame()
	assert.Equal(t, "\n Feature\n Type\x1AEEPROM\n Name\x1ASave Config", f.fb.Text())

	f.pastNotice()
	assert.Equal(t, ModeScene, f.task.Mode())
}

// ==================== Info Screen Tests ====================

func TestInfoText(t *testing.T) {
	tests := []struct {
		name string
		st   Status
		want string
	}{
		{
			name: "idle",
			want: "\n Layer: Base\n Macro1:Empty\n Macro2:Empty\n State: \n\n Speed: 0wpm",
		},
		{
			name: "prefix layers",
			st:   Status{Layers: 1<<1 | 1<<2 | 1<<5},
			want: "\n Layer: Num\x07Mou\x07Func\n Macro1:Empty\n Macro2:Empty\n State: \n\n Speed: 0wpm",
		},
		{
			name: "exact wrap",
			st:   Status{Layers: 1<<1 | 1<<3 | 1<<5},
			want: "\n Layer: Num\x07Mou\x07Macro Macro1:Empty\n Macro2:Empty\n State: \n\n Speed: 0wpm",
		},
		{
			name: "macros and leds",
			st: Status{
				Macros: [2]macro.SlotStatus{{State: macro.Set, Size: 3}, {State: macro.Recording}},
				LEDs:   hid.LEDState{CapsLock: true, ScrollLock: true},
			},
			want: "\n Layer: Base\n Macro1:Set 3\n Macro2:Recording\n State: CAP SCR \n\n Speed: 0wpm",
		},
		{
			name: "caps word",
			st:   Status{CapsWord: true, LEDs: hid.LEDState{CapsLock: true, NumLock: true, ScrollLock: true}},
			want: "\n Layer: Base\n Macro1:Empty\n Macro2:Empty\n State: CAPS_WORD\n\n Speed: 0wpm",
		},
		{
			name: "config layer",
			st:   Status{Layers: 1 << 4},
			want: "\n Layer: Confg\n Base Delay: 200ms\n Ctrl Delay: 150ms\n Bksp Delay: 175ms\n\n Brightness: 100/250",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.status.st = tt.st
			f.pastNotice()
			assert.Equal(t, tt.want, f.fb.Text())
		})
	}
}

func TestInfoSpeed(t *testing.T) {
	f := newFixture()
	f.pastNotice()
	f.tel.wpm = 80
	for i := 0; i < 60; i++ {
		f.frame()
	}
	assert.Equal(t, 79, f.task.SmoothedWPM())
	assert.True(t, strings.HasSuffix(f.fb.Text(), " Speed: 79wpm"))
}

// ==================== Toggle Tests ====================

func TestTogglePrecedence(t *testing.T) {
	f := newFixture()
	f.pastNotice()
	require.True(t, f.values.ShowInfo)

	f.task.ToggleAnimation()
	assert.False(t, f.values.ShowInfo)
	assert.Equal(t, SceneTotoro, f.task.Scene())

	f.task.ToggleAnimation()
	assert.Equal(t, SceneNeko, f.task.Scene())

	f.task.ToggleInfo()
	assert.True(t, f.values.ShowInfo)
	assert.Equal(t, SceneNeko, f.task.Scene())

	f.task.ToggleInfo()
	assert.False(t, f.task.Enabled())
	assert.Equal(t, ModeDisabled, f.task.Mode())
	f.frame()
	assert.False(t, f.fb.On())

	f.task.ToggleAnimation()
	assert.True(t, f.task.Enabled())
	assert.False(t, f.values.ShowInfo)
	assert.Equal(t, SceneNeko, f.task.Scene())

	f.task.ToggleInfo()
	f.task.ToggleInfo()
	f.task.ToggleInfo()
	assert.True(t, f.task.Enabled())
	assert.True(t, f.values.ShowInfo)
}

func TestToggleAnimationWraps(t *testing.T) {
	f := newFixture()
	f.values.ShowInfo = false
	f.values.Scene = uint8(SceneCharacters)
	f.task.ToggleAnimation()
	assert.Equal(t, SceneTotoro, f.task.Scene())

	f.values.Scene = 14
	assert.Equal(t, Scene(4), f.task.Scene())
}

func TestClearOnInfoChange(t *testing.T) {
	f := newFixture()
	f.frame()
	assert.Equal(t, 1, f.fb.Clears())
	f.frame()
	assert.Equal(t, 1, f.fb.Clears())

	f.values.ShowInfo = false
	f.frame()
	assert.Equal(t, 2, f.fb.Clears())
}

// ==================== Scene Tests ====================

func TestRevealScenes(t *testing.T) {
	assets := &Assets{}
	assets[SceneNeko] = Art{Full: fill(bitmap.FrameSize, 0xAA), Front: fill(bitmap.FrameSize, 0x55)}
	assets[SceneTotoro] = Art{Full: fill(bitmap.FrameSize, 0xAA), Front: fill(bitmap.FrameSize, 0x55)}
	assets[SceneWhale] = Art{Full: fill(bitmap.FrameSize, 0xAA), Front: fill(bitmap.FrameSize, 0x55)}

	tests := []struct {
		scene Scene
		wpm   uint8
		want  byte
	}{
		{SceneNeko, 0, 0xAA},
		{SceneNeko, 255, 0x55},
		{SceneTotoro, 0, 0x55},
		{SceneTotoro, 255, 0xAA},
		{SceneWhale, 0, 0xAA},
		{SceneWhale, 255, 0x55},
	}

	for _, tt := range tests {
		t.Run(tt.scene.String(), func(t *testing.T) {
			f := newFixture(WithAssets(assets))
			f.values.ShowInfo = false
			f.values.Scene = uint8(tt.scene)
			f.tel.wpm = tt.wpm
			f.pastNotice()
			for i := 0; i < 40; i++ {
				f.frame()
			}
			assert.Equal(t, fill(bitmap.FrameSize, tt.want), f.fb.Bytes())
		})
	}
}

func TestScrollScenesAdvance(t *testing.T) {
	f := newFixture()
	f.values.ShowInfo = false
	f.values.Scene = uint8(SceneFaces)
	f.pastNotice()

	f.frame()
	assert.Equal(t, 0, f.task.anim.motion[SceneFaces].Position)

	f.tel.wpm = 100
	for i := 0; i < 10; i++ {
		f.frame()
	}
	pos := f.task.anim.motion[SceneFaces].Position
	assert.Greater(t, pos, 0)
	assert.Less(t, pos, FacesWidth*1000)
	assert.Zero(t, f.task.anim.motion[SceneCat].Position, "other scenes keep their own motion")
}

func TestSnapSceneSettles(t *testing.T) {
	f := newFixture()
	f.values.ShowInfo = false
	f.values.Scene = uint8(SceneCharacters)
	f.pastNotice()

	f.tel.wpm = 120
	for i := 0; i < 30; i++ {
		f.frame()
	}
	f.tel.wpm = 0
	for i := 0; i < 2000; i++ {
		f.frame()
	}
	m := f.task.anim.motion[SceneCharacters]
	assert.Zero(t, m.Velocity)
	assert.Zero(t, m.Position%(104*1000))
}

// ==================== TextBuffer Tests ====================

func TestTextBufferTruncates(t *testing.T) {
	var b TextBuffer
	long := strings.Repeat("x", 200)
	assert.Equal(t, 200, b.Printf("%s", long))
	assert.Equal(t, TextCapacity-1, b.Len())

	assert.Equal(t, TextCapacity-1+3, b.Appendf("abc"))
	assert.Equal(t, TextCapacity-1, b.Len())

	b.Printf("\n Layer: ")
	assert.Equal(t, 13, b.Appendf("%s", "Base"))
	assert.Equal(t, "\n Layer: Base", b.String())

	b.Reset()
	assert.Equal(t, "", b.String())
}
