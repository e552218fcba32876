package oled

import (
	"github.com/dshills/odin75/internal/fixed"
	"github.com/dshills/odin75/internal/renderer/bitmap"
)

// Scene selects one of the animated images.
type Scene uint8

// Scenes in cycling order.
const (
	SceneTotoro Scene = iota
	SceneNeko
	SceneGhost
	SceneWhale
	SceneGirl
	SceneDemon
	SceneMai
	SceneFaces
	SceneCat
	SceneCharacters
	SceneCount
)

// Default strip extents in pixels.
const (
	FacesWidth       = 768
	CatWidth         = 360
	CharactersHeight = 832
)

// Motion styles.
const (
	kindReveal = iota
	kindScroll
	kindReversing
	kindSnap
)

type sceneDef struct {
	name   string
	kind   int
	invert bool // mask counts from the bottom
	swap   bool // Front is the revealed layer
	extent int
}

var scenes = [SceneCount]sceneDef{
	SceneTotoro:     {name: "Totoro", kind: kindReveal, invert: true},
	SceneNeko:       {name: "Neko", kind: kindReveal},
	SceneGhost:      {name: "Ghost", kind: kindReveal},
	SceneWhale:      {name: "Whale", kind: kindReveal, invert: true, swap: true},
	SceneGirl:       {name: "Girl", kind: kindReveal},
	SceneDemon:      {name: "Demon", kind: kindReveal},
	SceneMai:        {name: "Mai", kind: kindReveal, invert: true, swap: true},
	SceneFaces:      {name: "Faces", kind: kindScroll, extent: FacesWidth},
	SceneCat:        {name: "Cat", kind: kindReversing, extent: CatWidth},
	SceneCharacters: {name: "Characters", kind: kindSnap, extent: CharactersHeight},
}

func (s Scene) String() string {
	if s < SceneCount {
		return scenes[s].name
	}
	return "Unknown"
}

// Art is the bitmap data of one scene in page layout. Reveal scenes use
// Full and Front; scrolling scenes use Strip, whose length along the scroll
// axis is Extent pixels (zero selects the scene default).
type Art struct {
	Full   []byte
	Front  []byte
	Strip  []byte
	Extent int
}

// Assets holds the art for every scene. Missing art renders blank.
type Assets [SceneCount]Art

// animator holds the per-scene motion state that persists across frames.
type animator struct {
	motion   [SceneCount]fixed.Motion
	reverser fixed.Reverser
}

func newAnimator() animator {
	return animator{reverser: fixed.NewReverser()}
}

// render draws one frame of scene s.
func (a *animator) render(w bitmap.Writer, s Scene, art *Art, ema, mask int) {
	def := &scenes[s]
	extent := art.Extent
	if extent <= 0 {
		extent = def.extent
	}
	m := &a.motion[s]

	switch def.kind {
	case kindReveal:
		if def.invert {
			mask = bitmap.Height - mask
		}
		full, front := art.Full, art.Front
		if def.swap {
			full, front = front, full
		}
		bitmap.SplitRender(w, mask, full, front)
	case kindScroll:
		bitmap.HScrollRender(w, m.Scroll(ema/fixed.WPMDiv, extent), art.Strip, extent)
	case kindReversing:
		bitmap.HScrollRender(w, m.ReversingScroll(&a.reverser, ema, extent), art.Strip, extent)
	case kindSnap:
		bitmap.VScrollRender(w, m.SnapScroll(ema, extent), art.Strip, extent)
	}
}
