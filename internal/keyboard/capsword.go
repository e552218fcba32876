package keyboard

import (
	"github.com/dshills/odin75/internal/deferred"
	kc "github.com/dshills/odin75/internal/keycode"
)

// CapsWordIdle turns caps word off after this long without a key press.
const CapsWordIdle = 5000

// capsWord shifts letters until a word ends. It is turned on by pressing
// both shift keys together. The idle timeout is a deferred executor pushed
// back on every key press.
type capsWord struct {
	sched  *deferred.Scheduler
	token  deferred.Token
	on     bool
	lshift bool
	rshift bool
}

// track follows the shift keys and reports whether caps word just turned on.
func (c *capsWord) track(code kc.Keycode, pressed bool) bool {
	switch code {
	case kc.LShift:
		c.lshift = pressed
	case kc.RShift:
		c.rshift = pressed
	default:
		return false
	}
	if pressed && c.lshift && c.rshift && !c.on {
		c.on = true
		c.token = c.sched.Schedule(CapsWordIdle+1, c)
		return true
	}
	return false
}

// apply returns the code to register for a press while caps word is on.
// Keys that end a word turn it off and pass through unchanged.
func (c *capsWord) apply(code kc.Keycode) kc.Keycode {
	if !c.on {
		return code
	}
	c.sched.Extend(c.token, CapsWordIdle+1)
	base := code.Basic()
	switch {
	case code.IsModifier():
		return code
	case !code.IsBasic() && !code.IsModified(), code&(kc.ModLCtl|kc.ModLAlt|kc.ModLGui) != 0:
		c.stop()
		return code
	case base >= kc.A && base <= kc.Z, base == kc.Minus:
		return code | kc.ModLSft
	case base >= kc.N1 && base <= kc.N0, base == kc.Backspace, base == kc.Delete:
		return code
	default:
		c.stop()
		return code
	}
}

func (c *capsWord) stop() {
	c.on = false
	c.sched.Cancel(c.token)
	c.token = deferred.InvalidToken
}

// Execute ends caps word once the idle time has passed.
func (c *capsWord) Execute(uint32) uint32 {
	c.on = false
	c.token = deferred.InvalidToken
	return 0
}
