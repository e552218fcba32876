//go:build tinygo

// Package main is the Odin75 firmware for RP2040 boards, built with TinyGo.
package main

import (
	"machine"
	"time"

	"tinygo.org/x/drivers/ssd1306"

	"github.com/dshills/odin75/internal/artwork"
	"github.com/dshills/odin75/internal/display"
	"github.com/dshills/odin75/internal/keyboard"
	"github.com/dshills/odin75/internal/renderer/bitmap"
	"github.com/dshills/odin75/internal/settings"
)

// Matrix wiring. Rows are driven low one at a time and columns read with
// pull-ups.
var (
	rowPins = []machine.Pin{machine.GP0, machine.GP1, machine.GP2, machine.GP3, machine.GP4, machine.GP5}
	colPins = []machine.Pin{
		machine.GP6, machine.GP7, machine.GP8, machine.GP9, machine.GP10, machine.GP11, machine.GP12, machine.GP13,
		machine.GP14, machine.GP15, machine.GP16, machine.GP17, machine.GP18, machine.GP19, machine.GP20, machine.GP21,
	}
)

const (
	oledAddress = 0x3C
	debounce    = 5 * time.Millisecond
	scanPeriod  = time.Millisecond
)

func main() {
	machine.I2C1.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       machine.GP26,
		SCL:       machine.GP27,
	})
	dev := ssd1306.NewI2C(machine.I2C1)
	dev.Configure(ssd1306.Config{Address: oledAddress, Width: bitmap.Width, Height: bitmap.Height})
	panel := display.NewSSD1306(dev)

	flash := machine.Flash
	offset := flash.Size() - flash.EraseBlockSize()

	host := newUSBReporter()
	kb, err := keyboard.New(keyboard.Options{
		Sink:       panel,
		Reporter:   host,
		Storage:    settings.NewBlockStore(flash, offset),
		Assets:     artwork.Procedural(),
		Bootloader: machine.EnterBootloader,
	})
	if err != nil {
		for {
			println("odin75:", err.Error())
			time.Sleep(time.Second)
		}
	}

	m := newMatrix(rowPins, colPins)
	frame := time.Duration(kb.Display().FrameInterval()) * time.Millisecond
	var flushed time.Time
	for {
		now := time.Now()
		m.scan(now, func(row, col int, pressed bool) {
			if row < len(keyboard.BaseLayer) && col < len(keyboard.BaseLayer[row]) {
				kb.HandleKey(keyboard.BaseLayer[row][col], pressed)
			}
		})
		kb.SetLEDs(host.leds())
		kb.Task()
		if now.Sub(flushed) >= frame {
			flushed = now
			if err := panel.Flush(); err != nil {
				println("odin75: oled:", err.Error())
			}
		}
		time.Sleep(scanPeriod)
	}
}

// matrix debounces a row/column key matrix.
type matrix struct {
	rows, cols []machine.Pin
	state      [][]bool
	changed    [][]time.Time
}

func newMatrix(rows, cols []machine.Pin) *matrix {
	m := &matrix{rows: rows, cols: cols}
	for _, r := range rows {
		r.Configure(machine.PinConfig{Mode: machine.PinOutput})
		r.High()
		m.state = append(m.state, make([]bool, len(cols)))
		m.changed = append(m.changed, make([]time.Time, len(cols)))
	}
	for _, c := range cols {
		c.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return m
}

// scan reports every key whose state has been stable for the debounce time.
func (m *matrix) scan(now time.Time, fn func(row, col int, pressed bool)) {
	for r, row := range m.rows {
		row.Low()
		time.Sleep(time.Microsecond)
		for c, col := range m.cols {
			down := !col.Get()
			if down == m.state[r][c] {
				m.changed[r][c] = time.Time{}
				continue
			}
			if m.changed[r][c].IsZero() {
				m.changed[r][c] = now
				continue
			}
			if now.Sub(m.changed[r][c]) >= debounce {
				m.state[r][c] = down
				m.changed[r][c] = time.Time{}
				fn(r, c, down)
			}
		}
		row.High()
	}
}
