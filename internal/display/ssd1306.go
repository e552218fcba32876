//go:build tinygo

package display

import (
	"tinygo.org/x/drivers/ssd1306"
)

// SSD1306 is a Sink backed by a TinyGo ssd1306 driver. The frame is kept in
// an embedded Framebuffer, which shares the controller's page layout, and is
// copied to the device on Flush.
type SSD1306 struct {
	*Framebuffer

	device  *ssd1306.Device
	powered bool
	level   uint8
}

// NewSSD1306 wraps a configured device.
func NewSSD1306(dev *ssd1306.Device) *SSD1306 {
	dev.ClearDisplay()
	return &SSD1306{
		Framebuffer: NewFramebuffer(),
		device:      dev,
		powered:     true,
		level:       255,
	}
}

// Flush sends pending power, contrast and pixel changes to the panel.
func (s *SSD1306) Flush() error {
	if !s.On() {
		if s.powered {
			s.device.Command(ssd1306.DISPLAYOFF)
			s.powered = false
		}
		return nil
	}
	if !s.powered {
		s.device.Command(ssd1306.DISPLAYON)
		s.powered = true
	}
	if lvl := s.Brightness(); lvl != s.level {
		s.device.Command(ssd1306.SETCONTRAST)
		s.device.Command(lvl)
		s.level = lvl
	}

	if err := s.device.SetBuffer(s.Bytes()); err != nil {
		return err
	}
	return s.device.Display()
}
