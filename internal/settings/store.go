package settings

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dshills/odin75/internal/logging"
)

// Storage errors. Both make Boot rewrite the defaults.
var (
	ErrUninitialized = errors.New("settings storage uninitialized")
	ErrCorrupt       = errors.New("settings storage corrupt")
)

// Storage reads and writes the packed settings word.
type Storage interface {
	ReadRaw() (uint32, error)
	WriteRaw(w uint32) error
}

// Brightness is told the display brightness whenever settings load.
type Brightness interface {
	SetBrightness(level uint8)
}

// Store keeps the live settings and moves them to and from storage.
type Store struct {
	storage Storage
	display Brightness
	live    Values
	log     logrus.FieldLogger
}

// NewStore creates a store holding the defaults until Boot or Load.
func NewStore(storage Storage, display Brightness, log logrus.FieldLogger) *Store {
	return &Store{
		storage: storage,
		display: display,
		live:    Defaults(),
		log:     logging.WithComponent(log, "settings"),
	}
}

// Live returns the working settings. Changes take effect immediately and
// are persisted by Save.
func (s *Store) Live() *Values {
	return &s.live
}

// Load replaces the live settings with the stored ones and applies the
// brightness. Out of range fields are clamped.
func (s *Store) Load() error {
	w, err := s.storage.ReadRaw()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	s.live = Unpack(w)
	s.live.Clamp()
	s.apply()
	s.log.WithField("raw", fmt.Sprintf("0x%08X", w)).Debug("settings loaded")
	return nil
}

// Save writes the live settings.
func (s *Store) Save() error {
	w := Pack(s.live)
	if err := s.storage.WriteRaw(w); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.log.WithField("raw", fmt.Sprintf("0x%08X", w)).Debug("settings saved")
	return nil
}

// Reset restores the defaults, applies them and persists them.
func (s *Store) Reset() error {
	s.live = Defaults()
	s.apply()
	return s.Save()
}

// Boot loads the stored settings. Missing or corrupt storage is
// initialised with the defaults once. Other read failures keep the
// defaults in memory without writing.
func (s *Store) Boot() error {
	err := s.Load()
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrUninitialized), errors.Is(err, ErrCorrupt):
		s.log.WithError(err).Info("initialising settings storage")
		return s.Reset()
	default:
		s.live = Defaults()
		s.apply()
		return err
	}
}

func (s *Store) apply() {
	if s.display != nil {
		s.display.SetBrightness(uint8(s.live.Brightness))
	}
}
