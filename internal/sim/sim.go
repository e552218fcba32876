// Package sim runs the keymap on a desktop: a tcell terminal stands in for
// the OLED and the key matrix, and a headless harness replays scripts
// against a manual clock.
package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/dshills/odin75/internal/artwork"
	"github.com/dshills/odin75/internal/config"
	"github.com/dshills/odin75/internal/display"
	"github.com/dshills/odin75/internal/keyboard"
	kc "github.com/dshills/odin75/internal/keycode"
	"github.com/dshills/odin75/internal/logging"
	"github.com/dshills/odin75/internal/settings"
	"github.com/dshills/odin75/internal/timer"
)

// Errors returned by the simulator.
var (
	ErrAlreadyRunning = errors.New("simulator already running")
	errQuit           = errors.New("quit")
)

// Status line layout under the panel.
const (
	lineState = iota
	lineReport
	lineTyped
	linePointer
	lineHelp
	statusLines
)

const helpText = "Alt+0..5 toggle layer  Ctrl+Q quit"

// Options configures a Simulator.
type Options struct {
	// Config is the loaded configuration. Nil selects the defaults.
	Config *config.Config

	// ConfigPath is watched for changes when set.
	ConfigPath string

	// Screen is the terminal. Nil opens the controlling terminal.
	Screen tcell.Screen

	// Logger receives diagnostics. Nil discards them.
	Logger logrus.FieldLogger
}

// Simulator runs the keyboard interactively in a terminal.
type Simulator struct {
	cfg    *config.Config
	path   string
	log    logrus.FieldLogger
	screen tcell.Screen
	panel  *display.Terminal
	host   *hostView
	kb     *keyboard.Keyboard
	clock  timer.Clock

	bindings map[string]kc.Keycode
	held     map[kc.Keycode]time.Time

	running atomic.Bool
	mu      sync.Mutex
	status  [statusLines]string
}

// New creates a simulator. The screen is initialised by Run.
func New(opts Options) (*Simulator, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	screen := opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
	}

	s := &Simulator{
		cfg:    cfg,
		path:   opts.ConfigPath,
		log:    logging.WithComponent(opts.Logger, "sim"),
		screen: screen,
		panel:  display.NewTerminal(screen, 1, 1),
		host:   &hostView{},
		clock:  timer.NewSystem(),
		held:   make(map[kc.Keycode]time.Time),
	}
	if err := s.applyConfig(cfg); err != nil {
		return nil, err
	}

	var storage settings.Storage = &settings.MemoryStore{}
	if cfg.Storage.EEPROM != "" {
		storage = settings.NewYAMLStore(cfg.Storage.EEPROM)
	}
	kb, err := keyboard.New(keyboard.Options{
		Sink:     s.panel,
		Reporter: s.host,
		Storage:  storage,
		Clock:    s.clock,
		Assets:   artwork.Procedural(),
		Logger:   opts.Logger,
		FPS:      cfg.Display.FPS,
		WPMMin:   cfg.Display.WPMMin,
		WPMMax:   cfg.Display.WPMMax,
		Bootloader: func() {
			s.log.Info("bootloader requested")
		},
	})
	if err != nil {
		return nil, err
	}
	s.kb = kb
	return s, nil
}

// applyConfig installs the key bindings and panel colour of cfg.
func (s *Simulator) applyConfig(cfg *config.Config) error {
	bindings := DefaultBindings()
	extra, err := cfg.Bindings(keyboard.Names())
	if err != nil {
		return err
	}
	for k, v := range extra {
		bindings[k] = v
	}
	s.bindings = bindings

	if c, ok := cfg.PanelColor(); ok {
		s.panel.SetColor(c)
	} else {
		s.panel.SetColor(display.DefaultPanelColor())
	}
	s.cfg = cfg
	return nil
}

// Keyboard returns the simulated keyboard. It must only be used from the
// goroutine running Run, or before Run starts.
func (s *Simulator) Keyboard() *keyboard.Keyboard {
	return s.kb
}

// Status returns the status lines drawn under the panel.
func (s *Simulator) Status() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, statusLines)
	copy(out, s.status[:])
	return out
}

// Run initialises the screen and runs the main loop until ctx is done or
// the quit key is pressed.
func (s *Simulator) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer s.running.Store(false)

	if err := s.screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	s.screen.Clear()

	var updates <-chan config.Update
	if s.path != "" {
		w, err := config.Watch(s.path, config.WithWatcherLogger(s.log))
		if err != nil {
			s.log.WithError(err).Warn("config watch unavailable")
		} else {
			defer w.Close()
			updates = w.Updates()
		}
	}

	done := make(chan struct{})
	events := make(chan tcell.Event, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.pollEvents(events, done)
	}()
	defer func() {
		close(done)
		s.screen.Fini()
		wg.Wait()
	}()

	return s.loop(ctx, events, updates)
}

// pollEvents forwards terminal events to the loop until done or until the
// screen is finalised.
func (s *Simulator) pollEvents(events chan<- tcell.Event, done <-chan struct{}) {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case events <- ev:
		case <-done:
			return
		}
	}
}

func (s *Simulator) loop(ctx context.Context, events <-chan tcell.Event, updates <-chan config.Update) error {
	tick := time.NewTicker(time.Duration(s.cfg.Sim.TickMs) * time.Millisecond)
	defer tick.Stop()
	frame := time.NewTicker(time.Second / time.Duration(s.cfg.Display.FPS))
	defer frame.Stop()

	s.log.Info("simulator started")
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			if err := s.handleEvent(ev); err != nil {
				if errors.Is(err, errQuit) {
					s.log.Info("quit requested")
					return nil
				}
				return err
			}

		case u, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			s.reload(u)

		case now := <-tick.C:
			s.releaseDue(now)
			s.kb.Task()

		case <-frame.C:
			s.draw()
		}
	}
}

func (s *Simulator) handleEvent(ev tcell.Event) error {
	switch e := ev.(type) {
	case *tcell.EventKey:
		return s.handleKey(e)
	case *tcell.EventResize:
		s.screen.Sync()
	}
	return nil
}

func (s *Simulator) handleKey(ev *tcell.EventKey) error {
	name := KeyName(ev)
	switch name {
	case "Ctrl+Q", "Ctrl+C":
		return errQuit
	}
	if layer, ok := strings.CutPrefix(name, "Alt+"); ok && len(layer) == 1 && layer[0] >= '0' && layer[0] < '0'+byte(keyboard.LayerCount) {
		s.kb.LayerInvert(layer[0] - '0')
		return nil
	}

	code, ok := s.bindings[name]
	if !ok {
		s.log.WithField("key", name).Debug("unbound terminal key")
		return nil
	}
	release := time.Now().Add(time.Duration(s.cfg.Sim.ReleaseMs) * time.Millisecond)
	if _, down := s.held[code]; !down {
		s.kb.HandleKey(code, true)
	}
	s.held[code] = release
	return nil
}

// releaseDue releases keys whose synthetic hold has run out. A terminal
// only reports key repeats, so a key counts as held while repeats arrive.
func (s *Simulator) releaseDue(now time.Time) {
	for code, at := range s.held {
		if now.After(at) {
			delete(s.held, code)
			s.kb.HandleKey(code, false)
		}
	}
}

func (s *Simulator) reload(u config.Update) {
	if u.Err != nil {
		s.log.WithError(u.Err).Warn("keeping previous config")
		return
	}
	if u.Config.Display != s.cfg.Display || u.Config.Storage != s.cfg.Storage || u.Config.Sim != s.cfg.Sim {
		s.log.Info("display, storage and sim settings apply on restart")
	}
	if err := s.applyConfig(u.Config); err != nil {
		s.log.WithError(err).Warn("keeping previous key bindings")
	}
}

func (s *Simulator) draw() {
	kb := s.kb
	var lines [statusLines]string
	lines[lineState] = fmt.Sprintf("mode %-8s wpm %3d layers %s", kb.Display().Mode(), kb.Meter().CurrentWPM(), layerList(kb))
	lines[lineReport] = "report " + s.host.last.String()
	lines[lineTyped] = "typed  " + s.host.Typed()
	lines[linePointer] = "mouse  " + s.host.pointer()
	lines[lineHelp] = helpText

	s.mu.Lock()
	s.status = lines
	s.mu.Unlock()

	for i, l := range lines {
		s.panel.DrawLine(i, l)
	}
	if err := s.panel.Flush(); err != nil {
		s.log.WithError(err).Warn("flush failed")
	}
}

func layerList(kb *keyboard.Keyboard) string {
	var names []string
	for i, info := range keyboard.LayerInfo {
		if kb.Layers().Is(uint8(i)) {
			names = append(names, info.Name)
		}
	}
	return strings.Join(names, ",")
}
