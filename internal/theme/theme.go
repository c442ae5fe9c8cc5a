// Package theme implements the display-mode state machine. Any mode can be
// entered from any other; entering a mode clears every visual flag and then
// applies the flags VisualFlags returns for it.
package theme

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Mode is a logical display mode.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
	Jedi  Mode = "jedi"
	Sith  Mode = "sith"
)

// Flag is a visual layer applied to the page root.
type Flag string

var ErrUnknownMode = errors.New("unknown theme mode")

// Modes returns every mode in declaration order.
func Modes() []Mode {
	return []Mode{Light, Dark, Jedi, Sith}
}

func (m Mode) String() string { return string(m) }

// Valid reports whether m is one of the four modes.
func (m Mode) Valid() bool {
	switch m {
	case Light, Dark, Jedi, Sith:
		return true
	}
	return false
}

// ParseMode accepts a mode name, ignoring case and surrounding spaces.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// VisualFlags maps a mode to the flags it activates. Sith also turns on the
// dark layer.
func VisualFlags(m Mode) []Flag {
	if m == Sith {
		return []Flag{Flag(Sith), Flag(Dark)}
	}
	return []Flag{Flag(m)}
}

// State holds the current mode and its applied flags.
type State struct {
	mu    sync.RWMutex
	mode  Mode
	flags map[Flag]struct{}
}

// NewState returns a state in light mode.
func NewState() *State {
	s := &State{}
	s.apply(Light)
	return s
}

// Set switches to m. It returns ErrUnknownMode for anything outside Modes.
func (s *State) Set(m Mode) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMode, string(m))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(m)
	return nil
}

func (s *State) apply(m Mode) {
	s.mode = m
	s.flags = make(map[Flag]struct{}, 2)
	for _, f := range VisualFlags(m) {
		s.flags[f] = struct{}{}
	}
}

func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// Flags returns the active flags in a stable order.
func (s *State) Flags() []Flag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return VisualFlags(s.mode)
}

// Active reports whether flag f is currently applied.
func (s *State) Active(f Flag) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.flags[f]
	return ok
}

// DarkLayer reports whether the dark visual layer is on.
func (s *State) DarkLayer() bool {
	return s.Active(Flag(Dark))
}

// Message is the banner shown when a theme is applied. A non-empty reason
// replaces the default text.
func Message(m Mode, reason string) string {
	if strings.TrimSpace(reason) != "" {
		return reason
	}
	switch m {
	case Jedi:
		return "The Force is strong with this one. Jedi mode activated."
	case Sith:
		return "Welcome to the Dark Side. Sith mode activated."
	case Dark:
		return "Lights out. Dark mode activated."
	default:
		return "Bringing back the light."
	}
}
