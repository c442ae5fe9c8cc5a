package theme

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualFlags(t *testing.T) {
	assert.Equal(t, []Flag{"light"}, VisualFlags(Light))
	assert.Equal(t, []Flag{"dark"}, VisualFlags(Dark))
	assert.Equal(t, []Flag{"jedi"}, VisualFlags(Jedi))
	assert.Equal(t, []Flag{"sith", "dark"}, VisualFlags(Sith))
}

func TestStateStartsLight(t *testing.T) {
	s := NewState()
	assert.Equal(t, Light, s.Mode())
	assert.True(t, s.Active("light"))
	assert.False(t, s.DarkLayer())
}

func TestThemeExclusivity(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Set(Sith))
	assert.True(t, s.Active(Flag(Sith)))
	assert.True(t, s.DarkLayer())
	for _, f := range []Flag{"light", "jedi"} {
		assert.False(t, s.Active(f), "flag %s must be cleared", f)
	}

	require.NoError(t, s.Set(Light))
	assert.False(t, s.Active(Flag(Sith)))
	assert.False(t, s.DarkLayer())
	assert.True(t, s.Active(Flag(Light)))
	assert.Equal(t, []Flag{"light"}, s.Flags())
}

func TestEveryTransitionSucceeds(t *testing.T) {
	for _, from := range Modes() {
		for _, to := range Modes() {
			s := NewState()
			require.NoError(t, s.Set(from))
			require.NoError(t, s.Set(to))
			assert.Equal(t, to, s.Mode())
			assert.Equal(t, VisualFlags(to), s.Flags())
			assert.Equal(t, to == Dark || to == Sith, s.DarkLayer(), "%s -> %s", from, to)
		}
	}
}

func TestSetRejectsUnknownMode(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Set(Jedi))
	err := s.Set("purple")
	assert.True(t, errors.Is(err, ErrUnknownMode))
	assert.Equal(t, Jedi, s.Mode())
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode(" SITH ")
	require.NoError(t, err)
	assert.Equal(t, Sith, m)

	_, err = ParseMode("")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Welcome to the Dark Side. Sith mode activated.", Message(Sith, ""))
	assert.Equal(t, "Bringing back the light.", Message(Light, "  "))
	assert.Equal(t, "Because you asked", Message(Jedi, "Because you asked"))
}
