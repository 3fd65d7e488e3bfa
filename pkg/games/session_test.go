package games

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbodonnell/keygrid/pkg/keypad"
)

func TestRegistry(t *testing.T) {
	entries := Registry()
	require.Len(t, entries, 11)

	rig := newTestRig(1)
	seen := make(map[string]bool)
	for _, entry := range entries {
		assert.False(t, seen[entry.Name], "duplicate game name %q", entry.Name)
		seen[entry.Name] = true

		s := entry.New(rig.dev, rig.rng)
		require.NotNil(t, s)
		assert.Equal(t, entry.Name, s.Name())
		assert.Equal(t, 0, s.Score())
		assert.False(t, s.GameOver())
	}

	assert.Equal(t, Names(entries)[0], NameSpeedChase)
}

func TestSessionLifecycle(t *testing.T) {
	// Every game starts, ticks, and cleans up without ending on its own
	// in the first moments.
	for _, entry := range Registry() {
		entry := entry
		t.Run(entry.Name, func(t *testing.T) {
			rig := newTestRig(42)
			s := entry.New(rig.dev, rig.rng)
			s.Start(rig.now)
			for i := 0; i < 5; i++ {
				require.True(t, rig.tick(s))
			}
			s.Cleanup()
			s.Cleanup()
			assert.Empty(t, rig.lights.lit())

			s.Reset()
			assert.Equal(t, 0, s.Score())
			assert.False(t, s.GameOver())
		})
	}
}

func TestBaseScoreNeverNegative(t *testing.T) {
	rig := newTestRig(1)
	b := NewBase("test", rig.dev, rig.rng)

	b.addPoints(10)
	b.addPoints(-25)
	assert.Equal(t, 0, b.Score())
	b.addPoints(5)
	assert.Equal(t, 5, b.Score())
}

func TestBaseHighScoreSurvivesReset(t *testing.T) {
	rig := newTestRig(1)
	b := NewBase("test", rig.dev, rig.rng)

	b.addPoints(50)
	assert.True(t, b.updateHighScore())
	assert.False(t, b.updateHighScore())

	b.resetBase()
	assert.Equal(t, 0, b.Score())
	assert.Equal(t, 50, b.HighScore())

	b.SetHighScore(120)
	b.addPoints(60)
	assert.False(t, b.updateHighScore())
	assert.Equal(t, 120, b.HighScore())
}

func TestBaseDefaultHandlers(t *testing.T) {
	rig := newTestRig(1)
	b := NewBase("test", rig.dev, rig.rng)

	assert.Equal(t, ActionPause, b.HandleEncoderPress(rig.now))
	b.HandleEncoderTurn(rig.now, 1)
	b.Resume(rig.now)
}

func TestEndGameShowsScreen(t *testing.T) {
	rig := newTestRig(1)
	b := NewBase("test", rig.dev, rig.rng)
	b.addPoints(30)
	rig.lights.SetAll(keypad.Red)

	b.endGame("Wrong key!")
	assert.True(t, b.GameOver())
	assert.Equal(t, 30, b.HighScore())
	assert.Empty(t, rig.lights.lit())
	assert.True(t, rig.display.contains("GAME OVER"))
	assert.True(t, rig.display.contains("Wrong key!"))
}

func TestCountdownCues(t *testing.T) {
	rig := newTestRig(1)
	b := NewBase("test", rig.dev, rig.rng)

	started := time.Time{}
	b.cue.Play(rig.now, b.countdownCues(func(now time.Time) { started = now })...)

	// 3x (300ms on + 700ms off) + 500ms GO holds the play start back
	// about three and a half seconds.
	for i := 0; i < 80 && started.IsZero(); i++ {
		rig.now = rig.now.Add(50 * time.Millisecond)
		b.cue.Step(rig.now)
	}
	require.False(t, started.IsZero())
	assert.GreaterOrEqual(t, started.Sub(time.Unix(0, 0)), 3500*time.Millisecond)
}
