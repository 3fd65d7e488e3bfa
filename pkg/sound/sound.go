// Package sound provides volume control and the canned tone cues the games
// share. Tone playback itself is delegated to the hardware speaker.
package sound

import (
	"time"

	"github.com/cbodonnell/keygrid/pkg/hardware"
)

const (
	// MaxVolume is the loudest volume level. 0 is mute.
	MaxVolume = 5
	// DefaultVolume is the volume at startup.
	DefaultVolume = 3
)

// Tone is a single synthesized note.
type Tone struct {
	Freq     float64
	Duration time.Duration
}

// Cue tables for the standard feedback sounds.
var (
	cueCorrect    = []Tone{{880, 100 * time.Millisecond}, {1100, 100 * time.Millisecond}}
	cueWrong      = []Tone{{440, 200 * time.Millisecond}, {220, 300 * time.Millisecond}}
	cueLevelUp    = []Tone{{523, 100 * time.Millisecond}, {659, 100 * time.Millisecond}, {784, 100 * time.Millisecond}, {1047, 200 * time.Millisecond}}
	cueGameOver   = []Tone{{440, 200 * time.Millisecond}, {349, 200 * time.Millisecond}, {294, 200 * time.Millisecond}, {220, 400 * time.Millisecond}}
	cueMenuSelect = []Tone{{660, 50 * time.Millisecond}, {880, 50 * time.Millisecond}}
	cueCountdown  = []Tone{{440, 100 * time.Millisecond}}
)

// keyTones maps each key to a feedback note (C4 up the major scale).
var keyTones = [12]float64{262, 294, 330, 349, 392, 440, 494, 523, 587, 659, 698, 784}

// Manager gates tone playback behind a volume level.
type Manager struct {
	speaker        hardware.Speaker
	volume         int
	previousVolume int
}

// NewManager creates a manager playing through speaker at the given volume.
func NewManager(speaker hardware.Speaker, volume int) *Manager {
	return &Manager{
		speaker: speaker,
		volume:  clampVolume(volume),
	}
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxVolume {
		return MaxVolume
	}
	return v
}

// Volume returns the current volume level (0..MaxVolume).
func (m *Manager) Volume() int {
	return m.volume
}

// Enabled reports whether sound is audible.
func (m *Manager) Enabled() bool {
	return m.volume > 0
}

// VolumeUp raises the volume by one step. It returns false at the ceiling.
func (m *Manager) VolumeUp() bool {
	if m.volume >= MaxVolume {
		return false
	}
	m.volume++
	return true
}

// VolumeDown lowers the volume by one step. It returns false at the floor.
func (m *Manager) VolumeDown() bool {
	if m.volume <= 0 {
		return false
	}
	m.volume--
	return true
}

// Toggle mutes or restores the previous volume.
func (m *Manager) Toggle() bool {
	if m.volume > 0 {
		m.previousVolume = m.volume
		m.volume = 0
	} else {
		m.volume = m.previousVolume
		if m.volume == 0 {
			m.volume = DefaultVolume
		}
	}
	return m.Enabled()
}

// PlayTone plays a single tone if sound is enabled.
func (m *Manager) PlayTone(freq float64, duration time.Duration) {
	if !m.Enabled() {
		return
	}
	m.speaker.PlayTone(freq, duration)
}

func (m *Manager) playCue(cue []Tone) {
	for _, tone := range cue {
		m.PlayTone(tone.Freq, tone.Duration)
	}
}

func (m *Manager) PlayCorrect()    { m.playCue(cueCorrect) }
func (m *Manager) PlayWrong()      { m.playCue(cueWrong) }
func (m *Manager) PlayLevelUp()    { m.playCue(cueLevelUp) }
func (m *Manager) PlayGameOver()   { m.playCue(cueGameOver) }
func (m *Manager) PlayMenuSelect() { m.playCue(cueMenuSelect) }
func (m *Manager) PlayCountdown()  { m.playCue(cueCountdown) }

// PlayKeyTone plays the feedback note associated with a key.
func (m *Manager) PlayKeyTone(key int) {
	if key < 0 || key >= len(keyTones) {
		return
	}
	m.PlayTone(keyTones[key], 150*time.Millisecond)
}
