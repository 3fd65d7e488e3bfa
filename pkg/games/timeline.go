package games

import (
	"time"

	"github.com/cbodonnell/keygrid/pkg/hardware"
	"github.com/cbodonnell/keygrid/pkg/keypad"
)

// Cue is one timed step of an animation or instructional sequence. Run
// fires when the cue comes due and receives the tick time, so a cue that
// starts a round can anchor its deadlines. Wait is the delay before the
// next cue.
type Cue struct {
	Run  func(now time.Time)
	Wait time.Duration
}

// Timeline plays cue sequences from the tick loop so sessions never block
// it. At most one sequence is pending at a time; Play replaces it.
type Timeline struct {
	cues   []Cue
	next   time.Time
	active bool
}

// Play queues a cue sequence. The first cue fires on the next Step.
func (t *Timeline) Play(now time.Time, cues ...Cue) {
	t.cues = cues
	t.active = len(cues) > 0
	t.next = now
}

// Append adds cues to the end of the pending sequence, starting a new one
// if the timeline is idle.
func (t *Timeline) Append(now time.Time, cues ...Cue) {
	if !t.active {
		t.Play(now, cues...)
		return
	}
	t.cues = append(t.cues, cues...)
}

// Step fires every cue that has come due. A cue's Run may call Play to
// replace the remainder of the sequence.
func (t *Timeline) Step(now time.Time) {
	for t.active && !now.Before(t.next) {
		cue := t.cues[0]
		t.cues = t.cues[1:]
		if len(t.cues) == 0 {
			t.active = false
		}
		t.next = t.next.Add(cue.Wait)
		if cue.Run != nil {
			cue.Run(now)
		}
	}
}

// Active reports whether cues are still pending.
func (t *Timeline) Active() bool {
	return t.active
}

// Cancel drops all pending cues.
func (t *Timeline) Cancel() {
	t.cues = nil
	t.active = false
}

// Shift delays the pending sequence, used to re-anchor after a pause.
func (t *Timeline) Shift(d time.Duration) {
	t.next = t.next.Add(d)
}

// Do wraps a plain func as a cue action.
func Do(f func()) func(time.Time) {
	return func(time.Time) { f() }
}

// FlashAll builds cues that flash every key in color the given number of
// times.
func FlashAll(lights hardware.Lights, color keypad.RGB, times int, on, off time.Duration) []Cue {
	cues := make([]Cue, 0, times*2)
	for i := 0; i < times; i++ {
		cues = append(cues,
			Cue{Run: Do(func() { lights.SetAll(color) }), Wait: on},
			Cue{Run: Do(lights.ClearAll), Wait: off},
		)
	}
	return cues
}

// FlashKey builds cues that flash a single key in color the given number
// of times.
func FlashKey(lights hardware.Lights, key int, color keypad.RGB, times int, on, off time.Duration) []Cue {
	cues := make([]Cue, 0, times*2)
	for i := 0; i < times; i++ {
		cues = append(cues,
			Cue{Run: Do(func() { lights.SetKey(key, color) }), Wait: on},
			Cue{Run: Do(func() { lights.SetKey(key, keypad.Off) }), Wait: off},
		)
	}
	return cues
}

// Sweep builds cues that light the keys one by one in color, then clears.
func Sweep(lights hardware.Lights, color keypad.RGB, interval time.Duration) []Cue {
	cues := make([]Cue, 0, keypad.NumKeys+1)
	for key := 0; key < keypad.NumKeys; key++ {
		key := key
		cues = append(cues, Cue{Run: Do(func() { lights.SetKey(key, color) }), Wait: interval})
	}
	cues = append(cues, Cue{Run: Do(lights.ClearAll)})
	return cues
}

// RainbowSweep builds a celebratory hue cycle across all keys.
func RainbowSweep(lights hardware.Lights, steps int, interval time.Duration) []Cue {
	cues := make([]Cue, 0, steps+1)
	for i := 0; i < steps; i++ {
		base := float64(i) / float64(steps)
		cues = append(cues, Cue{Run: Do(func() {
			for key := 0; key < keypad.NumKeys; key++ {
				hue := base + float64(key)/float64(keypad.NumKeys)
				if hue >= 1 {
					hue -= 1
				}
				lights.SetKey(key, keypad.HSV(hue, 1.0, 1.0))
			}
		}), Wait: interval})
	}
	cues = append(cues, Cue{Run: Do(lights.ClearAll)})
	return cues
}
