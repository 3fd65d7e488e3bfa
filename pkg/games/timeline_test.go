package games

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimelineFiresInOrder(t *testing.T) {
	var fired []string
	var tl Timeline
	start := time.Unix(0, 0)

	tl.Play(start,
		Cue{Run: Do(func() { fired = append(fired, "a") }), Wait: 100 * time.Millisecond},
		Cue{Run: Do(func() { fired = append(fired, "b") }), Wait: 200 * time.Millisecond},
		Cue{Run: Do(func() { fired = append(fired, "c") })},
	)
	require.True(t, tl.Active())

	tl.Step(start)
	assert.Equal(t, []string{"a"}, fired)

	tl.Step(start.Add(50 * time.Millisecond))
	assert.Equal(t, []string{"a"}, fired)

	tl.Step(start.Add(100 * time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, fired)

	tl.Step(start.Add(350 * time.Millisecond))
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.False(t, tl.Active())
}

func TestTimelineFiresAllDueCues(t *testing.T) {
	count := 0
	var tl Timeline
	start := time.Unix(0, 0)

	tl.Play(start,
		Cue{Run: Do(func() { count++ }), Wait: 10 * time.Millisecond},
		Cue{Run: Do(func() { count++ }), Wait: 10 * time.Millisecond},
		Cue{Run: Do(func() { count++ })},
	)

	// A late tick catches up on everything owed.
	tl.Step(start.Add(time.Second))
	assert.Equal(t, 3, count)
}

func TestTimelinePlayReplacesPending(t *testing.T) {
	var fired []string
	var tl Timeline
	start := time.Unix(0, 0)

	tl.Play(start,
		Cue{Run: Do(func() { fired = append(fired, "old") }), Wait: 100 * time.Millisecond},
		Cue{Run: Do(func() { fired = append(fired, "never") })},
	)
	tl.Step(start)

	tl.Play(start, Cue{Run: Do(func() { fired = append(fired, "new") })})
	tl.Step(start.Add(time.Second))
	assert.Equal(t, []string{"old", "new"}, fired)
}

func TestTimelineAppend(t *testing.T) {
	var fired []string
	var tl Timeline
	start := time.Unix(0, 0)

	tl.Append(start, Cue{Run: Do(func() { fired = append(fired, "a") }), Wait: 100 * time.Millisecond})
	tl.Append(start, Cue{Run: Do(func() { fired = append(fired, "b") })})

	tl.Step(start.Add(200 * time.Millisecond))
	assert.Equal(t, []string{"a", "b"}, fired)
}

func TestTimelineCancel(t *testing.T) {
	fired := false
	var tl Timeline
	start := time.Unix(0, 0)

	tl.Play(start, Cue{Run: Do(func() { fired = true })})
	tl.Cancel()
	tl.Step(start.Add(time.Second))
	assert.False(t, fired)
	assert.False(t, tl.Active())
}

func TestTimelineShift(t *testing.T) {
	fired := false
	var tl Timeline
	start := time.Unix(0, 0)

	tl.Play(start, Cue{Run: Do(func() { fired = true })})
	tl.Shift(time.Second)

	tl.Step(start.Add(500 * time.Millisecond))
	assert.False(t, fired)
	tl.Step(start.Add(time.Second))
	assert.True(t, fired)
}

func TestDecayDurationClampsAtFloor(t *testing.T) {
	d := 2 * time.Second
	for i := 0; i < 100; i++ {
		d = DecayDuration(d, 0.92, 300*time.Millisecond)
	}
	assert.Equal(t, 300*time.Millisecond, d)
}

func TestShrinkDurationClampsAtFloor(t *testing.T) {
	assert.Equal(t, 700*time.Millisecond, ShrinkDuration(time.Second, 300*time.Millisecond, 400*time.Millisecond))
	assert.Equal(t, 400*time.Millisecond, ShrinkDuration(500*time.Millisecond, 300*time.Millisecond, 400*time.Millisecond))
}

func TestGrowCountClampsAtCeiling(t *testing.T) {
	assert.Equal(t, 4, GrowCount(3, 1, 10))
	assert.Equal(t, 10, GrowCount(10, 1, 10))
	assert.Equal(t, 10, GrowCount(9, 5, 10))
}
