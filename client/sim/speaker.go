package sim

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/cbodonnell/keygrid/pkg/hardware"
)

const (
	sampleRate = 44100
	amplitude  = 6000
)

type tone struct {
	freq     float64
	duration time.Duration
}

// Speaker synthesizes square wave tones through the ebiten audio context.
// Tones play one after another so rapid cues do not overlap.
type Speaker struct {
	ctx   *audio.Context
	tones chan tone
}

var _ hardware.Speaker = (*Speaker)(nil)

// NewSpeaker creates a speaker and starts its playback goroutine. There
// can be only one audio context per process.
func NewSpeaker() *Speaker {
	s := &Speaker{
		ctx:   audio.NewContext(sampleRate),
		tones: make(chan tone, 32),
	}
	go s.playLoop()
	return s
}

// PlayTone implements hardware.Speaker. It never blocks; a tone is
// dropped if the queue is full.
func (s *Speaker) PlayTone(freq float64, duration time.Duration) {
	select {
	case s.tones <- tone{freq: freq, duration: duration}:
	default:
	}
}

func (s *Speaker) playLoop() {
	for t := range s.tones {
		player := s.ctx.NewPlayerFromBytes(squareWave(t.freq, t.duration))
		player.Play()
		time.Sleep(t.duration)
	}
}

// squareWave renders a tone as 16-bit little endian stereo samples.
func squareWave(freq float64, duration time.Duration) []byte {
	samples := int(float64(sampleRate) * duration.Seconds())
	buf := make([]byte, samples*4)
	period := float64(sampleRate) / freq
	for i := 0; i < samples; i++ {
		v := int16(amplitude)
		if math.Mod(float64(i), period) >= period/2 {
			v = -amplitude
		}
		buf[i*4] = byte(v)
		buf[i*4+1] = byte(v >> 8)
		buf[i*4+2] = byte(v)
		buf[i*4+3] = byte(v >> 8)
	}
	return buf
}
