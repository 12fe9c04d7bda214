// Package audio synthesizes the game's sounds as raw PCM: looping engine
// tones plus one-shot effects. Output is 22050 Hz 16-bit mono; actual
// playback is left to whatever audio sink the host wires up.
package audio

import (
	"math"
	"math/rand"
)

// SampleRate is the PCM sample rate of every clip.
const SampleRate = 22050

const maxSample = 32767

// Synthesizer generates PCM clips. The random source feeds the noise
// components, injected so tests are repeatable.
type Synthesizer struct {
	rng *rand.Rand
}

// NewSynthesizer creates a Synthesizer. rng must not be nil.
func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// EngineTone builds one second of looping engine sound: a fundamental with
// two harmonics and a little noise so it reads as machinery rather than a
// test tone. volume scales the normalized signal, 0..1.
func (s *Synthesizer) EngineTone(frequency, volume float64) []int16 {
	samples := make([]float64, SampleRate)
	for i := range samples {
		t := float64(i) / SampleRate
		samples[i] = math.Sin(2*math.Pi*frequency*t) +
			0.5*math.Sin(2*math.Pi*frequency*2*t) +
			0.25*math.Sin(2*math.Pi*frequency*3*t) +
			0.1*s.rng.Float64()
	}
	return quantize(normalize(samples), volume)
}

// Collision builds a half-second burst of white noise under a sharply
// decaying exponential envelope.
func (s *Synthesizer) Collision() []int16 {
	n := SampleRate / 2
	samples := make([]float64, n)
	for i := range samples {
		envelope := math.Exp(-10 * float64(i) / float64(n-1))
		samples[i] = (s.rng.Float64()*2 - 1) * envelope
	}
	return quantize(samples, 1)
}

// PowerUp builds an ascending 0.6s sweep from 440 Hz upward with a short
// fade at the end.
func (s *Synthesizer) PowerUp() []int16 {
	n := int(0.6 * SampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / SampleRate
		freq := 440 + t*1000
		samples[i] = math.Sin(2 * math.Pi * freq * t)
	}
	fadeOut(samples, SampleRate/10)
	return quantize(samples, 1)
}

// Brake builds a descending 0.4s sweep from 880 Hz with friction noise
// and a short fade at the end.
func (s *Synthesizer) Brake() []int16 {
	n := int(0.4 * SampleRate)
	samples := make([]float64, n)
	for i := range samples {
		t := float64(i) / SampleRate
		freq := 880 - t*600
		samples[i] = math.Sin(2*math.Pi*freq*t) + 0.3*s.rng.Float64()
	}
	fadeOut(samples, SampleRate/10)
	return quantize(normalize(samples), 1)
}

// GameOver builds a 1.5s descending five-note melody with a tremolo
// wobble and a final fade.
func (s *Synthesizer) GameOver() []int16 {
	notes := []float64{660, 550, 440, 330, 220}
	noteLen := int(1.5 * SampleRate / float64(len(notes)))
	samples := make([]float64, noteLen*len(notes))
	for i := range samples {
		t := float64(i%noteLen) / SampleRate
		note := notes[i/noteLen]
		tremolo := 0.5 + 0.5*math.Sin(2*math.Pi*8*float64(i)/SampleRate)
		samples[i] = math.Sin(2*math.Pi*note*t) * tremolo
	}
	fadeOut(samples, SampleRate/5)
	return quantize(samples, 1)
}

// normalize scales samples so the loudest one sits at magnitude 1.
func normalize(samples []float64) []float64 {
	peak := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return samples
	}
	for i := range samples {
		samples[i] /= peak
	}
	return samples
}

// fadeOut applies a linear ramp to zero over the last n samples.
func fadeOut(samples []float64, n int) {
	if n > len(samples) {
		n = len(samples)
	}
	start := len(samples) - n
	for i := start; i < len(samples); i++ {
		samples[i] *= 1 - float64(i-start)/float64(n)
	}
}

// quantize converts to 16-bit PCM at the given volume, clipping anything
// out of range.
func quantize(samples []float64, volume float64) []int16 {
	out := make([]int16, len(samples))
	for i, v := range samples {
		v *= volume
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		out[i] = int16(v * maxSample)
	}
	return out
}
