package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundType identifies a sound effect.
type SoundType int

const (
	SoundMove SoundType = iota
	SoundCapture
	SoundCastle
	SoundCheck
	SoundGameEnd
)

const sampleRate = 44100

// AudioManager plays short procedural sound effects.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

// NewAudioManager creates an audio manager with all sounds pre-generated.
func NewAudioManager() *AudioManager {
	am := &AudioManager{
		context: audio.NewContext(sampleRate),
		sounds:  make(map[SoundType][]byte),
		enabled: true,
		volume:  0.5,
	}
	am.generateSounds()
	return am
}

func (am *AudioManager) generateSounds() {
	am.sounds[SoundMove] = am.generateClick(440, 0.08, 0.3)
	am.sounds[SoundCapture] = am.generateClick(330, 0.12, 0.5)
	am.sounds[SoundCastle] = am.generateDoubleClick(400, 0.06, 0.3)
	am.sounds[SoundCheck] = am.generateTone(880, 0.15, 0.4)
	am.sounds[SoundGameEnd] = am.generateChord(0.4, 0.5)
}

// generateClick creates a short percussive click, roughly wood on wood.
func (am *AudioManager) generateClick(freq, duration, amplitude float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4) // stereo 16-bit

	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		envelope := math.Exp(-t * 30)
		noise := (math.Sin(float64(i)*0.3) + math.Sin(float64(i)*0.7)) * 0.3
		sample := (math.Sin(2*math.Pi*freq*t) + noise) * envelope * amplitude
		writeStereoSample(data, i, sample)
	}
	return data
}

// generateTone creates a tone with an attack-decay envelope.
func (am *AudioManager) generateTone(freq, duration, amplitude float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4)

	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		progress := t / duration
		var envelope float64
		if progress < 0.1 {
			envelope = progress / 0.1
		} else {
			envelope = 1.0 - (progress-0.1)/0.9
		}
		sample := math.Sin(2*math.Pi*freq*t) * envelope * amplitude
		writeStereoSample(data, i, sample)
	}
	return data
}

// generateDoubleClick creates two quick clicks for castling.
func (am *AudioManager) generateDoubleClick(freq, duration, amplitude float64) []byte {
	click1 := am.generateClick(freq, duration, amplitude)
	silence := make([]byte, int(sampleRate*0.05)*4)
	click2 := am.generateClick(freq*1.1, duration, amplitude*0.8)

	result := make([]byte, 0, len(click1)+len(silence)+len(click2))
	result = append(result, click1...)
	result = append(result, silence...)
	result = append(result, click2...)
	return result
}

// generateChord creates a C major chord for the end of the game.
func (am *AudioManager) generateChord(duration, amplitude float64) []byte {
	samples := int(sampleRate * duration)
	data := make([]byte, samples*4)
	freqs := []float64{261.63, 329.63, 392.00}

	for i := 0; i < samples; i++ {
		t := float64(i) / sampleRate
		progress := t / duration
		var envelope float64
		switch {
		case progress < 0.1:
			envelope = progress / 0.1
		case progress > 0.7:
			envelope = (1.0 - progress) / 0.3
		default:
			envelope = 1.0
		}

		sample := 0.0
		for _, freq := range freqs {
			sample += math.Sin(2 * math.Pi * freq * t)
		}
		sample = sample / float64(len(freqs)) * envelope * amplitude
		writeStereoSample(data, i, sample)
	}
	return data
}

// writeStereoSample writes one 16-bit sample to both channels.
func writeStereoSample(data []byte, i int, sample float64) {
	val := int16(sample * 32767)
	data[i*4] = byte(val)
	data[i*4+1] = byte(val >> 8)
	data[i*4+2] = byte(val)
	data[i*4+3] = byte(val >> 8)
}

// Play plays a sound effect. Each call gets its own player so effects can
// overlap.
func (am *AudioManager) Play(sound SoundType) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// IsEnabled reports whether audio is enabled.
func (am *AudioManager) IsEnabled() bool {
	return am.enabled
}
