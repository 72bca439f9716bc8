package playback

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
)

// Output is the audio device. Only the playback worker calls it.
type Output interface {
	// Play starts s, which produces samples in format.
	Play(s beep.Streamer, format beep.Format) error
	// Clear stops everything that is playing.
	Clear()
	// Lock and Unlock guard streamers against the audio callback.
	Lock()
	Unlock()
}

// SpeakerOutput plays through the system audio device.
type SpeakerOutput struct {
	initialized bool
	sampleRate  beep.SampleRate
}

// NewSpeakerOutput returns an output that initializes the speaker on first use.
func NewSpeakerOutput() *SpeakerOutput {
	return &SpeakerOutput{}
}

// Play initializes the speaker at the first track's sample rate and
// resamples later tracks that differ.
func (o *SpeakerOutput) Play(s beep.Streamer, format beep.Format) error {
	if !o.initialized {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			return fmt.Errorf("init speaker: %w", err)
		}
		o.sampleRate = format.SampleRate
		o.initialized = true
	}

	if format.SampleRate != o.sampleRate {
		s = beep.Resample(4, format.SampleRate, o.sampleRate, s)
	}
	speaker.Play(s)
	return nil
}

// Clear implements Output.
func (o *SpeakerOutput) Clear() {
	if o.initialized {
		speaker.Clear()
	}
}

// Lock implements Output.
func (o *SpeakerOutput) Lock() {
	if o.initialized {
		speaker.Lock()
	}
}

// Unlock implements Output.
func (o *SpeakerOutput) Unlock() {
	if o.initialized {
		speaker.Unlock()
	}
}
