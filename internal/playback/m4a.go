package playback

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/llehouerou/alac"
	"github.com/llehouerou/go-faad2"
	"github.com/llehouerou/go-m4a"
)

// alacFrameSize is the frames-per-packet default of ALAC encoders.
const alacFrameSize = 4096

// m4aStream plays the first audio track of an MP4 container, AAC or ALAC.
type m4aStream struct {
	mp4      *m4a.Reader
	codec    m4a.CodecType
	aac      *faad2.Decoder
	alac     *alac.Alac
	rate     float64
	channels int
	bits     int
	total    int

	next   int // next container sample
	frames [][2]float64
	off    int
	err    error
}

func decodeM4A(f io.ReadSeekCloser) (beep.StreamSeekCloser, beep.Format, error) {
	mp4, err := m4a.Open(f)
	if err != nil {
		return nil, beep.Format{}, err
	}

	s := &m4aStream{
		mp4:      mp4,
		codec:    mp4.Codec(),
		rate:     float64(mp4.SampleRate()),
		channels: int(mp4.Channels()),
		bits:     int(mp4.SampleSize()),
	}
	s.total = int(mp4.Duration().Seconds() * s.rate)

	switch s.codec {
	case m4a.CodecAAC:
		ctx := context.Background()
		dec, err := faad2.NewDecoder(ctx)
		if err != nil {
			return nil, beep.Format{}, err
		}
		if err := dec.Init(ctx, mp4.CodecConfig()); err != nil {
			dec.Close(ctx)
			return nil, beep.Format{}, err
		}
		s.aac = dec
	case m4a.CodecALAC:
		dec, err := alac.NewWithConfig(alac.Config{
			SampleRate:  int(mp4.SampleRate()),
			SampleSize:  s.bits,
			NumChannels: s.channels,
			FrameSize:   alacFrameSize,
		})
		if err != nil {
			return nil, beep.Format{}, err
		}
		s.alac = dec
	default:
		return nil, beep.Format{}, fmt.Errorf("m4a: codec %s not supported", s.codec)
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(int(s.rate)),
		NumChannels: 2,
		Precision:   2,
	}
	if s.codec == m4a.CodecALAC && s.bits == 24 {
		format.Precision = 3
	}
	return s, format, nil
}

func (s *m4aStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	n := 0
	for n < len(samples) {
		if s.off < len(s.frames) {
			c := copy(samples[n:], s.frames[s.off:])
			s.off += c
			n += c
			continue
		}
		if s.next >= s.mp4.SampleCount() {
			break
		}
		if err := s.decodeNext(); err != nil {
			s.err = err
			break
		}
	}
	return n, n > 0
}

func (s *m4aStream) decodeNext() error {
	data, err := s.mp4.ReadSample(s.next)
	if err != nil {
		return err
	}
	s.next++
	s.off = 0

	if s.aac != nil {
		pcm, err := s.aac.Decode(context.Background(), data)
		if err != nil {
			return err
		}
		s.frames = int16Frames(pcm, s.channels)
		return nil
	}
	s.frames = alacFrames(s.alac.Decode(data), s.channels, s.bits)
	return nil
}

// int16Frames converts interleaved samples to stereo, duplicating mono.
func int16Frames(pcm []int16, channels int) [][2]float64 {
	channels = max(channels, 1)
	frames := make([][2]float64, len(pcm)/channels)
	for i := range frames {
		l := float64(pcm[i*channels]) / 32768
		r := l
		if channels > 1 {
			r = float64(pcm[i*channels+1]) / 32768
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

// alacFrames converts little-endian 16 or 24 bit PCM to stereo frames.
func alacFrames(raw []byte, channels, bits int) [][2]float64 {
	channels = max(channels, 1)
	width := 2
	scale := 32768.0
	if bits == 24 {
		width, scale = 3, 8388608
	}

	sample := func(b []byte) float64 {
		if width == 2 {
			return float64(int16(uint16(b[0])|uint16(b[1])<<8)) / scale //nolint:gosec // reinterpret as signed
		}
		v := int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
		if v&0x800000 != 0 {
			v |= ^0xFFFFFF
		}
		return float64(v) / scale
	}

	step := width * channels
	frames := make([][2]float64, len(raw)/step)
	for i := range frames {
		b := raw[i*step:]
		l := sample(b)
		r := l
		if channels > 1 {
			r = sample(b[width:])
		}
		frames[i] = [2]float64{l, r}
	}
	return frames
}

func (s *m4aStream) Err() error { return s.err }

func (s *m4aStream) Len() int { return s.total }

func (s *m4aStream) Position() int {
	return int(s.mp4.SampleTime(s.next).Seconds()*s.rate) + s.off - len(s.frames)
}

func (s *m4aStream) Seek(p int) error {
	p = max(0, min(p, s.total))
	at := time.Duration(float64(p) / s.rate * float64(time.Second))
	s.next = s.mp4.SeekToTime(at)
	s.frames, s.off = nil, 0
	s.err = nil
	return nil
}

// Close releases the AAC decoder; the player owns the file.
func (s *m4aStream) Close() error {
	if s.aac != nil {
		s.aac.Close(context.Background())
	}
	return nil
}
