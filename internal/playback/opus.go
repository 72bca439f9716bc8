package playback

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/gopxl/beep/v2"
	"github.com/jj11hh/opus"
)

const (
	opusHeadMagic = "OpusHead"
	opusTagsMagic = "OpusTags"
	opusRate      = 48000

	// opusMaxFrame is 120 ms at 48 kHz, the longest packet duration.
	opusMaxFrame = 5760
	// opusPreRoll is decoded and discarded before a seek target.
	opusPreRoll  = 3840
)

var errOpusHeader = errors.New("opus: invalid header")

// opusStream plays an Ogg/Opus file. Positions count output samples, i.e.
// granule positions minus the pre-skip.
type opusStream struct {
	ogg       *oggReader
	dec       *opus.Decoder
	channels  int
	preSkip   int64
	dataStart int64
	total     int

	pos     int
	discard int64
	pcm     []float32
	pcmLen  int
	pcmPos  int
	err     error
}

func decodeOpus(r io.ReadSeeker) (beep.StreamSeekCloser, beep.Format, error) {
	ogg := newOggReader(r)

	head, err := ogg.nextPacket()
	if err != nil {
		return nil, beep.Format{}, err
	}
	// Version major nibble must be 0; only mono and stereo mapping is decoded.
	if len(head) < 19 || !bytes.HasPrefix(head, []byte(opusHeadMagic)) || head[8]>>4 != 0 {
		return nil, beep.Format{}, errOpusHeader
	}
	channels := int(head[9])
	if channels != 1 && channels != 2 {
		return nil, beep.Format{}, fmt.Errorf("opus: %d channels not supported", channels)
	}

	tags, err := ogg.nextPacket()
	if err != nil {
		return nil, beep.Format{}, err
	}
	if !bytes.HasPrefix(tags, []byte(opusTagsMagic)) {
		return nil, beep.Format{}, errOpusHeader
	}

	dec, err := opus.NewDecoder(opusRate, channels)
	if err != nil {
		return nil, beep.Format{}, err
	}

	s := &opusStream{
		ogg:      ogg,
		dec:      dec,
		channels: channels,
		preSkip:  int64(binary.LittleEndian.Uint16(head[10:12])),
		pcm:      make([]float32, opusMaxFrame*channels),
	}
	if s.dataStart, err = ogg.offset(); err != nil {
		return nil, beep.Format{}, err
	}
	last, err := ogg.lastGranule(s.dataStart)
	if err != nil {
		return nil, beep.Format{}, err
	}
	s.total = int(max(last-s.preSkip, 0))
	if err := s.Seek(0); err != nil {
		return nil, beep.Format{}, err
	}

	return s, beep.Format{SampleRate: opusRate, NumChannels: channels, Precision: 2}, nil
}

func (s *opusStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil {
		return 0, false
	}
	n := 0
	for n < len(samples) && s.pos < s.total {
		if s.pcmPos >= s.pcmLen {
			if !s.fill() {
				break
			}
			continue
		}
		i := s.pcmPos * s.channels
		l := float64(s.pcm[i])
		r := l
		if s.channels == 2 {
			r = float64(s.pcm[i+1])
		}
		samples[n] = [2]float64{l, r}
		s.pcmPos++
		s.pos++
		n++
	}
	return n, n > 0
}

// fill decodes the next packet, dropping samples still owed to discard.
func (s *opusStream) fill() bool {
	for {
		pkt, err := s.ogg.nextPacket()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
			}
			return false
		}
		frames, err := s.dec.DecodeFloat32(pkt, s.pcm)
		if err != nil {
			// Corrupt packets are skipped.
			continue
		}
		skip := int(min(s.discard, int64(frames)))
		s.discard -= int64(skip)
		s.pcmPos, s.pcmLen = skip, frames
		if skip < frames {
			return true
		}
	}
}

func (s *opusStream) Err() error { return s.err }

func (s *opusStream) Len() int { return s.total }

func (s *opusStream) Position() int { return s.pos }

// Seek restarts decoding at least opusPreRoll samples before p.
func (s *opusStream) Seek(p int) error {
	p = max(0, min(p, s.total))
	target := int64(p) + s.preSkip
	reached, err := s.ogg.seekGranule(s.dataStart, max(target-opusPreRoll, 0))
	if err != nil {
		return err
	}
	s.pos = p
	s.discard = target - reached
	s.pcmPos, s.pcmLen = 0, 0
	s.err = nil
	return nil
}

// Close is a no-op; the player owns the file.
func (s *opusStream) Close() error { return nil }
