package playback

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/llehouerou/undertow/internal/worker"
)

// ErrUnsupportedFormat is returned for files without a known audio extension.
var ErrUnsupportedFormat = errors.New("unsupported format")

const (
	extMP3  = ".mp3"
	extFLAC = ".flac"
	extOGG  = ".ogg"
	extOpus = ".opus"
	extM4A  = ".m4a"
	extWAV  = ".wav"
)

// IsMusicFile reports whether path has an extension the player can decode.
func IsMusicFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extMP3, extFLAC, extOGG, extOpus, extM4A, extWAV:
		return true
	}
	return false
}

// player runs on the playback worker. It is the only writer of published.
type player struct {
	out       Output
	now       func() time.Time
	published atomic.Pointer[snapshot]

	snap       snapshot
	file       *os.File
	stream     beep.StreamSeekCloser
	format     beep.Format
	ctrl       *beep.Ctrl
	volume     *effects.Volume
	generation uint64
}

var _ worker.Handler[Command, Event] = (*player)(nil)

func newPlayer(out Output) *player {
	p := &player{out: out, now: time.Now}
	p.snap.volume = 1
	p.publish()
	return p
}

func (p *player) publish() {
	s := p.snap
	p.published.Store(&s)
}

func (p *player) Handle(l *worker.Loop[Command, Event], cmd Command) error {
	switch c := cmd.(type) {
	case Play:
		return p.play(l, c.Path)
	case Pause:
		p.pause()
	case Resume:
		p.resume()
	case Toggle:
		switch p.snap.state {
		case Playing:
			p.pause()
		case Paused:
			p.resume()
		case Stopped, Loading:
			// Nothing to toggle
		}
	case Stop:
		p.stop()
	case Seek:
		if !p.snap.state.IsActive() {
			return nil
		}
		return p.seekTo(l, p.snap.position(p.now())+c.Delta)
	case SeekTo:
		if !p.snap.state.IsActive() {
			return nil
		}
		return p.seekTo(l, c.Position)
	case SetVolume:
		p.setVolume(c.Level)
	case trackEnded:
		// Stale callbacks from a replaced track are ignored.
		if c.generation == p.generation && p.snap.state.IsActive() {
			p.finish(l)
		}
	}
	return nil
}

func (p *player) Failure(cmd Command, err error) (Event, bool) {
	path := p.snap.path
	if c, ok := cmd.(Play); ok {
		path = c.Path
	}
	return ErrorEvent{Operation: operation(cmd), Path: path, Err: err}, true
}

func (p *player) play(l *worker.Loop[Command, Event], path string) error {
	p.stop()

	p.snap.state = Loading
	p.snap.path = path
	p.publish()

	f, stream, format, err := open(path)
	if err != nil {
		p.reset()
		return err
	}

	p.generation++
	gen := p.generation
	ctrl := &beep.Ctrl{Streamer: stream}
	vol := &effects.Volume{Streamer: ctrl, Base: 2}
	applyVolume(vol, p.snap.volume)
	ended := beep.Callback(func() {
		l.Post(trackEnded{generation: gen})
	})

	if err := p.out.Play(beep.Seq(vol, ended), format); err != nil {
		stream.Close()
		f.Close()
		p.reset()
		return err
	}

	p.file = f
	p.stream = stream
	p.format = format
	p.ctrl = ctrl
	p.volume = vol

	p.snap.state = Playing
	p.snap.anchor = 0
	p.snap.at = p.now()
	p.snap.duration = format.SampleRate.D(stream.Len())
	p.publish()

	l.Logger().Debug("track started",
		zap.String("path", path),
		zap.Duration("duration", p.snap.duration),
		zap.Int("sample_rate", int(format.SampleRate)))
	return nil
}

// open decodes the file at path by extension.
func open(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsMusicFile(path) {
		return nil, nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, beep.Format{}, err
	}

	var stream beep.StreamSeekCloser
	var format beep.Format
	switch ext {
	case extMP3:
		stream, format, err = mp3.Decode(f)
	case extFLAC:
		stream, format, err = flac.Decode(f)
	case extOGG, extOpus:
		stream, format, err = decodeOgg(f)
	case extM4A:
		stream, format, err = decodeM4A(f)
	case extWAV:
		stream, format, err = wav.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return f, stream, format, nil
}

// decodeOgg picks Opus or Vorbis from the first packet; ".ogg" files may
// hold either.
func decodeOgg(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	opus, err := isOpus(f)
	if err != nil {
		return nil, beep.Format{}, err
	}
	if opus {
		return decodeOpus(f)
	}
	return vorbis.Decode(f)
}

func (p *player) pause() {
	if p.snap.state != Playing || p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = true
	p.out.Unlock()

	now := p.now()
	p.snap.anchor = p.snap.position(now)
	p.snap.at = now
	p.snap.state = Paused
	p.publish()
}

func (p *player) resume() {
	if p.snap.state != Paused || p.ctrl == nil {
		return
	}
	p.out.Lock()
	p.ctrl.Paused = false
	p.out.Unlock()

	p.snap.at = p.now()
	p.snap.state = Playing
	p.publish()
}

func (p *player) stop() {
	if p.stream == nil && p.snap.state == Stopped {
		return
	}
	p.out.Clear()
	p.release()
	p.reset()
}

// finish ends the current track and reports it.
func (p *player) finish(l *worker.Loop[Command, Event]) {
	path := p.snap.path
	p.stop()
	l.Emit(TrackFinished{Path: path})
}

func (p *player) release() {
	if p.stream != nil {
		p.stream.Close()
		p.stream = nil
	}
	if p.file != nil {
		p.file.Close()
		p.file = nil
	}
	p.ctrl = nil
	p.volume = nil
}

// reset publishes the Stopped state, keeping the volume.
func (p *player) reset() {
	p.snap = snapshot{state: Stopped, volume: p.snap.volume}
	p.publish()
}

func (p *player) seekTo(l *worker.Loop[Command, Event], target time.Duration) error {
	if target >= p.snap.duration {
		p.finish(l)
		return nil
	}
	target = max(target, 0)

	n := p.format.SampleRate.N(target)
	p.out.Lock()
	err := p.stream.Seek(n)
	p.out.Unlock()
	if err != nil {
		return fmt.Errorf("seek to %v: %w", target, err)
	}

	p.snap.anchor = p.format.SampleRate.D(n)
	p.snap.at = p.now()
	p.publish()
	return nil
}

func (p *player) setVolume(level float64) {
	level = min(max(level, 0), 1)
	p.snap.volume = level
	if p.volume != nil {
		p.out.Lock()
		applyVolume(p.volume, level)
		p.out.Unlock()
	}
	p.publish()
}

func applyVolume(v *effects.Volume, level float64) {
	v.Volume = levelToVolume(level)
	v.Silent = level <= 0
}

// levelToVolume maps a 0-1 level to beep's base-2 volume:
// 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
