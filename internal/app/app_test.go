package app

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/undertow/internal/coverart"
	"github.com/llehouerou/undertow/internal/imagedata"
	"github.com/llehouerou/undertow/internal/playback"
	"github.com/llehouerou/undertow/internal/state"
	"github.com/llehouerou/undertow/internal/tags"
)

type fakePlayer struct {
	mu     sync.Mutex
	calls  []string
	status playback.Status
}

func (p *fakePlayer) record(call string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call)
}

func (p *fakePlayer) Play(path string) { p.record("play:" + path) }
func (p *fakePlayer) Toggle() { p.record("toggle") }
func (p *fakePlayer) Stop() { p.record("stop") }
func (p *fakePlayer) Seek(d time.Duration) { p.record("seek:" + d.String()) }
func (p *fakePlayer) SeekTo(d time.Duration) { p.record("seekto:" + d.String()) }
func (p *fakePlayer) SetVolume(level float64) { p.record("volume") }

func (p *fakePlayer) Status() playback.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *fakePlayer) Wait() (playback.Event, bool) { return nil, false }

func (p *fakePlayer) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.calls...)
}

func startDecoder(t *testing.T) *imagedata.Handle {
	t.Helper()
	h := imagedata.Start()
	t.Cleanup(func() {
		h.Close()
		<-h.Done()
	})
	return h
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func keyPress(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var tracks = []string{"/music/a.mp3", "/music/b.flac", "/music/c.ogg"}

func TestInit_PlaysFirstTrack(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{Tracks: tracks})

	require.NotNil(t, m.Init())
	assert.Equal(t, []string{"play:/music/a.mp3"}, p.Calls())
	assert.Equal(t, "/music/a.mp3", m.Current())
}

func TestInit_EmptyPlaylist(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{})

	m.Init()
	assert.Empty(t, p.Calls())
	assert.Empty(t, m.Current())
	assert.Contains(t, m.View(), "Nothing playing")
}

func TestUpdate_TickRefreshesStatus(t *testing.T) {
	p := &fakePlayer{status: playback.Status{State: playback.Playing, Path: tracks[0], Duration: time.Minute}}
	m := New(p, startDecoder(t), Options{Tracks: tracks})

	m, cmd := update(t, m, TickMsg(time.Now()))
	assert.NotNil(t, cmd, "tick re-arms itself")
	assert.Equal(t, playback.Playing, m.status.State)
}

func TestUpdate_Keys(t *testing.T) {
	p := &fakePlayer{status: playback.Status{State: playback.Playing, Volume: 0.5}}
	m := New(p, startDecoder(t), Options{Tracks: tracks})
	m.status = p.Status()

	for _, k := range []string{" ", "s", "l", "h", "+", "-"} {
		m, _ = update(t, m, keyPress(k))
	}
	assert.Equal(t, []string{"toggle", "stop", "seek:5s", "seek:-5s", "volume", "volume"}, p.Calls())
}

func TestUpdate_ToggleWhenStoppedRestartsTrack(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{Tracks: tracks})

	_, cmd := update(t, m, keyPress(" "))
	assert.NotNil(t, cmd)
	assert.Equal(t, []string{"play:/music/a.mp3"}, p.Calls())
}

func TestUpdate_NextPrev(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{Tracks: tracks})

	m, _ = update(t, m, keyPress("n"))
	m, _ = update(t, m, keyPress("n"))
	m, cmd := update(t, m, keyPress("n"))
	assert.Nil(t, cmd, "no track after the last one")
	assert.Equal(t, 2, m.index)

	m, _ = update(t, m, keyPress("p"))
	assert.Equal(t, 1, m.index)
	assert.Equal(t, []string{"play:/music/b.flac", "play:/music/c.ogg", "play:/music/b.flac"}, p.Calls())
}

func TestUpdate_Quit(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{Tracks: tracks})

	m, cmd := update(t, m, keyPress("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, []string{"stop"}, p.Calls())
	assert.Empty(t, m.View())
}

func TestUpdate_TrackFinishedAdvances(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{Tracks: tracks})

	// A stale finish for another track is ignored.
	m, _ = update(t, m, PlaybackEventMsg{Event: playback.TrackFinished{Path: tracks[1]}})
	assert.Equal(t, 0, m.index)

	m, _ = update(t, m, PlaybackEventMsg{Event: playback.TrackFinished{Path: tracks[0]}})
	assert.Equal(t, 1, m.index)
	assert.Equal(t, []string{"play:/music/b.flac"}, p.Calls())
}

func TestUpdate_TrackFinishedAtEnd(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{Tracks: tracks[:1]})

	m, _ = update(t, m, PlaybackEventMsg{Event: playback.TrackFinished{Path: tracks[0]}})
	assert.Equal(t, 0, m.index)
	assert.Empty(t, p.Calls())
}

func TestUpdate_PlaybackError(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{Tracks: tracks})

	m, cmd := update(t, m, PlaybackEventMsg{Event: playback.ErrorEvent{
		Operation: "play",
		Path:      tracks[0],
		Err:       playback.ErrUnsupportedFormat,
	}})
	assert.NotNil(t, cmd, "keeps waiting for playback events")
	assert.Equal(t, "Failed to start playback '/music/a.mp3': unsupported format", m.err)
	assert.Contains(t, m.View(), "Failed to start playback")
}

func TestUpdate_CoverDecoded(t *testing.T) {
	dec := startDecoder(t)
	m := New(&fakePlayer{}, dec, Options{Tracks: tracks, Images: true})
	data := testPNG(t, 200, 100)

	m, _ = update(t, m, CoverLoadedMsg{Path: tracks[0], Data: data})
	require.True(t, m.coverPending)

	msg := WaitDecodeCmd(dec)()
	m, cmd := update(t, m, msg)
	assert.NotNil(t, cmd, "keeps waiting for decode events")

	require.NotNil(t, m.cover)
	assert.Equal(t, 96, m.cover.Width, "scaled to the art area")
	assert.Equal(t, 48, m.cover.Height)
	assert.Equal(t, int64(len(data)), m.cover.Bytes)
	assert.False(t, m.coverPending)
	assert.Empty(t, m.err)

	view := m.View()
	assert.Contains(t, view, "\x1b_Ga=t", "image uploaded")
	assert.Contains(t, view, "\x1b_Ga=p", "image placed")
	assert.Contains(t, view, "cover 96x48")
}

func TestUpdate_CoverWithoutImages(t *testing.T) {
	dec := startDecoder(t)
	m := New(&fakePlayer{}, dec, Options{Tracks: tracks, MaxSize: 50})

	m, _ = update(t, m, CoverLoadedMsg{Path: tracks[0], Data: testPNG(t, 200, 100)})
	m, _ = update(t, m, WaitDecodeCmd(dec)())

	require.NotNil(t, m.cover)
	assert.Equal(t, 50, m.cover.Width)
	assert.Empty(t, m.upload)
	assert.NotContains(t, m.View(), "\x1b_G")
}

func TestUpdate_CoverDecodeError(t *testing.T) {
	dec := startDecoder(t)
	m := New(&fakePlayer{}, dec, Options{Tracks: tracks})

	m, _ = update(t, m, CoverLoadedMsg{Path: tracks[0], Data: []byte("not an image")})
	m, _ = update(t, m, WaitDecodeCmd(dec)())

	assert.Nil(t, m.cover)
	assert.Equal(t, "Failed to decode image '/music/a.mp3': imagedata: cannot decode image", m.err)
}

func TestUpdate_StaleCover(t *testing.T) {
	dec := startDecoder(t)
	m := New(&fakePlayer{}, dec, Options{Tracks: tracks})

	// Cover for a track that is no longer selected.
	m, _ = update(t, m, CoverLoadedMsg{Path: tracks[1], Data: testPNG(t, 4, 4)})
	assert.False(t, m.coverPending)

	// Decode result arriving after the track changed.
	m, _ = update(t, m, CoverLoadedMsg{Path: tracks[0], Data: testPNG(t, 4, 4)})
	m, _ = update(t, m, keyPress("n"))
	m, _ = update(t, m, WaitDecodeCmd(dec)())
	assert.Nil(t, m.cover)
	assert.Empty(t, m.err)
}

func TestUpdate_CoverErrors(t *testing.T) {
	m := New(&fakePlayer{}, startDecoder(t), Options{Tracks: tracks})

	m, _ = update(t, m, CoverLoadedMsg{Path: tracks[0], Err: coverart.ErrNoArt})
	assert.Empty(t, m.err, "missing art is not an error")

	m, _ = update(t, m, CoverLoadedMsg{Path: tracks[0], Err: errors.New("boom")})
	assert.Equal(t, "Failed to extract cover art '/music/a.mp3': boom", m.err)
}

func TestLoadCoverCmd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.wav")
	require.NoError(t, os.WriteFile(path, make([]byte, 512), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.png"), []byte("png"), 0o600))

	msg, ok := LoadCoverCmd(path)().(CoverLoadedMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.Equal(t, path, msg.Path)
	assert.Equal(t, []byte("png"), msg.Data)
}

func TestWaitDecodeCmd_Closed(t *testing.T) {
	dec := imagedata.Start()
	dec.Close()
	<-dec.Done()

	assert.Equal(t, WorkerClosedMsg{Worker: "decode"}, WaitDecodeCmd(dec)())
}

func TestCollectTracks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.flac", "a.mp3", "sub/c.ogg", "cover.jpg", "notes.txt"} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, nil, 0o600))
	}
	single := filepath.Join(t.TempDir(), "z.wav")
	require.NoError(t, os.WriteFile(single, nil, 0o600))

	got, err := CollectTracks([]string{single, dir})
	require.NoError(t, err)
	assert.Equal(t, []string{
		single,
		filepath.Join(dir, "a.mp3"),
		filepath.Join(dir, "b.flac"),
		filepath.Join(dir, "sub", "c.ogg"),
	}, got)
}

func TestCollectTracks_Errors(t *testing.T) {
	_, err := CollectTracks([]string{filepath.Join(t.TempDir(), "missing.mp3")})
	require.ErrorIs(t, err, os.ErrNotExist)

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, nil, 0o600))
	_, err = CollectTracks([]string{txt})
	require.ErrorIs(t, err, playback.ErrUnsupportedFormat)
}

func TestUpdate_Navigate(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{Tracks: tracks})

	m, _ = update(t, m, NavigateMsg{Delta: 2})
	m, _ = update(t, m, NavigateMsg{Delta: 0})
	m, cmd := update(t, m, NavigateMsg{Delta: 1})
	assert.Nil(t, cmd)
	assert.Equal(t, 2, m.index)
	assert.Equal(t, []string{"play:/music/c.ogg", "play:/music/c.ogg"}, p.Calls())
}

type fakeAnnouncer struct {
	mu    sync.Mutex
	calls []string
}

func (a *fakeAnnouncer) Track(path string, index, total int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, path)
	return errors.New("no notification server")
}

func TestUpdate_AnnouncesTrack(t *testing.T) {
	a := &fakeAnnouncer{}
	m := New(&fakePlayer{}, startDecoder(t), Options{Tracks: tracks, Announcer: a})

	_, cmd := update(t, m, keyPress("n"))
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok, "cover load and announcement are batched")

	for _, c := range batch {
		if c != nil {
			c()
		}
	}
	assert.Equal(t, []string{"/music/b.flac"}, a.calls, "announce errors are not surfaced")
}

func TestUpdate_InfoLoaded(t *testing.T) {
	m := New(&fakePlayer{}, startDecoder(t), Options{Tracks: tracks})
	m.status = playback.Status{State: playback.Playing, Path: tracks[0]}

	m, _ = update(t, m, InfoLoadedMsg{Path: tracks[1], Info: &tags.Info{Path: tracks[1], Title: "Stale"}})
	assert.Nil(t, m.info)

	m, _ = update(t, m, InfoLoadedMsg{Path: tracks[0], Info: &tags.Info{Path: tracks[0], Title: "Song", Artist: "Band"}})
	assert.Contains(t, m.View(), "Band - Song")
}

func TestLoadInfoCmd_Fallback(t *testing.T) {
	msg, ok := LoadInfoCmd("/nowhere/Some Track.ogg")().(InfoLoadedMsg)
	require.True(t, ok)
	assert.Equal(t, "Some Track", msg.Info.Title)
}

func TestInit_ResumesSession(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{Tracks: tracks, Start: 1, StartAt: 42 * time.Second})

	require.NotNil(t, m.Init())
	assert.Equal(t, []string{"play:/music/b.flac", "seekto:42s"}, p.Calls())
	assert.Equal(t, tracks[1], m.Current())
}

func TestInit_StartOutOfRange(t *testing.T) {
	p := &fakePlayer{}
	m := New(p, startDecoder(t), Options{Tracks: tracks, Start: 9, StartAt: time.Second})

	m.Init()
	assert.Equal(t, []string{"play:/music/a.mp3"}, p.Calls())
}

type fakeSessions struct {
	saved []state.Session
}

func (f *fakeSessions) SaveSession(s state.Session) { f.saved = append(f.saved, s) }

func TestUpdate_TickSavesSessionOnChange(t *testing.T) {
	p := &fakePlayer{status: playback.Status{State: playback.Playing, Path: tracks[0], Volume: 1, Position: time.Second}}
	sessions := &fakeSessions{}
	m := New(p, startDecoder(t), Options{Tracks: tracks, Sessions: sessions})

	m, _ = update(t, m, TickMsg(time.Now()))
	p.mu.Lock()
	p.status.Position = 2 * time.Second
	p.mu.Unlock()
	m, _ = update(t, m, TickMsg(time.Now()))
	require.Len(t, sessions.saved, 1, "position alone does not save")

	p.mu.Lock()
	p.status.Volume = 0.5
	p.mu.Unlock()
	m, _ = update(t, m, TickMsg(time.Now()))
	require.Len(t, sessions.saved, 2)
	assert.Equal(t, state.Session{Volume: 0.5, Path: tracks[0], Position: 2 * time.Second}, sessions.saved[1])
	assert.Equal(t, p.Status(), m.Status())
}
