package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/llehouerou/undertow/internal/imagedata"
	"github.com/llehouerou/undertow/internal/kitty"
	"github.com/llehouerou/undertow/internal/playback"
	"github.com/llehouerou/undertow/internal/state"
	"github.com/llehouerou/undertow/internal/tags"
	"github.com/llehouerou/undertow/internal/ui/playerbar"
)

// Cover art area in terminal cells.
const (
	artCols = 12
	artRows = 5
)

// Player is the UI side of the playback worker.
type Player interface {
	Play(path string)
	Toggle()
	Stop()
	Seek(delta time.Duration)
	SeekTo(pos time.Duration)
	SetVolume(level float64)
	Status() playback.Status
	Wait() (playback.Event, bool)
}

// Decoder is the UI side of the image decode worker.
type Decoder interface {
	DecodeScaled(data []byte, typ imagedata.ImageType, layout imagedata.Layout, maxSize int) imagedata.RequestID
	Wait() (imagedata.Event, bool)
}

// Announcer is told about every track that starts playing.
type Announcer interface {
	Track(path string, index, total int) error
}

// SessionStore is given the session whenever the track, volume or play
// state changes.
type SessionStore interface {
	SaveSession(s state.Session)
}

// Compile-time assertions that the worker handles satisfy the interfaces.
var (
	_ Player  = (*playback.Handle)(nil)
	_ Decoder = (*imagedata.Handle)(nil)
)

// Options configures a Model.
type Options struct {
	Tracks    []string
	Images    bool // display cover art with the Kitty protocol
	MaxSize   int  // decode limit when images are not displayed, 0 for none
	Logger    *zap.Logger
	Announcer Announcer // optional

	// Start and StartAt resume a previous session: the first track played
	// is Tracks[Start], from StartAt.
	Start    int
	StartAt  time.Duration
	Sessions SessionStore // optional
}

// Model is the bubbletea model of the player.
type Model struct {
	player   Player
	decoder  Decoder
	art      *kitty.Renderer // nil when images are disabled
	announce Announcer
	sessions SessionStore
	logger   *zap.Logger
	keys     keyMap
	help     help.Model
	maxSize  int

	tracks  []string
	index   int
	startAt time.Duration
	status  playback.Status

	coverID      imagedata.RequestID
	coverPending bool
	coverBytes   int64
	cover        *playerbar.Cover
	info         *tags.Info
	upload       string // Kitty sequences for the current cover

	err      string
	width    int
	quitting bool
}

// New creates the model. It does not start playback; Init does.
func New(p Player, d Decoder, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := Model{
		player:   p,
		decoder:  d,
		announce: opts.Announcer,
		sessions: opts.Sessions,
		logger:   logger,
		keys:     defaultKeyMap(),
		help:     help.New(),
		maxSize:  opts.MaxSize,
		tracks:   opts.Tracks,
		width:    80,
	}
	if opts.Start > 0 && opts.Start < len(opts.Tracks) {
		m.index = opts.Start
		m.startAt = opts.StartAt
	}
	if opts.Images {
		m.art = kitty.NewRenderer(artCols, artRows)
	}
	return m
}

// Init starts the first track and the event loops.
func (m Model) Init() tea.Cmd {
	start := m.startTrack()
	if start != nil && m.startAt > 0 {
		m.player.SeekTo(m.startAt)
	}
	return tea.Batch(
		TickCmd(),
		WaitDecodeCmd(m.decoder),
		WaitPlaybackCmd(m.player),
		start,
	)
}

// Status returns the playback status of the last refresh.
func (m Model) Status() playback.Status {
	return m.status
}

// Current returns the path of the selected track, or "".
func (m Model) Current() string {
	if m.index < 0 || m.index >= len(m.tracks) {
		return ""
	}
	return m.tracks[m.index]
}

// startTrack plays the selected track and begins loading its cover and tags. The
// command is nil when the play list is empty.
func (m Model) startTrack() tea.Cmd {
	path := m.Current()
	if path == "" {
		return nil
	}
	m.player.Play(path)
	cmds := []tea.Cmd{LoadCoverCmd(path), LoadInfoCmd(path)}
	if m.announce != nil {
		cmds = append(cmds, announceCmd(m.announce, m.logger, path, m.index, len(m.tracks)))
	}
	return tea.Batch(cmds...)
}

// selectTrack moves to track i, resetting the cover state.
func (m *Model) selectTrack(i int) tea.Cmd {
	if i < 0 || i >= len(m.tracks) {
		return nil
	}
	m.index = i
	m.err = ""
	m.cover = nil
	m.info = nil
	m.coverPending = false
	m.upload = ""
	if m.art != nil {
		m.upload = m.art.Clear()
	}
	return m.startTrack()
}

// decodeLimit is the longest bitmap edge requested from the decoder.
func (m Model) decodeLimit() int {
	if m.art != nil {
		return m.art.MaxPixels()
	}
	return m.maxSize
}
