// Package notify announces track changes as desktop notifications.
package notify

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/llehouerou/undertow/internal/coverart"
	"github.com/llehouerou/undertow/internal/tags"
)

// Urgency follows the freedesktop notification levels.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// defaultIcon is used when the track folder has no cover file.
const defaultIcon = "audio-x-generic"

// Notification is one desktop notification.
type Notification struct {
	Title      string
	Body       string
	Icon       string // file path or icon name
	Timeout    int32  // ms, -1 server default, 0 never
	ReplacesID uint32
	Urgency    Urgency
}

// Notifier sends desktop notifications. Unavailable backends return 0, nil.
type Notifier interface {
	Notify(n Notification) (uint32, error)
	Close(id uint32) error
}

// NowPlaying keeps a single "now playing" notification up to date.
// It is safe for concurrent use.
type NowPlaying struct {
	n       Notifier
	timeout int32

	mu   sync.Mutex
	last uint32
}

// NewNowPlaying wraps n. timeoutMS is passed through to every notification.
func NewNowPlaying(n Notifier, timeoutMS int32) *NowPlaying {
	return &NowPlaying{n: n, timeout: timeoutMS}
}

// Track announces path as the index-th (0-based) of total tracks,
// replacing the previous announcement.
func (p *NowPlaying) Track(path string, index, total int) error {
	if p == nil || p.n == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := p.n.Notify(trackNotification(path, index, total, p.last, p.timeout))
	if err != nil {
		return err
	}
	if id != 0 {
		p.last = id
	}
	return nil
}

// Dismiss closes the current announcement, if any.
func (p *NowPlaying) Dismiss() error {
	if p == nil || p.n == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.last == 0 {
		return nil
	}
	id := p.last
	p.last = 0
	return p.n.Close(id)
}

func trackNotification(path string, index, total int, replaces uint32, timeout int32) Notification {
	dir := filepath.Dir(path)
	info := tags.ReadOrFallback(path)

	icon, err := coverart.FolderPath(dir)
	if err != nil {
		icon = defaultIcon
	}

	var body []string
	if info.Artist != "" {
		body = append(body, info.Artist)
	}
	if info.Album != "" {
		body = append(body, info.Album)
	} else {
		body = append(body, filepath.Base(dir))
	}
	body = append(body, fmt.Sprintf("Track %d of %d", index+1, total))

	return Notification{
		Title:      info.Title,
		Body:       strings.Join(body, "\n"),
		Icon:       icon,
		Timeout:    timeout,
		ReplacesID: replaces,
		Urgency:    UrgencyLow,
	}
}
