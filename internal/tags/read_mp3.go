package tags

import (
	"github.com/bogem/id3v2/v2"
)

func readMP3(path string) (*Info, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer t.Close()

	info := &Info{
		Path:        path,
		Title:       t.Title(),
		Artist:      t.Artist(),
		Album:       t.Album(),
		TrackNumber: leadingInt(textFrame(t, "TRCK")),
		Year:        leadingInt(t.Year()),
	}
	if info.Artist == "" {
		info.Artist = textFrame(t, "TPE2")
	}
	return info.normalize(), nil
}

func textFrame(t *id3v2.Tag, id string) string {
	frames := t.GetFrames(id)
	if len(frames) == 0 {
		return ""
	}
	if tf, ok := frames[0].(id3v2.TextFrame); ok {
		return tf.Text
	}
	return ""
}
