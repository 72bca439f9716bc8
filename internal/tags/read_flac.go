package tags

import (
	"errors"

	"github.com/go-flac/flacvorbis"
	goflac "github.com/go-flac/go-flac"
)

var errNoComments = errors.New("no vorbis comment block")

func readFLAC(path string) (*Info, error) {
	f, err := goflac.ParseFile(path)
	if err != nil {
		return nil, err
	}

	for _, meta := range f.Meta {
		if meta.Type != goflac.VorbisComment {
			continue
		}
		cmt, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, err
		}
		info := &Info{
			Path:        path,
			Title:       comment(cmt, flacvorbis.FIELD_TITLE),
			Artist:      comment(cmt, flacvorbis.FIELD_ARTIST),
			Album:       comment(cmt, flacvorbis.FIELD_ALBUM),
			TrackNumber: leadingInt(comment(cmt, flacvorbis.FIELD_TRACKNUMBER)),
			Year:        leadingInt(comment(cmt, flacvorbis.FIELD_DATE)),
		}
		if info.Artist == "" {
			info.Artist = comment(cmt, "ALBUMARTIST")
		}
		return info.normalize(), nil
	}
	return nil, errNoComments
}

func comment(cmt *flacvorbis.MetaDataBlockVorbisComment, key string) string {
	values, err := cmt.Get(key)
	if err != nil || len(values) == 0 {
		return ""
	}
	return values[0]
}
