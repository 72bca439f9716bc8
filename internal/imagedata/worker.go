package imagedata

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/llehouerou/undertow/internal/worker"
)

var errUnknownCommand = errors.New("imagedata: unknown command")

// decoder runs on the decode worker.
type decoder struct {
	maxBytes int64
}

var _ worker.Handler[Command, Event] = decoder{}

func (d decoder) Handle(l *worker.Loop[Command, Event], cmd Command) error {
	switch c := cmd.(type) {
	case DecodeImage:
		bm, err := Decode(c.Data, c.Layout, DecodeOptions{MaxSize: c.MaxSize, MaxBytes: d.maxBytes})
		if err != nil {
			return err
		}
		l.Logger().Debug("image decoded",
			zap.Uint64("id", uint64(c.ID)),
			zap.Stringer("type", c.Type),
			zap.Int("width", bm.Width),
			zap.Int("height", bm.Height),
			zap.Int("bytes", bm.Size()))
		l.Emit(ImageDecoded{ID: c.ID, Bitmap: bm, Type: c.Type})
		return nil
	default:
		return fmt.Errorf("%w: %T", errUnknownCommand, cmd)
	}
}

func (decoder) Failure(cmd Command, _ error) (Event, bool) {
	c, ok := cmd.(DecodeImage)
	if !ok {
		return nil, false
	}
	return DecodeError{ID: c.ID, Type: c.Type}, true
}
