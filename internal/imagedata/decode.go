package imagedata

import (
	"bytes"
	"errors"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"  // BMP decoder
	_ "golang.org/x/image/tiff" // TIFF decoder
	_ "golang.org/x/image/webp" // WebP decoder
)

// ErrDecode is returned for any input that cannot be turned into a bitmap:
// empty, truncated, corrupt or in an unknown format. Callers cannot act on
// the difference, so none is reported.
var ErrDecode = errors.New("imagedata: cannot decode image")

// DefaultMaxBytes caps the RGBA buffer a source image may claim before it
// is decoded.
const DefaultMaxBytes int64 = 512 << 20

// DecodeOptions tunes Decode.
type DecodeOptions struct {
	// MaxSize bounds both dimensions, keeping the aspect ratio. Zero disables.
	MaxSize int

	// MaxBytes rejects sources whose header claims more than this many bytes
	// of RGBA pixels. Zero or less means DefaultMaxBytes.
	MaxBytes int64
}

func (o DecodeOptions) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return DefaultMaxBytes
	}
	return o.MaxBytes
}

// Decode sniffs the format of data, decodes it and normalizes the result to
// 8-bit RGBA. With the BGR layout red and blue are swapped in place.
func Decode(data []byte, layout Layout, opts DecodeOptions) (*Bitmap, error) {
	if len(data) == 0 {
		return nil, ErrDecode
	}

	// Headers are read first so a small file claiming huge dimensions is
	// rejected before anything is allocated for it.
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrDecode
	}
	if int64(cfg.Width)*int64(cfg.Height)*4 > opts.maxBytes() {
		return nil, ErrDecode
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrDecode
	}

	b := img.Bounds()
	if b.Empty() {
		return nil, ErrDecode
	}

	if m := opts.MaxSize; m > 0 && (b.Dx() > m || b.Dy() > m) {
		img = resize.Thumbnail(uint(m), uint(m), img, resize.Lanczos3) //nolint:gosec // m > 0
	}

	bm := toBitmap(imaging.Clone(img))
	if layout == BGR {
		SwapRedBlue(bm.Pix)
	}
	return bm, nil
}

func toBitmap(src *image.NRGBA) *Bitmap {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	rowLen := 4 * w
	if src.Stride == rowLen && len(src.Pix) == rowLen*h {
		return &Bitmap{Width: w, Height: h, Pix: src.Pix}
	}

	pix := make([]byte, rowLen*h)
	for y := range h {
		off := src.PixOffset(src.Rect.Min.X, src.Rect.Min.Y+y)
		copy(pix[y*rowLen:(y+1)*rowLen], src.Pix[off:off+rowLen])
	}
	return &Bitmap{Width: w, Height: h, Pix: pix}
}
