package imagedata

import "image"

// Bitmap is a row-major RGBA buffer, 8 bits per channel, with a stride of
// 4*Width bytes.
type Bitmap struct {
	Width  int
	Height int
	Pix    []byte
}

// At returns the four channel bytes of the pixel at (x, y).
func (b *Bitmap) At(x, y int) [4]byte {
	i := (y*b.Width + x) * 4
	return [4]byte{b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]}
}

// Size returns the buffer size in bytes.
func (b *Bitmap) Size() int {
	return len(b.Pix)
}

// Image wraps the bitmap as a non-premultiplied image sharing Pix.
func (b *Bitmap) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    b.Pix,
		Stride: 4 * b.Width,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// SwapRedBlue exchanges the first and third byte of every 4-byte pixel.
func SwapRedBlue(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+2] = pix[i+2], pix[i]
	}
}
