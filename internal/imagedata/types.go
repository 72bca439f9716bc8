package imagedata

// ImageType is the role an image plays in the UI. The decoder never looks
// at it; it is echoed back so the UI can route the result.
type ImageType int

const (
	AlbumArt ImageType = iota
	Thumbnail
)

// String returns the role name.
func (t ImageType) String() string {
	switch t {
	case AlbumArt:
		return "AlbumArt"
	case Thumbnail:
		return "Thumbnail"
	default:
		return "Unknown"
	}
}

// Layout selects the channel order the UI wants. BGR swaps red and blue in
// the decoded buffer; the buffer is still described as RGBA.
type Layout int

const (
	RGB Layout = iota
	BGR
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case RGB:
		return "RGB"
	case BGR:
		return "BGR"
	default:
		return "Unknown"
	}
}

// RequestID identifies one decode request on a handle.
type RequestID uint64

// Command is sent from the UI to the decode worker.
type Command interface {
	command()
}

// DecodeImage asks the worker to decode Data. Ownership of Data passes to
// the worker; the caller must not modify it afterwards.
type DecodeImage struct {
	ID     RequestID
	Data   []byte
	Type   ImageType
	Layout Layout

	// MaxSize bounds both dimensions of the result. Zero keeps the source size.
	MaxSize int
}

func (DecodeImage) command() {}

// Event is sent from the decode worker to the UI.
type Event interface {
	event()
	// Request returns the request the event answers.
	Request() (RequestID, ImageType)
}

// ImageDecoded carries a successfully decoded bitmap.
type ImageDecoded struct {
	ID     RequestID
	Bitmap *Bitmap
	Type   ImageType
}

func (ImageDecoded) event() {}

// Request implements Event.
func (e ImageDecoded) Request() (RequestID, ImageType) { return e.ID, e.Type }

// DecodeError reports that a request could not be decoded.
type DecodeError struct {
	ID   RequestID
	Type ImageType
}

func (DecodeError) event() {}

// Request implements Event.
func (e DecodeError) Request() (RequestID, ImageType) { return e.ID, e.Type }
