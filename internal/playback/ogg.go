package playback

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var errOggCapture = errors.New("ogg: missing capture pattern")

const (
	oggHeaderLen = 27
	oggContinued = 0x01
	oggNoGranule = -1
)

type oggPageHeader struct {
	flags    byte
	granule  int64
	segments []byte
}

func (h oggPageHeader) bodyLen() int {
	n := 0
	for _, s := range h.segments {
		n += int(s)
	}
	return n
}

func readOggPageHeader(r io.Reader) (oggPageHeader, error) {
	var buf [oggHeaderLen]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return oggPageHeader{}, err
	}
	if !bytes.Equal(buf[0:4], []byte("OggS")) {
		return oggPageHeader{}, errOggCapture
	}
	if buf[4] != 0 {
		return oggPageHeader{}, fmt.Errorf("ogg: unsupported version %d", buf[4])
	}
	h := oggPageHeader{
		flags:    buf[5],
		granule:  int64(binary.LittleEndian.Uint64(buf[6:14])), //nolint:gosec // granule is a signed field
		segments: make([]byte, buf[26]),
	}
	if _, err := io.ReadFull(r, h.segments); err != nil {
		return oggPageHeader{}, err
	}
	return h, nil
}

// oggReader splits a single logical Ogg stream into packets.
type oggReader struct {
	r       io.ReadSeeker
	packets [][]byte
	partial []byte
	// drop a continued fragment after repositioning
	resync bool
}

func newOggReader(r io.ReadSeeker) *oggReader {
	return &oggReader{r: r}
}

// nextPacket returns the next complete packet, reading pages as needed.
func (o *oggReader) nextPacket() ([]byte, error) {
	for len(o.packets) == 0 {
		if err := o.readPage(); err != nil {
			return nil, err
		}
	}
	p := o.packets[0]
	o.packets = o.packets[1:]
	return p, nil
}

func (o *oggReader) readPage() error {
	h, err := readOggPageHeader(o.r)
	if err != nil {
		return err
	}
	body := make([]byte, h.bodyLen())
	if _, err := io.ReadFull(o.r, body); err != nil {
		return err
	}

	drop := o.resync && h.flags&oggContinued != 0
	o.resync = false

	off := 0
	for _, s := range h.segments {
		end := off + int(s)
		if !drop {
			o.partial = append(o.partial, body[off:end]...)
		}
		off = end
		if s < 255 {
			if !drop {
				o.packets = append(o.packets, o.partial)
			}
			o.partial = nil
			drop = false
		}
	}
	return nil
}

// offset returns the position of the next unread page.
func (o *oggReader) offset() (int64, error) {
	return o.r.Seek(0, io.SeekCurrent)
}

// lastGranule walks page headers from start and returns the last granule
// position, skipping page bodies.
func (o *oggReader) lastGranule(start int64) (int64, error) {
	if _, err := o.r.Seek(start, io.SeekStart); err != nil {
		return 0, err
	}
	var last int64
	for {
		h, err := readOggPageHeader(o.r)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return last, nil
		}
		if err != nil {
			return 0, err
		}
		if h.granule != oggNoGranule {
			last = h.granule
		}
		if _, err := o.r.Seek(int64(h.bodyLen()), io.SeekCurrent); err != nil {
			return 0, err
		}
	}
}

// seekGranule positions the reader on the first page that completes a packet
// past target, starting from the data pages at start. It returns the granule
// reached at that position, which is at most target.
func (o *oggReader) seekGranule(start, target int64) (int64, error) {
	if _, err := o.r.Seek(start, io.SeekStart); err != nil {
		return 0, err
	}
	pageStart, reached := start, int64(0)
	for {
		h, err := readOggPageHeader(o.r)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return 0, err
		}
		if h.granule != oggNoGranule && h.granule > target {
			break
		}
		if h.granule != oggNoGranule {
			reached = h.granule
		}
		next, err := o.r.Seek(int64(h.bodyLen()), io.SeekCurrent)
		if err != nil {
			return 0, err
		}
		pageStart = next
	}

	if _, err := o.r.Seek(pageStart, io.SeekStart); err != nil {
		return 0, err
	}
	o.packets = nil
	o.partial = nil
	o.resync = true
	return reached, nil
}

// isOpus reports whether the Ogg stream in r starts with an Opus header.
// The reader is rewound.
func isOpus(r io.ReadSeeker) (bool, error) {
	defer func() { _, _ = r.Seek(0, io.SeekStart) }()
	p, err := newOggReader(r).nextPacket()
	if err != nil {
		return false, err
	}
	return bytes.HasPrefix(p, []byte(opusHeadMagic)), nil
}
