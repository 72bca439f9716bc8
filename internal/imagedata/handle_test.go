package imagedata

import (
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle_DecodeAlbumArtRGB(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := Start()
		defer func() { h.Close(); <-h.Done() }()

		id := h.Decode(createTestPNG(t), AlbumArt, RGB)

		ev, ok := h.Wait()
		require.True(t, ok)
		decoded, ok := ev.(ImageDecoded)
		require.True(t, ok, "got %T", ev)
		assert.Equal(t, id, decoded.ID)
		assert.Equal(t, AlbumArt, decoded.Type)
		assert.Equal(t, 2, decoded.Bitmap.Width)
		assert.Equal(t, 2, decoded.Bitmap.Height)
		for i, c := range testPixels {
			assert.Equal(t, [4]byte{c.R, c.G, c.B, c.A}, decoded.Bitmap.At(i%2, i/2))
		}
	})
}

func TestHandle_DecodeAlbumArtBGR(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := Start()
		defer func() { h.Close(); <-h.Done() }()

		h.Decode(createTestPNG(t), AlbumArt, BGR)

		ev, ok := h.Wait()
		require.True(t, ok)
		decoded, ok := ev.(ImageDecoded)
		require.True(t, ok, "got %T", ev)
		for i, c := range testPixels {
			assert.Equal(t, [4]byte{c.B, c.G, c.R, c.A}, decoded.Bitmap.At(i%2, i/2))
		}
	})
}

func TestHandle_EmptyBufferReportsError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := Start()
		defer func() { h.Close(); <-h.Done() }()

		id := h.Decode([]byte{}, Thumbnail, RGB)

		ev, ok := h.Wait()
		require.True(t, ok)
		assert.Equal(t, DecodeError{ID: id, Type: Thumbnail}, ev)

		synctest.Wait()
		_, ok = h.Poll()
		assert.False(t, ok, "exactly one event per failed request")

		// Worker is still responsive.
		h.Decode(createTestPNG(t), AlbumArt, RGB)
		ev, ok = h.Wait()
		require.True(t, ok)
		assert.IsType(t, ImageDecoded{}, ev)
	})
}

func TestHandle_OversizedImageReportsError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := Start()
		defer func() { h.Close(); <-h.Done() }()

		id := h.Decode(createOversizedPNG(t, 100000, 100000), AlbumArt, RGB)

		ev, ok := h.Wait()
		require.True(t, ok)
		assert.Equal(t, DecodeError{ID: id, Type: AlbumArt}, ev)

		h.Decode(createTestPNG(t), AlbumArt, RGB)
		ev, ok = h.Wait()
		require.True(t, ok)
		assert.IsType(t, ImageDecoded{}, ev)
	})
}

func TestHandle_StartLimited(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := StartLimited(15)
		defer func() { h.Close(); <-h.Done() }()

		id := h.Decode(createTestPNG(t), Thumbnail, RGB)

		ev, ok := h.Wait()
		require.True(t, ok)
		assert.Equal(t, DecodeError{ID: id, Type: Thumbnail}, ev)
	})
}

func TestHandle_EventsInCommandOrder(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := Start()
		valid := createTestPNG(t)

		type request struct {
			id  RequestID
			typ ImageType
			ok  bool
		}
		var sent []request
		for i := range 12 {
			typ := ImageType(i % 2)
			if i%3 == 0 {
				sent = append(sent, request{h.Decode([]byte("garbage"), typ, RGB), typ, false})
				continue
			}
			sent = append(sent, request{h.Decode(valid, typ, Layout(i%2)), typ, true})
		}
		h.Close()

		var got []request
		for {
			ev, ok := h.Wait()
			if !ok {
				break
			}
			id, typ := ev.Request()
			_, success := ev.(ImageDecoded)
			got = append(got, request{id, typ, success})
		}
		<-h.Done()

		assert.Equal(t, sent, got)
	})
}

func TestHandle_RequestIDsIncrease(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := Start()
		a := h.Decode(nil, AlbumArt, RGB)
		b := h.Decode(nil, AlbumArt, RGB)
		h.Close()
		<-h.Done()

		assert.Less(t, a, b)
		events := h.Drain()
		require.Len(t, events, 2)
		assert.Equal(t, DecodeError{ID: a, Type: AlbumArt}, events[0])
		assert.Equal(t, DecodeError{ID: b, Type: AlbumArt}, events[1])
	})
}

func TestHandle_DecodeScaled(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := Start()
		defer func() { h.Close(); <-h.Done() }()

		h.DecodeScaled(createSizedPNG(t, 64, 32), Thumbnail, RGB, 16)

		ev, ok := h.Wait()
		require.True(t, ok)
		decoded, ok := ev.(ImageDecoded)
		require.True(t, ok, "got %T", ev)
		assert.Equal(t, 16, decoded.Bitmap.Width)
		assert.Equal(t, 8, decoded.Bitmap.Height)
	})
}

func TestHandle_CloseWhileIdle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		h := Start()
		synctest.Wait()

		_, ok := h.Poll()
		assert.False(t, ok)

		h.Close()
		<-h.Done()

		_, ok = h.Wait()
		assert.False(t, ok)
	})
}
