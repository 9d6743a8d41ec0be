package preview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestStoreLifecycle(t *testing.T) {
	s := NewStoreWithEncoder(Passthrough)

	id, err := s.Create([]byte("raw"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	img, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, []byte("raw"), img.Data)

	s.Release(id)
	s.Release(id)
	s.Release("")
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, s.Len())
}

func TestStoreReleaseAll(t *testing.T) {
	s := NewStoreWithEncoder(Passthrough)
	for range 3 {
		_, err := s.Create([]byte("x"), "image/jpeg")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Len())
	s.ReleaseAll()
	assert.Zero(t, s.Len())
}

func TestStoreRejectsEmpty(t *testing.T) {
	s := NewStoreWithEncoder(Passthrough)
	_, err := s.Create(nil, "image/png")
	assert.Error(t, err)
}

func TestStoreFallsBackToOriginalBytes(t *testing.T) {
	s := NewStoreWithEncoder(func([]byte, string) (Image, error) {
		return Image{}, errors.New("cannot encode")
	})

	for name, tc := range map[string]struct {
		data     []byte
		declared string
		want     string
	}{
		"unknown format":       {[]byte("not an image"), "image/heic", "application/octet-stream"},
		"svg":                  {[]byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`), "image/svg+xml", "application/octet-stream"},
		"png declared as jpeg": {tinyPNG(t), "image/jpeg", "image/png"},
	} {
		t.Run(name, func(t *testing.T) {
			id, err := s.Create(tc.data, tc.declared)
			require.NoError(t, err)

			img, err := s.Get(id)
			require.NoError(t, err)
			assert.Equal(t, tc.want, img.MimeType)
			assert.Equal(t, tc.data, img.Data)
		})
	}
}

func TestDisplayable(t *testing.T) {
	assert.True(t, Displayable("image/webp"))
	assert.True(t, Displayable("image/jpeg"))
	assert.False(t, Displayable("image/svg+xml"))
	assert.False(t, Displayable("text/html"))
	assert.False(t, Displayable(""))
}

func TestEncodeWebP(t *testing.T) {
	img, err := EncodeWebP(tinyPNG(t), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", img.MimeType)
	require.Greater(t, len(img.Data), 12)
	assert.Equal(t, "RIFF", string(img.Data[:4]))
	assert.Equal(t, "WEBP", string(img.Data[8:12]))

	_, err = EncodeWebP([]byte("garbage"), "image/png")
	assert.Error(t, err)
}
