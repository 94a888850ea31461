package imgsvc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/attendance/core"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessor_Normalize(t *testing.T) {
	proc := NewProcessor(&core.Config{Image: core.ImageConfig{MaxWidth: 600, MaxHeight: 600}})

	tests := []struct {
		name         string
		width        int
		height       int
		wantW, wantH int
	}{
		{"small image keeps its size", 120, 80, 120, 80},
		{"wide image is fit", 1200, 600, 600, 300},
		{"tall image is fit", 300, 1500, 120, 600},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := proc.Normalize(pngBytes(t, tc.width, tc.height))
			require.NoError(t, err)
			assert.True(t, IsJPEG(out))

			img, err := imaging.Decode(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, tc.wantW, img.Bounds().Dx())
			assert.Equal(t, tc.wantH, img.Bounds().Dy())
		})
	}

	t.Run("empty input", func(t *testing.T) {
		out, err := proc.Normalize(nil)
		assert.NoError(t, err)
		assert.Nil(t, out)
	})

	t.Run("corrupt input", func(t *testing.T) {
		_, err := proc.Normalize([]byte("definitely not a picture"))
		assert.ErrorIs(t, err, ErrInvalidImage)
	})
}
