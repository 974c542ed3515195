package jpeg

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeGray(t *testing.T, width, height int, fill uint8) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = fill
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}))
	return buf.Bytes()
}

func TestDecodePlane_Gray(t *testing.T) {
	payload := encodeGray(t, 16, 8, 128)

	pixels, channels, err := Decoder{}.DecodePlane(payload, 16, 8)
	require.NoError(t, err)

	assert.Equal(t, 1, channels)
	assert.Len(t, pixels, 16*8)
}

func TestDecodePlane_ColorSourceReported(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 30), B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))

	pixels, channels, err := Decoder{}.DecodePlane(buf.Bytes(), 8, 8)
	require.NoError(t, err)

	assert.Equal(t, 3, channels, "color payloads report their true channel count")
	assert.Len(t, pixels, 8*8)
}

func TestDecodePlane_DimensionMismatch(t *testing.T) {
	payload := encodeGray(t, 16, 8, 0)

	_, _, err := Decoder{}.DecodePlane(payload, 8, 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 8x8")
}

func TestDecodePlane_GarbagePayload(t *testing.T) {
	_, _, err := Decoder{}.DecodePlane([]byte{0xDE, 0xAD, 0xBE, 0xEF}, 4, 4)
	require.Error(t, err)
}
