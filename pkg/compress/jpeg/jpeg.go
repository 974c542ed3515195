// Package jpeg adapts the standard baseline JPEG decoder to the
// single-channel plane contract used by PTM payloads.
package jpeg

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
)

// Decoder decodes baseline JPEG payloads into 8-bit gray planes.
type Decoder struct{}

// DecodePlane decodes payload and returns width*height gray bytes plus the
// channel count of the source image. Color payloads are converted to gray
// but still reported with their true channel count, so callers that
// require single-channel sources can reject them.
func (Decoder) DecodePlane(payload []byte, width, height int) ([]byte, int, error) {
	img, err := jpeg.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, 0, err
	}

	b := img.Bounds()
	if b.Dx() != width || b.Dy() != height {
		return nil, 0, fmt.Errorf("decoded %dx%d, want %dx%d", b.Dx(), b.Dy(), width, height)
	}

	if gray, ok := img.(*image.Gray); ok {
		if gray.Stride == width && len(gray.Pix) == width*height {
			return gray.Pix, 1, nil
		}
		out := make([]byte, width*height)
		for y := 0; y < height; y++ {
			copy(out[y*width:(y+1)*width], gray.Pix[y*gray.Stride:])
		}
		return out, 1, nil
	}

	out := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			out[y*width+x] = g.Y
		}
	}
	return out, channelCount(img), nil
}

// channelCount reports how many channels the decoded source carried.
func channelCount(img image.Image) int {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return 1
	case *image.CMYK:
		return 4
	default:
		return 3
	}
}
