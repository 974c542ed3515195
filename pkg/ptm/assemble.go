package ptm

import "image"

// packPlanes maps reconstructed planes into the same coefficients layout a
// raw LRGB file carries: one 6-channel interleaved coefficient block, then
// one 3-channel color block. Compressed planes are stored reversed
// relative to natural row-major order, hence the invin remap.
func packPlanes(hdr *Header, ps *planeSet) []byte {
	numPixels := hdr.NumPixels()
	coeff := make([]byte, numPixels*hdr.EntriesPerPixel())

	for index := 0; index < numPixels; index++ {
		invin := numPixels - index - 1

		for p := 0; p < 6; p++ {
			coeff[index*6+p] = ps.planes[p][invin]
		}
		for p := 0; p < 3; p++ {
			coeff[numPixels*6+index*3+p] = ps.planes[6+p][invin]
		}
	}
	return coeff
}

// Images holds the three assembled output buffers. Each buffer is
// width*height*3 bytes, channel order as stored, no color-space conversion.
type Images struct {
	Width  int
	Height int

	CoeffHigh []byte // polynomial coefficients 0..2
	CoeffLow  []byte // polynomial coefficients 3..5
	RGB       []byte // base color
}

// Split separates the coefficients block into the three output buffers,
// applying the per-format coordinate flip: raw LRGB is stored upside down,
// JPEG LRGB is stored mirrored horizontally.
func (p *PTM) Split() (*Images, error) {
	if !p.Header.Format.LRGB() {
		return nil, &FormatError{Reason: "can't split " + p.Header.Format.String() + " into RGB buffers"}
	}

	w, h := p.Header.Width, p.Header.Height
	numPixels := w * h
	img := &Images{
		Width:     w,
		Height:    h,
		CoeffHigh: make([]byte, numPixels*3),
		CoeffLow:  make([]byte, numPixels*3),
		RGB:       make([]byte, numPixels*3),
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			src := y*w + x

			var dst int
			switch p.Header.Format {
			case FormatLRGB:
				dst = (h-1-y)*w + x
			case FormatJPEGLRGB:
				dst = y*w + (w - 1 - x)
			}

			for c := 0; c < 3; c++ {
				img.CoeffHigh[dst*3+c] = p.Coefficients[src*6+c]
				img.CoeffLow[dst*3+c] = p.Coefficients[src*6+c+3]
				img.RGB[dst*3+c] = p.Coefficients[numPixels*6+src*3+c]
			}
		}
	}
	return img, nil
}

// HighImage returns the high-order coefficient buffer as an image.
func (im *Images) HighImage() *image.NRGBA {
	return im.toNRGBA(im.CoeffHigh)
}

// LowImage returns the low-order coefficient buffer as an image.
func (im *Images) LowImage() *image.NRGBA {
	return im.toNRGBA(im.CoeffLow)
}

// RGBImage returns the base color buffer as an image.
func (im *Images) RGBImage() *image.NRGBA {
	return im.toNRGBA(im.RGB)
}

func (im *Images) toNRGBA(buf []byte) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, im.Width, im.Height))
	for i := 0; i < im.Width*im.Height; i++ {
		img.Pix[i*4+0] = buf[i*3+0]
		img.Pix[i*4+1] = buf[i*3+1]
		img.Pix[i*4+2] = buf[i*3+2]
		img.Pix[i*4+3] = 0xFF
	}
	return img
}
