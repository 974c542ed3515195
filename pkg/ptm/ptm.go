// Package ptm provides a native Go implementation for reading Polynomial
// Texture Map (PTM) version 1.2 files.
//
// A PTM stores six per-pixel polynomial lighting coefficients plus a base
// RGB color, split across nine single-channel planes (the LRGB layout).
// This package supports the raw and JPEG-compressed LRGB variants:
//   - Textual header and compression-metadata parsing
//   - Per-plane payload extraction and decode via a pluggable collaborator
//   - Order-dependent prediction-based plane reconstruction
//   - Assembly into coefficient-high, coefficient-low and color buffers
//
// Basic usage:
//
//	// Read a PTM file
//	p, err := ptm.ReadFile("/path/to/file.ptm")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Separate into the three output images
//	imgs, err := p.Split()
//
// Details on the format can be found in the original specification:
// http://www.hpl.hp.com/research/ptm/downloads/PtmFormat12.pdf
package ptm

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// Magic is the version token every PTM 1.2 stream begins with.
const Magic = "PTM_1.2"

// PTM is a fully decoded texture map: the parsed header plus the
// coefficients block. For LRGB layouts the block is one 6-channel
// interleaved run of polynomial coefficients for every pixel, followed by
// one 3-channel interleaved run of base color for every pixel.
type PTM struct {
	Header       Header
	Coefficients []byte
}

// PlaneDecoder decodes one compressed plane payload into pixels.
//
// Implementations return a buffer of exactly width*height bytes along with
// the channel count of the source payload. The reader rejects any plane
// whose source was not single-channel or whose dimensions do not match the
// header, so implementations need not enforce that themselves.
type PlaneDecoder interface {
	DecodePlane(payload []byte, width, height int) (pixels []byte, channels int, err error)
}

// ReadFile reads a PTM file from disk.
func ReadFile(path string) (*PTM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	return Parse(bytes.NewReader(data))
}

// ReadBuffer reads a PTM from a byte slice.
func ReadBuffer(data []byte) (*PTM, error) {
	return Parse(bytes.NewReader(data))
}

// Parse reads a complete PTM from r using the default plane decoder.
func Parse(r io.Reader) (*PTM, error) {
	return NewReader(r).ReadPTM()
}

// GetExtension returns the standard PTM file extension.
func GetExtension() string {
	return ".ptm"
}
