package ptm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jpfielding/ptm.go/pkg/compress/jpeg"
)

// maxSentinelScan bounds the byte-at-a-time scan for the newline that
// separates the textual header from binary data. A stream with no newline
// inside this budget is rejected instead of being read to exhaustion.
const maxSentinelScan = 4096

// Reader reads PTM 1.2 streams.
type Reader struct {
	r   *bufio.Reader
	dec PlaneDecoder
}

// Option configures a Reader.
type Option func(*Reader)

// WithPlaneDecoder replaces the decoder used for compressed plane payloads.
func WithPlaneDecoder(dec PlaneDecoder) Option {
	return func(r *Reader) {
		r.dec = dec
	}
}

// NewReader creates a new PTM reader. Unless overridden with
// WithPlaneDecoder, plane payloads are decoded as baseline JPEG.
func NewReader(r io.Reader, opts ...Option) *Reader {
	pr := &Reader{
		r:   bufio.NewReader(r),
		dec: jpeg.Decoder{},
	}
	for _, opt := range opts {
		opt(pr)
	}
	return pr
}

// ReadPTM reads the header and the complete coefficients block.
func (r *Reader) ReadPTM() (*PTM, error) {
	hdr, err := r.readHeader()
	if err != nil {
		return nil, err
	}

	p := &PTM{Header: *hdr}

	if !hdr.Format.Compressed() {
		size := hdr.NumPixels() * hdr.EntriesPerPixel()
		p.Coefficients = make([]byte, size)
		if _, err := io.ReadFull(r.r, p.Coefficients); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, &TruncatedError{What: "coefficient block"}
			}
			return nil, fmt.Errorf("reading coefficients: %w", err)
		}
		return p, nil
	}

	planes, err := r.extractPlanes(hdr)
	if err != nil {
		return nil, err
	}
	if err := reconstruct(hdr, planes); err != nil {
		return nil, err
	}
	p.Coefficients = packPlanes(hdr, planes)
	return p, nil
}

// readHeader parses the textual preamble and, for compressed formats, the
// per-plane compression tables. On return the stream is positioned at the
// first binary byte.
func (r *Reader) readHeader() (*Header, error) {
	version, err := r.readToken()
	if err != nil {
		return nil, err
	}
	if version != Magic {
		return nil, &FormatError{Reason: fmt.Sprintf("bad version %q", version)}
	}

	format, err := r.readToken()
	if err != nil {
		return nil, err
	}

	hdr := &Header{}
	switch format {
	case "PTM_FORMAT_LRGB":
		hdr.Format = FormatLRGB
	case "PTM_FORMAT_JPEG_LRGB":
		hdr.Format = FormatJPEGLRGB
	case "PTM_FORMAT_RGB", "PTM_FORMAT_LUM",
		"PTM_FORMAT_JPEG_RGB",
		"PTM_FORMAT_JPEGLS_RGB", "PTM_FORMAT_JPEGLS_LRGB":
		return nil, &FormatError{Reason: "unsupported format " + format}
	default:
		return nil, &FormatError{Reason: "unknown format " + format}
	}

	if hdr.Width, err = r.readInt(); err != nil {
		return nil, err
	}
	if hdr.Height, err = r.readInt(); err != nil {
		return nil, err
	}
	if hdr.Width <= 0 || hdr.Height <= 0 {
		return nil, &FormatError{Reason: fmt.Sprintf("bad dimensions %dx%d", hdr.Width, hdr.Height)}
	}

	for i := range hdr.Scale {
		if hdr.Scale[i], err = r.readFloat(); err != nil {
			return nil, err
		}
	}
	for i := range hdr.Bias {
		if hdr.Bias[i], err = r.readInt(); err != nil {
			return nil, err
		}
	}

	if hdr.Format.Compressed() {
		if hdr.Compression, err = r.readCompressionInfo(hdr.EntriesPerPixel()); err != nil {
			return nil, err
		}
	}

	if err := r.skipToBinary(); err != nil {
		return nil, err
	}
	return hdr, nil
}

// readCompressionInfo parses the five parallel per-plane tables plus the
// compression parameter, each whitespace-delimited.
func (r *Reader) readCompressionInfo(epp int) (*CompressionInfo, error) {
	ci := &CompressionInfo{
		Transforms:      make([]Transform, epp),
		MotionVectors:   make([]int, epp*2),
		Order:           make([]int, epp),
		ReferencePlanes: make([]PlaneRef, epp),
		CompressedSize:  make([]uint32, epp),
		SideInfoSize:    make([]uint32, epp),
	}

	var err error
	if ci.Parameter, err = r.readUint32(); err != nil {
		return nil, err
	}

	for i := 0; i < epp; i++ {
		code, err := r.readInt()
		if err != nil {
			return nil, err
		}
		switch code {
		case 1:
			ci.Transforms[i] = TransformPlaneInversion
		case 2:
			ci.Transforms[i] = TransformMotionCompensation
		default:
			// unrecognized codes fall back to no transform
			ci.Transforms[i] = TransformNone
		}
	}

	for i := range ci.MotionVectors {
		if ci.MotionVectors[i], err = r.readInt(); err != nil {
			return nil, err
		}
	}
	for i := range ci.Order {
		if ci.Order[i], err = r.readInt(); err != nil {
			return nil, err
		}
	}
	for i := range ci.ReferencePlanes {
		ref, err := r.readInt()
		if err != nil {
			return nil, err
		}
		if ref >= 0 {
			ci.ReferencePlanes[i] = PlaneRef{Plane: ref, Valid: true}
		}
	}
	for i := range ci.CompressedSize {
		if ci.CompressedSize[i], err = r.readUint32(); err != nil {
			return nil, err
		}
	}
	for i := range ci.SideInfoSize {
		if ci.SideInfoSize[i], err = r.readUint32(); err != nil {
			return nil, err
		}
	}
	return ci, nil
}

// readToken reads one whitespace-delimited token. The delimiting byte is
// left unconsumed so the binary sentinel scan sees every byte after the
// last field.
func (r *Reader) readToken() (string, error) {
	var tok []byte
	for {
		b, err := r.r.ReadByte()
		if err == io.EOF {
			if len(tok) == 0 {
				return "", &TruncatedError{What: "header"}
			}
			return string(tok), nil
		}
		if err != nil {
			return "", fmt.Errorf("reading header: %w", err)
		}
		if isSpace(b) {
			if len(tok) == 0 {
				continue
			}
			if err := r.r.UnreadByte(); err != nil {
				return "", fmt.Errorf("reading header: %w", err)
			}
			return string(tok), nil
		}
		tok = append(tok, b)
	}
}

func (r *Reader) readInt() (int, error) {
	tok, err := r.readToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, &FormatError{Reason: fmt.Sprintf("bad integer %q", tok)}
	}
	return v, nil
}

func (r *Reader) readUint32() (uint32, error) {
	tok, err := r.readToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, &FormatError{Reason: fmt.Sprintf("bad unsigned integer %q", tok)}
	}
	return uint32(v), nil
}

func (r *Reader) readFloat() (float32, error) {
	tok, err := r.readToken()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil {
		return 0, &FormatError{Reason: fmt.Sprintf("bad float %q", tok)}
	}
	return float32(v), nil
}

// skipToBinary advances past the first newline after the last parsed
// field; binary data begins immediately after it.
func (r *Reader) skipToBinary() error {
	for i := 0; i < maxSentinelScan; i++ {
		b, err := r.r.ReadByte()
		if err == io.EOF {
			return &TruncatedError{What: "no newline before binary data"}
		}
		if err != nil {
			return fmt.Errorf("reading header: %w", err)
		}
		if b == '\n' {
			return nil
		}
	}
	return &TruncatedError{What: "no newline before binary data"}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}
