package ptm

// Format identifies the PTM 1.2 payload layout.
type Format int

const (
	// FormatLRGB stores the coefficient and color planes as one raw block.
	FormatLRGB Format = iota
	// FormatJPEGLRGB stores each plane as a JPEG payload with optional
	// prediction and side information.
	FormatJPEGLRGB
)

// String returns the header token for the format.
func (f Format) String() string {
	switch f {
	case FormatLRGB:
		return "PTM_FORMAT_LRGB"
	case FormatJPEGLRGB:
		return "PTM_FORMAT_JPEG_LRGB"
	}
	return "PTM_FORMAT_UNKNOWN"
}

// Compressed returns true if the format carries per-plane compressed payloads.
func (f Format) Compressed() bool {
	return f == FormatJPEGLRGB
}

// LRGB returns true if the format has a block of RGB data.
func (f Format) LRGB() bool {
	return f == FormatLRGB || f == FormatJPEGLRGB
}

// Transform is a per-plane prediction transform.
type Transform int

const (
	// TransformNone applies the reference plane unchanged.
	TransformNone Transform = iota
	// TransformPlaneInversion inverts every reference byte (255-v) before
	// prediction.
	TransformPlaneInversion
	// TransformMotionCompensation is declared by the format but has no
	// effect; it is parsed and carried so the motion-vector fields stay
	// meaningful, and reconstruction treats it like TransformNone.
	TransformMotionCompensation
)

// PlaneRef optionally names a reference plane storage slot. The format
// writes -1 for "no reference"; that parses to Valid == false.
type PlaneRef struct {
	Plane int
	Valid bool
}

// CompressionInfo holds the per-plane tables of a compressed PTM. Every
// slice has one entry per plane (two for MotionVectors), indexed by storage
// slot.
type CompressionInfo struct {
	Parameter       uint32
	Transforms      []Transform
	MotionVectors   []int // x,y pair per plane, reserved by the format
	Order           []int // decode-order value claimed by each slot
	ReferencePlanes []PlaneRef
	CompressedSize  []uint32
	SideInfoSize    []uint32
}

// Header is the parsed textual preamble of a PTM. It is immutable once
// parsed.
type Header struct {
	Format Format
	Width  int
	Height int
	Scale  [6]float32
	Bias   [6]int

	// Compression is nil for raw formats.
	Compression *CompressionInfo
}

// EntriesPerPixel returns the number of single-channel planes: 9 for LRGB
// layouts (6 coefficients + RGB), 18 otherwise.
func (h *Header) EntriesPerPixel() int {
	if h.Format.LRGB() {
		return 9
	}
	return 18
}

// NumPixels returns width*height.
func (h *Header) NumPixels() int {
	return h.Width * h.Height
}
