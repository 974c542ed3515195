package ptm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoPlaneSet builds a minimal header and plane set for direct
// reconstruction tests, bypassing extraction.
func twoPlaneSet(width, height int, planes ...[]byte) (*Header, *planeSet) {
	n := len(planes)
	hdr := &Header{
		Format: FormatJPEGLRGB,
		Width:  width,
		Height: height,
		Compression: &CompressionInfo{
			Transforms:      make([]Transform, n),
			Order:           make([]int, n),
			ReferencePlanes: make([]PlaneRef, n),
		},
	}
	ps := &planeSet{
		planes:   planes,
		sideInfo: make([][]byte, n),
		orderMap: make([]int, n),
	}
	for i := range ps.orderMap {
		hdr.Compression.Order[i] = i
		ps.orderMap[i] = i
	}
	return hdr, ps
}

func TestReconstruct_PredictionFormula(t *testing.T) {
	// reference byte 250, current byte 10, plane inversion:
	// transformed reference = 255-250 = 5, residual inverse
	// (5 + 10 - 128) mod 255 = -113 mod 255 = 142 (Euclidean)
	hdr, ps := twoPlaneSet(1, 1, []byte{250}, []byte{10})
	hdr.Compression.ReferencePlanes[1] = PlaneRef{Plane: 0, Valid: true}
	hdr.Compression.Transforms[1] = TransformPlaneInversion

	require.NoError(t, reconstruct(hdr, ps))

	assert.Equal(t, byte(250), ps.planes[0][0], "reference plane untouched")
	assert.Equal(t, byte(142), ps.planes[1][0])
}

func TestReconstruct_NoTransform(t *testing.T) {
	hdr, ps := twoPlaneSet(2, 1, []byte{100, 200}, []byte{50, 50})
	hdr.Compression.ReferencePlanes[1] = PlaneRef{Plane: 0, Valid: true}

	require.NoError(t, reconstruct(hdr, ps))

	// (100+50-128) mod 255 = 22, (200+50-128) mod 255 = 122
	assert.Equal(t, []byte{22, 122}, ps.planes[1])
}

func TestReconstruct_MotionCompensationIsNoop(t *testing.T) {
	hdr, ps := twoPlaneSet(1, 1, []byte{100}, []byte{50})
	hdr.Compression.ReferencePlanes[1] = PlaneRef{Plane: 0, Valid: true}
	hdr.Compression.Transforms[1] = TransformMotionCompensation

	require.NoError(t, reconstruct(hdr, ps))

	// behaves exactly like no transform
	assert.Equal(t, byte(22), ps.planes[1][0])
}

func TestReconstruct_OrderedTraversal(t *testing.T) {
	// plane 2 references plane 1, which references plane 0; decode order
	// is the storage order, so each reference is already reconstructed
	hdr, ps := twoPlaneSet(1, 1, []byte{100}, []byte{50}, []byte{30})
	hdr.Compression.ReferencePlanes[1] = PlaneRef{Plane: 0, Valid: true}
	hdr.Compression.ReferencePlanes[2] = PlaneRef{Plane: 1, Valid: true}

	require.NoError(t, reconstruct(hdr, ps))

	// plane 1 = (100+50-128) mod 255 = 22
	// plane 2 = (22+30-128) mod 255 = -76 mod 255 = 179
	assert.Equal(t, byte(22), ps.planes[1][0])
	assert.Equal(t, byte(179), ps.planes[2][0])
}

func TestReconstruct_DecodeOrderDiffersFromStorage(t *testing.T) {
	// plane 0 references plane 1, so plane 1 must be reconstructed first
	hdr, ps := twoPlaneSet(1, 1, []byte{50}, []byte{60}, []byte{100})
	hdr.Compression.ReferencePlanes[0] = PlaneRef{Plane: 1, Valid: true}
	hdr.Compression.ReferencePlanes[1] = PlaneRef{Plane: 2, Valid: true}
	hdr.Compression.Order = []int{2, 1, 0}
	ps.orderMap = []int{2, 1, 0}

	require.NoError(t, reconstruct(hdr, ps))

	// order position 0 -> plane 2 (no reference): 100
	// order position 1 -> plane 1: (100+60-128) mod 255 = 32
	// order position 2 -> plane 0: (32+50-128) mod 255 = -46 mod 255 = 209
	assert.Equal(t, byte(100), ps.planes[2][0])
	assert.Equal(t, byte(32), ps.planes[1][0])
	assert.Equal(t, byte(209), ps.planes[0][0])
}

func TestReconstruct_ReferenceOutOfRange(t *testing.T) {
	hdr, ps := twoPlaneSet(1, 1, []byte{50}, []byte{60})
	hdr.Compression.ReferencePlanes[1] = PlaneRef{Plane: 5, Valid: true}

	err := reconstruct(hdr, ps)

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestSideInfo_Patch(t *testing.T) {
	// width 4, height 2; linear index 5 -> row 1, col 1; the index space
	// is mirrored vertically, so the write lands on storage row 0
	plane := make([]byte, 8)
	records := []byte{0, 0, 0, 5, 200}

	require.NoError(t, applySideInfo(plane, records, 4, 2))

	assert.Equal(t, byte(200), plane[0*4+1])
	for i, v := range plane {
		if i == 1 {
			continue
		}
		assert.Equal(t, byte(0), v, "pixel %d", i)
	}
}

func TestSideInfo_PatchOverridesPrediction(t *testing.T) {
	hdr, ps := twoPlaneSet(4, 2, make([]byte, 8), make([]byte, 8))
	hdr.Compression.ReferencePlanes[1] = PlaneRef{Plane: 0, Valid: true}
	ps.sideInfo[1] = []byte{0, 0, 0, 5, 200}

	require.NoError(t, reconstruct(hdr, ps))

	// prediction gives (0+0-128) mod 255 = 127 everywhere, except where
	// the patch wrote
	assert.Equal(t, byte(200), ps.planes[1][1])
	assert.Equal(t, byte(127), ps.planes[1][0])
}

func TestSideInfo_MalformedLength(t *testing.T) {
	err := applySideInfo(make([]byte, 8), []byte{0, 0, 0, 5}, 4, 2)

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestSideInfo_IndexOutOfRange(t *testing.T) {
	err := applySideInfo(make([]byte, 8), []byte{0, 0, 0, 8, 200}, 4, 2)

	var ferr *FormatError
	require.ErrorAs(t, err, &ferr)
}

func TestEuclidMod(t *testing.T) {
	assert.Equal(t, 142, euclidMod(-113, 255))
	assert.Equal(t, 0, euclidMod(0, 255))
	assert.Equal(t, 0, euclidMod(255, 255))
	assert.Equal(t, 254, euclidMod(-1, 255))
	assert.Equal(t, 127, euclidMod(382, 255))
}
