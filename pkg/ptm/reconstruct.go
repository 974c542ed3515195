package ptm

import (
	"encoding/binary"
	"fmt"
)

// reconstruct applies prediction and side-information patches to every
// plane, mutating the plane buffers in place.
//
// Order positions are walked strictly increasingly: the format guarantees a
// reference plane has already been reconstructed only under that traversal,
// and nothing in the data detects a violation, so the order here is load
// bearing.
func reconstruct(hdr *Header, ps *planeSet) error {
	ci := hdr.Compression
	numPixels := hdr.NumPixels()

	for pos := 0; pos < len(ps.orderMap); pos++ {
		slot := ps.orderMap[pos]
		cur := ps.planes[slot]

		if ref := ci.ReferencePlanes[slot]; ref.Valid {
			if ref.Plane < 0 || ref.Plane >= len(ps.planes) {
				return &FormatError{Reason: fmt.Sprintf("reference plane %d out of range for plane %d", ref.Plane, slot)}
			}
			refPlane := ps.planes[ref.Plane]
			invert := ci.Transforms[slot] == TransformPlaneInversion

			for x := 0; x < numPixels; x++ {
				rv := int(refPlane[x])
				if invert {
					rv = 255 - rv
				}
				// residual-coding inverse; Euclidean modulo keeps the
				// result in 0..254 even when the intermediate is negative
				cur[x] = byte(euclidMod(rv+int(cur[x])-128, 255))
			}
		}

		if side := ps.sideInfo[slot]; len(side) > 0 {
			if err := applySideInfo(cur, side, hdr.Width, hdr.Height); err != nil {
				return err
			}
		}
	}
	return nil
}

// applySideInfo overwrites predicted pixels with 5-byte correction
// records: a big-endian 32-bit row-major pixel index and a value byte.
// The index space is vertically mirrored relative to plane storage.
func applySideInfo(plane, records []byte, width, height int) error {
	if len(records)%5 != 0 {
		return &FormatError{Reason: fmt.Sprintf("side information length %d not a multiple of 5", len(records))}
	}
	for off := 0; off < len(records); off += 5 {
		idx := int(binary.BigEndian.Uint32(records[off:]))
		row := idx / width
		col := idx % width
		if row >= height {
			return &FormatError{Reason: fmt.Sprintf("side information index %d outside %dx%d plane", idx, width, height)}
		}
		storageRow := height - row - 1
		plane[storageRow*width+col] = records[off+4]
	}
	return nil
}

// euclidMod returns v mod m with a non-negative result.
func euclidMod(v, m int) int {
	v %= m
	if v < 0 {
		v += m
	}
	return v
}
