package ptm

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync"
)

// planeSet holds the per-plane buffers of a compressed PTM while it is
// being decoded. Planes are indexed by storage slot; orderMap maps each
// decode-order position to the slot that claimed it.
type planeSet struct {
	planes   [][]byte
	sideInfo [][]byte
	orderMap []int
}

// extractPlanes reads the binary segment of every plane in storage-slot
// order, then decodes the payloads. Payload and side-information reads are
// sequential because they come from one stream; the decode calls have no
// cross-plane dependency and run concurrently.
func (r *Reader) extractPlanes(hdr *Header) (*planeSet, error) {
	epp := hdr.EntriesPerPixel()
	ci := hdr.Compression

	ps := &planeSet{
		planes:   make([][]byte, epp),
		sideInfo: make([][]byte, epp),
		orderMap: make([]int, epp),
	}
	for i := range ps.orderMap {
		ps.orderMap[i] = -1
	}

	payloads := make([][]byte, epp)
	for slot := 0; slot < epp; slot++ {
		payloads[slot] = make([]byte, ci.CompressedSize[slot])
		if err := r.readSegment(payloads[slot], fmt.Sprintf("plane %d payload", slot)); err != nil {
			return nil, err
		}

		if n := ci.SideInfoSize[slot]; n > 0 {
			ps.sideInfo[slot] = make([]byte, n)
			if err := r.readSegment(ps.sideInfo[slot], fmt.Sprintf("plane %d side information", slot)); err != nil {
				return nil, err
			}
		}

		ord := ci.Order[slot]
		if ord < 0 || ord >= epp {
			return nil, &FormatError{Reason: fmt.Sprintf("decode order %d out of range for plane %d", ord, slot)}
		}
		if ps.orderMap[ord] != -1 {
			return nil, &FormatError{Reason: fmt.Sprintf("decode order %d claimed by planes %d and %d", ord, ps.orderMap[ord], slot)}
		}
		ps.orderMap[ord] = slot
	}

	if err := r.decodePlanes(hdr, payloads, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// decodePlanes runs the decode collaborator over every payload, bounded by
// the CPU count. All results are collected before reconstruction starts.
func (r *Reader) decodePlanes(hdr *Header, payloads [][]byte, ps *planeSet) error {
	errs := make([]error, len(payloads))
	sem := make(chan struct{}, runtime.NumCPU())

	var wg sync.WaitGroup
	for slot := range payloads {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			pixels, channels, err := r.dec.DecodePlane(payloads[slot], hdr.Width, hdr.Height)
			if err != nil {
				errs[slot] = &DecodeError{Plane: slot, Err: err}
				return
			}
			if channels != 1 {
				errs[slot] = &DecodeError{Plane: slot, Err: fmt.Errorf("expected 1 channel, got %d", channels)}
				return
			}
			if len(pixels) != hdr.NumPixels() {
				errs[slot] = &DecodeError{Plane: slot, Err: fmt.Errorf("decoded %d pixels, want %d", len(pixels), hdr.NumPixels())}
				return
			}
			ps.planes[slot] = pixels
		}(slot)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// readSegment fills buf from the stream, mapping a short read to a
// TruncatedError naming the segment.
func (r *Reader) readSegment(buf []byte, what string) error {
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &TruncatedError{What: what}
		}
		return fmt.Errorf("reading %s: %w", what, err)
	}
	return nil
}
