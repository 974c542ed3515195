package ptm

import "fmt"

// FormatError reports a malformed or unsupported header, compression table
// or side-information record. All failures are terminal for the decode
// call; no partial result is retained.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "ptm: " + e.Reason
}

// TruncatedError reports input that ended before an expected boundary,
// such as a missing header-terminating newline or a short binary segment.
type TruncatedError struct {
	What string
}

func (e *TruncatedError) Error() string {
	return "ptm: truncated input: " + e.What
}

// DecodeError reports a failed plane decode, or a decoded plane whose
// channel count or dimensions do not match the header.
type DecodeError struct {
	Plane int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ptm: decoding plane %d: %v", e.Plane, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
