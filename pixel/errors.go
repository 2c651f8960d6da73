package pixel

import (
	"errors"
	"fmt"
)

// ErrInvalidBuffer is returned for buffers with bad geometry or backing
// storage too small for their geometry.
var ErrInvalidBuffer = errors.New("invalid pixel buffer")

// UnsupportedFormatError reports an encoding that is not one of the
// recognized layouts.
type UnsupportedFormatError struct {
	Encoding Encoding
	Reason   string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported pixel format %s/%s/%s: %s",
		e.Encoding.Order, e.Encoding.Alpha, e.Encoding.Unit, e.Reason)
}

// DimensionMismatchError reports source and destination buffers whose
// declared sizes differ.
type DimensionMismatchError struct {
	SrcWidth, SrcHeight int
	DstWidth, DstHeight int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: source %dx%d, destination %dx%d",
		e.SrcWidth, e.SrcHeight, e.DstWidth, e.DstHeight)
}
