package pixel

import (
	"fmt"
	"math"
)

// Buffer is a rectangular grid of pixels stored row-major. The pixel at
// (x, y) is element y*Stride + x of Words, or the four bytes starting at
// Bytes[(y*Stride + x)*4].
//
// Exactly one of Words and Bytes is set. Words is only valid for packed
// encodings; Bytes may back either unit size, in which case packed words
// are laid out in the encoding's byte order.
type Buffer struct {
	Width    int
	Height   int
	Stride   int // in pixels
	Encoding Encoding

	Words []uint32
	Bytes []byte
}

// NewBuffer allocates a buffer backed by words for packed encodings and by
// bytes otherwise.
func NewBuffer(width, height int, enc Encoding) (*Buffer, error) {
	if enc.Unit != Packed32 {
		return NewByteBuffer(width, height, enc)
	}

	b := &Buffer{
		Width:    width,
		Height:   height,
		Stride:   width,
		Encoding: enc,
	}
	if err := b.checkGeometry(); err != nil {
		return nil, err
	}
	b.Words = make([]uint32, width*height)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// NewByteBuffer allocates a buffer backed by a raw byte sequence regardless
// of the unit size.
func NewByteBuffer(width, height int, enc Encoding) (*Buffer, error) {
	b := &Buffer{
		Width:    width,
		Height:   height,
		Stride:   width,
		Encoding: enc,
	}
	if err := b.checkGeometry(); err != nil {
		return nil, err
	}
	b.Bytes = make([]byte, width*height*4)
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Validate checks the geometry, the encoding and the backing storage size.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if err := b.Encoding.Validate(); err != nil {
		return err
	}

	if err := b.checkGeometry(); err != nil {
		return err
	}
	if (b.Words == nil) == (b.Bytes == nil) {
		return fmt.Errorf("%w: exactly one of words or bytes must back the buffer", ErrInvalidBuffer)
	}

	n := b.Stride * b.Height
	if b.Words != nil {
		if b.Encoding.Unit != Packed32 {
			return &UnsupportedFormatError{Encoding: b.Encoding, Reason: "word backing requires a packed unit"}
		}
		if len(b.Words) < n {
			return fmt.Errorf("%w: %d words, need %d", ErrInvalidBuffer, len(b.Words), n)
		}
	} else if len(b.Bytes) < n*4 {
		return fmt.Errorf("%w: %d bytes, need %d", ErrInvalidBuffer, len(b.Bytes), n*4)
	}
	return nil
}

// checkGeometry rejects sizes whose memory size in bytes overflows an int.
func (b *Buffer) checkGeometry() error {
	switch {
	case b.Width <= 0 || b.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidBuffer, b.Width, b.Height)
	case b.Stride < b.Width:
		return fmt.Errorf("%w: stride %d less than width %d", ErrInvalidBuffer, b.Stride, b.Width)
	case b.Height > math.MaxInt/4/b.Stride:
		return fmt.Errorf("%w: stride %d by height %d is too large", ErrInvalidBuffer, b.Stride, b.Height)
	}
	return nil
}

// PixOffset returns the pixel index of (x, y).
func (b *Buffer) PixOffset(x, y int) int {
	return y*b.Stride + x
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	c := *b
	if b.Words != nil {
		c.Words = append([]uint32(nil), b.Words...)
	}
	if b.Bytes != nil {
		c.Bytes = append([]byte(nil), b.Bytes...)
	}
	return &c
}

// load returns the memory bytes of pixel i.
func (b *Buffer) load(i int) (px [4]byte) {
	if b.Words != nil {
		b.Encoding.ByteOrder.binary().PutUint32(px[:], b.Words[i])
		return px
	}
	copy(px[:], b.Bytes[i*4:i*4+4])
	return px
}

func (b *Buffer) store(i int, px [4]byte) {
	if b.Words != nil {
		b.Words[i] = b.Encoding.ByteOrder.binary().Uint32(px[:])
		return
	}
	copy(b.Bytes[i*4:i*4+4], px[:])
}

// MemoryBytes serializes the pixel memory of the first Stride*Height pixels.
func (b *Buffer) MemoryBytes() []byte {
	n := b.Stride * b.Height
	if b.Words == nil {
		return b.Bytes[:n*4]
	}
	out := make([]byte, n*4)
	order := b.Encoding.ByteOrder.binary()
	for i, w := range b.Words[:n] {
		order.PutUint32(out[i*4:], w)
	}
	return out
}
