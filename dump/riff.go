// Package dump stores raw pixel buffers in a RIFF container so that the
// exact memory handed to a display can be inspected later.
package dump

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"pixbench/pixel"

	"golang.org/x/image/riff"
)

/*
RIFF 'PXBF'
  'fmt ' chunk, 20 bytes, little-endian:
    u32 width
    u32 height
    u32 stride     pixels per row
    u8  order      pixel.ChannelOrder
    u8  alpha      pixel.AlphaMode
    u8  unit       pixel.UnitSize
    u8  byteorder  pixel.ByteOrder as declared (NATIVE is kept)
    u8  backing    0 bytes, 1 words
    u8  reserved[3]
  'data' chunk, stride*height*4 bytes of pixel memory, words serialized in
  the resolved byte order of the encoding.
*/

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	formType = riff.FourCC{'P', 'X', 'B', 'F'}
	fmtType  = riff.FourCC{'f', 'm', 't', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

const fmtSize = 20

const (
	backingBytes = 0
	backingWords = 1
)

// Read parses a buffer previously stored with Write.
func Read(r io.Reader) (*pixel.Buffer, error) {
	form, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if form != formType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(form[:]))
	}

	var buf *pixel.Buffer
	var backing byte
	for {
		id, size, data, err := rd.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("could not read chunk: %w", err)
		}

		switch id {
		case fmtType:
			if buf != nil {
				return nil, fmt.Errorf("duplicate %q chunk", string(id[:]))
			}
			if buf, backing, err = readFormat(data, size); err != nil {
				return nil, err
			}
		case dataType:
			if buf == nil {
				return nil, fmt.Errorf("%q chunk before %q chunk", string(dataType[:]), string(fmtType[:]))
			}
			if err = readData(buf, backing, data, size); err != nil {
				return nil, err
			}
			if err = buf.Validate(); err != nil {
				return nil, fmt.Errorf("stored buffer is invalid: %w", err)
			}
			return buf, nil
		default:
			// unknown chunks are skipped
		}
	}

	return nil, fmt.Errorf("no %q chunk", string(dataType[:]))
}

func readFormat(r io.Reader, size uint32) (*pixel.Buffer, byte, error) {
	if size != fmtSize {
		return nil, 0, fmt.Errorf("unexpected %q chunk size: %d", string(fmtType[:]), size)
	}

	head := make([]byte, fmtSize)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, 0, fmt.Errorf("could not read %q chunk: %w", string(fmtType[:]), err)
	}

	width := binary.LittleEndian.Uint32(head[0:])
	height := binary.LittleEndian.Uint32(head[4:])
	stride := binary.LittleEndian.Uint32(head[8:])
	// the pixel memory has to fit a single data chunk
	if uint64(stride)*uint64(height) > math.MaxUint32/4 {
		return nil, 0, fmt.Errorf("%w: stride %d by height %d does not fit a %q chunk", pixel.ErrInvalidBuffer, stride, height, string(dataType[:]))
	}

	buf := &pixel.Buffer{
		Width:  int(width),
		Height: int(height),
		Stride: int(stride),
		Encoding: pixel.Encoding{
			Order:     pixel.ChannelOrder(head[12]),
			Alpha:     pixel.AlphaMode(head[13]),
			Unit:      pixel.UnitSize(head[14]),
			ByteOrder: pixel.ByteOrder(head[15]),
		},
	}
	if err := buf.Encoding.Validate(); err != nil {
		return nil, 0, err
	}

	backing := head[16]
	if backing != backingBytes && backing != backingWords {
		return nil, 0, fmt.Errorf("unknown backing type: %d", backing)
	}
	return buf, backing, nil
}

func readData(buf *pixel.Buffer, backing byte, r io.Reader, size uint32) error {
	n := buf.Stride * buf.Height * 4
	if n <= 0 || int64(size) != int64(n) {
		return fmt.Errorf("unexpected %q chunk size %d for %dx%d stride %d", string(dataType[:]), size, buf.Width, buf.Height, buf.Stride)
	}

	mem := make([]byte, n)
	if _, err := io.ReadFull(r, mem); err != nil {
		return fmt.Errorf("could not read pixel data: %w", err)
	}

	if backing == backingBytes {
		buf.Bytes = mem
		return nil
	}

	order := binary.ByteOrder(binary.BigEndian)
	if buf.Encoding.ByteOrder.Resolve() == pixel.LittleEndian {
		order = binary.LittleEndian
	}
	buf.Words = make([]uint32, n/4)
	for i := range buf.Words {
		buf.Words[i] = order.Uint32(mem[i*4:])
	}
	return nil
}

// Write stores buf, returning the number of bytes written.
func Write(w io.Writer, buf *pixel.Buffer) (int64, error) {
	if err := buf.Validate(); err != nil {
		return 0, fmt.Errorf("could not dump buffer: %w", err)
	}

	mem := buf.MemoryBytes()
	size := 4 + (8 + fmtSize) + (8 + len(mem)) // form type + chunk headers and bodies

	var count int64
	write := func(b []byte) error {
		n, err := w.Write(b)
		count += int64(n)
		if err != nil {
			return err
		} else if n != len(b) {
			return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
		}
		return nil
	}

	if err := write(riffType[:]); err != nil {
		return count, fmt.Errorf("could not write RIFF magic: %w", err)
	}
	if err := write(binary.LittleEndian.AppendUint32(nil, uint32(size))); err != nil {
		return count, fmt.Errorf("could not write document size: %w", err)
	}
	if err := write(formType[:]); err != nil {
		return count, fmt.Errorf("could not write content type: %w", err)
	}

	head := make([]byte, 0, 8+fmtSize)
	head = append(head, fmtType[:]...)
	head = binary.LittleEndian.AppendUint32(head, fmtSize)
	head = binary.LittleEndian.AppendUint32(head, uint32(buf.Width))
	head = binary.LittleEndian.AppendUint32(head, uint32(buf.Height))
	head = binary.LittleEndian.AppendUint32(head, uint32(buf.Stride))
	backing := byte(backingBytes)
	if buf.Words != nil {
		backing = backingWords
	}
	enc := buf.Encoding
	head = append(head, byte(enc.Order), byte(enc.Alpha), byte(enc.Unit), byte(enc.ByteOrder), backing, 0, 0, 0)
	if err := write(head); err != nil {
		return count, fmt.Errorf("could not write format chunk: %w", err)
	}

	chunk := binary.LittleEndian.AppendUint32(append([]byte(nil), dataType[:]...), uint32(len(mem)))
	if err := write(chunk); err != nil {
		return count, fmt.Errorf("could not write data chunk header: %w", err)
	}
	if err := write(mem); err != nil {
		return count, fmt.Errorf("could not write pixel data: %w", err)
	}

	return count, nil
}
