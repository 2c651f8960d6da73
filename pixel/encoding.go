package pixel

import (
	"encoding/binary"
	"fmt"
	"strings"
)

type ChannelOrder uint8

const (
	RGB ChannelOrder = iota
	BGR
	ARGB
	ABGR
	RGBA
	BGRA
)

var orderNames = [...]string{
	RGB:  "RGB",
	BGR:  "BGR",
	ARGB: "ARGB",
	ABGR: "ABGR",
	RGBA: "RGBA",
	BGRA: "BGRA",
}

func (o ChannelOrder) String() string {
	if int(o) < len(orderNames) {
		return orderNames[o]
	}
	return fmt.Sprintf("ChannelOrder(%d)", o)
}

// HasAlpha reports whether the order names four channels.
func (o ChannelOrder) HasAlpha() bool {
	return o != RGB && o != BGR
}

type AlphaMode uint8

const (
	AlphaNone AlphaMode = iota
	AlphaStraight
	AlphaPremultiplied
)

func (m AlphaMode) String() string {
	switch m {
	case AlphaNone:
		return "NONE"
	case AlphaStraight:
		return "STRAIGHT"
	case AlphaPremultiplied:
		return "PREMULTIPLIED"
	}
	return fmt.Sprintf("AlphaMode(%d)", m)
}

type UnitSize uint8

const (
	// Packed32 stores one pixel per 32-bit word, components named from the
	// most significant byte down.
	Packed32 UnitSize = iota
	// FourBytes stores one pixel as four independent bytes in memory order.
	FourBytes
)

func (u UnitSize) String() string {
	switch u {
	case Packed32:
		return "PACKED_32BIT_INT"
	case FourBytes:
		return "FOUR_BYTES"
	}
	return fmt.Sprintf("UnitSize(%d)", u)
}

type ByteOrder uint8

const (
	NativeOrder ByteOrder = iota
	BigEndian
	LittleEndian
)

func (b ByteOrder) String() string {
	switch b {
	case NativeOrder:
		return "NATIVE"
	case BigEndian:
		return "BE"
	case LittleEndian:
		return "LE"
	}
	return fmt.Sprintf("ByteOrder(%d)", b)
}

// Resolve maps NativeOrder to the host byte order.
func (b ByteOrder) Resolve() ByteOrder {
	if b != NativeOrder {
		return b
	}
	if binary.NativeEndian.Uint16([]byte{1, 0}) == 1 {
		return LittleEndian
	}
	return BigEndian
}

func (b ByteOrder) binary() binary.ByteOrder {
	if b.Resolve() == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// Encoding describes the physical layout of one pixel.
type Encoding struct {
	Order     ChannelOrder
	Alpha     AlphaMode
	Unit      UnitSize
	ByteOrder ByteOrder
}

var (
	IntRGB      = Encoding{Order: RGB, Alpha: AlphaNone, Unit: Packed32}
	IntBGR      = Encoding{Order: BGR, Alpha: AlphaNone, Unit: Packed32}
	IntARGB     = Encoding{Order: ARGB, Alpha: AlphaStraight, Unit: Packed32}
	IntARGBPre  = Encoding{Order: ARGB, Alpha: AlphaPremultiplied, Unit: Packed32}
	ByteABGR    = Encoding{Order: ABGR, Alpha: AlphaStraight, Unit: FourBytes}
	ByteABGRPre = Encoding{Order: ABGR, Alpha: AlphaPremultiplied, Unit: FourBytes}
	ByteBGRA    = Encoding{Order: BGRA, Alpha: AlphaStraight, Unit: FourBytes}
	ByteBGRAPre = Encoding{Order: BGRA, Alpha: AlphaPremultiplied, Unit: FourBytes}
	ByteRGBA    = Encoding{Order: RGBA, Alpha: AlphaStraight, Unit: FourBytes}
	ByteRGBAPre = Encoding{Order: RGBA, Alpha: AlphaPremultiplied, Unit: FourBytes}
)

var namedEncodings = []struct {
	name string
	enc  Encoding
}{
	{"INT_RGB", IntRGB},
	{"INT_BGR", IntBGR},
	{"INT_ARGB", IntARGB},
	{"INT_ARGB_PRE", IntARGBPre},
	{"BYTE_ABGR", ByteABGR},
	{"BYTE_ABGR_PRE", ByteABGRPre},
	{"BYTE_BGRA", ByteBGRA},
	{"BYTE_BGRA_PRE", ByteBGRAPre},
	{"BYTE_RGBA", ByteRGBA},
	{"BYTE_RGBA_PRE", ByteRGBAPre},
}

// WithByteOrder returns a copy of e with the given byte order.
func (e Encoding) WithByteOrder(b ByteOrder) Encoding {
	e.ByteOrder = b
	return e
}

// Validate checks that the order, alpha mode and unit size describe one of
// the recognized layouts.
func (e Encoding) Validate() error {
	switch e.Unit {
	case Packed32:
		if e.Order != RGB && e.Order != BGR && e.Order != ARGB {
			return &UnsupportedFormatError{Encoding: e, Reason: "no packed 32-bit component order"}
		}
		if e.ByteOrder > LittleEndian {
			return &UnsupportedFormatError{Encoding: e, Reason: "unknown byte order"}
		}
	case FourBytes:
		if e.Order != ABGR && e.Order != BGRA && e.Order != RGBA {
			return &UnsupportedFormatError{Encoding: e, Reason: "no four byte component order"}
		}
	default:
		return &UnsupportedFormatError{Encoding: e, Reason: "unknown unit size"}
	}

	switch {
	case e.Alpha > AlphaPremultiplied:
		return &UnsupportedFormatError{Encoding: e, Reason: "unknown alpha mode"}
	case e.Order.HasAlpha() && e.Alpha == AlphaNone:
		return &UnsupportedFormatError{Encoding: e, Reason: "four channel order without alpha"}
	case !e.Order.HasAlpha() && e.Alpha != AlphaNone:
		return &UnsupportedFormatError{Encoding: e, Reason: "three channel order with alpha"}
	}
	return nil
}

func (e Encoding) String() string {
	base := e
	base.ByteOrder = NativeOrder
	for _, n := range namedEncodings {
		if n.enc == base {
			if e.Unit == Packed32 && e.ByteOrder != NativeOrder {
				return n.name + "/" + e.ByteOrder.String()
			}
			return n.name
		}
	}
	return fmt.Sprintf("%s/%s/%s/%s", e.Order, e.Alpha, e.Unit, e.ByteOrder)
}

// ParseEncoding parses a name such as "BYTE_BGRA_PRE" or "INT_ARGB/LE".
func ParseEncoding(s string) (Encoding, error) {
	name, order, hasOrder := strings.Cut(strings.ToUpper(strings.TrimSpace(s)), "/")
	for _, n := range namedEncodings {
		if n.name != name {
			continue
		}
		enc := n.enc
		if !hasOrder {
			return enc, nil
		}
		if enc.Unit != Packed32 {
			return Encoding{}, fmt.Errorf("byte order suffix on four byte encoding %q", s)
		}
		switch order {
		case "LE":
			enc.ByteOrder = LittleEndian
		case "BE":
			enc.ByteOrder = BigEndian
		case "NATIVE":
			enc.ByteOrder = NativeOrder
		default:
			return Encoding{}, fmt.Errorf("unknown byte order %q in %q", order, s)
		}
		return enc, nil
	}
	return Encoding{}, fmt.Errorf("unknown encoding %q", s)
}

func (e Encoding) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Encoding) UnmarshalText(text []byte) error {
	enc, err := ParseEncoding(string(text))
	if err != nil {
		return err
	}
	*e = enc
	return nil
}

// layout holds the memory position (0..3) of each logical channel. For
// three channel encodings a is the position of the pad byte.
type layout struct {
	r, g, b, a int
}

func (e Encoding) layout() layout {
	var names string
	switch e.Order {
	case RGB:
		names = "xRGB"
	case BGR:
		names = "xBGR"
	default:
		names = e.Order.String()
	}

	pos := func(c byte) int {
		i := strings.IndexByte(names, c)
		if c == 'A' && i < 0 {
			i = strings.IndexByte(names, 'x')
		}
		if e.Unit == Packed32 && e.ByteOrder.Resolve() == LittleEndian {
			return 3 - i
		}
		return i
	}
	return layout{r: pos('R'), g: pos('G'), b: pos('B'), a: pos('A')}
}
