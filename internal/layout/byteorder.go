package layout

import "encoding/binary"

// ByteOrder selects how multi-byte values are laid out in the buffer.
// NativeOrder resolves to the byte order of the host at codec
// construction time.
type ByteOrder int

const (
	NativeOrder ByteOrder = iota
	LittleEndian
	BigEndian
)

// hostLittle reports whether the host stores integers little-endian.
var hostLittle = func() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[0] == 1
}()

// ParseByteOrder maps the textual byte-order names to a ByteOrder.
func ParseByteOrder(name string) (ByteOrder, error) {
	switch name {
	case "", "native":
		return NativeOrder, nil
	case "little":
		return LittleEndian, nil
	case "big":
		return BigEndian, nil
	default:
		return NativeOrder, errConfigf("invalid byte order %q", name)
	}
}

func (bo ByteOrder) String() string {
	switch bo {
	case NativeOrder:
		return "native"
	case LittleEndian:
		return "little"
	case BigEndian:
		return "big"
	default:
		return "invalid"
	}
}

func (bo ByteOrder) valid() bool {
	return bo == NativeOrder || bo == LittleEndian || bo == BigEndian
}

// resolve pins NativeOrder to the concrete host order. Bitfields and
// enums store the resolved order so that their whole-integer reads are
// deterministic for the life of the codec.
func (bo ByteOrder) resolve() ByteOrder {
	if bo != NativeOrder {
		return bo
	}
	if hostLittle {
		return LittleEndian
	}
	return BigEndian
}

func (bo ByteOrder) little() bool {
	return bo.resolve() == LittleEndian
}

// order returns the encoding/binary view of the byte order, used for
// the fixed 1/2/4/8-byte scalar widths.
func (bo ByteOrder) order() binary.ByteOrder {
	switch bo {
	case LittleEndian:
		return binary.LittleEndian
	case BigEndian:
		return binary.BigEndian
	default:
		return binary.NativeEndian
	}
}

// putUint writes the low len(buf) bytes of v into buf. Unlike the
// encoding/binary helpers this supports odd widths (3, 5, 6, 7 bytes)
// as needed by auto-sized bitfields and enums.
func putUint(buf []byte, v uint64, bo ByteOrder) {
	n := len(buf)
	if bo.little() {
		for i := 0; i < n; i++ {
			buf[i] = byte(v >> (8 * i))
		}
		return
	}
	for i := 0; i < n; i++ {
		buf[n-1-i] = byte(v >> (8 * i))
	}
}

// getUint reads len(buf) bytes as an unsigned integer.
func getUint(buf []byte, bo ByteOrder) uint64 {
	n := len(buf)
	var v uint64
	if bo.little() {
		for i := 0; i < n; i++ {
			v |= uint64(buf[i]) << (8 * i)
		}
		return v
	}
	for i := 0; i < n; i++ {
		v |= uint64(buf[n-1-i]) << (8 * i)
	}
	return v
}

// signExtend interprets the low `bits` bits of u as a two's-complement
// signed value.
func signExtend(u uint64, bits int) int64 {
	shift := 64 - bits
	return int64(u<<shift) >> shift
}
