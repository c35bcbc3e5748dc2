package layout

import "math"

// Kind enumerates the primitive types the engine knows about. The set
// is closed: anything outside it is a *ConfigError at Add time, never
// a dynamic lookup.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt8
	KindUint8
	KindBool8
	KindInt16
	KindUint16
	KindBool16
	KindFloat16
	KindInt32
	KindUint32
	KindBool32
	KindFloat32
	KindInt64
	KindUint64
	KindBool64
	KindFloat64
	KindText
)

type kindClass int

const (
	classSigned kindClass = iota
	classUnsigned
	classBool
	classFloat
	classText
)

type kindInfo struct {
	name  string
	bytes int
	class kindClass
}

func (k Kind) info() kindInfo {
	switch k {
	case KindInt8:
		return kindInfo{"int8", 1, classSigned}
	case KindUint8:
		return kindInfo{"uint8", 1, classUnsigned}
	case KindBool8:
		return kindInfo{"bool8", 1, classBool}
	case KindInt16:
		return kindInfo{"int16", 2, classSigned}
	case KindUint16:
		return kindInfo{"uint16", 2, classUnsigned}
	case KindBool16:
		return kindInfo{"bool16", 2, classBool}
	case KindFloat16:
		return kindInfo{"float16", 2, classFloat}
	case KindInt32:
		return kindInfo{"int32", 4, classSigned}
	case KindUint32:
		return kindInfo{"uint32", 4, classUnsigned}
	case KindBool32:
		return kindInfo{"bool32", 4, classBool}
	case KindFloat32:
		return kindInfo{"float32", 4, classFloat}
	case KindInt64:
		return kindInfo{"int64", 8, classSigned}
	case KindUint64:
		return kindInfo{"uint64", 8, classUnsigned}
	case KindBool64:
		return kindInfo{"bool64", 8, classBool}
	case KindFloat64:
		return kindInfo{"float64", 8, classFloat}
	case KindText:
		return kindInfo{"utf-8", 1, classText}
	default:
		return kindInfo{"invalid", 0, classText}
	}
}

func (k Kind) String() string { return k.info().name }

// ParseKind resolves a primitive type name. Unknown names are a
// *ConfigError.
func ParseKind(name string) (Kind, error) {
	switch name {
	case "int8":
		return KindInt8, nil
	case "uint8":
		return KindUint8, nil
	case "bool8":
		return KindBool8, nil
	case "int16":
		return KindInt16, nil
	case "uint16":
		return KindUint16, nil
	case "bool16":
		return KindBool16, nil
	case "float16":
		return KindFloat16, nil
	case "int32":
		return KindInt32, nil
	case "uint32":
		return KindUint32, nil
	case "bool32":
		return KindBool32, nil
	case "float32":
		return KindFloat32, nil
	case "int64":
		return KindInt64, nil
	case "uint64":
		return KindUint64, nil
	case "bool64":
		return KindBool64, nil
	case "float64":
		return KindFloat64, nil
	case "utf-8":
		return KindText, nil
	default:
		return KindInvalid, errConfigf("unknown type name %q", name)
	}
}

// Scalar is a fixed-width integer, float or boolean codec.
//
// Signed integers decode to int64, unsigned to uint64, floats to
// float64 and booleans to bool (any nonzero stored value is true).
type Scalar struct {
	kind      Kind
	byteOrder ByteOrder
}

// NewScalar builds a scalar codec for the given primitive kind.
func NewScalar(kind Kind, byteOrder ByteOrder) (*Scalar, error) {
	if kind == KindInvalid || kind == KindText {
		return nil, errConfigf("kind %q is not a scalar", kind)
	}
	if !byteOrder.valid() {
		return nil, errConfigf("invalid byte order %d", byteOrder)
	}
	return &Scalar{kind: kind, byteOrder: byteOrder}, nil
}

func (s *Scalar) Size() int        { return s.kind.info().bytes }
func (s *Scalar) Alignment() int   { return s.kind.info().bytes }
func (s *Scalar) TypeName() string { return s.kind.String() }

func (s *Scalar) Serialize(v any) ([]byte, error) {
	info := s.kind.info()
	buf := make([]byte, info.bytes)
	bits := info.bytes * 8

	var u uint64
	switch info.class {
	case classSigned:
		n, err := toInt64(v)
		if err != nil {
			return nil, err
		}
		if bits < 64 {
			min, max := int64(-1)<<(bits-1), int64(1)<<(bits-1)-1
			if n < min || n > max {
				return nil, errRangef("", "value %d outside %s range [%d, %d]", n, info.name, min, max)
			}
		}
		u = uint64(n)
	case classUnsigned:
		n, err := toUint64(v)
		if err != nil {
			return nil, err
		}
		if bits < 64 && n > uint64(1)<<bits-1 {
			return nil, errRangef("", "value %d outside %s range [0, %d]", n, info.name, uint64(1)<<bits-1)
		}
		u = n
	case classBool:
		b, err := toBool(v)
		if err != nil {
			return nil, err
		}
		if b {
			u = 1
		}
	case classFloat:
		f, err := toFloat64(v)
		if err != nil {
			return nil, err
		}
		switch info.bytes {
		case 2:
			u = uint64(halfFromFloat32(float32(f)))
		case 4:
			u = uint64(math.Float32bits(float32(f)))
		default:
			u = math.Float64bits(f)
		}
	}

	putUint(buf, u, s.byteOrder)
	return buf, nil
}

func (s *Scalar) Deserialize(buf []byte) (any, error) {
	info := s.kind.info()
	if len(buf) < info.bytes {
		return nil, errSize(len(buf), info.bytes)
	}
	u := getUint(buf[:info.bytes], s.byteOrder)

	switch info.class {
	case classSigned:
		return signExtend(u, info.bytes*8), nil
	case classUnsigned:
		return u, nil
	case classBool:
		return u != 0, nil
	default:
		switch info.bytes {
		case 2:
			return float64(halfToFloat32(uint16(u))), nil
		case 4:
			return float64(math.Float32frombits(uint32(u))), nil
		default:
			return math.Float64frombits(u), nil
		}
	}
}
