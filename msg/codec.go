package msg

import (
	"encoding/binary"
	"io"
)

// Lookup resolves a message path to its parsed description, so the codec
// can recurse into message-typed fields. Callers typically back this with
// a map built from a package's loaded .msg files.
type Lookup func(Path) (Msg, bool)

// EncodeMessage writes v to w in the binary wire form (§4.1): fields are
// concatenated in declaration order, constants are never serialized,
// fixed arrays carry no length prefix, everything else that's
// variable-length does.
func EncodeMessage(w io.Writer, m Msg, v *MessageValue, lookup Lookup) error {
	return encodeFields(w, m.Fields, m.Path.Package(), v, lookup)
}

// DecodeMessage reads a MessageValue for m's fields from r.
func DecodeMessage(r io.Reader, m Msg, lookup Lookup) (*MessageValue, error) {
	return decodeFields(r, m.Fields, m.Path.Package(), lookup)
}

func encodeFields(w io.Writer, fields []FieldInfo, owningPackage string, v *MessageValue, lookup Lookup) error {
	for _, f := range fields {
		if f.IsConstant() {
			continue
		}
		fv, ok := v.Get(f.Name)
		if !ok {
			return &BadMessageContentError{Detail: "missing field " + f.Name}
		}
		if err := encodeField(w, f, owningPackage, fv, lookup); err != nil {
			return err
		}
	}
	return nil
}

func decodeFields(r io.Reader, fields []FieldInfo, owningPackage string, lookup Lookup) (*MessageValue, error) {
	out := NewMessageValue()
	for _, f := range fields {
		if f.IsConstant() {
			continue
		}
		fv, err := decodeField(r, f, owningPackage, lookup)
		if err != nil {
			return nil, err
		}
		out.Set(f.Name, fv)
	}
	return out, nil
}

func encodeField(w io.Writer, f FieldInfo, owningPackage string, v Value, lookup Lookup) error {
	switch f.Case.Kind {
	case CaseVector:
		arr, ok := v.(ArrayValue)
		if !ok {
			return &TypeMismatchError{Expected: "array", Actual: "scalar"}
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(arr))); err != nil {
			return err
		}
		for _, elem := range arr {
			if err := encodeScalar(w, f.DataType, owningPackage, elem, lookup); err != nil {
				return err
			}
		}
		return nil
	case CaseArray:
		arr, ok := v.(ArrayValue)
		if !ok {
			return &TypeMismatchError{Expected: "array", Actual: "scalar"}
		}
		if len(arr) != f.Case.Length {
			return &BadMessageContentError{Detail: "fixed array field " + f.Name + " has wrong length"}
		}
		for _, elem := range arr {
			if err := encodeScalar(w, f.DataType, owningPackage, elem, lookup); err != nil {
				return err
			}
		}
		return nil
	default:
		return encodeScalar(w, f.DataType, owningPackage, v, lookup)
	}
}

func decodeField(r io.Reader, f FieldInfo, owningPackage string, lookup Lookup) (Value, error) {
	switch f.Case.Kind {
	case CaseVector:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		arr := make(ArrayValue, n)
		for i := range arr {
			elem, err := decodeScalar(r, f.DataType, owningPackage, lookup)
			if err != nil {
				return nil, err
			}
			arr[i] = elem
		}
		return arr, nil
	case CaseArray:
		arr := make(ArrayValue, f.Case.Length)
		for i := range arr {
			elem, err := decodeScalar(r, f.DataType, owningPackage, lookup)
			if err != nil {
				return nil, err
			}
			arr[i] = elem
		}
		return arr, nil
	default:
		return decodeScalar(r, f.DataType, owningPackage, lookup)
	}
}

func encodeScalar(w io.Writer, dt DataType, owningPackage string, v Value, lookup Lookup) error {
	switch dt.Kind {
	case KindBool:
		b, ok := v.(BoolValue)
		if !ok {
			return &TypeMismatchError{Expected: "bool", Actual: "?"}
		}
		var raw byte
		if b {
			raw = 1
		}
		_, err := w.Write([]byte{raw})
		return err
	case KindI8:
		return writeNumeric(w, v, func(x I8Value) error { return binary.Write(w, binary.LittleEndian, int8(x)) }, "int8")
	case KindI16:
		return writeNumeric(w, v, func(x I16Value) error { return binary.Write(w, binary.LittleEndian, int16(x)) }, "int16")
	case KindI32:
		return writeNumeric(w, v, func(x I32Value) error { return binary.Write(w, binary.LittleEndian, int32(x)) }, "int32")
	case KindI64:
		return writeNumeric(w, v, func(x I64Value) error { return binary.Write(w, binary.LittleEndian, int64(x)) }, "int64")
	case KindU8:
		return writeNumeric(w, v, func(x U8Value) error { return binary.Write(w, binary.LittleEndian, uint8(x)) }, "uint8")
	case KindU16:
		return writeNumeric(w, v, func(x U16Value) error { return binary.Write(w, binary.LittleEndian, uint16(x)) }, "uint16")
	case KindU32:
		return writeNumeric(w, v, func(x U32Value) error { return binary.Write(w, binary.LittleEndian, uint32(x)) }, "uint32")
	case KindU64:
		return writeNumeric(w, v, func(x U64Value) error { return binary.Write(w, binary.LittleEndian, uint64(x)) }, "uint64")
	case KindF32:
		return writeNumeric(w, v, func(x F32Value) error { return binary.Write(w, binary.LittleEndian, float32(x)) }, "float32")
	case KindF64:
		return writeNumeric(w, v, func(x F64Value) error { return binary.Write(w, binary.LittleEndian, float64(x)) }, "float64")
	case KindString:
		s, ok := v.(StringValue)
		if !ok {
			return &TypeMismatchError{Expected: "string", Actual: "?"}
		}
		if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
			return err
		}
		_, err := io.WriteString(w, string(s))
		return err
	case KindTime:
		t, ok := v.(TimeValue)
		if !ok {
			return &TypeMismatchError{Expected: "time", Actual: "?"}
		}
		if err := binary.Write(w, binary.LittleEndian, t.Sec); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, t.Nsec)
	case KindDuration:
		d, ok := v.(DurationValue)
		if !ok {
			return &TypeMismatchError{Expected: "duration", Actual: "?"}
		}
		if err := binary.Write(w, binary.LittleEndian, d.Sec); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, d.Nsec)
	case KindLocalMessage, KindGlobalMessage:
		mv, ok := v.(*MessageValue)
		if !ok {
			return &TypeMismatchError{Expected: "message", Actual: "?"}
		}
		target, sub, err := resolveNested(dt, owningPackage, lookup)
		if err != nil {
			return err
		}
		return encodeFields(w, sub.Fields, target.Package(), mv, lookup)
	default:
		return &UnsupportedDataTypeError{Name: "?", Reason: "unrecognized data type kind"}
	}
}

func decodeScalar(r io.Reader, dt DataType, owningPackage string, lookup Lookup) (Value, error) {
	switch dt.Kind {
	case KindBool:
		var raw [1]byte
		if _, err := io.ReadFull(r, raw[:]); err != nil {
			return nil, err
		}
		return BoolValue(raw[0] != 0), nil
	case KindI8:
		var x int8
		err := binary.Read(r, binary.LittleEndian, &x)
		return I8Value(x), err
	case KindI16:
		var x int16
		err := binary.Read(r, binary.LittleEndian, &x)
		return I16Value(x), err
	case KindI32:
		var x int32
		err := binary.Read(r, binary.LittleEndian, &x)
		return I32Value(x), err
	case KindI64:
		var x int64
		err := binary.Read(r, binary.LittleEndian, &x)
		return I64Value(x), err
	case KindU8:
		var x uint8
		err := binary.Read(r, binary.LittleEndian, &x)
		return U8Value(x), err
	case KindU16:
		var x uint16
		err := binary.Read(r, binary.LittleEndian, &x)
		return U16Value(x), err
	case KindU32:
		var x uint32
		err := binary.Read(r, binary.LittleEndian, &x)
		return U32Value(x), err
	case KindU64:
		var x uint64
		err := binary.Read(r, binary.LittleEndian, &x)
		return U64Value(x), err
	case KindF32:
		var x float32
		err := binary.Read(r, binary.LittleEndian, &x)
		return F32Value(x), err
	case KindF64:
		var x float64
		err := binary.Read(r, binary.LittleEndian, &x)
		return F64Value(x), err
	case KindString:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		buf := make([]byte, n)
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, err
		}
		return StringValue(buf), nil
	case KindTime:
		var t Time
		if err := binary.Read(r, binary.LittleEndian, &t.Sec); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &t.Nsec); err != nil {
			return nil, err
		}
		return TimeValue(t), nil
	case KindDuration:
		var d Duration
		if err := binary.Read(r, binary.LittleEndian, &d.Sec); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &d.Nsec); err != nil {
			return nil, err
		}
		return DurationValue(d), nil
	case KindLocalMessage, KindGlobalMessage:
		target, sub, err := resolveNested(dt, owningPackage, lookup)
		if err != nil {
			return nil, err
		}
		return decodeFields(r, sub.Fields, target.Package(), lookup)
	default:
		return nil, &UnsupportedDataTypeError{Name: "?", Reason: "unrecognized data type kind"}
	}
}

func resolveNested(dt DataType, owningPackage string, lookup Lookup) (Path, Msg, error) {
	var target Path
	switch dt.Kind {
	case KindLocalMessage:
		target = Path{pkg: owningPackage, name: dt.Local}
	case KindGlobalMessage:
		target = dt.Global
	}
	sub, ok := lookup(target)
	if !ok {
		return Path{}, Msg{}, &DependencyMissingError{Package: target.Package(), Name: target.Name()}
	}
	return target, sub, nil
}

// writeNumeric type-asserts v to T before invoking write, reporting a
// TypeMismatchError under the given type name on a failed assertion.
func writeNumeric[T Value](w io.Writer, v Value, write func(T) error, typeName string) error {
	x, ok := v.(T)
	if !ok {
		return &TypeMismatchError{Expected: typeName, Actual: "?"}
	}
	return write(x)
}
