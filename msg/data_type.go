package msg

// Kind enumerates the categories a field's DataType can fall into.
type Kind int

const (
	KindBool Kind = iota
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindString
	KindTime
	KindDuration
	// KindLocalMessage references another message in the same package.
	KindLocalMessage
	// KindGlobalMessage references a message in package/name form.
	KindGlobalMessage
)

// primitiveNames maps the wire/source keyword to its Kind. "byte" and
// "char" are kept as the historical aliases for int8/uint8.
var primitiveNames = map[string]Kind{
	"bool":     KindBool,
	"int8":     KindI8,
	"byte":     KindI8,
	"int16":    KindI16,
	"int32":    KindI32,
	"int64":    KindI64,
	"uint8":    KindU8,
	"char":     KindU8,
	"uint16":   KindU16,
	"uint32":   KindU32,
	"uint64":   KindU64,
	"float32":  KindF32,
	"float64":  KindF64,
	"string":   KindString,
	"time":     KindTime,
	"duration": KindDuration,
}

// canonicalPrimitiveName is the reverse of primitiveNames, used when
// rendering a DataType's canonical wire name for hashing.
var canonicalPrimitiveName = map[Kind]string{
	KindBool:     "bool",
	KindI8:       "int8",
	KindI16:      "int16",
	KindI32:      "int32",
	KindI64:      "int64",
	KindU8:       "uint8",
	KindU16:      "uint16",
	KindU32:      "uint32",
	KindU64:      "uint64",
	KindF32:      "float32",
	KindF64:      "float64",
	KindString:   "string",
	KindTime:     "time",
	KindDuration: "duration",
}

// DataType is one of: a fixed-width primitive, string, time, duration, a
// local reference to another message in the same package, or a global
// reference to a fully qualified message.
type DataType struct {
	Kind   Kind
	Local  string // valid when Kind == KindLocalMessage
	Global Path   // valid when Kind == KindGlobalMessage
}

// ParseDataType resolves a field's type keyword. Anything containing a
// slash is a global message reference; anything else that isn't a known
// primitive is a local message reference (resolved against the owning
// package at hash time).
func ParseDataType(raw string) (DataType, error) {
	if kind, ok := primitiveNames[raw]; ok {
		return DataType{Kind: kind}, nil
	}
	if containsSlash(raw) {
		p, err := ParsePath(raw)
		if err != nil {
			return DataType{}, &UnsupportedDataTypeError{Name: raw, Reason: err.Error()}
		}
		return DataType{Kind: KindGlobalMessage, Global: p}, nil
	}
	if raw == "" {
		return DataType{}, &UnsupportedDataTypeError{Name: raw, Reason: "empty type name"}
	}
	return DataType{Kind: KindLocalMessage, Local: raw}, nil
}

func containsSlash(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return true
		}
	}
	return false
}

// IsBuiltin reports whether the type is one of the fixed-width
// primitives, string, time or duration — as opposed to a message
// reference. Only builtin types carry array-size brackets in their
// hash representation (§4.1).
func (d DataType) IsBuiltin() bool {
	return d.Kind != KindLocalMessage && d.Kind != KindGlobalMessage
}

// MD5Str renders the canonical hash-representation name for this type: the
// primitive keyword, or the recursively resolved hash of a referenced
// message (owningPackage supplies the package for local references).
func (d DataType) MD5Str(owningPackage string, hashes map[Path]string) (string, error) {
	if name, ok := canonicalPrimitiveName[d.Kind]; ok {
		return name, nil
	}
	var target Path
	switch d.Kind {
	case KindLocalMessage:
		target = Path{pkg: owningPackage, name: d.Local}
	case KindGlobalMessage:
		target = d.Global
	default:
		return "", &UnsupportedDataTypeError{Name: "?", Reason: "unrecognized data type kind"}
	}
	h, ok := hashes[target]
	if !ok {
		return "", &DependencyMissingError{Package: target.Package(), Name: target.Name()}
	}
	return h, nil
}

// TypeName renders the type as it would appear in a msg_definition: the
// primitive keyword, the bare local name, or the full package/name path.
func (d DataType) TypeName() string {
	if name, ok := canonicalPrimitiveName[d.Kind]; ok {
		return name
	}
	if d.Kind == KindLocalMessage {
		return d.Local
	}
	return d.Global.String()
}
