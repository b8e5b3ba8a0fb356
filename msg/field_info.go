package msg

import "fmt"

// CaseKind distinguishes how a field's cardinality is declared.
type CaseKind int

const (
	// CaseUnit is a plain scalar field.
	CaseUnit CaseKind = iota
	// CaseVector is a variable-length array ("type[] name").
	CaseVector
	// CaseArray is a fixed-length array ("type[N] name").
	CaseArray
	// CaseConst is a named constant with a literal value.
	CaseConst
)

// FieldCase carries the extra data a CaseKind needs: the array length for
// CaseArray, the literal text for CaseConst.
type FieldCase struct {
	Kind   CaseKind
	Length int    // valid when Kind == CaseArray
	Const  string // valid when Kind == CaseConst, verbatim literal text
}

// FieldInfo describes one line of a parsed msg/srv file.
type FieldInfo struct {
	DataType DataType
	Name     string
	Case     FieldCase
}

// NewFieldInfo parses datatype and wraps it with the given name and case.
func NewFieldInfo(datatype, name string, c FieldCase) (FieldInfo, error) {
	dt, err := ParseDataType(datatype)
	if err != nil {
		return FieldInfo{}, err
	}
	return FieldInfo{DataType: dt, Name: name, Case: c}, nil
}

// IsConstant reports whether this field is a named constant rather than a
// wire-serialized field.
func (f FieldInfo) IsConstant() bool {
	return f.Case.Kind == CaseConst
}

// IsHeader reports whether this is the conventional unit-case
// "std_msgs/Header header" field ROS uses to timestamp messages.
func (f FieldInfo) IsHeader() bool {
	if f.Case.Kind != CaseUnit || f.Name != "header" {
		return false
	}
	return f.DataType.Kind == KindGlobalMessage &&
		f.DataType.Global.Package() == "std_msgs" && f.DataType.Global.Name() == "Header"
}

// MD5String renders this field's line in the canonical hash
// representation: "<type> <name>" for scalars and non-builtin types,
// "<type>[] <name>" / "<type>[N] <name>" for builtin arrays, and
// "<type> <name>=<value>" for constants (§4.1's hashing rule).
func (f FieldInfo) MD5String(owningPackage string, hashes map[Path]string) (string, error) {
	typeName, err := f.DataType.MD5Str(owningPackage, hashes)
	if err != nil {
		return "", err
	}
	switch {
	case f.Case.Kind == CaseConst:
		return fmt.Sprintf("%s %s=%s", typeName, f.Name, f.Case.Const), nil
	case !f.DataType.IsBuiltin() || f.Case.Kind == CaseUnit:
		return fmt.Sprintf("%s %s", typeName, f.Name), nil
	case f.Case.Kind == CaseVector:
		return fmt.Sprintf("%s[] %s", typeName, f.Name), nil
	case f.Case.Kind == CaseArray:
		return fmt.Sprintf("%s[%d] %s", typeName, f.Case.Length, f.Name), nil
	default:
		return fmt.Sprintf("%s %s", typeName, f.Name), nil
	}
}

// String renders the field using its own type name (not a resolved hash) —
// useful for diagnostics and for building message_definition text.
func (f FieldInfo) String() string {
	typeName := f.DataType.TypeName()
	switch {
	case f.Case.Kind == CaseConst:
		return fmt.Sprintf("%s %s=%s", typeName, f.Name, f.Case.Const)
	case !f.DataType.IsBuiltin() || f.Case.Kind == CaseUnit:
		return fmt.Sprintf("%s %s", typeName, f.Name)
	case f.Case.Kind == CaseVector:
		return fmt.Sprintf("%s[] %s", typeName, f.Name)
	case f.Case.Kind == CaseArray:
		return fmt.Sprintf("%s[%d] %s", typeName, f.Case.Length, f.Name)
	default:
		return fmt.Sprintf("%s %s", typeName, f.Name)
	}
}
