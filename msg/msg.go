package msg

import "strings"

// Msg is a single parsed message description: its path, ordered fields,
// and the verbatim source it was parsed from.
type Msg struct {
	Path   Path
	Fields []FieldInfo
	Source string
}

// NewMsg parses source under the line grammar (§4.1) and attaches path.
func NewMsg(path Path, source string) (Msg, error) {
	fields, err := ParseFields(source)
	if err != nil {
		return Msg{}, err
	}
	return Msg{Path: path, Fields: fields, Source: strings.TrimSpace(source)}, nil
}

// Type renders the "package/Name" message type string used on the wire.
func (m Msg) Type() string { return m.Path.String() }

// Dependencies returns the message paths of every non-builtin field type,
// resolving local references against m's own package.
func (m Msg) Dependencies() []Path {
	var deps []Path
	for _, f := range m.Fields {
		switch f.DataType.Kind {
		case KindLocalMessage:
			deps = append(deps, Path{pkg: m.Path.pkg, name: f.DataType.Local})
		case KindGlobalMessage:
			deps = append(deps, f.DataType.Global)
		}
	}
	return deps
}

// HasHeader reports whether this message declares the conventional
// "std_msgs/Header header" field.
func (m Msg) HasHeader() bool {
	for _, f := range m.Fields {
		if f.IsHeader() {
			return true
		}
	}
	return false
}

// MD5Representation builds the canonical textual form hashed to produce
// the message's identity: constants first, then non-constant fields, each
// on its own line, joined with "\n".
func (m Msg) MD5Representation(hashes map[Path]string) (string, error) {
	var constants, fields []string
	for _, f := range m.Fields {
		line, err := f.MD5String(m.Path.Package(), hashes)
		if err != nil {
			return "", err
		}
		if f.IsConstant() {
			constants = append(constants, line)
		} else {
			fields = append(fields, line)
		}
	}
	return strings.Join(append(constants, fields...), "\n"), nil
}
