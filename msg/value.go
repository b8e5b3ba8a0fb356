package msg

// Value is a tagged union over the primitive set plus Time, Duration,
// an ordered Array, and an ordered Message. Concrete implementations are
// the *Value types below; Array and Message additionally hold nested
// values, preserving insertion/declaration order (§3 "Values").
type Value interface {
	isValue()
}

// BoolValue, I8Value, ... wrap the primitive Go types as Values.
type (
	BoolValue     bool
	I8Value       int8
	I16Value      int16
	I32Value      int32
	I64Value      int64
	U8Value       uint8
	U16Value      uint16
	U32Value      uint32
	U64Value      uint64
	F32Value      float32
	F64Value      float64
	StringValue   string
	TimeValue     Time
	DurationValue Duration
)

func (BoolValue) isValue()     {}
func (I8Value) isValue()       {}
func (I16Value) isValue()      {}
func (I32Value) isValue()      {}
func (I64Value) isValue()      {}
func (U8Value) isValue()       {}
func (U16Value) isValue()      {}
func (U32Value) isValue()      {}
func (U64Value) isValue()      {}
func (F32Value) isValue()      {}
func (F64Value) isValue()      {}
func (StringValue) isValue()   {}
func (TimeValue) isValue()     {}
func (DurationValue) isValue() {}

// ArrayValue is an ordered sequence of Values, used for both variable and
// fixed-length array fields.
type ArrayValue []Value

func (ArrayValue) isValue() {}

// MessageValue is an ordered field-name -> Value mapping, preserving the
// declaration order of the message's fields.
type MessageValue struct {
	names  []string
	fields map[string]Value
}

func (*MessageValue) isValue() {}

// NewMessageValue returns an empty, ready-to-populate MessageValue.
func NewMessageValue() *MessageValue {
	return &MessageValue{fields: make(map[string]Value)}
}

// Set assigns name to v, appending name to the declared order the first
// time it's set.
func (m *MessageValue) Set(name string, v Value) {
	if _, exists := m.fields[name]; !exists {
		m.names = append(m.names, name)
	}
	m.fields[name] = v
}

// Get looks up a field by name.
func (m *MessageValue) Get(name string) (Value, bool) {
	v, ok := m.fields[name]
	return v, ok
}

// Names returns the fields in declaration order.
func (m *MessageValue) Names() []string {
	return m.names
}

// Len reports the number of fields.
func (m *MessageValue) Len() int {
	return len(m.names)
}

// Equal reports whether a and b hold the same structural value: same
// Kind/Go type, equal scalars, element-wise equal arrays, and field-wise
// equal messages matched by field name, so two messages holding the same
// fields in a different insertion order compare equal.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case ArrayValue:
		bv, ok := b.(ArrayValue)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *MessageValue:
		bv, ok := b.(*MessageValue)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for _, name := range av.names {
			aField, _ := av.Get(name)
			bField, ok := bv.Get(name)
			if !ok || !Equal(aField, bField) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
