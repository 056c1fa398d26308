package redact

// Kind discriminates the closed payload union: scalar, mapping, or sequence.
type Kind int

const (
	// KindScalar is a leaf value (string, number, bool, nil, or anything opaque).
	KindScalar Kind = iota
	// KindMapping is an ordered list of key/value members.
	KindMapping
	// KindSequence is an ordered list of values.
	KindSequence
)

// Member is one key/value pair of a mapping. Mappings keep insertion order
// so that formatted output is deterministic.
type Member struct {
	Key string
	Val Value
}

// Value is a structured payload node. The zero Value is a scalar nil.
//
// Value is immutable once built; sanitization returns new values and never
// modifies the ones it was given.
type Value struct {
	kind    Kind
	scalar  any
	members []Member
	elems   []Value
}

// Scalar wraps a leaf value.
func Scalar(v any) Value {
	return Value{kind: KindScalar, scalar: v}
}

// NewMapping builds an ordered mapping from the given members.
func NewMapping(members ...Member) Value {
	return Value{kind: KindMapping, members: members}
}

// NewSequence builds a sequence from the given elements.
func NewSequence(elems ...Value) Value {
	return Value{kind: KindSequence, elems: elems}
}

// Kind returns the union tag.
func (v Value) Kind() Kind { return v.kind }

// ScalarValue returns the wrapped leaf; meaningful only for KindScalar.
func (v Value) ScalarValue() any { return v.scalar }

// Members returns the mapping members in order; nil for other kinds.
func (v Value) Members() []Member { return v.members }

// Elems returns the sequence elements in order; nil for other kinds.
func (v Value) Elems() []Value { return v.elems }
