package tree

// Kind is the tag of a node.
type Kind uint8

const (
	// KindInvalid is returned for Nil or freed nodes.
	KindInvalid Kind = iota
	// KindNumber nodes hold a float64 literal.
	KindNumber
	// KindVariable nodes hold a variable name.
	KindVariable
	// KindOperation nodes hold an Op and one or two children.
	KindOperation
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindVariable:
		return "variable"
	case KindOperation:
		return "operation"
	default:
		return "invalid"
	}
}
