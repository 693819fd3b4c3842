// Package gtype describes the closed set of runtime value types that the
// evaluation engine attaches to socket values. The log subsystem never
// inspects payloads directly; it dispatches on these descriptors to decide
// how a value is captured and whether it can be converted for queries.
package gtype

// Kind discriminates the closed primitive set.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindInt
	KindFloat
	KindVector
	KindColor
	KindString
	// KindOpaque marks engine types the log only ever copies bytewise
	// (selections, handles and the like).
	KindOpaque
)

// Type is a runtime type descriptor. Descriptors are compared by identity:
// the engine and the log share the package-level singletons below, or
// descriptors minted once via NewOpaque.
type Type struct {
	Name string
	Kind Kind
	// Clone copies a payload for ownership transfer. Nil means the payload
	// is a value type and assignment is a sufficient copy.
	Clone func(any) any
}

func (t *Type) String() string { return t.Name }

// The shared primitive descriptors.
var (
	Bool   = &Type{Name: "bool", Kind: KindBool}
	Int    = &Type{Name: "int", Kind: KindInt}
	Float  = &Type{Name: "float", Kind: KindFloat}
	Vector = &Type{Name: "vector", Kind: KindVector}
	Color  = &Type{Name: "color", Kind: KindColor}
	String = &Type{Name: "string", Kind: KindString}
)

// NewOpaque mints a descriptor for an engine-side type the log treats as an
// opaque payload. clone may be nil for immutable payloads.
func NewOpaque(name string, clone func(any) any) *Type {
	return &Type{Name: name, Kind: KindOpaque, Clone: clone}
}

// Pointer is a value tagged with its runtime type. The payload is owned by
// the caller until it is handed to the log, which copies it via Clone.
type Pointer struct {
	Type  *Type
	Value any
}

// CloneValue returns a copy of the payload suitable for long-term storage.
func (p Pointer) CloneValue() any {
	if p.Type != nil && p.Type.Clone != nil {
		return p.Type.Clone(p.Value)
	}
	return p.Value
}

// TypeFor maps a Go primitive to its descriptor. It returns nil for types
// outside the closed set; callers treat that as "not a primitive".
func TypeFor[T any]() *Type {
	var z T
	switch any(z).(type) {
	case bool:
		return Bool
	case int:
		return Int
	case float64:
		return Float
	case [3]float64:
		return Vector
	case [4]float64:
		return Color
	case string:
		return String
	default:
		return nil
	}
}
