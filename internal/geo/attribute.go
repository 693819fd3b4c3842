// Package geo declares the interfaces the trace subsystem consumes from the
// geometry and field libraries, together with the summary structures those
// libraries produce. The trace never touches raw buffers; it stores only the
// summaries needed by interactive tooling.
package geo

// Domain is the element domain an attribute lives on.
type Domain uint8

const (
	DomainPoint Domain = iota + 1
	DomainEdge
	DomainFace
	DomainCorner
	DomainCurve
	DomainInstance
	DomainLayer
)

func (d Domain) String() string {
	switch d {
	case DomainPoint:
		return "point"
	case DomainEdge:
		return "edge"
	case DomainFace:
		return "face"
	case DomainCorner:
		return "corner"
	case DomainCurve:
		return "curve"
	case DomainInstance:
		return "instance"
	case DomainLayer:
		return "layer"
	default:
		return "unknown"
	}
}

// DataType is the storage type of an attribute.
type DataType uint8

const (
	DataFloat DataType = iota + 1
	DataInt
	DataBool
	DataVector
	DataColor
	DataString
	DataQuaternion
)

func (t DataType) String() string {
	switch t {
	case DataFloat:
		return "float"
	case DataInt:
		return "int"
	case DataBool:
		return "bool"
	case DataVector:
		return "vector"
	case DataColor:
		return "color"
	case DataString:
		return "string"
	case DataQuaternion:
		return "quaternion"
	default:
		return "unknown"
	}
}

// AttributeInfo describes one attribute as seen on (or referenced by) a
// geometry. Domain and Type are unset when the name is only referenced and
// the attribute does not exist on the geometry yet.
type AttributeInfo struct {
	Name   string
	Domain Domain   // zero when unknown
	Type   DataType // zero when unknown
}

// Known reports whether the attribute actually existed on a geometry, as
// opposed to being referenced by name only.
func (a AttributeInfo) Known() bool {
	return a.Domain != 0 || a.Type != 0
}
