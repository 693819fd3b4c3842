package geo

// Component summary structs. A nil pointer in Summary means the component is
// absent from the geometry.

type MeshInfo struct {
	VertsNum int
	EdgesNum int
	FacesNum int
}

type CurveInfo struct {
	PointsNum  int
	SplinesNum int
}

type PointCloudInfo struct {
	PointsNum int
}

type GreasePencilInfo struct {
	LayersNum int
}

type InstancesInfo struct {
	InstancesNum int
}

type VolumeInfo struct {
	GridsNum int
}

type GridInfo struct {
	IsEmpty bool
}

// EditDataInfo summarizes original-geometry edit data carried through the
// evaluation.
type EditDataInfo struct {
	HasDeformedPositions bool
	HasDeformMatrices    bool
	GizmoTransformsNum   int
}

// Summary is everything interactive tooling needs to know about a geometry
// without holding its buffers.
type Summary struct {
	Name       string
	Attributes []AttributeInfo

	Mesh         *MeshInfo
	Curve        *CurveInfo
	PointCloud   *PointCloudInfo
	GreasePencil *GreasePencilInfo
	Instances    *InstancesInfo
	EditData     *EditDataInfo
	Volume       *VolumeInfo
	Grid         *GridInfo
}

// Geometry is the opaque geometry value the engine passes around. The trace
// subsystem only ever asks for its summary, except for viewer nodes where
// the snapshot is kept whole.
type Geometry interface {
	Summarize() Summary
}

// Grid is an opaque volume-grid value. Grids summarize like geometries but
// are a separate engine type.
type Grid interface {
	SummarizeGrid() Summary
}

// Field is an opaque function-of-geometry value. Only the output type and
// human-readable descriptions of its inputs are kept, for tooltips.
type Field interface {
	// ValueType describes what the field evaluates to.
	ValueTypeName() string
	// InputDescriptions returns one human-readable origin per field input.
	InputDescriptions() []string
}
