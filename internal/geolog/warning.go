package geolog

// WarningType is the severity of a node warning. The values are stable:
// saved UI state refers to them by number.
type WarningType uint8

const (
	WarningError WarningType = 0
	WarningWarn  WarningType = 1
	WarningInfo  WarningType = 2
)

func (t WarningType) String() string {
	switch t {
	case WarningError:
		return "error"
	case WarningWarn:
		return "warning"
	case WarningInfo:
		return "info"
	default:
		return "unknown"
	}
}

// NodeWarning is one warning attached to a node. Two warnings are the same
// warning when type and message match; duplicates collapse during
// reduction.
type NodeWarning struct {
	Type    WarningType
	Message string
}

// WarningSet is an insertion-ordered set of warnings. The zero value is
// ready to use.
type WarningSet struct {
	items []NodeWarning
	index map[NodeWarning]struct{}
}

// Add inserts w unless an equal warning is already present. It reports
// whether the set grew.
func (s *WarningSet) Add(w NodeWarning) bool {
	if _, ok := s.index[w]; ok {
		return false
	}
	if s.index == nil {
		s.index = make(map[NodeWarning]struct{})
	}
	s.index[w] = struct{}{}
	s.items = append(s.items, w)
	return true
}

// AddAll inserts every warning from other, keeping insertion order.
func (s *WarningSet) AddAll(other *WarningSet) {
	for _, w := range other.items {
		s.Add(w)
	}
}

// Len returns the number of distinct warnings.
func (s *WarningSet) Len() int { return len(s.items) }

// Slice returns the warnings in insertion order. The caller must not
// modify the returned slice.
func (s *WarningSet) Slice() []NodeWarning { return s.items }

// Contains reports whether an equal warning is in the set.
func (s *WarningSet) Contains(w NodeWarning) bool {
	_, ok := s.index[w]
	return ok
}
