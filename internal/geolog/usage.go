package geolog

import "strings"

// NamedAttributeUsage records how a node touched an attribute by name.
// Flags combine with bitwise OR across nodes and contexts.
type NamedAttributeUsage uint8

const (
	UsageRead NamedAttributeUsage = 1 << iota
	UsageWrite
	UsageRemove
)

func (u NamedAttributeUsage) String() string {
	if u == 0 {
		return "none"
	}
	var parts []string
	if u&UsageRead != 0 {
		parts = append(parts, "read")
	}
	if u&UsageWrite != 0 {
		parts = append(parts, "write")
	}
	if u&UsageRemove != 0 {
		parts = append(parts, "remove")
	}
	return strings.Join(parts, "|")
}
