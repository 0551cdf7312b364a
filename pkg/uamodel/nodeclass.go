package uamodel

import "strings"

// NodeClass is a bitmask over the node classes the mirror cares about.
// The values match the OPC UA NodeClass enumeration so a mask can be put
// on the wire unchanged.
type NodeClass uint32

const (
	ClassObject NodeClass = 1 << iota
	ClassVariable
	ClassMethod
)

// ClassAll matches objects, variables, and methods.
const ClassAll = ClassObject | ClassVariable | ClassMethod

// Has reports whether the mask includes all bits of other.
func (c NodeClass) Has(other NodeClass) bool {
	return c&other == other
}

func (c NodeClass) String() string {
	var parts []string
	if c.Has(ClassObject) {
		parts = append(parts, "object")
	}
	if c.Has(ClassVariable) {
		parts = append(parts, "variable")
	}
	if c.Has(ClassMethod) {
		parts = append(parts, "method")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
