package uamodel

// ChildDescriptor is one entry of a browse result: an immediate
// hierarchical child of the browsed node.
type ChildDescriptor struct {
	ID          NodeID
	DisplayName string
	BrowseName  string
	Class       NodeClass

	// TypeDefinition is the node's type-definition reference, if the
	// server reported one.
	TypeDefinition *NodeID
}
