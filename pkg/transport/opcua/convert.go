package opcua

import (
	"github.com/gopcua/opcua/ua"

	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

// toUA converts a model NodeID to its wire representation.
func toUA(n uamodel.NodeID) *ua.NodeID {
	switch n.Form {
	case uamodel.FormString:
		return ua.NewStringNodeID(n.NS, n.Text)
	case uamodel.FormGUID:
		return ua.NewGUIDNodeID(n.NS, n.Text)
	case uamodel.FormOpaque:
		return ua.NewByteStringNodeID(n.NS, []byte(n.Text))
	default:
		return ua.NewNumericNodeID(n.NS, n.Num)
	}
}

// fromUA converts a wire NodeID to the model representation. A nil id maps
// to the zero NodeID (numeric 0 in namespace 0).
func fromUA(n *ua.NodeID) uamodel.NodeID {
	if n == nil {
		return uamodel.NodeID{}
	}
	switch n.Type() {
	case ua.NodeIDTypeString:
		return uamodel.NewStringID(n.Namespace(), n.StringID())
	case ua.NodeIDTypeGUID:
		return uamodel.NewGUIDID(n.Namespace(), n.StringID())
	case ua.NodeIDTypeByteString:
		return uamodel.NewOpaqueID(n.Namespace(), n.StringID())
	default:
		return uamodel.NewNumericID(n.Namespace(), uint32(n.IntID()))
	}
}
