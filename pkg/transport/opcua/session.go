package opcua

import (
	"context"
	"fmt"

	gopcua "github.com/gopcua/opcua"
	uaid "github.com/gopcua/opcua/id"
	"github.com/gopcua/opcua/ua"
	"go.uber.org/zap"

	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

// Session is one connected OPC UA session.
type Session struct {
	cli *gopcua.Client
	log *zap.Logger
}

// Browse lists the forward hierarchical references of node, restricted to
// the class mask. Continuation points are not followed: a server that pages
// its result contributes only the first batch, a documented limitation.
func (s *Session) Browse(ctx context.Context, node uamodel.NodeID, classes uamodel.NodeClass) ([]uamodel.ChildDescriptor, error) {
	req := &ua.BrowseRequest{
		View: &ua.ViewDescription{
			ViewID: ua.NewTwoByteNodeID(0),
		},
		RequestedMaxReferencesPerNode: 0,
		NodesToBrowse: []*ua.BrowseDescription{{
			NodeID:          toUA(node),
			BrowseDirection: ua.BrowseDirectionForward,
			ReferenceTypeID: ua.NewNumericNodeID(0, uaid.HierarchicalReferences),
			IncludeSubtypes: true,
			NodeClassMask:   uint32(classes),
			ResultMask:      uint32(ua.BrowseResultMaskAll),
		}},
	}

	resp, err := s.cli.Browse(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("browse %s: %w", node, err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("browse %s: empty result set", node)
	}
	res := resp.Results[0]
	if res.StatusCode != ua.StatusOK {
		return nil, fmt.Errorf("browse %s: status %v", node, res.StatusCode)
	}
	if len(res.ContinuationPoint) > 0 {
		s.log.Warn("browse result truncated, continuation point ignored",
			zap.Stringer("node", node))
	}

	kids := make([]uamodel.ChildDescriptor, 0, len(res.References))
	for _, ref := range res.References {
		if ref == nil || ref.NodeID == nil {
			continue
		}
		kids = append(kids, uamodel.ChildDescriptor{
			ID:             fromUA(ref.NodeID.NodeID),
			DisplayName:    localizedText(ref.DisplayName),
			BrowseName:     qualifiedName(ref.BrowseName),
			Class:          uamodel.NodeClass(ref.NodeClass),
			TypeDefinition: expandedRef(ref.TypeDefinition),
		})
	}
	return kids, nil
}

// ReadValue reads the Value attribute of node.
func (s *Session) ReadValue(ctx context.Context, node uamodel.NodeID) (any, error) {
	req := &ua.ReadRequest{
		MaxAge:             0,
		TimestampsToReturn: ua.TimestampsToReturnNeither,
		NodesToRead: []*ua.ReadValueID{{
			NodeID:      toUA(node),
			AttributeID: ua.AttributeIDValue,
		}},
	}

	resp, err := s.cli.Read(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", node, err)
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("read %s: empty result set", node)
	}
	dv := resp.Results[0]
	if dv.Status != ua.StatusOK {
		return nil, fmt.Errorf("read %s: status %v", node, dv.Status)
	}
	if dv.Value == nil {
		return nil, nil
	}
	return dv.Value.Value(), nil
}

// WriteValue writes the Value attribute of node. The server's per-node
// write status code is deliberately ignored; only transport failures are
// reported, so callers must read back to confirm the effect.
func (s *Session) WriteValue(ctx context.Context, node uamodel.NodeID, value any) error {
	v, err := ua.NewVariant(value)
	if err != nil {
		return fmt.Errorf("write %s: encode value: %w", node, err)
	}

	req := &ua.WriteRequest{
		NodesToWrite: []*ua.WriteValue{{
			NodeID:      toUA(node),
			AttributeID: ua.AttributeIDValue,
			Value: &ua.DataValue{
				EncodingMask: ua.DataValueValue,
				Value:        v,
			},
		}},
	}

	if _, err := s.cli.Write(ctx, req); err != nil {
		return fmt.Errorf("write %s: %w", node, err)
	}
	return nil
}

// Call invokes method on object with the given input arguments.
func (s *Session) Call(ctx context.Context, object, method uamodel.NodeID, args []any) ([]any, error) {
	in := make([]*ua.Variant, 0, len(args))
	for i, arg := range args {
		v, err := ua.NewVariant(arg)
		if err != nil {
			return nil, fmt.Errorf("call %s: encode argument %d: %w", method, i, err)
		}
		in = append(in, v)
	}

	req := &ua.CallMethodRequest{
		ObjectID:       toUA(object),
		MethodID:       toUA(method),
		InputArguments: in,
	}

	res, err := s.cli.Call(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	if res.StatusCode != ua.StatusOK {
		return nil, fmt.Errorf("call %s: status %v", method, res.StatusCode)
	}

	out := make([]any, 0, len(res.OutputArguments))
	for _, v := range res.OutputArguments {
		if v == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, v.Value())
	}
	return out, nil
}

// Connected reports whether the underlying secure channel is up.
func (s *Session) Connected() bool {
	return s.cli.State() == gopcua.Connected
}

// Close tears the session and secure channel down.
func (s *Session) Close(ctx context.Context) error {
	return s.cli.Close(ctx)
}

func localizedText(t *ua.LocalizedText) string {
	if t == nil {
		return ""
	}
	return t.Text
}

func qualifiedName(n *ua.QualifiedName) string {
	if n == nil {
		return ""
	}
	return n.Name
}

func expandedRef(id *ua.ExpandedNodeID) *uamodel.NodeID {
	if id == nil || id.NodeID == nil {
		return nil
	}
	n := fromUA(id.NodeID)
	return &n
}
