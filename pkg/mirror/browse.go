package mirror

import (
	"context"

	"go.uber.org/zap"

	"github.com/ChrizziDerKek/opcua-client/internal/metrics"
	"github.com/ChrizziDerKek/opcua-client/pkg/session"
	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

// browser wraps the single remote browse primitive. It accepts the three
// addressing forms callers have in hand (a node handle, an optional handle
// reference, or a raw identifier string) and normalizes them to one call.
//
// A failed browse is reported as an empty child list: the population layer
// cannot tell "no children" from "request failed". The underlying Session
// exposes the error; here it is logged and swallowed, matching the mirror's
// silent-empty contract. Paged results are not followed: a server that
// returns a continuation point only contributes its first batch.
type browser struct {
	sess session.Session
	log  *zap.Logger
}

// children browses node for immediate hierarchical children matching the
// class mask.
func (b *browser) children(ctx context.Context, node uamodel.NodeID, classes uamodel.NodeClass) []uamodel.ChildDescriptor {
	if b.sess == nil || !b.sess.Connected() {
		b.log.Debug("browse skipped, no session", zap.Stringer("node", node))
		return nil
	}
	kids, err := b.sess.Browse(ctx, node, classes)
	if err != nil {
		metrics.RecordBrowse(false)
		b.log.Warn("browse failed",
			zap.Stringer("node", node),
			zap.Stringer("classes", classes),
			zap.Error(err))
		return nil
	}
	metrics.RecordBrowse(true)
	return kids
}

// childrenOfRef is the nil-safe handle-reference form.
func (b *browser) childrenOfRef(ctx context.Context, node *uamodel.NodeID, classes uamodel.NodeClass) []uamodel.ChildDescriptor {
	if node == nil {
		return nil
	}
	return b.children(ctx, *node, classes)
}

// childrenOfID is the raw identifier form, accepting the textual
// "ns=2;s=..." notation. Unparseable identifiers yield no children.
func (b *browser) childrenOfID(ctx context.Context, id string, classes uamodel.NodeClass) []uamodel.ChildDescriptor {
	node, err := uamodel.ParseID(id)
	if err != nil {
		b.log.Warn("browse skipped, bad identifier", zap.String("id", id), zap.Error(err))
		return nil
	}
	return b.children(ctx, node, classes)
}
