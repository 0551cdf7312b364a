package mirror

import (
	"context"

	"github.com/ChrizziDerKek/opcua-client/internal/metrics"
	"github.com/ChrizziDerKek/opcua-client/pkg/session"
	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

// MethodHandle is an identifier-bound proxy for one remote method. It is
// always owned by exactly one ServerObject's method map; the owning object
// is needed because a call must address both the parent object and the
// method itself.
type MethodHandle struct {
	name  string
	id    uamodel.NodeID
	owner *ServerObject
	sess  session.Session
}

// Name returns the method's display name, the key in the owner's method map.
func (m *MethodHandle) Name() string {
	return m.name
}

// ID returns the method's node identifier.
func (m *MethodHandle) ID() uamodel.NodeID {
	return m.id
}

// Call invokes the method with the given input arguments and returns the
// output arguments. Arguments are passed through without local validation;
// count or type mismatches are the server's to reject.
func (m *MethodHandle) Call(ctx context.Context, args ...any) ([]any, error) {
	if m.sess == nil || !m.sess.Connected() {
		return nil, session.ErrNotConnected
	}
	if m.owner == nil || m.owner.handle == nil {
		return nil, session.ErrNotConnected
	}
	out, err := m.sess.Call(ctx, *m.owner.handle, m.id, args)
	metrics.RecordRemoteCall("call", err == nil)
	return out, err
}

// TryCall is the silent variant of Call: any failure, including a missing
// session, yields nil output. Callers that need to distinguish failure from
// a method with no output arguments must use Call.
func (m *MethodHandle) TryCall(ctx context.Context, args ...any) []any {
	out, err := m.Call(ctx, args...)
	if err != nil {
		return nil
	}
	return out
}
