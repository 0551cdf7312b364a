package mirror

import (
	"context"
	"fmt"

	"github.com/ChrizziDerKek/opcua-client/internal/metrics"
	"github.com/ChrizziDerKek/opcua-client/pkg/session"
	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

// VariableHandle is an identifier-bound proxy for one remote variable.
// Values are never cached: every Get and Set is one remote round trip.
type VariableHandle struct {
	name string
	id   uamodel.NodeID
	sess session.Session
}

// Name returns the variable's display name, the key in the owner's
// variable map.
func (v *VariableHandle) Name() string {
	return v.name
}

// ID returns the variable's node identifier.
func (v *VariableHandle) ID() uamodel.NodeID {
	return v.id
}

// Get reads the variable's current value.
func (v *VariableHandle) Get(ctx context.Context) (any, error) {
	if v.sess == nil || !v.sess.Connected() {
		return nil, session.ErrNotConnected
	}
	val, err := v.sess.ReadValue(ctx, v.id)
	metrics.RecordRemoteCall("read", err == nil)
	return val, err
}

// Set writes the variable's value. The write is fire-and-forget with
// respect to the server's status code: only transport failures are
// reported, so a caller that needs confirmation must Get afterwards.
func (v *VariableHandle) Set(ctx context.Context, value any) error {
	if v.sess == nil || !v.sess.Connected() {
		return session.ErrNotConnected
	}
	err := v.sess.WriteValue(ctx, v.id, value)
	metrics.RecordRemoteCall("write", err == nil)
	return err
}

// GetValue reads the variable and asserts the value to T. A value of a
// different type is reported as a *TypeMismatchError.
func GetValue[T any](ctx context.Context, v *VariableHandle) (T, error) {
	var zero T
	raw, err := v.Get(ctx)
	if err != nil {
		return zero, err
	}
	val, ok := raw.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Variable: v.name,
			Want:     fmt.Sprintf("%T", zero),
			Got:      fmt.Sprintf("%T", raw),
		}
	}
	return val, nil
}

// SetValue writes a value of type T to the variable.
func SetValue[T any](ctx context.Context, v *VariableHandle, value T) error {
	return v.Set(ctx, value)
}
