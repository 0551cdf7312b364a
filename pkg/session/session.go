// Package session defines the contract between the directory mirror and
// the underlying OPC UA transport. The mirror only ever needs four remote
// primitives (browse, read, write, call) plus session lifecycle; everything
// about connection establishment, security, and wire encoding is the
// transport's concern.
package session

import (
	"context"
	"errors"

	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

// ErrNotConnected is returned when an operation requires a live session
// and none is available.
var ErrNotConnected = errors.New("session is not connected")

// Session is a connected conversation with one server.
//
// Implementations must be safe for use by a single goroutine at a time;
// the mirror never calls a Session concurrently.
type Session interface {
	// Browse returns the immediate hierarchical children of node that
	// match the class mask, following forward references only.
	Browse(ctx context.Context, node uamodel.NodeID, classes uamodel.NodeClass) ([]uamodel.ChildDescriptor, error)

	// ReadValue reads the Value attribute of node.
	ReadValue(ctx context.Context, node uamodel.NodeID) (any, error)

	// WriteValue writes the Value attribute of node. The server's write
	// status code is not reported; only transport failures are.
	WriteValue(ctx context.Context, node uamodel.NodeID, value any) error

	// Call invokes method on object with the given input arguments and
	// returns the output arguments.
	Call(ctx context.Context, object, method uamodel.NodeID, args []any) ([]any, error)

	// Connected reports whether the session is still usable.
	Connected() bool

	// Close tears the session down.
	Close(ctx context.Context) error
}

// Connector establishes sessions. Connect policy (security options, dial
// retries, timeouts) lives entirely behind this interface.
type Connector interface {
	Connect(ctx context.Context, endpoint string) (Session, error)
}
