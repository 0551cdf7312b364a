// Package mirror builds and maintains a client-side directory of a remote
// OPC UA address space. It walks the hierarchy from the Objects folder via
// the browse primitive, caches every string-identified node under its
// identifier, resolves declared type ids, and offers name/id lookup,
// type-filtered enumeration, and targeted sub-tree refresh.
//
// A Client is owned by a single logical goroutine. None of its maps are
// synchronized; concurrent use must be serialized by the caller.
package mirror

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ChrizziDerKek/opcua-client/internal/metrics"
	"github.com/ChrizziDerKek/opcua-client/pkg/session"
	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

// State is the cache lifecycle state.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StatePopulated
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StatePopulated:
		return "populated"
	default:
		return "unknown"
	}
}

// Config holds mirror client configuration.
type Config struct {
	// Connector establishes sessions to Endpoint.
	Connector session.Connector
	// Endpoint is the server endpoint URL.
	Endpoint string
	// Logger receives walk diagnostics. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Client is the directory cache: the identifier-to-object mapping plus the
// walk and refresh operations that maintain it.
type Client struct {
	connector session.Connector
	endpoint  string
	log       *zap.Logger

	sess    session.Session
	objects map[string]*ServerObject
	state   State
}

// New creates a disconnected mirror client. Call Refresh to connect and
// populate the directory.
func New(cfg Config) *Client {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		connector: cfg.Connector,
		endpoint:  cfg.Endpoint,
		log:       log,
		objects:   make(map[string]*ServerObject),
		state:     StateDisconnected,
	}
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	return c.state
}

// Session returns the current session, or nil when disconnected.
func (c *Client) Session() session.Session {
	return c.sess
}

// Size returns the number of cached objects.
func (c *Client) Size() int {
	return len(c.objects)
}

// Refresh tears down any existing session, establishes a new one, and
// rebuilds the whole directory from the Objects folder. A connect failure
// is propagated and leaves the cache disconnected and empty.
func (c *Client) Refresh(ctx context.Context) error {
	if c.sess != nil {
		if err := c.sess.Close(ctx); err != nil {
			c.log.Warn("closing stale session", zap.Error(err))
		}
		c.sess = nil
	}
	c.state = StateConnecting
	c.objects = make(map[string]*ServerObject)

	sess, err := c.connector.Connect(ctx, c.endpoint)
	if err != nil {
		metrics.RecordConnect(false)
		c.state = StateDisconnected
		return fmt.Errorf("connect %s: %w", c.endpoint, err)
	}
	metrics.RecordConnect(true)
	c.sess = sess

	c.populateAll(ctx)
	return nil
}

// RefreshObjects rebuilds the whole directory on the existing session.
// Equivalent to Refresh minus the connection teardown and rebuild.
func (c *Client) RefreshObjects(ctx context.Context) error {
	if c.sess == nil || !c.sess.Connected() {
		return session.ErrNotConnected
	}
	c.objects = make(map[string]*ServerObject)
	c.populateAll(ctx)
	return nil
}

// populateAll walks the full reachable set from the Objects folder.
func (c *Client) populateAll(ctx context.Context) {
	start := time.Now()
	b := c.browser()
	kids := b.children(ctx, uamodel.ObjectsFolder, uamodel.ClassAll)
	c.walk(ctx, kids, nil)
	c.state = StatePopulated

	metrics.RecordRefresh(time.Since(start))
	metrics.SetDirectoryObjects(len(c.objects))
	c.log.Info("directory populated",
		zap.Int("objects", len(c.objects)),
		zap.Duration("took", time.Since(start)))
}

// RefreshChildObjects re-browses one cached object and re-walks only its
// sub-tree. A nil object is a no-op. The refresh only grows the cache:
// identifiers the server no longer reports under this sub-tree stay cached
// until the next RefreshObjects.
func (c *Client) RefreshChildObjects(ctx context.Context, obj *ServerObject) {
	if obj == nil {
		return
	}
	b := c.browser()
	obj.populate(ctx, b)
	kids := b.childrenOfRef(ctx, obj.handle, uamodel.ClassAll)
	c.walk(ctx, kids, obj)
	metrics.SetDirectoryObjects(len(c.objects))
}

// walkItem is one pending node of the traversal.
type walkItem struct {
	desc   uamodel.ChildDescriptor
	parent *ServerObject
}

// walk traverses the hierarchy below the given children with an explicit
// worklist, so arbitrarily deep spaces cannot exhaust the call stack. Nodes
// with non-string identifiers never enter the directory; an identifier seen
// before is skipped, which both keeps the first discovery and terminates
// walks over cyclic hierarchies.
func (c *Client) walk(ctx context.Context, kids []uamodel.ChildDescriptor, parent *ServerObject) {
	b := c.browser()

	stack := make([]walkItem, 0, len(kids))
	push := func(descs []uamodel.ChildDescriptor, parent *ServerObject) {
		for i := len(descs) - 1; i >= 0; i-- {
			stack = append(stack, walkItem{desc: descs[i], parent: parent})
		}
	}
	push(kids, parent)

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !item.desc.ID.IsString() || item.desc.ID.Text == "" {
			continue
		}
		id := item.desc.ID.Text
		if _, ok := c.objects[id]; ok {
			continue
		}

		obj := newServerObject(ctx, b, item.desc, item.parent, c.sess)
		c.objects[id] = obj

		push(b.children(ctx, item.desc.ID, uamodel.ClassAll), obj)
	}
}

func (c *Client) browser() *browser {
	return &browser{sess: c.sess, log: c.log}
}

// GetObjectByNodeID returns the cached object with the given string
// identifier, or nil.
func (c *Client) GetObjectByNodeID(id string) *ServerObject {
	if id == "" {
		return nil
	}
	return c.objects[id]
}

// GetObjectByName returns the first cached object whose display name or
// browse name matches, or nil. This is a linear scan: no secondary name
// index is maintained, and with map iteration "first" is not stable across
// runs when several objects share a name.
func (c *Client) GetObjectByName(name string) *ServerObject {
	if name == "" {
		return nil
	}
	for _, obj := range c.objects {
		if obj.displayName == name || obj.browseName == name {
			return obj
		}
	}
	return nil
}

// NodeIDExists reports whether the identifier is cached.
func (c *Client) NodeIDExists(id string) bool {
	return c.GetObjectByNodeID(id) != nil
}

// NameExists reports whether any cached object has the given display or
// browse name.
func (c *Client) NameExists(name string) bool {
	return c.GetObjectByName(name) != nil
}

// NodeIDExistsInObject reports whether id names a direct child of obj.
// Identifiers are dot-delimited paths: the check requires id and obj's own
// identifier to both be cached, and the last dot-separated segment of id to
// be a key in obj's child map.
func (c *Client) NodeIDExistsInObject(id string, obj *ServerObject) bool {
	if obj == nil {
		return false
	}
	if !c.NodeIDExists(id) || !c.NodeIDExists(obj.nodeID) {
		return false
	}
	seg := id
	if i := strings.LastIndexByte(id, '.'); i >= 0 {
		seg = id[i+1:]
	}
	return obj.HasChild(seg)
}

// NameExistsInObject reports whether the named object is a direct child of
// obj. The name is resolved globally first; a miss is false.
func (c *Client) NameExistsInObject(name string, obj *ServerObject) bool {
	target := c.GetObjectByName(name)
	if target == nil {
		return false
	}
	return c.NodeIDExistsInObject(target.nodeID, obj)
}

// GetObjects returns a snapshot of all cached objects. Order follows map
// iteration and is not stable across runs.
func (c *Client) GetObjects() []*ServerObject {
	return c.GetObjectsByType(unresolvedType)
}

// GetObjectsByType returns a snapshot of the cached objects whose resolved
// type id equals typeID. A filter of -1 means no filter.
func (c *Client) GetObjectsByType(typeID int) []*ServerObject {
	objs := make([]*ServerObject, 0, len(c.objects))
	for _, obj := range c.objects {
		if typeID != unresolvedType && obj.typeID != typeID {
			continue
		}
		objs = append(objs, obj)
	}
	return objs
}

// Close tears down the session and returns the cache to the disconnected
// state. Cached objects are kept; their leaf descriptors will report
// ErrNotConnected until the next Refresh.
func (c *Client) Close(ctx context.Context) error {
	c.state = StateDisconnected
	if c.sess == nil {
		return nil
	}
	err := c.sess.Close(ctx)
	c.sess = nil
	return err
}
