package mirror

import (
	"context"
	"sort"
	"strconv"

	"github.com/ChrizziDerKek/opcua-client/pkg/session"
	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

// unresolvedType is the sentinel type id for objects whose type-definition
// reference is missing or cannot be resolved to an integer.
const unresolvedType = -1

// ServerObject is one cached object of the remote address space. It owns
// three name-keyed maps: methods, variables, and raw child handles.
// Children stay plain handles until the walk reaches them; they are never
// nested ServerObjects.
//
// Within one object, names are unique per map: the first occurrence of a
// duplicate display name wins and later ones are dropped. Children with
// non-string identifiers are skipped entirely, so the maps only ever hold
// nodes created through this system's string naming convention.
type ServerObject struct {
	handle      *uamodel.NodeID
	parent      *ServerObject
	nodeID      string
	displayName string
	browseName  string
	typeID      int

	methods   map[string]*MethodHandle
	variables map[string]*VariableHandle
	children  map[string]uamodel.NodeID

	sess session.Session
}

// newServerObject builds the object and immediately populates its leaf
// maps with one class-filtered browse per node class.
func newServerObject(ctx context.Context, b *browser, desc uamodel.ChildDescriptor, parent *ServerObject, sess session.Session) *ServerObject {
	handle := desc.ID
	o := &ServerObject{
		handle:      &handle,
		parent:      parent,
		nodeID:      desc.ID.Text,
		displayName: desc.DisplayName,
		browseName:  desc.BrowseName,
		sess:        sess,
	}
	o.typeID = resolveTypeID(o.handle, desc.TypeDefinition)
	o.populate(ctx, b)
	return o
}

// resolveTypeID resolves the type-definition reference to a small integer.
// A missing handle, a missing reference, or an identifier that is neither
// numeric nor a parseable decimal string yields the -1 sentinel; resolution
// never fails loudly.
func resolveTypeID(handle, typeDef *uamodel.NodeID) int {
	if handle == nil || typeDef == nil {
		return unresolvedType
	}
	switch typeDef.Form {
	case uamodel.FormNumeric:
		return int(typeDef.Num)
	case uamodel.FormString:
		id, err := strconv.Atoi(typeDef.Text)
		if err != nil {
			return unresolvedType
		}
		return id
	default:
		return unresolvedType
	}
}

// populate fills the three leaf maps, one class-filtered browse each, in
// the order methods, variables, child objects. The maps are keyed by
// display name, first occurrence wins.
func (o *ServerObject) populate(ctx context.Context, b *browser) {
	o.methods = make(map[string]*MethodHandle)
	o.variables = make(map[string]*VariableHandle)
	o.children = make(map[string]uamodel.NodeID)

	for _, kid := range b.childrenOfRef(ctx, o.handle, uamodel.ClassMethod) {
		if !kid.ID.IsString() {
			continue
		}
		if _, ok := o.methods[kid.DisplayName]; ok {
			continue
		}
		o.methods[kid.DisplayName] = &MethodHandle{
			name:  kid.DisplayName,
			id:    kid.ID,
			owner: o,
			sess:  o.sess,
		}
	}

	for _, kid := range b.childrenOfRef(ctx, o.handle, uamodel.ClassVariable) {
		if !kid.ID.IsString() {
			continue
		}
		if _, ok := o.variables[kid.DisplayName]; ok {
			continue
		}
		o.variables[kid.DisplayName] = &VariableHandle{
			name: kid.DisplayName,
			id:   kid.ID,
			sess: o.sess,
		}
	}

	for _, kid := range b.childrenOfRef(ctx, o.handle, uamodel.ClassObject) {
		if !kid.ID.IsString() {
			continue
		}
		if _, ok := o.children[kid.DisplayName]; ok {
			continue
		}
		o.children[kid.DisplayName] = kid.ID
	}
}

// Handle returns the object's node handle, or nil if it has none.
func (o *ServerObject) Handle() *uamodel.NodeID {
	return o.handle
}

// Parent returns the owning object, or nil for root-level objects.
func (o *ServerObject) Parent() *ServerObject {
	return o.parent
}

// NodeID returns the object's string identifier, its key in the directory.
func (o *ServerObject) NodeID() string {
	return o.nodeID
}

// TypeID returns the resolved type id, or -1 if unresolved.
func (o *ServerObject) TypeID() int {
	return o.typeID
}

// DisplayName returns the object's display name.
func (o *ServerObject) DisplayName() string {
	return o.displayName
}

// BrowseName returns the object's browse name.
func (o *ServerObject) BrowseName() string {
	return o.browseName
}

// Method returns the named method, or nil.
func (o *ServerObject) Method(name string) *MethodHandle {
	return o.methods[name]
}

// Variable returns the named variable, or nil.
func (o *ServerObject) Variable(name string) *VariableHandle {
	return o.variables[name]
}

// Child returns the named child's handle.
func (o *ServerObject) Child(name string) (uamodel.NodeID, bool) {
	id, ok := o.children[name]
	return id, ok
}

// HasChild reports whether name is a direct child of the object.
func (o *ServerObject) HasChild(name string) bool {
	_, ok := o.children[name]
	return ok
}

// MethodNames returns the method names in sorted order.
func (o *ServerObject) MethodNames() []string {
	return sortedKeys(o.methods)
}

// VariableNames returns the variable names in sorted order.
func (o *ServerObject) VariableNames() []string {
	return sortedKeys(o.variables)
}

// ChildNames returns the child names in sorted order.
func (o *ServerObject) ChildNames() []string {
	return sortedKeys(o.children)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
