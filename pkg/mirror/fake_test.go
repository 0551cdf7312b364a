package mirror

import (
	"context"
	"fmt"

	"github.com/ChrizziDerKek/opcua-client/pkg/session"
	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

// fakeSpace is a synthetic address space: browse results, variable values,
// and method implementations keyed by node id text.
type fakeSpace struct {
	children map[string][]uamodel.ChildDescriptor
	values   map[string]any
	methods  map[string]func(args []any) []any
}

func newFakeSpace() *fakeSpace {
	return &fakeSpace{
		children: make(map[string][]uamodel.ChildDescriptor),
		values:   make(map[string]any),
		methods:  make(map[string]func(args []any) []any),
	}
}

func (s *fakeSpace) addChildren(parent uamodel.NodeID, kids ...uamodel.ChildDescriptor) {
	s.children[parent.String()] = append(s.children[parent.String()], kids...)
}

func (s *fakeSpace) setChildren(parent uamodel.NodeID, kids ...uamodel.ChildDescriptor) {
	s.children[parent.String()] = kids
}

type browseCall struct {
	node    string
	classes uamodel.NodeClass
}

type callRecord struct {
	object string
	method string
}

// fakeSession serves the fake space over the session.Session contract.
type fakeSession struct {
	space      *fakeSpace
	connected  bool
	closed     bool
	failBrowse map[string]bool
	failWrite  bool
	browseLog  []browseCall
	callLog    []callRecord
}

var _ session.Session = (*fakeSession)(nil)

func newFakeSession(space *fakeSpace) *fakeSession {
	return &fakeSession{
		space:      space,
		connected:  true,
		failBrowse: make(map[string]bool),
	}
}

func (s *fakeSession) Browse(_ context.Context, node uamodel.NodeID, classes uamodel.NodeClass) ([]uamodel.ChildDescriptor, error) {
	key := node.String()
	s.browseLog = append(s.browseLog, browseCall{node: key, classes: classes})
	if s.failBrowse[key] {
		return nil, fmt.Errorf("browse %s: simulated failure", key)
	}
	var kids []uamodel.ChildDescriptor
	for _, kid := range s.space.children[key] {
		if classes.Has(kid.Class) {
			kids = append(kids, kid)
		}
	}
	return kids, nil
}

func (s *fakeSession) ReadValue(_ context.Context, node uamodel.NodeID) (any, error) {
	v, ok := s.space.values[node.String()]
	if !ok {
		return nil, fmt.Errorf("read %s: no such node", node)
	}
	return v, nil
}

func (s *fakeSession) WriteValue(_ context.Context, node uamodel.NodeID, value any) error {
	if s.failWrite {
		return fmt.Errorf("write %s: simulated failure", node)
	}
	s.space.values[node.String()] = value
	return nil
}

func (s *fakeSession) Call(_ context.Context, object, method uamodel.NodeID, args []any) ([]any, error) {
	s.callLog = append(s.callLog, callRecord{object: object.String(), method: method.String()})
	fn, ok := s.space.methods[method.String()]
	if !ok {
		return nil, fmt.Errorf("call %s: no such method", method)
	}
	return fn(args), nil
}

func (s *fakeSession) Connected() bool {
	return s.connected
}

func (s *fakeSession) Close(context.Context) error {
	s.connected = false
	s.closed = true
	return nil
}

// fakeConnector hands out fake sessions over the same space.
type fakeConnector struct {
	space    *fakeSpace
	fail     error
	connects int
	sessions []*fakeSession
}

var _ session.Connector = (*fakeConnector)(nil)

func (c *fakeConnector) Connect(context.Context, string) (session.Session, error) {
	c.connects++
	if c.fail != nil {
		return nil, c.fail
	}
	s := newFakeSession(c.space)
	c.sessions = append(c.sessions, s)
	return s, nil
}

func (c *fakeConnector) last() *fakeSession {
	if len(c.sessions) == 0 {
		return nil
	}
	return c.sessions[len(c.sessions)-1]
}

// strID is a string-form identifier in the test namespace.
func strID(id string) uamodel.NodeID {
	return uamodel.NewStringID(2, id)
}

// numericType returns a numeric type-definition reference.
func numericType(id uint32) *uamodel.NodeID {
	n := uamodel.NewNumericID(0, id)
	return &n
}

// stringType returns a string type-definition reference.
func stringType(id string) *uamodel.NodeID {
	n := uamodel.NewStringID(0, id)
	return &n
}

func objDesc(id, name string, typeDef *uamodel.NodeID) uamodel.ChildDescriptor {
	return uamodel.ChildDescriptor{
		ID:             strID(id),
		DisplayName:    name,
		BrowseName:     name,
		Class:          uamodel.ClassObject,
		TypeDefinition: typeDef,
	}
}

func varDesc(id, name string) uamodel.ChildDescriptor {
	return uamodel.ChildDescriptor{
		ID:          strID(id),
		DisplayName: name,
		BrowseName:  name,
		Class:       uamodel.ClassVariable,
	}
}

func methodDesc(id, name string) uamodel.ChildDescriptor {
	return uamodel.ChildDescriptor{
		ID:          strID(id),
		DisplayName: name,
		BrowseName:  name,
		Class:       uamodel.ClassMethod,
	}
}

// plantSpace builds the space used by most tests:
//
//	Objects
//	└── Plant (type 1)
//	    ├── var Temperature
//	    ├── fn  Start
//	    └── Line1 (type 2)
//	        └── var Speed
func plantSpace() *fakeSpace {
	space := newFakeSpace()
	space.addChildren(uamodel.ObjectsFolder, objDesc("Plant", "Plant", numericType(1)))
	space.addChildren(strID("Plant"),
		varDesc("Plant.Temperature", "Temperature"),
		methodDesc("Plant.Start", "Start"),
		objDesc("Plant.Line1", "Line1", numericType(2)),
	)
	space.addChildren(strID("Plant.Line1"), varDesc("Plant.Line1.Speed", "Speed"))
	space.values["ns=2;s=Plant.Temperature"] = 21.5
	space.values["ns=2;s=Plant.Line1.Speed"] = int32(80)
	return space
}

// populatedClient connects a fresh client over the space.
func populatedClient(space *fakeSpace) (*Client, *fakeConnector, error) {
	connector := &fakeConnector{space: space}
	client := New(Config{Connector: connector, Endpoint: "opc.tcp://fake:4840"})
	err := client.Refresh(context.Background())
	return client, connector, err
}
