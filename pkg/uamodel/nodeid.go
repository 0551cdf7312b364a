// Package uamodel contains the shared data types for the OPC UA address
// space mirror: node identifiers, node classes, and browse descriptors.
package uamodel

import (
	"fmt"
	"strconv"
	"strings"
)

// IDForm is the encoding of a node identifier.
type IDForm uint8

const (
	// FormNumeric is the library-internal numeric identifier form.
	FormNumeric IDForm = iota
	// FormString is the external string identifier form. Only nodes with
	// string identifiers are cached by the mirror.
	FormString
	// FormGUID is a GUID identifier. Never cached.
	FormGUID
	// FormOpaque is an opaque byte-string identifier. Never cached.
	FormOpaque
)

// NodeID identifies one node in the remote address space.
type NodeID struct {
	NS   uint16
	Form IDForm
	Num  uint32
	Text string // string, guid, or opaque identifier
}

// ObjectsFolder is the well-known root folder of the address space
// (ns=0;i=85). Walks start here.
var ObjectsFolder = NewNumericID(0, 85)

// NewNumericID returns a numeric-form NodeID.
func NewNumericID(ns uint16, id uint32) NodeID {
	return NodeID{NS: ns, Form: FormNumeric, Num: id}
}

// NewStringID returns a string-form NodeID.
func NewStringID(ns uint16, id string) NodeID {
	return NodeID{NS: ns, Form: FormString, Text: id}
}

// NewGUIDID returns a GUID-form NodeID.
func NewGUIDID(ns uint16, guid string) NodeID {
	return NodeID{NS: ns, Form: FormGUID, Text: guid}
}

// NewOpaqueID returns an opaque-form NodeID.
func NewOpaqueID(ns uint16, id string) NodeID {
	return NodeID{NS: ns, Form: FormOpaque, Text: id}
}

// IsString reports whether the identifier is string-form.
func (n NodeID) IsString() bool {
	return n.Form == FormString
}

// String renders the NodeID in the usual "ns=2;s=Demo.Machine" notation.
// The namespace prefix is omitted for namespace 0.
func (n NodeID) String() string {
	var sb strings.Builder
	if n.NS != 0 {
		fmt.Fprintf(&sb, "ns=%d;", n.NS)
	}
	switch n.Form {
	case FormNumeric:
		fmt.Fprintf(&sb, "i=%d", n.Num)
	case FormString:
		fmt.Fprintf(&sb, "s=%s", n.Text)
	case FormGUID:
		fmt.Fprintf(&sb, "g=%s", n.Text)
	case FormOpaque:
		fmt.Fprintf(&sb, "b=%s", n.Text)
	}
	return sb.String()
}

// ParseID parses the "ns=2;s=Demo.Machine" notation into a NodeID.
func ParseID(s string) (NodeID, error) {
	var ns uint16
	rest := s
	if strings.HasPrefix(rest, "ns=") {
		idx := strings.IndexByte(rest, ';')
		if idx < 0 {
			return NodeID{}, fmt.Errorf("parse node id %q: missing identifier after namespace", s)
		}
		v, err := strconv.ParseUint(rest[3:idx], 10, 16)
		if err != nil {
			return NodeID{}, fmt.Errorf("parse node id %q: bad namespace: %w", s, err)
		}
		ns = uint16(v)
		rest = rest[idx+1:]
	}
	if len(rest) < 2 || rest[1] != '=' {
		return NodeID{}, fmt.Errorf("parse node id %q: missing identifier type", s)
	}
	body := rest[2:]
	switch rest[0] {
	case 'i':
		v, err := strconv.ParseUint(body, 10, 32)
		if err != nil {
			return NodeID{}, fmt.Errorf("parse node id %q: bad numeric identifier: %w", s, err)
		}
		return NewNumericID(ns, uint32(v)), nil
	case 's':
		return NewStringID(ns, body), nil
	case 'g':
		return NewGUIDID(ns, body), nil
	case 'b':
		return NewOpaqueID(ns, body), nil
	default:
		return NodeID{}, fmt.Errorf("parse node id %q: unknown identifier type %q", s, rest[0])
	}
}
