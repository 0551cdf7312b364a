package opcua

import (
	"testing"

	"github.com/gopcua/opcua/ua"

	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

func TestNodeIDRoundTrip(t *testing.T) {
	for _, id := range []uamodel.NodeID{
		uamodel.NewNumericID(0, 85),
		uamodel.NewNumericID(2, 1001),
		uamodel.NewStringID(2, "Plant.Line1"),
	} {
		got := fromUA(toUA(id))
		if got != id {
			t.Errorf("round trip %v: got %v", id, got)
		}
	}
}

func TestFromUANil(t *testing.T) {
	got := fromUA(nil)
	if got != (uamodel.NodeID{}) {
		t.Errorf("fromUA(nil) = %v, want zero NodeID", got)
	}
}

func TestExpandedRef(t *testing.T) {
	if expandedRef(nil) != nil {
		t.Error("nil expanded id should map to nil")
	}
	if expandedRef(&ua.ExpandedNodeID{}) != nil {
		t.Error("expanded id without inner node id should map to nil")
	}

	exp := &ua.ExpandedNodeID{NodeID: ua.NewNumericNodeID(0, 42)}
	ref := expandedRef(exp)
	if ref == nil {
		t.Fatal("expected type definition reference")
	}
	if ref.Form != uamodel.FormNumeric || ref.Num != 42 {
		t.Errorf("ref = %+v, want numeric 42", ref)
	}
}

func TestHelpersNilSafe(t *testing.T) {
	if localizedText(nil) != "" {
		t.Error("nil localized text should map to empty string")
	}
	if qualifiedName(nil) != "" {
		t.Error("nil qualified name should map to empty string")
	}
	if got := localizedText(&ua.LocalizedText{Text: "Motor"}); got != "Motor" {
		t.Errorf("localizedText = %q", got)
	}
	if got := qualifiedName(&ua.QualifiedName{NamespaceIndex: 2, Name: "Motor"}); got != "Motor" {
		t.Errorf("qualifiedName = %q", got)
	}
}
