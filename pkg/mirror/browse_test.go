package mirror

import (
	"context"
	"testing"

	"github.com/ChrizziDerKek/opcua-client/pkg/uamodel"
)

func TestBrowserNormalizesAddressingForms(t *testing.T) {
	space := plantSpace()
	sess := newFakeSession(space)
	b := testBrowser(sess)
	ctx := context.Background()
	plant := strID("Plant")

	byHandle := b.children(ctx, plant, uamodel.ClassAll)
	byRef := b.childrenOfRef(ctx, &plant, uamodel.ClassAll)
	byID := b.childrenOfID(ctx, "ns=2;s=Plant", uamodel.ClassAll)

	if len(byHandle) != 3 || len(byRef) != 3 || len(byID) != 3 {
		t.Errorf("forms disagree: handle=%d ref=%d id=%d, want 3 each",
			len(byHandle), len(byRef), len(byID))
	}
}

func TestBrowserClassFilter(t *testing.T) {
	space := plantSpace()
	sess := newFakeSession(space)
	b := testBrowser(sess)
	ctx := context.Background()

	if got := b.children(ctx, strID("Plant"), uamodel.ClassVariable); len(got) != 1 {
		t.Errorf("variable filter returned %d children, want 1", len(got))
	}
	if got := b.children(ctx, strID("Plant"), uamodel.ClassObject|uamodel.ClassMethod); len(got) != 2 {
		t.Errorf("object|method filter returned %d children, want 2", len(got))
	}
}

func TestBrowserSilentOnFailure(t *testing.T) {
	space := plantSpace()
	sess := newFakeSession(space)
	sess.failBrowse["ns=2;s=Plant"] = true
	b := testBrowser(sess)
	ctx := context.Background()

	// A failed browse and a leaf with no children look identical.
	if got := b.children(ctx, strID("Plant"), uamodel.ClassAll); got != nil {
		t.Errorf("failed browse should yield no children, got %d", len(got))
	}
	if got := b.children(ctx, strID("Plant.Temperature"), uamodel.ClassAll); got != nil {
		t.Errorf("leaf browse should yield no children, got %d", len(got))
	}
}

func TestBrowserNilAndBadInputs(t *testing.T) {
	space := plantSpace()
	sess := newFakeSession(space)
	b := testBrowser(sess)
	ctx := context.Background()

	if got := b.childrenOfRef(ctx, nil, uamodel.ClassAll); got != nil {
		t.Error("nil handle reference should yield no children")
	}
	if got := b.childrenOfID(ctx, "not-a-node-id", uamodel.ClassAll); got != nil {
		t.Error("unparseable identifier should yield no children")
	}

	disconnected := newFakeSession(space)
	disconnected.connected = false
	b2 := testBrowser(disconnected)
	if got := b2.children(ctx, strID("Plant"), uamodel.ClassAll); got != nil {
		t.Error("browse without a live session should yield no children")
	}
}
