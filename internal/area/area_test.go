package area

import (
	"testing"

	"github.com/ernie/q2netcore/internal/bsp"
)

// buildTwoAreaMap builds a minimal two-area map joined by a single portal,
// bypassing the full binary loader since only Areas/AreaPortals matter here.
func buildTwoAreaMap() *bsp.Bsp {
	b := &bsp.Bsp{
		Areas: []bsp.Area{
			{NumAreaPortals: 1, FirstAreaPortal: 0},
			{NumAreaPortals: 1, FirstAreaPortal: 1},
		},
		AreaPortals: []bsp.AreaPortalRef{
			{PortalNum: 0, OtherArea: 1},
			{PortalNum: 0, OtherArea: 0},
		},
	}
	return b
}

// TestAreaReflexivity covers Property 8's reflexive half: an area is
// always connected to itself regardless of portal state.
func TestAreaReflexivity(t *testing.T) {
	s := New(buildTwoAreaMap())
	if !s.AreasConnected(0, 0) || !s.AreasConnected(1, 1) {
		t.Fatalf("expected every area connected to itself")
	}
}

// TestAreaSymmetryThroughOpenPortal covers Property 8's symmetric half.
func TestAreaSymmetryThroughOpenPortal(t *testing.T) {
	s := New(buildTwoAreaMap())
	if !s.AreasConnected(0, 1) || !s.AreasConnected(1, 0) {
		t.Fatalf("expected areas 0 and 1 connected through the open portal")
	}
}

// TestClosingPortalDisconnectsAreas covers Scenario E: toggling a portal
// closed severs connectivity, and reopening restores it.
func TestClosingPortalDisconnectsAreas(t *testing.T) {
	s := New(buildTwoAreaMap())
	s.SetAreaPortalState(0, false)
	if s.AreasConnected(0, 1) {
		t.Fatalf("expected areas disconnected once portal 0 is closed")
	}
	s.SetAreaPortalState(0, true)
	if !s.AreasConnected(0, 1) {
		t.Fatalf("expected areas reconnected once portal 0 reopened")
	}
}

func TestWriteAreaBitsNoAreasForcesAllOpen(t *testing.T) {
	s := New(buildTwoAreaMap())
	s.SetAreaPortalState(0, false)
	buf := make([]byte, 1)
	n := s.WriteAreaBits(buf, 0, true)
	if n != 1 || buf[0] != 0xff {
		t.Fatalf("expected forced all-open area bits, got %v", buf)
	}
}

func TestWriteAreaBitsReflectsConnectivity(t *testing.T) {
	s := New(buildTwoAreaMap())
	s.SetAreaPortalState(0, false)
	buf := make([]byte, 1)
	s.WriteAreaBits(buf, 0, false)
	if buf[0]&1 == 0 {
		t.Fatalf("expected area 0's own bit set")
	}
	if buf[0]&2 != 0 {
		t.Fatalf("expected area 1's bit clear once portal closed")
	}
}
