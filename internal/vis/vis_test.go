package vis

import (
	"encoding/binary"
	"testing"

	"github.com/ernie/q2netcore/internal/bsp"
)

func buildVisLump(rows [][]byte) []byte {
	n := len(rows)
	out := make([]byte, 4+n*8)
	binary.LittleEndian.PutUint32(out[0:4], uint32(n))
	payload := make([]byte, 0)
	for i, row := range rows {
		off := 4 + n*8 + len(payload)
		binary.LittleEndian.PutUint32(out[4+i*8:], uint32(off))
		binary.LittleEndian.PutUint32(out[4+i*8+4:], uint32(off))
		payload = append(payload, row...)
	}
	return append(out, payload...)
}

// TestPVSSymmetry covers Property 9: if cluster A sees cluster B, a
// correctly authored map reports the reverse too for a simple 2-cluster
// fully uncompressed row.
func TestPVSSymmetry(t *testing.T) {
	row0 := []byte{0b00000011} // clusters 0 and 1 visible from 0
	row1 := []byte{0b00000011}
	lump := buildVisLump([][]byte{row0, row1})

	q, err := New(lump)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a := q.ClusterPVS(0)
	b := q.ClusterPVS(1)
	if !Visible(a, 1) || !Visible(b, 0) {
		t.Fatalf("expected symmetric visibility, got a=%v b=%v", a, b)
	}
}

func TestDecompressRLEZeroRun(t *testing.T) {
	// byte 0xff, then a zero-run of 3 zero bytes, encoded as 0x00 0x03.
	compressed := []byte{0xff, 0x00, 0x03}
	out := decompressVis(compressed, 0, 4)
	want := []byte{0xff, 0x00, 0x00, 0x00}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("byte %d: got %x want %x", i, out[i], want[i])
		}
	}
}

func TestNegativeClusterIsAlwaysVisible(t *testing.T) {
	q := &Query{}
	row := q.ClusterPVS(-1)
	if !Visible(row, 5) {
		t.Fatalf("expected fallback all-visible row for cluster -1")
	}
}

func TestHeadnodeVisibleFindsLeafCluster(t *testing.T) {
	// two-leaf tree: node 0 splits on plane 0, child 0 -> leaf cluster 2,
	// child 1 -> leaf cluster 7.
	tr := &fakeTree{
		nodes: []bsp.Node{{Plane: 0, Children: [2]int32{-1, -2}}},
		leaves: []bsp.Leaf{
			{Cluster: 2},
			{Cluster: 7},
		},
	}
	visRow := []byte{1 << 7} // only cluster 7 set
	if HeadnodeVisible(tr, 0, visRow) != true {
		t.Fatalf("expected headnode visible via cluster 7 leaf")
	}
	visRow2 := []byte{0}
	if HeadnodeVisible(tr, 0, visRow2) {
		t.Fatalf("expected headnode not visible when no leaf cluster is set")
	}
}

type fakeTree struct {
	nodes  []bsp.Node
	leaves []bsp.Leaf
}

func (f *fakeTree) PlaneAt(i int32) bsp.Plane         { return bsp.Plane{} }
func (f *fakeTree) NodeAt(i int32) bsp.Node           { return f.nodes[i] }
func (f *fakeTree) LeafAt(i int32) bsp.Leaf           { return f.leaves[i] }
func (f *fakeTree) LeafBrushAt(i int32) int32         { return 0 }
func (f *fakeTree) BrushAt(i int32) bsp.Brush         { return bsp.Brush{} }
func (f *fakeTree) BrushSideAt(i int32) bsp.BrushSide { return bsp.BrushSide{} }
func (f *fakeTree) SurfaceAt(i int32) *bsp.Surface    { return nil }
