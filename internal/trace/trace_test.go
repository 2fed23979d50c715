package trace

import (
	"testing"

	"github.com/ernie/q2netcore/internal/bsp"
)

// buildSolidWallTree builds a single-brush world: a solid wall occupying
// x in [0,16], infinite in y/z, surrounded by the empty leaf. Node 0 splits
// on the wall's front face (x=0 plane), node 1 on the back face (x=16).
func buildSolidWallTree() (*planeTree, int32) {
	planes := []bsp.Plane{
		{Normal: [3]float32{1, 0, 0}, Dist: 0, Type: bsp.PlaneX},
		{Normal: [3]float32{1, 0, 0}, Dist: 16, Type: bsp.PlaneX},
		{Normal: [3]float32{-1, 0, 0}, Dist: 0, Type: bsp.PlaneAnyX}, // brush face at x=0, facing -x
	}
	nodes := []bsp.Node{
		{Plane: 0, Children: [2]int32{1, -1}},  // front: child -> solid side node; back: empty leaf 0
		{Plane: 1, Children: [2]int32{-1, -2}}, // past back(16) => empty leaf 0, else (0 <= x < 16) solid leaf 1
	}
	leaves := []bsp.Leaf{
		{Contents: 0, FirstLeafBrush: 0, NumLeafBrushes: 0},                 // leaf 0: empty
		{Contents: contentsSolid, FirstLeafBrush: 0, NumLeafBrushes: 1}, // leaf 1: solid
	}
	brushSides := []bsp.BrushSide{
		{Plane: 2, Surface: 0},
		{Plane: 1, Surface: -1},
	}
	brushes := []bsp.Brush{
		{Contents: contentsSolid, NumSides: 2, FirstBrushSide: 0},
	}
	leafBrushes := []int32{0}
	surfaces := []bsp.Surface{
		{Name: "wall_front"},
	}

	tr := &planeTree{
		planes:      planes,
		nodes:       nodes,
		leaves:      leaves,
		brushSides:  brushSides,
		brushes:     brushes,
		leafBrushes: leafBrushes,
		surfaces:    surfaces,
	}
	return tr, 0
}

type planeTree struct {
	planes      []bsp.Plane
	nodes       []bsp.Node
	leaves      []bsp.Leaf
	leafBrushes []int32
	brushes     []bsp.Brush
	brushSides  []bsp.BrushSide
	surfaces    []bsp.Surface
}

func (t *planeTree) PlaneAt(i int32) bsp.Plane         { return t.planes[i] }
func (t *planeTree) NodeAt(i int32) bsp.Node           { return t.nodes[i] }
func (t *planeTree) LeafAt(i int32) bsp.Leaf           { return t.leaves[i] }
func (t *planeTree) LeafBrushAt(i int32) int32         { return t.leafBrushes[i] }
func (t *planeTree) BrushAt(i int32) bsp.Brush         { return t.brushes[i] }
func (t *planeTree) BrushSideAt(i int32) bsp.BrushSide { return t.brushSides[i] }
func (t *planeTree) SurfaceAt(i int32) *bsp.Surface {
	if i < 0 {
		return nil
	}
	return &t.surfaces[i]
}

// TestScenarioCTraceThroughWall covers Scenario C: a ray fired straight
// through the solid wall stops with fraction < 1 at the near face.
func TestScenarioCTraceThroughWall(t *testing.T) {
	tree, head := buildSolidWallTree()
	res := BoxTrace(tree, head, [3]float32{-32, 0, 0}, [3]float32{32, 0, 0}, [3]float32{}, [3]float32{}, contentsSolid)
	if res.Fraction >= 1 {
		t.Fatalf("expected trace to stop at the wall, got fraction %v", res.Fraction)
	}
	if res.EndPos[0] > 0.01 {
		t.Fatalf("expected trace to stop near x=0, got endpos %v", res.EndPos)
	}
	if res.Surface == nil || res.Surface.Name != "wall_front" {
		t.Fatalf("expected leading surface %q, got %+v", "wall_front", res.Surface)
	}
}

// TestScenarioDAABBGrazesCorner covers Scenario D: a box large enough to
// graze the wall's edge should still register a collision via its extents.
func TestScenarioDAABBGrazesCorner(t *testing.T) {
	tree, head := buildSolidWallTree()
	mins := [3]float32{-4, -4, -4}
	maxs := [3]float32{4, 4, 4}
	res := BoxTrace(tree, head, [3]float32{-32, 0, 0}, [3]float32{32, 0, 0}, mins, maxs, contentsSolid)
	if res.Fraction >= 1 {
		t.Fatalf("expected box sweep to catch the wall, got fraction %v", res.Fraction)
	}
}

// TestTraceMonotonicity covers Property 6: fraction is monotonic as the
// trace endpoint is pushed further past an obstruction -- extending the
// ray past the wall doesn't move the stop point.
func TestTraceMonotonicity(t *testing.T) {
	tree, head := buildSolidWallTree()
	short := BoxTrace(tree, head, [3]float32{-32, 0, 0}, [3]float32{8, 0, 0}, [3]float32{}, [3]float32{}, contentsSolid)
	long := BoxTrace(tree, head, [3]float32{-32, 0, 0}, [3]float32{64, 0, 0}, [3]float32{}, [3]float32{}, contentsSolid)
	if long.EndPos[0] > short.EndPos[0]+0.01 {
		t.Fatalf("expected both traces to stop at the same wall face, got short=%v long=%v", short.EndPos, long.EndPos)
	}
}

// TestTraceIdempotentInEmptySpace covers Property 7: a trace entirely in
// open space always returns fraction 1 with no solid flags.
func TestTraceIdempotentInEmptySpace(t *testing.T) {
	tree, head := buildSolidWallTree()
	res := BoxTrace(tree, head, [3]float32{-64, 100, 0}, [3]float32{-32, 100, 0}, [3]float32{}, [3]float32{}, contentsSolid)
	if res.Fraction != 1 || res.StartSolid || res.AllSolid {
		t.Fatalf("expected clean trace through open space, got %+v", res)
	}
}

func TestPointContentsInsideWall(t *testing.T) {
	tree, head := buildSolidWallTree()
	c := PointContents(tree, head, [3]float32{8, 0, 0})
	if c&contentsSolid == 0 {
		t.Fatalf("expected point inside the wall to report solid contents")
	}
	c2 := PointContents(tree, head, [3]float32{100, 0, 0})
	if c2&contentsSolid != 0 {
		t.Fatalf("expected point outside the wall to report empty contents")
	}
}

