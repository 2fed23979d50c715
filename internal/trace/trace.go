// Package trace implements the swept-AABB collision sweep and point
// classification against a bsp.Tree (spec's Trace, CM_PointContents,
// CM_TransformedPointContents).
package trace

import (
	"github.com/ernie/q2netcore/internal/bsp"
)

// distEpsilon is the push-off distance used to avoid grazing precision
// failures at a brush boundary, grounded on DIST_EPSILON (1/32).
const distEpsilon = 1.0 / 32.0

const contentsSolid = 1

// Result is the outcome of a single Trace call.
type Result struct {
	AllSolid   bool
	StartSolid bool
	Fraction   float32
	EndPos     [3]float32
	Plane      bsp.Plane
	HasPlane   bool
	Surface    *bsp.Surface
	Contents   int32
}

// traceCtx is the mutable per-call accumulator, kept off the Tree so the
// underlying map stays immutable and shareable (§3/§5).
type traceCtx struct {
	tree        bsp.Tree
	contentsMask int32

	start, end  [3]float32
	mins, maxs  [3]float32
	extents     [3]float32
	isPoint     bool

	trace     Result
	checkcount map[int32]int32
	curCheck   int32
}

// BoxTrace sweeps a box from start to end through tree, stopping at any
// brush whose contents intersect mask, grounded on CM_BoxTrace /
// CM_RecursiveHullCheck / CM_ClipBoxToBrush.
func BoxTrace(tree bsp.Tree, headnode int32, start, end, mins, maxs [3]float32, mask int32) Result {
	t := &traceCtx{
		tree:         tree,
		contentsMask: mask,
		start:        start,
		end:          end,
		mins:         mins,
		maxs:         maxs,
		checkcount:   make(map[int32]int32),
	}
	t.curCheck = 1
	t.isPoint = mins == [3]float32{} && maxs == [3]float32{}
	for i := 0; i < 3; i++ {
		t.extents[i] = max32(-mins[i], maxs[i])
	}
	t.trace.Fraction = 1
	t.trace.EndPos = end

	t.recursiveHullCheck(headnode, 0, 1, start, end)

	if t.trace.Fraction == 1 {
		t.trace.EndPos = end
	} else {
		for i := 0; i < 3; i++ {
			t.trace.EndPos[i] = start[i] + t.trace.Fraction*(end[i]-start[i])
		}
	}
	return t.trace
}

// TransformedBoxTrace sweeps a box through tree exactly as BoxTrace but
// with start/end transformed into the local space of a rotated entity first
// (mins/maxs are used as given), then the outgoing plane/endpos transformed
// back, grounded
// on CM_TransformedBoxTrace.
func TransformedBoxTrace(tree bsp.Tree, headnode int32, start, end, mins, maxs [3]float32, mask int32, origin, angles [3]float32) Result {
	rotated := angles != [3]float32{}

	forward, right, up := anglesToAxes(angles)

	localStart := worldToLocal(start, origin, forward, right, up, rotated)
	localEnd := worldToLocal(end, origin, forward, right, up, rotated)

	res := BoxTrace(tree, headnode, localStart, localEnd, mins, maxs, mask)

	if rotated && res.Fraction != 1 {
		res.Plane.Normal = localToWorldVec(res.Plane.Normal, forward, right, up)
	}
	res.EndPos[0] = localStart[0] + res.Fraction*(localEnd[0]-localStart[0])
	res.EndPos[1] = localStart[1] + res.Fraction*(localEnd[1]-localStart[1])
	res.EndPos[2] = localStart[2] + res.Fraction*(localEnd[2]-localStart[2])
	res.EndPos = localToWorld(res.EndPos, origin, forward, right, up, rotated)
	return res
}

// PointContents returns the content flags of the leaf containing p,
// grounded on CM_PointContents.
func PointContents(tree bsp.Tree, headnode int32, p [3]float32) int32 {
	return pointLeafContents(tree, headnode, p)
}

// TransformedPointContents is PointContents with p transformed into the
// entity's local space first, grounded on CM_TransformedPointContents.
func TransformedPointContents(tree bsp.Tree, headnode int32, p [3]float32, origin, angles [3]float32) int32 {
	rotated := angles != [3]float32{}
	forward, right, up := anglesToAxes(angles)
	local := worldToLocal(p, origin, forward, right, up, rotated)
	return pointLeafContents(tree, headnode, local)
}

func pointLeafContents(tree bsp.Tree, num int32, p [3]float32) int32 {
	for num >= 0 {
		node := tree.NodeAt(num)
		plane := tree.PlaneAt(node.Plane)
		d := dot(p, plane.Normal) - plane.Dist
		if d < 0 {
			num = node.Children[1]
		} else {
			num = node.Children[0]
		}
	}
	leaf := tree.LeafAt(-1 - num)
	return leaf.Contents
}

func dot(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
