package trace

import "github.com/ernie/q2netcore/internal/bsp"

// recursiveHullCheck walks the node tree from num between p1/p2 (already
// scaled into the [p1f,p2f] fraction window of the original start/end),
// testing each leaf reached against the brushes it carries. Grounded on
// CM_RecursiveHullCheck.
func (t *traceCtx) recursiveHullCheck(num int32, p1f, p2f float32, p1, p2 [3]float32) {
	if t.trace.Fraction <= p1f {
		return
	}

	if num < 0 {
		t.traceToLeaf(-1 - num)
		return
	}

	node := t.tree.NodeAt(num)
	plane := t.tree.PlaneAt(node.Plane)

	var t1, t2 float32
	var offset float32
	if plane.Type < 3 {
		axis := plane.Type
		t1 = p1[axis] - plane.Dist
		t2 = p2[axis] - plane.Dist
		offset = t.extents[axis]
	} else {
		t1 = dot(p1, plane.Normal) - plane.Dist
		t2 = dot(p2, plane.Normal) - plane.Dist
		if t.isPoint {
			offset = 0
		} else {
			offset = absf(t.extents[0]*plane.Normal[0]) +
				absf(t.extents[1]*plane.Normal[1]) +
				absf(t.extents[2]*plane.Normal[2])
		}
	}

	if t1 >= offset && t2 >= offset {
		t.recursiveHullCheck(node.Children[0], p1f, p2f, p1, p2)
		return
	}
	if t1 < -offset && t2 < -offset {
		t.recursiveHullCheck(node.Children[1], p1f, p2f, p1, p2)
		return
	}

	var side int
	var frac1, frac2 float32
	if t1 < t2 {
		idist := 1.0 / (t1 - t2)
		side = 1
		frac2 = (t1 + offset + distEpsilon) * idist
		frac1 = (t1 - offset + distEpsilon) * idist
	} else if t1 > t2 {
		idist := 1.0 / (t1 - t2)
		side = 0
		frac2 = (t1 - offset - distEpsilon) * idist
		frac1 = (t1 + offset + distEpsilon) * idist
	} else {
		side = 0
		frac1 = 1
		frac2 = 0
	}

	frac1 = clamp01(frac1)
	frac2 = clamp01(frac2)

	midf := p1f + (p2f-p1f)*frac1
	var mid [3]float32
	for i := 0; i < 3; i++ {
		mid[i] = p1[i] + frac1*(p2[i]-p1[i])
	}
	t.recursiveHullCheck(node.Children[side], p1f, midf, p1, mid)

	midf = p1f + (p2f-p1f)*frac2
	for i := 0; i < 3; i++ {
		mid[i] = p1[i] + frac2*(p2[i]-p1[i])
	}
	t.recursiveHullCheck(node.Children[side^1], midf, p2f, mid, p2)
}

func clamp01(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func absf(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func (t *traceCtx) traceToLeaf(leafNum int32) {
	leaf := t.tree.LeafAt(leafNum)
	if leaf.Contents&t.contentsMask == 0 {
		return
	}
	for i := int32(0); i < leaf.NumLeafBrushes; i++ {
		brushNum := t.tree.LeafBrushAt(leaf.FirstLeafBrush + i)
		if t.checkcount[brushNum] == t.curCheck {
			continue
		}
		t.checkcount[brushNum] = t.curCheck
		brush := t.tree.BrushAt(brushNum)
		if brush.Contents&t.contentsMask == 0 {
			continue
		}
		t.clipBoxToBrush(brush)
		if t.trace.AllSolid {
			return
		}
	}
}

// clipBoxToBrush intersects the swept box against one brush's half-spaces,
// grounded on CM_ClipBoxToBrush.
func (t *traceCtx) clipBoxToBrush(brush bsp.Brush) {
	if brush.NumSides == 0 {
		return
	}

	enterFrac := float32(-1)
	leaveFrac := float32(1)
	var clipPlane bsp.Plane
	var clipSurface *bsp.Surface
	hasClipPlane := false
	getOut := false
	startOut := false

	for i := int32(0); i < brush.NumSides; i++ {
		side := t.tree.BrushSideAt(brush.FirstBrushSide + i)
		plane := t.tree.PlaneAt(side.Plane)

		var dist float32
		var d1, d2 float32
		if t.isPoint {
			dist = plane.Dist
		} else {
			var offset [3]float32
			for j := 0; j < 3; j++ {
				if plane.Normal[j] < 0 {
					offset[j] = t.maxs[j]
				} else {
					offset[j] = t.mins[j]
				}
			}
			dist = plane.Dist - dot(offset, plane.Normal)
		}

		d1 = dot(t.start, plane.Normal) - dist
		d2 = dot(t.end, plane.Normal) - dist

		if d2 > 0 {
			getOut = true
		}
		if d1 > 0 {
			startOut = true
		}

		if d1 > 0 && d2 >= d1 {
			return
		}
		if d1 <= 0 && d2 <= 0 {
			continue
		}

		if d1 > d2 {
			f := (d1 - distEpsilon) / (d1 - d2)
			if f > enterFrac {
				enterFrac = f
				clipPlane = plane
				clipSurface = t.tree.SurfaceAt(side.Surface)
				hasClipPlane = true
			}
		} else {
			f := (d1 + distEpsilon) / (d1 - d2)
			if f < leaveFrac {
				leaveFrac = f
			}
		}
	}

	if !startOut {
		t.trace.StartSolid = true
		if !getOut {
			t.trace.AllSolid = true
		}
		return
	}
	if enterFrac < leaveFrac {
		if enterFrac > -1 && enterFrac < t.trace.Fraction {
			if enterFrac < 0 {
				enterFrac = 0
			}
			t.trace.Fraction = enterFrac
			if hasClipPlane {
				t.trace.Plane = clipPlane
				t.trace.HasPlane = true
				t.trace.Surface = clipSurface
			}
			t.trace.Contents = brush.Contents
		}
	}
}
