package bsp

// contentsMonster mirrors CONTENTS_MONSTER: the content value CM_InitBoxHull
// gives the synthetic box brush/leaf, matching the original engine.
const contentsMonster = 0x2000000

// initBoxHull appends the six-plane, six-node box hull chain to an
// already-loaded Bsp, grounded directly on CM_InitBoxHull: six brush
// sides/nodes/plane-pairs wired as one contiguous headnode, the inner
// children pointing at the empty leaf sentinel and the final "through"
// child pointing at one synthetic leaf representing "inside the box".
func initBoxHull(b *Bsp) {
	b.boxPlaneBase = int32(len(b.Planes))
	planeBase := len(b.Planes)
	nodeBase := len(b.Nodes)
	brushSideBase := len(b.BrushSides)

	b.Planes = append(b.Planes, make([]Plane, 12)...)
	b.Nodes = append(b.Nodes, make([]Node, 6)...)
	b.BrushSides = append(b.BrushSides, make([]BrushSide, 6)...)

	boxLeafIndex := int32(len(b.Leaves))
	b.Leaves = append(b.Leaves, Leaf{
		Contents:       contentsMonster,
		FirstLeafBrush: int32(len(b.LeafBrushes)),
		NumLeafBrushes: 1,
	})

	boxBrushIndex := int32(len(b.Brushes))
	b.Brushes = append(b.Brushes, Brush{
		Contents:       contentsMonster,
		NumSides:       6,
		FirstBrushSide: int32(brushSideBase),
	})
	b.LeafBrushes = append(b.LeafBrushes, boxBrushIndex)

	b.BoxHeadNode = int32(nodeBase)

	for i := 0; i < 6; i++ {
		side := i & 1

		b.BrushSides[brushSideBase+i] = BrushSide{
			Plane:   int32(planeBase + i*2 + side),
			Surface: -1,
		}

		node := &b.Nodes[nodeBase+i]
		node.Plane = int32(planeBase + i*2)
		node.Children[side] = -1 - b.EmptyLeaf
		if i != 5 {
			node.Children[side^1] = int32(nodeBase + i + 1)
		} else {
			node.Children[side^1] = -1 - boxLeafIndex
		}

		axis := i >> 1

		p0 := &b.Planes[planeBase+i*2]
		p0.Type = int32(axis)
		p0.Normal[axis] = 1
		p0.SignBits = ComputeSignBits(p0.Normal)

		p1 := &b.Planes[planeBase+i*2+1]
		p1.Type = int32(3 + axis)
		p1.Normal[axis] = -1
		p1.SignBits = ComputeSignBits(p1.Normal)
	}
}
