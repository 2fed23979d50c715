package bsp

// Bsp is the fully loaded map: all arrays immutable after load and freely
// shareable (§3, §5). It implements Tree directly for world/inline-model
// traces; BoxOverlay layers transient per-trace box-plane distances over
// the same Tree shape for entity-bbox traces, so no package-level mutable
// scratch is ever required (see the ClientSession/TraceContext design
// note this module follows).
type Bsp struct {
	Planes      []Plane
	Nodes       []Node
	Leaves      []Leaf
	LeafBrushes []int32
	Brushes     []Brush
	BrushSides  []BrushSide
	Surfaces    []Surface
	Submodels   []Submodel
	Areas       []Area
	AreaPortals []AreaPortalRef
	VisData     []byte
	EntityStr   string

	NumClusters int
	NumAreas    int

	// BoxHeadNode is the node index CM_HeadnodeForBox returns: the root of
	// the 6-node chain appended at load time by initBoxHull.
	BoxHeadNode int32
	// boxPlaneBase is the index of the first of the 12 box planes within
	// Planes; BoxOverlay substitutes its own 12 distances at this offset.
	boxPlaneBase int32
	// EmptyLeaf is a non-solid leaf used as the box hull's "outside"
	// sentinel, per the invariant that one must exist.
	EmptyLeaf int32
}

func (b *Bsp) PlaneAt(i int32) Plane      { return b.Planes[i] }
func (b *Bsp) NodeAt(i int32) Node        { return b.Nodes[i] }
func (b *Bsp) LeafAt(i int32) Leaf        { return b.Leaves[i] }
func (b *Bsp) LeafBrushAt(i int32) int32  { return b.LeafBrushes[i] }
func (b *Bsp) BrushAt(i int32) Brush      { return b.Brushes[i] }
func (b *Bsp) BrushSideAt(i int32) BrushSide { return b.BrushSides[i] }

// SurfaceAt resolves a BrushSide.Surface index into the loaded Surfaces
// table; -1 is the null-surface sentinel (box hull sides and surfaceless
// brush sides both use it).
func (b *Bsp) SurfaceAt(i int32) *Surface {
	if i < 0 {
		return nil
	}
	return &b.Surfaces[i]
}

// BoxOverlay carries the 12 distances CM_HeadnodeForBox would otherwise
// mutate in a shared global; HeadnodeForBox fills it per call, and
// OverlayTree wraps Bsp so Trace sees the override transparently.
type BoxOverlay struct {
	dists [12]float32
}

// HeadnodeForBox sets overlay's 12 plane distances from mins/maxs and
// returns the headnode to trace against, per CM_HeadnodeForBox.
func (b *Bsp) HeadnodeForBox(overlay *BoxOverlay, mins, maxs [3]float32) int32 {
	overlay.dists[0] = maxs[0]
	overlay.dists[1] = -maxs[0]
	overlay.dists[2] = mins[0]
	overlay.dists[3] = -mins[0]
	overlay.dists[4] = maxs[1]
	overlay.dists[5] = -maxs[1]
	overlay.dists[6] = mins[1]
	overlay.dists[7] = -mins[1]
	overlay.dists[8] = maxs[2]
	overlay.dists[9] = -maxs[2]
	overlay.dists[10] = mins[2]
	overlay.dists[11] = -mins[2]
	return b.BoxHeadNode
}

// OverlayTree presents b with overlay's box-plane distances substituted.
type OverlayTree struct {
	*Bsp
	Overlay *BoxOverlay
}

func (o OverlayTree) PlaneAt(i int32) Plane {
	base := o.Bsp.boxPlaneBase
	if o.Overlay != nil && i >= base && i < base+12 {
		p := o.Bsp.Planes[i]
		p.Dist = o.Overlay.dists[i-base]
		return p
	}
	return o.Bsp.Planes[i]
}
