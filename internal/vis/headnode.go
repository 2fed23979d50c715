package vis

import "github.com/ernie/q2netcore/internal/bsp"

// HeadnodeVisible walks tree from headnode and reports whether any leaf
// under it has a cluster marked visible in visRow. This is the
// supplemented CM_HeadnodeVisible test used to cull inline-model bmodels
// against a viewer's PVS without enumerating every leaf by hand.
func HeadnodeVisible(tree bsp.Tree, headnode int32, visRow []byte) bool {
	if headnode < 0 {
		leaf := tree.LeafAt(-1 - headnode)
		if leaf.Cluster == -1 {
			return false
		}
		return Visible(visRow, int(leaf.Cluster))
	}
	node := tree.NodeAt(headnode)
	if HeadnodeVisible(tree, node.Children[0], visRow) {
		return true
	}
	return HeadnodeVisible(tree, node.Children[1], visRow)
}
