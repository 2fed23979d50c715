// Package vis decompresses and queries the map's potentially-visible-set
// and potentially-hearable-set data (spec's VisQuery).
package vis

import (
	"encoding/binary"
	"fmt"
)

// Query wraps a loaded map's raw vis lump and answers PVS/PHS lookups
// against it, grounded on CM_DecompressVis / CM_ClusterPVS / CM_ClusterPHS.
type Query struct {
	data        []byte
	numClusters int
	rowSize     int
}

const (
	dvisPVS = 0
	dvisPHS = 1
)

// New parses the vis lump header: a leading cluster count followed by one
// {pvsOffset, phsOffset} pair per cluster, then the raw RLE-compressed
// bitrows themselves.
func New(visLump []byte) (*Query, error) {
	if len(visLump) == 0 {
		return &Query{}, nil
	}
	if len(visLump) < 4 {
		return nil, fmt.Errorf("vis: lump too small for header")
	}
	numClusters := int(binary.LittleEndian.Uint32(visLump[0:4]))
	headerEnd := 4 + numClusters*8
	if headerEnd > len(visLump) {
		return nil, fmt.Errorf("vis: lump too small for %d cluster offsets", numClusters)
	}
	return &Query{
		data:        visLump,
		numClusters: numClusters,
		rowSize:     (numClusters + 7) / 8,
	}, nil
}

func (q *Query) offsets(cluster, which int) (int, error) {
	if q == nil || cluster < 0 || cluster >= q.numClusters {
		return 0, fmt.Errorf("vis: cluster %d out of range [0,%d)", cluster, q.numClusters)
	}
	base := 4 + cluster*8 + which*4
	return int(binary.LittleEndian.Uint32(q.data[base : base+4])), nil
}

// decompressVis expands the RLE zero-run encoding used for each cluster's
// row: a zero byte is followed by a repeat count, any other byte is taken
// literally. Grounded on CM_DecompressVis.
func decompressVis(data []byte, start, rowSize int) []byte {
	out := make([]byte, rowSize)
	if start >= len(data) {
		for i := range out {
			out[i] = 0xff
		}
		return out
	}
	in := data[start:]
	outPos := 0
	inPos := 0
	for outPos < rowSize && inPos < len(in) {
		if in[inPos] != 0 {
			out[outPos] = in[inPos]
			outPos++
			inPos++
			continue
		}
		if inPos+1 >= len(in) {
			break
		}
		count := int(in[inPos+1])
		inPos += 2
		for count > 0 && outPos < rowSize {
			out[outPos] = 0
			outPos++
			count--
		}
	}
	return out
}

// ClusterPVS returns the decompressed potentially-visible-set row for
// cluster, one bit per cluster, or an all-set row if cluster < 0 (no-vis
// fallback, matching CM_ClusterPVS's behavior for leaf -1 / cluster -1).
func (q *Query) ClusterPVS(cluster int) []byte {
	return q.clusterRow(cluster, dvisPVS)
}

// ClusterPHS returns the decompressed potentially-hearable-set row.
func (q *Query) ClusterPHS(cluster int) []byte {
	return q.clusterRow(cluster, dvisPHS)
}

func (q *Query) clusterRow(cluster, which int) []byte {
	rowSize := q.rowSize
	if rowSize == 0 {
		rowSize = 1
	}
	if q == nil || cluster < 0 || q.data == nil {
		out := make([]byte, rowSize)
		for i := range out {
			out[i] = 0xff
		}
		return out
	}
	off, err := q.offsets(cluster, which)
	if err != nil {
		out := make([]byte, rowSize)
		for i := range out {
			out[i] = 0xff
		}
		return out
	}
	return decompressVis(q.data, off, rowSize)
}

// Visible reports whether bit `cluster` is set in a PVS/PHS row returned
// by ClusterPVS/ClusterPHS.
func Visible(row []byte, cluster int) bool {
	if cluster < 0 {
		return true
	}
	byteIdx := cluster >> 3
	if byteIdx >= len(row) {
		return false
	}
	return row[byteIdx]&(1<<uint(cluster&7)) != 0
}

func (q *Query) NumClusters() int {
	if q == nil {
		return 0
	}
	return q.numClusters
}
