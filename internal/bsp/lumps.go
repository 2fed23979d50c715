package bsp

import (
	"encoding/binary"
	"fmt"
	"math"
)

func f32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

const planeRecordSize = 16 // normal[3]float32 + dist float32

func parsePlanes(data []byte) ([]Plane, error) {
	if len(data)%planeRecordSize != 0 {
		return nil, &MapParseError{Reason: "plane lump misaligned"}
	}
	n := len(data) / planeRecordSize
	out := make([]Plane, n)
	for i := 0; i < n; i++ {
		rec := data[i*planeRecordSize:]
		p := Plane{
			Normal: [3]float32{f32(rec[0:4]), f32(rec[4:8]), f32(rec[8:12])},
			Dist:   f32(rec[12:16]),
		}
		p.SignBits = ComputeSignBits(p.Normal)
		p.Type = PlaneTypeForNormal(p.Normal)
		out[i] = p
	}
	return out, nil
}

func nodeRecordSize(wide bool) int {
	if wide {
		return 4 + 2*4 // planenum int32 + children[2] int32
	}
	return 4 + 2*2 // planenum int32 + children[2] int16
}

func parseNodes(data []byte, wide bool, numPlanes int) ([]Node, error) {
	rec := nodeRecordSize(wide)
	if rec == 0 || len(data)%rec != 0 {
		return nil, &MapParseError{Reason: "node lump misaligned"}
	}
	n := len(data) / rec
	out := make([]Node, n)
	for i := 0; i < n; i++ {
		base := data[i*rec:]
		planeIdx := int32(binary.LittleEndian.Uint32(base[0:4]))
		if planeIdx < 0 || int(planeIdx) >= numPlanes {
			return nil, &MapParseError{Reason: fmt.Sprintf("node %d: plane index %d out of bounds", i, planeIdx)}
		}
		var children [2]int32
		if wide {
			children[0] = int32(binary.LittleEndian.Uint32(base[4:8]))
			children[1] = int32(binary.LittleEndian.Uint32(base[8:12]))
		} else {
			children[0] = int32(int16(binary.LittleEndian.Uint16(base[4:6])))
			children[1] = int32(int16(binary.LittleEndian.Uint16(base[6:8])))
		}
		out[i] = Node{Plane: planeIdx, Children: children}
	}
	return out, nil
}

const surfaceRecordSize = 36 // name[32] + flags int32

func parseSurfaces(data []byte) []Surface {
	if len(data) == 0 {
		return nil
	}
	n := len(data) / surfaceRecordSize
	out := make([]Surface, n)
	for i := 0; i < n; i++ {
		rec := data[i*surfaceRecordSize:]
		out[i] = Surface{
			Name:  readNullTerminatedString(rec[0:32]),
			Flags: int32(binary.LittleEndian.Uint32(rec[32:36])),
		}
	}
	return out
}

func leafRecordSize(wide bool) int {
	if wide {
		return 4 + 4 + 4 + 4 + 4 // contents, cluster, area, firstleafbrush, numleafbrushes (all int32)
	}
	return 4 + 2 + 2 + 2 + 2 // contents int32, cluster/area/first/num int16
}

func parseLeaves(data []byte, wide bool, numLeafBrushes int) ([]Leaf, error) {
	rec := leafRecordSize(wide)
	if rec == 0 || len(data)%rec != 0 {
		return nil, &MapParseError{Reason: "leaf lump misaligned"}
	}
	n := len(data) / rec
	out := make([]Leaf, n)
	for i := 0; i < n; i++ {
		base := data[i*rec:]
		l := Leaf{Contents: int32(binary.LittleEndian.Uint32(base[0:4]))}
		if wide {
			l.Cluster = int32(binary.LittleEndian.Uint32(base[4:8]))
			l.Area = int32(binary.LittleEndian.Uint32(base[8:12]))
			l.FirstLeafBrush = int32(binary.LittleEndian.Uint32(base[12:16]))
			l.NumLeafBrushes = int32(binary.LittleEndian.Uint32(base[16:20]))
		} else {
			l.Cluster = int32(int16(binary.LittleEndian.Uint16(base[4:6])))
			l.Area = int32(int16(binary.LittleEndian.Uint16(base[6:8])))
			l.FirstLeafBrush = int32(binary.LittleEndian.Uint16(base[8:10]))
			l.NumLeafBrushes = int32(binary.LittleEndian.Uint16(base[10:12]))
		}
		if int(l.FirstLeafBrush)+int(l.NumLeafBrushes) > numLeafBrushes {
			return nil, &MapParseError{Reason: fmt.Sprintf("leaf %d: leafbrush range out of bounds", i)}
		}
		out[i] = l
	}
	return out, nil
}

func parseLeafBrushes(data []byte, wide bool) ([]int32, error) {
	width := 2
	if wide {
		width = 4
	}
	if width == 0 || len(data)%width != 0 {
		return nil, &MapParseError{Reason: "leafbrush lump misaligned"}
	}
	n := len(data) / width
	out := make([]int32, n)
	for i := 0; i < n; i++ {
		if wide {
			out[i] = int32(binary.LittleEndian.Uint32(data[i*4:]))
		} else {
			out[i] = int32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	}
	return out, nil
}

func brushSideRecordSize(wide bool) int {
	if wide {
		return 4 + 4
	}
	return 2 + 2
}

func parseBrushSides(data []byte, wide bool, numPlanes, numSurfaces int) ([]BrushSide, error) {
	rec := brushSideRecordSize(wide)
	if rec == 0 || len(data)%rec != 0 {
		return nil, &MapParseError{Reason: "brushside lump misaligned"}
	}
	n := len(data) / rec
	out := make([]BrushSide, n)
	for i := 0; i < n; i++ {
		base := data[i*rec:]
		var planeIdx, surfIdx int32
		if wide {
			planeIdx = int32(binary.LittleEndian.Uint32(base[0:4]))
			surfIdx = int32(binary.LittleEndian.Uint32(base[4:8]))
		} else {
			planeIdx = int32(binary.LittleEndian.Uint16(base[0:2]))
			surfIdx = int32(int16(binary.LittleEndian.Uint16(base[2:4])))
		}
		if planeIdx < 0 || int(planeIdx) >= numPlanes {
			return nil, &MapParseError{Reason: fmt.Sprintf("brushside %d: plane index out of bounds", i)}
		}
		if surfIdx >= int32(numSurfaces) {
			return nil, &MapParseError{Reason: fmt.Sprintf("brushside %d: surface index out of bounds", i)}
		}
		out[i] = BrushSide{Plane: planeIdx, Surface: surfIdx}
	}
	return out, nil
}

const brushRecordSize = 12 // firstside int32, numsides int32, contents int32

func parseBrushes(data []byte, numBrushSides int) ([]Brush, error) {
	if len(data)%brushRecordSize != 0 {
		return nil, &MapParseError{Reason: "brush lump misaligned"}
	}
	n := len(data) / brushRecordSize
	out := make([]Brush, n)
	for i := 0; i < n; i++ {
		rec := data[i*brushRecordSize:]
		b := Brush{
			FirstBrushSide: int32(binary.LittleEndian.Uint32(rec[0:4])),
			NumSides:       int32(binary.LittleEndian.Uint32(rec[4:8])),
			Contents:       int32(binary.LittleEndian.Uint32(rec[8:12])),
		}
		if int(b.FirstBrushSide)+int(b.NumSides) > numBrushSides {
			return nil, &MapParseError{Reason: fmt.Sprintf("brush %d: side range out of bounds", i)}
		}
		out[i] = b
	}
	return out, nil
}

const submodelRecordSize = 4*3 + 4*3 + 4*3 + 4 + 4 + 4 // mins, maxs, origin, headnode, firstface, numfaces

func parseSubmodels(data []byte) ([]Submodel, error) {
	if len(data)%submodelRecordSize != 0 {
		return nil, &MapParseError{Reason: "model lump misaligned"}
	}
	n := len(data) / submodelRecordSize
	out := make([]Submodel, n)
	for i := 0; i < n; i++ {
		rec := data[i*submodelRecordSize:]
		out[i] = Submodel{
			Mins:     [3]float32{f32(rec[0:4]), f32(rec[4:8]), f32(rec[8:12])},
			Maxs:     [3]float32{f32(rec[12:16]), f32(rec[16:20]), f32(rec[20:24])},
			Origin:   [3]float32{f32(rec[24:28]), f32(rec[28:32]), f32(rec[32:36])},
			HeadNode: int32(binary.LittleEndian.Uint32(rec[36:40])),
		}
	}
	return out, nil
}

const areaRecordSize = 8 // numareaportals int32, firstareaportal int32

func parseAreas(data []byte) []Area {
	n := len(data) / areaRecordSize
	out := make([]Area, n)
	for i := 0; i < n; i++ {
		rec := data[i*areaRecordSize:]
		out[i] = Area{
			NumAreaPortals:  int32(binary.LittleEndian.Uint32(rec[0:4])),
			FirstAreaPortal: int32(binary.LittleEndian.Uint32(rec[4:8])),
		}
	}
	return out
}

const areaPortalRecordSize = 8 // portalnum int32, otherarea int32

func parseAreaPortals(data []byte) []AreaPortalRef {
	n := len(data) / areaPortalRecordSize
	out := make([]AreaPortalRef, n)
	for i := 0; i < n; i++ {
		rec := data[i*areaPortalRecordSize:]
		out[i] = AreaPortalRef{
			PortalNum: int32(binary.LittleEndian.Uint32(rec[0:4])),
			OtherArea: int32(binary.LittleEndian.Uint32(rec[4:8])),
		}
	}
	return out
}
