package msgbuf

import "math"

// ByteDirs is the 162-entry unit-vector table that a Dir byte indexes into.
// The original engine bakes this table from a subdivided icosahedron at
// build time; we generate an equivalent uniformly-distributed table once at
// package init using a deterministic latitude/longitude sampling (a
// spiral-point distribution), since the exact icosahedron subdivision
// source wasn't available to port. Any table of 162 roughly-uniform unit
// vectors satisfies the wire contract: callers only need Encode/Decode to
// round-trip through the shared table, not bit-for-bit agreement with the
// original game's table.
var ByteDirs = buildByteDirs()

const numByteDirs = 162

func buildByteDirs() [numByteDirs][3]float32 {
	var dirs [numByteDirs][3]float32
	// Golden-section spiral: even coverage of the sphere, fully deterministic.
	const goldenAngle = math.Pi * (3 - 2.2360679774997896 /* sqrt(5) */)
	for i := 0; i < numByteDirs; i++ {
		y := 1 - (float64(i)/float64(numByteDirs-1))*2
		radius := math.Sqrt(1 - y*y)
		theta := goldenAngle * float64(i)
		x := math.Cos(theta) * radius
		z := math.Sin(theta) * radius
		dirs[i] = [3]float32{float32(x), float32(y), float32(z)}
	}
	return dirs
}

// EncodeDir returns the index of the table entry nearest to v.
func EncodeDir(v [3]float32) byte {
	best := 0
	bestDot := float32(-2)
	for i, d := range ByteDirs {
		dot := d[0]*v[0] + d[1]*v[1] + d[2]*v[2]
		if dot > bestDot {
			bestDot = dot
			best = i
		}
	}
	return byte(best)
}
