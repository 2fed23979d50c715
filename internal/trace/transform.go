package trace

import "math"

// anglesToAxes builds the forward/right/up basis vectors for a yaw/pitch/
// roll triple in degrees. No original_source grounding for AngleVectors
// was available in the retrieved pack, so this follows the standard
// aircraft-convention formulation (yaw then pitch then roll) used
// throughout the corpus's vector math.
func anglesToAxes(angles [3]float32) (forward, right, up [3]float32) {
	const deg2rad = math.Pi / 180

	yaw := float64(angles[1]) * deg2rad
	pitch := float64(angles[0]) * deg2rad
	roll := float64(angles[2]) * deg2rad

	sy, cy := math.Sincos(yaw)
	sp, cp := math.Sincos(pitch)
	sr, cr := math.Sincos(roll)

	forward = [3]float32{
		float32(cp * cy),
		float32(cp * sy),
		float32(-sp),
	}
	right = [3]float32{
		float32(-sr*sp*cy + cr*sy),
		float32(-sr*sp*sy - cr*cy),
		float32(-sr * cp),
	}
	up = [3]float32{
		float32(cr*sp*cy + sr*sy),
		float32(cr*sp*sy - sr*cy),
		float32(cr * cp),
	}
	return
}

func worldToLocal(p, origin, forward, right, up [3]float32, rotated bool) [3]float32 {
	rel := [3]float32{p[0] - origin[0], p[1] - origin[1], p[2] - origin[2]}
	if !rotated {
		return rel
	}
	return [3]float32{dot(rel, forward), dot(rel, right), dot(rel, up)}
}

func localToWorld(p, origin, forward, right, up [3]float32, rotated bool) [3]float32 {
	var rel [3]float32
	if rotated {
		rel = localToWorldVec(p, forward, right, up)
	} else {
		rel = p
	}
	return [3]float32{rel[0] + origin[0], rel[1] + origin[1], rel[2] + origin[2]}
}

// localToWorldVec reconstructs a world-space vector from its components
// along the forward/right/up basis (the transpose of the projection used
// by worldToLocal).
func localToWorldVec(v, forward, right, up [3]float32) [3]float32 {
	return [3]float32{
		forward[0]*v[0] + right[0]*v[1] + up[0]*v[2],
		forward[1]*v[0] + right[1]*v[1] + up[1]*v[2],
		forward[2]*v[0] + right[2]*v[1] + up[2]*v[2],
	}
}
