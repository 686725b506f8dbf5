package splat

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// canBeVisible reports whether the tile at (tx, ty) can receive a
// contribution of at least 1/255 from a splat at pixel position xy with the
// given conic and effective opacity. The set of pixels above that threshold
// is the ellipse where opacity·exp(-sigma) = 1/255; the tile is visible iff
// its 16x16 box intersects that ellipse.
func canBeVisible(tx, ty uint32, xy mgl32.Vec2, conic mgl32.Vec3, opacity float32) bool {
	sigmaThresh := float32(math.Log(float64(opacity * 255)))
	if sigmaThresh <= 0 {
		// Below threshold everywhere, including splats with opacity <= 1/255.
		return false
	}
	// Quadratic form of the isocontour ellipse: on the boundary,
	// d·(conic / (2·sigmaThresh))·d = 1.
	s := 1 / (2 * sigmaThresh)
	ell := mgl32.Vec3{conic[0] * s, conic[1] * s, conic[2] * s}

	boxCenter := mgl32.Vec2{
		float32(tx)*TileWidth + TileWidth/2,
		float32(ty)*TileWidth + TileWidth/2,
	}
	halfExtent := mgl32.Vec2{TileWidth / 2, TileWidth / 2}
	return ellipseIntersectsAabb(boxCenter, halfExtent, xy, ell)
}

// ellipseIntersectsAabb is an exact ellipse/box overlap test. The ellipse is
// centered at center with quadratic form conic, boundary at form value 1.
// Center containment, corner containment and edge crossings together cover
// every overlap configuration, so the test never reports a false negative;
// at floating-point precision limits it can be slightly permissive.
func ellipseIntersectsAabb(boxCenter, halfExtent, center mgl32.Vec2, conic mgl32.Vec3) bool {
	if mgl32.Abs(center[0]-boxCenter[0]) <= halfExtent[0] &&
		mgl32.Abs(center[1]-boxCenter[1]) <= halfExtent[1] {
		return true
	}

	x0 := boxCenter[0] - halfExtent[0]
	x1 := boxCenter[0] + halfExtent[0]
	y0 := boxCenter[1] - halfExtent[1]
	y1 := boxCenter[1] + halfExtent[1]
	corners := [4]mgl32.Vec2{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}

	for _, c := range corners {
		d := mgl32.Vec2{c[0] - center[0], c[1] - center[1]}
		if quadForm(conic, d) <= 1 {
			return true
		}
	}

	for i := range corners {
		if ellipseOverlapsEdge(corners[i], corners[(i+1)%4], center, conic) {
			return true
		}
	}
	return false
}

// quadForm evaluates d·M·d for the symmetric matrix (xx, xy, yy).
func quadForm(m mgl32.Vec3, d mgl32.Vec2) float32 {
	return m[0]*d[0]*d[0] + 2*m[1]*d[0]*d[1] + m[2]*d[1]*d[1]
}

// ellipseOverlapsEdge reports whether the segment p0..p1 crosses the ellipse
// boundary. Substituting p(t) = p0 + t·(p1-p0) into the quadratic form gives
// q2·t² + 2·q1·t + q0 = 0; any real root in [0, 1] is a crossing.
//
// q2 ~ 0 (an edge direction in the conic's null space) is not handled and
// propagates ±Inf/NaN through the root computation; every comparison then
// fails and the edge reports no crossing.
func ellipseOverlapsEdge(p0, p1, center mgl32.Vec2, conic mgl32.Vec3) bool {
	d0 := mgl32.Vec2{p0[0] - center[0], p0[1] - center[1]}
	e := mgl32.Vec2{p1[0] - p0[0], p1[1] - p0[1]}

	q2 := quadForm(conic, e)
	q1 := conic[0]*d0[0]*e[0] + conic[1]*(d0[0]*e[1]+d0[1]*e[0]) + conic[2]*d0[1]*e[1]
	q0 := quadForm(conic, d0) - 1

	disc := q1*q1 - q2*q0
	if disc < 0 {
		return false
	}
	root := float32(math.Sqrt(float64(disc)))
	t0 := (-q1 - root) / q2
	t1 := (-q1 + root) / q2
	return (t0 >= 0 && t0 <= 1) || (t1 >= 0 && t1 <= 1)
}
