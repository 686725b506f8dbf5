package splat

import (
	"github.com/go-gl/mathgl/mgl32"
)

// PackedVec3 is three contiguous float32 with no implicit padding. Used for
// buffers where density matters more than native vector alignment.
type PackedVec3 struct {
	X, Y, Z float32
}

func PackVec3(v mgl32.Vec3) PackedVec3 {
	return PackedVec3{v[0], v[1], v[2]}
}

func (p PackedVec3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{p.X, p.Y, p.Z}
}

// quatToRotMat converts a unit quaternion to a rotation matrix. Hamilton
// convention, components read in the order (w, x, y, z).
func quatToRotMat(q mgl32.Quat) mgl32.Mat3 {
	w, x, y, z := q.W, q.V[0], q.V[1], q.V[2]
	return mgl32.Mat3FromRows(
		mgl32.Vec3{1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y)},
		mgl32.Vec3{2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x)},
		mgl32.Vec3{2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y)},
	)
}

// scaleToMat builds a diagonal matrix from per-axis scale factors.
func scaleToMat(scale mgl32.Vec3) mgl32.Mat3 {
	return mgl32.Diag3(scale)
}

// invertSymm2 inverts the symmetric 2x2 matrix [[x, y], [y, z]] stored as
// (x, y, z), via the adjugate. Undefined when the determinant is ~0; callers
// rely on the covariance blur floor to keep the matrix well conditioned.
func invertSymm2(m mgl32.Vec3) mgl32.Vec3 {
	det := m[0]*m[2] - m[1]*m[1]
	return mgl32.Vec3{m[2] / det, -m[1] / det, m[0] / det}
}

// ceilDiv is integer division rounding up.
func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}
