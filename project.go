package splat

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// covBlur is added to both diagonal terms of every 2D covariance. It
	// low-pass filters sub-pixel gaussians and keeps the conic inversion
	// away from a zero determinant.
	covBlur = 0.3
	// clipThresh culls gaussians closer than this view-space depth.
	clipThresh = 0.01
	// alphaThresh is the smallest contribution considered visible, one step
	// of an 8-bit channel.
	alphaThresh = 1.0 / 255.0
)

// ProjectedSplat is the output record for one visible gaussian. ConicComp
// holds the conic triple in XYZ and the blur compensation in W; Color is
// premultiplied rgba.
type ProjectedSplat struct {
	Xy        mgl32.Vec2
	ConicComp mgl32.Vec4
	Color     mgl32.Vec4
}

// projectPixel maps a view-space position to pixel coordinates. The epsilon
// guards the divide for near-zero depths.
func projectPixel(focal, principal mgl32.Vec2, viewPos mgl32.Vec3) mgl32.Vec2 {
	rz := 1 / (viewPos[2] + 1e-6)
	return mgl32.Vec2{
		focal[0]*viewPos[0]*rz + principal[0],
		focal[1]*viewPos[1]*rz + principal[1],
	}
}

// build3DCovariance assembles the world-space covariance R·S·Sᵀ·Rᵀ of a
// gaussian from its per-axis scale and rotation. Symmetric positive
// semi-definite by construction.
func build3DCovariance(scale mgl32.Vec3, quat mgl32.Quat) mgl32.Mat3 {
	m := quatToRotMat(quat).Mul3(scaleToMat(scale))
	return m.Mul3(m.Transpose())
}

// calcCov2D propagates a gaussian's covariance into screen space through the
// perspective Jacobian and returns the triple (c00, c01, c11), with the blur
// floor already added to the diagonal.
func calcCov2D(focal mgl32.Vec2, imgWidth, imgHeight uint32, viewMat mgl32.Mat4, viewPos mgl32.Vec3, scale mgl32.Vec3, quat mgl32.Quat) mgl32.Vec3 {
	tanFovX := 0.5 * float32(imgWidth) / focal[0]
	tanFovY := 0.5 * float32(imgHeight) / focal[1]
	limX := 1.3 * tanFovX
	limY := 1.3 * tanFovY

	// Clamp the evaluation point to roughly the frustum. Not a clip: it only
	// keeps the Jacobian finite for points far outside the view cone.
	rz := 1 / viewPos[2]
	tx := viewPos[2] * mgl32.Clamp(viewPos[0]*rz, -limX, limX)
	ty := viewPos[2] * mgl32.Clamp(viewPos[1]*rz, -limY, limY)
	tz := viewPos[2]

	rz = 1 / tz
	rz2 := rz * rz
	jac := mgl32.Mat3FromRows(
		mgl32.Vec3{focal[0] * rz, 0, -focal[0] * tx * rz2},
		mgl32.Vec3{0, focal[1] * rz, -focal[1] * ty * rz2},
		mgl32.Vec3{0, 0, 0},
	)

	t := jac.Mul3(viewMat.Mat3())
	cov := t.Mul3(build3DCovariance(scale, quat)).Mul3(t.Transpose())
	return mgl32.Vec3{cov.At(0, 0) + covBlur, cov.At(0, 1), cov.At(1, 1) + covBlur}
}

// covToConic inverts a 2D covariance triple into its conic (precision)
// triple.
func covToConic(cov mgl32.Vec3) mgl32.Vec3 {
	return invertSymm2(cov)
}

// covCompensation measures how much of a covariance is true shape rather
// than the artificial blur: sqrt(det(cov - blur) / det(cov)), clamped at
// zero against floating-point noise. Scaling opacity by it stops
// nearly-degenerate gaussians from rendering as solid blur disks.
func covCompensation(cov mgl32.Vec3) float32 {
	detBlurred := cov[0]*cov[2] - cov[1]*cov[1]
	detOrig := (cov[0]-covBlur)*(cov[2]-covBlur) - cov[1]*cov[1]
	return float32(math.Sqrt(float64(max(0, detOrig/detBlurred))))
}

// projectOne runs the whole per-gaussian pipeline: view transform, near
// clip, covariance propagation, conic, pixel position, radius and coarse
// tile box. ok is false when the gaussian cannot contribute to any pixel.
func projectOne(f *FrameState, mean, scale mgl32.Vec3, quat mgl32.Quat, opacity float32, color mgl32.Vec3) (out ProjectedSplat, depth float32, radius uint32, bbox TileBbox, ok bool) {
	viewPos := f.ViewMat.Mul4x1(mgl32.Vec4{mean[0], mean[1], mean[2], 1}).Vec3()
	if viewPos[2] < clipThresh {
		return
	}

	cov2d := calcCov2D(f.Focal, f.ImgWidth, f.ImgHeight, f.ViewMat, viewPos, scale, quat)
	comp := covCompensation(cov2d)
	alpha := opacity * comp
	if alpha < alphaThresh {
		return
	}

	conic := covToConic(cov2d)
	xy := projectPixel(f.Focal, f.PixelCenter, viewPos)
	radius = radiusFromConic(conic, alpha)
	if radius == 0 {
		return
	}
	bbox = getTileBbox(xy, radius, f.TileBoundsX, f.TileBoundsY)
	if bbox.Empty() {
		return
	}

	out = ProjectedSplat{
		Xy:        xy,
		ConicComp: mgl32.Vec4{conic[0], conic[1], conic[2], comp},
		Color:     mgl32.Vec4{color[0] * alpha, color[1] * alpha, color[2] * alpha, alpha},
	}
	return out, viewPos[2], radius, bbox, true
}
