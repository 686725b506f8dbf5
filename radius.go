package splat

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// TileBbox is an integer box in tile coordinates, min inclusive and max
// exclusive, always clamped into [0, tileBounds].
type TileBbox struct {
	MinX, MinY, MaxX, MaxY uint32
}

func (b TileBbox) Empty() bool {
	return b.MinX >= b.MaxX || b.MinY >= b.MaxY
}

// Area returns the number of tiles covered by the box.
func (b TileBbox) Area() uint32 {
	if b.Empty() {
		return 0
	}
	return (b.MaxX - b.MinX) * (b.MaxY - b.MinY)
}

// radiusFromConic estimates the pixel radius a splat can influence as three
// standard deviations along the major axis of its covariance.
//
// The opacity argument is deliberately ignored: an exact bound would solve
// opacity·exp(-sigma) = 1/255 for the cutoff radius and shrink coverage for
// faint splats, but the radius stays opacity-independent and over-allocates
// instead. The exact per-tile test trims the excess later.
func radiusFromConic(conic mgl32.Vec3, opacity float32) uint32 {
	_ = opacity
	cov := invertSymm2(conic)
	det := cov[0]*cov[2] - cov[1]*cov[1]
	mid := 0.5 * (cov[0] + cov[2])
	// The 0.1 floor keeps near-isotropic matrices from producing a negative
	// radicand.
	disc := float32(math.Sqrt(float64(max(0.1, mid*mid-det))))
	v1 := mid + disc
	v2 := mid - disc
	return uint32(math.Ceil(3 * math.Sqrt(float64(max(0, max(v1, v2))))))
}

func clampFloor(v, bound float32) uint32 {
	return uint32(mgl32.Clamp(float32(math.Floor(float64(v))), 0, bound))
}

func clampCeil(v, bound float32) uint32 {
	return uint32(mgl32.Clamp(float32(math.Ceil(float64(v))), 0, bound))
}

// getBbox clamps the box around center±halfDims into [0, bounds]. The +1 on
// the upper edge keeps the box non-empty even when halfDims rounds to zero.
func getBbox(center, halfDims mgl32.Vec2, boundsX, boundsY uint32) TileBbox {
	return TileBbox{
		MinX: clampFloor(center[0]-halfDims[0], float32(boundsX)),
		MinY: clampFloor(center[1]-halfDims[1], float32(boundsY)),
		MaxX: clampCeil(center[0]+halfDims[0]+1, float32(boundsX)),
		MaxY: clampCeil(center[1]+halfDims[1]+1, float32(boundsY)),
	}
}

// getTileBbox is getBbox with center and radius expressed in tile units.
func getTileBbox(pixelCenter mgl32.Vec2, pixelRadius, tileBoundsX, tileBoundsY uint32) TileBbox {
	tileCenter := mgl32.Vec2{pixelCenter[0] / TileWidth, pixelCenter[1] / TileWidth}
	half := float32(pixelRadius) / TileWidth
	return getBbox(tileCenter, mgl32.Vec2{half, half}, tileBoundsX, tileBoundsY)
}
