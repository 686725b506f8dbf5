package splat

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// TileWidth is the edge length of one screen tile in pixels.
	TileWidth = 16
	// TileSize is the pixel area of one tile.
	TileSize = TileWidth * TileWidth
	// BatchSize is the number of gaussians handed to one projection worker.
	BatchSize = 256
)

// FrameState is the per-frame camera and image configuration shared by all
// projection workers. Every field is read-only for the duration of a frame
// except the visible counter, which workers bump atomically to claim output
// slots. The counter may only be read as a plain value once the projection
// pass has fully completed.
type FrameState struct {
	ViewMat     mgl32.Mat4
	Focal       mgl32.Vec2
	PixelCenter mgl32.Vec2
	ImgWidth    uint32
	ImgHeight   uint32
	TileBoundsX uint32
	TileBoundsY uint32
	Background  mgl32.Vec3
	ShDegree    uint32
	NumPoints   uint32

	visible atomic.Uint32
}

func NewFrameState(cam Camera, width, height uint32, background mgl32.Vec3, shDegree, numPoints uint32) *FrameState {
	return &FrameState{
		ViewMat:     cam.ViewMatrix(),
		Focal:       cam.Focal(width, height),
		PixelCenter: cam.Center(width, height),
		ImgWidth:    width,
		ImgHeight:   height,
		TileBoundsX: ceilDiv(width, TileWidth),
		TileBoundsY: ceilDiv(height, TileWidth),
		Background:  background,
		ShDegree:    shDegree,
		NumPoints:   numPoints,
	}
}

// claimSlot reserves one output slot for a visible splat. Safe to call from
// any worker; each worker calls it at most once per gaussian.
func (f *FrameState) claimSlot() uint32 {
	return f.visible.Add(1) - 1
}

// NumVisible reports the visible-splat count. Only meaningful after
// ProjectSplats has returned; reading it mid-pass observes a partial count.
func (f *FrameState) NumVisible() uint32 {
	return f.visible.Load()
}

// Reset clears the visible counter so the frame state can drive a new pass.
func (f *FrameState) Reset() {
	f.visible.Store(0)
}
