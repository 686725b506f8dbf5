package splat

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a pinhole camera posed in world space. Identity rotation looks
// down +Z; view-space depth is positive in front of the camera.
type Camera struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	FovX     float32
	FovY     float32
}

func NewCamera(position mgl32.Vec3, rotation mgl32.Quat, fovX, fovY float32) Camera {
	return Camera{
		Position: position,
		Rotation: rotation,
		FovX:     fovX,
		FovY:     fovY,
	}
}

// ViewMatrix returns the world-to-camera transform.
func (c Camera) ViewMatrix() mgl32.Mat4 {
	rot := c.Rotation.Mat4().Transpose()
	trans := mgl32.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2])
	return rot.Mul4(trans)
}

// Focal returns the focal lengths in pixels for an image size.
func (c Camera) Focal(width, height uint32) mgl32.Vec2 {
	return mgl32.Vec2{
		FovToFocal(c.FovX, width),
		FovToFocal(c.FovY, height),
	}
}

// Center returns the principal point, assumed at the image center.
func (c Camera) Center(width, height uint32) mgl32.Vec2 {
	return mgl32.Vec2{float32(width) / 2, float32(height) / 2}
}

func FovToFocal(fov float32, pixels uint32) float32 {
	return float32(pixels) / (2 * float32(math.Tan(float64(fov)*0.5)))
}

func FocalToFov(focal float32, pixels uint32) float32 {
	return 2 * float32(math.Atan(float64(float32(pixels)/(2*focal))))
}
