package splat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/cogentcore/webgpu/wgpu"
)

// FrameUniforms mirrors the uniform block consumed by the GPU rasterizer.
// Field order and the explicit tail padding are part of the layout; never
// reorder or let the compiler insert padding here.
type FrameUniforms struct {
	ViewMat     [16]float32
	Focal       [2]float32
	PixelCenter [2]float32
	ImgSize     [2]uint32
	TileBounds  [2]uint32
	Background  [4]float32
	ShDegree    uint32
	NumPoints   uint32
	Pad         [2]uint32
}

func NewFrameUniforms(f *FrameState) FrameUniforms {
	return FrameUniforms{
		ViewMat:     [16]float32(f.ViewMat),
		Focal:       [2]float32(f.Focal),
		PixelCenter: [2]float32(f.PixelCenter),
		ImgSize:     [2]uint32{f.ImgWidth, f.ImgHeight},
		TileBounds:  [2]uint32{f.TileBoundsX, f.TileBoundsY},
		Background:  [4]float32{f.Background[0], f.Background[1], f.Background[2], 0},
		ShDegree:    f.ShDegree,
		NumPoints:   f.NumPoints,
	}
}

// UploadFrameUniforms writes the frame's uniform block to a GPU buffer.
func UploadFrameUniforms(device *wgpu.Device, frame *FrameState) *wgpu.Buffer {
	buffer, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Frame Uniforms",
		Contents: toBufferBytes(NewFrameUniforms(frame)),
		Usage:    wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return buffer
}

// UploadProjectedSplats uploads the claim-ordered splat records as a storage
// buffer. ProjectedSplat is ten packed float32, so the slice can go to the
// GPU byte for byte.
func UploadProjectedSplats(device *wgpu.Device, splats []ProjectedSplat) *wgpu.Buffer {
	buffer, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Projected Splats",
		Contents: wgpu.ToBytes(splats),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return buffer
}

// UploadPackedVec3 uploads a dense 3-float attribute array (means, scales).
func UploadPackedVec3(device *wgpu.Device, name string, data []PackedVec3) *wgpu.Buffer {
	buffer, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    name,
		Contents: wgpu.ToBytes(data),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return buffer
}

// UploadIntersections uploads the refined (tile, splat) pairs for the
// downstream sort and compositing stages.
func UploadIntersections(device *wgpu.Device, isects []TileIntersection) *wgpu.Buffer {
	buffer, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    "Tile Intersections",
		Contents: wgpu.ToBytes(isects),
		Usage:    wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	return buffer
}

func toBufferBytes(data any) []byte {
	val := reflect.ValueOf(data)
	buf := new(bytes.Buffer)
	readUniformBytes(val, buf)
	return buf.Bytes()
}

func readUniformBytes(field reflect.Value, buf *bytes.Buffer) {
	switch field.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < field.Len(); i++ {
			elem := field.Index(i)
			if elem.Kind() == reflect.Struct {
				readUniformBytes(elem, buf)
			} else {
				if err := binary.Write(buf, binary.LittleEndian, elem.Interface()); err != nil {
					panic(fmt.Errorf("failed to write slice element: %w", err))
				}
			}
		}

	case reflect.Struct:
		for i := 0; i < field.NumField(); i++ {
			readUniformBytes(field.Field(i), buf)
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Int8, reflect.Int16, reflect.Int32,
		reflect.Float32:
		if err := binary.Write(buf, binary.LittleEndian, field.Interface()); err != nil {
			panic(fmt.Errorf("failed to write scalar field: %w", err))
		}

	default:
		panic(fmt.Errorf("unsupported uniform type: %v", field))
	}
}
