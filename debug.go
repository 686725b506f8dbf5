package splat

import (
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// TileDepthImage renders the number of splats binned into each tile as a
// grayscale image, one pixel per tile, normalized to the busiest tile.
func TileDepthImage(frame *FrameState, isects []TileIntersection) *image.Gray {
	w := int(frame.TileBoundsX)
	h := int(frame.TileBoundsY)
	counts := make([]uint32, w*h)
	var maxCount uint32
	for _, is := range isects {
		counts[is.TileID]++
		if counts[is.TileID] > maxCount {
			maxCount = counts[is.TileID]
		}
	}

	img := image.NewGray(image.Rect(0, 0, w, h))
	if maxCount == 0 {
		return img
	}
	for i, c := range counts {
		img.Pix[i] = uint8(c * 255 / maxCount)
	}
	return img
}

// WriteTileDepthPNG upscales the tile-depth map to image resolution and
// writes it out, for eyeballing binning behavior.
func WriteTileDepthPNG(filename string, frame *FrameState, isects []TileIntersection) error {
	small := TileDepthImage(frame, isects)
	full := image.NewGray(image.Rect(0, 0, int(frame.ImgWidth), int(frame.ImgHeight)))
	draw.NearestNeighbor.Scale(full, full.Bounds(), small, small.Bounds(), draw.Src, nil)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, full)
}
