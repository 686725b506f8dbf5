package splat

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTileDepthImage(t *testing.T) {
	frame := testFrame(0)
	isects := []TileIntersection{
		{TileID: 0, SplatID: 0},
		{TileID: 0, SplatID: 1},
		{TileID: 41, SplatID: 0},
	}

	img := TileDepthImage(frame, isects)
	assert.Equal(t, int(frame.TileBoundsX), img.Bounds().Dx())
	assert.Equal(t, int(frame.TileBoundsY), img.Bounds().Dy())
	assert.Equal(t, uint8(255), img.Pix[0])
	assert.Equal(t, uint8(127), img.Pix[41])
	assert.Equal(t, uint8(0), img.Pix[1])
}

func TestWriteTileDepthPNG(t *testing.T) {
	frame := testFrame(0)
	isects := []TileIntersection{{TileID: 5, SplatID: 0}}
	path := filepath.Join(t.TempDir(), "tiles.png")

	require.NoError(t, WriteTileDepthPNG(path, frame, isects))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, int(frame.ImgWidth), img.Bounds().Dx())
	assert.Equal(t, int(frame.ImgHeight), img.Bounds().Dy())
}
