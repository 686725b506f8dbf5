package splat

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplatCloud_Validate(t *testing.T) {
	cloud := testCloud(2)
	require.NoError(t, cloud.Validate())

	bad := testCloud(2)
	bad.Scales = bad.Scales[:1]
	assert.ErrorContains(t, bad.Validate(), "lengths disagree")

	bad = testCloud(2)
	bad.Means[1] = PackedVec3{float32(inf()), 0, 0}
	assert.ErrorContains(t, bad.Validate(), "non-finite mean")

	bad = testCloud(2)
	bad.Scales[0] = PackedVec3{-0.1, 0.1, 0.1}
	assert.ErrorContains(t, bad.Validate(), "scale must be positive")

	bad = testCloud(2)
	bad.Quats[1] = mgl32.Quat{W: 2, V: mgl32.Vec3{0, 0, 0}}
	assert.ErrorContains(t, bad.Validate(), "not normalized")

	bad = testCloud(2)
	bad.Opacities[0] = 0
	assert.ErrorContains(t, bad.Validate(), "opacity")

	bad = testCloud(2)
	bad.Opacities[0] = 1.5
	assert.ErrorContains(t, bad.Validate(), "opacity")
}

func inf() float64 {
	var zero float64
	return 1 / zero
}

func TestCloudServer(t *testing.T) {
	server := NewCloudServer()

	id1, err := server.LoadCloud(testCloud(4))
	require.NoError(t, err)
	id2, err := server.LoadCloud(testCloud(8))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	c, ok := server.Cloud(id1)
	require.True(t, ok)
	assert.Equal(t, 4, c.Len())

	_, ok = server.Cloud(AssetId("missing"))
	assert.False(t, ok)

	bad := testCloud(1)
	bad.Opacities[0] = -1
	_, err = server.LoadCloud(bad)
	assert.Error(t, err)
}

func TestShCoeffs(t *testing.T) {
	assert.Equal(t, uint32(1), NumShCoeffs(0))
	assert.Equal(t, uint32(4), NumShCoeffs(1))
	assert.Equal(t, uint32(25), NumShCoeffs(4))

	for degree := uint32(0); degree <= 4; degree++ {
		assert.Equal(t, degree, ShDegreeFromCoeffs(NumShCoeffs(degree)))
	}
	assert.Panics(t, func() { ShDegreeFromCoeffs(7) })
}
