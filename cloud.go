package splat

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

type AssetId string

// SplatCloud holds the per-gaussian attributes of a scene in struct-of-array
// form, matching how the buffers are laid out for upload. Attributes are
// immutable for the duration of a frame.
type SplatCloud struct {
	Means     []PackedVec3
	Scales    []PackedVec3
	Quats     []mgl32.Quat // components ordered (w, x, y, z)
	Opacities []float32
	Colors    []mgl32.Vec3 // SH DC term; higher orders are opaque to this core
	ShDegree  uint32
}

func (c *SplatCloud) Len() int {
	return len(c.Means)
}

// Validate checks the well-formedness contract the projection math assumes:
// finite values, near-unit quaternions, strictly positive scales and
// opacities in (0, 1]. Beyond the blur floor, the math itself has no guards
// against malformed input.
func (c *SplatCloud) Validate() error {
	n := len(c.Means)
	if len(c.Scales) != n || len(c.Quats) != n || len(c.Opacities) != n || len(c.Colors) != n {
		return fmt.Errorf("splat cloud attribute lengths disagree: means=%d scales=%d quats=%d opacities=%d colors=%d",
			n, len(c.Scales), len(c.Quats), len(c.Opacities), len(c.Colors))
	}
	for i := 0; i < n; i++ {
		if !finiteVec(c.Means[i].Vec3()) {
			return fmt.Errorf("splat %d: non-finite mean", i)
		}
		s := c.Scales[i].Vec3()
		if !finiteVec(s) || s[0] <= 0 || s[1] <= 0 || s[2] <= 0 {
			return fmt.Errorf("splat %d: scale must be positive and finite, got %v", i, s)
		}
		q := c.Quats[i]
		norm := q.W*q.W + q.V[0]*q.V[0] + q.V[1]*q.V[1] + q.V[2]*q.V[2]
		if math.IsNaN(float64(norm)) || mgl32.Abs(norm-1) > 1e-3 {
			return fmt.Errorf("splat %d: quaternion is not normalized (|q|^2=%v)", i, norm)
		}
		op := c.Opacities[i]
		if !(op > 0 && op <= 1) {
			return fmt.Errorf("splat %d: opacity %v outside (0, 1]", i, op)
		}
	}
	return nil
}

func finiteVec(v mgl32.Vec3) bool {
	for _, f := range v {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return false
		}
	}
	return true
}

// CloudServer owns loaded splat clouds, keyed like any other asset.
type CloudServer struct {
	clouds map[AssetId]*SplatCloud
}

func NewCloudServer() *CloudServer {
	return &CloudServer{
		clouds: make(map[AssetId]*SplatCloud),
	}
}

// LoadCloud validates and registers a cloud, returning its asset id.
func (s *CloudServer) LoadCloud(cloud *SplatCloud) (AssetId, error) {
	if err := cloud.Validate(); err != nil {
		return "", err
	}
	id := makeAssetId()
	s.clouds[id] = cloud
	return id, nil
}

func (s *CloudServer) Cloud(id AssetId) (*SplatCloud, bool) {
	c, ok := s.clouds[id]
	return c, ok
}

func makeAssetId() AssetId {
	return AssetId(uuid.NewString())
}

// NumShCoeffs returns the number of spherical-harmonics bases per channel
// for a degree.
func NumShCoeffs(degree uint32) uint32 {
	return (degree + 1) * (degree + 1)
}

// ShDegreeFromCoeffs is the inverse of NumShCoeffs for the supported
// degrees.
func ShDegreeFromCoeffs(coeffsPerChannel uint32) uint32 {
	switch coeffsPerChannel {
	case 1:
		return 0
	case 4:
		return 1
	case 9:
		return 2
	case 16:
		return 3
	case 25:
		return 4
	default:
		panic(fmt.Sprintf("invalid nr. of sh bases %d", coeffsPerChannel))
	}
}
