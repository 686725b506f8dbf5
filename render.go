package splat

import (
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// ProjectionResult holds the per-splat outputs of the projection pass.
// Slices are indexed by claim order (compact id) and valid up to the frame's
// NumVisible; entries past that are untouched.
type ProjectionResult struct {
	Splats      []ProjectedSplat
	Depths      []float32
	Radii       []uint32
	TileBboxes  []TileBbox
	NumTilesHit []uint32
	// GlobalFromCompact maps a claim-order slot back to the gaussian index
	// in the source cloud.
	GlobalFromCompact []uint32
}

// TileIntersection pairs a tile with a splat that can contribute to it.
// SplatID is a claim-order id into ProjectionResult. Ordering members within
// a tile for compositing is the downstream sorter's job.
type TileIntersection struct {
	TileID  uint32
	SplatID uint32
}

// ProjectSplats runs the projection pass: workers take BatchSize gaussians
// each and run independently, completing in any order. Visible splats claim
// output slots through the frame's atomic counter. When this returns every
// worker has finished, which is the synchronization boundary after which
// NumVisible and the result slices are stable.
func ProjectSplats(frame *FrameState, cloud *SplatCloud, log Logger) *ProjectionResult {
	start := time.Now()
	n := cloud.Len()
	res := &ProjectionResult{
		Splats:            make([]ProjectedSplat, n),
		Depths:            make([]float32, n),
		Radii:             make([]uint32, n),
		TileBboxes:        make([]TileBbox, n),
		NumTilesHit:       make([]uint32, n),
		GlobalFromCompact: make([]uint32, n),
	}
	frame.Reset()

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += BatchSize {
		hi := min(lo+BatchSize, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for gid := lo; gid < hi; gid++ {
				out, depth, radius, bbox, ok := projectOne(frame,
					cloud.Means[gid].Vec3(), cloud.Scales[gid].Vec3(),
					cloud.Quats[gid], cloud.Opacities[gid], cloud.Colors[gid])
				if !ok {
					continue
				}
				slot := frame.claimSlot()
				res.Splats[slot] = out
				res.Depths[slot] = depth
				res.Radii[slot] = radius
				res.TileBboxes[slot] = bbox
				res.NumTilesHit[slot] = bbox.Area()
				res.GlobalFromCompact[slot] = uint32(gid)
			}
		}(lo, hi)
	}
	wg.Wait()

	if log != nil && log.DebugEnabled() {
		log.Debugf("projected %d of %d splats in %v", frame.NumVisible(), n, time.Since(start))
	}
	return res
}

// MapIntersections refines the coarse tile boxes from the projection pass
// into exact (tile, splat) pairs using the isocontour test. Every
// (splat, tile) check is independent and side-effect free; workers write
// into disjoint scratch regions sized by a prefix sum of the coarse counts,
// and the shared result is compacted afterwards.
func MapIntersections(frame *FrameState, res *ProjectionResult, log Logger) []TileIntersection {
	start := time.Now()
	numVisible := int(frame.NumVisible())

	// Exclusive prefix sum of the coarse tile counts gives each splat its
	// region in the scratch buffer.
	offsets := make([]uint32, numVisible+1)
	for i := 0; i < numVisible; i++ {
		offsets[i+1] = offsets[i] + res.NumTilesHit[i]
	}
	scratch := make([]TileIntersection, offsets[numVisible])
	counts := make([]uint32, numVisible)

	var wg sync.WaitGroup
	for lo := 0; lo < numVisible; lo += BatchSize {
		hi := min(lo+BatchSize, numVisible)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for sid := lo; sid < hi; sid++ {
				sp := res.Splats[sid]
				conic := mgl32.Vec3{sp.ConicComp[0], sp.ConicComp[1], sp.ConicComp[2]}
				alpha := sp.Color[3]
				bbox := res.TileBboxes[sid]
				k := offsets[sid]
				for ty := bbox.MinY; ty < bbox.MaxY; ty++ {
					for tx := bbox.MinX; tx < bbox.MaxX; tx++ {
						if !canBeVisible(tx, ty, sp.Xy, conic, alpha) {
							continue
						}
						scratch[k] = TileIntersection{
							TileID:  ty*frame.TileBoundsX + tx,
							SplatID: uint32(sid),
						}
						k++
					}
				}
				counts[sid] = k - offsets[sid]
			}
		}(lo, hi)
	}
	wg.Wait()

	var total uint32
	for _, c := range counts {
		total += c
	}
	isects := make([]TileIntersection, 0, total)
	for sid := 0; sid < numVisible; sid++ {
		isects = append(isects, scratch[offsets[sid]:offsets[sid]+counts[sid]]...)
	}

	if log != nil && log.DebugEnabled() {
		log.Debugf("binned %d intersections (%d coarse) for %d splats in %v",
			total, offsets[numVisible], numVisible, time.Since(start))
	}
	return isects
}
