package geometry

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
)

var logger = log.New("geometry")

// BVHNode is a node of a bounding volume hierarchy. Interior nodes have two
// children; a leaf holds a single shape in Left and a nil Right.
type BVHNode struct {
	Left  Shape
	Right Shape
	Box   core.AABB
}

// NewBVH builds a hierarchy over shapes for the shutter interval [time0, time1].
// Each node sorts its shapes by box minimum along an axis drawn from rng and
// splits them at the midpoint. The input slice is not modified.
// Every shape must have a bounding box over the interval.
func NewBVH(shapes []Shape, time0, time1 float64, rng *rand.Rand) (*BVHNode, error) {
	if len(shapes) == 0 {
		return nil, ErrNoShapes
	}

	items := make([]bvhItem, len(shapes))
	for i, shape := range shapes {
		box, ok := shape.BoundingBox(time0, time1)
		if !ok {
			return nil, fmt.Errorf("shape %d (%T): %w", i, shape, ErrNoBoundingBox)
		}
		if !box.IsValid() {
			return nil, fmt.Errorf("shape %d (%T) has invalid box %v: %w", i, shape, box, ErrNoBoundingBox)
		}
		items[i] = bvhItem{shape: shape, box: box}
	}

	root := buildBVH(items, rng)

	if log.Enabled(log.Debug) {
		stats := root.Stats()
		logger.Debugf("BVH over %d shapes: %d nodes, %d leaves, max depth %d, avg leaf depth %.1f",
			len(shapes), stats.TotalNodes, stats.LeafNodes, stats.MaxDepth, stats.AvgDepth)
	}

	return root, nil
}

// bvhItem pairs a shape with its box for the shutter interval
type bvhItem struct {
	shape Shape
	box   core.AABB
}

func buildBVH(items []bvhItem, rng *rand.Rand) *BVHNode {
	axis := rng.Intn(3)
	less := func(a, b bvhItem) bool {
		return a.box.Min.Axis(axis) < b.box.Min.Axis(axis)
	}

	switch len(items) {
	case 1:
		return &BVHNode{Left: items[0].shape, Box: items[0].box}
	case 2:
		a, b := items[0], items[1]
		if !less(a, b) {
			a, b = b, a
		}
		return &BVHNode{Left: a.shape, Right: b.shape, Box: core.SurroundingBox(a.box, b.box)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
	mid := len(items) / 2
	left := buildBVH(items[:mid], rng)
	right := buildBVH(items[mid:], rng)
	return &BVHNode{Left: left, Right: right, Box: core.SurroundingBox(left.Box, right.Box)}
}

// IsLeaf reports whether the node wraps a single shape
func (n *BVHNode) IsLeaf() bool {
	return n.Right == nil
}

// Hit tests the node's box, then both children, keeping the nearer hit
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !n.Box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax)
	if n.Right == nil {
		return leftHit, hitLeft
	}

	closestSoFar := tMax
	if hitLeft {
		closestSoFar = leftHit.T
	}
	if rightHit, ok := n.Right.Hit(ray, tMin, closestSoFar); ok {
		return rightHit, true
	}
	return leftHit, hitLeft
}

// BoundingBox returns the box computed at build time
func (n *BVHNode) BoundingBox(time0, time1 float64) (core.AABB, bool) {
	return n.Box, true
}

// PDFValue weights both children equally, matching Random
func (n *BVHNode) PDFValue(origin, direction core.Vec3, time float64) float64 {
	if n.Right == nil {
		return n.Left.PDFValue(origin, direction, time)
	}
	return 0.5*n.Left.PDFValue(origin, direction, time) + 0.5*n.Right.PDFValue(origin, direction, time)
}

// Random samples one of the two children with equal probability
func (n *BVHNode) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	if n.Right == nil || sampler.Get1D() < 0.5 {
		return n.Left.Random(origin, sampler)
	}
	return n.Right.Random(origin, sampler)
}

// BVHStats describes the shape of a built hierarchy
type BVHStats struct {
	TotalNodes  int
	LeafNodes   int
	MaxDepth    int
	AvgDepth    float64
	TotalShapes int
}

// Stats returns statistics about the hierarchy rooted at n
func (n *BVHNode) Stats() BVHStats {
	stats := BVHStats{}
	n.collectStats(0, &stats)
	if stats.LeafNodes > 0 {
		stats.AvgDepth = stats.AvgDepth / float64(stats.LeafNodes)
	}
	return stats
}

func (n *BVHNode) collectStats(depth int, stats *BVHStats) {
	stats.TotalNodes++
	if depth > stats.MaxDepth {
		stats.MaxDepth = depth
	}

	if n.IsLeaf() {
		stats.LeafNodes++
		stats.TotalShapes++
		stats.AvgDepth += float64(depth)
		return
	}

	for _, child := range [2]Shape{n.Left, n.Right} {
		if node, ok := child.(*BVHNode); ok {
			node.collectStats(depth+1, stats)
		} else {
			// shape stored directly under a two-shape node
			stats.TotalNodes++
			stats.LeafNodes++
			stats.TotalShapes++
			stats.AvgDepth += float64(depth + 1)
			if depth+1 > stats.MaxDepth {
				stats.MaxDepth = depth + 1
			}
		}
	}
}
