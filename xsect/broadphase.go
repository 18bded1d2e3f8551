// Copyright 2023 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS-IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package xsect

import "sort"

const bvhLeafSize = 8

// bvhNode is one node of the flat BVH array. Leaves store a slice of
// triangle indices directly; internal nodes store child offsets into the
// same array.
type bvhNode struct {
	bounds   box
	left     int32 // -1 if leaf
	right    int32
	leafTris []int32
}

// BroadPhaseIndex is a binary bounding-volume hierarchy over one triangle
// sequence. Built once from an immutable slice; Query is read-only and
// safe to call concurrently from multiple goroutines once
// NewBroadPhaseIndex returns.
type BroadPhaseIndex struct {
	triangles []Triangle
	nodes     []bvhNode
	root      int32
}

// NewBroadPhaseIndex builds a BVH over triangles: triangles are sorted
// into leaves of at most bvhLeafSize by repeatedly splitting on the axis
// of largest extent at the median centroid. Each level fully sorts its
// triangles by centroid to find the median, so construction is
// O(n log² n), not O(n log n).
func NewBroadPhaseIndex(triangles []Triangle) *BroadPhaseIndex {
	idx := &BroadPhaseIndex{triangles: triangles}
	if len(triangles) == 0 {
		return idx
	}

	order := make([]int32, len(triangles))
	boxes := make([]box, len(triangles))
	centroids := make([]RealPoint, len(triangles))
	for i, t := range triangles {
		order[i] = int32(i)
		boxes[i] = boxFromTriangle(t)
		v := t.Verts()
		centroids[i] = v[0].Add(v[1]).Add(v[2]).Scale(1.0 / 3.0)
	}

	idx.root = idx.build(order, boxes, centroids)
	return idx
}

// build recursively partitions tris (triangle indices) and returns the
// index of the node it allocated in idx.nodes.
func (idx *BroadPhaseIndex) build(tris []int32, boxes []box, centroids []RealPoint) int32 {
	bounds := boxes[0]
	for _, b := range boxes[1:] {
		bounds = boxUnion(bounds, b)
	}

	if len(tris) <= bvhLeafSize {
		idx.nodes = append(idx.nodes, bvhNode{bounds: bounds, left: -1, right: -1, leafTris: append([]int32(nil), tris...)})
		return int32(len(idx.nodes) - 1)
	}

	axis := longestAxis(bounds)
	order := make([]int, len(tris))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return axisValue(centroids[order[a]], axis) < axisValue(centroids[order[b]], axis)
	})

	mid := len(order) / 2
	leftTris := make([]int32, mid)
	leftBoxes := make([]box, mid)
	leftCentroids := make([]RealPoint, mid)
	rightTris := make([]int32, len(order)-mid)
	rightBoxes := make([]box, len(order)-mid)
	rightCentroids := make([]RealPoint, len(order)-mid)

	for i, o := range order {
		if i < mid {
			leftTris[i] = tris[o]
			leftBoxes[i] = boxes[o]
			leftCentroids[i] = centroids[o]
		} else {
			rightTris[i-mid] = tris[o]
			rightBoxes[i-mid] = boxes[o]
			rightCentroids[i-mid] = centroids[o]
		}
	}

	// Reserve this node's slot before recursing so left/right offsets are
	// known once both subtrees are built.
	selfIdx := int32(len(idx.nodes))
	idx.nodes = append(idx.nodes, bvhNode{bounds: bounds})

	left := idx.build(leftTris, leftBoxes, leftCentroids)
	right := idx.build(rightTris, rightBoxes, rightCentroids)

	idx.nodes[selfIdx].left = left
	idx.nodes[selfIdx].right = right
	return selfIdx
}

func longestAxis(b box) int {
	dx, dy, dz := b.MaxX-b.MinX, b.MaxY-b.MinY, b.MaxZ-b.MinZ
	if dx >= dy && dx >= dz {
		return 0
	}
	if dy >= dz {
		return 1
	}
	return 2
}

func axisValue(p RealPoint, axis int) float64 {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

// Query returns every triangle index whose bounding box intersects q.
// Touching counts as intersecting. Safe to call concurrently.
func (idx *BroadPhaseIndex) Query(q box) []int {
	if len(idx.nodes) == 0 {
		return nil
	}
	var out []int
	idx.queryNode(idx.root, q, &out)
	return out
}

func (idx *BroadPhaseIndex) queryNode(nodeIdx int32, q box, out *[]int) {
	n := &idx.nodes[nodeIdx]
	if !boxesOverlap(n.bounds, q) {
		return
	}
	if n.left == -1 {
		idx.queryLeaf(n, q, out)
		return
	}
	idx.queryNode(n.left, q, out)
	idx.queryNode(n.right, q, out)
}

// queryLeaf refines a leaf's candidate triangles against q using the
// batched AABB-overlap kernel (bounds_hwy.go) instead of a scalar loop.
func (idx *BroadPhaseIndex) queryLeaf(n *bvhNode, q box, out *[]int) {
	m := len(n.leafTris)
	minX, minY, minZ := make([]float64, m), make([]float64, m), make([]float64, m)
	maxX, maxY, maxZ := make([]float64, m), make([]float64, m), make([]float64, m)
	for i, ti := range n.leafTris {
		b := boxFromTriangle(idx.triangles[ti])
		minX[i], minY[i], minZ[i] = b.MinX, b.MinY, b.MinZ
		maxX[i], maxY[i], maxZ[i] = b.MaxX, b.MaxY, b.MaxZ
	}
	hits := make([]float64, m)
	batchBoxOverlap(minX, minY, minZ, maxX, maxY, maxZ, q, hits)
	for i, h := range hits {
		if h != 0 {
			*out = append(*out, int(n.leafTris[i]))
		}
	}
}
