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

import (
	"sort"
	"testing"
)

func TestBroadPhaseIndexQueryFindsOverlapping(t *testing.T) {
	triangles := []Triangle{
		tri(0, 0, 0, 1, 0, 0, 0, 1, 0),   // near origin
		tri(10, 0, 0, 11, 0, 0, 10, 1, 0), // far away on X
		tri(0, 10, 0, 1, 10, 0, 0, 11, 0), // far away on Y
	}
	idx := NewBroadPhaseIndex(triangles)

	got := idx.Query(boxFromTriangle(triangles[0]))
	sort.Ints(got)
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("Query near origin = %v, want [0]", got)
	}
}

func TestBroadPhaseIndexQueryEmpty(t *testing.T) {
	idx := NewBroadPhaseIndex(nil)
	got := idx.Query(box{MinX: -1, MinY: -1, MinZ: -1, MaxX: 1, MaxY: 1, MaxZ: 1})
	if len(got) != 0 {
		t.Fatalf("Query on empty index = %v, want none", got)
	}
}

func TestBroadPhaseIndexManyLeaves(t *testing.T) {
	// More triangles than bvhLeafSize, spread out so the tree must split at
	// least once, exercising the internal-node path of Query.
	var triangles []Triangle
	for i := int64(0); i < 40; i++ {
		triangles = append(triangles, tri(i*10, 0, 0, i*10+1, 0, 0, i*10, 1, 0))
	}
	idx := NewBroadPhaseIndex(triangles)

	for i, want := range triangles {
		got := idx.Query(boxFromTriangle(want))
		found := false
		for _, g := range got {
			if g == i {
				found = true
			}
		}
		if !found {
			t.Errorf("Query for triangle %d's own box didn't return itself: %v", i, got)
		}
	}
}

func TestBoxesOverlapTouching(t *testing.T) {
	a := box{MinX: 0, MinY: 0, MinZ: 0, MaxX: 1, MaxY: 1, MaxZ: 1}
	b := box{MinX: 1, MinY: 0, MinZ: 0, MaxX: 2, MaxY: 1, MaxZ: 1}
	if !boxesOverlap(a, b) {
		t.Error("boxesOverlap should count touching faces as overlapping")
	}
}

func TestBoxesOverlapDisjoint(t *testing.T) {
	a := box{MinX: 0, MinY: 0, MinZ: 0, MaxX: 1, MaxY: 1, MaxZ: 1}
	b := box{MinX: 2, MinY: 0, MinZ: 0, MaxX: 3, MaxY: 1, MaxZ: 1}
	if boxesOverlap(a, b) {
		t.Error("boxesOverlap should be false for disjoint boxes")
	}
}

func TestBatchBoxOverlapMatchesScalar(t *testing.T) {
	q := box{MinX: 0, MinY: 0, MinZ: 0, MaxX: 2, MaxY: 2, MaxZ: 2}
	boxes := []box{
		{MinX: 1, MinY: 1, MinZ: 1, MaxX: 3, MaxY: 3, MaxZ: 3}, // overlaps
		{MinX: 5, MinY: 5, MinZ: 5, MaxX: 6, MaxY: 6, MaxZ: 6}, // disjoint
		{MinX: -1, MinY: -1, MinZ: -1, MaxX: 0, MaxY: 0, MaxZ: 0}, // touches
	}
	n := len(boxes)
	minX, minY, minZ := make([]float64, n), make([]float64, n), make([]float64, n)
	maxX, maxY, maxZ := make([]float64, n), make([]float64, n), make([]float64, n)
	for i, b := range boxes {
		minX[i], minY[i], minZ[i] = b.MinX, b.MinY, b.MinZ
		maxX[i], maxY[i], maxZ[i] = b.MaxX, b.MaxY, b.MaxZ
	}
	out := make([]float64, n)
	batchBoxOverlap(minX, minY, minZ, maxX, maxY, maxZ, q, out)

	for i, b := range boxes {
		want := boxesOverlap(b, q)
		got := out[i] != 0
		if got != want {
			t.Errorf("batchBoxOverlap[%d] = %v, want %v", i, got, want)
		}
	}
}
