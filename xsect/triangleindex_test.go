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

import "testing"

func TestBuildTriangleIndexDedupsPerTriangle(t *testing.T) {
	a := tri(0, 0, 0, 4, 0, 0, 0, 4, 0)
	tol := DefaultTolerances()

	shared, _ := triangleBarycentric(a, RealPoint{1, 1, 0}, tol.PredicateEps)
	otherV0, _ := triangleBarycentric(a, RealPoint{3, 1, 0}, tol.PredicateEps)
	otherV1, _ := triangleBarycentric(a, RealPoint{2, 2, 0}, tol.PredicateEps)

	features := []PairFeature{
		{
			IA: 0, IB: 0, Kind: KindSegment,
			Vertices: []PairVertex{{PairLocalID: 0, BaryOnA: shared}, {PairLocalID: 1, BaryOnA: otherV0}},
			Segments: []PairSegment{{Start: 0, End: 1}},
		},
		{
			IA: 0, IB: 1, Kind: KindSegment,
			Vertices: []PairVertex{{PairLocalID: 0, BaryOnA: shared}, {PairLocalID: 1, BaryOnA: otherV1}},
			Segments: []PairSegment{{Start: 0, End: 1}},
		},
	}

	graph, err := BuildIntersectionGraph(features, []Triangle{a}, tol)
	if err != nil {
		t.Fatalf("BuildIntersectionGraph: %v", err)
	}

	trianglesB := []Triangle{
		tri(1, 1, -2, 1, 1, 2, 3, 1, 0),
		tri(1, 1, -2, 1, 1, 2, 2, 2, 0),
	}
	idx := BuildTriangleIndex(graph, []Triangle{a}, trianglesB, tol)

	onA := idx.OnTriangleA(0)
	if len(onA) != 3 {
		t.Fatalf("OnTriangleA(0) has %d vertices, want 3 (shared vertex deduplicated across both features)", len(onA))
	}
	seen := make(map[IntersectionVertexID]bool)
	for _, v := range onA {
		if seen[v.GlobalID] {
			t.Errorf("OnTriangleA(0) lists global vertex %d more than once", v.GlobalID)
		}
		seen[v.GlobalID] = true
	}
}

func TestBuildTriangleIndexOutOfRange(t *testing.T) {
	a := tri(0, 0, 0, 4, 0, 0, 0, 4, 0)
	tol := DefaultTolerances()
	graph, err := BuildIntersectionGraph(nil, []Triangle{a}, tol)
	if err != nil {
		t.Fatalf("BuildIntersectionGraph: %v", err)
	}
	idx := BuildTriangleIndex(graph, []Triangle{a}, nil, tol)
	if got := idx.OnTriangleA(5); got != nil {
		t.Errorf("OnTriangleA(5) = %v, want nil for out-of-range index", got)
	}
	if got := idx.OnTriangleB(0); got != nil {
		t.Errorf("OnTriangleB(0) = %v, want nil when mesh B has no triangles", got)
	}
}
