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

func TestBuildPairFeaturesSegment(t *testing.T) {
	a := tri(0, 0, 0, 4, 0, 0, 0, 4, 0)
	b := tri(1, 1, -2, 1, 1, 2, 3, 1, 0)
	tol := DefaultTolerances()

	pairs := PairSet{Pairs: []PairIntersection{{IA: 0, IB: 0, Kind: KindSegment}}}
	features, _, err := BuildPairFeatures(pairs, []Triangle{a}, []Triangle{b}, tol)
	if err != nil {
		t.Fatalf("BuildPairFeatures: %v", err)
	}
	if len(features) != 1 {
		t.Fatalf("got %d features, want 1", len(features))
	}
	f := features[0]
	if f.Kind != KindSegment {
		t.Fatalf("feature.Kind = %v, want Segment", f.Kind)
	}
	if len(f.Vertices) < 2 {
		t.Fatalf("feature.Vertices = %v, want at least 2", f.Vertices)
	}
	if len(f.Segments) != 1 {
		t.Fatalf("feature.Segments = %v, want exactly 1", f.Segments)
	}
	seg := f.Segments[0]
	p0 := a.Evaluate(f.Vertices[seg.Start].BaryOnA)
	p1 := a.Evaluate(f.Vertices[seg.End].BaryOnA)
	gotLen := p0.DistSq(p1)
	wantLen := 4.0 // (1,1,0) to (3,1,0)
	if diff := gotLen - wantLen; diff > 1e-6 || diff < -1e-6 {
		t.Errorf("segment length^2 = %v, want %v", gotLen, wantLen)
	}
}

func TestBuildPairFeaturesArea(t *testing.T) {
	a := tri(0, 0, 0, 4, 0, 0, 0, 4, 0)
	b := tri(1, 1, 0, 5, 1, 0, 1, 5, 0)
	tol := DefaultTolerances()

	pairs := PairSet{Pairs: []PairIntersection{{IA: 0, IB: 0, Kind: KindArea}}}
	features, _, err := BuildPairFeatures(pairs, []Triangle{a}, []Triangle{b}, tol)
	if err != nil {
		t.Fatalf("BuildPairFeatures: %v", err)
	}
	f := features[0]
	if f.Kind != KindArea {
		t.Fatalf("feature.Kind = %v, want Area", f.Kind)
	}
	if len(f.Vertices) < 3 {
		t.Fatalf("feature.Vertices = %v, want at least 3 for an area overlap", f.Vertices)
	}
	if len(f.Segments) != len(f.Vertices) {
		t.Fatalf("feature.Segments = %d, want %d (one per edge of a closed loop)", len(f.Segments), len(f.Vertices))
	}
	// Every vertex must appear as exactly one segment's Start and one
	// segment's End, forming a single closed ring.
	startCount := make(map[int]int)
	endCount := make(map[int]int)
	for _, seg := range f.Segments {
		startCount[seg.Start]++
		endCount[seg.End]++
	}
	for i := range f.Vertices {
		if startCount[i] != 1 || endCount[i] != 1 {
			t.Errorf("vertex %d participates in %d starts and %d ends, want 1 and 1", i, startCount[i], endCount[i])
		}
	}
}

func TestBuildPairFeaturesSkipsNone(t *testing.T) {
	a := tri(0, 0, 0, 4, 0, 0, 0, 4, 0)
	b := tri(100, 0, 0, 104, 0, 0, 100, 4, 0)
	pairs := PairSet{Pairs: []PairIntersection{{IA: 0, IB: 0, Kind: KindNone}}}
	features, _, err := BuildPairFeatures(pairs, []Triangle{a}, []Triangle{b}, DefaultTolerances())
	if err != nil {
		t.Fatalf("BuildPairFeatures: %v", err)
	}
	if len(features) != 0 {
		t.Errorf("BuildPairFeatures(None) = %v, want no features", features)
	}
}

func TestDegradeKindArea(t *testing.T) {
	one := []sample{{world: RealPoint{1, 1, 1}}}
	two := []sample{{world: RealPoint{0, 0, 0}}, {world: RealPoint{1, 0, 0}}}
	three := []sample{{world: RealPoint{0, 0, 0}}, {world: RealPoint{1, 0, 0}}, {world: RealPoint{0, 1, 0}}}

	if kind, _, degraded := degradeKind(KindArea, three); kind != KindArea || degraded {
		t.Errorf("degradeKind(Area, 3 samples) = (%v, degraded=%v), want (Area, false)", kind, degraded)
	}
	if kind, _, degraded := degradeKind(KindArea, two); kind != KindSegment || !degraded {
		t.Errorf("degradeKind(Area, 2 samples) = (%v, degraded=%v), want (Segment, true)", kind, degraded)
	}
	if kind, _, degraded := degradeKind(KindArea, one); kind != KindPoint || !degraded {
		t.Errorf("degradeKind(Area, 1 sample) = (%v, degraded=%v), want (Point, true)", kind, degraded)
	}
	if kind, _, degraded := degradeKind(KindArea, nil); kind != KindNone || !degraded {
		t.Errorf("degradeKind(Area, 0 samples) = (%v, degraded=%v), want (None, true)", kind, degraded)
	}
}

func TestDegradeKindSegment(t *testing.T) {
	one := []sample{{world: RealPoint{1, 1, 1}}}
	if kind, _, degraded := degradeKind(KindSegment, one); kind != KindPoint || !degraded {
		t.Errorf("degradeKind(Segment, 1 sample) = (%v, degraded=%v), want (Point, true)", kind, degraded)
	}
}
