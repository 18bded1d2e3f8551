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

import "fmt"

// BuildPairFeatures produces, for each classified pair, the local set of
// PairVertices (in both triangles' barycentric coordinates) and the
// PairSegments connecting them.
func BuildPairFeatures(pairs PairSet, trianglesA, trianglesB []Triangle, tol Tolerances) ([]PairFeature, Diagnostics, error) {
	if err := tol.Validate(); err != nil {
		return nil, Diagnostics{}, err
	}
	if len(trianglesA) == 0 || len(trianglesB) == 0 {
		return nil, Diagnostics{}, fmt.Errorf("xsect: BuildPairFeatures requires non-empty triangle slices")
	}

	diag := pairs.Diagnostics
	features := make([]PairFeature, 0, len(pairs.Pairs))
	for _, p := range pairs.Pairs {
		if p.Kind == KindNone {
			continue
		}
		a, b := trianglesA[p.IA], trianglesB[p.IB]
		feature, d := buildOneFeature(p, a, b, tol)
		diag.Merge(d)
		features = append(features, feature)
	}
	return features, diag, nil
}

// buildOneFeature extracts the vertex/segment set for a single pair.
func buildOneFeature(p PairIntersection, a, b Triangle, tol Tolerances) (PairFeature, Diagnostics) {
	var samples []sample
	var diag Diagnostics

	if isCoplanarPair(a, b, tol) {
		samples, diag = coplanarFeatureSamples(a, b, tol)
	} else {
		samples, diag = nonCoplanarFeatureSamples(a, b, tol)
	}

	kind, samples, degraded := degradeKind(p.Kind, samples)
	if degraded {
		diag.PairGeometryInconsistent++
	}

	feature := PairFeature{IA: p.IA, IB: p.IB, Kind: kind}
	switch kind {
	case KindNone:
		// Nothing to emit; classification and features disagree only
		// under pathological degenerate input.
	case KindPoint:
		if len(samples) > 0 {
			feature.Vertices = []PairVertex{toPairVertex(0, samples[0])}
		}
	case KindSegment:
		feature.Vertices, feature.Segments = segmentFeature(samples)
	case KindArea:
		feature.Vertices, feature.Segments = areaFeature(samples, a, tol)
	}

	return feature, diag
}

// sample is one intersection candidate carried with both its world
// position and its barycentric coordinates on A and B, computed once and
// reused whether the final kind turns out to be Point, Segment, or Area.
type sample struct {
	world RealPoint
	baryA Barycentric
	baryB Barycentric
}

func toPairVertex(localID int, s sample) PairVertex {
	return PairVertex{PairLocalID: localID, BaryOnA: s.baryA, BaryOnB: s.baryB}
}

func isCoplanarPair(a, b Triangle, tol Tolerances) bool {
	eps := tol.PredicateEps
	vb := b.Verts()
	for _, p := range vb {
		if d := planeSide(p, a.Verts()[0], a.Normal); d > eps || d < -eps {
			return false
		}
	}
	return true
}

// nonCoplanarFeatureSamples recomputes the non-coplanar candidate
// points (this time keeping world positions instead of just counting
// them) and attaches barycentric coordinates on both triangles.
func nonCoplanarFeatureSamples(a, b Triangle, tol Tolerances) ([]sample, Diagnostics) {
	va, vb := a.Verts(), b.Verts()
	eps := tol.PredicateEps

	distA := make([]float64, 3)
	distB := make([]float64, 3)
	axs, ays, azs := []float64{va[0].X, va[1].X, va[2].X}, []float64{va[0].Y, va[1].Y, va[2].Y}, []float64{va[0].Z, va[1].Z, va[2].Z}
	bxs, bys, bzs := []float64{vb[0].X, vb[1].X, vb[2].X}, []float64{vb[0].Y, vb[1].Y, vb[2].Y}, []float64{vb[0].Z, vb[1].Z, vb[2].Z}
	batchPlaneSide(axs, ays, azs, vb[0], b.Normal, distA)
	batchPlaneSide(bxs, bys, bzs, va[0], a.Normal, distB)

	pts := collectNonCoplanarSamples(a, b, distA, distB, tol)
	return samplesFromWorldPoints(pts, a, b, tol, eps)
}

func coplanarFeatureSamples(a, b Triangle, tol Tolerances) ([]sample, Diagnostics) {
	pts2D := collectCoplanarSamples2D(a, b, tol)
	axis := dropAxis(a.Normal)
	world := make([]RealPoint, len(pts2D))
	for i, p := range pts2D {
		world[i] = unproject2D(p, a, axis)
	}
	world = dedupPoints(world, tol.WorldDedupEpsSq)
	return samplesFromWorldPoints(world, a, b, tol, tol.PredicateEps)
}

func samplesFromWorldPoints(pts []RealPoint, a, b Triangle, tol Tolerances, eps float64) ([]sample, Diagnostics) {
	var diag Diagnostics
	var out []sample
	for _, p := range pts {
		baryA, okA := triangleBarycentric(a, p, eps)
		baryB, okB := triangleBarycentric(b, p, eps)
		if !okA || !okB {
			diag.DegenerateBarycentric++
			continue
		}
		out = append(out, sample{world: p, baryA: baryA, baryB: baryB})
	}
	return out, diag
}

// degradeKind applies the "fewer unique points than the kind implies"
// degradation rule: Segment→Point, Area→Segment→Point, recording
// whether a degradation actually happened.
func degradeKind(kind IntersectionKind, samples []sample) (IntersectionKind, []sample, bool) {
	switch kind {
	case KindArea:
		if len(samples) >= 3 {
			return KindArea, samples, false
		}
		if len(samples) == 2 {
			return KindSegment, samples, true
		}
		if len(samples) == 1 {
			return KindPoint, samples, true
		}
		return KindNone, samples, true
	case KindSegment:
		if len(samples) >= 2 {
			return KindSegment, samples, false
		}
		if len(samples) == 1 {
			return KindPoint, samples, true
		}
		return KindNone, samples, true
	case KindPoint:
		if len(samples) >= 1 {
			return KindPoint, samples, false
		}
		return KindNone, samples, true
	default:
		return KindNone, samples, false
	}
}

// segmentFeature picks the two farthest-apart samples as the segment
// endpoints. Any remaining samples are still emitted as PairVertices but
// are not connected by a segment.
func segmentFeature(samples []sample) ([]PairVertex, []PairSegment) {
	if len(samples) < 2 {
		if len(samples) == 1 {
			return []PairVertex{toPairVertex(0, samples[0])}, nil
		}
		return nil, nil
	}

	bi, bj, maxD := 0, 1, -1.0
	for i := 0; i < len(samples); i++ {
		for j := i + 1; j < len(samples); j++ {
			if d := samples[i].world.DistSq(samples[j].world); d > maxD {
				maxD, bi, bj = d, i, j
			}
		}
	}

	vertices := make([]PairVertex, len(samples))
	for i, s := range samples {
		vertices[i] = toPairVertex(i, s)
	}
	return vertices, []PairSegment{{Start: bi, End: bj}}
}

// areaFeature orders the coplanar overlap's candidate points by polar
// angle around their centroid (the overlap of two triangles is convex)
// and connects consecutive points, last→first, into a closed polygon
// loop.
func areaFeature(samples []sample, a Triangle, tol Tolerances) ([]PairVertex, []PairSegment) {
	if len(samples) == 0 {
		return nil, nil
	}
	axis := dropAxis(a.Normal)
	pts2D := make([]point2D, len(samples))
	for i, s := range samples {
		x, y := project2D(s.world, axis)
		pts2D[i] = point2D{x, y}
	}
	order := polarAngleSort(pts2D)

	vertices := make([]PairVertex, len(order))
	for newID, oldID := range order {
		vertices[newID] = toPairVertex(newID, samples[oldID])
	}
	n := len(vertices)
	segments := make([]PairSegment, n)
	for i := 0; i < n; i++ {
		segments[i] = PairSegment{Start: i, End: (i + 1) % n}
	}
	return vertices, segments
}
