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
	"fmt"
	"sort"
	"sync"
)

// ClassifyPairs classifies every candidate pair: for each triangle of A,
// query a BroadPhaseIndex built over B and classify the candidates. The
// returned PairSet is ordered by (IA, IB): A in index order, with each
// A-triangle's B candidates sorted ascending. Every downstream stage
// depends on this order being deterministic.
func ClassifyPairs(trianglesA, trianglesB []Triangle, tol Tolerances) (PairSet, error) {
	if err := tol.Validate(); err != nil {
		return PairSet{}, err
	}
	if len(trianglesA) == 0 || len(trianglesB) == 0 {
		return PairSet{}, fmt.Errorf("xsect: ClassifyPairs requires non-empty triangle slices, got %d and %d", len(trianglesA), len(trianglesB))
	}

	indexB := NewBroadPhaseIndex(trianglesB)
	var diag Diagnostics
	var pairs []PairIntersection

	for ia, ta := range trianglesA {
		if isZeroArea(ta, tol.PredicateEps) {
			diag.DegenerateTriangle++
			continue
		}
		candidates := indexB.Query(boxFromTriangle(ta))
		sort.Ints(candidates)
		for _, ib := range candidates {
			tb := trianglesB[ib]
			if isZeroArea(tb, tol.PredicateEps) {
				continue // counted once, below, independent of A-candidate hits
			}
			kind := classifyPair(ta, tb, tol)
			if kind != KindNone {
				pairs = append(pairs, PairIntersection{IA: ia, IB: ib, Kind: kind})
			}
		}
	}

	// Count degenerate B triangles exactly once, independent of how many
	// A-candidates happened to hit them.
	for _, tb := range trianglesB {
		if isZeroArea(tb, tol.PredicateEps) {
			diag.DegenerateTriangle++
		}
	}

	return PairSet{Pairs: pairs, Diagnostics: diag}, nil
}

// ClassifyPairsConcurrent is a safe optimization: the outer loop
// over triangles of A is independent, so it can run on a bounded worker
// pool. Results are merged and re-sorted by (IA, IB) before returning,
// which is required for determinism since goroutines complete out of
// order. Kept separate from ClassifyPairs so every test target the
// single-threaded, trivially-deterministic path by default.
func ClassifyPairsConcurrent(trianglesA, trianglesB []Triangle, tol Tolerances, workers int) (PairSet, error) {
	if err := tol.Validate(); err != nil {
		return PairSet{}, err
	}
	if len(trianglesA) == 0 || len(trianglesB) == 0 {
		return PairSet{}, fmt.Errorf("xsect: ClassifyPairsConcurrent requires non-empty triangle slices, got %d and %d", len(trianglesA), len(trianglesB))
	}
	if workers < 1 {
		workers = 1
	}

	indexB := NewBroadPhaseIndex(trianglesB)

	type partial struct {
		pairs []PairIntersection
		diag  Diagnostics
	}
	results := make([]partial, len(trianglesA))

	jobs := make(chan int, len(trianglesA))
	for ia := range trianglesA {
		jobs <- ia
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ia := range jobs {
				ta := trianglesA[ia]
				var p partial
				if isZeroArea(ta, tol.PredicateEps) {
					p.diag.DegenerateTriangle++
					results[ia] = p
					continue
				}
				candidates := indexB.Query(boxFromTriangle(ta))
				sort.Ints(candidates)
				for _, ib := range candidates {
					tb := trianglesB[ib]
					if isZeroArea(tb, tol.PredicateEps) {
						continue
					}
					kind := classifyPair(ta, tb, tol)
					if kind != KindNone {
						p.pairs = append(p.pairs, PairIntersection{IA: ia, IB: ib, Kind: kind})
					}
				}
				results[ia] = p
			}
		}()
	}
	wg.Wait()

	var diag Diagnostics
	var pairs []PairIntersection
	for _, r := range results {
		diag.Merge(r.diag)
		pairs = append(pairs, r.pairs...)
	}
	for _, tb := range trianglesB {
		if isZeroArea(tb, tol.PredicateEps) {
			diag.DegenerateTriangle++
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].IA != pairs[j].IA {
			return pairs[i].IA < pairs[j].IA
		}
		return pairs[i].IB < pairs[j].IB
	})

	return PairSet{Pairs: pairs, Diagnostics: diag}, nil
}

// classifyPair implements the reject / coplanarity / non-coplanar /
// coplanar decision tree for a single pair, assuming both
// triangles are already known non-degenerate.
func classifyPair(a, b Triangle, tol Tolerances) IntersectionKind {
	eps := tol.PredicateEps
	va, vb := a.Verts(), b.Verts()

	// Reject test: all of B strictly on one side of A's plane, or vice
	// versa. Uses the batched plane-side kernel over each triangle's 3
	// vertices, the same kernel a larger candidate batch would use.
	bxs, bys, bzs := []float64{vb[0].X, vb[1].X, vb[2].X}, []float64{vb[0].Y, vb[1].Y, vb[2].Y}, []float64{vb[0].Z, vb[1].Z, vb[2].Z}
	distB := make([]float64, 3)
	batchPlaneSide(bxs, bys, bzs, va[0], a.Normal, distB)
	if bPos, bNeg := allSameSign(distB, eps); bPos || bNeg {
		return KindNone
	}

	axs, ays, azs := []float64{va[0].X, va[1].X, va[2].X}, []float64{va[0].Y, va[1].Y, va[2].Y}, []float64{va[0].Z, va[1].Z, va[2].Z}
	distA := make([]float64, 3)
	batchPlaneSide(axs, ays, azs, vb[0], b.Normal, distA)
	if aPos, aNeg := allSameSign(distA, eps); aPos || aNeg {
		return KindNone
	}

	coplanar := true
	for _, d := range distB {
		if d > eps || d < -eps {
			coplanar = false
			break
		}
	}

	if coplanar {
		return classifyCoplanar(a, b, tol)
	}
	return classifyNonCoplanar(a, b, distA, distB, tol)
}

// classifyNonCoplanar collects and deduplicates non-coplanar candidate
// points, then derives a kind from the resulting count.
func classifyNonCoplanar(a, b Triangle, distA, distB []float64, tol Tolerances) IntersectionKind {
	pts := collectNonCoplanarSamples(a, b, distA, distB, tol)
	return kindFromSampleCount(pts, tol)
}

// collectNonCoplanarSamples gathers, deduplicates, and returns the world
// candidate points for a non-coplanar pair: vertex-on-plane hits and
// edge/plane crossings, each filtered by "lies inside the other triangle".
func collectNonCoplanarSamples(a, b Triangle, distA, distB []float64, tol Tolerances) []RealPoint {
	eps := tol.PredicateEps
	va, vb := a.Verts(), b.Verts()
	var pts []RealPoint

	addIfInside := func(p RealPoint, t Triangle) {
		bary, ok := triangleBarycentric(t, p, eps)
		if !ok {
			return
		}
		if insideTriangle(bary, tol.BarycentricEps) {
			pts = append(pts, p)
		}
	}

	// (a) vertices of B on A's plane and inside A; vertices of A on B's
	// plane and inside B.
	for i, p := range vb {
		if distB[i] > -eps && distB[i] < eps {
			addIfInside(p, a)
		}
	}
	for i, p := range va {
		if distA[i] > -eps && distA[i] < eps {
			addIfInside(p, b)
		}
	}

	// (b) edges of A crossing B's plane, tested for lying inside B; edges
	// of B crossing A's plane, tested for lying inside A.
	for i := 0; i < 3; i++ {
		p0, p1 := va[i], va[(i+1)%3]
		d0, d1 := distA[i], distA[(i+1)%3]
		if u, ok := planeCrossingParam(d0, d1); ok {
			addIfInside(edgeParam(p0, p1, u), b)
		}
	}
	for i := 0; i < 3; i++ {
		p0, p1 := vb[i], vb[(i+1)%3]
		d0, d1 := distB[i], distB[(i+1)%3]
		if u, ok := planeCrossingParam(d0, d1); ok {
			addIfInside(edgeParam(p0, p1, u), a)
		}
	}

	return dedupPoints(pts, tol.WorldDedupEpsSq)
}

func dedupPoints(pts []RealPoint, epsSq float64) []RealPoint {
	var out []RealPoint
	for _, p := range pts {
		dup := false
		for _, q := range out {
			if p.DistSq(q) <= epsSq {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

func kindFromSampleCount(pts []RealPoint, tol Tolerances) IntersectionKind {
	switch len(pts) {
	case 0:
		return KindNone
	case 1:
		return KindPoint
	default:
		maxDistSq := 0.0
		for i := 0; i < len(pts); i++ {
			for j := i + 1; j < len(pts); j++ {
				if d := pts[i].DistSq(pts[j]); d > maxDistSq {
					maxDistSq = d
				}
			}
		}
		if maxDistSq > tol.PredicateEps*tol.PredicateEps {
			return KindSegment
		}
		return KindPoint
	}
}

// classifyCoplanar projects both triangles into 2D, collects the convex
// overlap's candidate points, and derives a kind from the resulting count.
func classifyCoplanar(a, b Triangle, tol Tolerances) IntersectionKind {
	pts2D := collectCoplanarSamples2D(a, b, tol)
	if len(pts2D) == 0 {
		return KindNone
	}
	if anyNonCollinear(pts2D, tol.PredicateEps) {
		return KindArea
	}
	// Collinear: collapse to world points and reuse the point/segment
	// sample-count rule.
	axis := dropAxis(a.Normal)
	world := make([]RealPoint, len(pts2D))
	for i, p := range pts2D {
		world[i] = unproject2D(p, a, axis)
	}
	world = dedupPoints(world, tol.WorldDedupEpsSq)
	return kindFromSampleCount(world, tol)
}

func anyNonCollinear(pts []point2D, eps float64) bool {
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			for k := j + 1; k < len(pts); k++ {
				if abs(cross2D(pts[i], pts[j], pts[k])) > eps {
					return true
				}
			}
		}
	}
	return false
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// collectCoplanarSamples2D projects both triangles to 2D (dropping the
// axis of largest normal magnitude) and gathers edge-inclusive
// vertex-in-other-triangle hits plus all pairwise edge/edge crossings.
func collectCoplanarSamples2D(a, b Triangle, tol Tolerances) []point2D {
	axis := dropAxis(a.Normal)
	va, vb := a.Verts(), b.Verts()
	pa := [3]point2D{}
	pb := [3]point2D{}
	for i := 0; i < 3; i++ {
		x, y := project2D(va[i], axis)
		pa[i] = point2D{x, y}
		x, y = project2D(vb[i], axis)
		pb[i] = point2D{x, y}
	}

	eps := tol.PredicateEps
	var pts []point2D
	for _, p := range pa {
		if insideTriangle2D(p, pb[0], pb[1], pb[2], eps) {
			pts = append(pts, p)
		}
	}
	for _, p := range pb {
		if insideTriangle2D(p, pa[0], pa[1], pa[2], eps) {
			pts = append(pts, p)
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if p, ok := segmentIntersect2D(pa[i], pa[(i+1)%3], pb[j], pb[(j+1)%3], eps); ok {
				pts = append(pts, p)
			}
		}
	}

	return dedup2D(pts, eps)
}

func dedup2D(pts []point2D, eps float64) []point2D {
	var out []point2D
	for _, p := range pts {
		dup := false
		for _, q := range out {
			dx, dy := p.X-q.X, p.Y-q.Y
			if dx*dx+dy*dy <= eps*eps {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// unproject2D reconstructs a world point on triangle a's plane from a 2D
// projected point, by solving for the barycentric weights of a's three
// projected vertices and applying them to a's 3D vertices. This keeps the
// projection axis-agnostic without needing the dropped coordinate.
func unproject2D(p point2D, a Triangle, axis int) RealPoint {
	va := a.Verts()
	pa := [3]point2D{}
	for i := 0; i < 3; i++ {
		x, y := project2D(va[i], axis)
		pa[i] = point2D{x, y}
	}
	bary := barycentric2D(p, pa[0], pa[1], pa[2])
	return va[0].Scale(bary.U).Add(va[1].Scale(bary.V)).Add(va[2].Scale(bary.W))
}

func barycentric2D(p, a, b, c point2D) Barycentric {
	v0 := point2D{b.X - a.X, b.Y - a.Y}
	v1 := point2D{c.X - a.X, c.Y - a.Y}
	v2 := point2D{p.X - a.X, p.Y - a.Y}

	d00 := v0.X*v0.X + v0.Y*v0.Y
	d01 := v0.X*v1.X + v0.Y*v1.Y
	d11 := v1.X*v1.X + v1.Y*v1.Y
	d20 := v2.X*v0.X + v2.Y*v0.Y
	d21 := v2.X*v1.X + v2.Y*v1.Y

	denom := d00*d11 - d01*d01
	if denom == 0 {
		return Barycentric{U: 1}
	}
	v := (d11*d20 - d01*d21) / denom
	w := (d00*d21 - d01*d20) / denom
	return Barycentric{U: 1 - v - w, V: v, W: w}
}
