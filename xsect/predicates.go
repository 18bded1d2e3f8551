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

import "math"

// planeSide returns the signed distance of p from the plane through a with
// the given unit normal. Positive/negative/near-zero (within eps) mirror
// the "above/below/on" three-way split the reject and coplanarity tests
// need.
func planeSide(p, a, normal RealPoint) float64 {
	return p.Sub(a).Dot(normal)
}

// triangleBarycentric computes the barycentric coordinates of p with
// respect to triangle t, assuming p lies on (or very near) t's plane. ok is
// false if the computation's denominator underflowed (a degenerate,
// zero-area triangle); the caller should record DegenerateBarycentric and
// discard the sample, not trust the result.
func triangleBarycentric(t Triangle, p RealPoint, eps float64) (Barycentric, bool) {
	v := t.Verts()
	v0 := v[1].Sub(v[0])
	v1 := v[2].Sub(v[0])
	v2 := p.Sub(v[0])

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if math.Abs(denom) < eps*eps {
		return Barycentric{}, false
	}

	vv := (d11*d20 - d01*d21) / denom
	ww := (d00*d21 - d01*d20) / denom
	uu := 1 - vv - ww
	return Barycentric{U: uu, V: vv, W: ww}, true
}

// insideTriangle reports whether b denotes a point inside t, edges and
// corners inclusive, within barycentricEps.
func insideTriangle(b Barycentric, eps float64) bool {
	return b.U >= -eps && b.V >= -eps && b.W >= -eps
}

// isZeroArea reports whether t has near-zero area: the DegenerateTriangle
// condition.
func isZeroArea(t Triangle, eps float64) bool {
	v := t.Verts()
	cross := v[1].Sub(v[0]).Cross(v[2].Sub(v[0]))
	return cross.Dot(cross) < eps*eps
}

// edgeParam returns the parametric point a + u*(b-a), used for the
// non-coplanar edge/plane crossings.
func edgeParam(a, b RealPoint, u float64) RealPoint {
	return a.Add(b.Sub(a).Scale(u))
}

// planeCrossingParam finds u in [0,1] such that the segment a->b crosses a
// plane, given the two endpoints' signed distances da, db from that plane
// (which must have strictly opposing signs for a crossing to exist).
// Returns (u, true) or (_, false) if da and db don't strictly straddle the
// plane.
func planeCrossingParam(da, db float64) (float64, bool) {
	if !((da > 0 && db < 0) || (da < 0 && db > 0)) {
		return 0, false
	}
	denom := da - db
	if denom == 0 {
		return 0, false
	}
	return da / denom, true
}

// dropAxis returns the index (0=x, 1=y, 2=z) of the component of n with
// the largest magnitude: the axis to drop when projecting a coplanar
// triangle pair into 2D.
func dropAxis(n RealPoint) int {
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	if ax >= ay && ax >= az {
		return 0
	}
	if ay >= az {
		return 1
	}
	return 2
}

// project2D drops the given axis and returns the remaining two
// coordinates, in a fixed (axis-independent) winding order.
func project2D(p RealPoint, axis int) (float64, float64) {
	switch axis {
	case 0:
		return p.Y, p.Z
	case 1:
		return p.X, p.Z
	default:
		return p.X, p.Y
	}
}

// point2D is a 2D point used only for the coplanar projection path.
type point2D struct{ X, Y float64 }

func cross2D(o, a, b point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// insideTriangle2D is the edge-inclusive point-in-triangle test in the
// projected 2D plane, used by the coplanar classification and feature
// extraction paths.
func insideTriangle2D(p, a, b, c point2D, eps float64) bool {
	d1 := cross2D(a, b, p)
	d2 := cross2D(b, c, p)
	d3 := cross2D(c, a, p)

	hasNeg := d1 < -eps || d2 < -eps || d3 < -eps
	hasPos := d1 > eps || d2 > eps || d3 > eps
	return !(hasNeg && hasPos)
}

// segmentIntersect2D computes the intersection parameter t of segment
// p1->p2 against segment p3->p4, clamped to [0,1] with eps tolerance.
// Returns the intersection point and true if the segments cross within
// both parameter ranges.
func segmentIntersect2D(p1, p2, p3, p4 point2D, eps float64) (point2D, bool) {
	d1 := point2D{p2.X - p1.X, p2.Y - p1.Y}
	d2 := point2D{p4.X - p3.X, p4.Y - p3.Y}

	denom := d1.X*d2.Y - d1.Y*d2.X
	if math.Abs(denom) < eps {
		return point2D{}, false
	}

	diff := point2D{p3.X - p1.X, p3.Y - p1.Y}
	t := (diff.X*d2.Y - diff.Y*d2.X) / denom
	u := (diff.X*d1.Y - diff.Y*d1.X) / denom

	if t < -eps || t > 1+eps || u < -eps || u > 1+eps {
		return point2D{}, false
	}
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return point2D{p1.X + t*d1.X, p1.Y + t*d1.Y}, true
}

// polarAngleSort orders points by angle around their centroid, producing
// the convex winding order a coplanar triangle-triangle overlap polygon
// always has.
func polarAngleSort(pts []point2D) []int {
	n := len(pts)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if n == 0 {
		return idx
	}
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(n)
	cy /= float64(n)

	angle := func(i int) float64 {
		return math.Atan2(pts[i].Y-cy, pts[i].X-cx)
	}
	// Simple insertion sort: n is always tiny (at most the two triangles'
	// combined vertex+edge-crossing count, typically ≤ 9).
	for i := 1; i < n; i++ {
		j := i
		for j > 0 && angle(idx[j-1]) > angle(idx[j]) {
			idx[j-1], idx[j] = idx[j], idx[j-1]
			j--
		}
	}
	return idx
}
