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

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// box is an axis-aligned bounding box in float64, used by BroadPhaseIndex
// for both tree-node bounds and the per-triangle leaf bounds.
type box struct {
	MinX, MinY, MinZ float64
	MaxX, MaxY, MaxZ float64
}

func boxFromTriangle(t Triangle) box {
	v := t.Verts()
	b := box{v[0].X, v[0].Y, v[0].Z, v[0].X, v[0].Y, v[0].Z}
	for _, p := range v[1:] {
		b.MinX, b.MaxX = min(b.MinX, p.X), max(b.MaxX, p.X)
		b.MinY, b.MaxY = min(b.MinY, p.Y), max(b.MaxY, p.Y)
		b.MinZ, b.MaxZ = min(b.MinZ, p.Z), max(b.MaxZ, p.Z)
	}
	return b
}

func boxUnion(a, b box) box {
	return box{
		MinX: min(a.MinX, b.MinX), MinY: min(a.MinY, b.MinY), MinZ: min(a.MinZ, b.MinZ),
		MaxX: max(a.MaxX, b.MaxX), MaxY: max(a.MaxY, b.MaxY), MaxZ: max(a.MaxZ, b.MaxZ),
	}
}

// boxesOverlap reports whether a and b intersect, touching included.
func boxesOverlap(a, b box) bool {
	return a.MinX <= b.MaxX && b.MinX <= a.MaxX &&
		a.MinY <= b.MaxY && b.MinY <= a.MaxY &&
		a.MinZ <= b.MaxZ && b.MinZ <= a.MaxZ
}

// batchBoxOverlap tests a BVH leaf's boxes (in SoA layout) against one
// query box at once: a ProcessWithTail kernel over a flat slice, with the
// mask applied before the reduction so tail lanes can't report false
// positives.
//
// out[i] is set to 1 if leaf box i overlaps q, 0 otherwise.
func batchBoxOverlap(minX, minY, minZ, maxX, maxY, maxZ []float64, q box, out []float64) {
	n := min(len(minX), len(minY), len(minZ), len(maxX), len(maxY), len(maxZ), len(out))

	vQMinX, vQMinY, vQMinZ := hwy.Set(q.MinX), hwy.Set(q.MinY), hwy.Set(q.MinZ)
	vQMaxX, vQMaxY, vQMaxZ := hwy.Set(q.MaxX), hwy.Set(q.MaxY), hwy.Set(q.MaxZ)
	one := hwy.Set(float64(1))
	zero := hwy.Set(float64(0))

	overlapAxis := func(lo, hi, qlo, qhi hwy.Vec[float64]) hwy.Vec[float64] {
		a := hwy.Le(lo, qhi)
		b := hwy.Le(qlo, hi)
		return hwy.And(a, b)
	}

	hwy.ProcessWithTail[float64](n,
		func(offset int) {
			loX, hiX := hwy.Load(minX[offset:]), hwy.Load(maxX[offset:])
			loY, hiY := hwy.Load(minY[offset:]), hwy.Load(maxY[offset:])
			loZ, hiZ := hwy.Load(minZ[offset:]), hwy.Load(maxZ[offset:])

			ox := overlapAxis(loX, hiX, vQMinX, vQMaxX)
			oy := overlapAxis(loY, hiY, vQMinY, vQMaxY)
			oz := overlapAxis(loZ, hiZ, vQMinZ, vQMaxZ)

			result := hwy.IfThenElse(hwy.And(hwy.And(ox, oy), oz), one, zero)
			hwy.Store(result, out[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			loX, hiX := hwy.MaskLoad(mask, minX[offset:]), hwy.MaskLoad(mask, maxX[offset:])
			loY, hiY := hwy.MaskLoad(mask, minY[offset:]), hwy.MaskLoad(mask, maxY[offset:])
			loZ, hiZ := hwy.MaskLoad(mask, minZ[offset:]), hwy.MaskLoad(mask, maxZ[offset:])

			ox := overlapAxis(loX, hiX, vQMinX, vQMaxX)
			oy := overlapAxis(loY, hiY, vQMinY, vQMaxY)
			oz := overlapAxis(loZ, hiZ, vQMinZ, vQMaxZ)

			result := hwy.IfThenElse(hwy.And(hwy.And(ox, oy), oz), one, zero)
			hwy.MaskStore(mask, result, out[offset:])
		},
	)
}
