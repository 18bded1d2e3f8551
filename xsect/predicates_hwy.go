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

// batchPlaneSide computes the signed distance of each point (xs,ys,zs) in
// SoA layout from the plane through planeOrigin with the given normal,
// writing the result into out: broadcast the constant side of the
// computation, then stream the variable side through ProcessWithTail.
//
// The reject test calls this once per triangle pair and direction, on the
// three vertices of one triangle, rather than once per vertex.
func batchPlaneSide(xs, ys, zs []float64, planeOrigin, normal RealPoint, out []float64) {
	n := min(len(xs), len(ys), len(zs), len(out))

	ox, oy, oz := hwy.Set(planeOrigin.X), hwy.Set(planeOrigin.Y), hwy.Set(planeOrigin.Z)
	nx, ny, nz := hwy.Set(normal.X), hwy.Set(normal.Y), hwy.Set(normal.Z)

	hwy.ProcessWithTail[float64](n,
		func(offset int) {
			vx := hwy.Load(xs[offset:])
			vy := hwy.Load(ys[offset:])
			vz := hwy.Load(zs[offset:])

			dx := hwy.Sub(vx, ox)
			dy := hwy.Sub(vy, oy)
			dz := hwy.Sub(vz, oz)

			sum := hwy.Mul(dx, nx)
			sum = hwy.FMA(dy, ny, sum)
			sum = hwy.FMA(dz, nz, sum)

			hwy.Store(sum, out[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[float64](count)
			vx := hwy.MaskLoad(mask, xs[offset:])
			vy := hwy.MaskLoad(mask, ys[offset:])
			vz := hwy.MaskLoad(mask, zs[offset:])

			dx := hwy.Sub(vx, ox)
			dy := hwy.Sub(vy, oy)
			dz := hwy.Sub(vz, oz)

			sum := hwy.Mul(dx, nx)
			sum = hwy.FMA(dy, ny, sum)
			sum = hwy.FMA(dz, nz, sum)

			hwy.MaskStore(mask, sum, out[offset:])
		},
	)
}

// allSameSign reports whether every value in d is greater than eps or
// every value is less than -eps; used by the reject test to decide
// "all vertices of B strictly on one side of A's plane" without a branch
// per vertex once the batch is computed.
func allSameSign(d []float64, eps float64) (allPos, allNeg bool) {
	allPos, allNeg = true, true
	for _, v := range d {
		if v <= eps {
			allPos = false
		}
		if v >= -eps {
			allNeg = false
		}
	}
	return
}
