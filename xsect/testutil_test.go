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

// tri builds a Triangle from three grid-lattice vertices and computes a
// unit normal from their winding order. Zero-area triangles get a
// zero-length placeholder normal.
func tri(ax, ay, az, bx, by, bz, cx, cy, cz int64) Triangle {
	t := Triangle{A: GridPoint{ax, ay, az}, B: GridPoint{bx, by, bz}, C: GridPoint{cx, cy, cz}}
	v := t.Verts()
	n := v[1].Sub(v[0]).Cross(v[2].Sub(v[0]))
	length := math.Sqrt(n.Dot(n))
	if length > 0 {
		n = n.Scale(1 / length)
	}
	t.Normal = n
	return t
}
