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

// TriangleIntersectionIndex maps each triangle, on either mesh, to the
// global vertices lying on it, with the barycentric coordinates specific
// to that triangle.
type TriangleIntersectionIndex struct {
	onA [][]TriangleIntersectionVertex
	onB [][]TriangleIntersectionVertex
}

// OnTriangleA returns the deduplicated vertex list for triangle i of mesh
// A.
func (idx *TriangleIntersectionIndex) OnTriangleA(i int) []TriangleIntersectionVertex {
	if i < 0 || i >= len(idx.onA) {
		return nil
	}
	return idx.onA[i]
}

// OnTriangleB returns the deduplicated vertex list for triangle i of mesh
// B.
func (idx *TriangleIntersectionIndex) OnTriangleB(i int) []TriangleIntersectionVertex {
	if i < 0 || i >= len(idx.onB) {
		return nil
	}
	return idx.onB[i]
}

// BuildTriangleIndex walks every PairFeature, reconstructs each
// PairVertex's world position from its own triangle's barycentric (A's for
// bary_on_A, B's for bary_on_B), and resolves it through the same
// quantized vertex map the graph itself used, so the recovered
// IntersectionVertexID always agrees with the graph's.
func BuildTriangleIndex(graph *IntersectionGraph, trianglesA, trianglesB []Triangle, tol Tolerances) *TriangleIntersectionIndex {
	keyToID := make(map[quantKey]IntersectionVertexID, len(graph.vertices))
	for _, v := range graph.vertices {
		keyToID[quantize(v.Position, tol.PredicateEps)] = v.ID
	}

	onA := make([][]TriangleIntersectionVertex, len(trianglesA))
	onB := make([][]TriangleIntersectionVertex, len(trianglesB))
	seenA := make([]map[IntersectionVertexID]bool, len(trianglesA))
	seenB := make([]map[IntersectionVertexID]bool, len(trianglesB))

	for _, feat := range graph.features {
		if feat.IA < 0 || feat.IA >= len(trianglesA) || feat.IB < 0 || feat.IB >= len(trianglesB) {
			continue
		}
		ta, tb := trianglesA[feat.IA], trianglesB[feat.IB]
		for _, pv := range feat.Vertices {
			worldA := ta.Evaluate(pv.BaryOnA)
			if id, ok := keyToID[quantize(worldA, tol.PredicateEps)]; ok {
				if seenA[feat.IA] == nil {
					seenA[feat.IA] = make(map[IntersectionVertexID]bool)
				}
				if !seenA[feat.IA][id] {
					seenA[feat.IA][id] = true
					onA[feat.IA] = append(onA[feat.IA], TriangleIntersectionVertex{GlobalID: id, Bary: pv.BaryOnA})
				}
			}

			worldB := tb.Evaluate(pv.BaryOnB)
			if id, ok := keyToID[quantize(worldB, tol.PredicateEps)]; ok {
				if seenB[feat.IB] == nil {
					seenB[feat.IB] = make(map[IntersectionVertexID]bool)
				}
				if !seenB[feat.IB][id] {
					seenB[feat.IB][id] = true
					onB[feat.IB] = append(onB[feat.IB], TriangleIntersectionVertex{GlobalID: id, Bary: pv.BaryOnB})
				}
			}
		}
	}

	return &TriangleIntersectionIndex{onA: onA, onB: onB}
}
