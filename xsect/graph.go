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

// quantKey is the hash key produced by rounding a world coordinate to the
// nearest multiple of PredicateEps: a fixed-point triple, avoiding
// implementation-defined float hashing.
type quantKey struct {
	X, Y, Z int64
}

func quantize(p RealPoint, eps float64) quantKey {
	return quantKey{
		X: round(p.X / eps),
		Y: round(p.Y / eps),
		Z: round(p.Z / eps),
	}
}

// round converts x to the nearest int64. With the default PredicateEps of
// 1e-12, x/eps fits an int64 only for world coordinates up to roughly
// ±9.2e6 (math.MaxInt64 * eps); this is far narrower than the GridPoint
// range, and quantize gives no meaningful key for coordinates beyond it.
func round(x float64) int64 {
	if x >= 0 {
		return int64(x + 0.5)
	}
	return int64(x - 0.5)
}

// IntersectionGraph is the global, deduplicated graph merging every pair's
// local vertices and edges, keyed by quantized world position.
// Immutable once built.
type IntersectionGraph struct {
	vertices []GlobalVertex
	edges    []GlobalEdge
	features []PairFeature
}

// Vertices returns the graph's deduplicated vertex list, indexed by
// IntersectionVertexID.
func (g *IntersectionGraph) Vertices() []GlobalVertex { return g.vertices }

// Edges returns the graph's deduplicated edge list.
func (g *IntersectionGraph) Edges() []GlobalEdge { return g.edges }

// Features returns the original PairFeatures this graph was built from,
// for downstream per-triangle indexing.
func (g *IntersectionGraph) Features() []PairFeature { return g.features }

// Vertex returns the GlobalVertex for id.
func (g *IntersectionGraph) Vertex(id IntersectionVertexID) GlobalVertex {
	return g.vertices[id]
}

// BuildIntersectionGraph fuses vertices by quantized position (triangle A
// is always the canonical reconstruction side), followed by edge fusion
// over the fused vertex IDs.
func BuildIntersectionGraph(features []PairFeature, trianglesA []Triangle, tol Tolerances) (*IntersectionGraph, error) {
	if err := tol.Validate(); err != nil {
		return nil, err
	}

	keyToID := make(map[quantKey]IntersectionVertexID)
	var vertices []GlobalVertex

	// localID maps (feature index, pair-local vertex id) -> global ID, so
	// the edge-fusion pass below can resolve PairSegment endpoints without
	// re-deriving positions.
	type featureLocal struct {
		featureIdx int
		localID    int
	}
	resolved := make(map[featureLocal]IntersectionVertexID)

	for fi, feat := range features {
		for _, pv := range feat.Vertices {
			if feat.IA < 0 || feat.IA >= len(trianglesA) {
				continue
			}
			world := trianglesA[feat.IA].Evaluate(pv.BaryOnA)
			key := quantize(world, tol.PredicateEps)
			id, ok := keyToID[key]
			if !ok {
				id = IntersectionVertexID(len(vertices))
				keyToID[key] = id
				vertices = append(vertices, GlobalVertex{ID: id, Position: world})
			}
			resolved[featureLocal{fi, pv.PairLocalID}] = id
		}
	}

	edgeSet := make(map[[2]IntersectionVertexID]IntersectionEdgeID)
	var edges []GlobalEdge
	for fi, feat := range features {
		for _, seg := range feat.Segments {
			startID, ok1 := resolved[featureLocal{fi, seg.Start}]
			endID, ok2 := resolved[featureLocal{fi, seg.End}]
			if !ok1 || !ok2 || startID == endID {
				continue // degenerate under quantization, or unresolved sample
			}
			lo, hi := startID, endID
			if lo > hi {
				lo, hi = hi, lo
			}
			key := [2]IntersectionVertexID{lo, hi}
			if _, exists := edgeSet[key]; exists {
				continue
			}
			id := IntersectionEdgeID(len(edges))
			edgeSet[key] = id
			edges = append(edges, GlobalEdge{ID: id, Start: lo, End: hi})
		}
	}

	return &IntersectionGraph{vertices: vertices, edges: edges, features: features}, nil
}

// NewIntersectionGraphFromRaw builds a graph directly from vertices and
// edges, bypassing the upstream pipeline entirely. This is the entry point
// tests use to construct graphs by hand. IDs in the input are trusted as
// given; callers are expected to supply a consistent vertex/edge ID space
// (e.g. 0..n-1).
func NewIntersectionGraphFromRaw(vertices []GlobalVertex, edges []GlobalEdge) (*IntersectionGraph, error) {
	for _, e := range edges {
		if e.Start == e.End {
			return nil, fmt.Errorf("xsect: edge %d is a self-loop (start == end == %d)", e.ID, e.Start)
		}
		if int(e.Start) >= len(vertices) || int(e.End) >= len(vertices) {
			return nil, fmt.Errorf("xsect: edge %d references vertex out of range (have %d vertices)", e.ID, len(vertices))
		}
		if e.Start > e.End {
			return nil, fmt.Errorf("xsect: edge %d not normalized, start %d > end %d", e.ID, e.Start, e.End)
		}
	}
	return &IntersectionGraph{vertices: vertices, edges: edges}, nil
}
