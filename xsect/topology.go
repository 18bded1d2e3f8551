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

import "sort"

// MeshTopology restricts the global graph to one mesh's triangles.
type MeshTopology struct {
	side               MeshSide
	triangleVertexSets []map[IntersectionVertexID]bool
	triangleEdges      [][]GlobalEdge
	edges              []GlobalEdge
	vertexEdges        map[IntersectionVertexID][]GlobalEdge
	components         []Component
}

// Component is a maximal connected subgraph of MeshTopology's restricted
// edge set, stored as an ordered diagnostic walk (not guaranteed to be a
// simple path) plus the vertex/edge sets a consumer actually needs.
type Component struct {
	Vertices []IntersectionVertexID
	Edges    []GlobalEdge
	Walk     []IntersectionVertexID
}

// TriangleVertexSet returns the set of IntersectionVertexIds on triangle
// i.
func (t *MeshTopology) TriangleVertexSet(i int) map[IntersectionVertexID]bool {
	if i < 0 || i >= len(t.triangleVertexSets) {
		return nil
	}
	return t.triangleVertexSets[i]
}

// TriangleEdges returns every GlobalEdge whose both endpoints lie on
// triangle i.
func (t *MeshTopology) TriangleEdges(i int) []GlobalEdge {
	if i < 0 || i >= len(t.triangleEdges) {
		return nil
	}
	return t.triangleEdges[i]
}

// Edges returns the union of every triangle's edges: every GlobalEdge that
// appears in any TriangleEdges(i).
func (t *MeshTopology) Edges() []GlobalEdge { return t.edges }

// VertexEdges returns the edges (restricted to Edges()) incident to v.
func (t *MeshTopology) VertexEdges(v IntersectionVertexID) []GlobalEdge {
	return t.vertexEdges[v]
}

// Components returns the connected components over (vertices touched by
// Edges(), Edges()).
func (t *MeshTopology) Components() []Component { return t.components }

// BuildMeshTopology builds a MeshTopology, parameterized by which mesh the
// global graph is restricted to.
func BuildMeshTopology(graph *IntersectionGraph, idx *TriangleIntersectionIndex, which MeshSide) *MeshTopology {
	numTriangles := len(idx.onA)
	triOf := idx.OnTriangleA
	if which == MeshB {
		numTriangles = len(idx.onB)
		triOf = idx.OnTriangleB
	}

	triangleVertexSets := make([]map[IntersectionVertexID]bool, numTriangles)
	for i := 0; i < numTriangles; i++ {
		set := make(map[IntersectionVertexID]bool)
		for _, tv := range triOf(i) {
			set[tv.GlobalID] = true
		}
		triangleVertexSets[i] = set
	}

	triangleEdges := make([][]GlobalEdge, numTriangles)
	edgeSeen := make(map[IntersectionEdgeID]bool)
	var edges []GlobalEdge
	for i := 0; i < numTriangles; i++ {
		set := triangleVertexSets[i]
		for _, e := range graph.edges {
			if set[e.Start] && set[e.End] {
				triangleEdges[i] = append(triangleEdges[i], e)
				if !edgeSeen[e.ID] {
					edgeSeen[e.ID] = true
					edges = append(edges, e)
				}
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	vertexEdges := make(map[IntersectionVertexID][]GlobalEdge)
	for _, e := range edges {
		vertexEdges[e.Start] = append(vertexEdges[e.Start], e)
		vertexEdges[e.End] = append(vertexEdges[e.End], e)
	}

	components := buildComponents(edges, vertexEdges)

	return &MeshTopology{
		side:               which,
		triangleVertexSets: triangleVertexSets,
		triangleEdges:      triangleEdges,
		edges:              edges,
		vertexEdges:        vertexEdges,
		components:         components,
	}
}

// buildComponents runs union-find over the restricted edge set, then
// groups edges by root and reconstructs one diagnostic walk per component
// starting from its lowest-ID vertex, for a deterministic walk order.
func buildComponents(edges []GlobalEdge, vertexEdges map[IntersectionVertexID][]GlobalEdge) []Component {
	parent := make(map[IntersectionVertexID]IntersectionVertexID)
	var find func(IntersectionVertexID) IntersectionVertexID
	find = func(v IntersectionVertexID) IntersectionVertexID {
		if p, ok := parent[v]; ok && p != v {
			parent[v] = find(p)
			return parent[v]
		}
		parent[v] = v
		return v
	}
	union := func(a, b IntersectionVertexID) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, e := range edges {
		if _, ok := parent[e.Start]; !ok {
			parent[e.Start] = e.Start
		}
		if _, ok := parent[e.End]; !ok {
			parent[e.End] = e.End
		}
		union(e.Start, e.End)
	}

	rootEdges := make(map[IntersectionVertexID][]GlobalEdge)
	rootVertices := make(map[IntersectionVertexID]map[IntersectionVertexID]bool)
	var roots []IntersectionVertexID
	seenRoot := make(map[IntersectionVertexID]bool)

	for _, e := range edges {
		r := find(e.Start)
		if !seenRoot[r] {
			seenRoot[r] = true
			roots = append(roots, r)
			rootVertices[r] = make(map[IntersectionVertexID]bool)
		}
		rootEdges[r] = append(rootEdges[r], e)
		rootVertices[r][e.Start] = true
		rootVertices[r][e.End] = true
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i] < roots[j] })

	components := make([]Component, 0, len(roots))
	for _, r := range roots {
		vset := rootVertices[r]
		vertices := make([]IntersectionVertexID, 0, len(vset))
		for v := range vset {
			vertices = append(vertices, v)
		}
		sort.Slice(vertices, func(i, j int) bool { return vertices[i] < vertices[j] })

		walk := walkComponent(vertices[0], vertexEdges)

		components = append(components, Component{
			Vertices: vertices,
			Edges:    rootEdges[r],
			Walk:     walk,
		})
	}
	return components
}

// walkComponent produces a diagnostic ordered walk from start, following
// any unvisited incident edge at each step until none remain. Not
// guaranteed to be a simple path or to visit every vertex if the component
// branches; purely informational (the regularizer does the real
// cycle-extraction work).
func walkComponent(start IntersectionVertexID, vertexEdges map[IntersectionVertexID][]GlobalEdge) []IntersectionVertexID {
	visitedEdge := make(map[IntersectionEdgeID]bool)
	walk := []IntersectionVertexID{start}
	cur := start
	for {
		var next IntersectionVertexID
		found := false
		for _, e := range vertexEdges[cur] {
			if visitedEdge[e.ID] {
				continue
			}
			visitedEdge[e.ID] = true
			if e.Start == cur {
				next = e.End
			} else {
				next = e.Start
			}
			found = true
			break
		}
		if !found {
			break
		}
		walk = append(walk, next)
		cur = next
	}
	return walk
}
