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

// Package xsect computes the 1D intersection curves between two
// triangulated meshes.
//
// The pipeline runs in five stages, each a pure function over the output
// of the last: BroadPhaseIndex narrows candidate triangle pairs with a BVH,
// ClassifyPairs decides the dimension (none, point, segment, area) of each
// candidate pair's intersection, BuildPairFeatures extracts the actual
// sample points and connecting segments per pair, BuildIntersectionGraph
// fuses every pair's local samples into one deduplicated global graph, and
// BuildMeshTopology/Regularize restrict that graph to one mesh's triangles
// and assemble its connected components into closed curves.
//
// Every stage reports anomalies (degenerate input triangles, barycentric
// underflow, unregularizable components) through a Diagnostics counter
// rather than an error: a triangle pair with no detectable pathology just
// doesn't contribute to the pair set. Only argument validation (nil or
// empty triangle slices, non-positive tolerances) returns a real error.
package xsect
