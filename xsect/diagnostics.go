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

// Diagnostics counts the geometric anomalies recovered locally by each
// stage. None of these ever abort the pipeline; a caller that wants to know
// whether anything looked unusual inspects these counters instead of
// catching an error.
type Diagnostics struct {
	// DegenerateTriangle counts zero-area (or near-zero-area) input
	// triangles that were skipped.
	DegenerateTriangle int
	// DegenerateBarycentric counts candidate samples discarded because
	// their barycentric denominator underflowed.
	DegenerateBarycentric int
	// PairGeometryInconsistent counts pairs whose classified kind was
	// degraded (Segment→Point, Area→Segment→Point) because dedup left
	// fewer unique points than the kind required.
	PairGeometryInconsistent int
	// ComponentUnregularizable counts StrongLoopCandidate components that
	// could not yield an Eulerian cycle and were downgraded to Ambiguous.
	ComponentUnregularizable int
}

// Merge folds other's counters into d and returns d for chaining.
func (d *Diagnostics) Merge(other Diagnostics) *Diagnostics {
	d.DegenerateTriangle += other.DegenerateTriangle
	d.DegenerateBarycentric += other.DegenerateBarycentric
	d.PairGeometryInconsistent += other.PairGeometryInconsistent
	d.ComponentUnregularizable += other.ComponentUnregularizable
	return d
}

// String renders a one-line human summary, used in test failure messages
// and in callers' own logging.
func (d Diagnostics) String() string {
	return fmt.Sprintf(
		"diagnostics{degenerateTriangle=%d degenerateBarycentric=%d pairGeometryInconsistent=%d componentUnregularizable=%d}",
		d.DegenerateTriangle, d.DegenerateBarycentric, d.PairGeometryInconsistent, d.ComponentUnregularizable,
	)
}

// IsZero reports whether no anomalies were recorded at all.
func (d Diagnostics) IsZero() bool {
	return d == Diagnostics{}
}
