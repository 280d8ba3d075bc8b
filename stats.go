/*
Copyright 2024 Simon Murray

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package arith

// Stats is the set of counters the engine tracks for diagnostics; it
// has no bearing on search behaviour.
type Stats struct {
	Updates       int
	FailedUpdates int
	Repairs       int
	FailedRepairs int
	Restarts      int
	Moves         int
}

// CollectStatistics copies the engine's current counters into s.
func (e *Engine[N]) CollectStatistics(s *Stats) {
	*s = e.stats
}

// ResetStatistics zeroes every counter.
func (e *Engine[N]) ResetStatistics() {
	e.stats = Stats{}
}
