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

// CheckRestart implements check_restart: every RestartBase steps it
// forgets UCB touch counters via touched := 1 + (touched-1)*ucb_forget;
// every restartNext moves it triggers OnRestart and grows the next
// threshold, alternating +=base on odd restarts and +=2*(k/2)*base on
// even ones.
func (e *Engine[N]) CheckRestart() {
	if e.step > 0 && e.step%e.cfg.RestartBase == 0 {
		for bv, t := range e.touched {
			e.touched[bv] = 1 + (t-1)*e.cfg.UCBForget
		}
	}

	if e.movesSinceRestart < e.restartNext {
		return
	}

	e.OnRestart()

	e.restartK++
	if e.restartK%2 == 1 {
		e.restartNext += e.cfg.RestartBase
	} else {
		e.restartNext += 2 * (e.restartK / 2) * e.cfg.RestartBase
	}
}

// OnRestart clears the move-since-restart counter and the tabu window
// of every variable, and records the restart in statistics.
func (e *Engine[N]) OnRestart() {
	e.movesSinceRestart = 0
	e.hasLast = false
	for _, v := range e.ts.Vars() {
		v.SetStep(0, 0, v.LastDelta)
	}
	e.stats.Restarts++
}

// OnRescale is invoked when the numeric backend's range has been widened
// (spec §9 "per variable maintain increasing range"); it invalidates the
// fixable-closure cache, since bound-derived fixability may have changed.
func (e *Engine[N]) OnRescale() {
	for k := range e.fixableCache {
		delete(e.fixableCache, k)
	}
}
