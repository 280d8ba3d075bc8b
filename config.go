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

// Config collects every tunable of the search, mirroring the source
// algorithm's sls_params. There is no parsing layer here — the engine
// has no CLI surface of its own, so callers build a Config directly,
// the same way the teacher's CDCLOptions is populated by hand.
type Config struct {
	// PawsInit is the initial PAWS weight assigned to each root
	// assertion.
	PawsInit int
	// PawsSp is the probability numerator over 2048 of decrementing a
	// satisfied root's weight during PAWS recalibration.
	PawsSp int
	// WP is the probability numerator over 2048 of taking a pure random
	// ±1 move instead of hillclimbing.
	WP int
	// RestartBase is the restart cadence in moves.
	RestartBase int
	// MaxMovesBase is the default move budget for a GlobalSearch call.
	// GlobalSearch takes its budget as an argument and does not read this
	// field, and nothing in the engine grows it.
	MaxMovesBase int
	// ArithUseLookahead gates StartPropagation: when false it is a
	// no-op. GlobalSearch does not consult it.
	ArithUseLookahead bool
	// CB is the score base (> 1) used by ComputeScore's cb^(-breaks)
	// branch.
	CB float64
	// UCBConstant scales the UCB exploration term.
	UCBConstant float64
	// UCBNoise scales the UCB tie-breaking random term.
	UCBNoise float64
	// UCBForget is the per-restart UCB counter decay factor.
	UCBForget float64
	// MaxCandidates caps the number of scored candidates ApplyUpdate will
	// weigh; beyond this, candidates are dropped at random to bound cost.
	MaxCandidates int
}

// DefaultConfig returns the parameter set from the original algorithm's
// sls_params defaults.
func DefaultConfig() Config {
	return Config{
		PawsInit:          40,
		PawsSp:            52,
		WP:                100,
		RestartBase:       1000,
		MaxMovesBase:      5000,
		ArithUseLookahead: true,
		CB:                2,
		UCBConstant:       1,
		UCBNoise:          0.0001,
		UCBForget:         0.1,
		MaxCandidates:     64,
	}
}
