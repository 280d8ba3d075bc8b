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

import "github.com/spjmurray/go-util/pkg/set"

// setContains reports whether s contains v, using only the All()
// iterator every go-util Set exposes.
func setContains[T comparable](s set.Set[T], v T) bool {
	for w := range s.All() {
		if w == v {
			return true
		}
	}
	return false
}
