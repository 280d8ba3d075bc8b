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

package num_test

import (
	"testing"

	"github.com/spjmurray/go-sls-arith/pkg/num"
)

func TestCheckedOverflow(t *testing.T) {
	big1 := num.Int64Of(1 << 62)
	if _, err := big1.Mul(num.Int64Of(8)); err == nil {
		t.Fatal("expected overflow error")
	}
}

func TestCheckedArithmetic(t *testing.T) {
	cases := []struct {
		a, b     int64
		wantDiv  int64
		wantMod  int64
		wantCeil int64
	}{
		{7, 2, 3, 1, 4},
		{-7, 2, -4, 1, -3},
		{7, -2, -4, -1, -3},
		{-7, -2, 3, -1, 4},
		{8, 2, 4, 0, 4},
	}

	for _, c := range cases {
		a, b := num.Int64Of(c.a), num.Int64Of(c.b)

		floor, err := a.DivFloor(b)
		if err != nil {
			t.Fatalf("DivFloor(%d,%d): %v", c.a, c.b, err)
		}
		if got, _ := floor.Int64(); got != c.wantDiv {
			t.Errorf("DivFloor(%d,%d) = %d, want %d", c.a, c.b, got, c.wantDiv)
		}

		mod := a.Mod(b)
		if got, _ := mod.Int64(); got != c.wantMod {
			t.Errorf("Mod(%d,%d) = %d, want %d", c.a, c.b, got, c.wantMod)
		}

		ceil, err := a.DivCeil(b)
		if err != nil {
			t.Fatalf("DivCeil(%d,%d): %v", c.a, c.b, err)
		}
		if got, _ := ceil.Int64(); got != c.wantCeil {
			t.Errorf("DivCeil(%d,%d) = %d, want %d", c.a, c.b, got, c.wantCeil)
		}
	}
}

func TestIntSqrt(t *testing.T) {
	for a := int64(0); a < 200; a++ {
		r := num.IntSqrt(num.Int64Of(a))
		root, _ := r.Int64()
		if root*root > a {
			t.Fatalf("IntSqrt(%d) = %d overshoots", a, root)
		}
		if (root+1)*(root+1) <= a {
			t.Fatalf("IntSqrt(%d) = %d undershoots", a, root)
		}
	}
}

func TestRootOfCube(t *testing.T) {
	for a := int64(0); a < 1000; a++ {
		root := num.Int64Of(a).RootOf(3)
		r, _ := root.Int64()
		if r*r*r > a {
			t.Fatalf("RootOf(3, %d) = %d overshoots", a, r)
		}
		if (r+1)*(r+1)*(r+1) <= a {
			t.Fatalf("RootOf(3, %d) = %d undershoots", a, r)
		}
	}
}

func TestRationalExact(t *testing.T) {
	a := num.RatFromFrac(7, 2)
	b := num.RatFromFrac(1, 2)
	sum, _ := a.Add(b)
	if sum.Cmp(num.RatFromInt64(4)) != 0 {
		t.Errorf("7/2 + 1/2 = %s, want 4", sum)
	}

	prod, _ := a.Mul(b)
	if prod.Cmp(num.RatFromFrac(7, 4)) != 0 {
		t.Errorf("7/2 * 1/2 = %s, want 7/4", prod)
	}
}

func TestPowerOf(t *testing.T) {
	r, err := num.Int64Of(3).PowerOf(4)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := r.Int64(); got != 81 {
		t.Errorf("3^4 = %d, want 81", got)
	}
}
