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

package term

import "github.com/spjmurray/go-sls-arith/pkg/num"

// Op is a unary operation node: var = kind(arg1, arg2). Division by zero
// in every kind below evaluates to 0 rather than erroring, per the
// source algorithm's unary op semantics table.
type Op[N num.Num[N]] struct {
	Var  VarID
	Kind OpKind
	Arg1 VarID
	Arg2 VarID
}

// Eval recomputes the op's value from current argument values.
func (o *Op[N]) Eval(valueOf func(VarID) N) (N, error) {
	x := valueOf(o.Arg1)
	y := valueOf(o.Arg2)

	switch o.Kind {
	case OpMod:
		if y.IsZero() {
			return y.FromInt(0), nil
		}
		return x.Mod(y), nil
	case OpRem:
		if y.IsZero() {
			return y.FromInt(0), nil
		}
		return x.Rem(y), nil
	case OpIDiv:
		if y.IsZero() {
			return y.FromInt(0), nil
		}
		return x.DivFloor(y)
	case OpDiv:
		if y.IsZero() {
			return y.FromInt(0), nil
		}
		return x.Quo(y)
	case OpAbs:
		return x.Abs(), nil
	case OpPower:
		k, ok := y.Int64()
		if !ok || k < 0 {
			return x.FromInt(0), ErrNotImplemented
		}
		return x.PowerOf(uint(k))
	case OpToInt:
		return x, nil
	case OpToReal:
		return x, nil
	default:
		return x.FromInt(0), ErrNotImplemented
	}
}
