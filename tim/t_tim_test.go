// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tim

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func Test_tableau01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("tableau01. Butcher consistency conditions")

	for name, tab := range tableaus {

		// weights sum to one
		sum := 0.0
		for _, b := range tab.B {
			sum += b
		}
		chk.Scalar(tst, io.Sf("%s: sum(B)", name), 1e-14, sum, 1.0)
		if tab.Bhat != nil {
			sum = 0.0
			for _, b := range tab.Bhat {
				sum += b
			}
			chk.Scalar(tst, io.Sf("%s: sum(Bhat)", name), 1e-14, sum, 1.0)
		}

		// row sums match the stage times
		for i, row := range tab.A {
			rs := 0.0
			for _, a := range row {
				rs += a
			}
			chk.Scalar(tst, io.Sf("%s: row %d", name, i), 1e-14, rs, tab.C[i])
		}
	}
}

func Test_tim01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("tim01. explicit schemes on dy/dt = -y")

	f := func(t float64, y []float64) ([]float64, error) {
		return []float64{-y[0]}, nil
	}

	// convergence order: halving the step divides the error by 2^order
	for _, tc := range []struct {
		method string
		order  float64
	}{
		{"forward_euler", 1},
		{"rk_third_order", 3},
		{"rk_fourth_order", 4},
	} {
		errs := make([]float64, 2)
		for k, n := range []int{50, 100} {
			rk, err := New(tc.method, nil)
			if err != nil {
				tst.Errorf("New failed:\n%v", err)
				return
			}
			y := []float64{1}
			t, dt := 0.0, 1.0/float64(n)
			for i := 0; i < n; i++ {
				t, err = rk.Step(f, nil, t, dt, y)
				if err != nil {
					tst.Errorf("Step failed:\n%v", err)
					return
				}
			}
			chk.Scalar(tst, io.Sf("%s: final time", tc.method), 1e-12, t, 1.0)
			errs[k] = math.Abs(y[0] - math.Exp(-1.0))
		}
		p := math.Log2(errs[0] / errs[1])
		io.Pforan("%-16s observed order = %.3f\n", tc.method, p)
		if p < tc.order-0.2 {
			tst.Errorf("%s converges with order %.3f, expected about %g", tc.method, p, tc.order)
			return
		}
	}
}

func Test_tim02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("tim02. backward Euler matches the closed form")

	f := func(t float64, y []float64) ([]float64, error) {
		return []float64{-2.0 * y[0]}, nil
	}
	// for dy/dt = a·y the stage solve (I - tau·a) z = r is scalar
	jinv := func(t, tau float64, b []float64) ([]float64, error) {
		return []float64{b[0] / (1.0 + 2.0*tau)}, nil
	}

	rk, err := New("backward_euler", nil)
	if err != nil {
		tst.Errorf("New failed:\n%v", err)
		return
	}
	y := []float64{1}
	dt := 0.1
	tnew, err := rk.Step(f, jinv, 0, dt, y)
	if err != nil {
		tst.Errorf("Step failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "tnew", 1e-15, tnew, dt)
	// one backward Euler step of dy/dt = -2y is y/(1+2·dt)
	chk.Scalar(tst, "y after one step", 1e-9, y[0], 1.0/1.2)
}

func Test_tim03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("tim03. implicit schemes on dy/dt = -y")

	f := func(t float64, y []float64) ([]float64, error) {
		return []float64{-y[0]}, nil
	}
	jinv := func(t, tau float64, b []float64) ([]float64, error) {
		return []float64{b[0] / (1.0 + tau)}, nil
	}

	for _, method := range []string{"backward_euler", "implicit_midpoint", "crank_nicolson", "sdirk2"} {
		rk, err := New(method, nil)
		if err != nil {
			tst.Errorf("New failed:\n%v", err)
			return
		}
		y := []float64{1}
		t, dt := 0.0, 0.01
		for i := 0; i < 100; i++ {
			t, err = rk.Step(f, jinv, t, dt, y)
			if err != nil {
				tst.Errorf("%s: Step failed:\n%v", method, err)
				return
			}
		}
		chk.Scalar(tst, io.Sf("%s: final time", method), 1e-12, t, 1.0)
		chk.Scalar(tst, io.Sf("%s: y(1)", method), 1e-2, y[0], math.Exp(-1.0))
	}
}

func Test_tim04(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("tim04. embedded scheme rejects an oversized step")

	// stiff decay makes a large heun_euler step inaccurate
	f := func(t float64, y []float64) ([]float64, error) {
		return []float64{-50.0 * y[0]}, nil
	}

	cfg := &Config{RefineTol: 1e-6}
	rk, err := New("heun_euler", cfg)
	if err != nil {
		tst.Errorf("New failed:\n%v", err)
		return
	}
	emb := rk.(*Embedded)

	y := []float64{1}
	tnew, err := rk.Step(f, nil, 0, 0.5, y)
	if err != nil {
		tst.Errorf("Step failed:\n%v", err)
		return
	}
	io.Pforan("accepted=%d rejected=%d tnew=%g\n", emb.NAccepted, emb.NRejected, tnew)
	chk.IntAssert(emb.NAccepted, 1)
	if emb.NRejected < 1 {
		tst.Errorf("the first attempt with dt=0.5 must be rejected")
		return
	}
	if tnew >= 0.5 || tnew <= 0 {
		tst.Errorf("reached time %g must equal the accepted step, smaller than 0.5", tnew)
		return
	}
	if rk.DeltaTGuess() <= 0 {
		tst.Errorf("step-size guess must be positive")
		return
	}
}

func Test_tim05(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("tim05. factory and scheme classification")

	if _, err := New("leapfrog", nil); err == nil {
		tst.Errorf("unknown method must fail")
		return
	}
	chk.IntAssert(boolToInt(IsEmbedded("dopri")), 1)
	chk.IntAssert(boolToInt(IsEmbedded("rk_fourth_order")), 0)
	chk.IntAssert(boolToInt(IsImplicit("sdirk2")), 1)
	chk.IntAssert(boolToInt(IsImplicit("cash_karp")), 0)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
