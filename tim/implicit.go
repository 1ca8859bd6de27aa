// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tim

import (
	"github.com/cpmech/gosl/chk"
)

// Implicit implements diagonally-implicit Runge-Kutta schemes. Each stage
// with a nonzero diagonal coefficient is solved by Newton iteration; the
// linear correction comes from the caller's (I - tau·J)⁻¹ callback. A stage
// that fails to converge is reported as a non-fatal error and leaves y
// untouched.
type Implicit struct {
	tab     *Tableau
	cfg     *Config
	dtGuess float64
}

// Step advances y from t to t+dt
func (o *Implicit) Step(f RhsFunc, jinv StageFunc, t, dt float64, y []float64) (float64, error) {
	ns := len(o.tab.B)
	k := make([][]float64, ns)
	ybase := make([]float64, len(y))
	ystage := make([]float64, len(y))
	r := make([]float64, len(y))

	for i := 0; i < ns; i++ {
		ti := t + o.tab.C[i]*dt
		copy(ybase, y)
		for j := 0; j < i; j++ {
			if o.tab.A[i][j] == 0 {
				continue
			}
			addScaled(ybase, dt*o.tab.A[i][j], k[j])
		}

		// explicit first stage of e.g. Crank-Nicolson
		tau := dt * o.tab.A[i][i]
		if tau == 0 {
			ki, err := f(ti, ybase)
			if err != nil {
				return t, err
			}
			k[i] = ki
			continue
		}

		// Newton iteration on  g(z) = z - ybase - tau·f(ti, z)
		copy(ystage, ybase)
		converged := false
		for it := 0; it < o.cfg.NewtonMaxIt; it++ {
			fy, err := f(ti, ystage)
			if err != nil {
				return t, err
			}
			for m := 0; m < len(r); m++ {
				r[m] = ystage[m] - ybase[m] - tau*fy[m]
			}
			if norm(r) < o.cfg.NewtonTol {
				k[i] = fy
				converged = true
				break
			}
			d, err := jinv(ti, tau, r)
			if err != nil {
				return t, err
			}
			for m := 0; m < len(ystage); m++ {
				ystage[m] -= d[m]
			}
		}
		if !converged {
			return t, chk.Err("implicit stage %d did not converge within %d Newton iterations", i, o.cfg.NewtonMaxIt)
		}
	}

	for i := 0; i < ns; i++ {
		addScaled(y, dt*o.tab.B[i], k[i])
	}
	o.dtGuess = dt
	return t + dt, nil
}

// DeltaTGuess returns the configured step unchanged
func (o *Implicit) DeltaTGuess() float64 { return o.dtGuess }
