// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tim

import (
	"math"
)

// Embedded implements adaptive-step explicit Runge-Kutta schemes with an
// embedded lower-order error estimate. A step whose error exceeds the
// refining tolerance is rejected and retried with a smaller step; the time
// actually reached is returned, which may differ from t+dt.
type Embedded struct {
	tab     *Tableau
	cfg     *Config
	dtGuess float64

	// step statistics
	NAccepted int
	NRejected int
	LastError float64
}

// Step advances y from t by at most dt, adapting the step size
func (o *Embedded) Step(f RhsFunc, jinv StageFunc, t, dt float64, y []float64) (float64, error) {
	ns := len(o.tab.B)
	k := make([][]float64, ns)
	ynew := make([]float64, len(y))
	ytmp := make([]float64, len(y))
	errv := make([]float64, len(y))

	dt = math.Min(math.Max(dt, o.cfg.DtMin), o.cfg.DtMax)
	for {
		for i := 0; i < ns; i++ {
			copy(ytmp, y)
			for j := 0; j < i; j++ {
				if o.tab.A[i][j] == 0 {
					continue
				}
				addScaled(ytmp, dt*o.tab.A[i][j], k[j])
			}
			ki, err := f(t+o.tab.C[i]*dt, ytmp)
			if err != nil {
				return t, err
			}
			k[i] = ki
		}

		// higher-order solution and error estimate
		copy(ynew, y)
		for i := 0; i < len(errv); i++ {
			errv[i] = 0
		}
		for i := 0; i < ns; i++ {
			addScaled(ynew, dt*o.tab.B[i], k[i])
			addScaled(errv, dt*(o.tab.B[i]-o.tab.Bhat[i]), k[i])
		}
		o.LastError = norm(errv)

		if o.LastError <= o.cfg.RefineTol || dt <= o.cfg.DtMin {
			break
		}

		// reject: discard the stages and retry with a smaller step
		o.NRejected++
		dt = math.Max(dt*o.cfg.RefineParam, o.cfg.DtMin)
	}
	o.NAccepted++

	// suggest the next step size
	if o.LastError < o.cfg.CoarsenTol {
		o.dtGuess = dt * o.cfg.CoarsenParam
	} else {
		o.dtGuess = dt
	}
	o.dtGuess = math.Min(math.Max(o.dtGuess, o.cfg.DtMin), o.cfg.DtMax)

	copy(y, ynew)
	return t + dt, nil
}

// DeltaTGuess returns the suggested size for the next step
func (o *Embedded) DeltaTGuess() float64 { return o.dtGuess }

// norm returns the l2 norm
func norm(v []float64) float64 {
	s := 0.0
	for i := 0; i < len(v); i++ {
		s += v[i] * v[i]
	}
	return math.Sqrt(s)
}
