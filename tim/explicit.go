// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tim

// Explicit implements fixed-step explicit Runge-Kutta schemes
type Explicit struct {
	tab     *Tableau
	dtGuess float64
}

// Step advances y from t to t+dt
func (o *Explicit) Step(f RhsFunc, jinv StageFunc, t, dt float64, y []float64) (float64, error) {
	ns := len(o.tab.B)
	k := make([][]float64, ns)
	ytmp := make([]float64, len(y))
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
	for i := 0; i < ns; i++ {
		addScaled(y, dt*o.tab.B[i], k[i])
	}
	o.dtGuess = dt
	return t + dt, nil
}

// DeltaTGuess returns the configured step unchanged
func (o *Explicit) DeltaTGuess() float64 { return o.dtGuess }

// addScaled computes y += a·x
func addScaled(y []float64, a float64, x []float64) {
	for i := 0; i < len(y); i++ {
		y[i] += a * x[i]
	}
}
