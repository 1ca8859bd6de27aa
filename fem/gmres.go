// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Gmres implements the restarted generalised minimal residual method over an
// operator-action callback. The preconditioner is the identity; a real
// preconditioner is future work. Non-convergence within MaxIt iterations is
// reported as an error the caller may treat as a step rejection.
type Gmres struct {
	M     int     // restart length (number of temporary vectors)
	MaxIt int     // total iteration cap
	Tol   float64 // relative tolerance on the residual
}

// Solve finds x such that mulOp(dst, x) approximates b within Tol·‖b‖.
// x carries the initial guess in and the solution out.
func (o *Gmres) Solve(mulOp func(dst, x []float64), x, b []float64) (nit int, err error) {
	n := len(b)
	tol := o.Tol * vnorm(b)
	if tol == 0 {
		vfill(x, 0)
		return
	}

	// Krylov basis and Hessenberg factorisation
	v := make([][]float64, o.M+1)
	for i := range v {
		v[i] = make([]float64, n)
	}
	h := make([][]float64, o.M+1)
	for i := range h {
		h[i] = make([]float64, o.M)
	}
	cs := make([]float64, o.M)
	sn := make([]float64, o.M)
	g := make([]float64, o.M+1)
	w := make([]float64, n)

	for nit < o.MaxIt {

		// residual of the current guess
		mulOp(w, x)
		for i := 0; i < n; i++ {
			v[0][i] = b[i] - w[i]
		}
		beta := vnorm(v[0])
		if beta <= tol {
			return
		}
		for i := 0; i < n; i++ {
			v[0][i] /= beta
		}
		vfill(g, 0)
		g[0] = beta

		// Arnoldi with Givens rotations
		k := 0
		for ; k < o.M && nit < o.MaxIt; k++ {
			nit++
			mulOp(w, v[k])
			for j := 0; j <= k; j++ {
				h[j][k] = vdot(w, v[j])
				for i := 0; i < n; i++ {
					w[i] -= h[j][k] * v[j][i]
				}
			}
			h[k+1][k] = vnorm(w)
			if h[k+1][k] > 0 {
				for i := 0; i < n; i++ {
					v[k+1][i] = w[i] / h[k+1][k]
				}
			}

			// apply previous rotations to the new column
			for j := 0; j < k; j++ {
				t := cs[j]*h[j][k] + sn[j]*h[j+1][k]
				h[j+1][k] = -sn[j]*h[j][k] + cs[j]*h[j+1][k]
				h[j][k] = t
			}

			// new rotation annihilating h[k+1][k]
			r := math.Hypot(h[k][k], h[k+1][k])
			if r == 0 {
				cs[k], sn[k] = 1, 0
			} else {
				cs[k], sn[k] = h[k][k]/r, h[k+1][k]/r
			}
			h[k][k] = r
			h[k+1][k] = 0
			g[k+1] = -sn[k] * g[k]
			g[k] = cs[k] * g[k]

			if math.Abs(g[k+1]) <= tol {
				k++
				break
			}
		}

		// back substitution and update
		yk := make([]float64, k)
		for j := k - 1; j >= 0; j-- {
			s := g[j]
			for l := j + 1; l < k; l++ {
				s -= h[j][l] * yk[l]
			}
			yk[j] = s / h[j][j]
		}
		for j := 0; j < k; j++ {
			for i := 0; i < n; i++ {
				x[i] += yk[j] * v[j][i]
			}
		}

		if math.Abs(g[k]) <= tol {
			return
		}
	}
	return nit, chk.Err("gmres did not converge within %d iterations", o.MaxIt)
}

// vector helpers kept local to avoid allocations in the solver loop

func vnorm(v []float64) float64 {
	s := 0.0
	for i := 0; i < len(v); i++ {
		s += v[i] * v[i]
	}
	return math.Sqrt(s)
}

func vdot(u, v []float64) float64 {
	s := 0.0
	for i := 0; i < len(u); i++ {
		s += u[i] * v[i]
	}
	return s
}

func vfill(v []float64, val float64) {
	for i := range v {
		v[i] = val
	}
}
