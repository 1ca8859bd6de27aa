// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
)

// ImplicitOperator realises the stage operator x -> x - tau·M⁻¹·J·x of the
// implicit time integration, where J is the Jacobian of the thermal residual
// around a linearisation state. The Jacobian action is matrix-free: either a
// scaled directional derivative (jfnk) or a single difference around the
// frozen state. Powder ratios perturbed by the probing evaluations are
// restored, so the monotone phase history only advances through real
// residual calls.
type ImplicitOperator struct {

	// essential
	Op   *ThermalOperator
	InvM []float64
	Jfnk bool

	// linearisation state
	Tau    float64
	T      float64
	Height float64
	y0     []float64
	r0     []float64
	ny0    float64

	// scratch
	yp      []float64
	rp      []float64
	pdrSave [][]float64
}

// NewImplicitOperator allocates the stage operator
func NewImplicitOperator(op *ThermalOperator, invM []float64, jfnk bool) *ImplicitOperator {
	return &ImplicitOperator{Op: op, InvM: invM, Jfnk: jfnk}
}

// Reset fixes the linearisation state for the next stage solve: the base
// residual is evaluated once and cached
func (o *ImplicitOperator) Reset(t, tau, height float64, y0 []float64) (err error) {
	n := len(y0)
	if len(o.y0) != n {
		o.y0 = make([]float64, n)
		o.r0 = make([]float64, n)
		o.yp = make([]float64, n)
		o.rp = make([]float64, n)
	}
	o.T, o.Tau, o.Height = t, tau, height
	copy(o.y0, y0)
	o.ny0 = vnorm(y0)
	o.savePowder()
	err = o.Op.Apply(t, height, o.y0, o.r0)
	o.restorePowder()
	if err != nil {
		return
	}
	for i := 0; i < n; i++ {
		o.r0[i] *= o.InvM[i]
	}
	return
}

// MulOp computes dst = x - tau·M⁻¹·J·x. Errors in the probing evaluation
// leave dst = x (the identity), which stalls rather than corrupts the
// enclosing Krylov iteration.
func (o *ImplicitOperator) MulOp(dst, x []float64) {
	n := len(x)
	copy(dst, x)
	nx := vnorm(x)
	if nx == 0 {
		return
	}

	// probe step: one full difference for the frozen variant, a scaled
	// directional derivative for jfnk
	eps := 1.0
	if o.Jfnk {
		u := math.Nextafter(1, 2) - 1
		eps = math.Sqrt(u) * (1.0 + o.ny0) / nx
	}

	for i := 0; i < n; i++ {
		o.yp[i] = o.y0[i] + eps*x[i]
	}
	o.savePowder()
	err := o.Op.Apply(o.T, o.Height, o.yp, o.rp)
	o.restorePowder()
	if err != nil {
		return
	}
	for i := 0; i < n; i++ {
		jx := (o.rp[i]*o.InvM[i] - o.r0[i]) / eps
		dst[i] = x[i] - o.Tau*jx
	}
}

// savePowder snapshots the powder ratios before a probing evaluation
func (o *ImplicitOperator) savePowder() {
	pdr := o.Op.PowderRatio
	if len(o.pdrSave) != len(pdr) {
		o.pdrSave = make([][]float64, len(pdr))
		for i := range pdr {
			o.pdrSave[i] = make([]float64, len(pdr[i]))
		}
	}
	for i := range pdr {
		copy(o.pdrSave[i], pdr[i])
	}
}

// restorePowder undoes the ratio updates of a probing evaluation
func (o *ImplicitOperator) restorePowder() {
	for i := range o.pdrSave {
		copy(o.Op.PowderRatio[i], o.pdrSave[i])
	}
}
