// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements the thermal core of an additive manufacturing
// simulation: matrix-free residual evaluation with phase change, lumped mass,
// Jacobian-free implicit stage solves, domain activation with state transfer,
// and the time loop driving them
package fem

import (
	"github.com/Lance-Drane/adamantine/inp"
	"github.com/Lance-Drane/adamantine/msh"
	"github.com/Lance-Drane/adamantine/source"
	"github.com/Lance-Drane/adamantine/tim"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

// Physics drives the transient heat conduction problem: it owns the time
// integration state and glues the residual operator, the inverse mass, the
// implicit solver and the activation protocol together
type Physics struct {

	// essential
	Sim     *inp.Simulation
	Dom     *Domain
	Op      *ThermalOperator
	Sources []source.Source

	// solvers
	Rk   tim.RungeKutta
	Imp  *ImplicitOperator
	Gms  *Gmres
	InvM []float64

	// time integration state
	Time     float64
	Height   float64 // current height of the deposition front
	embedded bool
}

// NewPhysics builds the whole problem from the input data. Configuration
// errors (unknown scheme, boundary token or source kind) are fatal and
// reported here.
func NewPhysics(sim *inp.Simulation, m *msh.Mesh) (o *Physics, err error) {
	o = new(Physics)
	o.Sim = sim

	// boundary type
	bty, err := ParseBoundaryType(sim.Boundary.Type)
	if err != nil {
		return nil, err
	}

	// heat sources
	o.Sources = make([]source.Source, len(sim.Sources))
	for i, dat := range sim.Sources {
		o.Sources[i], err = source.New(dat)
		if err != nil {
			return nil, err
		}
	}

	// domain: material below the initial height is deposited and solid
	o.Dom, err = NewDomain(sim, m)
	if err != nil {
		return nil, err
	}
	m.SetActiveBelow(sim.Geom.Height)
	o.Dom.SetDofs()
	la.VecFill(o.Dom.Y, sim.Geom.Tinit)
	o.Height = sim.Geom.Height

	// operators
	o.Op = NewThermalOperator(o.Dom, bty, o.Sources)
	o.InvM = ComputeInverseMass(o.Dom)

	// time integration
	cfg := &tim.Config{
		CoarsenParam: sim.Time.CoarsenParam,
		RefineParam:  sim.Time.RefineParam,
		DtMin:        sim.Time.DtMin,
		DtMax:        sim.Time.DtMax,
		RefineTol:    sim.Time.RefineTol,
		CoarsenTol:   sim.Time.CoarsenTol,
		NewtonMaxIt:  sim.Time.NewtonMaxIt,
		NewtonTol:    sim.Time.NewtonTol,
	}
	o.Rk, err = tim.New(sim.Time.Method, cfg)
	if err != nil {
		return nil, err
	}
	o.embedded = tim.IsEmbedded(sim.Time.Method)
	o.Gms = &Gmres{M: sim.Time.NtmpVectors, MaxIt: sim.Time.MaxIt, Tol: sim.Time.Tol}
	o.Imp = NewImplicitOperator(o.Op, o.InvM, sim.Time.Jfnk)
	return
}

// Eval computes dT/dt = M⁻¹·residual(t, y). This is the right-hand-side
// callback handed to the time integrator.
func (o *Physics) Eval(t float64, y []float64) (res []float64, err error) {
	res = make([]float64, o.Dom.Ny)
	err = o.Op.Apply(t, o.Height, y, res)
	if err != nil {
		return nil, err
	}
	for i := range res {
		res[i] *= o.InvM[i]
	}
	return
}

// JInverse solves the stage equation (I - tau·M⁻¹·J) x = b around the
// current solution. This is the Jacobian-action callback handed to implicit
// schemes. Krylov non-convergence comes back as a non-fatal error.
func (o *Physics) JInverse(t, tau float64, b []float64) (x []float64, err error) {
	err = o.Imp.Reset(t, tau, o.Height, o.Dom.Y)
	if err != nil {
		return nil, err
	}
	x = make([]float64, len(b))
	_, err = o.Gms.Solve(o.Imp.MulOp, x, b)
	if err != nil {
		return nil, err
	}
	return
}

// EvolveOneTimeStep advances the solution by one step of at most dt and
// returns the time actually reached. The shared source height is recomputed
// as the maximum over all sources; sources at different heights interact
// through this single value, a known simplification.
func (o *Physics) EvolveOneTimeStep(dt float64) (err error) {
	for i, hs := range o.Sources {
		hs.UpdateTime(o.Time)
		h := hs.CurrentHeight(o.Time)
		if i == 0 || h > o.Height {
			o.Height = h
		}
	}
	err = o.depositToHeight()
	if err != nil {
		return
	}
	o.Time, err = o.Rk.Step(o.Eval, o.JInverse, o.Time, dt, o.Dom.Y)
	if err != nil {
		return
	}
	o.MarkHasMelted()
	return
}

// depositToHeight activates the inactive cells that fell below the material
// front, at the deposition temperature from the input and with the
// conductivity frame oriented along the current scan direction
func (o *Physics) depositToHeight() (err error) {
	m := o.Dom.Msh
	var cells []int
	for _, c := range m.Cells {
		if !c.Active && m.Centroid(c)[m.Ndim-1] < o.Height {
			cells = append(cells, c.Id)
		}
	}
	if len(cells) == 0 {
		return
	}
	cosdir, sindir := 1.0, 0.0
	if len(o.Sources) > 0 {
		cosdir, sindir = o.Sources[0].ScanDirection(o.Time)
	}
	groups := []*ActivationGroup{{Cells: cells, DepositionCos: cosdir, DepositionSin: sindir}}
	return o.AddMaterial(groups, 0, 1, o.Sim.Geom.Tdeposit)
}

// Run implements the time loop from the current time up to tf. dtFunc gives
// the step size; embedded schemes override it with their own guess once one
// step has been accepted. A failed stage solve under a fixed-step scheme has
// no recovery path and aborts the run.
func (o *Physics) Run(tf float64, dtFunc dbf.T, verbose bool) (err error) {
	for o.Time < tf-1e-14 {
		dt := dtFunc.F(o.Time, nil)
		if o.embedded {
			if g := o.Rk.DeltaTGuess(); g > 0 {
				dt = g
			}
		}
		if o.Time+dt > tf {
			dt = tf - o.Time
		}
		err = o.EvolveOneTimeStep(dt)
		if err != nil {
			return chk.Err("time loop aborted at t=%g:\n%v", o.Time, err)
		}
		if verbose {
			io.Pf("t = %-14g dt = %-14g Tmax = %g\n", o.Time, dt, la.VecLargest(o.Dom.Y, 1))
		}
	}
	return
}

// MarkHasMelted sets the melt-history flag of every active cell whose
// volume-averaged temperature exceeds the material melt threshold. The flag
// is monotone: it is never cleared.
func (o *Physics) MarkHasMelted() {
	m := o.Dom.Msh
	shp := m.Shp
	for _, c := range m.Cells {
		if !c.Active || o.Op.HasMelted[c.Id] {
			continue
		}
		mat := o.Dom.Material(c)
		X := m.CellX(c)
		eqs := o.Dom.CellEqs(c)
		num, den := 0.0, 0.0
		for _, ip := range shp.IpsElem {
			err := shp.CalcAtIp(X, ip, true)
			if err != nil {
				chk.Panic("melt marking failed on cell %d:\n%v", c.Id, err)
			}
			coef := shp.J * ip[3]
			tq := 0.0
			for v, eq := range eqs {
				tq += shp.S[v] * o.Dom.Y[eq]
			}
			num += coef * tq
			den += coef
		}
		if num/den > mat.Tmelt {
			o.Op.HasMelted[c.Id] = true
		}
	}
}
