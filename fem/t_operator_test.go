// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"testing"

	"github.com/Lance-Drane/adamantine/inp"
	"github.com/Lance-Drane/adamantine/msh"
	"github.com/Lance-Drane/adamantine/source"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

// testSim builds an in-memory simulation with one trivial material:
// rho = cp = 1 and isotropic unit conductivity in every state, so the
// operator output can be checked by hand
func testSim(method, btype string, sources []*source.Data) *inp.Simulation {
	sim := new(inp.Simulation)
	sim.Data = inp.Data{Desc: "test", Ndim: 2}
	sim.Geom = inp.GeometryData{Ncells: []int{1, 1}, Lengths: []float64{1, 1}, Height: 2.0, Tinit: 500}
	sim.Boundary = inp.BoundaryData{Type: btype}
	sim.Time.Method = method
	sim.Time.SetDefaults()
	sim.Time.DtFunc = &dbf.Cte{C: 0.1}
	sim.Sources = sources
	sim.Materials = inp.MatsData{{Name: "mat0", Prms: dbf.Params{
		{N: "solidus", V: 1000},
		{N: "liquidus", V: 1100},
		{N: "lheat", V: 50},
		{N: "rho_sld", V: 1}, {N: "rho_pdr", V: 1}, {N: "rho_liq", V: 1},
		{N: "cp_sld", V: 1}, {N: "cp_pdr", V: 1}, {N: "cp_liq", V: 1},
		{N: "kx_sld", V: 1}, {N: "kx_pdr", V: 1}, {N: "kx_liq", V: 1},
		{N: "ky_sld", V: 1}, {N: "ky_pdr", V: 1}, {N: "ky_liq", V: 1},
		{N: "kz_sld", V: 1}, {N: "kz_pdr", V: 1}, {N: "kz_liq", V: 1},
		{N: "hconv", V: 10}, {N: "tinf_conv", V: 300},
		{N: "emiss", V: 0.5}, {N: "tinf_rad", V: 300},
	}}}
	return sim
}

func Test_btype01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("btype01. boundary type parsing")

	for _, tc := range []struct {
		spec string
		bty  BoundaryType
		bad  bool
	}{
		{spec: "adiabatic", bty: Adiabatic},
		{spec: "convective", bty: Convective},
		{spec: "radiative", bty: Radiative},
		{spec: "convective,radiative", bty: Convective | Radiative},
		{spec: " radiative , convective ", bty: Convective | Radiative},
		{spec: "adiabatic,convective", bad: true},
		{spec: "insulated", bad: true},
		{spec: "", bad: true},
	} {
		bty, err := ParseBoundaryType(tc.spec)
		if tc.bad {
			require.Error(tst, err, "spec %q must fail", tc.spec)
			continue
		}
		require.NoError(tst, err, "spec %q must parse", tc.spec)
		require.Equal(tst, tc.bty, bty, "spec %q", tc.spec)
	}
}

func Test_op01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("op01. uniform temperature is a steady state")

	sim := testSim("forward_euler", "adiabatic", nil)
	m, err := msh.NewGrid(2, sim.Geom.Ncells, sim.Geom.Lengths)
	if err != nil {
		tst.Errorf("NewGrid failed:\n%v", err)
		return
	}
	phys, err := NewPhysics(sim, m)
	if err != nil {
		tst.Errorf("NewPhysics failed:\n%v", err)
		return
	}
	chk.IntAssert(phys.Dom.Ny, 4)

	res, err := phys.Eval(0, phys.Dom.Y)
	if err != nil {
		tst.Errorf("Eval failed:\n%v", err)
		return
	}
	chk.Vector(tst, "dT/dt @ uniform T", 1e-12, res, make([]float64, 4))
}

func Test_op02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("op02. Goldak source term quadrature")

	src := &source.Data{
		Kind: "goldak", Depth: 1.0, Radius: 0.5, MaxPower: 10, Absorption: 1,
		Path: []*source.Segment{{EndTime: 1, X: 1.0, Y: 0, Z: 1.0, Power: 1}},
	}
	sim := testSim("forward_euler", "adiabatic", []*source.Data{src})
	sim.Geom.Ncells = []int{2, 1}
	sim.Geom.Lengths = []float64{2, 1}
	sim.Geom.Height = 1.0 // the deposit front sits on top of the strip

	m, err := msh.NewGrid(2, sim.Geom.Ncells, sim.Geom.Lengths)
	if err != nil {
		tst.Errorf("NewGrid failed:\n%v", err)
		return
	}
	phys, err := NewPhysics(sim, m)
	if err != nil {
		tst.Errorf("NewPhysics failed:\n%v", err)
		return
	}

	// with uniform T, rho = cp = 1 and no boundary flux, the sum of the
	// residual over all equations reduces to the quadrature of the source
	res := make([]float64, phys.Dom.Ny)
	err = phys.Op.Apply(0, phys.Height, phys.Dom.Y, res)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}
	total := 0.0
	for _, r := range res {
		total += r
	}

	// independent quadrature of the beam over the same points
	hs := phys.Sources[0]
	hs.UpdateTime(0)
	correct := 0.0
	shp := m.Shp
	for _, c := range m.Cells {
		X := m.CellX(c)
		for _, ip := range shp.IpsElem {
			err = shp.CalcAtIp(X, ip, true)
			if err != nil {
				tst.Errorf("CalcAtIp failed:\n%v", err)
				return
			}
			x := make([]float64, 2)
			for v := 0; v < shp.Nverts; v++ {
				x[0] += shp.S[v] * X[0][v]
				x[1] += shp.S[v] * X[1][v]
			}
			correct += shp.J * ip[3] * hs.Value(x, phys.Height)
		}
	}
	io.Pforan("deposited power = %v\n", total)
	chk.Scalar(tst, "sum(res) == integral of source", 1e-12, total, correct)
	if total <= 0 {
		tst.Errorf("beam must deposit positive power")
		return
	}
}

func Test_op03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("op03. convective cooling of a hot cell")

	sim := testSim("forward_euler", "convective", nil)
	m, err := msh.NewGrid(2, sim.Geom.Ncells, sim.Geom.Lengths)
	if err != nil {
		tst.Errorf("NewGrid failed:\n%v", err)
		return
	}
	phys, err := NewPhysics(sim, m)
	if err != nil {
		tst.Errorf("NewPhysics failed:\n%v", err)
		return
	}

	// T > Tinf on every boundary face: all dofs must cool down
	res, err := phys.Eval(0, phys.Dom.Y)
	if err != nil {
		tst.Errorf("Eval failed:\n%v", err)
		return
	}
	for i, r := range res {
		if r >= 0 {
			tst.Errorf("dof %d must cool, got dT/dt = %g", i, r)
			return
		}
	}

	// unit square, unit properties, uniform T: the residual sums to the
	// total boundary flux -h·(T - Tinf)·perimeter
	raw := make([]float64, phys.Dom.Ny)
	err = phys.Op.Apply(0, phys.Height, phys.Dom.Y, raw)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}
	total := 0.0
	for _, r := range raw {
		total += r
	}
	chk.Scalar(tst, "total convective flux", 1e-10, total, -10.0*(500.0-300.0)*4.0)
}

func Test_op04(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("op04. radiative cooling of a hot cell")

	sim := testSim("forward_euler", "radiative", nil)
	m, err := msh.NewGrid(2, sim.Geom.Ncells, sim.Geom.Lengths)
	if err != nil {
		tst.Errorf("NewGrid failed:\n%v", err)
		return
	}
	phys, err := NewPhysics(sim, m)
	if err != nil {
		tst.Errorf("NewPhysics failed:\n%v", err)
		return
	}

	// unit square, uniform T: the residual sums to the total radiative flux
	// -h_rad(T)·(T - Tinf)·perimeter
	raw := make([]float64, phys.Dom.Ny)
	err = phys.Op.Apply(0, phys.Height, phys.Dom.Y, raw)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}
	total := 0.0
	for _, r := range raw {
		total += r
	}
	hrad := phys.Dom.Mats[0].HradCoef(500.0)
	io.Pforan("h_rad(500) = %v\n", hrad)
	chk.Scalar(tst, "total radiative flux", 1e-5, total, -hrad*(500.0-300.0)*4.0)
}

func Test_op05(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("op05. rotating the deposition frame 90 degrees swaps kx and ky")

	build := func(kx, ky float64) *Physics {
		sim := testSim("forward_euler", "adiabatic", nil)
		sim.Data.Ndim = 3
		sim.Geom.Ncells = []int{1, 1, 1}
		sim.Geom.Lengths = []float64{1, 1, 1}
		for _, p := range sim.Materials[0].Prms {
			switch p.N {
			case "kx_sld", "kx_pdr", "kx_liq":
				p.V = kx
			case "ky_sld", "ky_pdr", "ky_liq":
				p.V = ky
			}
		}
		m, err := msh.NewGrid(3, sim.Geom.Ncells, sim.Geom.Lengths)
		if err != nil {
			tst.Errorf("NewGrid failed:\n%v", err)
			return nil
		}
		phys, err := NewPhysics(sim, m)
		if err != nil {
			tst.Errorf("NewPhysics failed:\n%v", err)
			return nil
		}
		for v, eq := range phys.Dom.EqMap {
			x := m.Verts[v].X
			phys.Dom.Y[eq] = 300.0 + 10.0*x[0] + 20.0*x[1]
		}
		return phys
	}

	// beam along x with the in-plane conductivities swapped
	ref := build(2.0, 4.0)
	if ref == nil {
		return
	}
	resRef := make([]float64, ref.Dom.Ny)
	err := ref.Op.Apply(0, ref.Height, ref.Dom.Y, resRef)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}

	// beam along y
	rot := build(4.0, 2.0)
	if rot == nil {
		return
	}
	rot.Op.DepCos[0] = 0.0
	rot.Op.DepSin[0] = 1.0
	resRot := make([]float64, rot.Dom.Ny)
	err = rot.Op.Apply(0, rot.Height, rot.Dom.Y, resRot)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}
	chk.Vector(tst, "rotated residual", 1e-15, resRot, resRef)
}

func Test_op06(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("op06. constrained equations carry the value through")

	src := &source.Data{
		Kind: "cube", MaxPower: 100, Absorption: 1,
		TStart: -1, TEnd: 1, BoxMin: []float64{-1, -1}, BoxMax: []float64{2, 3},
	}
	sim := testSim("forward_euler", "convective", []*source.Data{src})
	m, err := msh.NewGrid(2, sim.Geom.Ncells, sim.Geom.Lengths)
	if err != nil {
		tst.Errorf("NewGrid failed:\n%v", err)
		return
	}
	phys, err := NewPhysics(sim, m)
	if err != nil {
		tst.Errorf("NewPhysics failed:\n%v", err)
		return
	}

	// pretend the mesh reported a hanging-node equation
	phys.Dom.ConEqs = []int{0}
	phys.InvM = ComputeInverseMass(phys.Dom)
	chk.Scalar(tst, "inverse mass of the constrained eq", 1e-15, phys.InvM[0], 1.0)

	res := make([]float64, phys.Dom.Ny)
	err = phys.Op.Apply(0, phys.Height, phys.Dom.Y, res)
	if err != nil {
		tst.Errorf("Apply failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "constrained eq", 1e-17, res[0], phys.Dom.Y[0])
	if res[1] == phys.Dom.Y[1] {
		tst.Errorf("unconstrained equations must accumulate source and flux terms")
		return
	}
}
