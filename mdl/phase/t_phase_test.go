// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package phase

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

func testMat() *Material {
	return &Material{
		Solidus: 1000, Liquidus: 1200, Lheat: 2e5, Tmelt: 1000,
		RhoSld: 8000, RhoPdr: 4000, RhoLiq: 7500,
		CpSld: 500, CpPdr: 500, CpLiq: 600,
		KxSld: 20, KxPdr: 1, KxLiq: 30,
		KySld: 15, KyPdr: 1, KyLiq: 30,
		KzSld: 10, KzPdr: 1, KzLiq: 30,
	}
}

func Test_phase01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("phase01. ratios sum to one and stay in [0,1]")

	mat := testMat()
	T := utl.LinSpace(200, 2200, 101)
	liq := make([]float64, len(T))
	pdr := make([]float64, len(T))
	sld := make([]float64, len(T))
	for i := range pdr {
		pdr[i] = 1.0 // everything starts as powder
	}
	mat.UpdateRatios(T, liq, pdr, sld)
	for i := range T {
		chk.Scalar(tst, io.Sf("sum @ T=%g", T[i]), 1e-12, liq[i]+pdr[i]+sld[i], 1.0)
		if liq[i] < 0 || liq[i] > 1 || pdr[i] < 0 || pdr[i] > 1 || sld[i] < 0 || sld[i] > 1 {
			tst.Errorf("ratio out of [0,1] at T=%g: l=%g p=%g s=%g", T[i], liq[i], pdr[i], sld[i])
			return
		}
	}
}

func Test_phase02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("phase02. liquid ratio is a clamped linear ramp")

	mat := testMat()
	T := []float64{0, 999.999, 1000, 1050, 1100, 1150, 1200, 1201, 5000}
	liq := make([]float64, len(T))
	pdr := make([]float64, len(T))
	sld := make([]float64, len(T))
	mat.UpdateRatios(T, liq, pdr, sld)
	chk.Vector(tst, "liquid", 1e-15, liq, []float64{0, 0, 0, 0.25, 0.5, 0.75, 1, 1, 1})

	// monotone between solidus and liquidus
	for i := 1; i < len(T); i++ {
		if liq[i] < liq[i-1] {
			tst.Errorf("liquid ratio not monotone: l(%g)=%g < l(%g)=%g", T[i], liq[i], T[i-1], liq[i-1])
			return
		}
	}
}

func Test_phase03(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("phase03. powder only melts, it never re-forms")

	mat := testMat()
	liq := []float64{0}
	pdr := []float64{1}
	sld := []float64{0}
	history := []float64{300, 900, 1100, 1250, 1100, 900, 300, 1100}
	prev := 1.0
	for _, T := range history {
		mat.UpdateRatios([]float64{T}, liq, pdr, sld)
		if pdr[0] > prev+1e-15 {
			tst.Errorf("powder ratio increased: %g > %g after T=%g", pdr[0], prev, T)
			return
		}
		prev = pdr[0]
		chk.Scalar(tst, io.Sf("sum after T=%g", T), 1e-12, liq[0]+pdr[0]+sld[0], 1.0)
	}

	// fully molten once, powder must be gone for good
	chk.Scalar(tst, "powder after full melt", 1e-15, pdr[0], 0.0)
}

func Test_phase04(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("phase04. inv(rho*cp) with latent heat in the mushy zone only")

	mat := testMat()

	// below solidus: pure solid
	res := make([]float64, 1)
	mat.InvRhoCp([]float64{0}, []float64{0}, []float64{1}, res)
	chk.Scalar(tst, "inv_rho_cp solid", 1e-17, res[0], 1.0/(8000.0*500.0))

	// above liquidus: pure liquid, no latent correction
	mat.InvRhoCp([]float64{1}, []float64{0}, []float64{0}, res)
	chk.Scalar(tst, "inv_rho_cp liquid", 1e-17, res[0], 1.0/(7500.0*600.0))

	// mushy zone: cp gets lheat/(liquidus-solidus)
	l, s := 0.5, 0.5
	rho := s*8000.0 + l*7500.0
	cp := s*500.0 + l*600.0 + 2e5/200.0
	mat.InvRhoCp([]float64{l}, []float64{0}, []float64{s}, res)
	chk.Scalar(tst, "inv_rho_cp mushy", 1e-17, res[0], 1.0/(rho*cp))
}

func Test_phase05(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("phase05. init from parameters database")

	prms := dbf.Params{
		&dbf.P{N: "solidus", V: 1500},
		&dbf.P{N: "liquidus", V: 1600},
		&dbf.P{N: "lheat", V: 1e5},
		&dbf.P{N: "rho_sld", V: 7800},
		&dbf.P{N: "cp_sld", V: 480},
		&dbf.P{N: "kx_sld", V: 25},
	}
	var mat Material
	err := mat.Init(3, prms)
	if err != nil {
		tst.Errorf("init failed:\n%v", err)
		return
	}
	chk.Scalar(tst, "solidus", 1e-17, mat.Solidus, 1500)
	chk.Scalar(tst, "tmelt defaults to solidus", 1e-17, mat.Tmelt, 1500)
	chk.Scalar(tst, "kx solid", 1e-17, mat.Kx(0, 0, 1), 25)

	// liquidus <= solidus is a configuration error
	bad := dbf.Params{
		&dbf.P{N: "solidus", V: 1500},
		&dbf.P{N: "liquidus", V: 1500},
	}
	var m2 Material
	err = m2.Init(3, bad)
	if err == nil {
		tst.Errorf("expected error for liquidus <= solidus")
	}
}
