// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"strings"

	"github.com/Lance-Drane/adamantine/source"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
)

// BoundaryType selects the heat fluxes applied on the boundary of the
// activated domain
type BoundaryType int

// boundary type flags
const (
	Adiabatic BoundaryType = 1 << iota
	Convective
	Radiative
)

// ParseBoundaryType parses a comma-separated subset of
// {adiabatic, convective, radiative}. Adiabatic excludes the others.
func ParseBoundaryType(spec string) (bty BoundaryType, err error) {
	for _, tok := range strings.Split(spec, ",") {
		switch strings.TrimSpace(tok) {
		case "adiabatic":
			bty |= Adiabatic
		case "convective":
			bty |= Convective
		case "radiative":
			bty |= Radiative
		case "":
		default:
			return 0, chk.Err("boundary type token %q is not available in 'fem' database", strings.TrimSpace(tok))
		}
	}
	if bty == 0 {
		return 0, chk.Err("boundary type %q does not select any flux model", spec)
	}
	if bty&Adiabatic != 0 && bty != Adiabatic {
		return 0, chk.Err("boundary type 'adiabatic' cannot be combined with other tokens: %q", spec)
	}
	return
}

// ThermalOperator evaluates the matrix-free thermal residual: conduction with
// phase-blended anisotropic conductivity, volumetric heat sources, and the
// convective/radiative fluxes on the activation interface. It owns the
// per-quadrature-point phase state and the per-cell deposition orientation
// and melt history, all indexed by stable cell identity.
type ThermalOperator struct {

	// essential
	Dom     *Domain
	Bty     BoundaryType
	Sources []source.Source

	// per-cell per-integration-point state
	LiquidRatio [][]float64 // [ncells][nip]
	PowderRatio [][]float64 // [ncells][nip]
	SolidRatio  [][]float64 // [ncells][nip]

	// per-cell state
	DepCos    []float64 // [ncells] deposition direction cosine
	DepSin    []float64 // [ncells] deposition direction sine
	HasMelted []bool    // [ncells] monotone melt-history flag

	// scratch: element
	tnod []float64     // [nverts] nodal temperatures
	tip  []float64     // [nip] temperature at ips
	irc  []float64     // [nip] 1/(rho cp) at ips
	coef []float64     // [nip] det(J)·w
	sq   [][]float64   // [nip][nverts] shape functions
	gq   [][][]float64 // [nip][nverts][ndim] gradients
	xq   [][]float64   // [nip][ndim] real coordinates
	gt   [][]float64   // [nip][ndim] temperature gradient

	// scratch: face
	tf    []float64   // [nipf]
	liqf  []float64   // [nipf]
	pdrf  []float64   // [nipf]
	sldf  []float64   // [nipf]
	ircf  []float64   // [nipf]
	coeff []float64   // [nipf]
	sf    [][]float64 // [nipf][face nverts]
}

// NewThermalOperator allocates the operator and initialises the phase state:
// active cells start fully solid, inactive cells fully powder
func NewThermalOperator(dom *Domain, bty BoundaryType, sources []source.Source) (o *ThermalOperator) {
	o = new(ThermalOperator)
	o.Dom = dom
	o.Bty = bty
	o.Sources = sources

	shp := dom.Msh.Shp
	nip, nipf := len(shp.IpsElem), len(shp.IpsFace)
	nv, nvf, nd := shp.Nverts, shp.FaceNverts, shp.Ndim

	o.tnod = make([]float64, nv)
	o.tip = make([]float64, nip)
	o.irc = make([]float64, nip)
	o.coef = make([]float64, nip)
	o.sq = la.MatAlloc(nip, nv)
	o.xq = la.MatAlloc(nip, nd)
	o.gt = la.MatAlloc(nip, nd)
	o.gq = make([][][]float64, nip)
	for q := 0; q < nip; q++ {
		o.gq[q] = la.MatAlloc(nv, nd)
	}
	o.tf = make([]float64, nipf)
	o.liqf = make([]float64, nipf)
	o.pdrf = make([]float64, nipf)
	o.sldf = make([]float64, nipf)
	o.ircf = make([]float64, nipf)
	o.coeff = make([]float64, nipf)
	o.sf = la.MatAlloc(nipf, nvf)

	o.ResizeState()
	return
}

// ResizeState reallocates the per-cell state to the current mesh. Active
// cells start solid and inactive cells powder; the activation protocol
// overwrites everything it transfers.
func (o *ThermalOperator) ResizeState() {
	nc := len(o.Dom.Msh.Cells)
	nip := len(o.Dom.Msh.Shp.IpsElem)
	o.LiquidRatio = la.MatAlloc(nc, nip)
	o.PowderRatio = la.MatAlloc(nc, nip)
	o.SolidRatio = la.MatAlloc(nc, nip)
	o.DepCos = make([]float64, nc)
	o.DepSin = make([]float64, nc)
	o.HasMelted = make([]bool, nc)
	for _, c := range o.Dom.Msh.Cells {
		o.DepCos[c.Id] = 1.0
		for q := 0; q < nip; q++ {
			if c.Active {
				o.SolidRatio[c.Id][q] = 1.0
			} else {
				o.PowderRatio[c.Id][q] = 1.0
			}
		}
	}
}

// Apply accumulates the thermal residual of the temperature vector y into
// res, before the inverse mass is applied. height is the current height of
// the deposition front shared by all sources. The phase ratios are updated
// in place from y as a side effect.
func (o *ThermalOperator) Apply(t, height float64, y, res []float64) (err error) {
	if len(y) != o.Dom.Ny || len(res) != o.Dom.Ny {
		chk.Panic("Apply: vector lengths %d and %d do not match %d equations", len(y), len(res), o.Dom.Ny)
	}
	la.VecFill(res, 0)

	// element contributions
	m := o.Dom.Msh
	shp := m.Shp
	nd := shp.Ndim
	for _, c := range m.Cells {
		if !c.Active {
			continue
		}
		mat := o.Dom.Material(c)
		X := m.CellX(c)
		eqs := o.Dom.CellEqs(c)
		for i, eq := range eqs {
			o.tnod[i] = y[eq]
		}

		// evaluate the field at every integration point
		for q, ip := range shp.IpsElem {
			err = shp.CalcAtIp(X, ip, true)
			if err != nil {
				return
			}
			o.coef[q] = shp.J * ip[3]
			o.tip[q] = 0
			for i := 0; i < nd; i++ {
				o.xq[q][i] = 0
				o.gt[q][i] = 0
			}
			for v := 0; v < shp.Nverts; v++ {
				o.sq[q][v] = shp.S[v]
				o.tip[q] += shp.S[v] * o.tnod[v]
				for i := 0; i < nd; i++ {
					o.gq[q][v][i] = shp.G[v][i]
					o.xq[q][i] += shp.S[v] * X[i][v]
					o.gt[q][i] += shp.G[v][i] * o.tnod[v]
				}
			}
		}

		// phase state and effective properties, batched over the ips
		liq, pdr, sld := o.LiquidRatio[c.Id], o.PowderRatio[c.Id], o.SolidRatio[c.Id]
		mat.UpdateRatios(o.tip, liq, pdr, sld)
		mat.InvRhoCp(liq, pdr, sld, o.irc)

		// accumulate
		cosT, sinT := o.DepCos[c.Id], o.DepSin[c.Id]
		for q := range shp.IpsElem {
			l, p, s := liq[q], pdr[q], sld[q]

			// conduction flux w = -1/(rho cp) · K·grad(T); the conductivity
			// frame follows the deposition direction: in 2D the axes are the
			// scan (x) and build (z) directions; in 3D the in-plane tensor is
			// rotated by the deposition angle, the build axis is not
			var w0, w1, w2 float64
			if nd == 2 {
				w0 = -o.irc[q] * mat.Kx(l, p, s) * o.gt[q][0]
				w1 = -o.irc[q] * mat.Kz(l, p, s) * o.gt[q][1]
			} else {
				kx, ky := mat.Kx(l, p, s), mat.Ky(l, p, s)
				a00 := cosT*cosT*kx + sinT*sinT*ky
				a01 := cosT * sinT * (kx - ky)
				a11 := sinT*sinT*kx + cosT*cosT*ky
				w0 = -o.irc[q] * (a00*o.gt[q][0] + a01*o.gt[q][1])
				w1 = -o.irc[q] * (a01*o.gt[q][0] + a11*o.gt[q][1])
				w2 = -o.irc[q] * mat.Kz(l, p, s) * o.gt[q][2]
			}

			// volumetric heat sources
			src := 0.0
			for _, hs := range o.Sources {
				src += hs.Value(o.xq[q], height)
			}

			for v, eq := range eqs {
				r := o.sq[q][v] * src * o.irc[q]
				r += o.gq[q][v][0]*w0 + o.gq[q][v][1]*w1
				if nd == 3 {
					r += o.gq[q][v][2] * w2
				}
				res[eq] += o.coef[q] * r
			}
		}
	}

	// boundary fluxes on the activation interface
	if o.Bty&(Convective|Radiative) != 0 {
		err = o.addBoundaryFluxes(y, res)
		if err != nil {
			return
		}
	}

	// constrained degrees of freedom do not accumulate; they carry the plain
	// value through
	for _, eq := range o.Dom.ConEqs {
		res[eq] = y[eq]
	}
	return
}

// addBoundaryFluxes accumulates convective and radiative fluxes over the
// faces bounding the activated domain
func (o *ThermalOperator) addBoundaryFluxes(y, res []float64) (err error) {
	m := o.Dom.Msh
	shp := m.Shp
	for _, bf := range m.ActivationFaces() {
		c := bf.C
		mat := o.Dom.Material(c)
		X := m.CellX(c)
		eqs := o.Dom.CellEqs(c)
		lverts := shp.FaceLocalVerts[bf.F]

		// powder on the face follows the cell average; liquid is recomputed
		// from the face temperature
		avg := 0.0
		for _, p := range o.PowderRatio[c.Id] {
			avg += p
		}
		avg /= float64(len(o.PowderRatio[c.Id]))

		for qf, ipf := range shp.IpsFace {
			err = shp.CalcAtFaceIp(X, ipf, bf.F)
			if err != nil {
				return
			}
			o.coeff[qf] = la.VecNorm(shp.Fnvec) * ipf[3]
			o.tf[qf] = 0
			o.pdrf[qf] = avg
			for i, lv := range lverts {
				o.sf[qf][i] = shp.Sf[i]
				o.tf[qf] += shp.Sf[i] * y[eqs[lv]]
			}
		}
		mat.UpdateRatios(o.tf, o.liqf, o.pdrf, o.sldf)
		mat.InvRhoCp(o.liqf, o.pdrf, o.sldf, o.ircf)

		for qf := range shp.IpsFace {
			flux := 0.0
			if o.Bty&Convective != 0 {
				flux += mat.Hconv * (o.tf[qf] - mat.TinfConv)
			}
			if o.Bty&Radiative != 0 {
				flux += mat.HradCoef(o.tf[qf]) * (o.tf[qf] - mat.TinfRad)
			}
			for i, lv := range lverts {
				res[eqs[lv]] -= o.coeff[qf] * o.sf[qf][i] * flux * o.ircf[qf]
			}
		}
	}
	return
}
