// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package phase implements the solid/powder/liquid material state model with
// phase-change for additively manufactured metal
package phase

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// state indices within ratio triplets
const (
	Solid = iota
	Powder
	Liquid
	Nstates
)

// Material holds the thermodynamic constants of one material. Effective
// properties are blended from the per-state values by the current ratios.
//
//   prop = sld*propSld + pdr*propPdr + liq*propLiq
//
// The specific heat receives a latent-heat correction inside the mushy zone.
type Material struct {

	// phase-change constants
	Solidus  float64 // solidus temperature
	Liquidus float64 // liquidus temperature
	Lheat    float64 // latent heat of fusion
	Tmelt    float64 // threshold for the melt-history flag

	// density per state
	RhoSld, RhoPdr, RhoLiq float64

	// specific heat per state
	CpSld, CpPdr, CpLiq float64

	// anisotropic conductivity per state
	KxSld, KxPdr, KxLiq float64
	KySld, KyPdr, KyLiq float64
	KzSld, KzPdr, KzLiq float64

	// boundary flux constants
	Hconv    float64 // convection heat transfer coefficient
	TinfConv float64 // convection far-field temperature
	Emiss    float64 // emissivity
	TinfRad  float64 // radiation far-field temperature
}

// Init initialises the material from a parameters database
func (o *Material) Init(ndim int, prms dbf.Params) (err error) {
	prms.Connect(&o.Solidus, "solidus", "solidus phase.Material")
	prms.Connect(&o.Liquidus, "liquidus", "liquidus phase.Material")
	prms.Connect(&o.Lheat, "lheat", "lheat phase.Material")
	prms.Connect(&o.Tmelt, "tmelt", "tmelt phase.Material")
	prms.Connect(&o.RhoSld, "rho_sld", "rho_sld phase.Material")
	prms.Connect(&o.RhoPdr, "rho_pdr", "rho_pdr phase.Material")
	prms.Connect(&o.RhoLiq, "rho_liq", "rho_liq phase.Material")
	prms.Connect(&o.CpSld, "cp_sld", "cp_sld phase.Material")
	prms.Connect(&o.CpPdr, "cp_pdr", "cp_pdr phase.Material")
	prms.Connect(&o.CpLiq, "cp_liq", "cp_liq phase.Material")
	prms.Connect(&o.KxSld, "kx_sld", "kx_sld phase.Material")
	prms.Connect(&o.KxPdr, "kx_pdr", "kx_pdr phase.Material")
	prms.Connect(&o.KxLiq, "kx_liq", "kx_liq phase.Material")
	prms.Connect(&o.KySld, "ky_sld", "ky_sld phase.Material")
	prms.Connect(&o.KyPdr, "ky_pdr", "ky_pdr phase.Material")
	prms.Connect(&o.KyLiq, "ky_liq", "ky_liq phase.Material")
	prms.Connect(&o.KzSld, "kz_sld", "kz_sld phase.Material")
	prms.Connect(&o.KzPdr, "kz_pdr", "kz_pdr phase.Material")
	prms.Connect(&o.KzLiq, "kz_liq", "kz_liq phase.Material")
	prms.Connect(&o.Hconv, "hconv", "hconv phase.Material")
	prms.Connect(&o.TinfConv, "tinf_conv", "tinf_conv phase.Material")
	prms.Connect(&o.Emiss, "emiss", "emiss phase.Material")
	prms.Connect(&o.TinfRad, "tinf_rad", "tinf_rad phase.Material")
	if o.Liquidus <= o.Solidus {
		return chk.Err("phase.Material: liquidus (%g) must be greater than solidus (%g)", o.Liquidus, o.Solidus)
	}
	if o.Tmelt == 0 {
		o.Tmelt = o.Solidus
	}
	return
}

// UpdateRatios recomputes the liquid and powder ratios of a batch of points
// from their temperatures and writes the derived solid ratio. liq and pdr are
// in/out: on input pdr holds the previous powder ratio, which may only
// decrease (powder melts, it never re-forms). All lanes are computed by
// selection, without per-lane control flow.
func (o *Material) UpdateRatios(T, liq, pdr, sld []float64) {
	if len(liq) != len(T) || len(pdr) != len(T) || len(sld) != len(T) {
		chk.Panic("UpdateRatios: batch lengths do not match: %d, %d, %d, %d", len(T), len(liq), len(pdr), len(sld))
	}
	dT := o.Liquidus - o.Solidus
	for i := 0; i < len(T); i++ {
		l := math.Min(1.0, math.Max(0.0, (T[i]-o.Solidus)/dT))
		p := math.Min(1.0-l, pdr[i])
		s := math.Max(1.0-l-p, 0.0) // max clamps round-off; matter is never created
		liq[i], pdr[i], sld[i] = l, p, s
	}
}

// InvRhoCp computes 1/(ρ·cp) for a batch of points with the given state
// ratios. The latent heat contribution lheat/(liquidus-solidus) is added to
// the specific heat only inside the mushy zone (0 < liquid < 1), selected
// arithmetically so the loop stays branch-free per lane.
func (o *Material) InvRhoCp(liq, pdr, sld, res []float64) {
	lcorr := o.Lheat / (o.Liquidus - o.Solidus)
	for i := 0; i < len(res); i++ {
		l, p, s := liq[i], pdr[i], sld[i]
		rho := s*o.RhoSld + p*o.RhoPdr + l*o.RhoLiq
		cp := s*o.CpSld + p*o.CpPdr + l*o.CpLiq
		mushy := math.Min(math.Ceil(l), math.Ceil(1.0-l)) // 1 iff 0 < l < 1
		cp += mushy * lcorr
		res[i] = 1.0 / (rho * cp)
	}
}

// Kx returns the effective conductivity along the deposition direction
func (o *Material) Kx(liq, pdr, sld float64) float64 {
	return sld*o.KxSld + pdr*o.KxPdr + liq*o.KxLiq
}

// Ky returns the effective in-plane transverse conductivity
func (o *Material) Ky(liq, pdr, sld float64) float64 {
	return sld*o.KySld + pdr*o.KyPdr + liq*o.KyLiq
}

// Kz returns the effective out-of-plane (build direction) conductivity
func (o *Material) Kz(liq, pdr, sld float64) float64 {
	return sld*o.KzSld + pdr*o.KzPdr + liq*o.KzLiq
}

// HradCoef returns the radiation heat transfer coefficient derived from the
// emissivity and the Stefan-Boltzmann constant:
//
//   h_rad = ε σ (T + T∞)(T² + T∞²)
func (o *Material) HradCoef(T float64) float64 {
	Tinf := o.TinfRad
	return o.Emiss * StefanBoltzmann * (T + Tinf) * (T*T + Tinf*Tinf)
}

// StefanBoltzmann constant [W/(m²K⁴)]
const StefanBoltzmann = 5.670374419e-8
