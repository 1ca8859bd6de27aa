// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// ElectronBeam implements an electron beam source: Gaussian in the plane,
// linear decay across the penetration depth.
type ElectronBeam struct {
	dat  *Data
	path *ScanPath
	rsq  float64
	t    float64
}

// register allocator
func init() {
	allocators["electron_beam"] = func(dat *Data) (Source, error) {
		if dat.Depth <= 0 || dat.Radius <= 0 {
			return nil, chk.Err("electron_beam source needs positive depth and radius: d=%g r=%g", dat.Depth, dat.Radius)
		}
		path, err := NewScanPath(dat.Path)
		if err != nil {
			return nil, err
		}
		return &ElectronBeam{dat: dat, path: path, rsq: dat.Radius * dat.Radius}, nil
	}
}

// UpdateTime advances the beam along the scan path
func (o *ElectronBeam) UpdateTime(t float64) { o.t = t }

// ScanDirection returns the in-plane direction of travel of the beam
func (o *ElectronBeam) ScanDirection(t float64) (cosdir, sindir float64) {
	return o.path.Direction(t)
}

// CurrentHeight returns the height of the deposition front at time t
func (o *ElectronBeam) CurrentHeight(t float64) float64 {
	_, _, z := o.path.Position(t)
	return z
}

// Value returns the power density at x given the current material height
func (o *ElectronBeam) Value(x []float64, height float64) float64 {
	z := x[len(x)-1] - height
	if z > 0 || z+o.dat.Depth < 0 {
		return 0.0
	}
	bx, by, _ := o.path.Position(o.t)
	rxy := (x[0] - bx) * (x[0] - bx)
	if len(x) == 3 {
		rxy += (x[1] - by) * (x[1] - by)
	}
	pmod := o.path.PowerModifier(o.t)
	decay := 1.0 + z/o.dat.Depth // 1 at the surface, 0 at full depth
	return 3.0 * o.dat.Absorption * o.dat.MaxPower * pmod /
		(math.Pi * o.rsq * o.dat.Depth) *
		math.Exp(-3.0*rxy/o.rsq) * decay
}
