// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Goldak implements the double-ellipsoid (Goldak) heat source
//
//   q(x) = 2 η P pmod / (r² d (π/3)^1.5) · exp(-3 rxy²/r² - 3 (z/d)²)
//
// where rxy is the in-plane distance to the beam centre and z the depth
// below the current material front. Points deeper than the penetration
// depth receive nothing.
type Goldak struct {
	dat  *Data
	path *ScanPath
	rsq  float64 // radius squared
	t    float64 // current time set by UpdateTime
}

// register allocator
func init() {
	allocators["goldak"] = func(dat *Data) (Source, error) {
		if dat.Depth <= 0 || dat.Radius <= 0 {
			return nil, chk.Err("goldak source needs positive depth and radius: d=%g r=%g", dat.Depth, dat.Radius)
		}
		path, err := NewScanPath(dat.Path)
		if err != nil {
			return nil, err
		}
		return &Goldak{dat: dat, path: path, rsq: dat.Radius * dat.Radius}, nil
	}
}

// UpdateTime advances the beam along the scan path
func (o *Goldak) UpdateTime(t float64) { o.t = t }

// ScanDirection returns the in-plane direction of travel of the beam
func (o *Goldak) ScanDirection(t float64) (cosdir, sindir float64) {
	return o.path.Direction(t)
}

// CurrentHeight returns the height of the deposition front at time t
func (o *Goldak) CurrentHeight(t float64) float64 {
	_, _, z := o.path.Position(t)
	return z
}

// Value returns the power density at x given the current material height
func (o *Goldak) Value(x []float64, height float64) float64 {
	z := x[len(x)-1] - height
	if z+o.dat.Depth < 0 {
		return 0.0
	}
	bx, by, _ := o.path.Position(o.t)
	rxy := (x[0] - bx) * (x[0] - bx)
	if len(x) == 3 {
		rxy += (x[1] - by) * (x[1] - by)
	}
	pmod := o.path.PowerModifier(o.t)
	pi3 := math.Pow(math.Pi/3.0, 1.5)
	return 2.0 * o.dat.Absorption * o.dat.MaxPower * pmod /
		(o.rsq * o.dat.Depth * pi3) *
		math.Exp(-3.0*rxy/o.rsq-3.0*(z/o.dat.Depth)*(z/o.dat.Depth))
}
