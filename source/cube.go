// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"github.com/cpmech/gosl/chk"
)

// Cube implements a static box heated at constant power density between a
// start and an end time. Mostly useful for verification problems.
type Cube struct {
	dat *Data
	t   float64
}

// register allocator
func init() {
	allocators["cube"] = func(dat *Data) (Source, error) {
		if len(dat.BoxMin) != len(dat.BoxMax) || len(dat.BoxMin) < 2 || len(dat.BoxMin) > 3 {
			return nil, chk.Err("cube source needs matching 2D or 3D boxmin/boxmax: %v %v", dat.BoxMin, dat.BoxMax)
		}
		if dat.TEnd <= dat.TStart {
			return nil, chk.Err("cube source needs tend (%g) > tstart (%g)", dat.TEnd, dat.TStart)
		}
		return &Cube{dat: dat}, nil
	}
}

// UpdateTime stores the current time; the cube does not move
func (o *Cube) UpdateTime(t float64) { o.t = t }

// ScanDirection of a static box falls back to the x axis
func (o *Cube) ScanDirection(t float64) (cosdir, sindir float64) { return 1.0, 0.0 }

// CurrentHeight returns the top of the heated box
func (o *Cube) CurrentHeight(t float64) float64 {
	return o.dat.BoxMax[len(o.dat.BoxMax)-1]
}

// Value returns the power density at x; constant inside the box while the
// source is switched on, zero elsewhere
func (o *Cube) Value(x []float64, height float64) float64 {
	if o.t < o.dat.TStart || o.t > o.dat.TEnd {
		return 0.0
	}
	for i := 0; i < len(x); i++ {
		if x[i] < o.dat.BoxMin[i] || x[i] > o.dat.BoxMax[i] {
			return 0.0
		}
	}
	return o.dat.MaxPower * o.dat.Absorption
}
