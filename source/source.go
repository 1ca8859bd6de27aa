// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package source implements moving volumetric heat sources (beam models)
// driving the thermal simulation of an additively manufactured part
package source

import (
	"github.com/cpmech/gosl/chk"
)

// Source defines the contract between the thermal core and a heat source.
// Value returns the power density deposited at a physical point given the
// current height of the deposited material front. The vertical axis is the
// last coordinate of x. UpdateTime advances the beam along its scan path.
// ScanDirection returns the in-plane direction of travel, which orients the
// conductivity frame of freshly deposited material.
type Source interface {
	Value(x []float64, height float64) float64
	CurrentHeight(t float64) float64
	UpdateTime(t float64)
	ScanDirection(t float64) (cosdir, sindir float64)
}

// Data holds the input describing one heat source
type Data struct {
	Kind       string     `json:"kind"`       // "goldak", "electron_beam" or "cube"
	Depth      float64    `json:"depth"`      // penetration depth of the beam
	Radius     float64    `json:"radius"`     // beam radius
	MaxPower   float64    `json:"maxpower"`   // nominal beam power
	Absorption float64    `json:"absorption"` // absorption efficiency
	Path       []*Segment `json:"path"`       // scan path segments

	// cube source only
	TStart float64   `json:"tstart"` // time the cube switches on
	TEnd   float64   `json:"tend"`   // time the cube switches off
	BoxMin []float64 `json:"boxmin"` // lower corner of the heated box
	BoxMax []float64 `json:"boxmax"` // upper corner of the heated box
}

// New allocates a heat source by kind
func New(dat *Data) (src Source, err error) {
	allocator, ok := allocators[dat.Kind]
	if !ok {
		return nil, chk.Err("heat source kind %q is not available in 'source' database", dat.Kind)
	}
	return allocator(dat)
}

// allocators holds all available heat sources
var allocators = map[string]func(dat *Data) (Source, error){}
