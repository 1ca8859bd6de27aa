// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON file
package inp

import (
	"encoding/json"
	"path/filepath"

	"github.com/Lance-Drane/adamantine/source"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// Data holds global data for simulations
type Data struct {
	Desc string `json:"desc"` // description of simulation
	Ndim int    `json:"ndim"` // space dimension: 2 or 3
}

// GeometryData holds the data to build the reference structured grid and the
// initial deposit
type GeometryData struct {
	Ncells   []int     `json:"ncells"`   // number of cells along each direction
	Lengths  []float64 `json:"lengths"`  // domain length along each direction
	Height   float64   `json:"height"`   // initial height of deposited material
	Tinit    float64   `json:"tinit"`    // initial temperature of the deposit
	Tdeposit float64   `json:"tdeposit"` // temperature of newly deposited material
}

// BoundaryData holds the boundary condition input. Type is a comma-separated
// subset of {adiabatic, convective, radiative}; adiabatic excludes the others.
type BoundaryData struct {
	Type string `json:"type"`
}

// TimeSteppingData holds the time integration input
type TimeSteppingData struct {

	// scheme and fixed step
	Method string  `json:"method"` // time integration scheme. ex: forward_euler, dopri, sdirk2
	Tf     float64 `json:"tf"`     // final time
	Dt     float64 `json:"dt"`     // time step size (if constant)
	DtFcn  string  `json:"dtfcn"`  // time step size (function name)

	// embedded schemes
	CoarsenParam float64 `json:"coarseningparameter"` // step multiplier after a very accurate step
	RefineParam  float64 `json:"refiningparameter"`   // step multiplier after a rejected step
	DtMin        float64 `json:"mintimestep"`         // lower bound on the step size
	DtMax        float64 `json:"maxtimestep"`         // upper bound on the step size
	RefineTol    float64 `json:"refiningtolerance"`   // error above this rejects the step
	CoarsenTol   float64 `json:"coarseningtolerance"` // error below this grows the next step

	// implicit schemes
	MaxIt       int     `json:"maxiteration"`       // max Krylov iterations per stage solve
	Tol         float64 `json:"tolerance"`          // relative Krylov tolerance
	NtmpVectors int     `json:"ntmpvectors"`        // Krylov restart length
	NewtonMaxIt int     `json:"newtonmaxiteration"` // max Newton iterations per stage
	NewtonTol   float64 `json:"newtontolerance"`    // Newton residual tolerance
	Jfnk        bool    `json:"jfnk"`               // Jacobian-free directional derivative instead of frozen Jacobian

	// derived
	DtFunc dbf.T // time step function
}

// SetDefaults fills unset values
func (o *TimeSteppingData) SetDefaults() {
	if o.Method == "" {
		o.Method = "forward_euler"
	}
	if o.CoarsenParam == 0 {
		o.CoarsenParam = 1.2
	}
	if o.RefineParam == 0 {
		o.RefineParam = 0.8
	}
	if o.DtMin == 0 {
		o.DtMin = 1e-14
	}
	if o.DtMax == 0 {
		o.DtMax = 1e100
	}
	if o.RefineTol == 0 {
		o.RefineTol = 1e-8
	}
	if o.CoarsenTol == 0 {
		o.CoarsenTol = 1e-12
	}
	if o.MaxIt == 0 {
		o.MaxIt = 1000
	}
	if o.Tol == 0 {
		o.Tol = 1e-12
	}
	if o.NtmpVectors == 0 {
		o.NtmpVectors = 30
	}
	if o.NewtonMaxIt == 0 {
		o.NewtonMaxIt = 100
	}
	if o.NewtonTol == 0 {
		o.NewtonTol = 1e-6
	}
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data             `json:"data"`      // stores global simulation data
	Geom      GeometryData     `json:"geometry"`  // reference grid and initial deposit
	Boundary  BoundaryData     `json:"boundary"`  // boundary condition type
	Time      TimeSteppingData `json:"time"`      // time integration data
	Functions FuncsData        `json:"functions"` // stores all time functions
	Materials MatsData         `json:"materials"` // material parameters; cell material ids index this list
	Sources   []*source.Data   `json:"sources"`   // heat source definitions

	// derived
	DirIn string // directory of the input file
	Key   string // simulation key; e.g. mysim01.sim => mysim01
}

// ReadSim reads all simulation data from a .sim JSON file
func ReadSim(simfilepath string) *Simulation {

	// read file
	var o Simulation
	b, err := io.ReadFile(simfilepath)
	if err != nil {
		chk.Panic("ReadSim: cannot read simulation file %q", simfilepath)
	}

	// decode
	err = json.Unmarshal(b, &o)
	if err != nil {
		chk.Panic("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	o.DirIn = filepath.Dir(simfilepath)
	o.Key = io.FnKey(filepath.Base(simfilepath))

	// defaults
	o.Time.SetDefaults()
	if o.Data.Ndim == 0 {
		o.Data.Ndim = len(o.Geom.Ncells)
	}
	if o.Boundary.Type == "" {
		o.Boundary.Type = "adiabatic"
	}
	if o.Geom.Tdeposit == 0 {
		o.Geom.Tdeposit = o.Geom.Tinit
	}

	// fix Dt
	if o.Time.DtFcn == "" {
		if o.Time.Dt < 1e-14 {
			o.Time.Dt = 1
		}
		o.Time.DtFunc = &dbf.Cte{C: o.Time.Dt}
	} else {
		o.Time.DtFunc, err = o.Functions.Get(o.Time.DtFcn)
		if err != nil {
			chk.Panic("%v", err)
		}
		o.Time.Dt = o.Time.DtFunc.F(0, nil)
	}
	return &o
}
