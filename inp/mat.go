// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/Lance-Drane/adamantine/mdl/phase"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
)

// MatData holds material data
type MatData struct {
	Name string     `json:"name"` // name of material
	Prms dbf.Params `json:"prms"` // model parameters
}

// MatsData holds all materials. A cell's material id indexes this list.
type MatsData []*MatData

// Get returns a material by name
func (o MatsData) Get(name string) *MatData {
	for _, m := range o {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Models initialises one phase-change model per material, in input order
func (o MatsData) Models(ndim int) (mats []*phase.Material, err error) {
	mats = make([]*phase.Material, len(o))
	for i, m := range o {
		mats[i] = new(phase.Material)
		err = mats[i].Init(ndim, m.Prms)
		if err != nil {
			return nil, chk.Err("cannot initialise material %q:\n%v", m.Name, err)
		}
	}
	return
}

// String prints one material
func (o *MatData) String() string {
	return io.Sf("    {\n      \"name\":%q, \"prms\" : [\n%v\n      ]\n    }", o.Name, o.Prms)
}
