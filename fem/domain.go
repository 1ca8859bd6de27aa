// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/Lance-Drane/adamantine/inp"
	"github.com/Lance-Drane/adamantine/mdl/phase"
	"github.com/Lance-Drane/adamantine/msh"
	"github.com/cpmech/gosl/chk"
)

// Domain holds the degree-of-freedom numbering and the temperature solution
// over the active part of the mesh. The numbering is rebuilt from scratch
// after every topology change and never persisted across one.
type Domain struct {

	// essential
	Sim  *inp.Simulation   // input data
	Msh  *msh.Mesh         // the mesh
	Mats []*phase.Material // materials; cell material ids index this list

	// degrees of freedom (derived; rebuilt by SetDofs)
	EqMap  []int     // [nverts] vertex id to equation number, or -1 if the vertex touches no active cell
	Ny     int       // total number of equations
	Y      []float64 // [Ny] temperature
	ConEqs []int     // constrained equations reported by the mesh

	// scratch
	eqs []int // [nverts of one cell]
}

// NewDomain allocates a domain. SetDofs must be called before use.
func NewDomain(sim *inp.Simulation, m *msh.Mesh) (o *Domain, err error) {
	o = new(Domain)
	o.Sim = sim
	o.Msh = m
	o.Mats, err = sim.Materials.Models(m.Ndim)
	if err != nil {
		return nil, err
	}
	o.eqs = make([]int, m.Shp.Nverts)
	return
}

// SetDofs renumbers the equations over the active cells and resizes the
// solution vector. Values in Y are NOT carried over; the caller transfers
// them by cell identity.
func (o *Domain) SetDofs() {
	o.EqMap = make([]int, len(o.Msh.Verts))
	for i := range o.EqMap {
		o.EqMap[i] = -1
	}
	o.Ny = 0
	for _, c := range o.Msh.Cells {
		if !c.Active {
			continue
		}
		for _, v := range c.Verts {
			if o.EqMap[v] < 0 {
				o.EqMap[v] = o.Ny
				o.Ny++
			}
		}
	}
	o.Y = make([]float64, o.Ny)
	o.ConEqs = o.Msh.ConstrainedEqs(o.EqMap)
}

// CellEqs returns the equation numbers of the vertices of an active cell
// (shared scratch; valid until the next call)
func (o *Domain) CellEqs(c *msh.Cell) []int {
	for m, v := range c.Verts {
		o.eqs[m] = o.EqMap[v]
		if o.eqs[m] < 0 {
			chk.Panic("cell %d is active but vertex %d has no equation", c.Id, v)
		}
	}
	return o.eqs
}

// Material returns the material model of a cell
func (o *Domain) Material(c *msh.Cell) *phase.Material {
	if c.MatId < 0 || c.MatId >= len(o.Mats) {
		chk.Panic("cell %d has invalid material id %d", c.Id, c.MatId)
	}
	return o.Mats[c.MatId]
}
