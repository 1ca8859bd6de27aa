// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// ActivationGroup names the cells deposited together along one leg of the
// toolpath, with the deposition direction shared by all of them
type ActivationGroup struct {
	Cells         []int   // cell ids to activate
	DepositionCos float64 // cosine of the deposition direction
	DepositionSin float64 // sine of the deposition direction
}

// AddMaterial activates the element groups in [start, end) and carries the
// per-cell state across the topology change:
//
//  1. snapshot every cell's state (solution dofs, orientation, melt flag,
//     phase ratios) into records keyed by cell identity; inactive cells get
//     sentinel values
//  2. flag the requested cells for activation and record their orientation
//  3. let the mesh execute the topology change, transferring the records
//  4. rebuild equation numbering, operator state and inverse mass
//  5. unpack the records; dofs still holding the sentinel (material that
//     never existed before, or newly created constrained dofs) are filled
//     with newMatTemp
//
// A cell that is already active keeps its state and orientation untouched.
func (o *Physics) AddMaterial(groups []*ActivationGroup, start, end int, newMatTemp float64) (err error) {
	if start < 0 || end > len(groups) || start > end {
		return chk.Err("activation range [%d,%d) is out of bounds for %d groups", start, end, len(groups))
	}
	m := o.Dom.Msh
	nv := m.Shp.Nverts
	nip := len(m.Shp.IpsElem)
	sentinel := math.Inf(1)

	// record layout: [dofs(nv), cos, sin, melted, liq(nip), pdr(nip)]
	icos, isin, imelt, iliq, ipdr := nv, nv+1, nv+2, nv+3, nv+3+nip
	reclen := nv + 3 + 2*nip

	// 1. snapshot
	records := make(map[int][]float64, len(m.Cells))
	for _, c := range m.Cells {
		rec := make([]float64, reclen)
		if c.Active {
			eqs := o.Dom.CellEqs(c)
			for i, eq := range eqs {
				rec[i] = o.Dom.Y[eq]
			}
			rec[icos] = o.Op.DepCos[c.Id]
			rec[isin] = o.Op.DepSin[c.Id]
			if o.Op.HasMelted[c.Id] {
				rec[imelt] = 1
			}
		} else {
			for i := 0; i < nv; i++ {
				rec[i] = sentinel
			}
			rec[icos] = sentinel
			rec[isin] = sentinel
		}
		copy(rec[iliq:iliq+nip], o.Op.LiquidRatio[c.Id])
		copy(rec[ipdr:ipdr+nip], o.Op.PowderRatio[c.Id])
		records[c.Id] = rec
	}

	// 2. flag
	for _, g := range groups[start:end] {
		for _, cid := range g.Cells {
			if cid < 0 || cid >= len(m.Cells) {
				return chk.Err("activation group names cell %d, mesh has %d cells", cid, len(m.Cells))
			}
			if m.Cells[cid].Active {
				continue
			}
			m.FlagForActivation(cid)
			records[cid][icos] = g.DepositionCos
			records[cid][isin] = g.DepositionSin
		}
	}

	// 3. topology change with transfer by identity
	records = m.RefreshTopology(records)

	// 4. rebuild
	o.Dom.SetDofs()
	o.Op.ResizeState()

	// 5. unpack
	vfill(o.Dom.Y, sentinel)
	for _, c := range m.Cells {
		rec, ok := records[c.Id]
		if !ok {
			continue // newly created cell; defaults apply
		}
		copy(o.Op.LiquidRatio[c.Id], rec[iliq:iliq+nip])
		copy(o.Op.PowderRatio[c.Id], rec[ipdr:ipdr+nip])
		for q := 0; q < nip; q++ {
			o.Op.SolidRatio[c.Id][q] = math.Max(1.0-o.Op.LiquidRatio[c.Id][q]-o.Op.PowderRatio[c.Id][q], 0.0)
		}
		if !c.Active {
			continue
		}
		if !math.IsInf(rec[icos], 1) {
			o.Op.DepCos[c.Id] = rec[icos]
			o.Op.DepSin[c.Id] = rec[isin]
		}
		o.Op.HasMelted[c.Id] = rec[imelt] != 0
		eqs := o.Dom.CellEqs(c)
		for i, eq := range eqs {
			if !math.IsInf(rec[i], 1) {
				o.Dom.Y[eq] = rec[i]
			}
		}
	}
	for i, v := range o.Dom.Y {
		if math.IsInf(v, 1) {
			o.Dom.Y[i] = newMatTemp
		}
	}

	// mass must follow the new numbering
	o.InvM = ComputeInverseMass(o.Dom)
	o.Imp.InvM = o.InvM
	return
}
