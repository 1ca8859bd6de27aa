// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
)

// ComputeInverseMass assembles the lumped mass over the active cells by
// applying the element evaluation pattern to a unit field, forces the
// entries of constrained equations to exactly 1 (they never accumulate and
// must not be left at zero), and inverts every entry in place. It must be
// called again after every change of mesh or equation numbering.
func ComputeInverseMass(dom *Domain) (invM []float64) {
	invM = make([]float64, dom.Ny)

	m := dom.Msh
	shp := m.Shp
	for _, c := range m.Cells {
		if !c.Active {
			continue
		}
		X := m.CellX(c)
		eqs := dom.CellEqs(c)
		for _, ip := range shp.IpsElem {
			err := shp.CalcAtIp(X, ip, true)
			if err != nil {
				chk.Panic("mass assembly failed on cell %d:\n%v", c.Id, err)
			}
			coef := shp.J * ip[3]
			for v, eq := range eqs {
				invM[eq] += coef * shp.S[v]
			}
		}
	}

	for _, eq := range dom.ConEqs {
		invM[eq] = 1.0
	}

	for eq, v := range invM {
		if v <= 0 {
			chk.Panic("lumped mass entry %d is not positive: %g", eq, v)
		}
		invM[eq] = 1.0 / v
	}
	return
}
