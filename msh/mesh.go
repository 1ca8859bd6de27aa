// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msh implements a structured-grid reference of the mesh/DoF
// collaborator contract: element iteration, quadrature evaluation,
// activation bookkeeping and identity-keyed cell data transfer across
// topology changes
package msh

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
)

// Vert holds one vertex
type Vert struct {
	Id int       // identifier
	X  []float64 // coordinates
}

// Cell holds one element. Id is a stable identity: it survives topology
// changes and is the key for cell data transfer.
type Cell struct {
	Id           int   // stable identity
	Verts        []int // vertex ids
	MatId        int   // material id
	Active       bool  // participates in the PDE (material deposited)
	FutureActive bool  // intended state after the next topology change
}

// BFace is a face on the boundary of the activated domain: either a true
// domain boundary face or a face between an active and an inactive cell
type BFace struct {
	C *Cell // the active cell
	F int   // local face index
}

// Mesh holds a structured grid of qua4 (2D) or hex8 (3D) cells
type Mesh struct {
	Ndim  int
	Verts []*Vert
	Cells []*Cell
	Shp   *Shape

	nbr  [][]int     // [ncells][nfaces] neighbour cell id or -1
	xmat [][]float64 // scratch nodal coordinates [ndim][nverts]
}

// NewGrid builds a structured grid with n[i] cells and length l[i] along
// each direction. All cells start active with material id 0.
func NewGrid(ndim int, n []int, l []float64) (o *Mesh, err error) {
	if len(n) != ndim || len(l) != ndim {
		return nil, chk.Err("NewGrid: need %d cell counts and lengths, got %v and %v", ndim, n, l)
	}
	for i := 0; i < ndim; i++ {
		if n[i] < 1 || l[i] <= 0 {
			return nil, chk.Err("NewGrid: invalid grid data: n=%v l=%v", n, l)
		}
	}
	o = new(Mesh)
	o.Ndim = ndim
	o.Shp = NewShape(ndim)

	// vertices
	nx, ny := n[0], n[1]
	nz := 1
	if ndim == 3 {
		nz = n[2]
	}
	xs := utl.LinSpace(0, l[0], nx+1)
	ys := utl.LinSpace(0, l[1], ny+1)
	zs := []float64{0}
	if ndim == 3 {
		zs = utl.LinSpace(0, l[2], nz+1)
	}
	vid := func(i, j, k int) int { return i + j*(nx+1) + k*(nx+1)*(ny+1) }
	for k := 0; k < len(zs); k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				x := make([]float64, ndim)
				x[0], x[1] = xs[i], ys[j]
				if ndim == 3 {
					x[2] = zs[k]
				}
				o.Verts = append(o.Verts, &Vert{Id: vid(i, j, k), X: x})
			}
		}
	}

	// cells
	id := 0
	kmax := 1
	if ndim == 3 {
		kmax = nz
	}
	for k := 0; k < kmax; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				var verts []int
				if ndim == 2 {
					verts = []int{vid(i, j, 0), vid(i+1, j, 0), vid(i+1, j+1, 0), vid(i, j+1, 0)}
				} else {
					verts = []int{
						vid(i, j, k), vid(i+1, j, k), vid(i+1, j+1, k), vid(i, j+1, k),
						vid(i, j, k+1), vid(i+1, j, k+1), vid(i+1, j+1, k+1), vid(i, j+1, k+1),
					}
				}
				o.Cells = append(o.Cells, &Cell{Id: id, Verts: verts, Active: true, FutureActive: true})
				id++
			}
		}
	}

	o.xmat = alloc(ndim, o.Shp.Nverts)
	o.buildNeighbours()
	return
}

// String prints a summary
func (o *Mesh) String() string {
	na := 0
	for _, c := range o.Cells {
		if c.Active {
			na++
		}
	}
	return io.Sf("mesh: ndim=%d nverts=%d ncells=%d nactive=%d", o.Ndim, len(o.Verts), len(o.Cells), na)
}

// CellX fills and returns the nodal coordinates matrix [ndim][nverts] of
// cell c (shared scratch; valid until the next call)
func (o *Mesh) CellX(c *Cell) [][]float64 {
	for i := 0; i < o.Ndim; i++ {
		for m, v := range c.Verts {
			o.xmat[i][m] = o.Verts[v].X[i]
		}
	}
	return o.xmat
}

// Centroid returns the centre of cell c
func (o *Mesh) Centroid(c *Cell) (x []float64) {
	x = make([]float64, o.Ndim)
	for _, v := range c.Verts {
		for i := 0; i < o.Ndim; i++ {
			x[i] += o.Verts[v].X[i]
		}
	}
	for i := 0; i < o.Ndim; i++ {
		x[i] /= float64(len(c.Verts))
	}
	return
}

// SetActiveBelow activates exactly the cells whose centroid lies below the
// given height along the vertical (last) axis; all others become inactive
func (o *Mesh) SetActiveBelow(height float64) {
	for _, c := range o.Cells {
		c.Active = o.Centroid(c)[o.Ndim-1] < height
		c.FutureActive = c.Active
	}
}

// FlagForActivation marks a cell to become active at the next topology
// change; topology is not mutated here
func (o *Mesh) FlagForActivation(cellId int) {
	if cellId < 0 || cellId >= len(o.Cells) {
		chk.Panic("FlagForActivation: cell id %d is out of range", cellId)
	}
	o.Cells[cellId].FutureActive = true
}

// ActivationFaces returns the faces carrying boundary flux: faces of active
// cells that sit on the domain boundary or touch an inactive cell. Faces
// between two active cells, and all faces of inactive cells, contribute
// nothing.
func (o *Mesh) ActivationFaces() (faces []BFace) {
	for _, c := range o.Cells {
		if !c.Active {
			continue
		}
		for f := 0; f < len(o.Shp.FaceLocalVerts); f++ {
			n := o.nbr[c.Id][f]
			if n < 0 || !o.Cells[n].Active {
				faces = append(faces, BFace{C: c, F: f})
			}
		}
	}
	return
}

// Neighbour returns the cell on the other side of face f of cell c, or nil
// on the domain boundary
func (o *Mesh) Neighbour(c *Cell, f int) *Cell {
	n := o.nbr[c.Id][f]
	if n < 0 {
		return nil
	}
	return o.Cells[n]
}

// RefreshTopology executes a topology change: pending activation flags are
// applied and the per-cell records are carried across by cell identity. The
// reference grid keeps identities stable, so the records come back
// unchanged; a refining collaborator may split records onto child cells.
func (o *Mesh) RefreshTopology(records map[int][]float64) map[int][]float64 {
	for _, c := range o.Cells {
		c.Active = c.FutureActive
	}
	o.buildNeighbours()
	return records
}

// ConstrainedEqs returns the constrained (hanging-node) equations after the
// caller numbered vertices with eqmap. The reference grid is conforming and
// has none.
func (o *Mesh) ConstrainedEqs(eqmap []int) []int {
	return nil
}

// buildNeighbours rebuilds the face adjacency table
func (o *Mesh) buildNeighbours() {
	nfaces := len(o.Shp.FaceLocalVerts)
	o.nbr = make([][]int, len(o.Cells))
	key2cf := make(map[string][][2]int)
	for _, c := range o.Cells {
		o.nbr[c.Id] = make([]int, nfaces)
		for f := 0; f < nfaces; f++ {
			o.nbr[c.Id][f] = -1
			key := faceKey(c, o.Shp.FaceLocalVerts[f])
			key2cf[key] = append(key2cf[key], [2]int{c.Id, f})
		}
	}
	for _, cfs := range key2cf {
		if len(cfs) == 2 {
			o.nbr[cfs[0][0]][cfs[0][1]] = cfs[1][0]
			o.nbr[cfs[1][0]][cfs[1][1]] = cfs[0][0]
		}
	}
}

// faceKey returns a canonical key for a cell face
func faceKey(c *Cell, lverts []int) string {
	ids := make([]int, len(lverts))
	for i, lv := range lverts {
		ids[i] = c.Verts[lv]
	}
	// insertion sort; faces have at most 4 vertices
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j] < ids[j-1]; j-- {
			ids[j], ids[j-1] = ids[j-1], ids[j]
		}
	}
	return io.Sf("%v", ids)
}
