// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msh

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Ipoint holds natural coordinates and weight of an integration point:
// {r, s, t, w}
type Ipoint []float64

// Shape implements bilinear (qua4) and trilinear (hex8) isoparametric shape
// functions with Gauss quadrature. CalcAtIp and CalcAtFaceIp fill the
// scratchpad fields S, G, J, Sf and Fnvec.
type Shape struct {

	// constants
	Ndim           int      // space dimension
	Nverts         int      // number of vertices
	FaceNverts     int      // number of vertices per face
	FaceLocalVerts [][]int  // local vertex ids of each face
	IpsElem        []Ipoint // integration points of element
	IpsFace        []Ipoint // integration points of face
	natCoords      []Ipoint // natural coordinates of vertices
	natFaceCoords  []Ipoint // natural coordinates of face vertices

	// scratchpad: element
	S    []float64   // [nverts] shape functions @ ip
	G    [][]float64 // [nverts][ndim] real gradients of shape functions @ ip
	J    float64     // det(Jacobian) @ ip
	dSdr [][]float64 // [nverts][ndim] natural derivatives
	jmat [][]float64 // [ndim][ndim]
	jinv [][]float64 // [ndim][ndim]

	// scratchpad: face
	Sf    []float64   // [faceNverts] face shape functions @ face ip
	Fnvec []float64   // [ndim] normal vector scaled by face Jacobian
	dSfdr [][]float64 // [faceNverts][ndim-1]
}

// NewShape returns the shape structure for the given dimension: qua4 for 2D,
// hex8 for 3D
func NewShape(ndim int) *Shape {
	o := new(Shape)
	o.Ndim = ndim
	g := 1.0 / math.Sqrt(3.0)
	switch ndim {
	case 2:
		o.Nverts = 4
		o.FaceNverts = 2
		o.natCoords = []Ipoint{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		o.FaceLocalVerts = [][]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}}
		o.natFaceCoords = []Ipoint{{-1}, {1}}
		o.IpsElem = []Ipoint{
			{-g, -g, 0, 1}, {g, -g, 0, 1}, {g, g, 0, 1}, {-g, g, 0, 1},
		}
		o.IpsFace = []Ipoint{{-g, 0, 0, 1}, {g, 0, 0, 1}}
	case 3:
		o.Nverts = 8
		o.FaceNverts = 4
		o.natCoords = []Ipoint{
			{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
			{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		}
		o.FaceLocalVerts = [][]int{
			{0, 4, 7, 3}, {1, 2, 6, 5},
			{0, 1, 5, 4}, {2, 3, 7, 6},
			{0, 3, 2, 1}, {4, 5, 6, 7},
		}
		o.natFaceCoords = []Ipoint{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		o.IpsElem = make([]Ipoint, 0, 8)
		for _, t := range []float64{-g, g} {
			for _, s := range []float64{-g, g} {
				for _, r := range []float64{-g, g} {
					o.IpsElem = append(o.IpsElem, Ipoint{r, s, t, 1})
				}
			}
		}
		o.IpsFace = []Ipoint{{-g, -g, 0, 1}, {g, -g, 0, 1}, {g, g, 0, 1}, {-g, g, 0, 1}}
	default:
		chk.Panic("NewShape: ndim must be 2 or 3, got %d", ndim)
	}
	o.S = make([]float64, o.Nverts)
	o.G = alloc(o.Nverts, o.Ndim)
	o.dSdr = alloc(o.Nverts, o.Ndim)
	o.jmat = alloc(o.Ndim, o.Ndim)
	o.jinv = alloc(o.Ndim, o.Ndim)
	o.Sf = make([]float64, o.FaceNverts)
	o.Fnvec = make([]float64, o.Ndim)
	o.dSfdr = alloc(o.FaceNverts, o.Ndim-1)
	return o
}

// CalcAtIp computes S (and, with derivs, G and J) at the integration point
// ip, given the matrix of nodal coordinates X [ndim][nverts]
func (o *Shape) CalcAtIp(X [][]float64, ip Ipoint, derivs bool) (err error) {

	// shape functions and natural derivatives
	for m := 0; m < o.Nverts; m++ {
		nc := o.natCoords[m]
		prod := 1.0
		for j := 0; j < o.Ndim; j++ {
			prod *= 1.0 + ip[j]*nc[j]
		}
		den := math.Pow(2.0, float64(o.Ndim))
		o.S[m] = prod / den
		if derivs {
			for j := 0; j < o.Ndim; j++ {
				d := nc[j]
				for k := 0; k < o.Ndim; k++ {
					if k != j {
						d *= 1.0 + ip[k]*nc[k]
					}
				}
				o.dSdr[m][j] = d / den
			}
		}
	}
	if !derivs {
		return
	}

	// Jacobian matrix: dx_i/dr_j
	for i := 0; i < o.Ndim; i++ {
		for j := 0; j < o.Ndim; j++ {
			o.jmat[i][j] = 0
			for m := 0; m < o.Nverts; m++ {
				o.jmat[i][j] += X[i][m] * o.dSdr[m][j]
			}
		}
	}

	// determinant and inverse
	o.J, err = invMat(o.jinv, o.jmat)
	if err != nil {
		return
	}

	// real gradients: dS/dx_i = dS/dr_j · dr_j/dx_i
	for m := 0; m < o.Nverts; m++ {
		for i := 0; i < o.Ndim; i++ {
			o.G[m][i] = 0
			for j := 0; j < o.Ndim; j++ {
				o.G[m][i] += o.dSdr[m][j] * o.jinv[j][i]
			}
		}
	}
	return
}

// CalcAtFaceIp computes Sf and Fnvec at the face integration point ipf of
// the local face iface. X is the matrix of nodal coordinates [ndim][nverts].
func (o *Shape) CalcAtFaceIp(X [][]float64, ipf Ipoint, iface int) (err error) {
	fdim := o.Ndim - 1
	den := math.Pow(2.0, float64(fdim))
	for m := 0; m < o.FaceNverts; m++ {
		nc := o.natFaceCoords[m]
		prod := 1.0
		for j := 0; j < fdim; j++ {
			prod *= 1.0 + ipf[j]*nc[j]
		}
		o.Sf[m] = prod / den
		for j := 0; j < fdim; j++ {
			d := nc[j]
			for k := 0; k < fdim; k++ {
				if k != j {
					d *= 1.0 + ipf[k]*nc[k]
				}
			}
			o.dSfdr[m][j] = d / den
		}
	}

	// tangent vectors
	lverts := o.FaceLocalVerts[iface]
	var g1, g2 [3]float64
	for i := 0; i < o.Ndim; i++ {
		for m, lv := range lverts {
			g1[i] += X[i][lv] * o.dSfdr[m][0]
			if fdim == 2 {
				g2[i] += X[i][lv] * o.dSfdr[m][1]
			}
		}
	}

	// normal scaled by face Jacobian
	if o.Ndim == 2 {
		o.Fnvec[0] = g1[1]
		o.Fnvec[1] = -g1[0]
	} else {
		o.Fnvec[0] = g1[1]*g2[2] - g1[2]*g2[1]
		o.Fnvec[1] = g1[2]*g2[0] - g1[0]*g2[2]
		o.Fnvec[2] = g1[0]*g2[1] - g1[1]*g2[0]
	}
	return
}

// IpRealCoords returns the real coordinates of the integration point ip
func (o *Shape) IpRealCoords(X [][]float64, ip Ipoint) (x []float64) {
	o.CalcAtIp(X, ip, false)
	x = make([]float64, o.Ndim)
	for i := 0; i < o.Ndim; i++ {
		for m := 0; m < o.Nverts; m++ {
			x[i] += o.S[m] * X[i][m]
		}
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////

func alloc(m, n int) (mat [][]float64) {
	mat = make([][]float64, m)
	for i := 0; i < m; i++ {
		mat[i] = make([]float64, n)
	}
	return
}

// invMat inverts a (2x2 or 3x3) into ai and returns the determinant
func invMat(ai, a [][]float64) (det float64, err error) {
	if len(a) == 2 {
		det = a[0][0]*a[1][1] - a[0][1]*a[1][0]
		if det <= 0 {
			return det, chk.Err("cannot invert Jacobian with non-positive determinant %g", det)
		}
		ai[0][0] = a[1][1] / det
		ai[0][1] = -a[0][1] / det
		ai[1][0] = -a[1][0] / det
		ai[1][1] = a[0][0] / det
		return
	}
	det = a[0][0]*(a[1][1]*a[2][2]-a[1][2]*a[2][1]) -
		a[0][1]*(a[1][0]*a[2][2]-a[1][2]*a[2][0]) +
		a[0][2]*(a[1][0]*a[2][1]-a[1][1]*a[2][0])
	if det <= 0 {
		return det, chk.Err("cannot invert Jacobian with non-positive determinant %g", det)
	}
	ai[0][0] = (a[1][1]*a[2][2] - a[1][2]*a[2][1]) / det
	ai[0][1] = (a[0][2]*a[2][1] - a[0][1]*a[2][2]) / det
	ai[0][2] = (a[0][1]*a[1][2] - a[0][2]*a[1][1]) / det
	ai[1][0] = (a[1][2]*a[2][0] - a[1][0]*a[2][2]) / det
	ai[1][1] = (a[0][0]*a[2][2] - a[0][2]*a[2][0]) / det
	ai[1][2] = (a[0][2]*a[1][0] - a[0][0]*a[1][2]) / det
	ai[2][0] = (a[1][0]*a[2][1] - a[1][1]*a[2][0]) / det
	ai[2][1] = (a[0][1]*a[2][0] - a[0][0]*a[2][1]) / det
	ai[2][2] = (a[0][0]*a[1][1] - a[0][1]*a[1][0]) / det
	return
}
