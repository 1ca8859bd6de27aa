// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Segment is one leg of a scan path. The beam travels in a straight line
// from the end point of the previous segment, arriving at (X,Y,Z) at EndTime
// with the given power modifier. The first segment is a spot: the beam sits
// at its end point until EndTime.
type Segment struct {
	EndTime float64 `json:"endtime"` // time the beam reaches the end point
	X       float64 `json:"x"`       // end point
	Y       float64 `json:"y"`       // end point (unused in 2D)
	Z       float64 `json:"z"`       // end point height (build direction)
	Power   float64 `json:"power"`   // power modifier in [0,1] along this leg
}

// ScanPath interpolates the beam centre and power modifier along a toolpath
type ScanPath struct {
	Segs []*Segment
}

// NewScanPath checks and wraps a list of segments
func NewScanPath(segs []*Segment) (*ScanPath, error) {
	if len(segs) < 1 {
		return nil, chk.Err("scan path needs at least one segment")
	}
	for i := 1; i < len(segs); i++ {
		if segs[i].EndTime <= segs[i-1].EndTime {
			return nil, chk.Err("scan path segment end times must increase: segment %d has %g <= %g", i, segs[i].EndTime, segs[i-1].EndTime)
		}
	}
	return &ScanPath{Segs: segs}, nil
}

// Position returns the beam centre at time t. Before the path starts the
// beam sits at the first point; after the path ends it stays at the last.
func (o *ScanPath) Position(t float64) (x, y, z float64) {
	first := o.Segs[0]
	if t <= first.EndTime {
		return first.X, first.Y, first.Z
	}
	for i := 1; i < len(o.Segs); i++ {
		s := o.Segs[i]
		if t <= s.EndTime {
			p := o.Segs[i-1]
			m := (t - p.EndTime) / (s.EndTime - p.EndTime)
			return p.X + m*(s.X-p.X), p.Y + m*(s.Y-p.Y), p.Z + m*(s.Z-p.Z)
		}
	}
	last := o.Segs[len(o.Segs)-1]
	return last.X, last.Y, last.Z
}

// Direction returns the in-plane unit direction of travel at time t. Spot
// segments and a parked beam do not travel; the direction falls back to the
// x axis.
func (o *ScanPath) Direction(t float64) (cosdir, sindir float64) {
	cosdir = 1.0
	if t <= o.Segs[0].EndTime {
		return
	}
	for i := 1; i < len(o.Segs); i++ {
		s := o.Segs[i]
		if t <= s.EndTime {
			p := o.Segs[i-1]
			dx, dy := s.X-p.X, s.Y-p.Y
			d := math.Sqrt(dx*dx + dy*dy)
			if d == 0 {
				return
			}
			return dx / d, dy / d
		}
	}
	return
}

// PowerModifier returns the segment power modifier at time t. The beam is
// switched off once the path is exhausted.
func (o *ScanPath) PowerModifier(t float64) float64 {
	if t <= o.Segs[0].EndTime {
		return o.Segs[0].Power
	}
	for i := 1; i < len(o.Segs); i++ {
		if t <= o.Segs[i].EndTime {
			return o.Segs[i].Power
		}
	}
	return 0.0
}
