// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/require"
)

func Test_read01(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("read01. read simulation file")

	sim := ReadSim("data/lpbf01.sim")
	require.Equal(tst, 2, sim.Data.Ndim)
	require.Equal(tst, "lpbf01", sim.Key)
	require.Equal(tst, []int{2, 1}, sim.Geom.Ncells)
	require.Equal(tst, 300.0, sim.Geom.Tdeposit)
	require.Equal(tst, "convective,radiative", sim.Boundary.Type)
	require.Equal(tst, "heun_euler", sim.Time.Method)
	require.True(tst, sim.Time.Jfnk)

	// explicit value beats the default
	require.Equal(tst, 1e-6, sim.Time.RefineTol)

	// defaults fill the rest
	require.Equal(tst, 1.2, sim.Time.CoarsenParam)
	require.Equal(tst, 0.8, sim.Time.RefineParam)
	require.Equal(tst, 1000, sim.Time.MaxIt)
	require.Equal(tst, 30, sim.Time.NtmpVectors)

	// constant dt function
	require.NotNil(tst, sim.Time.DtFunc)
	require.Equal(tst, 0.01, sim.Time.DtFunc.F(0.3, nil))

	// materials
	require.Len(tst, sim.Materials, 1)
	require.NotNil(tst, sim.Materials.Get("ss316l"))
	require.Nil(tst, sim.Materials.Get("inconel"))
	mats, err := sim.Materials.Models(sim.Data.Ndim)
	require.NoError(tst, err)
	require.Equal(tst, 1675.0, mats[0].Solidus)
	require.Equal(tst, 1708.0, mats[0].Liquidus)
	require.Equal(tst, 1675.0, mats[0].Tmelt) // defaults to solidus

	// sources
	require.Len(tst, sim.Sources, 1)
	require.Equal(tst, "goldak", sim.Sources[0].Kind)
	require.Len(tst, sim.Sources[0].Path, 2)
}

func Test_read02(tst *testing.T) {

	//chk.Verbose = true
	chk.PrintTitle("read02. functions database")

	sim := ReadSim("data/lpbf01.sim")

	f, err := sim.Functions.Get("dtfine")
	require.NoError(tst, err)
	require.Equal(tst, 0.001, f.F(0, nil))

	z, err := sim.Functions.Get("zero")
	require.NoError(tst, err)
	require.Equal(tst, 0.0, z.F(12.0, nil))

	_, err = sim.Functions.Get("does-not-exist")
	require.Error(tst, err)
}
