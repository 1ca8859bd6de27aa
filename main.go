// Copyright 2024 The Adamantine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/Lance-Drane/adamantine/fem"
	"github.com/Lance-Drane/adamantine/inp"
	"github.com/Lance-Drane/adamantine/msh"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".sim", true)
	verbose := io.ArgToBool(1, true)

	// message
	if verbose {
		io.PfWhite("\nAdamantine -- thermal simulation of additive manufacturing\n")
		io.Pf("Copyright 2024 The Adamantine Authors. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n")
		io.Pf("\n%v\n", io.ArgsTable("INPUT ARGUMENTS",
			"filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	// input data and reference grid
	sim := inp.ReadSim(fnamepath)
	m, err := msh.NewGrid(sim.Data.Ndim, sim.Geom.Ncells, sim.Geom.Lengths)
	if err != nil {
		chk.Panic("cannot build grid:\n%v", err)
	}
	if verbose {
		io.Pf("%v\n", m)
	}

	// build and run
	phys, err := fem.NewPhysics(sim, m)
	if err != nil {
		chk.Panic("cannot build physics:\n%v", err)
	}
	err = phys.Run(sim.Time.Tf, sim.Time.DtFunc, verbose)
	if err != nil {
		chk.Panic("Run failed:\n%v", err)
	}
	if verbose {
		io.Pf("\nfinal time = %g\n", phys.Time)
	}
}
