/*
Copyright © 2013 the InMAP authors.
This file is part of InMAP.

InMAP is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

InMAP is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with InMAP.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package main runs a counting-subsystem simulation driven by a JSON
// config file, an external Mesh, and the external Scheduler's event
// stream.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/asaglam/countspace"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	meshFile   = flag.String("mesh", "", "Path to mesh geometry file (overrides config.MeshPath)")
	outDir     = flag.String("out", "", "Output directory (overrides config.OutputDir)")
)

func main() {
	flag.Parse()
	if *configFile == "" {
		log.Println("Need to specify configuration file as in " +
			"`countsim -config=configFile.json`")
		os.Exit(1)
	}

	cfg, err := countspace.ReadConfigFile(*configFile)
	if err != nil {
		log.Fatalf("reading config: %v", err)
	}
	if *meshFile != "" {
		cfg.MeshPath = *meshFile
	}
	if *outDir != "" {
		cfg.OutputDir = *outDir
	}

	// Wall/vertex construction from cfg.MeshPath is owned by the
	// external MDL-parsing collaborator (out of scope here, §1); this
	// driver only wires the lattice and a Mesh reading walls already
	// attached to it.
	lattice := cfg.BuildLattice()
	mesh := countspace.LatticeMesh{}
	out := countspace.NewTextOutputWriter(cfg.OutputDir)
	defer out.Close()

	ctx := countspace.NewSimContext(lattice, mesh, countspace.NewMathRandRNG(1),
		countspace.NewPriorityScheduler(), out, cfg.CounterTableSize)
	ctx.TimeStep, ctx.SpaceStep, ctx.LengthUnit = cfg.TimeStep, cfg.SpaceStep, cfg.LengthUnit

	if err := countspace.InitWaypoints(ctx); err != nil {
		countspace.EmergencyFlush(ctx)
		log.Fatalf("init waypoints: %v", err)
	}
	if err := ctx.CheckManifold(); err != nil {
		log.Fatalf("manifold check: %v", err)
	}

	if err := runLoop(ctx); err != nil {
		countspace.EmergencyFlush(ctx)
		log.Fatalf("simulation aborted: %v", err)
	}
}

// runLoop drains the scheduler, applying each event via the counting
// subsystem's fast-path update routines, until no events remain.
func runLoop(ctx *countspace.SimContext) error {
	for {
		ev, ok := ctx.Sched.Next()
		if !ok {
			return nil
		}
		if err := countspace.ApplyEvent(ctx, ev); err != nil {
			return err
		}
	}
}
