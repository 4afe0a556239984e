/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maritimebear/godhn/InputParameters"
	"github.com/maritimebear/godhn/convection"
	"github.com/maritimebear/godhn/fluids"
	"github.com/maritimebear/godhn/netfile"
	"github.com/maritimebear/godhn/network"
	"github.com/maritimebear/godhn/solver"
)

// simCmd runs a transient simulation
var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Transient network simulation",
	Long: `
Assembles the network described by the input file into a DAE and integrates
it with implicit Euler from t = 0 to FinalTime,

godhn sim -f network.yaml -p sim.yaml -o out.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		netPath, _ := cmd.Flags().GetString("file")
		parPath, _ := cmd.Flags().GetString("params")
		outPath, _ := cmd.Flags().GetString("output")
		prof, _ := cmd.Flags().GetBool("profile")
		if prof {
			defer profile.Start().Stop()
		}
		sys, sp, err := loadSystem(netPath, parPath)
		if err != nil {
			log.Fatal(err)
		}
		par := network.Parameters{Density: sp.Density, AmbientTemperature: sp.AmbientTemperature}
		rhs := func(dst, state []float64, t float64) error {
			return sys.RHS(dst, state, par, t)
		}
		x0 := sys.NewState(1e5, sp.InitialTemperature, sp.InitialMassflow)
		opts := solver.Options{Tolerance: sp.Tolerance, MaxIterations: sp.MaxIterations}
		tr, err := solver.IntegrateImplicitEuler(rhs, sys.MassDiagonal(), x0, 0, sp.FinalTime, sp.TimeStep, opts)
		if err != nil {
			log.Fatal(err)
		}
		tr.Symbols = sys.Symbols()
		if err := writeResult(tr, outPath); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(simCmd)
	simCmd.Flags().StringP("file", "f", "network.yaml", "network description file")
	simCmd.Flags().StringP("params", "p", "", "simulation parameter file (defaults apply if empty)")
	simCmd.Flags().StringP("output", "o", "", "CSV output path (stdout if empty)")
	simCmd.Flags().Bool("profile", false, "write a CPU profile")
}

func loadSystem(netPath, parPath string) (*network.System, *InputParameters.SimulationParameters, error) {
	sp := InputParameters.DefaultSimulationParameters()
	if parPath != "" {
		data, err := os.ReadFile(parPath)
		if err != nil {
			return nil, nil, err
		}
		if err := sp.Parse(data); err != nil {
			return nil, nil, err
		}
	}
	sp.Print()

	fluid, err := fluids.ByName(sp.Fluid)
	if err != nil {
		return nil, nil, err
	}
	scheme, err := convection.ByName(sp.Scheme)
	if err != nil {
		return nil, nil, err
	}
	friction := fluids.FrictionChurchill
	switch sp.Friction {
	case "churchill", "":
	case "haaland":
		friction = fluids.FrictionHaaland
	default:
		return nil, nil, fmt.Errorf("unknown friction correlation %q", sp.Friction)
	}

	g, err := netfile.Load(netPath, sp.CellWidth, sp.Density)
	if err != nil {
		return nil, nil, err
	}
	sys, err := network.Assemble(g, network.Config{
		Fluid:          fluid,
		Scheme:         scheme,
		Friction:       friction,
		Nusselt:        fluids.NusseltGnielinski,
		ParallelDegree: sp.ParallelDegree,
	})
	if err != nil {
		return nil, nil, err
	}
	log.WithFields(log.Fields{"dim": sys.Dim()}).Info("system assembled")
	return sys, &sp, nil
}

func writeResult(tr *solver.Trajectory, outPath string) error {
	if outPath == "" {
		return tr.WriteCSV(os.Stdout)
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return tr.WriteCSV(f)
}
