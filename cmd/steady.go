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
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maritimebear/godhn/network"
	"github.com/maritimebear/godhn/solver"
)

// steadyCmd solves for the network's steady state
var steadyCmd = &cobra.Command{
	Use:   "steady",
	Short: "Steady-state network solution",
	Long: `
Assembles the network and finds the root of the full right-hand side at
t = 0: hydraulic equilibrium and thermal balance,

godhn steady -f network.yaml -p sim.yaml -o out.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		netPath, _ := cmd.Flags().GetString("file")
		parPath, _ := cmd.Flags().GetString("params")
		outPath, _ := cmd.Flags().GetString("output")
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
		x, err := solver.SolveSteady(rhs, x0, 0, opts)
		if err != nil {
			log.Fatal(err)
		}
		tr := solver.SteadyTrajectory(sys.Symbols(), 0, x)
		if err := writeResult(tr, outPath); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(steadyCmd)
	steadyCmd.Flags().StringP("file", "f", "network.yaml", "network description file")
	steadyCmd.Flags().StringP("params", "p", "", "simulation parameter file (defaults apply if empty)")
	steadyCmd.Flags().StringP("output", "o", "", "CSV output path (stdout if empty)")
}
