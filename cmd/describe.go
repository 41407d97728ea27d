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
	"io/ioutil"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/notargets/pdemeta/boundary"
	"github.com/notargets/pdemeta/problem"
	"github.com/notargets/pdemeta/varmap"
)

// DescribeCmd represents the describe command
var DescribeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Classify boundary conditions and print the metadata for a problem file",
	Long: `
Loads a YAML problem description, builds the variable map, classifies every
boundary/initial condition, assembles the boundary map and derives the
periodicity map, then prints all three.

pdemeta describe -p problem.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		fileName, err := cmd.Flags().GetString("problemFile")
		if err != nil {
			panic(err)
		}
		validate, _ := cmd.Flags().GetBool("validate")
		if len(fileName) == 0 {
			fmt.Printf("error: must supply a problem file (-p, --problemFile)\n")
			fmt.Printf("example problem file:\n%s\n", exampleProblem)
			os.Exit(1)
		}
		data, err := ioutil.ReadFile(fileName)
		if err != nil {
			fmt.Printf("error: unable to read problem file %s: %s\n", fileName, err.Error())
			os.Exit(1)
		}
		if err = Describe(data, validate); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

var exampleProblem = `
########################################
Title: "1D heat equation"
Coordinates: [x]
Time: t
Functions: [u]
Parameters: [alpha]
Domains:
  x: {Lower: 0, Upper: 1}
  t: {Lower: 0, Upper: 10}
Equations:
  - "D(u(t,x), t) ~ alpha * D2(u(t,x), x)"
Conditions:
  - "u(t, 0) ~ 0"
  - "u(t, 1) ~ 0"
  - "u(0, x) ~ sin(x)"
########################################
`

// Describe runs the full pipeline over one problem description and prints
// the resulting metadata.
func Describe(data []byte, validate bool) (err error) {
	var d problem.Definition
	if err = d.Parse(data); err != nil {
		return err
	}
	d.Print()
	in, err := d.Compile()
	if err != nil {
		return err
	}
	vm, err := varmap.Build(in)
	if err != nil {
		return err
	}
	printVariableMap(vm)

	list, err := boundary.NewClassifier(vm).ClassifyAll(vm.Conditions())
	if err != nil {
		return err
	}
	var v boundary.Validator = boundary.NopValidator{}
	if validate {
		v = boundary.CoverageValidator{}
	}
	bm, err := boundary.Assemble(list, vm, v)
	if err != nil {
		return err
	}
	printBoundaryMap(bm)

	pm := boundary.AnalyzePeriodicity(bm)
	fmt.Printf("[%t]\t\t\t= AnyPeriodic\n", pm.AnyPeriodic())
	for _, tag := range bm.Functions() {
		for _, coord := range bm.CoordinatesOf(tag) {
			if pm.IsPeriodic(tag, coord) {
				fmt.Printf("Periodic[%s, %s] = true\n", tag, coord)
			}
		}
	}
	return nil
}

func printVariableMap(vm *varmap.VariableMap) {
	fmt.Printf("%v\t\t= Unknowns\n", vm.Unknowns())
	fmt.Printf("%v\t\t= Spatial Coordinates (index order)\n", vm.SpatialCoordinates())
	if t, ok := vm.TimeCoordinate(); ok {
		fmt.Printf("[%s]\t\t\t= Time Coordinate\n", t)
	}
	for _, tag := range vm.Unknowns() {
		sig, _ := vm.SignatureOf(tag)
		fmt.Printf("Signature[%s] = (%s)\n", tag, strings.Join(sig, ", "))
	}
	for _, coord := range vm.AllCoordinates() {
		d, _ := vm.DomainOf(coord)
		fmt.Printf("Domain[%s] = (%g, %g), max derivative order %d\n",
			coord, d.Lower, d.Upper, vm.MaxDerivativeOrder(coord))
	}
}

func printBoundaryMap(bm *boundary.BoundaryMap) {
	for _, tag := range bm.Functions() {
		for _, coord := range bm.CoordinatesOf(tag) {
			for _, b := range bm.Lookup(tag, coord) {
				fmt.Printf("Boundary[%s, %s] = %s from %q\n",
					tag, coord, boundary.Describe(b), b.Equation())
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(DescribeCmd)
	DescribeCmd.Flags().StringP("problemFile", "p", "", "YAML problem description to classify")
	DescribeCmd.Flags().BoolP("validate", "v", false, "require full lower/upper edge coverage per function and coordinate")
}
