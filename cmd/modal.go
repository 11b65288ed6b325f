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
	"io"

	"github.com/spf13/cobra"

	"github.com/notargets/gopulse/InputParameters"
	"github.com/notargets/gopulse/solution"
)

// ModalCmd represents the modal command
var ModalCmd = &cobra.Command{
	Use:   "modal",
	Short: "Natural frequencies and mode shapes",
	Long: `
Computes the lowest natural frequencies and mass normalized mode shapes with a
shift-invert eigen solve around sigma,

gopulse modal -I model.yaml [--modes 10] [--sigma 1.e-2] [-o modes.yaml]`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var job *Job
		if job, err = newJob(cmd); err != nil {
			return
		}
		modes, _ := cmd.Flags().GetInt("modes")
		sigma, _ := cmd.Flags().GetFloat64("sigma")
		return RunModal(job, modes, sigma, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(ModalCmd)
	addJobFlags(ModalCmd)
	ModalCmd.Flags().Int("modes", 0, "number of modes, overrides the model file")
	ModalCmd.Flags().Float64("sigma", 0, "eigen shift, overrides the model file")
}

// RunModal solves the modal problem, zero modes or sigma keep the model's values.
func RunModal(job *Job, modes int, sigma float64, w io.Writer) (err error) {
	title, analysis, pre, sys, err := job.Load()
	if err != nil {
		return
	}
	cfg := analysis.ModalConfig()
	if modes != 0 {
		cfg.Modes = modes
	}
	if sigma != 0 {
		cfg.Sigma = sigma
	}
	res, err := solution.Modal(sys, cfg)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "%s: %d modes, sigma = %g\n", title, res.NumModes(), res.Sigma)
	for k, f := range res.Frequencies {
		fmt.Fprintf(w, "Mode[%d]\t%12.5f Hz\n", k+1, f)
	}
	out, err := InputParameters.NewModalOutput(title, pre, sys, res)
	if err != nil {
		return
	}
	return job.WriteOutput(out)
}
