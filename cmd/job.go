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
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gopulse/InputParameters"
	"github.com/notargets/gopulse/assembly"
	"github.com/notargets/gopulse/model_problems"
	"github.com/notargets/gopulse/preprocessor"
)

// Job holds the settings shared by the analysis commands
type Job struct {
	InputFile  string
	ModelName  string
	Elements   int
	OutputFile string
	Verbose    bool
	Parallel   int
}

// Analysis settings used with the built in model problems
var defaultAnalysis = InputParameters.AnalysisParameters{
	Modes: 6,
	FMin:  1,
	FMax:  200,
	FStep: 1,
}

const exampleFile = `
########################################
Title: "Cantilever"
Nodes: [[1, 0, 0, 0], [2, 1, 0, 0], [3, 2, 0, 0]]
Elements: [[1, 1, 2], [2, 2, 3]]
Materials:
  steel: {Density: 7860, YoungModulus: 210.e+9, PoissonRatio: 0.3}
Sections:
  tube: {OuterDiameter: 0.05, Thickness: 0.005}
ElementGroups:
  - {Material: steel, Section: tube, Type: pipe16}
PrescribedDOFs:
  - {Node: 1, DOFs: [ux, uy, uz, rx, ry, rz], Values: [0, 0, 0, 0, 0, 0]}
Loads:
  - {Node: 3, DOFs: [uy], Values: [1000]}
Analysis: {Modes: 4, FMin: 1, FMax: 100, FStep: 1, Method: direct}
########################################
`

func addJobFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("inputFile", "I", "", "YAML model file")
	cmd.Flags().StringP("model", "m", "", fmt.Sprintf("built in model problem instead of a file, one of %v", model_problems.ModelNames))
	cmd.Flags().IntP("elements", "k", 8, "number of elements per leg of a built in model problem")
	cmd.Flags().StringP("outputFile", "o", "", "write results to this YAML file")
}

func newJob(cmd *cobra.Command) (job *Job, err error) {
	job = &Job{
		Verbose:  viper.GetBool("verbose"),
		Parallel: viper.GetInt("parallel"),
	}
	if job.InputFile, err = cmd.Flags().GetString("inputFile"); err != nil {
		return
	}
	if job.ModelName, err = cmd.Flags().GetString("model"); err != nil {
		return
	}
	if job.Elements, err = cmd.Flags().GetInt("elements"); err != nil {
		return
	}
	if job.OutputFile, err = cmd.Flags().GetString("outputFile"); err != nil {
		return
	}
	if (len(job.InputFile) == 0) == (len(job.ModelName) == 0) {
		err = fmt.Errorf("must supply one of an input file (-I, --inputFile) or a model problem (-m, --model)\nExample File:%s",
			exampleFile)
	}
	return
}

// Load reads the model and assembles the global system.
func (job *Job) Load() (title string, analysis InputParameters.AnalysisParameters,
	pre *preprocessor.PreProcessor, sys *assembly.System, err error) {
	var (
		in preprocessor.Input
	)
	if len(job.InputFile) != 0 {
		var data []byte
		if data, err = os.ReadFile(job.InputFile); err != nil {
			return
		}
		m := &InputParameters.Model{}
		if err = m.Parse(data); err != nil {
			err = fmt.Errorf("parsing %s: %w", job.InputFile, err)
			return
		}
		if job.Verbose {
			m.Print()
		}
		if in, err = m.Input(); err != nil {
			return
		}
		title, analysis = m.Title, m.Analysis
	} else {
		if in, err = model_problems.ByName(job.ModelName, job.Elements); err != nil {
			return
		}
		title, analysis = job.ModelName, defaultAnalysis
	}
	if job.Parallel > 0 {
		analysis.ParallelDegree = job.Parallel
	}
	if pre, err = preprocessor.New(in); err != nil {
		return
	}
	if sys, err = assembly.New(pre); err != nil {
		return
	}
	if job.Verbose {
		log.Printf("%s: %d nodes, %d elements, %d free dofs, %d prescribed dofs\n",
			title, pre.NumNodes(), len(pre.Elements), len(sys.FreeDOFs), len(sys.PrescribedDOFs))
	}
	return
}

func (job *Job) WriteOutput(out interface{}) (err error) {
	if len(job.OutputFile) == 0 {
		return
	}
	var data []byte
	if data, err = InputParameters.Marshal(out); err != nil {
		return
	}
	return os.WriteFile(job.OutputFile, data, 0644)
}
