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
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/notargets/gopulse/InputParameters"
	"github.com/notargets/gopulse/solution"
	"github.com/notargets/gopulse/utils"
)

// HarmonicCmd represents the harmonic command
var HarmonicCmd = &cobra.Command{
	Use:   "harmonic",
	Short: "Harmonic response over a frequency sweep",
	Long: `
Solves the steady state response to the model loads for each frequency of the
sweep, by a direct solve or by mode superposition,

gopulse harmonic -I model.yaml [--method direct|modal] [--profile dir] [--perf] [-o response.yaml]`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var job *Job
		if job, err = newJob(cmd); err != nil {
			return
		}
		method, _ := cmd.Flags().GetString("method")
		if dir, _ := cmd.Flags().GetString("profile"); len(dir) != 0 {
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(dir)).Stop()
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		run := func() error { return RunHarmonic(ctx, job, method, cmd.OutOrStdout()) }
		if usePerf, _ := cmd.Flags().GetBool("perf"); usePerf {
			// The counter follows the calling thread only
			job.Parallel = 1
			return withInstructionCount(cmd.OutOrStdout(), run)
		}
		return run()
	},
}

func init() {
	rootCmd.AddCommand(HarmonicCmd)
	addJobFlags(HarmonicCmd)
	HarmonicCmd.Flags().String("method", "", "direct or modal, overrides the model file")
	HarmonicCmd.Flags().String("profile", "", "write a CPU profile of the sweep into this directory")
	HarmonicCmd.Flags().Bool("perf", false, "count the CPU instructions of a serial sweep with perf events (linux), implies --parallel 1")
}

// RunHarmonic runs the sweep, an empty method keeps the model's method.
func RunHarmonic(ctx context.Context, job *Job, method string, w io.Writer) (err error) {
	title, analysis, pre, sys, err := job.Load()
	if err != nil {
		return
	}
	if len(method) != 0 {
		analysis.Method = method
	}
	cfg, err := analysis.HarmonicConfig()
	if err != nil {
		return
	}
	start := time.Now()
	res, err := solution.Harmonic(ctx, sys, cfg)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "%s: %s, %d frequencies in %v\n", title, res.Method, len(res.Frequencies), time.Since(start))
	if res.Basis != nil {
		fmt.Fprintf(w, "%d modes, highest %.5f Hz\n", res.Basis.NumModes(), res.Basis.Frequencies[res.Basis.NumModes()-1])
	}
	for _, fe := range res.Failures {
		fmt.Fprintf(w, "failed: %v\n", fe)
	}
	if job.Verbose {
		log.Println(utils.GetMemUsage())
	}
	out, err := InputParameters.NewHarmonicOutput(title, pre, sys, res)
	if err != nil {
		return
	}
	return job.WriteOutput(out)
}
