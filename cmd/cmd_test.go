package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gopulse/InputParameters"
)

func writeExample(t *testing.T) string {
	file := filepath.Join(t.TempDir(), "cantilever.yaml")
	require.NoError(t, os.WriteFile(file, []byte(exampleFile), 0644))
	return file
}

func TestRunModal(t *testing.T) {
	var (
		buf bytes.Buffer
		out = filepath.Join(t.TempDir(), "modes.yaml")
	)
	job := &Job{InputFile: writeExample(t), OutputFile: out}
	require.NoError(t, RunModal(job, 2, 0, &buf))
	assert.True(t, strings.Contains(buf.String(), "Mode[2]"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var modes InputParameters.ModalOutput
	require.NoError(t, yaml.Unmarshal(data, &modes))
	assert.Equal(t, "Cantilever", modes.Title)
	require.Len(t, modes.Modes, 2)
	assert.Len(t, modes.Modes[0].Nodes, 3)
	assert.Greater(t, modes.Modes[0].Frequency, 0.)
}

func TestRunHarmonic(t *testing.T) {
	var (
		buf bytes.Buffer
		out = filepath.Join(t.TempDir(), "response.yaml")
	)
	job := &Job{InputFile: writeExample(t), OutputFile: out, Parallel: 2}
	require.NoError(t, RunHarmonic(context.Background(), job, "modal", &buf))
	assert.True(t, strings.Contains(buf.String(), "mode_superposition, 100 frequencies"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var resp InputParameters.HarmonicOutput
	require.NoError(t, yaml.Unmarshal(data, &resp))
	assert.Len(t, resp.Frequencies, 100)
	assert.Len(t, resp.Reactions, 6)

	// Built in model problem without output
	buf.Reset()
	job = &Job{ModelName: "lshape", Elements: 2}
	require.NoError(t, RunHarmonic(context.Background(), job, "direct", &buf))
	assert.True(t, strings.Contains(buf.String(), "lshape: direct, 200 frequencies"))

	job = &Job{InputFile: writeExample(t)}
	assert.Error(t, RunHarmonic(context.Background(), job, "fourier", &buf))
}

func TestCommands(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "gopulse v"+Version+"\n", buf.String())

	buf.Reset()
	rootCmd.SetArgs([]string{"modal", "-m", "clamped", "-k", "4", "--modes", "3"})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.Contains(buf.String(), "clamped: 3 modes"))

	rootCmd.SetArgs([]string{"modal", "-m", "clamped", "-I", "model.yaml"})
	assert.Error(t, rootCmd.Execute())

	// Instruction counting runs a serial sweep, with or without perf event access
	buf.Reset()
	rootCmd.SetArgs([]string{"harmonic", "-m", "cantilever", "-k", "2", "--perf"})
	require.NoError(t, rootCmd.Execute())
	assert.True(t, strings.Contains(buf.String(), "cantilever: direct"))
}
