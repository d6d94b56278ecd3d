package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/catchment/internal/config"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"scale=6", "sigma=2.5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"scale": 6, "sigma": 2.5}, params)

	params, err = parseParams(nil)
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestParseParams_Invalid(t *testing.T) {
	for _, bad := range []string{"scale", "=6", "scale=abc"} {
		_, err := parseParams([]string{bad})
		assert.Error(t, err, "input %q", bad)
	}
}

func TestReadParamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scale: 30\nsigma: 12.5\n"), 0o644))

	params, err := readParamsFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"scale": 30, "sigma": 12.5}, params)
}

func TestReadParamsFile_Missing(t *testing.T) {
	_, err := readParamsFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestBuildSpec_FlagsOverrideConfig(t *testing.T) {
	orig := cfg
	defer func() { cfg = orig }()
	cfg = &config.Config{
		Model: config.ModelConfig{
			Model:                 "gravity",
			Decay:                 "uniform",
			Params:                map[string]float64{"scale": 10},
			SuboptimalityExponent: 1.0,
		},
	}

	cmd := scoreCmd
	require.NoError(t, cmd.Flags().Set("model", "3sfca"))
	require.NoError(t, cmd.Flags().Set("decay", "gaussian"))
	require.NoError(t, cmd.Flags().Set("param", "sigma=2"))
	defer func() {
		_ = cmd.Flags().Set("model", "")
		_ = cmd.Flags().Set("decay", "")
	}()

	spec, err := buildSpec(cmd)
	require.NoError(t, err)
	assert.Equal(t, "3sfca", spec.Model)
	assert.Equal(t, "gaussian", spec.Decay)
	assert.Equal(t, 2.0, spec.Params["sigma"])
	assert.Equal(t, 10.0, spec.Params["scale"], "config params carry through")

	engine, err := spec.Build()
	require.NoError(t, err)
	assert.NotNil(t, engine)
}
