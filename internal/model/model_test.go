package model

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/catchment/pkg/decay"
	"github.com/sells-group/catchment/pkg/gravity"
	"github.com/sells-group/catchment/pkg/matrix"
)

func TestSpec_Build2SFCA(t *testing.T) {
	e, err := Spec{Model: "2sfca", Radius: 6}.Build()
	require.NoError(t, err)

	dist, err := matrix.FromRows([][]float64{{5, 5}, {10, 0}, {15, 15}})
	require.NoError(t, err)
	scores, err := e.CalculateAccessibilityScores(dist, nil, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1.5, 0.5, 0}, scores, 1e-12)
}

func TestSpec_Build2SFCA_RequiresRadius(t *testing.T) {
	_, err := Spec{Model: "2sfca"}.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radius")
}

func TestSpec_Build3SFCA(t *testing.T) {
	e, err := Spec{Model: "3sfca", Decay: "uniform", Params: map[string]float64{"scale": 6}}.Build()
	require.NoError(t, err)

	dist, err := matrix.FromRows([][]float64{{5, 5}, {10, 0}, {15, 15}})
	require.NoError(t, err)
	scores, err := e.CalculateAccessibilityScores(dist, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 4.0/3.0, scores[0], 1e-6)
}

func TestSpec_BuildGravity_Defaults(t *testing.T) {
	// Empty model name defaults to the plain gravity engine.
	e, err := Spec{Decay: "gaussian", Params: map[string]float64{"sigma": 2}}.Build()
	require.NoError(t, err)
	assert.NotNil(t, e)
}

func TestSpec_Build_MissingKernelParams(t *testing.T) {
	_, err := Spec{Model: "gravity", Decay: "gaussian"}.Build()
	require.Error(t, err)
	assert.True(t, eris.Is(err, gravity.ErrMissingParams))
}

func TestSpec_Build_UnknownKernel(t *testing.T) {
	_, err := Spec{Model: "gravity", Decay: "bogus", Params: map[string]float64{"scale": 1}}.Build()
	require.Error(t, err)
	assert.True(t, eris.Is(err, decay.ErrUnknownKernel))
}

func TestSpec_Build_UnknownModel(t *testing.T) {
	_, err := Spec{Model: "4sfca", Decay: "uniform", Params: map[string]float64{"scale": 1}}.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model")
}

func TestSpec_KernelName(t *testing.T) {
	assert.Equal(t, "uniform", Spec{Model: "2sfca", Radius: 3}.KernelName())
	assert.Equal(t, "gaussian", Spec{Model: "gravity", Decay: "Gaussian"}.KernelName())
}
