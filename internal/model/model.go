// Package model holds the shared description of an accessibility model
// configuration and builds gravity engines from it.
package model

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/catchment/pkg/gravity"
)

// Model names accepted by Spec.
const (
	ModelGravity = "gravity"
	Model2SFCA   = "2sfca"
	Model3SFCA   = "3sfca"
)

// Spec describes an accessibility model: which preconfiguration to use and
// the decay kernel behind it. It is the common currency between the CLI
// flags, the HTTP API, and the run store.
type Spec struct {
	Model                 string             `json:"model" yaml:"model"`
	Decay                 string             `json:"decay" yaml:"decay"`
	Params                map[string]float64 `json:"params,omitempty" yaml:"params"`
	Radius                float64            `json:"radius,omitempty" yaml:"radius"`
	HuffNormalization     bool               `json:"huff_normalization,omitempty" yaml:"huff_normalization"`
	SuboptimalityExponent float64            `json:"suboptimality_exponent,omitempty" yaml:"suboptimality_exponent"`
}

// KernelName returns the kernel name the built engine will use, for
// bookkeeping in saved runs.
func (s Spec) KernelName() string {
	if strings.EqualFold(s.Model, Model2SFCA) {
		return "uniform"
	}
	return strings.ToLower(s.Decay)
}

// Build constructs the engine the spec describes. Unknown model names,
// unknown kernels, and missing kernel parameters all fail here, before any
// scoring work starts.
func (s Spec) Build() (*gravity.Engine, error) {
	switch strings.ToLower(s.Model) {
	case Model2SFCA:
		if s.Radius <= 0 {
			return nil, eris.New("model: 2sfca requires a positive radius")
		}
		return gravity.TwoStepFCA(s.Radius), nil

	case Model3SFCA:
		if s.Decay == "" {
			return nil, eris.New("model: 3sfca requires a decay kernel")
		}
		return gravity.ThreeStepFCA(s.Decay, s.Params)

	case ModelGravity, "":
		if s.Decay == "" {
			return nil, eris.New("model: gravity requires a decay kernel")
		}
		var opts []gravity.Option
		if s.HuffNormalization {
			opts = append(opts, gravity.WithHuffNormalization())
		}
		if s.SuboptimalityExponent != 0 && s.SuboptimalityExponent != 1 {
			opts = append(opts, gravity.WithSuboptimalityExponent(s.SuboptimalityExponent))
		}
		return gravity.New(s.Decay, s.Params, opts...)

	default:
		return nil, eris.Errorf("model: unknown model %q (want gravity, 2sfca, or 3sfca)", s.Model)
	}
}
