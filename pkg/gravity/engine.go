// Package gravity implements gravity-based measures of potential spatial
// accessibility. An Engine binds a distance decay kernel and runs a
// two-stage algorithm over a distance matrix: stage one aggregates
// decay-weighted demand at each supply location (the demand potential),
// stage two distributes each supply location's capacity back to demand
// locations in proportion to decay weight and inverse potential.
//
// Different kernel and option choices reproduce the published floating
// catchment area model family: 2SFCA (uniform kernel), E2SFCA and KD2SFCA
// (smooth kernels), 3SFCA (Huff-style normalization), and M2SFCA
// (suboptimality exponent).
//
// References:
//
//	Luo, W. and Wang, F. (2003) Measures of spatial accessibility to health
//	care in a GIS environment. Environment and Planning B 30, 865-884.
//
//	Wan, N., Zou, B. and Sternberg, T. (2012) A three-step floating catchment
//	area method for analyzing spatial access to health services.
//	IJGIS 26, 1073-1089.
package gravity

import (
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/catchment/pkg/decay"
	"github.com/sells-group/catchment/pkg/matrix"
)

// ErrMissingParams is returned when a kernel's required parameters are
// absent at engine construction.
var ErrMissingParams = eris.New("gravity: missing kernel parameters")

// zeroDistanceWeight stands in for an infinite inverse-distance pull when a
// demand and supply location coincide. A co-located supply option dominates
// its row of interaction probabilities without poisoning the normalization
// with Inf. Matches the constant used in the reference implementation.
const zeroDistanceWeight = 1e8

// Engine is an immutable gravity model: a bound decay kernel plus the
// options fixed at construction. Engines are safe for concurrent use; each
// call allocates its own intermediates.
type Engine struct {
	kernel                decay.Kernel
	huffNormalization     bool
	suboptimalityExponent float64
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithHuffNormalization weights demand contributions by Huff-style
// interaction probabilities, spreading each demand location's pull across
// its competing supply options. This is the 3SFCA correction for demand
// over-estimation.
func WithHuffNormalization() Option {
	return func(e *Engine) { e.huffNormalization = true }
}

// WithSuboptimalityExponent sets the exponent applied to the stage-two
// decay weight. Values above 1.0 (the M2SFCA generalization) penalize
// access that is realized over longer distances, so the demand-weighted
// average score falls below the total supply. The default 1.0 recovers the
// ordinary model family. This is a model-specific generalization of this
// engine, not a universal FCA parameter.
func WithSuboptimalityExponent(exp float64) Option {
	return func(e *Engine) { e.suboptimalityExponent = exp }
}

// New builds an Engine from a catalog kernel name and its parameters.
//
// The name is resolved case-insensitively against the decay catalog. Every
// parameter the kernel declares must be present in params or construction
// fails listing the missing names. Unrecognized parameters are ignored with
// a logged warning.
func New(name string, params map[string]float64, opts ...Option) (*Engine, error) {
	spec, err := decay.Lookup(name)
	if err != nil {
		return nil, err
	}
	if missing := spec.Missing(params); len(missing) > 0 {
		return nil, eris.Wrapf(ErrMissingParams,
			"gravity: kernel %q requires parameter(s) %s", spec.Name, strings.Join(missing, ", "))
	}
	if extra := spec.Extra(params); len(extra) > 0 {
		zap.L().Warn("gravity: ignoring unrecognized kernel parameters",
			zap.String("kernel", spec.Name),
			zap.Strings("params", extra),
		)
	}
	return NewFromKernel(spec.Build(params), opts...), nil
}

// NewFromKernel builds an Engine around a caller-supplied kernel. The
// kernel must already have its shape parameters bound.
func NewFromKernel(k decay.Kernel, opts ...Option) *Engine {
	e := &Engine{
		kernel:                k,
		suboptimalityExponent: 1.0,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CalculateAccessibilityScores runs the two-stage gravity algorithm over a
// distance matrix whose entry (i, j) is the distance between demand
// location i and supply location j. NaN distances mark unreachable pairs
// and contribute nothing to either stage.
//
// demand and supply are per-location multipliers; nil defaults to all-ones.
// The result holds one accessibility score per demand location.
func (e *Engine) CalculateAccessibilityScores(dist matrix.Matrix, demand, supply []float64) ([]float64, error) {
	numDemand, numSupply := dist.Rows(), dist.Cols()

	if demand == nil {
		demand = matrix.Ones(numDemand)
	} else if len(demand) != numDemand {
		return nil, eris.Errorf("gravity: demand weights have length %d, expected %d", len(demand), numDemand)
	}
	if supply == nil {
		supply = matrix.Ones(numSupply)
	} else if len(supply) != numSupply {
		return nil, eris.Errorf("gravity: supply weights have length %d, expected %d", len(supply), numSupply)
	}

	weights := dist.Map(e.kernel.Weight)

	var probs matrix.Matrix
	if e.huffNormalization {
		probs = interactionProbabilities(dist)
	}

	potentials := e.demandPotentials(weights, probs, demand)

	// A supply location with zero contending demand is excluded from every
	// score rather than contributing unbounded access.
	inverse := make([]float64, numSupply)
	for j, p := range potentials {
		if p != 0 {
			inverse[j] = 1 / p
		}
	}

	scores := make([]float64, numDemand)
	for i := 0; i < numDemand; i++ {
		var sum float64
		for j := 0; j < numSupply; j++ {
			w := weights.At(i, j)
			if e.suboptimalityExponent != 1.0 {
				w = math.Pow(w, e.suboptimalityExponent)
			}
			ratio := supply[j] * inverse[j] * w
			if e.huffNormalization {
				ratio *= probs.At(i, j)
			}
			if !math.IsNaN(ratio) {
				sum += ratio
			}
		}
		scores[i] = sum
	}
	return scores, nil
}

// demandPotentials computes the decay-weighted aggregate demand pressing on
// each supply location. NaN terms (unreachable pairs) are skipped.
func (e *Engine) demandPotentials(weights, probs matrix.Matrix, demand []float64) []float64 {
	potentials := make([]float64, weights.Cols())
	for j := range potentials {
		var sum float64
		for i := 0; i < weights.Rows(); i++ {
			term := demand[i] * weights.At(i, j)
			if e.huffNormalization {
				term *= probs.At(i, j)
			}
			if !math.IsNaN(term) {
				sum += term
			}
		}
		potentials[j] = sum
	}
	return potentials
}

// interactionProbabilities returns the Huff-style interaction probability
// for each demand-supply pair: inverse distance, normalized to sum to one
// across each demand location's row. Zero distances take a large finite
// weight instead of Inf.
//
// This is a deliberate simplification of the textbook Huff model, which
// would run an alternative decay kernel through the normalization; kept
// as-is for parity with the reference implementation.
func interactionProbabilities(dist matrix.Matrix) matrix.Matrix {
	inv := dist.Map(func(d float64) float64 {
		if d == 0 {
			return zeroDistanceWeight
		}
		return 1 / d
	})
	probs := matrix.New(inv.Rows(), inv.Cols())
	for i := 0; i < inv.Rows(); i++ {
		rowSum := inv.NaNSumRow(i)
		for j := 0; j < inv.Cols(); j++ {
			probs.Set(i, j, inv.At(i, j)/rowSum)
		}
	}
	return probs
}
