package gravity

import "github.com/sells-group/catchment/pkg/decay"

// TwoStepFCA returns an Engine configured as the standard Two-Step Floating
// Catchment Area model: a hard-cutoff catchment of the given radius. Pairs
// of locations further apart than radius are mutually inaccessible; pairs
// within it interact at full weight with no decay.
func TwoStepFCA(radius float64) *Engine {
	return NewFromKernel(decay.Uniform{Scale: radius})
}

// ThreeStepFCA returns an Engine configured as the Three-Step Floating
// Catchment Area model: the caller's choice of decay kernel with Huff-style
// normalization forced on.
//
// In 3SFCA the presence of nearby options tempers the demand a location
// places on distant supply: a demand location with many close alternatives
// does not press on a faraway provider the way an isolated location at the
// same distance does. Normalizing by interaction probability curbs the
// demand over-estimation of plain 2SFCA.
func ThreeStepFCA(name string, params map[string]float64) (*Engine, error) {
	return New(name, params, WithHuffNormalization())
}

// ThreeStepFCAFromKernel is ThreeStepFCA for a caller-supplied kernel.
func ThreeStepFCAFromKernel(k decay.Kernel) *Engine {
	return NewFromKernel(k, WithHuffNormalization())
}
