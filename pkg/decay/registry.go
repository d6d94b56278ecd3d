package decay

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrUnknownKernel is returned by Lookup for names not in the catalog.
var ErrUnknownKernel = eris.New("decay: unknown kernel")

// Spec describes a named kernel in the catalog: its canonical name, the
// shape parameters it requires, and a constructor from a parameter map.
type Spec struct {
	Name       string
	ParamNames []string
	build      func(params map[string]float64) Kernel
}

// Missing returns the declared parameter names absent from params,
// in declaration order.
func (s Spec) Missing(params map[string]float64) []string {
	var missing []string
	for _, name := range s.ParamNames {
		if _, ok := params[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Extra returns the supplied parameter names the kernel does not declare,
// sorted for stable diagnostics.
func (s Spec) Extra(params map[string]float64) []string {
	declared := make(map[string]bool, len(s.ParamNames))
	for _, name := range s.ParamNames {
		declared[name] = true
	}
	var extra []string
	for name := range params {
		if !declared[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return extra
}

// Build constructs the kernel from params. Callers must check Missing first;
// absent parameters are taken as zero.
func (s Spec) Build(params map[string]float64) Kernel {
	return s.build(params)
}

var catalog = map[string]Spec{
	"uniform": {
		Name:       "uniform",
		ParamNames: []string{"scale"},
		build:      func(p map[string]float64) Kernel { return Uniform{Scale: p["scale"]} },
	},
	"raised_cosine": {
		Name:       "raised_cosine",
		ParamNames: []string{"scale"},
		build:      func(p map[string]float64) Kernel { return RaisedCosine{Scale: p["scale"]} },
	},
	"gaussian": {
		Name:       "gaussian",
		ParamNames: []string{"sigma"},
		build:      func(p map[string]float64) Kernel { return Gaussian{Sigma: p["sigma"]} },
	},
	"parabolic": {
		Name:       "parabolic",
		ParamNames: []string{"scale"},
		build:      func(p map[string]float64) Kernel { return Parabolic{Scale: p["scale"]} },
	},
	// Epanechnikov is the textbook name for the parabolic kernel.
	"epanechnikov": {
		Name:       "parabolic",
		ParamNames: []string{"scale"},
		build:      func(p map[string]float64) Kernel { return Parabolic{Scale: p["scale"]} },
	},
}

// Lookup returns the Spec for the given kernel name. The match is
// case-insensitive. Unknown names fail with ErrUnknownKernel.
func Lookup(name string) (Spec, error) {
	spec, ok := catalog[strings.ToLower(name)]
	if !ok {
		return Spec{}, eris.Wrapf(ErrUnknownKernel, "decay: no kernel named %q", name)
	}
	return spec, nil
}

// Names returns the sorted catalog names, aliases included.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
