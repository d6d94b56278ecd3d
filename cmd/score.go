package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/catchment/internal/matio"
	"github.com/sells-group/catchment/internal/model"
	"github.com/sells-group/catchment/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score [distance-matrix.csv...]",
	Short: "Compute accessibility scores from distance matrices",
	Long: `Compute one accessibility score per demand location from a CSV distance
matrix (rows = demand locations, columns = supply locations). Empty or
"nan" cells mark unreachable pairs.

Examples:
  # Standard 2SFCA with a 30-minute catchment
  catchment score --model 2sfca --radius 30 distances.csv

  # E2SFCA with a gaussian kernel and explicit weights
  catchment score --decay gaussian --param sigma=15 \
    --demand population.csv --supply capacity.csv distances.csv

  # 3SFCA, persist the run
  catchment score --model 3sfca --decay raised_cosine --param scale=45 \
    --save distances.csv

  # Several study areas at once
  catchment score --model 2sfca --radius 30 --concurrency 4 region*.csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("model", "", "model to run: gravity, 2sfca, or 3sfca (default from config)")
	f.String("decay", "", "decay kernel name (default from config)")
	f.Float64("radius", 0, "catchment radius (2sfca only)")
	f.StringArray("param", nil, "kernel parameter as name=value (repeatable)")
	f.String("params-file", "", "YAML file of kernel parameters")
	f.Bool("huff", false, "enable Huff-style interaction normalization (gravity model)")
	f.Float64("suboptimality", 0, "suboptimality exponent (gravity model, default 1.0)")
	f.String("demand", "", "CSV file of demand weights (default all ones)")
	f.String("supply", "", "CSV file of supply weights (default all ones)")
	f.String("output", "", "output file path (default: stdout; single input only)")
	f.String("format", "table", "output format: table or csv")
	f.Bool("save", false, "save results to the run store")
	f.Int("concurrency", 4, "matrices scored in parallel")

	rootCmd.AddCommand(scoreCmd)
}

// scoredFile pairs one input matrix with its computed scores.
type scoredFile struct {
	Path   string
	Rows   int
	Cols   int
	Scores []float64
}

func runScore(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "csv" {
		return eris.Errorf("score: --format must be table or csv (got %q)", format)
	}
	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath != "" && len(args) > 1 {
		return eris.New("score: --output is only valid with a single input matrix")
	}

	spec, err := buildSpec(cmd)
	if err != nil {
		return err
	}
	engine, err := spec.Build()
	if err != nil {
		return err
	}

	demandPath, _ := cmd.Flags().GetString("demand")
	supplyPath, _ := cmd.Flags().GetString("supply")

	var demand, supply []float64
	if demandPath != "" {
		if demand, err = matio.ReadVector(demandPath); err != nil {
			return err
		}
	}
	if supplyPath != "" {
		if supply, err = matio.ReadVector(supplyPath); err != nil {
			return err
		}
	}

	log := zap.L().With(zap.String("command", "score"))
	log.Info("scoring distance matrices",
		zap.Int("matrices", len(args)),
		zap.String("model", spec.Model),
		zap.String("kernel", spec.KernelName()),
	)

	// The engine is immutable, so the same instance scores every matrix
	// concurrently.
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency)

	var mu sync.Mutex
	results := make(map[string]scoredFile, len(args))

	for _, path := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dist, err := matio.ReadMatrix(path)
			if err != nil {
				return err
			}
			scores, err := engine.CalculateAccessibilityScores(dist, demand, supply)
			if err != nil {
				return eris.Wrapf(err, "score: %s", path)
			}
			mu.Lock()
			results[path] = scoredFile{Path: path, Rows: dist.Rows(), Cols: dist.Cols(), Scores: scores}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Output in input order.
	for _, path := range args {
		if err := outputScores(results[path], format, outputPath, len(args) > 1); err != nil {
			return err
		}
	}

	save, _ := cmd.Flags().GetBool("save")
	if save {
		if err := saveRuns(cmd, spec, args, results); err != nil {
			return err
		}
	}

	return nil
}

// buildSpec assembles the model spec from config defaults and flag overrides.
func buildSpec(cmd *cobra.Command) (model.Spec, error) {
	spec := model.Spec{
		Model:                 cfg.Model.Model,
		Decay:                 cfg.Model.Decay,
		Params:                map[string]float64{},
		HuffNormalization:     cfg.Model.HuffNormalization,
		SuboptimalityExponent: cfg.Model.SuboptimalityExponent,
	}
	for k, v := range cfg.Model.Params {
		spec.Params[k] = v
	}

	if v, _ := cmd.Flags().GetString("model"); v != "" {
		spec.Model = v
	}
	if v, _ := cmd.Flags().GetString("decay"); v != "" {
		spec.Decay = v
	}
	if v, _ := cmd.Flags().GetFloat64("radius"); v > 0 {
		spec.Radius = v
	}
	if v, _ := cmd.Flags().GetBool("huff"); v {
		spec.HuffNormalization = true
	}
	if v, _ := cmd.Flags().GetFloat64("suboptimality"); v > 0 {
		spec.SuboptimalityExponent = v
	}

	if path, _ := cmd.Flags().GetString("params-file"); path != "" {
		fileParams, err := readParamsFile(path)
		if err != nil {
			return model.Spec{}, err
		}
		for k, v := range fileParams {
			spec.Params[k] = v
		}
	}

	// Explicit --param flags win over both config and file.
	pairs, _ := cmd.Flags().GetStringArray("param")
	flagParams, err := parseParams(pairs)
	if err != nil {
		return model.Spec{}, err
	}
	for k, v := range flagParams {
		spec.Params[k] = v
	}

	return spec, nil
}

// parseParams parses repeated name=value flag values.
func parseParams(pairs []string) (map[string]float64, error) {
	params := make(map[string]float64, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, eris.Errorf("score: --param %q is not of the form name=value", pair)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, eris.Errorf("score: --param %q has non-numeric value", pair)
		}
		params[name] = v
	}
	return params, nil
}

func readParamsFile(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "score: read params file %s", path)
	}
	var params map[string]float64
	if err := yaml.Unmarshal(data, &params); err != nil {
		return nil, eris.Wrapf(err, "score: parse params file %s", path)
	}
	return params, nil
}

func outputScores(result scoredFile, format, outputPath string, multi bool) error {
	w := os.Stdout
	if outputPath != "" {
		var err error
		w, err = os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "score: create output file %s", outputPath)
		}
		defer w.Close() //nolint:errcheck
	}

	switch format {
	case "csv":
		return matio.WriteScores(w, result.Scores)
	default:
		if multi {
			fmt.Fprintf(w, "\n=== %s (%d demand x %d supply) ===\n", result.Path, result.Rows, result.Cols)
		}
		fmt.Fprintf(w, "%-16s %12s\n", "demand_location", "score")
		for i, s := range result.Scores {
			fmt.Fprintf(w, "%-16d %12.6f\n", i, s)
		}
		return nil
	}
}

func saveRuns(cmd *cobra.Command, spec model.Spec, args []string, results map[string]scoredFile) error {
	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	ctx := cmd.Context()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	params := spec.Params
	if strings.EqualFold(spec.Model, model.Model2SFCA) {
		params = map[string]float64{"scale": spec.Radius}
	}

	for _, path := range args {
		result := results[path]
		run := &store.Run{
			Model:                 strings.ToLower(spec.Model),
			Kernel:                spec.KernelName(),
			Params:                params,
			HuffNormalization:     spec.HuffNormalization || strings.EqualFold(spec.Model, model.Model3SFCA),
			SuboptimalityExponent: spec.SuboptimalityExponent,
			NumDemand:             result.Rows,
			NumSupply:             result.Cols,
			Scores:                result.Scores,
		}
		if err := st.SaveRun(ctx, run); err != nil {
			return err
		}
		fmt.Printf("Saved run %s (%s)\n", run.ID, path)
	}
	return nil
}
