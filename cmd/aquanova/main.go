// aquanova: water-quality scoring and monitoring for tilapia aquaculture.
//
// Scores sensor readings, runs what-if simulations, projects trends and
// serves the monitoring dashboard API and an MCP tool server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	diffpkg "github.com/dmitriimaksimovdevelop/aquanova/internal/diff"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/forecast"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/logging"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/model"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/output"
	"github.com/dmitriimaksimovdevelop/aquanova/internal/simulate"
)

var (
	version = "0.1.0"
)

// logger is built by the root command's PersistentPreRunE.
var logger = zap.NewNop()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "aquanova",
		Short: "Water quality scoring and monitoring for aquaculture",
		Long: `aquanova: water quality intelligence for tilapia ponds.

Scores temperature, pH, dissolved oxygen, turbidity, salinity and ammonia
into a 0-100 health score with disease risk, per-parameter status and
remediation suggestions.

  score / classify   one-shot scoring from flags
  simulate / compare what-if scenarios and assessment diffs
  forecast           linear trend projection from a reading history
  serve              dashboard HTTP API with live polling and history
  mcp                Model Context Protocol server over stdio
  config init        write the default aquanova.yaml`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(verbose)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newScoreCmd(),
		newClassifyCmd(),
		newSimulateCmd(),
		newCompareCmd(),
		newForecastCmd(),
		newServeCmd(),
		newMCPCmd(),
		newConfigCmd(),
	)
	return rootCmd
}

// --- score command ---

// scoreReport is the JSON shape of `score --json`.
type scoreReport struct {
	model.Assessment
	AIContext *output.AIContext `json:"ai_context,omitempty"`
}

func newScoreCmd() *cobra.Command {
	var (
		r          model.Reading
		seed       int64
		asJSON     bool
		aiPrompt   bool
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a single water quality reading",
		Long:  "Compute health score, disease risk, per-parameter status and suggestions for one reading.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := r.Validate(); err != nil {
				return err
			}

			var noise model.NoiseSource
			if cmd.Flags().Changed("seed") {
				noise = rand.New(rand.NewSource(seed))
			}
			a := model.Assess(r, noise)

			if !asJSON && !aiPrompt {
				fmt.Fprint(cmd.OutOrStdout(), output.FormatAssessment(&a))
				return nil
			}
			report := scoreReport{Assessment: a}
			if aiPrompt {
				report.AIContext = output.GenerateAIPrompt(&a)
			}
			if outputPath == "-" {
				return output.EncodeJSON(cmd.OutOrStdout(), report)
			}
			return output.WriteJSON(report, outputPath)
		},
	}

	f := cmd.Flags()
	f.Float64VarP(&r.Temperature, "temperature", "t", 0, "Water temperature (°C)")
	f.Float64Var(&r.PH, "ph", 0, "pH")
	f.Float64Var(&r.DissolvedOxygen, "do", 0, "Dissolved oxygen (mg/L)")
	f.Float64Var(&r.Turbidity, "turbidity", 0, "Turbidity (NTU)")
	f.Float64Var(&r.Salinity, "salinity", simulate.DefaultBaseline.Salinity, "Salinity (ppt)")
	f.Float64Var(&r.Ammonia, "ammonia", 0, "Total ammonia (ppm)")
	f.Int64Var(&seed, "seed", 0, "Seed for disease-risk noise (omit for a noise-free score)")
	f.BoolVar(&asJSON, "json", false, "Print the assessment as JSON")
	f.BoolVar(&aiPrompt, "ai-prompt", false, "Include AI analysis prompt (implies --json)")
	f.StringVarP(&outputPath, "output", "o", "-", "JSON output file path (- for stdout)")
	for _, name := range []string{"temperature", "ph", "do", "turbidity"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// --- classify command ---

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <parameter> <value>",
		Short: "Classify one parameter value as optimal, warning or critical",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.OutOrStdout(), args[0], args[1])
		},
	}
}

// runClassify handles the `classify` command.
func runClassify(w io.Writer, name, raw string) error {
	p, v, err := simulate.ParseOverride(name + "=" + raw)
	if err != nil {
		return err
	}

	status := model.Classify(p, v)
	fmt.Fprintf(w, "%s %s: %s\n", p.Title(), strings.TrimSpace(fmt.Sprintf("%g %s", v, p.Unit())), status)
	if t, ok := model.ThresholdFor(p); ok {
		fmt.Fprintf(w, "Thresholds: %s\n", t.Describe())
	}
	if s := model.Suggest(p, v); s != "" {
		fmt.Fprintf(w, "Suggestion: %s\n", s)
	}
	return nil
}

// --- simulate command ---

func newSimulateCmd() *cobra.Command {
	var (
		preset   string
		sets     []string
		sweep    string
		svgPath  string
		baseline string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a what-if scenario against a baseline reading",
		Long: `Apply a preset and/or param=value overrides to the baseline and show how the
assessment changes, or sweep one parameter across a range.

Presets: ` + strings.Join(simulate.PresetNames(), ", "),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := simulate.DefaultBaseline
			if baseline != "" {
				a, err := diffpkg.LoadAssessment(baseline)
				if err != nil {
					return fmt.Errorf("load baseline: %w", err)
				}
				base = a.Reading
			}

			if sweep != "" {
				return runSweep(cmd.OutOrStdout(), base, sweep, svgPath, asJSON)
			}

			overrides := simulate.Overrides{}
			if preset != "" {
				for p, v := range simulate.GetPreset(preset).Overrides {
					overrides[p] = v
				}
			}
			for _, s := range sets {
				p, v, err := simulate.ParseOverride(s)
				if err != nil {
					return err
				}
				overrides[p] = v
			}

			res, err := simulate.Run(base, overrides, nil)
			if err != nil {
				return err
			}
			if asJSON {
				return output.EncodeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprint(cmd.OutOrStdout(), diffpkg.FormatDiff(res.Diff))
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), output.FormatAssessment(&res.Scenario))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&preset, "preset", "p", "", "Scenario preset")
	f.StringArrayVar(&sets, "set", nil, "Override a parameter, e.g. --set do=3.5 (repeatable)")
	f.StringVar(&sweep, "sweep", "", "Sweep a parameter: param:from:to:steps")
	f.StringVar(&svgPath, "svg", "", "Write the sweep chart as SVG to this path")
	f.StringVar(&baseline, "baseline", "", "Baseline reading or assessment JSON (default: built-in baseline)")
	f.BoolVar(&asJSON, "json", false, "Print results as JSON")
	return cmd
}

// runSweep handles `simulate --sweep`.
func runSweep(w io.Writer, base model.Reading, sweepArg, svgPath string, asJSON bool) error {
	p, from, to, steps, err := simulate.ParseSweep(sweepArg)
	if err != nil {
		return err
	}
	points, err := simulate.Sweep(base, p, from, to, steps, nil)
	if err != nil {
		return err
	}

	if svgPath != "" {
		svg := output.GenerateSweepSVG(p, points, "aquanova")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
		logger.Debug("sweep chart written", zap.String("path", svgPath), zap.Int("points", len(points)))
	}

	if asJSON {
		return output.EncodeJSON(w, points)
	}
	fmt.Fprint(w, output.FormatSweep(p, points))
	return nil
}

// --- compare command ---

func newCompareCmd() *cobra.Command {
	var diffOutput string

	cmd := &cobra.Command{
		Use:   "compare <baseline.json> <current.json>",
		Short: "Compare two readings or assessments",
		Long:  "Produce a diff showing health and risk deltas plus per-parameter regressions and improvements.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.OutOrStdout(), args[0], args[1], diffOutput)
		},
	}
	cmd.Flags().StringVarP(&diffOutput, "output", "o", "-", "Output diff file path (JSON); - prints text")
	return cmd
}

// runCompare handles the `compare` command.
func runCompare(w io.Writer, baselinePath, currentPath, outputPath string) error {
	baseline, err := diffpkg.LoadAssessment(baselinePath)
	if err != nil {
		return fmt.Errorf("load baseline: %w", err)
	}
	current, err := diffpkg.LoadAssessment(currentPath)
	if err != nil {
		return fmt.Errorf("load current: %w", err)
	}

	result := diffpkg.Compare(baseline, current)

	if outputPath == "-" {
		// Print human-readable diff
		fmt.Fprint(w, diffpkg.FormatDiff(result))
		return nil
	}
	return output.WriteJSON(result, outputPath)
}

// --- forecast command ---

func newForecastCmd() *cobra.Command {
	var (
		timeframe string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "forecast <history.json>",
		Short: "Project parameter trends from a reading history",
		Long: `Fit a linear trend to each of pH, temperature, dissolved oxygen and
turbidity over a JSON array of readings (oldest first, 5 s apart) and
report projected threshold crossings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd.Context(), cmd.OutOrStdout(), args[0], forecast.Horizon(timeframe), asJSON)
		},
	}
	cmd.Flags().StringVar(&timeframe, "timeframe", string(forecast.Horizon5m), "Projection horizon: 5m, 1h, 24h")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full projection as JSON")
	return cmd
}

// runForecast handles the `forecast` command.
func runForecast(ctx context.Context, w io.Writer, path string, horizon forecast.Horizon, asJSON bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	history, err := loadHistory(path)
	if err != nil {
		return err
	}

	f, err := forecast.NewLinearForecaster().Forecast(ctx, history, horizon)
	if err != nil {
		return err
	}
	if asJSON {
		return output.EncodeJSON(w, f)
	}
	fmt.Fprint(w, output.FormatForecast(f))
	return nil
}

// loadHistory reads a JSON array of readings.
func loadHistory(path string) ([]model.Reading, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var history []model.Reading
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", path, err)
	}
	for i, r := range history {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("history[%d]: %w", i, err)
		}
	}
	return history, nil
}
