package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/acpaulo/causal-inference-short-course/pkg/config"
	"github.com/acpaulo/causal-inference-short-course/pkg/engine"
	"github.com/acpaulo/causal-inference-short-course/pkg/recipe"
	"github.com/acpaulo/causal-inference-short-course/pkg/report"
)

var (
	buildInput    string
	buildOutput   string
	buildMinScore float64
	buildMaxEdges int
	buildRules    string
	buildSort     bool
	buildQuiet    bool
)

// BuildCmd runs the greedy builder, either over an HCL recipe or over a
// single input/output pair given by flags.
var BuildCmd = &cobra.Command{
	Use:   "build [recipe.hcl]",
	Short: "Build acyclic networks from ranked edge tables",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := resolveRecipe(args)
		if err != nil {
			return err
		}

		e, err := engine.New(cmd.Context(), engine.WithConfig(engineConfig()))
		if err != nil {
			return err
		}

		results, err := e.Run(cmd.Context(), r)
		if !buildQuiet {
			for _, res := range results {
				if res.Err != nil {
					fmt.Fprintf(os.Stderr, "dataset %s failed: %v\n", res.Name, res.Err)
					continue
				}
				fmt.Println(report.Render(res.Summary))
			}
		}
		return err
	},
}

func init() {
	BuildCmd.Flags().StringVar(&buildInput, "input", "", "Ranked edge table (csv/arrow, local or s3://)")
	BuildCmd.Flags().StringVar(&buildOutput, "output", "grndag-out", "Output directory or s3:// prefix")
	BuildCmd.Flags().Float64Var(&buildMinScore, "min-score", config.DefaultBuildConfig().MinScore, "Drop edges below this score")
	BuildCmd.Flags().IntVar(&buildMaxEdges, "max-edges", 0, "Consider only the top N ranked edges (0 = all)")
	BuildCmd.Flags().StringVar(&buildRules, "rules", "", "YAML file of CEL filter rules")
	BuildCmd.Flags().BoolVar(&buildSort, "sort", false, "Sort the table by score instead of rejecting unsorted input")
	BuildCmd.Flags().BoolVar(&buildQuiet, "quiet", false, "Suppress the terminal summary")

	viper.BindPFlag("build.min_score", BuildCmd.Flags().Lookup("min-score"))
	viper.BindPFlag("build.max_edges", BuildCmd.Flags().Lookup("max-edges"))
}

// resolveRecipe builds a single-dataset recipe from flags, or loads the HCL
// file named in args.
func resolveRecipe(args []string) (*recipe.Recipe, error) {
	if len(args) == 1 {
		return recipe.Load(args[0])
	}
	if buildInput == "" && !flagMock {
		return nil, fmt.Errorf("either a recipe file or --input is required")
	}
	return &recipe.Recipe{Datasets: []recipe.Dataset{{
		Name:     "default",
		Input:    buildInput,
		Output:   buildOutput,
		MinScore: buildMinScore,
		MaxEdges: buildMaxEdges,
		Rules:    buildRules,
		Sort:     buildSort,
	}}}, nil
}

func engineConfig() engine.Config {
	cfg := engine.Config{
		Build:      config.DefaultBuildConfig(),
		Analysis:   config.DefaultAnalysisConfig(),
		Workers:    flagWorkers,
		JsonLogs:   flagJSONLogs,
		Verbose:    flagVerbose,
		StrictMode: flagStrict,
		MockMode:   flagMock,
	}
	if v := viper.GetFloat64("build.min_score"); v > 0 {
		cfg.Build.MinScore = v
	}
	if v := viper.GetInt("build.max_edges"); v > 0 {
		cfg.Build.MaxEdges = v
	}
	if flagVerbose {
		cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return cfg
}
