package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mergescan/internal/common/fsutil"
	"mergescan/internal/recipe"
	"mergescan/internal/sweep"
)

func newTiesCmd(app *App) *cobra.Command {
	var (
		lambdaStart  float64
		lambdaEnd    float64
		lambdaStep   float64
		densityStart float64
		densityEnd   float64
		densityStep  float64
		recipePath   string
		outputDir    string
	)

	cmd := &cobra.Command{
		Use:   "ties",
		Short: "Sweep lambda and density values for a TIES merge",
		Example: "  mergescan ties --recipe recipes/base_ties.yml --output-dir scratch/ties \\\n" +
			"    --lambda-start 0.9 --lambda-end 1.1 --lambda-step 0.1 \\\n" +
			"    --density-start 0.2 --density-end 0.3 --density-step 0.1",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			base, err := loadBase(recipePath)
			if err != nil {
				return err
			}
			outDir, err := fsutil.ExpandHome(outputDir)
			if err != nil {
				return err
			}

			lambdas := []float64{lambdaStart}
			if cmd.Flags().Changed("lambda-end") {
				lambdas, err = sweep.Span(lambdaStart, lambdaEnd, lambdaStep)
				if err != nil {
					return err
				}
			}
			// Densities are swept only when an end is given; otherwise the
			// base recipe's densities stay untouched.
			var densityPairs [][2]float64
			if cmd.Flags().Changed("density-end") {
				axis, err := sweep.Span(densityStart, densityEnd, densityStep)
				if err != nil {
					return err
				}
				densityPairs = sweep.CrossPairs(axis, axis)
			}

			var runs []sweep.Run
			for _, l := range lambdas {
				if densityPairs == nil {
					runs = append(runs, tiesRun(outDir, l, nil))
					continue
				}
				for _, dp := range densityPairs {
					dp := dp
					runs = append(runs, tiesRun(outDir, l, &dp))
				}
			}

			driver, err := app.newDriver(ctx, "ties", "ties", false)
			if err != nil {
				return err
			}
			app.Log.Info().
				Int("combinations", len(runs)).
				Str("recipe", recipePath).
				Msg("starting ties sweep")
			report := driver.Run(ctx, base, runs)
			report.Log(app.Log)
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&lambdaStart, "lambda-start", 1.0, "Starting lambda value")
	f.Float64Var(&lambdaEnd, "lambda-end", 0, "Ending lambda value (creates a range when set)")
	f.Float64Var(&lambdaStep, "lambda-step", 0.1, "Step size for the lambda range")
	f.Float64Var(&densityStart, "density-start", 0.2, "Starting density value")
	f.Float64Var(&densityEnd, "density-end", 0, "Ending density value for a 2D density scan (when set)")
	f.Float64Var(&densityStep, "density-step", 0.1, "Step size for the density range")
	f.StringVar(&recipePath, "recipe", "", "Path to the base recipe YAML file")
	f.StringVar(&outputDir, "output-dir", "", "Output directory for the merged model")
	_ = cmd.MarkFlagRequired("recipe")
	_ = cmd.MarkFlagRequired("output-dir")
	return cmd
}

// tiesRun builds one iteration. The output directory is shared across the
// whole ties sweep and cleared before every merge.
func tiesRun(outputDir string, lambda float64, densities *[2]float64) sweep.Run {
	label := "lambda_" + sweep.FormatValue(lambda)
	if densities != nil {
		label = fmt.Sprintf("%s_density_%s_%s", label,
			sweep.FormatValue(densities[0]), sweep.FormatValue(densities[1]))
	}
	return sweep.Run{
		Label:      label,
		RecipeName: label + ".yml",
		OutputDir:  outputDir,
		Mutate: func(r *recipe.Recipe) error {
			if err := r.SetLambda(lambda); err != nil {
				return err
			}
			if densities != nil {
				return r.SetDensities(densities[0], densities[1])
			}
			return nil
		},
	}
}
