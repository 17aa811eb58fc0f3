package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"mergescan/internal/common/fsutil"
	"mergescan/internal/recipe"
	"mergescan/internal/sweep"
)

func newLinearCmd(app *App) *cobra.Command {
	var (
		weightStart float64
		weightEnd   float64
		stepSize    float64
		recipePath  string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:   "linear",
		Short: "Sweep interpolation weights for a two-model linear merge",
		Example: "  mergescan linear --recipe recipes/base.yml --output-dir scratch/linear \\\n" +
			"    --weight-start 0.3 --weight-end 0.7 --step-size 0.2",
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
			weights, err := sweep.WeightRange(weightStart, weightEnd, stepSize)
			if err != nil {
				return err
			}

			runs := make([]sweep.Run, 0, len(weights))
			for _, pair := range sweep.WeightPairs(weights) {
				w1, w2 := pair[0], pair[1]
				label := fmt.Sprintf("weights_%s_%s", sweep.FormatValue(w1), sweep.FormatValue(w2))
				runs = append(runs, sweep.Run{
					Label:      label,
					RecipeName: label + ".yml",
					OutputDir:  fmt.Sprintf("%s_%s_%s", outDir, sweep.FormatValue(w1), sweep.FormatValue(w2)),
					Mutate: func(r *recipe.Recipe) error {
						return r.SetWeights(w1, w2)
					},
				})
			}

			driver, err := app.newDriver(ctx, "linear", "linear", true)
			if err != nil {
				return err
			}
			app.Log.Info().
				Int("combinations", len(runs)).
				Str("recipe", recipePath).
				Msg("starting linear weight sweep")
			report := driver.Run(ctx, base, runs)
			report.Log(app.Log)
			// Best-effort sweep: iteration failures are in the report, not
			// the exit code.
			return nil
		},
	}

	f := cmd.Flags()
	f.Float64Var(&weightStart, "weight-start", 0.5, "Starting weight for the first model")
	f.Float64Var(&weightEnd, "weight-end", 0.5, "Ending weight for the first model")
	f.Float64Var(&stepSize, "step-size", 0.1, "Step size between weights")
	f.StringVar(&recipePath, "recipe", "", "Path to the base recipe YAML file")
	f.StringVar(&outputDir, "output-dir", "", "Base output directory")
	_ = cmd.MarkFlagRequired("recipe")
	_ = cmd.MarkFlagRequired("output-dir")
	return cmd
}
