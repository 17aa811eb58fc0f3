package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mergescan/internal/common/fsutil"
	"mergescan/internal/hub"
	"mergescan/internal/soup"
	"mergescan/internal/sweep"
)

func newSoupCmd(app *App) *cobra.Command {
	var (
		modelID      string
		revision     string
		outputDir    string
		dtype        string
		chatTemplate string
	)

	cmd := &cobra.Command{
		Use:   "soup",
		Short: "Merge all step revisions of a model into an equal-weight soup",
		Example: "  mergescan soup --model-id org/model --revision v03.00 \\\n" +
			"    --output-dir scratch/model_soup",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			switch dtype {
			case "float16", "bfloat16", "float32":
			default:
				return fmt.Errorf("unsupported dtype %q (float16|bfloat16|float32)", dtype)
			}

			client := hub.NewClient(app.Settings.HubEndpoint)
			app.Log.Info().
				Str("model", modelID).
				Str("revision", revision).
				Msg("finding step revisions")
			revisions, err := client.StepRevisions(ctx, modelID, revision)
			if err != nil {
				return err
			}
			if len(revisions) == 0 {
				app.Log.Warn().
					Str("model", modelID).
					Str("revision", revision).
					Msg("no matching revisions found")
				return nil
			}
			for _, rev := range revisions {
				app.Log.Info().Str("revision", rev).Msg("will merge")
			}

			base, err := soup.BuildRecipe(modelID, revisions, dtype, chatTemplate)
			if err != nil {
				return err
			}
			outDir, err := fsutil.ExpandHome(outputDir)
			if err != nil {
				return err
			}

			name := modelID
			if idx := strings.LastIndex(modelID, "/"); idx >= 0 {
				name = modelID[idx+1:]
			}
			label := fmt.Sprintf("%s_%s_soup", name, revision)
			runs := []sweep.Run{{
				Label:      label,
				RecipeName: label + ".yml",
				OutputDir:  outDir,
				Revision:   revision + "_soup",
			}}

			driver, err := app.newDriver(ctx, "soup", "linear", false)
			if err != nil {
				return err
			}
			report := driver.Run(ctx, base, runs)
			report.Log(app.Log)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&modelID, "model-id", "", "Hugging Face model id (org/name)")
	f.StringVar(&revision, "revision", "", "Revision prefix to match (e.g. v03.00)")
	f.StringVar(&outputDir, "output-dir", "scratch/model_soup", "Output directory for the merged model")
	f.StringVar(&dtype, "dtype", "bfloat16", "Data type for the merged model")
	f.StringVar(&chatTemplate, "chat-template", "auto", "Chat template to use")
	_ = cmd.MarkFlagRequired("model-id")
	_ = cmd.MarkFlagRequired("revision")
	return cmd
}
