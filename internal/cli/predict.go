package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dabane-ghassan/cazy-little-helper/internal/logging"
	"github.com/dabane-ghassan/cazy-little-helper/internal/retrieval"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy"
)

func newPredictCmd() *cobra.Command {
	var (
		inputPath string
		idPos     int
		biblioURL string
		modelPath string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a list of articles for CAZy curation",
		Long: "Reads a CSV file with a column of article IDs, retrieves every article and\n" +
			"writes <input>_confidence.csv sorted by descending confidence, plus the\n" +
			"retrieved texts in <input>_text.csv.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp(cmd)
			if err != nil {
				return err
			}
			if modelPath == "" {
				modelPath = app.Config.Model.Path
			}

			ids, err := readIDColumn(inputPath, idPos)
			if err != nil {
				return err
			}
			ids = nonEmpty(ids)
			app.Logger.Info("input read", logging.String("path", inputPath), logging.Int("ids", len(ids)))

			helper, err := app.newHelper(cmd.Context(), helperOptions{BiblioURL: biblioURL, ModelPath: modelPath})
			if err != nil {
				return err
			}
			defer helper.Close()

			run, err := helper.Predict(cmd.Context(), cazy.PredictRequest{
				IDs:       ids,
				InputPath: inputPath,
				ModelPath: modelPath,
			})
			if err != nil {
				return err
			}

			textPath := outputPath(inputPath, "text")
			if err := retrieval.SaveTextTable(textPath, run.Articles); err != nil {
				return fmt.Errorf("write text table: %w", err)
			}
			out := outputPath(inputPath, "confidence")
			if err := writeResultTable(out, run.Results); err != nil {
				return fmt.Errorf("write results: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Table saved to %s\n", out)
			if helper.Store() != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Run %s recorded\n", run.ID)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&inputPath, "input_path", "i", "", "CSV file with a column of article IDs (required)")
	f.IntVarP(&idPos, "id_pos", "p", 0, "index of the ID column")
	f.StringVarP(&biblioURL, "biblio_add", "b", "", "Biblio address (default from config, http://localhost/Biblio)")
	f.StringVarP(&modelPath, "model", "m", "", "model path (default from config)")
	_ = cmd.MarkFlagRequired("input_path")
	return cmd
}
