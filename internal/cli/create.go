package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/score"
)

func newCreateCmd() *cobra.Command {
	var (
		outPath     string
		datasetPath string
		biblioURL   string
		valSize     float64
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Train a new model from a labeled dataset",
		Long: "Reads a CSV dataset with an 'id' column of PMCIDs and a 'label' column of\n" +
			"0/1 values, retrieves the full texts, trains a classifier, prints a\n" +
			"validation report and saves the model.",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp(cmd)
			if err != nil {
				return err
			}
			if valSize == 0 {
				valSize = app.Config.Train.ValSize
			}

			labeled, err := readLabeled(datasetPath)
			if err != nil {
				return err
			}

			helper, err := app.newHelper(cmd.Context(), helperOptions{BiblioURL: biblioURL})
			if err != nil {
				return err
			}
			defer helper.Close()

			train := score.DefaultTrainOptions()
			train.Epochs = app.Config.Train.Epochs
			train.LearningRate = app.Config.Train.LearningRate
			train.Seed = app.Config.Train.Seed

			res, err := helper.CreateModel(cmd.Context(), labeled, cazy.CreateOptions{
				ValSize: valSize,
				Train:   train,
				OutPath: outPath,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), res.Report.String())
			fmt.Fprintf(cmd.OutOrStdout(), "Model saved to %s\n", outPath)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&outPath, "output_path", "p", "", "where to save the model (required)")
	f.StringVarP(&datasetPath, "dataset", "d", "", "labeled CSV dataset with id and label columns (required)")
	f.StringVarP(&biblioURL, "biblio_add", "b", "", "Biblio address (default from config)")
	f.Float64VarP(&valSize, "val_size", "s", 0, "validation fraction (default from config, 0.15)")
	_ = cmd.MarkFlagRequired("output_path")
	_ = cmd.MarkFlagRequired("dataset")
	return cmd
}
