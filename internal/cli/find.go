package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/ids"
)

func newFindCmd() *cobra.Command {
	var (
		inputPath string
		idType    string
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Translate article IDs into another ID type",
		Long: "Reads the first column of a CSV file and writes <input>_<TYPE>.csv with the\n" +
			"corresponding PMID, PMCID or DOI of every ID, or not_found.",
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := ids.ParseIDType(idType)
			if err != nil {
				return err
			}
			app, err := GetApp(cmd)
			if err != nil {
				return err
			}

			input, err := readIDColumn(inputPath, 0)
			if err != nil {
				return err
			}

			helper, err := app.newHelper(cmd.Context(), helperOptions{})
			if err != nil {
				return err
			}
			defer helper.Close()

			found, err := helper.FindIDs(cmd.Context(), input, target)
			if err != nil {
				return err
			}

			out := outputPath(inputPath, target.String())
			if err := writeFound(out, target, found); err != nil {
				return fmt.Errorf("write results: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Table saved to %s\n", out)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&inputPath, "input_path", "i", "", "CSV file with a column of article IDs (required)")
	f.StringVarP(&idType, "id_type", "t", "", "ID type to find: PMID, PMCID or DOI, uppercase only (required)")
	_ = cmd.MarkFlagRequired("input_path")
	_ = cmd.MarkFlagRequired("id_type")
	return cmd
}
