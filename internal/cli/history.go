package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/store"
	"github.com/dabane-ghassan/cazy-little-helper/pkg/cazy/store/sqlite"
)

func newHistoryCmd() *cobra.Command {
	var (
		runID string
		limit int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded predict runs or show one of them",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := GetApp(cmd)
			if err != nil {
				return err
			}
			if app.Config.Store.Path == "" {
				return errors.New("history needs a run store; set --db or store.path")
			}

			st, err := sqlite.OpenSQLite(cmd.Context(), app.Config.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			if runID == "" {
				runs, err := st.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatRuns(runs))
				return nil
			}

			run, err := st.GetRun(cmd.Context(), runID)
			if err != nil {
				return fmt.Errorf("run %s: %w", runID, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatRun(run))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "show the results of this run")
	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to list")
	return cmd
}

func formatRuns(runs []store.RunSummary) string {
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{
			r.ID,
			r.CreatedAt.Local().Format(time.DateTime),
			r.InputPath,
			strconv.Itoa(r.Rows),
			strconv.Itoa(r.Articles),
			strconv.Itoa(r.Scored),
		}
	}
	return formatTable([]string{"RUN", "CREATED", "INPUT", "IDS", "ARTICLES", "SCORED"}, rows)
}

func formatRun(run store.Run) string {
	rows := make([][]string, len(run.Results))
	for i, r := range run.Results {
		rows[i] = []string{r.ID, r.PMCID, r.Confidence.String()}
	}
	header := fmt.Sprintf("Run %s (%s, model %s)\n\n", run.ID, run.InputPath, run.ModelPath)
	return header + formatTable([]string{"id", "pmcid", "%confidence"}, rows)
}
