package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"disambig/internal/config"
	"disambig/internal/report"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded evaluation runs",
	Run:   runRunsList,
}

func init() {
	runsCmd.Flags().StringP("engine", "e", "", "Filter by engine")
	runsCmd.Flags().IntP("limit", "n", 20, "Max results")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one run including its failed examples",
		Args:  cobra.ExactArgs(1),
		Run:   runRunsShow,
	}
	stats := &cobra.Command{
		Use:   "stats",
		Short: "Accuracy per engine across all runs",
		Run:   runRunsStats,
	}

	runsCmd.AddCommand(show, stats)
	RootCmd.AddCommand(runsCmd)
}

// withStore runs fn against the run history and closes the store before
// returning fn's error.
func withStore(cfg *config.Config, fn func(s *report.SQLiteStore) error) error {
	s, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()
	return fn(s)
}

func runRunsList(cmd *cobra.Command, args []string) {
	engine, _ := cmd.Flags().GetString("engine")
	limit, _ := cmd.Flags().GetInt("limit")

	err := withStore(loadConfig(), func(s *report.SQLiteStore) error {
		runs, err := s.List(cmd.Context(), report.ListParams{Engine: engine, Limit: limit})
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}

		if formatFlag == "json" {
			b, _ := json.MarshalIndent(runs, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tENGINE\tPAIR\tTESTED\tACCURACY\tCREATED")
		for _, r := range runs {
			fmt.Fprintf(tw, "%s\t%s\t%s/%s\t%d\t%.4f\t%s\n",
				r.ID, r.Engine, r.Candidate1, r.Candidate2, r.Tested, r.Accuracy, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		return tw.Flush()
	})
	if err != nil {
		exitErr("runs", err)
	}
}

func runRunsShow(cmd *cobra.Command, args []string) {
	err := withStore(loadConfig(), func(s *report.SQLiteStore) error {
		run, err := s.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get run: %w", err)
		}
		if formatFlag == "json" {
			b, _ := json.MarshalIndent(run, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		printEvaluation(cmd.OutOrStdout(), *run)
		return nil
	})
	if err != nil {
		exitErr("runs", err)
	}
}

func runRunsStats(cmd *cobra.Command, args []string) {
	err := withStore(loadConfig(), func(s *report.SQLiteStore) error {
		stats, err := s.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("stats: %w", err)
		}
		if formatFlag == "json" {
			b, _ := json.MarshalIndent(stats, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ENGINE\tRUNS\tMEAN\tBEST")
		for _, st := range stats {
			fmt.Fprintf(tw, "%s\t%d\t%.4f\t%.4f\n", st.Engine, st.Runs, st.MeanAccuracy, st.BestAccuracy)
		}
		return tw.Flush()
	})
	if err != nil {
		exitErr("runs", err)
	}
}
