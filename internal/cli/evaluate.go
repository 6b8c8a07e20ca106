package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"disambig/internal/corrector"
	"disambig/internal/model"
	"disambig/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "evaluate <train> <test>",
		Short: "Evaluate every engine against a test corpus",
		Long: "Train all configured engines on the training corpus and classify every correct usage in the test corpus. " +
			"Either corpus may be a file or redis:<name>.",
		Args: cobra.ExactArgs(2),
		Run:  runEvaluate,
	}

	cmd.Flags().StringP("engine", "e", "", "Only evaluate this engine (e.g. bayes-chain, cbr-edit)")
	cmd.Flags().Bool("no-save", false, "Do not record the runs")

	RootCmd.AddCommand(cmd)
}

func runEvaluate(cmd *cobra.Command, args []string) {
	engineName, _ := cmd.Flags().GetString("engine")
	noSave, _ := cmd.Flags().GetBool("no-save")
	ctx := cmd.Context()
	cfg := loadConfig()

	trainSet, err := loadExamples(ctx, cfg, args[0])
	if err != nil {
		exitErr("read train set", err)
	}
	testSet, err := loadExamples(ctx, cfg, args[1])
	if err != nil {
		exitErr("read test set", err)
	}

	sc, err := buildCorrector(cfg, trainSet)
	if err != nil {
		exitErr("train", err)
	}

	var results []model.Evaluation
	if engineName == "" {
		results, err = sc.EvaluateAll(testSet)
	} else {
		e, ok := sc.Engine(engineName)
		if !ok {
			exitErr("evaluate", fmt.Errorf("%w: %s (have %s)", corrector.ErrUnknownEngine, engineName, strings.Join(sc.EngineNames(), ", ")))
		}
		var res model.Evaluation
		res, err = sc.Evaluate(e, testSet)
		results = []model.Evaluation{res}
	}
	if err != nil {
		exitErr("evaluate", err)
	}

	if !noSave {
		err := withStore(cfg, func(s *report.SQLiteStore) error {
			for i, res := range results {
				saved, err := s.Save(ctx, res)
				if err != nil {
					return err
				}
				results[i] = *saved
			}
			return nil
		})
		if err != nil {
			exitErr("save run", err)
		}
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return
	}
	for _, res := range results {
		printEvaluation(cmd.OutOrStdout(), res)
	}
}

func printEvaluation(w io.Writer, res model.Evaluation) {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "    Results for %s vs. %s (%s)\n", res.Candidate1, res.Candidate2, res.Engine)
	fmt.Fprintln(w, "========================================")
	if res.ID != "" {
		fmt.Fprintf(w, "  Run: %s\n", res.ID)
	}
	fmt.Fprintf(w, "  Number of train examples: %d\n", res.TrainSize)
	fmt.Fprintf(w, "  Number of test examples: %d\n", res.Tested)
	fmt.Fprintf(w, "  Number answered correctly: %d\n", res.Correct)
	fmt.Fprintf(w, "  Number answered incorrectly: %d\n", res.Wrong)
	fmt.Fprintf(w, "  Accuracy: %f\n", res.Accuracy)
	if len(res.Failed) > 0 {
		fmt.Fprintln(w, "\n  Failed examples:")
		for _, f := range res.Failed {
			fmt.Fprintln(w, f)
		}
	}
	fmt.Fprintln(w)
}
