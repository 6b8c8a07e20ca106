package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"disambig/internal/corpus"
)

func init() {
	cmd := &cobra.Command{
		Use:   "classify <train> [window]",
		Short: "Classify one window with every engine",
		Long:  "Classify a single window line (\"word [ POS stem ]\" x15). The window can be a positional arg or piped via stdin.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runClassify,
	}

	RootCmd.AddCommand(cmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	cfg := loadConfig()

	var line string
	if len(args) > 1 {
		line = strings.Join(args[1:], " ")
	} else if stdinIsPiped() {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			exitErr("read stdin", err)
		}
		line = string(b)
	}
	if strings.TrimSpace(line) == "" {
		exitErr("classify", fmt.Errorf("window is required (positional arg or stdin)"))
	}

	query, err := corpus.ParseLine(line, true)
	if err != nil {
		exitErr("parse window", err)
	}

	trainSet, err := loadExamples(ctx, cfg, args[0])
	if err != nil {
		exitErr("read train set", err)
	}
	sc, err := buildCorrector(cfg, trainSet)
	if err != nil {
		exitErr("train", err)
	}

	votes, err := sc.Classify(query)
	if err != nil {
		exitErr("classify", err)
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(votes, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return
	}
	names := make([]string, 0, len(votes))
	for name := range votes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", name, votes[name])
	}
}

// stdinIsPiped reports whether stdin carries data rather than a terminal. An
// unusable stdin counts as empty.
func stdinIsPiped() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
