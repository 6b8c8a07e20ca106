// Package cli implements the disambig CLI commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"disambig/internal/config"
	"disambig/internal/corpus"
	"disambig/internal/corrector"
	"disambig/internal/report"
	"disambig/internal/window"
)

var (
	configPath     string
	dbPath         string
	formatFlag     string
	candidatesFlag string
	verbose        bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "disambig",
	Short: "Confusable word disambiguation",
	Long: "Decide which of two confusable words belongs at the center of a POS-tagged window, " +
		"using Bayes nets and case-based reasoning trained on labelled windows.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger())
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML)")
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Run history database (default: $DISAMBIG_DB or ~/.disambig/runs.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&candidatesFlag, "candidates", "", "Confusable pair, e.g. there,their")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	if candidatesFlag != "" {
		cfg.SetCandidates(candidatesFlag)
	}
	if dbPath != "" {
		cfg.Store.Path = dbPath
	}
	return cfg
}

func redisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// loadExamples reads a corpus file, or a Redis corpus when src is "redis:<name>".
func loadExamples(ctx context.Context, cfg *config.Config, src string) ([]window.Example, error) {
	name, ok := strings.CutPrefix(src, "redis:")
	if !ok {
		return corpus.ReadFile(src)
	}
	client := redisClient(cfg)
	defer client.Close()
	return corpus.NewRedisCorpus(client, name).Load(ctx)
}

func buildCorrector(cfg *config.Config, trainSet []window.Example) (*corrector.SpellCorrector, error) {
	cc, err := cfg.Corrector()
	if err != nil {
		return nil, err
	}
	return corrector.NewSpellCorrector(cc, trainSet, slog.Default())
}

func openStore(cfg *config.Config) (*report.SQLiteStore, error) {
	return report.NewSQLiteStore(cfg.Store.Path)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
