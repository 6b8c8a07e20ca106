package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"disambig/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage training corpora stored in Redis",
}

func init() {
	push := &cobra.Command{
		Use:   "push <name> <file>",
		Short: "Append the examples of a corpus file to a Redis corpus",
		Args:  cobra.ExactArgs(2),
		Run:   runCorpusPush,
	}
	push.Flags().Bool("replace", false, "Clear the Redis corpus first")

	count := &cobra.Command{
		Use:   "count <name>",
		Short: "Count the examples in a Redis corpus",
		Args:  cobra.ExactArgs(1),
		Run:   runCorpusCount,
	}

	clearCmd := &cobra.Command{
		Use:   "clear <name>",
		Short: "Delete a Redis corpus",
		Args:  cobra.ExactArgs(1),
		Run:   runCorpusClear,
	}

	corpusCmd.AddCommand(push, count, clearCmd)
	RootCmd.AddCommand(corpusCmd)
}

func runCorpusPush(cmd *cobra.Command, args []string) {
	replace, _ := cmd.Flags().GetBool("replace")
	ctx := cmd.Context()
	cfg := loadConfig()

	examples, err := corpus.ReadFile(args[1])
	if err != nil {
		exitErr("read corpus", err)
	}

	client := redisClient(cfg)
	defer client.Close()
	rc := corpus.NewRedisCorpus(client, args[0])

	if replace {
		if err := rc.Clear(ctx); err != nil {
			exitErr("clear corpus", err)
		}
	}
	total, err := rc.Append(ctx, examples...)
	if err != nil {
		exitErr("push corpus", err)
	}

	if formatFlag == "json" {
		out, _ := json.Marshal(map[string]any{"corpus": args[0], "pushed": len(examples), "total": total})
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pushed %d examples to %s (%d total)\n", len(examples), rc.Key(), total)
}

func runCorpusCount(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	client := redisClient(cfg)
	defer client.Close()

	n, err := corpus.NewRedisCorpus(client, args[0]).Count(cmd.Context())
	if err != nil {
		exitErr("count corpus", err)
	}

	if formatFlag == "json" {
		out, _ := json.Marshal(map[string]any{"corpus": args[0], "count": n})
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
}

func runCorpusClear(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	client := redisClient(cfg)
	defer client.Close()

	if err := corpus.NewRedisCorpus(client, args[0]).Clear(cmd.Context()); err != nil {
		exitErr("clear corpus", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", args[0])
}
