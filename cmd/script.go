package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/ai"
	"github.com/spigell/career-match/internal/matching"
)

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Write an elevator pitch for a candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		script(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scriptCmd)

	scriptCmd.Flags().String("candidate", "", "candidate YAML or JSON file")
	scriptCmd.MarkFlagRequired("candidate")
}

func script(cmd *cobra.Command) {
	ctx := context.Background()
	config, log := setup()

	path, _ := cmd.Flags().GetString("candidate")

	var candidate matching.Candidate
	if err := readInput(path, &candidate); err != nil {
		log.Fatal("reading candidate", zap.Error(err))
	}

	pitch, fallback := newScripts(ctx, config.AI, log).Write(ctx, ai.AnswersFromCandidate(candidate))
	if fallback {
		log.Info("using template pitch")
	}

	fmt.Println(pitch)
}
