package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/logger"
	"github.com/spigell/career-match/internal/matching"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one candidate against one job from local files",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().String("candidate", "", "candidate YAML or JSON file")
	scoreCmd.Flags().String("job", "", "job YAML or JSON file")
	scoreCmd.MarkFlagRequired("candidate")
	scoreCmd.MarkFlagRequired("job")
}

func score(cmd *cobra.Command) {
	_, log := setup()

	candidatePath, _ := cmd.Flags().GetString("candidate")
	jobPath, _ := cmd.Flags().GetString("job")

	var candidate matching.Candidate
	if err := readInput(candidatePath, &candidate); err != nil {
		log.Fatal("reading candidate", zap.Error(err))
	}

	var job matching.Job
	if err := readInput(jobPath, &job); err != nil {
		log.Fatal("reading job", zap.Error(err))
	}

	match := matching.ComputeFitScore(candidate, job)

	log.Debug("scored",
		append(append(logger.CandidateFields(candidate), logger.JobFields(job)...),
			zap.Float64("score", match.Score))...,
	)

	if err := printJSON(match); err != nil {
		log.Fatal("printing match", zap.Error(err))
	}
}
