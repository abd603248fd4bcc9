package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/filtering"
)

var shortlistCmd = &cobra.Command{
	Use:   "shortlist",
	Short: "Rank published candidates for a job and apply employer filters",
	Run: func(cmd *cobra.Command, _ []string) {
		shortlist(cmd)
	},
}

func init() {
	rootCmd.AddCommand(shortlistCmd)

	shortlistCmd.Flags().String("job", "", "job id")
	shortlistCmd.Flags().String("role", "", "keep candidates whose titles or goal roles mention this role")
	shortlistCmd.Flags().StringSlice("skill", nil, "keep candidates with this skill (repeatable)")
	shortlistCmd.Flags().Float64("min-score", 0, "drop candidates scoring below this")
	shortlistCmd.Flags().String("employer", "", "employer email; candidates it already contacted are dropped")
	shortlistCmd.Flags().Bool("include-contacted", false, "do not drop candidates the employer already contacted")
	shortlistCmd.MarkFlagRequired("job")
}

func shortlist(cmd *cobra.Command) {
	ctx := context.Background()
	config, log := setup()

	jobID, _ := cmd.Flags().GetString("job")
	role, _ := cmd.Flags().GetString("role")
	skills, _ := cmd.Flags().GetStringSlice("skill")
	minScore, _ := cmd.Flags().GetFloat64("min-score")
	employer, _ := cmd.Flags().GetString("employer")

	st, closeStore, err := newStore(ctx, config.Store, log)
	if err != nil {
		log.Fatal("opening the store", zap.Error(err))
	}
	defer closeStore()

	steps := filtering.Steps(filtering.Criteria{
		Role:          role,
		Skills:        skills,
		MinScore:      minScore,
		EmployerEmail: employer,
	}, st, log)

	if include, _ := cmd.Flags().GetBool("include-contacted"); include {
		filtering.DisableByName(steps, "contacted", "include-contacted flag")
	}

	list, err := filtering.Build(ctx, st, jobID, steps, log)
	if err != nil {
		log.Fatal("building shortlist", zap.Error(err), zap.String("job_id", jobID))
	}

	log.Info("shortlist ready", zap.Int("count", list.Len()))

	if err := printJSON(struct {
		*filtering.Shortlist
		Filters []filtering.Status `json:"filters"`
	}{list, filtering.Describe(steps)}); err != nil {
		log.Fatal("printing shortlist", zap.Error(err))
	}
}
