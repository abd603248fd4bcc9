package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/logger"
	"github.com/spigell/career-match/internal/matching"
)

const promptExit = "Exit"

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Show the best job matches for a candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("email", "e", "", "email of a stored candidate")
	matchCmd.Flags().String("candidate", "", "candidate YAML or JSON file instead of a stored one")
	matchCmd.Flags().IntP("limit", "n", 0, "number of matches to show (default from matching.limit)")
	matchCmd.Flags().BoolP("interactive", "i", false, "browse matches interactively")
	matchCmd.MarkFlagsMutuallyExclusive("email", "candidate")
	matchCmd.MarkFlagsOneRequired("email", "candidate")
}

func match(cmd *cobra.Command) {
	ctx := context.Background()
	config, log := setup()

	st, closeStore, err := newStore(ctx, config.Store, log)
	if err != nil {
		log.Fatal("opening the store", zap.Error(err))
	}
	defer closeStore()

	var candidate matching.Candidate
	if path, _ := cmd.Flags().GetString("candidate"); path != "" {
		if err := readInput(path, &candidate); err != nil {
			log.Fatal("reading candidate", zap.Error(err))
		}
	} else {
		email, _ := cmd.Flags().GetString("email")
		if candidate, err = st.GetCandidateByEmail(ctx, email); err != nil {
			log.Fatal("getting candidate", zap.Error(err), zap.String(logger.FieldCandidateEmail, email))
		}
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = config.Matching.Limit
	}

	matches, err := matching.NewEngine(st, log).TopMatches(ctx, candidate, limit)
	if err != nil {
		log.Fatal("getting top matches", zap.Error(err))
	}

	log.Info("found matches", append(logger.CandidateFields(candidate), zap.Int("count", len(matches)))...)

	if len(matches) == 0 {
		log.Info("exiting", zap.String("reason", "no jobs to match against"))
		return
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		if err := browseMatches(matches); err != nil {
			log.Fatal("browsing matches", zap.Error(err))
		}
		return
	}

	if err := printJSON(matches); err != nil {
		log.Fatal("printing matches", zap.Error(err))
	}
}

func matchLabel(m matching.JobMatch) string {
	return fmt.Sprintf("%5.1f  %s @ %s", m.Score, m.Job.Title, m.Job.Company)
}

func matchDetails(m matching.JobMatch) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", m.Job.Title, m.Job.Location)
	fmt.Fprintf(&b, "score: %.1f\n", m.Score)
	for _, reason := range m.WhyReasons {
		fmt.Fprintf(&b, "  + %s\n", reason)
	}
	fmt.Fprintf(&b, "next step: %s\n", m.LearningGap)
	return b.String()
}

// browseMatches lets the user pick matches one at a time until they exit.
func browseMatches(matches []matching.JobMatch) error {
	items := make([]string, 0, len(matches)+1)
	for _, m := range matches {
		items = append(items, matchLabel(m))
	}
	items = append(items, promptExit)

	for {
		prompt := promptui.Select{
			Label: "Select a match",
			Items: items,
			Size:  len(items),
		}

		idx, _, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			return err
		}

		if idx == len(matches) {
			return nil
		}

		fmt.Println(matchDetails(matches[idx]))
	}
}
