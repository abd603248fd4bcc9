package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/store"
)

var introCmd = &cobra.Command{
	Use:   "intro",
	Short: "Request an introduction to a candidate on behalf of an employer",
	Run: func(cmd *cobra.Command, _ []string) {
		intro(cmd)
	},
}

func init() {
	rootCmd.AddCommand(introCmd)

	introCmd.Flags().String("candidate", "", "candidate id")
	introCmd.Flags().String("employer-email", "", "employer contact email")
	introCmd.Flags().String("company", "", "employer company name")
	introCmd.Flags().String("message", "", "optional message to the candidate")
	introCmd.MarkFlagRequired("candidate")
	introCmd.MarkFlagRequired("employer-email")
	introCmd.MarkFlagRequired("company")
}

func intro(cmd *cobra.Command) {
	ctx := context.Background()
	config, log := setup()

	candidateID, _ := cmd.Flags().GetString("candidate")
	email, _ := cmd.Flags().GetString("employer-email")
	company, _ := cmd.Flags().GetString("company")

	req := store.Intro{
		CandidateID:     candidateID,
		EmployerEmail:   email,
		EmployerCompany: company,
	}
	if message, _ := cmd.Flags().GetString("message"); message != "" {
		req.Message = &message
	}

	if err := req.Validate(); err != nil {
		log.Fatal("invalid intro request", zap.Error(err))
	}

	st, closeStore, err := newStore(ctx, config.Store, log)
	if err != nil {
		log.Fatal("opening the store", zap.Error(err))
	}
	defer closeStore()

	candidate, err := st.GetCandidate(ctx, candidateID)
	if err != nil {
		log.Fatal("getting candidate", zap.Error(err), zap.String("candidate_id", candidateID))
	}
	if !candidate.ProfilePublished || !candidate.ConsentGiven {
		log.Fatal("candidate is not open to intros",
			zap.String("candidate_id", candidateID),
			zap.Bool("profile_published", candidate.ProfilePublished),
			zap.Bool("consent_given", candidate.ConsentGiven),
		)
	}

	created, err := st.CreateIntro(ctx, req)
	if err != nil {
		log.Fatal("creating intro", zap.Error(err))
	}

	log.Info("intro requested", zap.String("intro_id", created.ID), zap.String("status", created.Status))

	if err := printJSON(created); err != nil {
		log.Fatal("printing intro", zap.Error(err))
	}
}
