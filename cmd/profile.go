package cmd

import (
	"context"
	"errors"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/ai"
	"github.com/spigell/career-match/internal/logger"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Generate a career profile from onboarding answers and store it",
	Run: func(cmd *cobra.Command, _ []string) {
		profile(cmd)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().String("answers", "", "onboarding answers YAML or JSON file")
	profileCmd.Flags().BoolP("auto-approve", "y", false, "store the profile without asking for confirmation")
	profileCmd.MarkFlagRequired("answers")
}

func profile(cmd *cobra.Command) {
	ctx := context.Background()
	config, log := setup()

	path, _ := cmd.Flags().GetString("answers")

	var answers ai.OnboardingAnswers
	if err := readInput(path, &answers); err != nil {
		log.Fatal("reading answers", zap.Error(err))
	}

	st, closeStore, err := newStore(ctx, config.Store, log)
	if err != nil {
		log.Fatal("opening the store", zap.Error(err))
	}
	defer closeStore()

	service, err := newProfileService(ctx, config.AI, st, log)
	if err != nil {
		log.Fatal("preparing profile generation", zap.Error(err))
	}

	generated, err := service.Generate(ctx, answers)
	if err != nil {
		log.Fatal("generating profile", zap.Error(err), zap.String(logger.FieldCandidateEmail, answers.Email))
	}

	if err := printJSON(generated); err != nil {
		log.Fatal("printing profile", zap.Error(err))
	}

	if approve, _ := cmd.Flags().GetBool("auto-approve"); !approve {
		ok, err := confirm("Store this profile?")
		if err != nil {
			log.Fatal("asking for confirmation", zap.Error(err))
		}
		if !ok {
			log.Info("exiting", zap.String("reason", "profile not stored"))
			return
		}
	}

	if !service.Save(ctx, answers.Email, generated) {
		log.Warn("profile was generated but not stored")
	}
}

func confirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}

	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) || errors.Is(err, promptui.ErrInterrupt) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
