package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print platform counts for admins",
	Run: func(_ *cobra.Command, _ []string) {
		ctx := context.Background()
		config, log := setup()

		st, closeStore, err := newStore(ctx, config.Store, log)
		if err != nil {
			log.Fatal("opening the store", zap.Error(err))
		}
		defer closeStore()

		stats, err := st.Stats(ctx)
		if err != nil {
			log.Fatal("getting stats", zap.Error(err))
		}

		if err := printJSON(stats); err != nil {
			log.Fatal("printing stats", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
