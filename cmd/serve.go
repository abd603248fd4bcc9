package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/ai"
	"github.com/spigell/career-match/internal/httpapi"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the matching API over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default from server.listen)")
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config, log := setup()

	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		config.Server.Listen = listen
	}

	st, closeStore, err := newStore(ctx, config.Store, log)
	if err != nil {
		log.Fatal("opening the store", zap.Error(err))
	}
	defer closeStore()

	var profiles *ai.ProfileService
	profiles, err = newProfileService(ctx, config.AI, st, log)
	if err != nil {
		if !errors.Is(err, errAIDisabled) {
			log.Fatal("preparing profile generation", zap.Error(err))
		}
		log.Info("profile generation disabled")
	}

	api := httpapi.New(httpapi.Deps{
		Store:    st,
		Profiles: profiles,
		Scripts:  newScripts(ctx, config.AI, log),
		Logger:   log,
	}, httpapi.Options{
		CORSOrigins:     httpapi.ParseOrigins(config.Server.CORSOrigins),
		RateLimitPerMin: config.Server.RateLimitPerMin,
		MatchLimit:      config.Matching.Limit,
	})

	srv := &http.Server{
		Addr:              config.Server.Listen,
		Handler:           api.Routes(),
		ReadTimeout:       config.Server.ReadTimeout,
		ReadHeaderTimeout: config.Server.ReadTimeout,
		WriteTimeout:      config.Server.WriteTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutting down the server", zap.Error(err))
		}
	}()

	log.Info("serving", zap.String("listen", config.Server.Listen), zap.String("version", version))

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("serving http", zap.Error(err))
	}

	log.Info("server stopped")
}
