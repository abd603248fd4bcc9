package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spigell/career-match/internal/ai"
	"github.com/spigell/career-match/internal/ai/gemini"
	"github.com/spigell/career-match/internal/secrets"
	"github.com/spigell/career-match/internal/store"
	"github.com/spigell/career-match/internal/store/postgres"
	"github.com/spigell/career-match/internal/store/supabase"
)

var errAIDisabled = errors.New("ai generation is disabled (set ai.enabled)")

// newStore opens the configured datastore. The returned func releases it.
func newStore(ctx context.Context, cfg *StoreConfig, logger *zap.Logger) (store.Store, func(), error) {
	switch cfg.Driver {
	case driverPostgres:
		pg := cfg.Postgres
		if pg == nil {
			pg = &PostgresConfig{}
		}

		dsn, err := secrets.Load(secrets.Source{
			Name:  "database url",
			Value: pg.URL,
			File:  pg.URLFile,
			Env:   "DATABASE_URL",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w (set store.postgres.url or DATABASE_URL)", err)
		}

		pool, err := postgres.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}

		logger.Debug("connected to postgres")

		return postgres.New(pool, logger), pool.Close, nil

	default:
		sb := cfg.Supabase
		if sb == nil || strings.TrimSpace(sb.URL) == "" {
			return nil, nil, errors.New("supabase url is required (set store.supabase.url or SUPABASE_URL)")
		}

		key, err := secrets.Load(secrets.Source{
			Name: "supabase service role key",
			File: sb.KeyFile,
			Env:  "SUPABASE_SERVICE_ROLE_KEY",
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%w (set store.supabase.key-file or SUPABASE_SERVICE_ROLE_KEY_FILE)", err)
		}

		client := supabase.New(sb.URL, key, sb.Schema, logger)
		client.UserAgent = app + "/" + version

		return client, func() {}, nil
	}
}

// newGenerator builds a Gemini generator. model overrides the configured one when set.
func newGenerator(ctx context.Context, cfg *AIConfig, model string, json bool, logger *zap.Logger) (*gemini.Generator, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errAIDisabled
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	if model == "" {
		model = cfg.Gemini.Model
	}

	return gemini.NewGenerator(ctx, gemini.Options{
		APIKey:     apiKey,
		Model:      model,
		MaxRetries: cfg.Gemini.MaxRetries,
		JSON:       json,
	}, logger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)))
}

// newProfileService wires the Gemini profile writer to the store.
func newProfileService(ctx context.Context, cfg *AIConfig, saver ai.ProfileSaver, logger *zap.Logger) (*ai.ProfileService, error) {
	model := ""
	if cfg != nil && cfg.Gemini != nil {
		model = cfg.Gemini.ProfileModel
	}

	generator, err := newGenerator(ctx, cfg, model, true, logger)
	if err != nil {
		return nil, err
	}

	writer := gemini.NewProfileWriter(generator, logger, cfg.Gemini.MaxLogLength)

	return ai.NewProfileService(writer, saver, logger), nil
}

// newScripts returns pitch writing backed by Gemini, or the template pitch
// alone when AI is disabled.
func newScripts(ctx context.Context, cfg *AIConfig, logger *zap.Logger) *ai.Scripts {
	generator, err := newGenerator(ctx, cfg, "", false, logger)
	if err != nil {
		if !errors.Is(err, errAIDisabled) {
			logger.Warn("script generation unavailable, using template pitches", zap.Error(err))
		}
		return ai.NewScripts(nil, logger)
	}

	return ai.NewScripts(gemini.NewScriptWriter(generator, logger, cfg.Gemini.MaxLogLength), logger)
}

// readInput decodes a YAML or JSON file into v using the json field names.
func readInput(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           v,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	return nil
}
