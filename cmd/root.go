package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/career-match/internal/logger"
)

const (
	app = "career-match"

	driverSupabase = "supabase"
	driverPostgres = "postgres"
)

type Config struct {
	Store    *StoreConfig    `mapstructure:"store" validate:"required"`
	AI       *AIConfig       `mapstructure:"ai"`
	Server   *ServerConfig   `mapstructure:"server" validate:"required"`
	Matching *MatchingConfig `mapstructure:"matching" validate:"required"`
}

type StoreConfig struct {
	Driver   string          `mapstructure:"driver" validate:"oneof=supabase postgres"`
	Supabase *SupabaseConfig `mapstructure:"supabase"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
}

type SupabaseConfig struct {
	URL     string `mapstructure:"url" validate:"omitempty,url"`
	KeyFile string `mapstructure:"key-file"`
	Schema  string `mapstructure:"schema"`
}

type PostgresConfig struct {
	URL     string `mapstructure:"url"`
	URLFile string `mapstructure:"url-file"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	ProfileModel string `mapstructure:"profile-model"`
	MaxRetries   int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

type ServerConfig struct {
	Listen          string        `mapstructure:"listen" validate:"required"`
	CORSOrigins     string        `mapstructure:"cors-origins"`
	RateLimitPerMin int           `mapstructure:"rate-limit-per-min" validate:"gte=0"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
}

type MatchingConfig struct {
	Limit int `mapstructure:"limit" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "career-match scores candidates against job postings and serves matches over HTTP",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string]string{
		"store.driver":            "STORE_DRIVER",
		"store.postgres.url":      "DATABASE_URL",
		"store.supabase.url":      "SUPABASE_URL",
		"store.supabase.key-file": "SUPABASE_SERVICE_ROLE_KEY_FILE",
		"ai.gemini.api-key-file":  "GEMINI_API_KEY_FILE",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is career-match.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("store.driver", driverSupabase)
	viper.SetDefault("store.supabase.schema", "public")
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.gemini.max-log-length", 2000)
	viper.SetDefault("server.listen", ":8080")
	viper.SetDefault("server.cors-origins", "*")
	viper.SetDefault("server.rate-limit-per-min", 10)
	viper.SetDefault("server.read-timeout", 10*time.Second)
	viper.SetDefault("server.write-timeout", 90*time.Second)
	viper.SetDefault("matching.limit", 5)
}

func initConfig() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("loading .env: %v", err)
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly: env and defaults are enough to run.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		return nil, errors.New("config is empty")
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// setup builds the logger and loads the config; failures end the process.
func setup() (*Config, *zap.Logger) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting", zap.String("app", app), zap.String("version", version))

	return config, logger
}
