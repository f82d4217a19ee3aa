package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultDelimiter = ","

	configPathEnv     = "REVIEW_SENTIMENT_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	trainerURLEnv     = "TRAINER_URL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	datasetPathEnv    = "DATASET_PATH"
)

// Config holds high-level settings required across the application.
type Config struct {
	Dataset       DatasetConfig       `yaml:"dataset"`
	Preprocessing PreprocessingConfig `yaml:"preprocessing"`
	Split         SplitConfig         `yaml:"split"`
	Training      TrainingConfig      `yaml:"training"`
	Trainer       TrainerConfig       `yaml:"trainer"`
	Database      DatabaseConfig      `yaml:"database"`
	Notifications NotificationConfig  `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// DatasetConfig locates the review CSV and names its columns.
type DatasetConfig struct {
	Path        string `yaml:"path"`
	Delimiter   string `yaml:"delimiter"`
	TextColumn  string `yaml:"textColumn"`
	LabelColumn string `yaml:"labelColumn"`
}

// DelimiterRune resolves the configured delimiter to a single rune.
func (d DatasetConfig) DelimiterRune() rune {
	value := d.Delimiter
	if value == "" {
		value = defaultDelimiter
	}
	return []rune(value)[0]
}

// PreprocessingConfig bounds the vocabulary and sequence length.
type PreprocessingConfig struct {
	MaxVocab int `yaml:"maxVocab"`
	MaxLen   int `yaml:"maxLen"`
}

// SplitConfig controls the train/test partition.
type SplitConfig struct {
	TestFraction float64 `yaml:"testFraction"`
	Seed         int64   `yaml:"seed"`
}

// TrainingConfig carries the hyperparameters shared by both model variants.
type TrainingConfig struct {
	EmbeddingDim int     `yaml:"embeddingDim"`
	HiddenUnits  int     `yaml:"hiddenUnits"`
	DropoutRate  float64 `yaml:"dropoutRate"`
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batchSize"`
}

// TrainerConfig describes the training-service integration parameters.
type TrainerConfig struct {
	BaseURL               string `yaml:"baseUrl"`
	PollIntervalSeconds   int    `yaml:"pollIntervalSeconds"`
	RequestTimeoutSeconds int    `yaml:"requestTimeoutSeconds"`
}

// PollInterval resolves the configured job polling cadence. Zero means the
// client default.
func (t TrainerConfig) PollInterval() time.Duration {
	return time.Duration(t.PollIntervalSeconds) * time.Second
}

// RequestTimeout resolves the per-request HTTP timeout. Zero means the client
// default.
func (t TrainerConfig) RequestTimeout() time.Duration {
	return time.Duration(t.RequestTimeoutSeconds) * time.Second
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// LoggingConfig tunes console output.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if merged, err := applyFileConfig(cfg, raw); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
		} else {
			cfg = merged
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

// fileOverrides carries the keys merged by presence instead of by value.
// Zero is a valid seed and a valid dropoutRate, so the value sentinels in
// mergeConfig cannot represent them.
type fileOverrides struct {
	Split struct {
		Seed *int64 `yaml:"seed"`
	} `yaml:"split"`
	Training struct {
		DropoutRate *float64 `yaml:"dropoutRate"`
	} `yaml:"training"`
}

func applyFileConfig(base Config, raw []byte) (Config, error) {
	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return base, err
	}
	merged := mergeConfig(base, fileCfg)

	var overrides fileOverrides
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return base, err
	}
	if overrides.Split.Seed != nil {
		merged.Split.Seed = *overrides.Split.Seed
	}
	if overrides.Training.DropoutRate != nil {
		merged.Training.DropoutRate = *overrides.Training.DropoutRate
	}

	return merged, nil
}

// Validate reports the first setting that would make an experiment run
// impossible.
func (c Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset path is required")
	}
	if c.Preprocessing.MaxVocab <= 0 {
		return fmt.Errorf("preprocessing maxVocab must be positive, got %d", c.Preprocessing.MaxVocab)
	}
	if c.Preprocessing.MaxLen <= 0 {
		return fmt.Errorf("preprocessing maxLen must be positive, got %d", c.Preprocessing.MaxLen)
	}
	if c.Split.TestFraction <= 0 || c.Split.TestFraction >= 1 {
		return fmt.Errorf("split testFraction must be in (0, 1), got %v", c.Split.TestFraction)
	}
	if c.Trainer.BaseURL == "" {
		return fmt.Errorf("trainer baseUrl is required")
	}
	if c.Training.EmbeddingDim <= 0 || c.Training.HiddenUnits <= 0 {
		return fmt.Errorf("training dimensions must be positive")
	}
	if c.Training.DropoutRate < 0 || c.Training.DropoutRate >= 1 {
		return fmt.Errorf("training dropoutRate must be in [0, 1), got %v", c.Training.DropoutRate)
	}
	if c.Training.Epochs <= 0 || c.Training.BatchSize <= 0 {
		return fmt.Errorf("training epochs and batchSize must be positive")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(datasetPathEnv); v != "" {
		c.Dataset.Path = v
	}

	if v := os.Getenv(trainerURLEnv); v != "" {
		c.Trainer.BaseURL = v
	}

	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Dataset.Path != "" {
		base.Dataset.Path = override.Dataset.Path
	}
	if override.Dataset.Delimiter != "" {
		base.Dataset.Delimiter = override.Dataset.Delimiter
	}
	if override.Dataset.TextColumn != "" {
		base.Dataset.TextColumn = override.Dataset.TextColumn
	}
	if override.Dataset.LabelColumn != "" {
		base.Dataset.LabelColumn = override.Dataset.LabelColumn
	}

	if override.Preprocessing.MaxVocab > 0 {
		base.Preprocessing.MaxVocab = override.Preprocessing.MaxVocab
	}
	if override.Preprocessing.MaxLen > 0 {
		base.Preprocessing.MaxLen = override.Preprocessing.MaxLen
	}

	if override.Split.TestFraction > 0 {
		base.Split.TestFraction = override.Split.TestFraction
	}
	// Seed is merged by presence in applyFileConfig; zero is a valid seed.

	if override.Training.EmbeddingDim > 0 {
		base.Training.EmbeddingDim = override.Training.EmbeddingDim
	}
	if override.Training.HiddenUnits > 0 {
		base.Training.HiddenUnits = override.Training.HiddenUnits
	}
	// DropoutRate is merged by presence in applyFileConfig; zero disables
	// dropout and must survive the merge.
	if override.Training.Epochs > 0 {
		base.Training.Epochs = override.Training.Epochs
	}
	if override.Training.BatchSize > 0 {
		base.Training.BatchSize = override.Training.BatchSize
	}

	if override.Trainer.BaseURL != "" {
		base.Trainer.BaseURL = override.Trainer.BaseURL
	}
	if override.Trainer.PollIntervalSeconds > 0 {
		base.Trainer.PollIntervalSeconds = override.Trainer.PollIntervalSeconds
	}
	if override.Trainer.RequestTimeoutSeconds > 0 {
		base.Trainer.RequestTimeoutSeconds = override.Trainer.RequestTimeoutSeconds
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Dataset: DatasetConfig{
			Path:        "data/reviews.csv",
			Delimiter:   defaultDelimiter,
			TextColumn:  "review",
			LabelColumn: "sentiment",
		},
		Preprocessing: PreprocessingConfig{MaxVocab: 10000, MaxLen: 200},
		Split:         SplitConfig{TestFraction: 0.2, Seed: 42},
		Training: TrainingConfig{
			EmbeddingDim: 64,
			HiddenUnits:  64,
			DropoutRate:  0.5,
			Epochs:       5,
			BatchSize:    64,
		},
		Trainer: TrainerConfig{
			BaseURL:               "http://localhost:8500",
			PollIntervalSeconds:   2,
			RequestTimeoutSeconds: 30,
		},
		Database: DatabaseConfig{DSN: ""},
		Notifications: NotificationConfig{
			Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}
