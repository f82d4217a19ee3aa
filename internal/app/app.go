package app

import (
	"context"
	"fmt"
	"log/slog"

	"ReviewSentiment/internal/config"
	"ReviewSentiment/internal/domain"
	"ReviewSentiment/internal/infrastructure/parser"
	"ReviewSentiment/internal/infrastructure/storage"
	"ReviewSentiment/internal/infrastructure/telegram"
	"ReviewSentiment/internal/infrastructure/trainer"
	"ReviewSentiment/internal/logging"
	"ReviewSentiment/internal/ports"
	"ReviewSentiment/internal/usecase"
)

// Application wires configuration to the experiment workflow.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	return &Application{cfg: cfg, logger: baseLogger}
}

// Run wires the adapters and executes one experiment run end to end.
func (a *Application) Run(ctx context.Context) error {
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	source := parser.NewCSVSource(a.cfg.Dataset, a.logger.With("component", "source"))

	trainerClient := trainer.NewClient(trainer.Config{
		BaseURL:        a.cfg.Trainer.BaseURL,
		PollInterval:   a.cfg.Trainer.PollInterval(),
		RequestTimeout: a.cfg.Trainer.RequestTimeout(),
	}, a.logger.With("component", "trainer"))

	var runs ports.RunRepository
	if a.cfg.Database.DSN != "" {
		db, err := storage.Open(ctx, a.cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
		runs = storage.NewPostgresRepository(db)
	}

	var notifier ports.Notifier
	if a.cfg.Notifications.Telegram.BotToken != "" && a.cfg.Notifications.Telegram.ChatID != "" {
		notifier = telegram.NewNotifier(a.cfg.Notifications.Telegram.BotToken, a.cfg.Notifications.Telegram.ChatID)
	}

	experiment := usecase.NewExperiment(usecase.Settings{
		DatasetPath:  a.cfg.Dataset.Path,
		MaxVocab:     a.cfg.Preprocessing.MaxVocab,
		MaxLen:       a.cfg.Preprocessing.MaxLen,
		TestFraction: a.cfg.Split.TestFraction,
		Seed:         a.cfg.Split.Seed,
		Base: domain.ModelConfig{
			EmbeddingDim: a.cfg.Training.EmbeddingDim,
			HiddenUnits:  a.cfg.Training.HiddenUnits,
			DropoutRate:  a.cfg.Training.DropoutRate,
			Epochs:       a.cfg.Training.Epochs,
			BatchSize:    a.cfg.Training.BatchSize,
		},
	}, usecase.ExperimentDeps{
		Source:   source,
		Trainer:  trainerClient,
		Runs:     runs,
		Notifier: notifier,
		Logger:   a.logger.With("component", "experiment"),
	})

	run, err := experiment.Run(ctx)
	if err != nil {
		return err
	}

	for _, result := range run.Results {
		a.logger.Info("experiment result",
			"run", run.ID,
			"directionality", result.Config.Directionality,
			"model", result.ModelID,
			"accuracy", fmt.Sprintf("%.4f", result.Metrics.Accuracy),
			"precision", fmt.Sprintf("%.4f", result.Metrics.Precision),
			"recall", fmt.Sprintf("%.4f", result.Metrics.Recall),
			"f1", fmt.Sprintf("%.4f", result.Metrics.F1))
	}
	a.logger.Info("experiment finished",
		"run", run.ID,
		"duration", run.FinishedAt.Sub(run.StartedAt).String())

	return nil
}
