package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ReviewSentiment/internal/dataset"
	"ReviewSentiment/internal/domain"
	"ReviewSentiment/internal/eval"
	"ReviewSentiment/internal/logging"
	"ReviewSentiment/internal/ports"
	"ReviewSentiment/internal/textproc"
)

// ExperimentDeps wires all driven adapters into the experiment workflow.
type ExperimentDeps struct {
	Source   ports.ReviewSource
	Trainer  ports.SequenceTrainer
	Runs     ports.RunRepository
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// Settings carries the tunables of a single experiment run.
type Settings struct {
	DatasetPath  string
	MaxVocab     int
	MaxLen       int
	TestFraction float64
	Seed         int64
	Base         domain.ModelConfig
}

// Experiment implements the review-classification workflow: load, clean,
// encode, split, train both model variants, evaluate, persist, notify.
type Experiment struct {
	settings Settings
	source   ports.ReviewSource
	trainer  ports.SequenceTrainer
	runs     ports.RunRepository
	notifier ports.Notifier
	logger   *slog.Logger
}

// NewExperiment constructs the orchestration component.
func NewExperiment(settings Settings, deps ExperimentDeps) *Experiment {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Experiment{
		settings: settings,
		source:   deps.Source,
		trainer:  deps.Trainer,
		runs:     deps.Runs,
		notifier: deps.Notifier,
		logger:   logger,
	}
}

// Run executes the full experiment and returns the recorded outcome. Both
// model variants are trained before either is evaluated, so a broken second
// configuration surfaces before any scoring happens.
func (e *Experiment) Run(ctx context.Context) (*domain.ExperimentRun, error) {
	if e.source == nil {
		return nil, fmt.Errorf("review source is required")
	}
	if e.trainer == nil {
		return nil, fmt.Errorf("sequence trainer is required")
	}

	started := time.Now().UTC()

	reviews, err := e.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	e.logger.Info("reviews loaded", "count", len(reviews))

	cleaned := make([]string, len(reviews))
	for i, review := range reviews {
		cleaned[i] = textproc.Clean(review.Text)
	}

	labels := make([]int, len(reviews))
	for i, review := range reviews {
		labels[i], err = textproc.EncodeLabel(review.Label)
		if err != nil {
			return nil, fmt.Errorf("encode label at row %d: %w", i, err)
		}
	}

	vocab, err := textproc.FitVocabulary(cleaned, e.settings.MaxVocab)
	if err != nil {
		return nil, fmt.Errorf("fit vocabulary: %w", err)
	}
	e.logger.Info("vocabulary fitted", "size", vocab.Size())

	sequences := make([][]int, len(cleaned))
	for i, text := range cleaned {
		sequences[i] = vocab.Encode(text, e.settings.MaxLen)
	}

	trainIdx, testIdx, err := dataset.Split(len(reviews), e.settings.TestFraction, e.settings.Seed)
	if err != nil {
		return nil, fmt.Errorf("split dataset: %w", err)
	}
	e.logger.Info("dataset split", "train", len(trainIdx), "test", len(testIdx))

	trainSeqs, trainLabels := gather(trainIdx, sequences, labels)
	testSeqs, testLabels := gather(testIdx, sequences, labels)

	if err := e.trainer.Health(ctx); err != nil {
		return nil, fmt.Errorf("trainer health: %w", err)
	}

	configs := []domain.ModelConfig{
		e.settings.Base.WithDirectionality(domain.Unidirectional),
		e.settings.Base.WithDirectionality(domain.Bidirectional),
	}

	models := make([]ports.TrainedModel, len(configs))
	for i, cfg := range configs {
		e.logger.Info("training model", "directionality", cfg.Directionality)
		models[i], err = e.trainer.Train(ctx, trainSeqs, trainLabels, cfg)
		if err != nil {
			return nil, fmt.Errorf("train %s model: %w", cfg.Directionality, err)
		}
	}

	results := make([]domain.ModelResult, len(configs))
	for i, cfg := range configs {
		metrics, err := eval.Evaluate(ctx, models[i], testSeqs, testLabels)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s model: %w", cfg.Directionality, err)
		}
		e.logger.Info("model evaluated",
			"directionality", cfg.Directionality,
			"accuracy", fmt.Sprintf("%.4f", metrics.Accuracy),
			"f1", fmt.Sprintf("%.4f", metrics.F1))
		results[i] = domain.ModelResult{
			Config:  cfg,
			ModelID: models[i].ID(),
			Metrics: metrics,
		}
	}

	run := &domain.ExperimentRun{
		ID:           uuid.NewString(),
		DatasetPath:  e.settings.DatasetPath,
		TotalReviews: len(reviews),
		TrainSize:    len(trainIdx),
		TestSize:     len(testIdx),
		MaxVocab:     e.settings.MaxVocab,
		MaxLen:       e.settings.MaxLen,
		TestFraction: e.settings.TestFraction,
		Seed:         e.settings.Seed,
		Results:      results,
		StartedAt:    started,
		FinishedAt:   time.Now().UTC(),
	}

	if e.runs != nil {
		if err := e.runs.SaveRun(ctx, *run); err != nil {
			return nil, fmt.Errorf("save run %s: %w", run.ID, err)
		}
	}

	if e.notifier != nil {
		if err := e.notifier.PublishDigest(ctx, buildDigest(run)); err != nil {
			return nil, fmt.Errorf("publish digest: %w", err)
		}
	}

	return run, nil
}

func gather(indices []int, sequences [][]int, labels []int) ([][]int, []int) {
	pickedSeqs := make([][]int, 0, len(indices))
	pickedLabels := make([]int, 0, len(indices))
	for _, idx := range indices {
		pickedSeqs = append(pickedSeqs, sequences[idx])
		pickedLabels = append(pickedLabels, labels[idx])
	}
	return pickedSeqs, pickedLabels
}

func buildDigest(run *domain.ExperimentRun) string {
	formatted := fmt.Sprintf("Sentiment experiment %s\nDataset: %s (%d reviews, %d train / %d test)\n",
		run.ID, run.DatasetPath, run.TotalReviews, run.TrainSize, run.TestSize)

	for _, result := range run.Results {
		formatted += fmt.Sprintf("- %s: accuracy %.4f, precision %.4f, recall %.4f, f1 %.4f\n",
			result.Config.Directionality,
			result.Metrics.Accuracy,
			result.Metrics.Precision,
			result.Metrics.Recall,
			result.Metrics.F1)
	}

	return formatted
}
