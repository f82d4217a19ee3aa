package ports

import (
	"context"

	"ReviewSentiment/internal/domain"
)

// ReviewSource loads the labeled review table from its backing store.
type ReviewSource interface {
	Load(ctx context.Context) ([]domain.Review, error)
}

// SequenceTrainer is the boundary to the external recurrent-network
// collaborator. The collaborator owns all model internals; this core only
// submits encoded sequences and awaits completion.
type SequenceTrainer interface {
	Health(ctx context.Context) error
	Train(ctx context.Context, sequences [][]int, labels []int, cfg domain.ModelConfig) (TrainedModel, error)
}

// TrainedModel is an opaque handle to a model held by the collaborator.
type TrainedModel interface {
	ID() string
	PredictScores(ctx context.Context, sequences [][]int) ([]float64, error)
}

// RunRepository persists finished experiment runs for later comparison.
type RunRepository interface {
	SaveRun(ctx context.Context, run domain.ExperimentRun) error
	RecentRuns(ctx context.Context, limit int) ([]domain.ExperimentRun, error)
}

// Notifier publishes run digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}
