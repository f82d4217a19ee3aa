package domain

import "time"

// Review is a core entity describing one labeled sample from the input table.
type Review struct {
	Text  string
	Label string
}

// Directionality selects how the recurrent encoder walks a sequence.
type Directionality string

const (
	Unidirectional Directionality = "unidirectional"
	Bidirectional  Directionality = "bidirectional"
)

// ModelConfig carries every hyperparameter of one classifier configuration.
// The two compared configurations differ only in Directionality.
type ModelConfig struct {
	Directionality Directionality
	EmbeddingDim   int
	HiddenUnits    int
	DropoutRate    float64
	Epochs         int
	BatchSize      int
}

// WithDirectionality returns a copy of the config with only the recurrence
// direction swapped.
func (c ModelConfig) WithDirectionality(d Directionality) ModelConfig {
	c.Directionality = d
	return c
}

// Metrics captures classification quality on a held-out partition.
type Metrics struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64

	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int
}

// ModelResult pairs one trained configuration with its held-out metrics.
type ModelResult struct {
	Config  ModelConfig
	ModelID string
	Metrics Metrics
}

// ExperimentRun is a persisted record of a single pipeline execution.
type ExperimentRun struct {
	ID           string
	DatasetPath  string
	TotalReviews int
	TrainSize    int
	TestSize     int
	MaxVocab     int
	MaxLen       int
	TestFraction float64
	Seed         int64
	Results      []ModelResult
	StartedAt    time.Time
	FinishedAt   time.Time
}
