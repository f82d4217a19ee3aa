package eval

import (
	"context"
	"fmt"

	"ReviewSentiment/internal/domain"
	"ReviewSentiment/internal/ports"
)

// decisionThreshold converts continuous scores into hard predictions:
// score > 0.5 is positive, everything else negative.
const decisionThreshold = 0.5

// Evaluate scores the held-out sequences with the trained model and computes
// accuracy and F1 against the true labels. F1 is taken over the positive
// class, with the convention that it is 0 when precision and recall are both
// undefined.
func Evaluate(ctx context.Context, model ports.TrainedModel, sequences [][]int, labels []int) (domain.Metrics, error) {
	if len(sequences) != len(labels) {
		return domain.Metrics{}, fmt.Errorf("sequence/label count mismatch: %d vs %d", len(sequences), len(labels))
	}

	scores, err := model.PredictScores(ctx, sequences)
	if err != nil {
		return domain.Metrics{}, fmt.Errorf("predict scores: %w", err)
	}
	if len(scores) != len(labels) {
		return domain.Metrics{}, fmt.Errorf("model returned %d scores for %d samples", len(scores), len(labels))
	}

	predictions := make([]int, len(scores))
	for i, score := range scores {
		if score > decisionThreshold {
			predictions[i] = 1
		}
	}

	return metricsFromPredictions(predictions, labels), nil
}

func metricsFromPredictions(predictions, labels []int) domain.Metrics {
	var m domain.Metrics
	for i, predicted := range predictions {
		switch {
		case predicted == 1 && labels[i] == 1:
			m.TruePositives++
		case predicted == 1 && labels[i] == 0:
			m.FalsePositives++
		case predicted == 0 && labels[i] == 0:
			m.TrueNegatives++
		default:
			m.FalseNegatives++
		}
	}

	total := len(predictions)
	if total > 0 {
		m.Accuracy = float64(m.TruePositives+m.TrueNegatives) / float64(total)
	}
	if m.TruePositives+m.FalsePositives > 0 {
		m.Precision = float64(m.TruePositives) / float64(m.TruePositives+m.FalsePositives)
	}
	if m.TruePositives+m.FalseNegatives > 0 {
		m.Recall = float64(m.TruePositives) / float64(m.TruePositives+m.FalseNegatives)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	return m
}
