package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ReviewSentiment/internal/domain"
	"ReviewSentiment/internal/ports"
)

// Expected schema:
//
//	experiment_runs(id, dataset_path, total_reviews, train_size, test_size,
//	                max_vocab, max_len, test_fraction, seed,
//	                started_at, finished_at)
//	experiment_results(run_id, directionality, model_id, embedding_dim,
//	                   hidden_units, dropout_rate, epochs, batch_size,
//	                   accuracy, precision, recall, f1, true_positives,
//	                   false_positives, true_negatives, false_negatives)

// PostgresRepository persists experiment runs and their per-configuration
// results into Postgres.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRepository = (*PostgresRepository)(nil)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun inserts the run row plus one result row per configuration inside a
// single transaction.
func (r *PostgresRepository) SaveRun(ctx context.Context, run domain.ExperimentRun) error {
	if r.db == nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = r.builder.
		Insert("experiment_runs").
		Columns("id", "dataset_path", "total_reviews", "train_size", "test_size",
			"max_vocab", "max_len", "test_fraction", "seed", "started_at", "finished_at").
		Values(run.ID, run.DatasetPath, run.TotalReviews, run.TrainSize, run.TestSize,
			run.MaxVocab, run.MaxLen, run.TestFraction, run.Seed, run.StartedAt, run.FinishedAt).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	for _, result := range run.Results {
		_, err = r.builder.
			Insert("experiment_results").
			Columns("run_id", "directionality", "model_id", "embedding_dim", "hidden_units",
				"dropout_rate", "epochs", "batch_size", "accuracy", "precision", "recall", "f1",
				"true_positives", "false_positives", "true_negatives", "false_negatives").
			Values(run.ID, string(result.Config.Directionality), result.ModelID,
				result.Config.EmbeddingDim, result.Config.HiddenUnits, result.Config.DropoutRate,
				result.Config.Epochs, result.Config.BatchSize,
				result.Metrics.Accuracy, result.Metrics.Precision, result.Metrics.Recall, result.Metrics.F1,
				result.Metrics.TruePositives, result.Metrics.FalsePositives,
				result.Metrics.TrueNegatives, result.Metrics.FalseNegatives).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("insert result %s/%s: %w", run.ID, result.Config.Directionality, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", run.ID, err)
	}

	return nil
}

// RecentRuns returns the latest runs with their results, newest first.
func (r *PostgresRepository) RecentRuns(ctx context.Context, limit int) ([]domain.ExperimentRun, error) {
	if r.db == nil || limit <= 0 {
		return nil, nil
	}

	rows, err := r.builder.
		Select("id", "dataset_path", "total_reviews", "train_size", "test_size",
			"max_vocab", "max_len", "test_fraction", "seed", "started_at", "finished_at").
		From("experiment_runs").
		OrderBy("started_at DESC").
		Limit(uint64(limit)).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var (
		runs []domain.ExperimentRun
		ids  []string
		byID = map[string]int{}
	)

	for rows.Next() {
		var run domain.ExperimentRun
		if err := rows.Scan(&run.ID, &run.DatasetPath, &run.TotalReviews, &run.TrainSize, &run.TestSize,
			&run.MaxVocab, &run.MaxLen, &run.TestFraction, &run.Seed, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		byID[run.ID] = len(runs)
		ids = append(ids, run.ID)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}

	resultRows, err := r.builder.
		Select("run_id", "directionality", "model_id", "embedding_dim", "hidden_units",
			"dropout_rate", "epochs", "batch_size", "accuracy", "precision", "recall", "f1",
			"true_positives", "false_positives", "true_negatives", "false_negatives").
		From("experiment_results").
		Where("run_id = ANY(?)", pq.Array(ids)).
		RunWith(r.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer resultRows.Close()

	for resultRows.Next() {
		var (
			runID     string
			direction string
			result    domain.ModelResult
		)
		if err := resultRows.Scan(&runID, &direction, &result.ModelID,
			&result.Config.EmbeddingDim, &result.Config.HiddenUnits, &result.Config.DropoutRate,
			&result.Config.Epochs, &result.Config.BatchSize,
			&result.Metrics.Accuracy, &result.Metrics.Precision, &result.Metrics.Recall, &result.Metrics.F1,
			&result.Metrics.TruePositives, &result.Metrics.FalsePositives,
			&result.Metrics.TrueNegatives, &result.Metrics.FalseNegatives); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		result.Config.Directionality = domain.Directionality(direction)

		if idx, ok := byID[runID]; ok {
			runs[idx].Results = append(runs[idx].Results, result)
		}
	}
	if err := resultRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return runs, nil
}
