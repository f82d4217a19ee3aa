package trainer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"ReviewSentiment/internal/domain"
	"ReviewSentiment/internal/ports"
)

const (
	defaultPollInterval   = 2 * time.Second
	defaultRequestTimeout = 30 * time.Second
)

var (
	// ErrUnavailable indicates the training sidecar is unreachable or
	// answered outside its contract.
	ErrUnavailable = errors.New("sequence trainer unavailable")

	// ErrTrainingFailed indicates the sidecar accepted the job but reported
	// a training failure.
	ErrTrainingFailed = errors.New("training job failed")
)

// Config carries the HTTP client settings for the training sidecar.
type Config struct {
	BaseURL        string
	PollInterval   time.Duration
	RequestTimeout time.Duration
}

// Client talks to the recurrent-network training sidecar. Training is
// asynchronous on the sidecar: Train submits a job and polls its status
// until completion, honoring ctx cancellation between polls. The per-call
// timeout applies to individual HTTP requests, never to job duration.
type Client struct {
	baseURL      string
	pollInterval time.Duration
	http         *http.Client
	logger       *slog.Logger
}

var _ ports.SequenceTrainer = (*Client)(nil)

// NewClient builds a reusable sidecar client; zero durations fall back to
// defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	return &Client{
		baseURL:      strings.TrimSuffix(cfg.BaseURL, "/"),
		pollInterval: cfg.PollInterval,
		http:         &http.Client{Timeout: cfg.RequestTimeout},
		logger:       logger,
	}
}

type modelConfigPayload struct {
	Directionality string  `json:"directionality"`
	EmbeddingDim   int     `json:"embedding_dim"`
	HiddenUnits    int     `json:"hidden_units"`
	DropoutRate    float64 `json:"dropout_rate"`
	Epochs         int     `json:"epochs"`
	BatchSize      int     `json:"batch_size"`
}

type trainRequest struct {
	Sequences [][]int            `json:"sequences"`
	Labels    []int              `json:"labels"`
	Config    modelConfigPayload `json:"config"`
}

type trainAccepted struct {
	JobID string `json:"job_id"`
}

type jobStatus struct {
	Status  string `json:"status"`
	ModelID string `json:"model_id"`
	Error   string `json:"error"`
}

type scoresRequest struct {
	Sequences [][]int `json:"sequences"`
}

type scoresResponse struct {
	Scores []float64 `json:"scores"`
}

// Health probes the sidecar before any training is submitted.
func (c *Client) Health(ctx context.Context) error {
	if err := c.getJSON(ctx, "/health", nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Train submits one training job and blocks until the sidecar reports it
// completed or failed.
func (c *Client) Train(ctx context.Context, sequences [][]int, labels []int, cfg domain.ModelConfig) (ports.TrainedModel, error) {
	payload := trainRequest{
		Sequences: sequences,
		Labels:    labels,
		Config: modelConfigPayload{
			Directionality: string(cfg.Directionality),
			EmbeddingDim:   cfg.EmbeddingDim,
			HiddenUnits:    cfg.HiddenUnits,
			DropoutRate:    cfg.DropoutRate,
			Epochs:         cfg.Epochs,
			BatchSize:      cfg.BatchSize,
		},
	}

	var accepted trainAccepted
	if err := c.postJSON(ctx, "/train", payload, &accepted); err != nil {
		return nil, fmt.Errorf("%w: submit job: %w", ErrUnavailable, err)
	}
	if accepted.JobID == "" {
		return nil, fmt.Errorf("%w: sidecar returned no job id", ErrUnavailable)
	}

	c.debug("training job submitted", "job_id", accepted.JobID, "direction", cfg.Directionality, "samples", len(sequences))

	modelID, err := c.awaitJob(ctx, accepted.JobID)
	if err != nil {
		return nil, err
	}

	return &RemoteModel{id: modelID, client: c}, nil
}

// awaitJob polls the job status endpoint until a terminal state.
func (c *Client) awaitJob(ctx context.Context, jobID string) (string, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var status jobStatus
		if err := c.getJSON(ctx, "/train/"+jobID, &status); err != nil {
			return "", fmt.Errorf("%w: poll job %s: %w", ErrUnavailable, jobID, err)
		}

		switch status.Status {
		case "completed":
			if status.ModelID == "" {
				return "", fmt.Errorf("%w: job %s completed without model id", ErrUnavailable, jobID)
			}
			return status.ModelID, nil
		case "failed":
			return "", fmt.Errorf("%w: job %s: %s", ErrTrainingFailed, jobID, status.Error)
		case "queued", "running":
			c.debug("training job pending", "job_id", jobID, "status", status.Status)
		default:
			return "", fmt.Errorf("%w: job %s reported unknown status %q", ErrUnavailable, jobID, status.Status)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

// RemoteModel is a handle to a trained model held by the sidecar.
type RemoteModel struct {
	id     string
	client *Client
}

var _ ports.TrainedModel = (*RemoteModel)(nil)

// ID returns the sidecar-assigned model identifier.
func (m *RemoteModel) ID() string {
	return m.id
}

// PredictScores returns one probability per input sequence, in input order.
func (m *RemoteModel) PredictScores(ctx context.Context, sequences [][]int) ([]float64, error) {
	var resp scoresResponse
	if err := m.client.postJSON(ctx, "/models/"+m.id+"/scores", scoresRequest{Sequences: sequences}, &resp); err != nil {
		return nil, fmt.Errorf("%w: score model %s: %w", ErrUnavailable, m.id, err)
	}

	if len(resp.Scores) != len(sequences) {
		return nil, fmt.Errorf("%w: model %s returned %d scores for %d sequences", ErrUnavailable, m.id, len(resp.Scores), len(sequences))
	}

	return resp.Scores, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, v)
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	return c.do(req, v)
}

func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
