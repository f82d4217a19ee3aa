package parser

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ReviewSentiment/internal/config"
)

func writeDataset(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reviews.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func datasetConfig(path string) config.DatasetConfig {
	return config.DatasetConfig{
		Path:        path,
		Delimiter:   ",",
		TextColumn:  "review",
		LabelColumn: "sentiment",
	}
}

func TestCSVSourceLoad(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, `review,sentiment
"A fine, moving film",positive
awful,negative
lonefield
"has text but no label",
`)

	source := NewCSVSource(datasetConfig(path), nil)
	reviews, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if len(reviews) != 2 {
		t.Fatalf("expected 2 usable reviews, got %d", len(reviews))
	}
	if reviews[0].Text != "A fine, moving film" || reviews[0].Label != "positive" {
		t.Fatalf("unexpected first review: %+v", reviews[0])
	}
	if reviews[1].Text != "awful" || reviews[1].Label != "negative" {
		t.Fatalf("unexpected second review: %+v", reviews[1])
	}
}

func TestCSVSourceHeaderIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "Review,Sentiment\ngreat,positive\n")

	source := NewCSVSource(datasetConfig(path), nil)
	reviews, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected 1 review, got %d", len(reviews))
	}
}

func TestCSVSourceExtraColumns(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "id,review,sentiment\n17,decent,positive\n18,grim,negative\n")

	source := NewCSVSource(datasetConfig(path), nil)
	reviews, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(reviews) != 2 || reviews[0].Text != "decent" {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}
}

func TestCSVSourceCustomDelimiter(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "review;sentiment\nfine, truly;positive\n")

	cfg := datasetConfig(path)
	cfg.Delimiter = ";"

	source := NewCSVSource(cfg, nil)
	reviews, err := source.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Text != "fine, truly" {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}
}

func TestCSVSourceMissingFile(t *testing.T) {
	t.Parallel()

	source := NewCSVSource(datasetConfig(filepath.Join(t.TempDir(), "absent.csv")), nil)
	if _, err := source.Load(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestCSVSourceMissingColumns(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "title,body\na,b\n")

	source := NewCSVSource(datasetConfig(path), nil)
	if _, err := source.Load(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestCSVSourceNoUsableRows(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "review,sentiment\n,\n")

	source := NewCSVSource(datasetConfig(path), nil)
	if _, err := source.Load(context.Background()); !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("expected ErrDataUnavailable, got %v", err)
	}
}

func TestCSVSourceHonorsContext(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "review,sentiment\ngreat,positive\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := NewCSVSource(datasetConfig(path), nil)
	if _, err := source.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
