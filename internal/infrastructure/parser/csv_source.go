package parser

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"ReviewSentiment/internal/config"
	"ReviewSentiment/internal/domain"
	"ReviewSentiment/internal/ports"
)

// ErrDataUnavailable reports an unreadable source or a source with no usable
// rows left after filtering.
var ErrDataUnavailable = errors.New("review dataset unavailable")

// CSVSource reads labeled reviews from a delimited table. Malformed rows and
// rows with empty fields are skipped; only a fully unusable source fails the
// load.
type CSVSource struct {
	path        string
	delimiter   rune
	textColumn  string
	labelColumn string
	logger      *slog.Logger
}

var _ ports.ReviewSource = (*CSVSource)(nil)

// NewCSVSource wires the dataset configuration into a file-backed source.
func NewCSVSource(cfg config.DatasetConfig, logger *slog.Logger) *CSVSource {
	return &CSVSource{
		path:        cfg.Path,
		delimiter:   cfg.DelimiterRune(),
		textColumn:  cfg.TextColumn,
		labelColumn: cfg.LabelColumn,
		logger:      logger,
	}
}

// Load reads the whole table and returns every usable review in file order.
func (s *CSVSource) Load(ctx context.Context) ([]domain.Review, error) {
	file, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = s.delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	textIdx, labelIdx, err := s.resolveColumns(reader)
	if err != nil {
		return nil, err
	}

	var (
		reviews []domain.Review
		skipped int
		row     = 1
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++

		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped++
				s.debug("skip malformed row", "row", row, "error", err)
				continue
			}
			return nil, fmt.Errorf("%w: read row %d: %w", ErrDataUnavailable, row, err)
		}

		if len(record) <= textIdx || len(record) <= labelIdx {
			skipped++
			s.debug("skip short row", "row", row, "fields", len(record))
			continue
		}

		text := strings.TrimSpace(record[textIdx])
		label := strings.TrimSpace(record[labelIdx])
		if text == "" || label == "" {
			skipped++
			s.debug("skip row with missing value", "row", row)
			continue
		}

		reviews = append(reviews, domain.Review{Text: text, Label: label})
	}

	if len(reviews) == 0 {
		return nil, fmt.Errorf("%w: no usable rows in %s", ErrDataUnavailable, s.path)
	}

	s.debug("dataset loaded", "path", s.path, "rows", len(reviews), "skipped", skipped)
	return reviews, nil
}

// resolveColumns locates the text and label columns in the header row.
func (s *CSVSource) resolveColumns(reader *csv.Reader) (textIdx, labelIdx int, err error) {
	header, err := reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: read header: %w", ErrDataUnavailable, err)
	}

	textIdx, labelIdx = -1, -1
	for i, name := range header {
		switch {
		case strings.EqualFold(strings.TrimSpace(name), s.textColumn):
			textIdx = i
		case strings.EqualFold(strings.TrimSpace(name), s.labelColumn):
			labelIdx = i
		}
	}

	if textIdx < 0 || labelIdx < 0 {
		return 0, 0, fmt.Errorf("%w: columns %q and %q not found in header", ErrDataUnavailable, s.textColumn, s.labelColumn)
	}

	return textIdx, labelIdx, nil
}

func (s *CSVSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
