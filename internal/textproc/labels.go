package textproc

import (
	"errors"
	"fmt"
)

// ErrInvalidLabel reports a sentiment label outside the recognized pair.
var ErrInvalidLabel = errors.New("invalid sentiment label")

// EncodeLabel maps exactly "positive" to 1 and "negative" to 0. Any other
// value is a contract violation surfaced as ErrInvalidLabel; the pipeline
// fails loudly instead of coercing or dropping the record.
func EncodeLabel(label string) (int, error) {
	switch label {
	case "positive":
		return 1, nil
	case "negative":
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
}
