package textproc

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Reserved sequence ids. Real tokens are assigned ids from FirstTokenID up,
// so neither the pad nor the out-of-vocabulary sentinel ever collides with
// a vocabulary entry.
const (
	PadID        = 0
	OOVID        = 1
	FirstTokenID = 2
)

// ErrInvalidVocabSize reports a non-positive vocabulary cap.
var ErrInvalidVocabSize = errors.New("invalid vocabulary size")

// Vocabulary maps tokens to stable integer ids. It is immutable after
// FitVocabulary and safe for concurrent read-only use.
type Vocabulary struct {
	ids map[string]int
}

// FitVocabulary builds a capped vocabulary over the whitespace tokens of the
// normalized corpus. The maxVocab most frequent tokens are kept, ties broken
// by first appearance in the corpus, and ids are assigned consecutively from
// FirstTokenID in descending frequency (then first-seen) order. An empty
// corpus yields an empty vocabulary; every later lookup maps to OOVID.
func FitVocabulary(corpus []string, maxVocab int) (*Vocabulary, error) {
	if maxVocab <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVocabSize, maxVocab)
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for _, text := range corpus {
		for _, token := range strings.Fields(text) {
			if _, ok := counts[token]; !ok {
				firstSeen[token] = len(firstSeen)
			}
			counts[token]++
		}
	}

	tokens := make([]string, 0, len(counts))
	for token := range counts {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return firstSeen[tokens[i]] < firstSeen[tokens[j]]
	})

	if len(tokens) > maxVocab {
		tokens = tokens[:maxVocab]
	}

	ids := make(map[string]int, len(tokens))
	for i, token := range tokens {
		ids[token] = FirstTokenID + i
	}

	return &Vocabulary{ids: ids}, nil
}

// Size returns the number of real tokens retained by the fit.
func (v *Vocabulary) Size() int {
	return len(v.ids)
}

// ID looks up the id assigned to token; ok is false for out-of-vocabulary
// tokens.
func (v *Vocabulary) ID(token string) (int, bool) {
	id, ok := v.ids[token]
	return id, ok
}

// Encode maps a normalized text to a fixed-length id sequence. Unknown
// tokens become OOVID; sequences longer than maxLen keep only the last
// maxLen ids, shorter ones are left-padded with PadID so content stays
// right-aligned. Encode never fails: an empty text yields an all-pad
// sequence.
func (v *Vocabulary) Encode(text string, maxLen int) []int {
	if maxLen <= 0 {
		return nil
	}

	tokens := strings.Fields(text)

	seq := make([]int, 0, len(tokens))
	for _, token := range tokens {
		id, ok := v.ids[token]
		if !ok {
			id = OOVID
		}
		seq = append(seq, id)
	}

	if len(seq) >= maxLen {
		return seq[len(seq)-maxLen:]
	}

	padded := make([]int, maxLen)
	copy(padded[maxLen-len(seq):], seq)
	return padded
}
