package usecase

import (
	"math/rand/v2"

	"github.com/kirillkom/portfolio-feed/internal/core/domain"
)

// ShuffleFunc has the signature of rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// Sampler draws random subsets of project records.
type Sampler struct {
	shuffle ShuffleFunc
}

// NewSampler uses shuffle as its randomness source; nil means process-level randomness.
func NewSampler(shuffle ShuffleFunc) *Sampler {
	if shuffle == nil {
		shuffle = rand.Shuffle
	}
	return &Sampler{shuffle: shuffle}
}

var defaultSampler = NewSampler(nil)

func Sample(records []domain.ProjectRecord, size int) []domain.ProjectRecord {
	return defaultSampler.Sample(records, size)
}

// Sample returns a shuffled copy of records truncated to min(size, len(records)).
// The input slice is never modified.
func (s *Sampler) Sample(records []domain.ProjectRecord, size int) []domain.ProjectRecord {
	if size <= 0 || len(records) == 0 {
		return []domain.ProjectRecord{}
	}
	out := make([]domain.ProjectRecord, len(records))
	copy(out, records)
	s.shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if size < len(out) {
		out = out[:size:size]
	}
	return out
}
