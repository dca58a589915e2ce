package quiz

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a quiz ID has no definition.
var ErrNotFound = errors.New("quiz not found")

type Store interface {
	// PutQuiz inserts or replaces a full definition, including its weights.
	PutQuiz(ctx context.Context, q Quiz) error
	GetQuiz(ctx context.Context, id int64) (Quiz, error)

	// PutWeight upserts a single weight row atomically. The weight value
	// is clamped to [MinWeight, MaxWeight].
	PutWeight(ctx context.Context, w Weight) error

	// WeightsForOptions returns every weight row whose option ID is in
	// optionIDs. One call per scoring pass; implementations should batch.
	WeightsForOptions(ctx context.Context, optionIDs []int64) ([]Weight, error)
}
