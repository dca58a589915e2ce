package quiz

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu      sync.RWMutex
	quizzes map[int64]Quiz
	weights map[int64][]Weight // option ID -> rows
}

func NewInMemoryStore() Store {
	return &memoryStore{
		quizzes: map[int64]Quiz{},
		weights: map[int64][]Weight{},
	}
}

func (m *memoryStore) PutQuiz(_ context.Context, q Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quizzes[q.ID] = q
	for _, w := range q.Weights {
		m.upsertWeightLocked(w)
	}
	return nil
}

func (m *memoryStore) GetQuiz(_ context.Context, id int64) (Quiz, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	q, ok := m.quizzes[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return q, nil
}

func (m *memoryStore) PutWeight(_ context.Context, w Weight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertWeightLocked(w)
	return nil
}

func (m *memoryStore) upsertWeightLocked(w Weight) {
	w.Weight = ClampWeight(w.Weight)
	rows := m.weights[w.OptionID]
	for i, r := range rows {
		if r.TargetKind == w.TargetKind && r.TargetID == w.TargetID {
			rows[i] = w
			return
		}
	}
	m.weights[w.OptionID] = append(rows, w)
}

func (m *memoryStore) WeightsForOptions(_ context.Context, optionIDs []int64) ([]Weight, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Weight
	for _, id := range optionIDs {
		out = append(out, m.weights[id]...)
	}
	return out, nil
}
