package quiz

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fixtureFile is the on-disk shape for offline/dev definitions.
type fixtureFile struct {
	Quizzes []Quiz `yaml:"quizzes"`
}

// NewFixtureStore loads quiz definitions from a YAML file into an
// in-memory store. Writes land in memory only; the file is never touched.
// Meant for offline mode and local development.
func NewFixtureStore(path string) (Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture store: %w", err)
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture store: parse %s: %w", path, err)
	}
	mem := NewInMemoryStore()
	ctx := context.Background()
	for _, q := range f.Quizzes {
		if err := mem.PutQuiz(ctx, q); err != nil {
			return nil, err
		}
	}
	return mem, nil
}
