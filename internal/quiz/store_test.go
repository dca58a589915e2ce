package quiz_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/quizfunnel/quizfunnel/internal/quiz"
)

func TestMemoryStore_PutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := quiz.NewInMemoryStore()

	q := quiz.Quiz{
		ID:    7,
		Title: "Find your gear",
		Questions: []quiz.Question{
			{ID: 1, QuizID: 7, Type: quiz.TypeSingleChoice, Position: 1, Required: true, Options: []quiz.AnswerOption{
				{ID: 101, QuestionID: 1, Text: "Trail"},
			}},
		},
	}
	if err := store.PutQuiz(ctx, q); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.GetQuiz(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Find your gear" || len(got.Questions) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	if _, err := store.GetQuiz(ctx, 404); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_WeightUpsertAndClamp(t *testing.T) {
	ctx := context.Background()
	store := quiz.NewInMemoryStore()

	if err := store.PutWeight(ctx, quiz.Weight{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 9, Weight: 3.0}); err != nil {
		t.Fatalf("put: %v", err)
	}
	// Same (option, kind, target) tuple replaces, never duplicates.
	if err := store.PutWeight(ctx, quiz.Weight{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 9, Weight: 99.0}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	rows, err := store.WeightsForOptions(ctx, []int64{101})
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected upsert to replace, got %d rows", len(rows))
	}
	if rows[0].Weight != quiz.MaxWeight {
		t.Fatalf("expected clamp to %v, got %v", quiz.MaxWeight, rows[0].Weight)
	}

	if err := store.PutWeight(ctx, quiz.Weight{OptionID: 102, TargetKind: quiz.TargetCategory, TargetID: 2, Weight: 0.001}); err != nil {
		t.Fatalf("put: %v", err)
	}
	rows, _ = store.WeightsForOptions(ctx, []int64{102})
	if rows[0].Weight != quiz.MinWeight {
		t.Fatalf("expected clamp to %v, got %v", quiz.MinWeight, rows[0].Weight)
	}
}

func TestMemoryStore_WeightsForOptionsBatches(t *testing.T) {
	ctx := context.Background()
	store := quiz.NewInMemoryStore()
	for _, w := range []quiz.Weight{
		{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 1, Weight: 1.0},
		{OptionID: 102, TargetKind: quiz.TargetItem, TargetID: 2, Weight: 2.0},
		{OptionID: 103, TargetKind: quiz.TargetItem, TargetID: 3, Weight: 3.0},
	} {
		if err := store.PutWeight(ctx, w); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	rows, err := store.WeightsForOptions(ctx, []int64{101, 103})
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows for the requested options, got %d", len(rows))
	}
	for _, r := range rows {
		if r.OptionID == 102 {
			t.Fatalf("unrequested option leaked into the batch")
		}
	}
}

const fixtureYAML = `quizzes:
  - id: 7
    title: Find your gear
    questions:
      - id: 1
        quiz_id: 7
        type: single_choice
        position: 1
        required: true
        options:
          - id: 101
            question_id: 1
            text: Trail
          - id: 102
            question_id: 1
            text: Road
      - id: 2
        quiz_id: 7
        type: email
        position: 2
        required: true
    rules:
      - id: 1
        quiz_id: 7
        if_question_id: 1
        if_option_id: 101
        then_question_id: 2
        compare: equals
    weights:
      - option_id: 101
        target_kind: item
        target_id: 500
        weight: 2.5
`

func TestFixtureStore_LoadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quizzes.yaml")
	if err := os.WriteFile(path, []byte(fixtureYAML), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store, err := quiz.NewFixtureStore(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()
	q, err := store.GetQuiz(ctx, 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(q.Questions) != 2 || len(q.Rules) != 1 {
		t.Fatalf("fixture not fully parsed: %d questions, %d rules", len(q.Questions), len(q.Rules))
	}
	if q.Rules[0].IfOptionID != 101 || q.Rules[0].Compare != quiz.CompareEquals {
		t.Fatalf("rule fields mangled: %+v", q.Rules[0])
	}

	rows, err := store.WeightsForOptions(ctx, []int64{101})
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if len(rows) != 1 || rows[0].TargetID != 500 || rows[0].Weight != 2.5 {
		t.Fatalf("fixture weights not loaded: %+v", rows)
	}
}

func TestFixtureStore_Errors(t *testing.T) {
	if _, err := quiz.NewFixtureStore(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("quizzes: {not a list"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := quiz.NewFixtureStore(bad); err == nil {
		t.Fatalf("expected parse error")
	}
}
