package engine_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/quizfunnel/quizfunnel/internal/catalog"
	"github.com/quizfunnel/quizfunnel/internal/engine"
	"github.com/quizfunnel/quizfunnel/internal/quiz"
)

type fakeWeights struct {
	rows []quiz.Weight
}

func (f *fakeWeights) WeightsForOptions(_ context.Context, optionIDs []int64) ([]quiz.Weight, error) {
	want := map[int64]bool{}
	for _, id := range optionIDs {
		want[id] = true
	}
	var out []quiz.Weight
	for _, w := range f.rows {
		if want[w.OptionID] {
			out = append(out, w)
		}
	}
	return out, nil
}

type failingCatalog struct{}

func (failingCatalog) GetItems(context.Context, []int64) (map[int64]catalog.Item, error) {
	return nil, errors.New("catalog unreachable")
}

func seedCatalog(ids ...int64) *catalog.MemoryStore {
	c := catalog.NewInMemoryStore()
	for _, id := range ids {
		c.Put(catalog.Item{ID: id, Name: fmt.Sprintf("Item %d", id), Price: "$9.99", Visible: true})
	}
	return c
}

func TestScore_AdditiveAcrossRowsAndOptions(t *testing.T) {
	weights := &fakeWeights{rows: []quiz.Weight{
		{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 100, Weight: 3.0},
		{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 100, Weight: 2.0},
		{OptionID: 102, TargetKind: quiz.TargetItem, TargetID: 100, Weight: 1.0},
	}}
	answers := map[int64]engine.Answer{1: {OptionID: 101}}

	res, err := engine.Score(context.Background(), answers, weights, seedCatalog(100))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(res.Items) != 1 {
		t.Fatalf("expected one entry, got %d", len(res.Items))
	}
	if res.Items[0].ItemID != 100 || res.Items[0].Score != 5.0 {
		t.Fatalf("expected item 100 at 5.0, got %d at %v", res.Items[0].ItemID, res.Items[0].Score)
	}
}

func TestScore_OrderOfAnswersDoesNotMatter(t *testing.T) {
	weights := &fakeWeights{rows: []quiz.Weight{
		{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 100, Weight: 2.0},
		{OptionID: 201, TargetKind: quiz.TargetItem, TargetID: 100, Weight: 1.5},
		{OptionID: 201, TargetKind: quiz.TargetItem, TargetID: 200, Weight: 4.0},
	}}
	cat := seedCatalog(100, 200)

	ab := map[int64]engine.Answer{1: {OptionID: 101}, 2: {OptionID: 201}}
	ba := map[int64]engine.Answer{2: {OptionID: 201}, 1: {OptionID: 101}}

	resAB, err := engine.Score(context.Background(), ab, weights, cat)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	resBA, err := engine.Score(context.Background(), ba, weights, cat)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(resAB.Items) != len(resBA.Items) {
		t.Fatalf("result lengths differ: %d vs %d", len(resAB.Items), len(resBA.Items))
	}
	for i := range resAB.Items {
		if resAB.Items[i] != resBA.Items[i] {
			t.Fatalf("submission order changed the result at %d: %+v vs %+v", i, resAB.Items[i], resBA.Items[i])
		}
	}
}

func TestScore_EmptyAnswersYieldEmptyResult(t *testing.T) {
	res, err := engine.Score(context.Background(), map[int64]engine.Answer{}, &fakeWeights{}, seedCatalog())
	if err != nil {
		t.Fatalf("empty input must not error: %v", err)
	}
	if len(res.Items) != 0 {
		t.Fatalf("expected empty result, got %d items", len(res.Items))
	}

	// Text-only answers contribute nothing either.
	res, err = engine.Score(context.Background(), map[int64]engine.Answer{1: {Text: "hi@example.com"}}, &fakeWeights{}, seedCatalog())
	if err != nil || len(res.Items) != 0 {
		t.Fatalf("text answers must not score: %v, %d items", err, len(res.Items))
	}
}

func TestScore_CapAndVisibilityDropWithoutBackfill(t *testing.T) {
	// Eight items score positively, ranked 10..3 by weight.
	weights := &fakeWeights{}
	for i := int64(1); i <= 8; i++ {
		weights.rows = append(weights.rows, quiz.Weight{
			OptionID: 101, TargetKind: quiz.TargetItem, TargetID: i, Weight: float64(11 - i),
		})
	}
	cat := seedCatalog(1, 2, 3, 4, 5, 6, 7, 8)
	// The item ranked 4th is hidden.
	cat.Put(catalog.Item{ID: 4, Name: "Hidden", Visible: false})

	answers := map[int64]engine.Answer{1: {OptionID: 101}}
	res, err := engine.Score(context.Background(), answers, weights, cat)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// Cap trims 8 -> 6 (items 1..6), then the hidden 4th is dropped: 5 left.
	if len(res.Items) != 5 {
		t.Fatalf("expected 5 entries after cap and visibility drop, got %d", len(res.Items))
	}
	for i := 1; i < len(res.Items); i++ {
		if res.Items[i].Score > res.Items[i-1].Score {
			t.Fatalf("scores must be non-increasing: %+v", res.Items)
		}
	}
	for _, it := range res.Items {
		if it.ItemID == 4 {
			t.Fatalf("hidden item leaked into results")
		}
		if it.ItemID > 6 {
			t.Fatalf("dropped item backfilled from below the cap: %d", it.ItemID)
		}
	}
}

func TestScore_TieBreaksByItemIDAscending(t *testing.T) {
	weights := &fakeWeights{rows: []quiz.Weight{
		{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 9, Weight: 2.0},
		{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 3, Weight: 2.0},
		{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 6, Weight: 2.0},
	}}
	answers := map[int64]engine.Answer{1: {OptionID: 101}}
	res, err := engine.Score(context.Background(), answers, weights, seedCatalog(3, 6, 9))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	want := []int64{3, 6, 9}
	for i, id := range want {
		if res.Items[i].ItemID != id {
			t.Fatalf("tie-break order wrong: got %v at %d, want %v", res.Items[i].ItemID, i, id)
		}
	}
}

func TestScore_CategoryWeightsStaySeparate(t *testing.T) {
	weights := &fakeWeights{rows: []quiz.Weight{
		{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 100, Weight: 1.0},
		{OptionID: 101, TargetKind: quiz.TargetCategory, TargetID: 55, Weight: 9.0},
	}}
	answers := map[int64]engine.Answer{1: {OptionID: 101}}
	res, err := engine.Score(context.Background(), answers, weights, seedCatalog(100))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	// The category's 9.0 must not inflate or join the item ranking.
	if len(res.Items) != 1 || res.Items[0].ItemID != 100 || res.Items[0].Score != 1.0 {
		t.Fatalf("category weight leaked into item ranking: %+v", res.Items)
	}
	if res.CategoryScores[55] != 9.0 {
		t.Fatalf("category total missing: %+v", res.CategoryScores)
	}
}

func TestScore_CatalogOutageDegrades(t *testing.T) {
	weights := &fakeWeights{rows: []quiz.Weight{
		{OptionID: 101, TargetKind: quiz.TargetItem, TargetID: 100, Weight: 1.0},
	}}
	answers := map[int64]engine.Answer{1: {OptionID: 101}}
	res, err := engine.Score(context.Background(), answers, weights, failingCatalog{})
	var ce *engine.CatalogError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CatalogError, got %v", err)
	}
	if len(res.Items) != 0 {
		t.Fatalf("unconfirmed items must be dropped, got %d", len(res.Items))
	}
}

func TestScore_MultiChoiceFlattensAllSelections(t *testing.T) {
	weights := &fakeWeights{rows: []quiz.Weight{
		{OptionID: 301, TargetKind: quiz.TargetItem, TargetID: 100, Weight: 1.0},
		{OptionID: 302, TargetKind: quiz.TargetItem, TargetID: 100, Weight: 2.0},
		{OptionID: 303, TargetKind: quiz.TargetItem, TargetID: 200, Weight: 0.5},
	}}
	answers := map[int64]engine.Answer{3: {OptionIDs: []int64{301, 302, 303}}}
	res, err := engine.Score(context.Background(), answers, weights, seedCatalog(100, 200))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if res.Items[0].ItemID != 100 || res.Items[0].Score != 3.0 {
		t.Fatalf("expected item 100 at 3.0, got %+v", res.Items[0])
	}
	if res.Items[1].ItemID != 200 || res.Items[1].Score != 0.5 {
		t.Fatalf("expected item 200 at 0.5, got %+v", res.Items[1])
	}
}
