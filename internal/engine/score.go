package engine

import (
	"context"
	"sort"

	"github.com/quizfunnel/quizfunnel/internal/catalog"
	"github.com/quizfunnel/quizfunnel/internal/quiz"
)

// MaxRecommendations caps the result list.
const MaxRecommendations = 6

// WeightSource supplies the weight rows for a batch of answer options.
type WeightSource interface {
	WeightsForOptions(ctx context.Context, optionIDs []int64) ([]quiz.Weight, error)
}

// Catalog resolves item existence, visibility and display metadata.
type Catalog interface {
	GetItems(ctx context.Context, ids []int64) (map[int64]catalog.Item, error)
}

// Recommendation is one ranked entry with the catalog's display fields
// passed through untouched.
type Recommendation struct {
	ItemID    int64   `json:"id"`
	Score     float64 `json:"score"`
	Name      string  `json:"name"`
	Price     string  `json:"price"`
	ImageURL  string  `json:"image"`
	Permalink string  `json:"permalink"`
}

// Result is the ranked, deduplicated, capped recommendation list.
// CategoryScores is accumulated alongside but deliberately never merged
// into the item ranking: the source system computed category weights and
// ignored them, and that behavior is preserved pending a product call.
type Result struct {
	Items          []Recommendation  `json:"items"`
	CategoryScores map[int64]float64 `json:"category_scores,omitempty"`
}

// Score turns a session's choice answers into a ranked item list.
//
// Weight rows are fetched in one call, summed per item (additive across
// options and across multiple rows for the same item), ranked by score
// descending with item-ID-ascending tie-break, capped, then confirmed
// against the catalog in one call. Items the catalog cannot confirm are
// dropped without backfilling, so the list may come back shorter than
// the cap. Empty answers yield an empty result, never an error; a
// catalog failure is reported as a *CatalogError alongside the (then
// empty) result rather than aborting.
func Score(ctx context.Context, answers map[int64]Answer, weights WeightSource, cat Catalog) (Result, error) {
	optionIDs := flattenChoices(answers)
	if len(optionIDs) == 0 {
		return Result{}, nil
	}

	rows, err := weights.WeightsForOptions(ctx, optionIDs)
	if err != nil {
		return Result{}, err
	}

	itemTotals := map[int64]float64{}
	catTotals := map[int64]float64{}
	for _, w := range rows {
		switch w.TargetKind {
		case quiz.TargetItem:
			itemTotals[w.TargetID] += w.Weight
		case quiz.TargetCategory:
			catTotals[w.TargetID] += w.Weight
		}
	}

	res := Result{}
	if len(catTotals) > 0 {
		res.CategoryScores = catTotals
	}
	if len(itemTotals) == 0 {
		return res, nil
	}

	type scored struct {
		id    int64
		score float64
	}
	ranked := make([]scored, 0, len(itemTotals))
	for id, s := range itemTotals {
		ranked = append(ranked, scored{id, s})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].id < ranked[j].id
	})
	if len(ranked) > MaxRecommendations {
		ranked = ranked[:MaxRecommendations]
	}

	ids := make([]int64, len(ranked))
	for i, r := range ranked {
		ids[i] = r.id
	}
	items, err := cat.GetItems(ctx, ids)
	if err != nil {
		// Degrade: nothing could be confirmed, so nothing is returned,
		// but the session still completes.
		return res, &CatalogError{Err: err}
	}

	for _, r := range ranked {
		it, ok := items[r.id]
		if !ok || !it.Visible {
			continue
		}
		res.Items = append(res.Items, Recommendation{
			ItemID:    r.id,
			Score:     r.score,
			Name:      it.Name,
			Price:     it.Price,
			ImageURL:  it.ImageURL,
			Permalink: it.Permalink,
		})
	}
	return res, nil
}

// flattenChoices collects the option IDs from single- and multi-choice
// answers. Text and email answers contribute nothing.
func flattenChoices(answers map[int64]Answer) []int64 {
	var out []int64
	for _, a := range answers {
		if a.OptionID != 0 {
			out = append(out, a.OptionID)
		}
		out = append(out, a.OptionIDs...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
