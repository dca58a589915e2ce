package engine

import "github.com/quizfunnel/quizfunnel/internal/quiz"

// Matches evaluates one conditional rule against a recorded answer.
// Pure: no side effects, no I/O.
//
// Scalar answer (single choice): equals is an ID match, not_equals its
// negation, and contains is treated as equals — a single value contains
// itself. Set answer (multi choice): equals holds only for the exact
// singleton {if_option}, not_equals is its negation, contains is plain
// membership regardless of the other members. A nil answer (nothing
// recorded for the rule's source question) never matches.
func Matches(r quiz.Rule, ans *Answer) bool {
	if ans == nil || ans.Text != "" {
		return false
	}
	if len(ans.OptionIDs) > 0 {
		return matchSet(r, ans.OptionIDs)
	}
	if ans.OptionID != 0 {
		return matchScalar(r, ans.OptionID)
	}
	return false
}

func matchScalar(r quiz.Rule, id int64) bool {
	switch r.Compare {
	case quiz.CompareEquals, quiz.CompareContains:
		return id == r.IfOptionID
	case quiz.CompareNotEquals:
		return id != r.IfOptionID
	}
	return false
}

func matchSet(r quiz.Rule, ids []int64) bool {
	switch r.Compare {
	case quiz.CompareEquals:
		return len(ids) == 1 && ids[0] == r.IfOptionID
	case quiz.CompareNotEquals:
		return !(len(ids) == 1 && ids[0] == r.IfOptionID)
	case quiz.CompareContains:
		for _, id := range ids {
			if id == r.IfOptionID {
				return true
			}
		}
		return false
	}
	return false
}
