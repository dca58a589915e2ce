package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/quizfunnel/quizfunnel/internal/quiz"
)

// RawAnswer is an unvalidated submission for one question.
type RawAnswer struct {
	OptionID  int64   `json:"option_id,omitempty"`
	OptionIDs []int64 `json:"option_ids,omitempty"`
	Text      string  `json:"text,omitempty"`
}

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RecordAnswer validates raw against the question's type and ownership
// rules, then stores it on st. Re-recording overwrites the prior value;
// branches already traversed are not re-evaluated until the respondent
// advances again. On validation failure st is unchanged.
func (d *Definition) RecordAnswer(st *State, questionID int64, raw RawAnswer) error {
	q, ok := d.QuestionByID(questionID)
	if !ok {
		return &DefinitionError{Kind: "question", ID: questionID, Msg: "not part of this quiz"}
	}
	field := fmt.Sprintf("question_%d", questionID)
	if st.Answers == nil {
		st.Answers = map[int64]Answer{}
	}

	switch q.Type {
	case quiz.TypeSingleChoice:
		if raw.OptionID == 0 || len(raw.OptionIDs) > 0 || raw.Text != "" {
			return &ValidationError{Field: field, Reason: "expected exactly one answer option"}
		}
		if !d.ownsOption(questionID, raw.OptionID) {
			return &ValidationError{Field: field, Reason: fmt.Sprintf("option %d does not belong to this question", raw.OptionID)}
		}
		st.Answers[questionID] = Answer{OptionID: raw.OptionID}

	case quiz.TypeMultiChoice:
		if raw.OptionID != 0 || raw.Text != "" {
			return &ValidationError{Field: field, Reason: "expected a set of answer options"}
		}
		ids := dedupe(raw.OptionIDs)
		if len(ids) == 0 {
			if q.Required {
				return &ValidationError{Field: field, Reason: "at least one option required"}
			}
			// Optional question, nothing picked: clear so rules fall
			// through to the static successor.
			delete(st.Answers, questionID)
			return nil
		}
		for _, id := range ids {
			if !d.ownsOption(questionID, id) {
				return &ValidationError{Field: field, Reason: fmt.Sprintf("option %d does not belong to this question", id)}
			}
		}
		st.Answers[questionID] = Answer{OptionIDs: ids}

	case quiz.TypeText, quiz.TypeEmail:
		text := strings.TrimSpace(raw.Text)
		if raw.OptionID != 0 || len(raw.OptionIDs) > 0 {
			return &ValidationError{Field: field, Reason: "expected free text"}
		}
		if text == "" {
			if q.Required {
				return &ValidationError{Field: field, Reason: "answer required"}
			}
			delete(st.Answers, questionID)
			return nil
		}
		if q.Type == quiz.TypeEmail {
			if !emailRe.MatchString(text) {
				return &ValidationError{Field: field, Reason: "invalid email address"}
			}
			st.Email = text
		}
		st.Answers[questionID] = Answer{Text: text}

	default:
		return &DefinitionError{Kind: "question", ID: questionID, Msg: "unknown question type " + q.Type}
	}
	return nil
}

// answered reports whether q's required-answer precondition holds: an
// answer of the right shape exists, or the question is optional.
func answered(st *State, q quiz.Question) bool {
	if !q.Required {
		return true
	}
	a, ok := st.Answers[q.ID]
	if !ok {
		return false
	}
	switch q.Type {
	case quiz.TypeSingleChoice:
		return a.OptionID != 0
	case quiz.TypeMultiChoice:
		return len(a.OptionIDs) > 0
	case quiz.TypeText, quiz.TypeEmail:
		return a.Text != ""
	}
	return false
}

func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
