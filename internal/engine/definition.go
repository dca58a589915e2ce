package engine

import (
	"sort"

	"github.com/quizfunnel/quizfunnel/internal/quiz"
)

// Definition is a compiled quiz: questions in position order with the
// lookup tables the navigator and aggregator need. Compile is the single
// place authoring data is checked, so a DefinitionError here aborts the
// session before any answer is taken.
type Definition struct {
	Quiz      quiz.Quiz
	questions []quiz.Question        // sorted by Position
	indexByID map[int64]int          // question ID -> slice index
	options   map[int64]map[int64]struct{} // question ID -> owned option IDs
	rules     map[int64][]quiz.Rule  // if-question ID -> rules, ascending rule ID
}

func Compile(q quiz.Quiz) (*Definition, error) {
	d := &Definition{
		Quiz:      q,
		questions: append([]quiz.Question(nil), q.Questions...),
		indexByID: make(map[int64]int, len(q.Questions)),
		options:   make(map[int64]map[int64]struct{}, len(q.Questions)),
		rules:     map[int64][]quiz.Rule{},
	}
	sort.Slice(d.questions, func(i, j int) bool {
		return d.questions[i].Position < d.questions[j].Position
	})
	if len(d.questions) == 0 {
		return nil, &DefinitionError{Kind: "quiz", ID: q.ID, Msg: "no questions"}
	}
	for i, question := range d.questions {
		if i > 0 && d.questions[i-1].Position == question.Position {
			return nil, &DefinitionError{Kind: "question", ID: question.ID, Msg: "duplicate position"}
		}
		if _, dup := d.indexByID[question.ID]; dup {
			return nil, &DefinitionError{Kind: "question", ID: question.ID, Msg: "duplicate id"}
		}
		d.indexByID[question.ID] = i
		owned := make(map[int64]struct{}, len(question.Options))
		for _, o := range question.Options {
			owned[o.ID] = struct{}{}
		}
		d.options[question.ID] = owned
	}
	for _, r := range q.Rules {
		src, ok := d.indexByID[r.IfQuestionID]
		if !ok {
			return nil, &DefinitionError{Kind: "rule", ID: r.ID, Msg: "if_question not in quiz"}
		}
		if _, ok := d.indexByID[r.ThenQuestionID]; !ok {
			return nil, &DefinitionError{Kind: "rule", ID: r.ID, Msg: "then_question not in quiz"}
		}
		if _, ok := d.options[d.questions[src].ID][r.IfOptionID]; !ok {
			return nil, &DefinitionError{Kind: "rule", ID: r.ID, Msg: "if_option not owned by if_question"}
		}
		d.rules[r.IfQuestionID] = append(d.rules[r.IfQuestionID], r)
	}
	// First-match evaluation is by ascending rule ID (creation order).
	for id := range d.rules {
		rs := d.rules[id]
		sort.Slice(rs, func(i, j int) bool { return rs[i].ID < rs[j].ID })
	}
	return d, nil
}

// Len is the number of questions in position order.
func (d *Definition) Len() int { return len(d.questions) }

// QuestionAt returns the question at slice index i (position order).
func (d *Definition) QuestionAt(i int) quiz.Question { return d.questions[i] }

// QuestionByID returns the question and whether it exists.
func (d *Definition) QuestionByID(id int64) (quiz.Question, bool) {
	i, ok := d.indexByID[id]
	if !ok {
		return quiz.Question{}, false
	}
	return d.questions[i], true
}

func (d *Definition) ownsOption(questionID, optionID int64) bool {
	_, ok := d.options[questionID][optionID]
	return ok
}

func (d *Definition) rulesFor(questionID int64) []quiz.Rule { return d.rules[questionID] }
