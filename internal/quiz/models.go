package quiz

// Question types.
const (
	TypeSingleChoice = "single_choice"
	TypeMultiChoice  = "multi_choice"
	TypeText         = "text"
	TypeEmail        = "email"
)

// Comparison operators for conditional rules.
const (
	CompareEquals    = "equals"
	CompareNotEquals = "not_equals"
	CompareContains  = "contains"
)

// Weight target kinds.
const (
	TargetItem     = "item"
	TargetCategory = "category"
)

// Authoring bounds for a single recommendation weight.
const (
	MinWeight = 0.1
	MaxWeight = 10.0
)

type AnswerOption struct {
	ID         int64  `json:"id" yaml:"id"`
	QuestionID int64  `json:"question_id" yaml:"question_id"`
	Text       string `json:"text,omitempty" yaml:"text,omitempty"`
	Position   int    `json:"position" yaml:"position"` // display order only, never used for branching
}

type Question struct {
	ID       int64          `json:"id" yaml:"id"`
	QuizID   int64          `json:"quiz_id" yaml:"quiz_id"`
	Text     string         `json:"text,omitempty" yaml:"text,omitempty"`
	Type     string         `json:"type" yaml:"type"`
	Position int            `json:"position" yaml:"position"` // unique within a quiz; defines the static successor order
	Required bool           `json:"required" yaml:"required"`
	Options  []AnswerOption `json:"options,omitempty" yaml:"options,omitempty"`
}

// Rule jumps to ThenQuestionID when the recorded answer for IfQuestionID
// satisfies Compare against IfOptionID. When several rules fire for the
// same question, the lowest rule ID wins; there is no priority field, so
// authoring tools must rely on creation order.
type Rule struct {
	ID             int64  `json:"id" yaml:"id"`
	QuizID         int64  `json:"quiz_id" yaml:"quiz_id"`
	IfQuestionID   int64  `json:"if_question_id" yaml:"if_question_id"`
	IfOptionID     int64  `json:"if_option_id" yaml:"if_option_id"`
	ThenQuestionID int64  `json:"then_question_id" yaml:"then_question_id"`
	Compare        string `json:"compare" yaml:"compare"`
}

// Weight is one authored contribution from choosing an answer option
// toward an item or category score. Kept as a typed tuple so bad
// authoring data fails at the store boundary, not mid-scoring.
type Weight struct {
	OptionID   int64   `json:"option_id" yaml:"option_id"`
	TargetKind string  `json:"target_kind" yaml:"target_kind"` // item|category
	TargetID   int64   `json:"target_id" yaml:"target_id"`
	Weight     float64 `json:"weight" yaml:"weight"`
}

type Quiz struct {
	ID        int64      `json:"id" yaml:"id"`
	Title     string     `json:"title" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
	Rules     []Rule     `json:"rules,omitempty" yaml:"rules,omitempty"`
	Weights   []Weight   `json:"weights,omitempty" yaml:"weights,omitempty"`
	CreatedAt int64      `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// ClampWeight pins w into the authoring bounds, matching what the editor
// UI enforces so imported data cannot skew rankings.
func ClampWeight(w float64) float64 {
	if w < MinWeight {
		return MinWeight
	}
	if w > MaxWeight {
		return MaxWeight
	}
	return w
}
