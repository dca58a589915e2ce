package engine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/quizfunnel/quizfunnel/internal/quiz"
)

// DefinitionSource supplies quiz definitions, read-only.
type DefinitionSource interface {
	GetQuiz(ctx context.Context, id int64) (quiz.Quiz, error)
}

// SessionStore holds live session state between requests. Implementations
// must hand out copies; the controller mutates what it gets back.
type SessionStore interface {
	Put(ctx context.Context, st *State) error
	Get(ctx context.Context, id string) (*State, error)
	Delete(ctx context.Context, id string) error
}

// Recorder receives analytics events. All calls are best-effort: a
// failing recorder never fails the respondent's request.
type Recorder interface {
	QuizStarted(ctx context.Context, quizID int64) error
	QuizCompleted(ctx context.Context, quizID int64) error
	LogResponses(ctx context.Context, sessionID string, quizID int64, email string, answers map[int64]Answer) error
}

// Step is the controller's answer to "where is the respondent now".
// Question is nil once the session is completed.
type Step struct {
	State    *State         `json:"state"`
	Question *quiz.Question `json:"question,omitempty"`
}

// Controller orchestrates one respondent run: start, answer loop,
// completion, scoring. It holds no session state itself.
type Controller struct {
	defs     DefinitionSource
	weights  WeightSource
	catalog  Catalog
	sessions SessionStore
	recorder Recorder // optional
	maxSteps int
}

func NewController(defs DefinitionSource, weights WeightSource, cat Catalog, sessions SessionStore) *Controller {
	return &Controller{
		defs:     defs,
		weights:  weights,
		catalog:  cat,
		sessions: sessions,
		maxSteps: DefaultMaxSteps,
	}
}

// WithRecorder attaches an analytics recorder.
func (c *Controller) WithRecorder(r Recorder) *Controller {
	c.recorder = r
	return c
}

// WithMaxSteps overrides the navigator's traversal guard.
func (c *Controller) WithMaxSteps(n int) *Controller {
	c.maxSteps = n
	return c
}

func (c *Controller) definition(ctx context.Context, quizID int64) (*Definition, error) {
	q, err := c.defs.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return Compile(q)
}

func (c *Controller) load(ctx context.Context, sessionID string) (*State, *Definition, error) {
	st, err := c.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	def, err := c.definition(ctx, st.QuizID)
	if err != nil {
		return nil, nil, err
	}
	return st, def, nil
}

// Start creates a session positioned at the first question.
func (c *Controller) Start(ctx context.Context, quizID int64) (Step, error) {
	def, err := c.definition(ctx, quizID)
	if err != nil {
		return Step{}, err
	}
	st := &State{
		ID:        uuid.NewString(),
		QuizID:    quizID,
		Answers:   map[int64]Answer{},
		StartedAt: time.Now().Unix(),
	}
	NewNavigator(def).Start(st)
	if err := c.sessions.Put(ctx, st); err != nil {
		return Step{}, err
	}
	if c.recorder != nil {
		if err := c.recorder.QuizStarted(ctx, quizID); err != nil {
			log.Printf("recorder: quiz %d started: %v", quizID, err)
		}
	}
	return c.step(st, def), nil
}

// SubmitAnswer validates and records an answer for one question.
func (c *Controller) SubmitAnswer(ctx context.Context, sessionID string, questionID int64, raw RawAnswer) (Step, error) {
	st, def, err := c.load(ctx, sessionID)
	if err != nil {
		return Step{}, err
	}
	if err := def.RecordAnswer(st, questionID, raw); err != nil {
		return c.step(st, def), err
	}
	if err := c.sessions.Put(ctx, st); err != nil {
		return Step{}, err
	}
	return c.step(st, def), nil
}

// Advance moves to the next question, or completes the traversal.
func (c *Controller) Advance(ctx context.Context, sessionID string) (Step, error) {
	st, def, err := c.load(ctx, sessionID)
	if err != nil {
		return Step{}, err
	}
	nav := NewNavigator(def).WithMaxSteps(c.maxSteps)
	if err := nav.Advance(st); err != nil {
		return c.step(st, def), err
	}
	if err := c.sessions.Put(ctx, st); err != nil {
		return Step{}, err
	}
	return c.step(st, def), nil
}

// Retreat steps back along the traversal path.
func (c *Controller) Retreat(ctx context.Context, sessionID string) (Step, error) {
	st, def, err := c.load(ctx, sessionID)
	if err != nil {
		return Step{}, err
	}
	if err := NewNavigator(def).Retreat(st); err != nil {
		return c.step(st, def), err
	}
	if err := c.sessions.Put(ctx, st); err != nil {
		return Step{}, err
	}
	return c.step(st, def), nil
}

// Complete scores a finished session. Every required question on the
// traversed path must hold an answer — back navigation after a branch
// change can leave one unanswered even though each Advance validated the
// question it left. A *CatalogError comes back alongside a usable
// (possibly shortened) result; callers should log it and keep going.
func (c *Controller) Complete(ctx context.Context, sessionID string) (Result, error) {
	st, def, err := c.load(ctx, sessionID)
	if err != nil {
		return Result{}, err
	}
	if !st.Completed {
		return Result{}, &NavigationError{Reason: "quiz not finished"}
	}
	for _, idx := range st.Path {
		q := def.QuestionAt(idx)
		if !answered(st, q) {
			return Result{}, &ValidationError{
				Field:  fmt.Sprintf("question_%d", q.ID),
				Reason: "required question left unanswered on the traversed path",
			}
		}
	}

	res, err := Score(ctx, st.Answers, c.weights, c.catalog)
	var catErr *CatalogError
	if err != nil && !errors.As(err, &catErr) {
		return Result{}, err
	}

	if c.recorder != nil {
		if rerr := c.recorder.LogResponses(ctx, st.ID, st.QuizID, st.Email, st.Answers); rerr != nil {
			log.Printf("recorder: session %s responses: %v", st.ID, rerr)
		}
		if rerr := c.recorder.QuizCompleted(ctx, st.QuizID); rerr != nil {
			log.Printf("recorder: quiz %d completed: %v", st.QuizID, rerr)
		}
	}
	return res, err
}

func (c *Controller) step(st *State, def *Definition) Step {
	if st.Completed {
		return Step{State: st}
	}
	q := def.QuestionAt(st.Current)
	return Step{State: st, Question: &q}
}
