package engine

import "fmt"

// DefaultMaxSteps caps the traversal path length. Rule-induced cycles
// are the quiz author's responsibility (the engine never reroutes), but
// a runaway loop should end the session instead of running forever.
const DefaultMaxSteps = 100

// Navigator advances and retreats one session over a compiled quiz.
type Navigator struct {
	def      *Definition
	maxSteps int
}

func NewNavigator(def *Definition) *Navigator {
	return &Navigator{def: def, maxSteps: DefaultMaxSteps}
}

// WithMaxSteps overrides the traversal guard; n <= 0 disables it.
func (n *Navigator) WithMaxSteps(steps int) *Navigator {
	n.maxSteps = steps
	return n
}

// Start positions st at the first question in position order.
func (n *Navigator) Start(st *State) {
	st.Current = 0
	st.Path = []int{0}
	st.Completed = false
}

// Advance moves st to the next question. Conditional rules for the
// current question are evaluated in ascending rule-ID order against the
// recorded answer; the first match's target wins. With no match the
// successor in position order is used. Running past the last question
// completes the session.
func (n *Navigator) Advance(st *State) error {
	if st.Completed {
		return &NavigationError{AtEnd: true, Reason: "session already completed"}
	}
	cur := n.def.QuestionAt(st.Current)
	if !answered(st, cur) {
		return &ValidationError{
			Field:  fmt.Sprintf("question_%d", cur.ID),
			Reason: "this question requires an answer",
		}
	}
	if n.maxSteps > 0 && len(st.Path) >= n.maxSteps {
		return &NavigationError{Reason: fmt.Sprintf("traversal limit of %d questions reached", n.maxSteps)}
	}

	next := st.Current + 1 // static successor in position order
	if ans, ok := st.Answers[cur.ID]; ok {
		for _, r := range n.def.rulesFor(cur.ID) {
			if Matches(r, &ans) {
				// Compile guarantees the target exists.
				next = n.def.indexByID[r.ThenQuestionID]
				break
			}
		}
	}
	if next >= n.def.Len() {
		st.Completed = true
		return nil
	}
	st.Current = next
	// Revisits are allowed; only a duplicate push of the same index
	// (double-advance without an intervening retreat) is suppressed.
	if len(st.Path) == 0 || st.Path[len(st.Path)-1] != next {
		st.Path = append(st.Path, next)
	}
	return nil
}

// Retreat pops the most recent path entry and moves back to the one
// before it. Recorded answers are retained so the respondent sees their
// prior choice. From the first question it is a flagged no-op.
func (n *Navigator) Retreat(st *State) error {
	if st.Completed {
		return &NavigationError{AtEnd: true, Reason: "session already completed"}
	}
	if len(st.Path) <= 1 {
		return &NavigationError{AtStart: true, Reason: "already at the first question"}
	}
	st.Path = st.Path[:len(st.Path)-1]
	st.Current = st.Path[len(st.Path)-1]
	return nil
}
