package engine

// Answer is one recorded response. Exactly one field is set, by question
// type: OptionID for single choice, OptionIDs for multi choice, Text for
// text and email questions. Text answers never feed rule matching or
// scoring.
type Answer struct {
	OptionID  int64   `json:"option_id,omitempty"`
	OptionIDs []int64 `json:"option_ids,omitempty"`
	Text      string  `json:"text,omitempty"`
}

func (a Answer) hasOption(id int64) bool {
	if a.OptionID == id {
		return true
	}
	for _, v := range a.OptionIDs {
		if v == id {
			return true
		}
	}
	return false
}

// State is one respondent's run through a quiz. It is a plain value
// passed into and out of every engine call — never a process-wide
// singleton — so concurrent sessions cannot interfere.
type State struct {
	ID        string           `json:"id"`
	QuizID    int64            `json:"quiz_id"`
	Current   int              `json:"current"` // index into the position-ordered question list
	Path      []int            `json:"path"`    // visited indices, for back navigation
	Answers   map[int64]Answer `json:"answers"` // question ID -> recorded answer
	Completed bool             `json:"completed"`
	Email     string           `json:"email,omitempty"` // captured from an email question, if any
	StartedAt int64            `json:"started_at"`
}

// Clone deep-copies the state so stores can hand out values without
// aliasing the caller's maps and slices.
func (s *State) Clone() *State {
	cp := *s
	cp.Path = append([]int(nil), s.Path...)
	cp.Answers = make(map[int64]Answer, len(s.Answers))
	for k, v := range s.Answers {
		v.OptionIDs = append([]int64(nil), v.OptionIDs...)
		cp.Answers[k] = v
	}
	return &cp
}
