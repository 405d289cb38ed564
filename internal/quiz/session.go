// Package quiz owns the in-memory quiz session state machine: answer
// collection, completion gating, submission, and scoring. Sessions are
// intentionally ephemeral and never persisted.
package quiz

import (
	"errors"
	"sync"

	"github.com/medquizai/medquiz-backend/internal/model"
)

// State is the lifecycle phase of a session.
type State string

const (
	// StateEmpty means no questions are loaded (pre-generation or after reset).
	StateEmpty State = "EMPTY"
	// StateInProgress means questions are loaded and answers may change.
	StateInProgress State = "IN_PROGRESS"
	// StateSubmitted is terminal until an explicit reset.
	StateSubmitted State = "SUBMITTED"
)

var (
	// ErrNotEmpty is returned when loading questions over an active session.
	ErrNotEmpty = errors.New("quiz session already has questions loaded")
	// ErrNoQuestions is returned when submitting a session with no quiz.
	ErrNoQuestions = errors.New("quiz session has no questions loaded")
	// ErrIncomplete is returned when submitting before every question is answered.
	ErrIncomplete = errors.New("quiz session has unanswered questions")
)

// Session is a single client's quiz state. Methods are safe for concurrent
// use; HTTP handlers for the same client may overlap.
type Session struct {
	mu        sync.Mutex
	questions []model.Question
	answers   map[int]string
	submitted bool
	score     int
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{answers: make(map[int]string)}
}

// State reports the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	switch {
	case len(s.questions) == 0:
		return StateEmpty
	case s.submitted:
		return StateSubmitted
	default:
		return StateInProgress
	}
}

// LoadQuestions installs a generated question set. Valid only from the empty
// state; the question set is immutable once loaded.
func (s *Session) LoadQuestions(questions []model.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stateLocked() != StateEmpty {
		return ErrNotEmpty
	}

	s.questions = make([]model.Question, len(questions))
	copy(s.questions, questions)
	s.answers = make(map[int]string)
	s.submitted = false
	s.score = 0
	return nil
}

// SelectAnswer records the selected option for a question, overwriting any
// prior answer. Calls after submission are ignored, not errors. The option is
// not validated against the question's declared options; the presentation
// layer only offers declared options.
func (s *Session) SelectAnswer(questionID int, option string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitted {
		return
	}
	s.answers[questionID] = option
}

// IsComplete reports whether every loaded question has an answer.
// A session with no questions is never complete.
func (s *Session) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isCompleteLocked()
}

func (s *Session) isCompleteLocked() bool {
	if len(s.questions) == 0 {
		return false
	}
	for _, q := range s.questions {
		if _, ok := s.answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

// Submit finalizes the session and computes the score as the count of
// questions whose stored answer exactly matches the correct answer.
// Submission while incomplete is rejected with no state change. A second
// call is a no-op; the score is never recomputed.
func (s *Session) Submit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitted {
		return nil
	}
	if len(s.questions) == 0 {
		return ErrNoQuestions
	}
	if !s.isCompleteLocked() {
		return ErrIncomplete
	}

	score := 0
	for _, q := range s.questions {
		if s.answers[q.ID] == q.CorrectAnswer {
			score++
		}
	}
	s.score = score
	s.submitted = true
	return nil
}

// Reset clears all session state back to empty. Legal from any state.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions = nil
	s.answers = make(map[int]string)
	s.submitted = false
	s.score = 0
}

// Questions returns a copy of the loaded question set.
func (s *Session) Questions() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// Answers returns a copy of the collected answers keyed by question id.
func (s *Session) Answers() map[int]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int]string, len(s.answers))
	for id, opt := range s.answers {
		out[id] = opt
	}
	return out
}

// Submitted reports whether the session has been finalized.
func (s *Session) Submitted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitted
}

// Score returns the final score. The boolean is false until submission.
func (s *Session) Score() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score, s.submitted
}
