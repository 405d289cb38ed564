package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/medquizai/medquiz-backend/internal/llm"
	"github.com/medquizai/medquiz-backend/internal/model"
	"github.com/medquizai/medquiz-backend/internal/quiz"
)

// Quiz flow errors.
var (
	// ErrSourceTooShort means the trimmed source text is below the minimum
	// length; no external call is attempted.
	ErrSourceTooShort = errors.New("source text is too short to generate a quiz")
	// ErrGenerationBusy means a generation call is already in flight for
	// this client.
	ErrGenerationBusy = errors.New("a quiz is already being generated for this client")
)

// QuizView is the session snapshot rendered by the presentation layer.
// Score and Rating are present only after submission.
type QuizView struct {
	State     quiz.State       `json:"state"`
	Questions []model.Question `json:"questions"`
	Answers   map[int]string   `json:"answers"`
	Submitted bool             `json:"submitted"`
	Complete  bool             `json:"complete"`
	Score     *int             `json:"score,omitempty"`
	Total     int              `json:"total"`
	Rating    string           `json:"rating,omitempty"`
}

// QuizService orchestrates generation and per-client quiz sessions.
type QuizService struct {
	client   llm.Client
	sessions *quiz.Manager
	minChars int
	log      zerolog.Logger
}

// NewQuizService creates a QuizService.
func NewQuizService(client llm.Client, sessions *quiz.Manager, minChars int, log zerolog.Logger) *QuizService {
	return &QuizService{
		client:   client,
		sessions: sessions,
		minChars: minChars,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// Generate produces a fresh quiz from source text and loads it into the
// client's session, replacing whatever was there. The per-client busy flag
// rejects overlapping calls; the generation client itself never deduplicates.
func (s *QuizService) Generate(ctx context.Context, clientID, sourceText string) ([]model.Question, error) {
	trimmed := strings.TrimSpace(sourceText)
	if utf8.RuneCountInString(trimmed) < s.minChars {
		return nil, ErrSourceTooShort
	}

	if !s.sessions.TryBeginGeneration(clientID) {
		return nil, ErrGenerationBusy
	}
	defer s.sessions.EndGeneration(clientID)

	questions, err := s.client.GenerateQuiz(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	sess := s.sessions.Session(clientID)
	sess.Reset()
	if err := sess.LoadQuestions(questions); err != nil {
		// Unreachable after Reset, but the state machine owns that rule.
		return nil, err
	}

	s.log.Info().
		Str("client_id", clientID).
		Int("questions", len(questions)).
		Msg("Quiz session started")

	return questions, nil
}

// Answer records a selected option for a question. Selections after
// submission are silently ignored, matching the state machine contract.
func (s *QuizService) Answer(clientID string, questionID int, option string) {
	s.sessions.Session(clientID).SelectAnswer(questionID, option)
}

// Submit finalizes the client's quiz and returns the scored view.
func (s *QuizService) Submit(clientID string) (*QuizView, error) {
	sess := s.sessions.Session(clientID)
	if err := sess.Submit(); err != nil {
		return nil, err
	}
	view := s.view(sess)
	return &view, nil
}

// Reset clears the client's session back to empty.
func (s *QuizService) Reset(clientID string) {
	s.sessions.Session(clientID).Reset()
}

// DropSession discards the client's session entirely, used on logout.
func (s *QuizService) DropSession(clientID string) {
	s.sessions.Drop(clientID)
}

// State returns the current session snapshot for rendering.
func (s *QuizService) State(clientID string) QuizView {
	return s.view(s.sessions.Session(clientID))
}

func (s *QuizService) view(sess *quiz.Session) QuizView {
	view := QuizView{
		State:     sess.State(),
		Questions: sess.Questions(),
		Answers:   sess.Answers(),
		Submitted: sess.Submitted(),
		Complete:  sess.IsComplete(),
	}
	view.Total = len(view.Questions)

	if score, ok := sess.Score(); ok {
		view.Score = &score
		view.Rating = quiz.Rating(score, view.Total)
	}
	return view
}
