package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medquizai/medquiz-backend/internal/model"
)

func makeQuestions(n int) []model.Question {
	questions := make([]model.Question, n)
	for i := range questions {
		questions[i] = model.Question{
			ID:            i + 1,
			Question:      "Which vessel carries deoxygenated blood?",
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: "A",
			Explanation:   "The pulmonary artery carries deoxygenated blood.",
			Difficulty:    model.DifficultyMedium,
		}
	}
	return questions
}

func TestSessionLifecycle(t *testing.T) {
	sess := NewSession()
	assert.Equal(t, StateEmpty, sess.State())

	require.NoError(t, sess.LoadQuestions(makeQuestions(2)))
	assert.Equal(t, StateInProgress, sess.State())

	// Loading over an active session is rejected.
	assert.ErrorIs(t, sess.LoadQuestions(makeQuestions(1)), ErrNotEmpty)

	sess.SelectAnswer(1, "A")
	sess.SelectAnswer(2, "B")
	require.NoError(t, sess.Submit())
	assert.Equal(t, StateSubmitted, sess.State())
}

func TestSubmitRejectedWhileIncomplete(t *testing.T) {
	sess := NewSession()
	require.NoError(t, sess.LoadQuestions(makeQuestions(5)))

	// Answer only 4 of 5 questions.
	for id := 1; id <= 4; id++ {
		sess.SelectAnswer(id, "A")
	}
	assert.False(t, sess.IsComplete())

	err := sess.Submit()
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.False(t, sess.Submitted())
	_, scored := sess.Score()
	assert.False(t, scored)

	sess.SelectAnswer(5, "A")
	assert.True(t, sess.IsComplete())
	require.NoError(t, sess.Submit())
}

func TestSubmitRejectedWithoutQuestions(t *testing.T) {
	sess := NewSession()
	assert.ErrorIs(t, sess.Submit(), ErrNoQuestions)
	assert.False(t, sess.IsComplete())
}

func TestScoringExactMatch(t *testing.T) {
	sess := NewSession()
	require.NoError(t, sess.LoadQuestions([]model.Question{
		{ID: 1, Question: "q1", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "A"},
		{ID: 2, Question: "q2", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: "B"},
	}))

	sess.SelectAnswer(1, "A")
	sess.SelectAnswer(2, "C")
	require.NoError(t, sess.Submit())

	score, ok := sess.Score()
	require.True(t, ok)
	assert.Equal(t, 1, score)
}

func TestReanswerKeepsLatestValue(t *testing.T) {
	sess := NewSession()
	require.NoError(t, sess.LoadQuestions(makeQuestions(1)))

	sess.SelectAnswer(1, "B")
	sess.SelectAnswer(1, "A")
	assert.Equal(t, map[int]string{1: "A"}, sess.Answers())

	require.NoError(t, sess.Submit())
	score, _ := sess.Score()
	assert.Equal(t, 1, score)
}

func TestSelectAnswerIgnoredAfterSubmit(t *testing.T) {
	sess := NewSession()
	require.NoError(t, sess.LoadQuestions(makeQuestions(1)))
	sess.SelectAnswer(1, "A")
	require.NoError(t, sess.Submit())

	sess.SelectAnswer(1, "D")
	assert.Equal(t, map[int]string{1: "A"}, sess.Answers())
}

func TestSecondSubmitIsNoOp(t *testing.T) {
	sess := NewSession()
	require.NoError(t, sess.LoadQuestions(makeQuestions(1)))
	sess.SelectAnswer(1, "A")
	require.NoError(t, sess.Submit())

	score, _ := sess.Score()
	require.NoError(t, sess.Submit())
	again, _ := sess.Score()
	assert.Equal(t, score, again)
}

func TestResetFromEveryState(t *testing.T) {
	cases := []struct {
		name    string
		prepare func(*Session)
	}{
		{"empty", func(_ *Session) {}},
		{"in_progress", func(s *Session) {
			_ = s.LoadQuestions(makeQuestions(2))
			s.SelectAnswer(1, "A")
		}},
		{"submitted", func(s *Session) {
			_ = s.LoadQuestions(makeQuestions(1))
			s.SelectAnswer(1, "A")
			_ = s.Submit()
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sess := NewSession()
			tc.prepare(sess)

			sess.Reset()
			assert.Equal(t, StateEmpty, sess.State())
			assert.Empty(t, sess.Questions())
			assert.Empty(t, sess.Answers())
			assert.False(t, sess.Submitted())

			// A reset session accepts a fresh question set.
			assert.NoError(t, sess.LoadQuestions(makeQuestions(1)))
		})
	}
}
