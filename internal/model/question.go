package model

// Difficulty classifies a generated question.
type Difficulty string

const (
	DifficultyHigh   Difficulty = "High"
	DifficultyMedium Difficulty = "Medium"
)

// Question is a single generated multiple-choice question.
// IDs are assigned by the generation client as 1..N in array order; ids
// coming back from the model are never trusted to be unique.
type Question struct {
	ID            int        `json:"id"`
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	Explanation   string     `json:"explanation"`
	Difficulty    Difficulty `json:"difficulty"`
}

// GenerateQuizRequest is the payload for the quiz generation endpoint.
// The minimum-length rule applies to the trimmed text and is enforced by
// the quiz service, not by binding, so the limit stays configurable.
type GenerateQuizRequest struct {
	SourceText string `json:"source_text" binding:"required"`
}

// AnswerRequest is the payload for selecting an answer.
type AnswerRequest struct {
	QuestionID int    `json:"question_id" binding:"required,min=1"`
	Option     string `json:"option" binding:"required"`
}
