package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medquizai/medquiz-backend/internal/llm"
	"github.com/medquizai/medquiz-backend/internal/middleware"
	"github.com/medquizai/medquiz-backend/internal/model"
	"github.com/medquizai/medquiz-backend/internal/quiz"
	"github.com/medquizai/medquiz-backend/internal/response"
	"github.com/medquizai/medquiz-backend/internal/service"
	"github.com/medquizai/medquiz-backend/internal/validator"
)

// QuizHandler handles quiz generation and the quiz session endpoints.
type QuizHandler struct {
	quizService *service.QuizService
}

// NewQuizHandler creates a new QuizHandler.
func NewQuizHandler(quizService *service.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// Generate godoc
// POST /api/v1/quiz/generate
// Sends the study material to the AI service and starts a fresh quiz session
// with the generated questions.
func (h *QuizHandler) Generate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.GenerateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.quizService.Generate(c.Request.Context(), claims.ClientID, req.SourceText)
	if err != nil {
		h.failGeneration(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// failGeneration maps generation failures onto the error taxonomy. Credential
// problems get their own codes so the UI can show a configuration hint
// instead of a retry prompt.
func (h *QuizHandler) failGeneration(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSourceTooShort):
		response.Fail(c, http.StatusBadRequest, response.ErrSourceTooShort)
	case errors.Is(err, service.ErrGenerationBusy):
		response.Fail(c, http.StatusConflict, response.ErrGenerationBusy)
	case errors.Is(err, llm.ErrMissingAPIKey):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrMissingAPIKey)
	case errors.Is(err, llm.ErrInvalidAPIKey):
		response.Fail(c, http.StatusBadGateway, response.ErrInvalidAPIKey)
	case errors.Is(err, llm.ErrEmptyOutput):
		response.Fail(c, http.StatusBadGateway, response.ErrEmptyGeneration)
	default:
		// Transport/service failure: pass the upstream message through.
		response.FailWithMessage(c, http.StatusBadGateway, response.ErrGenerationFailed, err.Error())
	}
}

// Answer godoc
// POST /api/v1/quiz/answer
// Records the selected option for a question. Re-answering overwrites the
// previous selection; selections after submission are silently ignored.
func (h *QuizHandler) Answer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	h.quizService.Answer(claims.ClientID, req.QuestionID, req.Option)
	response.Success(c, http.StatusOK, h.quizService.State(claims.ClientID))
}

// Submit godoc
// POST /api/v1/quiz/submit
// Finalizes the quiz and returns the scored result. Rejected while any
// question is unanswered.
func (h *QuizHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	view, err := h.quizService.Submit(claims.ClientID)
	if err != nil {
		switch {
		case errors.Is(err, quiz.ErrNoQuestions):
			response.Fail(c, http.StatusConflict, response.ErrQuizNotLoaded)
		case errors.Is(err, quiz.ErrIncomplete):
			response.Fail(c, http.StatusConflict, response.ErrQuizIncomplete)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, view)
}

// Reset godoc
// POST /api/v1/quiz/reset
// Clears the quiz session back to empty. Legal from any state.
func (h *QuizHandler) Reset(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	h.quizService.Reset(claims.ClientID)
	response.Success(c, http.StatusOK, h.quizService.State(claims.ClientID))
}

// State godoc
// GET /api/v1/quiz/state
// Returns the current session snapshot for rendering.
func (h *QuizHandler) State(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	response.Success(c, http.StatusOK, h.quizService.State(claims.ClientID))
}
