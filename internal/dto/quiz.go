package dto

import (
	"learn-assist/internal/domain"
	"learn-assist/internal/quiz"
)

// LevelsResponse lists the selectable levels.
type LevelsResponse struct {
	Levels []quiz.LevelSummary `json:"levels"`
}

// QuestionView is a question without its answer key.
type QuestionView struct {
	ID      int64        `json:"id"`
	Text    string       `json:"text"`
	Options []string     `json:"options"`
	Level   domain.Level `json:"level"`
	Subject string       `json:"subject"`
}

// QuizStateResponse is the practice panel of one session.
type QuizStateResponse struct {
	Level          domain.Level  `json:"level"`
	Phase          quiz.Phase    `json:"phase"`
	Question       *QuestionView `json:"question,omitempty"`
	SelectedAnswer *int          `json:"selectedAnswer,omitempty"`
	Revealed       bool          `json:"revealed"`
	Result         *quiz.Result  `json:"result,omitempty"`
	Message        string        `json:"message,omitempty"`
}

type SelectLevelRequest struct {
	Level domain.Level `json:"level" validate:"required,level"`
}

type SelectAnswerRequest struct {
	Index *int `json:"index" validate:"required,gte=0"`
}
