package dto

type SubmitQuestionRequest struct {
	Question string `json:"question" validate:"max=4000"`
}

type ExamplesResponse struct {
	Examples []string `json:"examples"`
}
