package domain

import "time"

// ChatExchange is the single question/answer pair shown on the dashboard.
// While Loading is set, Answer stays empty.
type ChatExchange struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
