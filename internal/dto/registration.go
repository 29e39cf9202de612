package dto

import (
	"learn-assist/internal/domain"
	"learn-assist/internal/registration"
)

// RegistrationResponse reports where a registration stands.
type RegistrationResponse struct {
	ID        string                `json:"id"`
	Step      registration.StepName `json:"step"`
	Email     string                `json:"email,omitempty"`
	Completed bool                  `json:"completed"`
	Degrees   []string              `json:"degrees,omitempty"`
}

type RegisterAccountRequest struct {
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type VerificationRequest struct {
	Code []string `json:"code"`
}

type OccupationRequest struct {
	Occupation domain.Occupation `json:"occupation"`
}

type EducationRequest struct {
	EducationLevel domain.EducationLevel `json:"educationLevel"`
}

type DegreeRequest struct {
	Degree string `json:"degree"`
}

type FeedbackRequest struct {
	Rating   *int   `json:"rating,omitempty"`
	Feedback string `json:"feedback,omitempty"`
	Email    string `json:"email,omitempty"`
}
