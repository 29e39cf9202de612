package dto

import (
	"time"

	"learn-assist/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// GoogleUserInfo holds user information obtained from Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// LoginRequest is the body of an email sign-in.
// @Description Email sign-in. Password is required only for registered accounts.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password,omitempty"`
}

// LoginResponse carries the session token and the signed-in user.
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresAt   time.Time   `json:"expires_at"`
	User        domain.User `json:"user"`
}

// UpdateProfileRequest is a partial profile. Omitted fields are unchanged.
type UpdateProfileRequest struct {
	FullName       *string                `json:"fullName,omitempty" validate:"omitempty,min=1,max=200"`
	Phone          *string                `json:"phone,omitempty" validate:"omitempty,max=40"`
	Occupation     *domain.Occupation     `json:"occupation,omitempty" validate:"omitempty,oneof=Student Professor/Teacher Other"`
	EducationLevel *domain.EducationLevel `json:"educationLevel,omitempty"`
	CollegeDegree  *string                `json:"collegeDegree,omitempty" validate:"omitempty,max=200"`
}

// Fields converts the request into a domain partial.
func (r UpdateProfileRequest) Fields() domain.ProfileFields {
	return domain.ProfileFields{
		FullName:       r.FullName,
		Phone:          r.Phone,
		Occupation:     r.Occupation,
		EducationLevel: r.EducationLevel,
		CollegeDegree:  r.CollegeDegree,
	}
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}
