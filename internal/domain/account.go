package domain

import (
	"context"
	"time"
)

// Account is a completed registration.
type Account struct {
	ID             string
	Email          string
	FullName       string
	Phone          string
	PasswordHash   string
	Occupation     Occupation
	EducationLevel EducationLevel
	CollegeDegree  string
	FeedbackRating *int
	FeedbackText   string
	FeedbackEmail  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Profile returns the session-facing fields of the account.
func (a *Account) Profile() ProfileFields {
	verified := true
	f := ProfileFields{Verified: &verified, AccountID: &a.ID}
	if a.FullName != "" {
		f.FullName = &a.FullName
	}
	if a.Phone != "" {
		f.Phone = &a.Phone
	}
	if a.Occupation != "" {
		f.Occupation = &a.Occupation
	}
	if a.EducationLevel != "" {
		f.EducationLevel = &a.EducationLevel
	}
	if a.CollegeDegree != "" {
		f.CollegeDegree = &a.CollegeDegree
	}
	return f
}

// AccountRepository persists accounts. GetAccountByEmail returns nil, nil when absent.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *Account) error
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	UpdateProfile(ctx context.Context, email string, fields ProfileFields) error
}

// TransactionManager runs fn inside one database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
