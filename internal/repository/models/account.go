package models

import (
	"database/sql"
	"time"
)

// Account is one row of the accounts table.
type Account struct {
	ID             string         `db:"ID"`
	Email          string         `db:"EMAIL"`
	FullName       string         `db:"FULL_NAME"`
	Phone          sql.NullString `db:"PHONE"`
	PasswordHash   string         `db:"PASSWORD_HASH"`
	Occupation     sql.NullString `db:"OCCUPATION"`
	EducationLevel sql.NullString `db:"EDUCATION_LEVEL"`
	CollegeDegree  sql.NullString `db:"COLLEGE_DEGREE"`
	FeedbackRating sql.NullInt64  `db:"FEEDBACK_RATING"`
	FeedbackText   sql.NullString `db:"FEEDBACK_TEXT"`
	FeedbackEmail  sql.NullString `db:"FEEDBACK_EMAIL"`
	CreatedAt      time.Time      `db:"CREATED_AT"`
	UpdatedAt      time.Time      `db:"UPDATED_AT"`
}

func (Account) TableName() string {
	return "accounts"
}
