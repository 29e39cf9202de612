package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"learn-assist/internal/domain"
	"learn-assist/internal/repository/models"
	"learn-assist/internal/util"

	"github.com/jmoiron/sqlx"
)

const accountColumns = `ID, EMAIL, FULL_NAME, PHONE, PASSWORD_HASH, OCCUPATION, EDUCATION_LEVEL,
	COLLEGE_DEGREE, FEEDBACK_RATING, FEEDBACK_TEXT, FEEDBACK_EMAIL, CREATED_AT, UPDATED_AT`

type sqlxAccountRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLXAccountRepository creates an AccountRepository over db.
func NewSQLXAccountRepository(db *sqlx.DB) domain.AccountRepository {
	return &sqlxAccountRepository{db: db, now: time.Now}
}

// CreateAccount inserts account, assigning its ID and timestamps.
func (r *sqlxAccountRepository) CreateAccount(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		account.ID = util.NewULID()
	}
	now := r.now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	account.Email = strings.ToLower(account.Email)

	query := `INSERT INTO accounts (` + accountColumns + `)
	          VALUES (:ID, :EMAIL, :FULL_NAME, :PHONE, :PASSWORD_HASH, :OCCUPATION, :EDUCATION_LEVEL,
	          :COLLEGE_DEGREE, :FEEDBACK_RATING, :FEEDBACK_TEXT, :FEEDBACK_EMAIL, :CREATED_AT, :UPDATED_AT)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainAccount(account))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewAlreadyRegisteredError(account.Email)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetAccountByEmail returns nil, nil when no account exists.
func (r *sqlxAccountRepository) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`SELECT ` + accountColumns + ` FROM accounts WHERE EMAIL = ?`)

	var row models.Account
	if err := exec.GetContext(ctx, &row, query, strings.ToLower(strings.TrimSpace(email))); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return toDomainAccount(&row), nil
}

// UpdateProfile writes the provided fields of the account with email. Sessions of
// guests have no account, so a missing row is not an error.
func (r *sqlxAccountRepository) UpdateProfile(ctx context.Context, email string, fields domain.ProfileFields) error {
	var sets []string
	var args []interface{}
	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if fields.FullName != nil {
		add("FULL_NAME", *fields.FullName)
	}
	if fields.Phone != nil {
		add("PHONE", util.StringToNullString(*fields.Phone))
	}
	if fields.Occupation != nil {
		add("OCCUPATION", util.StringToNullString(string(*fields.Occupation)))
	}
	if fields.EducationLevel != nil {
		add("EDUCATION_LEVEL", util.StringToNullString(string(*fields.EducationLevel)))
	}
	if fields.CollegeDegree != nil {
		add("COLLEGE_DEGREE", util.StringToNullString(*fields.CollegeDegree))
	}
	if len(sets) == 0 {
		return nil
	}
	add("UPDATED_AT", r.now().UTC())
	args = append(args, strings.ToLower(email))

	exec := GetExecutor(ctx, r.db)
	query := exec.Rebind(`UPDATE accounts SET ` + strings.Join(sets, ", ") + ` WHERE EMAIL = ?`)
	if _, err := exec.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update account profile: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "ORA-00001") || strings.Contains(msg, "UNIQUE constraint failed")
}

func toDomainAccount(m *models.Account) *domain.Account {
	if m == nil {
		return nil
	}
	return &domain.Account{
		ID:             m.ID,
		Email:          m.Email,
		FullName:       m.FullName,
		Phone:          m.Phone.String,
		PasswordHash:   m.PasswordHash,
		Occupation:     domain.Occupation(m.Occupation.String),
		EducationLevel: domain.EducationLevel(m.EducationLevel.String),
		CollegeDegree:  m.CollegeDegree.String,
		FeedbackRating: util.NullInt64ToIntPtr(m.FeedbackRating),
		FeedbackText:   m.FeedbackText.String,
		FeedbackEmail:  m.FeedbackEmail.String,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func fromDomainAccount(a *domain.Account) *models.Account {
	if a == nil {
		return nil
	}
	return &models.Account{
		ID:             a.ID,
		Email:          a.Email,
		FullName:       a.FullName,
		Phone:          util.StringToNullString(a.Phone),
		PasswordHash:   a.PasswordHash,
		Occupation:     util.StringToNullString(string(a.Occupation)),
		EducationLevel: util.StringToNullString(string(a.EducationLevel)),
		CollegeDegree:  util.StringToNullString(a.CollegeDegree),
		FeedbackRating: util.IntPtrToNullInt64(a.FeedbackRating),
		FeedbackText:   util.StringToNullString(a.FeedbackText),
		FeedbackEmail:  util.StringToNullString(a.FeedbackEmail),
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
