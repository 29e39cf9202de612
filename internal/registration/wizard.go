// Package registration implements the sign-up wizard as a set of step variants.
// Each variant holds only what earlier steps collected, and each transition is a
// method on the step it leaves.
package registration

import (
	"net/mail"
	"strings"

	"learn-assist/internal/domain"
)

const (
	MinPasswordLength = 6
	CodeLength        = 4
	MinRating         = 1
	MaxRating         = 10
)

// StepName identifies a wizard position for clients and storage.
type StepName string

const (
	StepAccount      StepName = "account"
	StepVerification StepName = "verification"
	StepOccupation   StepName = "occupation"
	StepEducation    StepName = "education"
	StepDegree       StepName = "degree"
	StepFeedback     StepName = "feedback"
	StepDone         StepName = "done"
)

// Step is one of the wizard variants below.
type Step interface {
	Name() StepName
}

// AccountDetails is the validated output of the account step.
type AccountDetails struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"passwordHash"`
}

// Profile is everything collected up to the feedback step.
type Profile struct {
	Account        AccountDetails        `json:"account"`
	Occupation     domain.Occupation     `json:"occupation"`
	EducationLevel domain.EducationLevel `json:"educationLevel,omitempty"`
	CollegeDegree  string                `json:"collegeDegree,omitempty"`
}

// Feedback is the optional last step.
type Feedback struct {
	Rating *int   `json:"rating,omitempty"`
	Text   string `json:"text,omitempty"`
	Email  string `json:"email,omitempty"`
}

type AwaitingAccount struct{}

type AwaitingVerification struct {
	Account AccountDetails `json:"account"`
}

type AwaitingOccupation struct {
	Account AccountDetails `json:"account"`
}

type AwaitingEducation struct {
	Account AccountDetails `json:"account"`
}

type AwaitingDegree struct {
	Account   AccountDetails        `json:"account"`
	Education domain.EducationLevel `json:"education"`
}

type AwaitingFeedback struct {
	Profile Profile `json:"profile"`
}

type Completed struct {
	Profile  Profile  `json:"profile"`
	Feedback Feedback `json:"feedback"`
}

func (AwaitingAccount) Name() StepName      { return StepAccount }
func (AwaitingVerification) Name() StepName { return StepVerification }
func (AwaitingOccupation) Name() StepName   { return StepOccupation }
func (AwaitingEducation) Name() StepName    { return StepEducation }
func (AwaitingDegree) Name() StepName       { return StepDegree }
func (AwaitingFeedback) Name() StepName     { return StepFeedback }
func (Completed) Name() StepName            { return StepDone }

// AccountInput is the raw form of the first step.
type AccountInput struct {
	FullName        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
}

// PasswordHasher turns a plaintext password into a storable hash.
type PasswordHasher func(password string) (string, error)

// SubmitAccount validates the account form and moves to verification.
func (AwaitingAccount) SubmitAccount(in AccountInput, hash PasswordHasher) (AwaitingVerification, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)

	var errs domain.ValidationErrors
	if in.FullName == "" {
		errs = append(errs, domain.NewMissingFieldError("fullName"))
	}
	if in.Email == "" {
		errs = append(errs, domain.NewMissingFieldError("email"))
	} else if !validEmail(in.Email) {
		errs = append(errs, domain.NewInvalidFormatError("email", in.Email))
	}
	if in.Phone == "" {
		errs = append(errs, domain.NewMissingFieldError("phone"))
	}
	if in.Password == "" {
		errs = append(errs, domain.NewMissingFieldError("password"))
	} else if len(in.Password) < MinPasswordLength {
		errs = append(errs, domain.NewFieldError("password", "password must be at least 6 characters"))
	}
	if in.ConfirmPassword == "" {
		errs = append(errs, domain.NewMissingFieldError("confirmPassword"))
	} else if in.Password != "" && in.Password != in.ConfirmPassword {
		errs = append(errs, domain.NewFieldError("confirmPassword", "Passwords do not match"))
	}
	if len(errs) > 0 {
		return AwaitingVerification{}, errs
	}

	hashed, err := hash(in.Password)
	if err != nil {
		return AwaitingVerification{}, domain.NewInternalError("failed to secure password", err)
	}
	return AwaitingVerification{Account: AccountDetails{
		FullName:     in.FullName,
		Email:        strings.ToLower(in.Email),
		Phone:        in.Phone,
		PasswordHash: hashed,
	}}, nil
}

// Verify accepts the code once every cell is filled. No code is ever sent, so
// any four characters pass.
func (s AwaitingVerification) Verify(code []string) (AwaitingOccupation, error) {
	if len(code) != CodeLength {
		return AwaitingOccupation{}, domain.ValidationErrors{
			domain.NewFieldError("code", "Please enter the complete verification code"),
		}
	}
	for _, c := range code {
		if len([]rune(strings.TrimSpace(c))) != 1 {
			return AwaitingOccupation{}, domain.ValidationErrors{
				domain.NewFieldError("code", "Please enter the complete verification code"),
			}
		}
	}
	return AwaitingOccupation{Account: s.Account}, nil
}

// ChooseOccupation moves students to the education step and everyone else to feedback.
func (s AwaitingOccupation) ChooseOccupation(o domain.Occupation) (Step, error) {
	if o == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("occupation")}
	}
	if !o.Valid() {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("occupation", o)}
	}
	if o == domain.OccupationStudent {
		return AwaitingEducation{Account: s.Account}, nil
	}
	return AwaitingFeedback{Profile: Profile{Account: s.Account, Occupation: o}}, nil
}

// ChooseEducation moves college students to the degree step and everyone else to feedback.
func (s AwaitingEducation) ChooseEducation(l domain.EducationLevel) (Step, error) {
	if l == "" {
		return nil, domain.ValidationErrors{domain.NewMissingFieldError("educationLevel")}
	}
	if !l.Valid() {
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("educationLevel", l)}
	}
	if l == domain.EducationCollege {
		return AwaitingDegree{Account: s.Account, Education: l}, nil
	}
	return AwaitingFeedback{Profile: Profile{
		Account:        s.Account,
		Occupation:     domain.OccupationStudent,
		EducationLevel: l,
	}}, nil
}

// ChooseDegree accepts a listed degree or any free-text one.
func (s AwaitingDegree) ChooseDegree(degree string) (AwaitingFeedback, error) {
	degree = strings.TrimSpace(degree)
	if degree == "" {
		return AwaitingFeedback{}, domain.ValidationErrors{domain.NewMissingFieldError("degree")}
	}
	return AwaitingFeedback{Profile: Profile{
		Account:        s.Account,
		Occupation:     domain.OccupationStudent,
		EducationLevel: s.Education,
		CollegeDegree:  degree,
	}}, nil
}

// SendFeedback finishes the wizard. Every field is optional, but given ones must be valid.
func (s AwaitingFeedback) SendFeedback(f Feedback) (Completed, error) {
	f.Text = strings.TrimSpace(f.Text)
	f.Email = strings.TrimSpace(f.Email)

	var errs domain.ValidationErrors
	if f.Rating != nil && (*f.Rating < MinRating || *f.Rating > MaxRating) {
		errs = append(errs, domain.NewOutOfRangeError("rating", *f.Rating, MinRating, MaxRating))
	}
	if f.Email != "" && !validEmail(f.Email) {
		errs = append(errs, domain.NewInvalidFormatError("email", f.Email))
	}
	if len(errs) > 0 {
		return Completed{}, errs
	}
	return Completed{Profile: s.Profile, Feedback: f}, nil
}

// Account converts a finished registration into the record to persist.
func (c Completed) Account() *domain.Account {
	return &domain.Account{
		Email:          c.Profile.Account.Email,
		FullName:       c.Profile.Account.FullName,
		Phone:          c.Profile.Account.Phone,
		PasswordHash:   c.Profile.Account.PasswordHash,
		Occupation:     c.Profile.Occupation,
		EducationLevel: c.Profile.EducationLevel,
		CollegeDegree:  c.Profile.CollegeDegree,
		FeedbackRating: c.Feedback.Rating,
		FeedbackText:   c.Feedback.Text,
		FeedbackEmail:  c.Feedback.Email,
	}
}

// Email returns the address being registered, or "" before the account step.
func Email(s Step) string {
	switch v := s.(type) {
	case AwaitingVerification:
		return v.Account.Email
	case AwaitingOccupation:
		return v.Account.Email
	case AwaitingEducation:
		return v.Account.Email
	case AwaitingDegree:
		return v.Account.Email
	case AwaitingFeedback:
		return v.Profile.Account.Email
	case Completed:
		return v.Profile.Account.Email
	}
	return ""
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s && strings.Contains(s, "@")
}
