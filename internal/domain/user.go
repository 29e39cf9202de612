package domain

// Occupation is what the user picked on the registration occupation step.
type Occupation string

const (
	OccupationStudent Occupation = "Student"
	OccupationTeacher Occupation = "Professor/Teacher"
	OccupationOther   Occupation = "Other"
)

func (o Occupation) Valid() bool {
	switch o {
	case OccupationStudent, OccupationTeacher, OccupationOther:
		return true
	}
	return false
}

// EducationLevel is only asked of students.
type EducationLevel string

const (
	EducationPrimary   EducationLevel = "Class I-V"
	EducationMiddle    EducationLevel = "Class VI-VIII"
	EducationSecondary EducationLevel = "Class IX-XII"
	EducationCollege   EducationLevel = "College"
	EducationOther     EducationLevel = "Other"
)

func (l EducationLevel) Valid() bool {
	switch l {
	case EducationPrimary, EducationMiddle, EducationSecondary, EducationCollege, EducationOther:
		return true
	}
	return false
}

// KnownDegrees are the degrees offered as choices; any other non-empty value is accepted as free text.
var KnownDegrees = []string{"BSC", "BCA", "B.Tech", "CA", "BBA", "Accountancy"}

// User is the signed-in person of one browser session. Email is the identity key.
type User struct {
	Email          string         `json:"email"`
	FullName       string         `json:"fullName,omitempty"`
	Phone          string         `json:"phone,omitempty"`
	Occupation     Occupation     `json:"occupation,omitempty"`
	EducationLevel EducationLevel `json:"educationLevel,omitempty"`
	CollegeDegree  string         `json:"collegeDegree,omitempty"`
	Verified       bool           `json:"verified,omitempty"`
	// AccountID is set only when the session signed in against a registered account.
	AccountID string `json:"accountId,omitempty"`
}

// ProfileFields is a partial user. Nil fields are left untouched by Merge.
type ProfileFields struct {
	FullName       *string         `json:"fullName,omitempty"`
	Phone          *string         `json:"phone,omitempty"`
	Occupation     *Occupation     `json:"occupation,omitempty"`
	EducationLevel *EducationLevel `json:"educationLevel,omitempty"`
	CollegeDegree  *string         `json:"collegeDegree,omitempty"`
	Verified       *bool           `json:"verified,omitempty"`
	AccountID      *string         `json:"-"`
}

// Merge returns a copy of u with every provided field of f applied.
func (u User) Merge(f ProfileFields) User {
	if f.FullName != nil {
		u.FullName = *f.FullName
	}
	if f.Phone != nil {
		u.Phone = *f.Phone
	}
	if f.Occupation != nil {
		u.Occupation = *f.Occupation
	}
	if f.EducationLevel != nil {
		u.EducationLevel = *f.EducationLevel
	}
	if f.CollegeDegree != nil {
		u.CollegeDegree = *f.CollegeDegree
	}
	if f.Verified != nil {
		u.Verified = *f.Verified
	}
	if f.AccountID != nil {
		u.AccountID = *f.AccountID
	}
	return u
}

// IsEmpty reports whether no field is set.
func (f ProfileFields) IsEmpty() bool {
	return f.FullName == nil && f.Phone == nil && f.Occupation == nil &&
		f.EducationLevel == nil && f.CollegeDegree == nil && f.Verified == nil && f.AccountID == nil
}
