package seedmodels

// SeedAccount is one demo account in the seed file. Password is plain text and
// hashed before it is stored.
type SeedAccount struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	FullName       string `json:"fullName"`
	Phone          string `json:"phone"`
	Occupation     string `json:"occupation"`
	EducationLevel string `json:"educationLevel,omitempty"`
	CollegeDegree  string `json:"collegeDegree,omitempty"`
}
