package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// UserInfo is the structured profile used when generating a resume from scratch
// instead of tailoring an uploaded file.
type UserInfo struct {
	Name       string `json:"name" validate:"required,min=1,max=120"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      string `json:"phone,omitempty" validate:"max=40"`
	Location   string `json:"location,omitempty" validate:"max=120"`
	LinkedIn   string `json:"linkedin,omitempty" validate:"omitempty,url"`
	Summary    string `json:"summary,omitempty"`
	Experience string `json:"experience" validate:"required,min=20"`
	Education  string `json:"education,omitempty"`
	Skills     string `json:"skills,omitempty"`
}

// Validate validates the UserInfo using the validator.
func (u *UserInfo) Validate() error {
	validate := validator.New()
	return validate.Struct(u)
}

// Format renders the profile as a labelled text block for prompts.
func (u *UserInfo) Format() string {
	var sb strings.Builder
	writeField := func(label, value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		sb.WriteString(fmt.Sprintf("%s: %s\n", label, value))
	}

	writeField("Name", u.Name)
	writeField("Email", u.Email)
	writeField("Phone", u.Phone)
	writeField("Location", u.Location)
	writeField("LinkedIn", u.LinkedIn)
	writeField("Professional Summary", u.Summary)
	writeField("Work Experience", u.Experience)
	writeField("Education", u.Education)
	writeField("Skills", u.Skills)

	return strings.TrimSpace(sb.String())
}
