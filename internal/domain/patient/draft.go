package patient

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/panchakarma/manager/internal/platform/form"
)

// Draft holds the add-patient form while it is being filled in. Every
// field is kept as entered; conversion happens on Build.
type Draft struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	Age               string `json:"age"`
	Gender            string `json:"gender"`
	MedicalHistory    string `json:"medical_history"`
	CurrentConditions string `json:"current_conditions"`
	TherapyGoal       string `json:"therapy_goal"`
	EmergencyContact  string `json:"emergency_contact"`
}

func (d *Draft) fields() map[string]*string {
	return map[string]*string{
		"name":               &d.Name,
		"email":              &d.Email,
		"phone":              &d.Phone,
		"age":                &d.Age,
		"gender":             &d.Gender,
		"medical_history":    &d.MedicalHistory,
		"current_conditions": &d.CurrentConditions,
		"therapy_goal":       &d.TherapyGoal,
		"emergency_contact":  &d.EmergencyContact,
	}
}

// Set returns a copy of the draft with one field replaced.
func (d Draft) Set(field, value string) (Draft, error) {
	ptr, ok := d.fields()[field]
	if !ok {
		return d, fmt.Errorf("patient draft %q: %w", field, form.ErrUnknownField)
	}
	*ptr = value
	return d, nil
}

// Apply sets each field in values, stopping at the first unknown field.
// The receiver is unchanged on error.
func (d Draft) Apply(values map[string]string) (Draft, error) {
	next := d
	for field, value := range values {
		var err error
		if next, err = next.Set(field, value); err != nil {
			return d, err
		}
	}
	return next, nil
}

// Validate checks that name, email and phone are present.
func (d Draft) Validate() error {
	return form.Required(
		form.Field{Name: "name", Value: d.Name},
		form.Field{Name: "email", Value: d.Email},
		form.Field{Name: "phone", Value: d.Phone},
	)
}

// Build turns a validated draft into a new patient record.
func (d Draft) Build(id uuid.UUID, now time.Time) Patient {
	return Patient{
		ID:                id,
		Name:              d.Name,
		Email:             d.Email,
		Phone:             d.Phone,
		Age:               ParseAge(d.Age),
		Gender:            d.Gender,
		MedicalHistory:    d.MedicalHistory,
		CurrentConditions: d.CurrentConditions,
		TherapyGoal:       d.TherapyGoal,
		EmergencyContact:  d.EmergencyContact,
		Therapy:           DefaultTherapy,
		Stage:             DefaultStage,
		TreatmentStage:    DefaultTreatmentStage,
		Progress:          0,
		Status:            StatusNew,
		CreatedAt:         now,
	}
}

// ParseAge reads the leading decimal digits of s. Empty, negative or
// non-numeric input yields 0; the value is not reported as an error.
func ParseAge(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
