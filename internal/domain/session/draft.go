package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/panchakarma/manager/internal/platform/form"
)

// ErrInvalidDate is returned when a session date is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// Draft holds the schedule-session form. TherapyType stores the therapy
// value key until Build swaps in the display label. PatientName is read-only:
// it always comes from the patient catalog.
type Draft struct {
	PatientID           uuid.UUID `json:"patient_id"`
	PatientName         string    `json:"patient_name"`
	TherapyType         string    `json:"therapy_type"`
	Date                string    `json:"date"`
	Time                string    `json:"time"`
	Duration            string    `json:"duration"`
	Room                string    `json:"room"`
	Therapist           string    `json:"therapist"`
	Notes               string    `json:"notes"`
	SpecialInstructions string    `json:"special_instructions"`
}

func (d *Draft) fields() map[string]*string {
	return map[string]*string{
		"therapy_type":         &d.TherapyType,
		"date":                 &d.Date,
		"time":                 &d.Time,
		"duration":             &d.Duration,
		"room":                 &d.Room,
		"therapist":            &d.Therapist,
		"notes":                &d.Notes,
		"special_instructions": &d.SpecialInstructions,
	}
}

// Set returns a copy of the draft with one field replaced. Choosing a
// known therapy also fills in its default duration. patient_id must be a
// UUID; the patient name is filled in by the service.
func (d Draft) Set(field, value string) (Draft, error) {
	if field == "patient_id" {
		id, err := uuid.Parse(value)
		if err != nil {
			return d, fmt.Errorf("session draft patient_id: %w", err)
		}
		d.PatientID = id
		return d, nil
	}

	ptr, ok := d.fields()[field]
	if !ok {
		return d, fmt.Errorf("session draft %q: %w", field, form.ErrUnknownField)
	}
	*ptr = value

	if field == "therapy_type" {
		if t, ok := LookupTherapy(value); ok {
			d.Duration = strconv.Itoa(t.Duration)
		}
	}
	return d, nil
}

// Apply sets each field in values; the receiver is unchanged on error.
// therapy_type is applied first so an explicit duration wins.
func (d Draft) Apply(values map[string]string) (Draft, error) {
	next := d
	if v, ok := values["therapy_type"]; ok {
		var err error
		if next, err = next.Set("therapy_type", v); err != nil {
			return d, err
		}
	}
	for field, value := range values {
		if field == "therapy_type" {
			continue
		}
		var err error
		if next, err = next.Set(field, value); err != nil {
			return d, err
		}
	}
	return next, nil
}

// Validate checks that patient, therapy, date, time and room are present
// and that the date parses.
func (d Draft) Validate() error {
	if err := form.Required(
		form.Field{Name: "patient", Value: patientKey(d.PatientID)},
		form.Field{Name: "therapy_type", Value: d.TherapyType},
		form.Field{Name: "date", Value: d.Date},
		form.Field{Name: "time", Value: d.Time},
		form.Field{Name: "room", Value: d.Room},
	); err != nil {
		return err
	}
	return checkDate(d.Date)
}

func patientKey(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func checkDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%q: %w", date, ErrInvalidDate)
	}
	return nil
}

// Build turns a validated draft into an upcoming session.
func (d Draft) Build(id uuid.UUID, now time.Time) Session {
	therapy, known := LookupTherapy(d.TherapyType)

	label := d.TherapyType
	duration, err := strconv.Atoi(d.Duration)
	if known {
		label = therapy.Label
	}
	if err != nil || duration <= 0 {
		duration = DefaultDuration
		if known {
			duration = therapy.Duration
		}
	}

	return Session{
		ID:                  id,
		PatientID:           d.PatientID,
		PatientName:         d.PatientName,
		TherapyType:         label,
		Date:                d.Date,
		Time:                d.Time,
		Duration:            duration,
		Room:                d.Room,
		Therapist:           d.Therapist,
		Status:              StatusUpcoming,
		Notes:               d.Notes,
		SpecialInstructions: d.SpecialInstructions,
		Checklist:           []string{},
		CreatedAt:           now,
	}
}
