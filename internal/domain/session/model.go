package session

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusUpcoming    Status = "upcoming"
	StatusOngoing     Status = "ongoing"
	StatusCompleted   Status = "completed"
	StatusRescheduled Status = "rescheduled"
)

var validStatuses = map[Status]bool{
	StatusUpcoming: true, StatusOngoing: true, StatusCompleted: true, StatusRescheduled: true,
}

func (s Status) Valid() bool { return validStatuses[s] }

// DateLayout is the calendar-day format of Session.Date.
const DateLayout = "2006-01-02"

// Session is one scheduled therapy appointment.
type Session struct {
	ID                  uuid.UUID  `json:"id"`
	PatientID           uuid.UUID  `json:"patient_id"`
	PatientName         string     `json:"patient_name"`
	TherapyType         string     `json:"therapy_type"`
	Date                string     `json:"date"`
	Time                string     `json:"time"`
	Duration            int        `json:"duration"`
	Room                string     `json:"room"`
	Therapist           string     `json:"therapist,omitempty"`
	Status              Status     `json:"status"`
	Notes               string     `json:"notes"`
	SpecialInstructions string     `json:"special_instructions,omitempty"`
	Feedback            string     `json:"feedback,omitempty"`
	Rating              int        `json:"rating"`
	Checklist           []string   `json:"checklist"`
	StartedAt           *time.Time `json:"started_at,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Day parses Date. ok is false when Date is not a calendar day.
func (s Session) Day() (day time.Time, ok bool) {
	d, err := time.Parse(DateLayout, s.Date)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Therapy is one bookable therapy type.
type Therapy struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Duration int    `json:"duration"`
}

// DefaultDuration applies when neither the draft nor the therapy names one.
const DefaultDuration = 60

var Therapies = []Therapy{
	{Value: "abhyanga", Label: "Abhyanga (Oil Massage)", Duration: 90},
	{Value: "shirodhara", Label: "Shirodhara (Oil Pouring)", Duration: 60},
	{Value: "swedana", Label: "Swedana (Steam Therapy)", Duration: 45},
	{Value: "basti", Label: "Basti (Medicated Enema)", Duration: 120},
	{Value: "nasya", Label: "Nasya (Nasal Administration)", Duration: 30},
	{Value: "consultation", Label: "Consultation", Duration: 45},
}

// LookupTherapy finds a therapy by its value key.
func LookupTherapy(value string) (Therapy, bool) {
	return lo.Find(Therapies, func(t Therapy) bool { return t.Value == value })
}

var (
	// TimeSlots run every 30 minutes from 09:00 AM to 05:30 PM.
	TimeSlots = []string{
		"09:00 AM", "09:30 AM", "10:00 AM", "10:30 AM", "11:00 AM", "11:30 AM",
		"12:00 PM", "12:30 PM", "01:00 PM", "01:30 PM", "02:00 PM", "02:30 PM",
		"03:00 PM", "03:30 PM", "04:00 PM", "04:30 PM", "05:00 PM", "05:30 PM",
	}
	Rooms = []string{"Room 1", "Room 2", "Room 3", "Office"}

	ProtocolChecklist = []string{
		"Pre-session consultation completed",
		"Patient medical history reviewed",
		"Room prepared and sterilized",
		"Oils/medicines prepared according to protocol",
		"Patient comfort and privacy ensured",
		"Vital signs recorded (if applicable)",
		"Therapy administered as per guidelines",
		"Post-therapy instructions provided",
		"Next session scheduled",
		"Session notes documented",
	}
)
