package patient

import (
	"time"

	"github.com/google/uuid"
)

// Status is the treatment status of a patient.
type Status string

const (
	StatusNew       Status = "new"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

var validStatuses = map[Status]bool{
	StatusNew: true, StatusActive: true, StatusCompleted: true, StatusPaused: true,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool { return validStatuses[s] }

// Patient is one record in the patient catalog. Records are replaced as a
// whole and never deleted.
type Patient struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	Age               int       `json:"age"`
	Gender            string    `json:"gender"`
	MedicalHistory    string    `json:"medical_history"`
	CurrentConditions string    `json:"current_conditions"`
	TherapyGoal       string    `json:"therapy_goal"`
	EmergencyContact  string    `json:"emergency_contact"`
	Therapy           string    `json:"therapy"`
	Stage             string    `json:"stage"`
	TreatmentStage    string    `json:"treatment_stage"`
	Progress          int       `json:"progress"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// Defaults applied to a newly submitted patient.
const (
	DefaultTherapy        = "Assessment Pending"
	DefaultStage          = "New Patient"
	DefaultTreatmentStage = "assessment"
)

// Filter option lists offered by the filter panel.
var (
	TherapyOptions = []string{
		"Panchakarma Detox",
		"Stress Relief Program",
		"Joint Pain Treatment",
		"Abhyanga Therapy",
		"Shirodhara Treatment",
		"Swedana Therapy",
	}
	StatusOptions = []Status{StatusActive, StatusCompleted, StatusPaused, StatusNew}
	GenderOptions = []string{"male", "female", "other"}
	StageOptions  = []string{"assessment", "week-1", "week-2", "week-3", "maintenance", "completed"}
)

// Well-known identifiers of the sample patients, so that sample sessions
// can reference them.
var (
	SampleAmitID   = uuid.MustParse("6f1c2a5e-3b7d-4e21-9a0c-1d2e3f4a5b01")
	SamplePriyaID  = uuid.MustParse("6f1c2a5e-3b7d-4e21-9a0c-1d2e3f4a5b02")
	SampleRajeshID = uuid.MustParse("6f1c2a5e-3b7d-4e21-9a0c-1d2e3f4a5b03")
)

// Samples returns the three sample patients, created relative to now.
func Samples(now time.Time) []Patient {
	return []Patient{
		{
			ID:                SampleAmitID,
			Name:              "Amit Patel",
			Email:             "amit.patel@example.com",
			Phone:             "+91 98765 43210",
			Age:               45,
			Gender:            "male",
			MedicalHistory:    "Mild hypertension",
			CurrentConditions: "Digestive sluggishness, fatigue",
			TherapyGoal:       "Full-body detoxification",
			EmergencyContact:  "Sunita Patel, +91 98765 43211",
			Therapy:           "Panchakarma Detox",
			Stage:             "Week 2 of 3",
			TreatmentStage:    "week-2",
			Progress:          65,
			Status:            StatusActive,
			CreatedAt:         now.AddDate(0, 0, -14),
		},
		{
			ID:                SamplePriyaID,
			Name:              "Priya Sharma",
			Email:             "priya.sharma@example.com",
			Phone:             "+91 98123 45678",
			Age:               32,
			Gender:            "female",
			CurrentConditions: "Chronic stress, insomnia",
			TherapyGoal:       "Stress relief and better sleep",
			EmergencyContact:  "Rohan Sharma, +91 98123 45679",
			Therapy:           "Stress Relief Program",
			Stage:             "Week 1 of 2",
			TreatmentStage:    "week-1",
			Progress:          30,
			Status:            StatusActive,
			CreatedAt:         now.AddDate(0, 0, -7),
		},
		{
			ID:                SampleRajeshID,
			Name:              "Rajesh Kumar",
			Email:             "rajesh.kumar@example.com",
			Phone:             "+91 99887 76655",
			Age:               58,
			Gender:            "male",
			MedicalHistory:    "Osteoarthritis (knees)",
			CurrentConditions: "Joint stiffness",
			TherapyGoal:       "Reduce joint pain",
			EmergencyContact:  "Meena Kumar, +91 99887 76656",
			Therapy:           "Joint Pain Treatment",
			Stage:             "Completed",
			TreatmentStage:    "completed",
			Progress:          100,
			Status:            StatusCompleted,
			CreatedAt:         now.AddDate(0, 0, -42),
		},
	}
}
