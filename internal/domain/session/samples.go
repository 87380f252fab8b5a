package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/panchakarma/manager/internal/domain/patient"
)

// Samples returns the five sample sessions. today anchors the dates: two
// sessions tomorrow, one today and two on the previous days.
func Samples(today time.Time) []Session {
	day := func(offset int) string {
		return today.AddDate(0, 0, offset).Format(DateLayout)
	}
	return []Session{
		{
			ID:          uuid.MustParse("7a2d3b6f-4c8e-4f32-8b1d-2e3f4a5b6c01"),
			PatientID:   patient.SampleAmitID,
			PatientName: "Amit Patel",
			TherapyType: "Abhyanga (Oil Massage)",
			Date:        day(1),
			Time:        "10:00 AM",
			Duration:    90,
			Room:        "Room 1",
			Therapist:   "Dr. Smith",
			Status:      StatusUpcoming,
			Notes:       "Patient prefers medium pressure. Use sesame oil.",
			Checklist:   []string{},
			CreatedAt:   today.AddDate(0, 0, -3),
		},
		{
			ID:          uuid.MustParse("7a2d3b6f-4c8e-4f32-8b1d-2e3f4a5b6c02"),
			PatientID:   patient.SamplePriyaID,
			PatientName: "Priya Sharma",
			TherapyType: "Shirodhara (Oil Pouring)",
			Date:        day(1),
			Time:        "02:00 PM",
			Duration:    60,
			Room:        "Room 2",
			Therapist:   "Dr. Patel",
			Status:      StatusUpcoming,
			Notes:       "First shirodhara session. Monitor for anxiety.",
			Checklist:   []string{},
			CreatedAt:   today.AddDate(0, 0, -2),
		},
		{
			ID:          uuid.MustParse("7a2d3b6f-4c8e-4f32-8b1d-2e3f4a5b6c03"),
			PatientID:   patient.SampleRajeshID,
			PatientName: "Rajesh Kumar",
			TherapyType: "Consultation",
			Date:        day(0),
			Time:        "04:00 PM",
			Duration:    45,
			Room:        "Office",
			Therapist:   "Dr. Smith",
			Status:      StatusCompleted,
			Notes:       "Follow-up consultation. Joint mobility improved.",
			Rating:      5,
			Checklist:   []string{ProtocolChecklist[0], ProtocolChecklist[1], ProtocolChecklist[9]},
			CreatedAt:   today.AddDate(0, 0, -7),
		},
		{
			ID:          uuid.MustParse("7a2d3b6f-4c8e-4f32-8b1d-2e3f4a5b6c04"),
			PatientName: "Unknown Patient",
			TherapyType: "Swedana (Steam Therapy)",
			Date:        day(-1),
			Time:        "11:00 AM",
			Duration:    45,
			Room:        "Room 3",
			Therapist:   "Dr. Patel",
			Status:      StatusCompleted,
			Notes:       "Walk-in session. Patient responded well to steam.",
			Rating:      4,
			Checklist:   []string{},
			CreatedAt:   today.AddDate(0, 0, -1),
		},
		{
			ID:          uuid.MustParse("7a2d3b6f-4c8e-4f32-8b1d-2e3f4a5b6c05"),
			PatientID:   patient.SampleAmitID,
			PatientName: "Amit Patel",
			TherapyType: "Abhyanga (Oil Massage)",
			Date:        day(-2),
			Time:        "06:11 PM",
			Duration:    90,
			Room:        "Room 1",
			Therapist:   "Dr. Smith",
			Status:      StatusCompleted,
			Notes:       "Good session. Patient reported reduced stiffness.",
			Checklist:   []string{},
			CreatedAt:   today.AddDate(0, 0, -5),
		},
	}
}
