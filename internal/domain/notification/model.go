package notification

import (
	"github.com/google/uuid"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// Notification is one entry in the clinic inbox. Time is a display label
// and is never parsed.
type Notification struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Category string    `json:"category"`
	Priority Priority  `json:"priority"`
	Unread   bool      `json:"unread"`
	Patient  string    `json:"patient,omitempty"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Time     string    `json:"time"`
}

// Samples returns the six sample notifications, three of them unread.
func Samples() []Notification {
	return []Notification{
		{
			ID:       uuid.MustParse("9b3e4c70-5d9f-4a43-9c2e-3f4a5b6c7d01"),
			Type:     "followup",
			Category: "patient_care",
			Priority: PriorityLow,
			Unread:   true,
			Patient:  "Amit Patel",
			Title:    "Follow-up Check-in",
			Message:  "How are you feeling after your recent Abhyanga therapy session? We'd love to hear about your progress and any changes in your symptoms.",
			Time:     "Dec 21, 10:00 AM",
		},
		{
			ID:       uuid.MustParse("9b3e4c70-5d9f-4a43-9c2e-3f4a5b6c7d02"),
			Type:     "instructions",
			Category: "instructions",
			Priority: PriorityHigh,
			Patient:  "Priya Sharma",
			Title:    "Pre-Treatment Instructions - Abhyanga Session",
			Message:  "Please remember to follow these instructions before your Abhyanga session tomorrow: avoid heavy meals 2 hours before treatment, wear loose clothing and arrive 15 minutes early for consultation.",
			Time:     "Dec 20, 8:00 AM",
		},
		{
			ID:       uuid.MustParse("9b3e4c70-5d9f-4a43-9c2e-3f4a5b6c7d03"),
			Type:     "reminder",
			Category: "appointments",
			Priority: PriorityMedium,
			Unread:   true,
			Patient:  "Rajesh Kumar",
			Title:    "Session Reminder",
			Message:  "Your Shirodhara session is scheduled for tomorrow at 10:00 AM in Room 2. Please confirm your attendance.",
			Time:     "Dec 20, 6:00 PM",
		},
		{
			ID:       uuid.MustParse("9b3e4c70-5d9f-4a43-9c2e-3f4a5b6c7d04"),
			Type:     "alert",
			Category: "alerts",
			Priority: PriorityHigh,
			Patient:  "Unknown Patient",
			Title:    "Missed Appointment Alert",
			Message:  "Patient did not show up for scheduled Swedana session. Please follow up and reschedule if needed.",
			Time:     "Dec 19, 2:15 PM",
		},
		{
			ID:       uuid.MustParse("9b3e4c70-5d9f-4a43-9c2e-3f4a5b6c7d05"),
			Type:     "feedback",
			Category: "feedback",
			Priority: PriorityLow,
			Patient:  "Amit Patel",
			Title:    "Session Feedback Received",
			Message:  "Patient has provided feedback for their recent Abhyanga session. Rating: 5/5 stars. 'Excellent service and very relaxing experience.'",
			Time:     "Dec 18, 7:30 PM",
		},
		{
			ID:       uuid.MustParse("9b3e4c70-5d9f-4a43-9c2e-3f4a5b6c7d06"),
			Type:     "system",
			Category: "reports",
			Priority: PriorityMedium,
			Unread:   true,
			Title:    "Weekly Report Available",
			Message:  "Your weekly patient progress and therapy effectiveness report is ready for review. 15 sessions completed this week with 94% satisfaction rate.",
			Time:     "Dec 18, 9:00 AM",
		},
	}
}
