package dashboard

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/panchakarma/manager/internal/domain/patient"
	"github.com/panchakarma/manager/internal/domain/session"
)

// Stats backs the summary cards at the top of the dashboard.
type Stats struct {
	TotalPatients       int     `json:"total_patients"`
	NewPatients         int     `json:"new_patients"`
	TodaySessions       int     `json:"today_sessions"`
	InProgress          int     `json:"in_progress"`
	CompletedSessions   int     `json:"completed_sessions"`
	CompletionRate      float64 `json:"completion_rate"`
	AverageRating       float64 `json:"average_rating"`
	Reviews             int     `json:"reviews"`
	UnreadNotifications int     `json:"unread_notifications"`
}

// ComputeStats summarises the catalogs as of today. The completion rate is
// the percentage of non-rescheduled sessions dated today or earlier that
// are completed; sessions whose date does not parse are left out of it.
// The average rating covers rated completed sessions.
func ComputeStats(patients []patient.Patient, sessions []session.Session, unread int, today time.Time) Stats {
	todayKey := today.Format(session.DateLayout)
	todayDate, _ := time.Parse(session.DateLayout, todayKey)

	st := Stats{
		TotalPatients:       len(patients),
		NewPatients:         lo.CountBy(patients, func(p patient.Patient) bool { return p.Status == patient.StatusNew }),
		UnreadNotifications: unread,
	}

	due, completedDue, ratingSum := 0, 0, 0
	for _, s := range sessions {
		if s.Date == todayKey {
			st.TodaySessions++
		}
		if s.Status == session.StatusOngoing {
			st.InProgress++
		}
		if s.Status == session.StatusCompleted {
			st.CompletedSessions++
			if s.Rating > 0 {
				st.Reviews++
				ratingSum += s.Rating
			}
		}
		day, ok := s.Day()
		if !ok {
			continue
		}
		if s.Status != session.StatusRescheduled && !day.After(todayDate) {
			due++
			if s.Status == session.StatusCompleted {
				completedDue++
			}
		}
	}

	if due > 0 {
		st.CompletionRate = round1(float64(completedDue) * 100 / float64(due))
	}
	if st.Reviews > 0 {
		st.AverageRating = round1(float64(ratingSum) / float64(st.Reviews))
	}
	return st
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Band is a coarse progress grade.
type Band string

const (
	BandExcellent Band = "excellent"
	BandGood      Band = "good"
	BandModerate  Band = "moderate"
	BandEarly     Band = "early"
)

// BandFor grades a progress percentage.
func BandFor(progress int) Band {
	switch {
	case progress >= 85:
		return BandExcellent
	case progress >= 70:
		return BandGood
	case progress >= 50:
		return BandModerate
	default:
		return BandEarly
	}
}

type ProgressRow struct {
	PatientID uuid.UUID `json:"patient_id"`
	Name      string    `json:"name"`
	Therapy   string    `json:"therapy"`
	Progress  int       `json:"progress"`
	Band      Band      `json:"band"`
}

type TherapyCount struct {
	Therapy  string `json:"therapy"`
	Patients int    `json:"patients"`
}

type RatingCount struct {
	Rating   int `json:"rating"`
	Sessions int `json:"sessions"`
}

// ProgressReport backs the progress tracking tab.
type ProgressReport struct {
	Patients        []ProgressRow  `json:"patients"`
	Therapies       []TherapyCount `json:"therapies"`
	Ratings         []RatingCount  `json:"ratings"`
	AverageProgress float64        `json:"average_progress"`
}

// ComputeProgress builds the per-patient rows in catalog order, the
// patients-per-therapy distribution in first-seen order and the 1..5
// rating histogram over completed sessions.
func ComputeProgress(patients []patient.Patient, sessions []session.Session) ProgressReport {
	rows := lo.Map(patients, func(p patient.Patient, _ int) ProgressRow {
		return ProgressRow{
			PatientID: p.ID,
			Name:      p.Name,
			Therapy:   p.Therapy,
			Progress:  p.Progress,
			Band:      BandFor(p.Progress),
		}
	})

	counts := lo.CountValuesBy(patients, func(p patient.Patient) string { return p.Therapy })
	therapies := lo.Map(lo.Uniq(lo.Map(patients, func(p patient.Patient, _ int) string { return p.Therapy })),
		func(t string, _ int) TherapyCount {
			return TherapyCount{Therapy: t, Patients: counts[t]}
		})

	ratings := make([]RatingCount, session.MaxRating)
	for i := range ratings {
		ratings[i].Rating = i + 1
	}
	for _, s := range sessions {
		if s.Status == session.StatusCompleted && s.Rating > 0 && s.Rating <= session.MaxRating {
			ratings[s.Rating-1].Sessions++
		}
	}

	report := ProgressReport{Patients: rows, Therapies: therapies, Ratings: ratings}
	if len(patients) > 0 {
		total := lo.SumBy(patients, func(p patient.Patient) int { return p.Progress })
		report.AverageProgress = round1(float64(total) / float64(len(patients)))
	}
	return report
}
