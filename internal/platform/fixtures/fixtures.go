// Package fixtures builds the catalogs a fresh server starts with: the
// fixed sample records plus an optional batch of reproducible synthetic
// patients and sessions for demos and load checks.
package fixtures

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/panchakarma/manager/internal/domain/notification"
	"github.com/panchakarma/manager/internal/domain/patient"
	"github.com/panchakarma/manager/internal/domain/session"
)

// Config controls the volume of synthetic data added on top of the samples.
type Config struct {
	ExtraPatients      int   `json:"extra_patients"`
	SessionsPerPatient int   `json:"sessions_per_patient"`
	Seed               int64 `json:"seed"`
}

// DefaultConfig returns the samples-only configuration.
func DefaultConfig() Config {
	return Config{SessionsPerPatient: 2, Seed: 1}
}

// Catalogs holds the seed content of every catalog.
type Catalogs struct {
	Patients      []patient.Patient           `json:"patients"`
	Sessions      []session.Session           `json:"sessions"`
	Notifications []notification.Notification `json:"notifications"`
}

// Samples returns only the fixed sample records, dated relative to now.
func Samples(now time.Time) Catalogs {
	return Catalogs{
		Patients:      patient.Samples(now),
		Sessions:      session.Samples(now),
		Notifications: notification.Samples(),
	}
}

// Build returns the samples followed by cfg.ExtraPatients synthetic
// patients, each with cfg.SessionsPerPatient sessions.
func Build(cfg Config, now time.Time) (Catalogs, error) {
	if cfg.ExtraPatients < 0 {
		return Catalogs{}, fmt.Errorf("fixtures: extra patients must not be negative, got %d", cfg.ExtraPatients)
	}
	if cfg.SessionsPerPatient < 0 {
		return Catalogs{}, fmt.Errorf("fixtures: sessions per patient must not be negative, got %d", cfg.SessionsPerPatient)
	}

	out := Samples(now)
	g := NewGenerator(cfg.Seed, now)
	for i := 0; i < cfg.ExtraPatients; i++ {
		p := g.Patient()
		out.Patients = append(out.Patients, p)
		for j := 0; j < cfg.SessionsPerPatient; j++ {
			out.Sessions = append(out.Sessions, g.Session(p))
		}
	}
	return out, nil
}

// Summary counts the records in each catalog.
type Summary struct {
	Patients      int                    `json:"patients"`
	Sessions      int                    `json:"sessions"`
	Notifications int                    `json:"notifications"`
	ByStatus      map[session.Status]int `json:"sessions_by_status"`
}

func (c Catalogs) Summary() Summary {
	return Summary{
		Patients:      len(c.Patients),
		Sessions:      len(c.Sessions),
		Notifications: len(c.Notifications),
		ByStatus:      lo.CountValuesBy(c.Sessions, func(s session.Session) session.Status { return s.Status }),
	}
}

// WriteJSON writes the catalogs as one indented JSON document.
func WriteJSON(w io.Writer, c Catalogs) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// ---------------------------------------------------------------------------
// Generator
// ---------------------------------------------------------------------------

var (
	firstNames = []string{
		"Aarav", "Ananya", "Vikram", "Kavya", "Rohan", "Meera", "Arjun", "Isha",
		"Suresh", "Lakshmi", "Nikhil", "Pooja", "Karan", "Divya", "Sanjay", "Neha",
	}
	lastNames = []string{
		"Iyer", "Reddy", "Nair", "Gupta", "Singh", "Menon", "Joshi", "Desai",
		"Rao", "Chopra", "Mehta", "Pillai",
	}
	conditions = []string{
		"Chronic fatigue", "Lower back pain", "Migraine", "Digestive issues",
		"Anxiety", "Insomnia", "Joint stiffness", "Skin dryness",
	}
	goals = []string{
		"Full-body detoxification", "Stress relief and better sleep",
		"Reduce joint pain", "Improve digestion", "Weight management",
	}
	therapists = []string{"Dr. Smith", "Dr. Patel", "Dr. Rao"}
	notes      = []string{
		"Patient prefers medium pressure.",
		"Monitor blood pressure before starting.",
		"Use warm sesame oil.",
		"Patient reported improved sleep.",
		"",
	}
	feedback = []string{
		"Felt very relaxed afterwards.",
		"Good session, slight soreness.",
		"Noticeable improvement in mobility.",
	}
)

// Generator produces synthetic records. The same seed and clock always
// produce the same records.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator creates a Generator. A zero seed uses the current time.
func NewGenerator(seed int64, now time.Time) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rng: rand.New(rand.NewSource(seed)), now: now}
}

func pick[T any](g *Generator, items []T) T {
	return items[g.rng.Intn(len(items))]
}

func (g *Generator) between(from, to int) int {
	return from + g.rng.Intn(to-from+1)
}

func (g *Generator) id() uuid.UUID {
	return lo.Must(uuid.NewRandomFromReader(g.rng))
}

func (g *Generator) phone() string {
	return fmt.Sprintf("+91 9%04d %05d", g.rng.Intn(10000), g.rng.Intn(100000))
}

// Patient generates one patient whose stage and progress agree with its
// status.
func (g *Generator) Patient() patient.Patient {
	first, last := pick(g, firstNames), pick(g, lastNames)
	name := first + " " + last
	status := pick(g, patient.StatusOptions)

	p := patient.Patient{
		ID:                g.id(),
		Name:              name,
		Email:             strings.ToLower(first+"."+last) + "@example.com",
		Phone:             g.phone(),
		Age:               g.between(22, 72),
		Gender:            pick(g, patient.GenderOptions),
		CurrentConditions: pick(g, conditions),
		TherapyGoal:       pick(g, goals),
		EmergencyContact:  pick(g, firstNames) + " " + last + ", " + g.phone(),
		Therapy:           pick(g, patient.TherapyOptions),
		Status:            status,
		CreatedAt:         g.now.AddDate(0, 0, -g.between(1, 60)),
	}

	switch status {
	case patient.StatusNew:
		p.Therapy = patient.DefaultTherapy
		p.TreatmentStage = patient.DefaultTreatmentStage
		p.Stage = patient.DefaultStage
	case patient.StatusCompleted:
		p.TreatmentStage = "completed"
		p.Stage = "Completed"
		p.Progress = 100
	default:
		p.TreatmentStage = pick(g, []string{"week-1", "week-2", "week-3", "maintenance"})
		p.Stage = stageLabel(p.TreatmentStage)
		p.Progress = g.between(10, 90)
	}
	return p
}

func stageLabel(stage string) string {
	if n, ok := strings.CutPrefix(stage, "week-"); ok {
		return "Week " + n + " of 3"
	}
	return strings.ToUpper(stage[:1]) + stage[1:]
}

// Session generates one session for p within a week either side of the
// generator's clock. Past sessions are completed or rescheduled; the rest
// are upcoming.
func (g *Generator) Session(p patient.Patient) session.Session {
	therapy := pick(g, session.Therapies)
	offset := g.between(-7, 7)
	day := g.now.AddDate(0, 0, offset)

	s := session.Session{
		ID:          g.id(),
		PatientID:   p.ID,
		PatientName: p.Name,
		TherapyType: therapy.Label,
		Date:        day.Format(session.DateLayout),
		Time:        pick(g, session.TimeSlots),
		Duration:    therapy.Duration,
		Room:        pick(g, session.Rooms),
		Therapist:   pick(g, therapists),
		Status:      session.StatusUpcoming,
		Notes:       pick(g, notes),
		Checklist:   []string{},
		CreatedAt:   p.CreatedAt,
	}

	if offset < 0 {
		if g.rng.Intn(5) == 0 {
			s.Status = session.StatusRescheduled
			return s
		}
		done := day.Add(time.Duration(therapy.Duration) * time.Minute)
		s.Status = session.StatusCompleted
		s.Rating = g.between(3, 5)
		s.Feedback = pick(g, feedback)
		s.Checklist = append([]string(nil), session.ProtocolChecklist...)
		s.StartedAt = &day
		s.CompletedAt = &done
	}
	return s
}
