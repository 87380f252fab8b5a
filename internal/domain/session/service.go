package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/panchakarma/manager/internal/domain/patient"
	"github.com/panchakarma/manager/internal/platform/form"
	"github.com/panchakarma/manager/internal/platform/view"
	"github.com/panchakarma/manager/internal/platform/websocket"
)

// ErrUnknownPatient is returned when a draft references a patient that is
// not in the patient catalog.
var ErrUnknownPatient = errors.New("unknown patient")

// PatientDirectory resolves patient references.
type PatientDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (patient.Patient, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	logger   zerolog.Logger
	pub      websocket.EventPublisher
	now      func() time.Time
}

func (s *Service) SetPublisher(p websocket.EventPublisher) { s.pub = p }
func (s *Service) SetClock(now func() time.Time)           { s.now = now }

func NewService(repo Repository, patients PatientDirectory, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		logger:   logger.With().Str("component", "session").Logger(),
		pub:      websocket.Discard{},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SelectPatient links the draft to a patient and fills in the name.
func (s *Service) SelectPatient(ctx context.Context, d Draft, id uuid.UUID) (Draft, error) {
	p, err := s.resolvePatient(ctx, id)
	if err != nil {
		return d, fmt.Errorf("select patient: %w", err)
	}
	d.PatientID = p.ID
	d.PatientName = p.Name
	return d, nil
}

func (s *Service) resolvePatient(ctx context.Context, id uuid.UUID) (patient.Patient, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return patient.Patient{}, fmt.Errorf("%s: %w", id, ErrUnknownPatient)
		}
		return patient.Patient{}, err
	}
	return p, nil
}

// Submit validates the draft and appends an upcoming session with a fresh
// ID. The patient name is taken from the catalog, never from the draft.
func (s *Service) Submit(ctx context.Context, d Draft) (Session, error) {
	if err := d.Validate(); err != nil {
		return Session{}, err
	}
	p, err := s.resolvePatient(ctx, d.PatientID)
	if err != nil {
		return Session{}, fmt.Errorf("submit session: %w", err)
	}
	d.PatientName = p.Name

	sess := d.Build(uuid.New(), s.now())
	if err := s.repo.Create(ctx, sess); err != nil {
		return Session{}, err
	}
	s.logger.Info().
		Str("session_id", sess.ID.String()).
		Str("therapy", sess.TherapyType).
		Str("date", sess.Date).
		Msg("session scheduled")
	s.publish(ctx, "session.created", sess)
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Session, error) {
	return s.repo.GetByID(ctx, id)
}

// Replace swaps the stored session in place. A zero CreatedAt keeps the
// stored value and the patient name is refreshed from the catalog.
func (s *Service) Replace(ctx context.Context, sess Session) error {
	if err := form.Required(
		form.Field{Name: "patient", Value: patientKey(sess.PatientID)},
		form.Field{Name: "therapy_type", Value: sess.TherapyType},
		form.Field{Name: "date", Value: sess.Date},
		form.Field{Name: "time", Value: sess.Time},
		form.Field{Name: "room", Value: sess.Room},
	); err != nil {
		return err
	}
	if err := checkDate(sess.Date); err != nil {
		return err
	}
	if !sess.Status.Valid() {
		return fmt.Errorf("invalid status: %s", sess.Status)
	}
	if sess.Rating < 0 || sess.Rating > MaxRating {
		return fmt.Errorf("rating must be between 0 and %d, got %d", MaxRating, sess.Rating)
	}
	if sess.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %d", sess.Duration)
	}

	existing, err := s.repo.GetByID(ctx, sess.ID)
	if err != nil {
		return err
	}
	p, err := s.resolvePatient(ctx, sess.PatientID)
	if err != nil {
		return fmt.Errorf("replace session %s: %w", sess.ID, err)
	}
	sess.PatientName = p.Name
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = existing.CreatedAt
	}
	if sess.Checklist == nil {
		sess.Checklist = []string{}
	}
	if err := s.repo.Update(ctx, sess); err != nil {
		return err
	}
	s.publish(ctx, "session.updated", sess)
	return nil
}

// Start moves an upcoming session to ongoing.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (Session, error) {
	now := s.now()
	sess, err := s.repo.Modify(ctx, id, func(cur *Session) error {
		next, err := Start(*cur, now)
		if err != nil {
			return err
		}
		*cur = next
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	s.logger.Info().Str("session_id", id.String()).Msg("session started")
	s.publish(ctx, "session.started", sess)
	return sess, nil
}

// Complete moves an ongoing session to completed with c recorded.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, c Completion) (Session, error) {
	now := s.now()
	sess, err := s.repo.Modify(ctx, id, func(cur *Session) error {
		next, err := Complete(*cur, c, now)
		if err != nil {
			return err
		}
		*cur = next
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	s.logger.Info().
		Str("session_id", id.String()).
		Int("rating", sess.Rating).
		Int("checklist", len(sess.Checklist)).
		Msg("session completed")
	s.publish(ctx, "session.completed", sess)
	return sess, nil
}

// Reschedule acknowledges a reschedule request for an upcoming session.
// The session is returned unchanged; moving it is not supported.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID) (Session, error) {
	sess, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if err := CheckReschedule(sess); err != nil {
		return Session{}, err
	}
	s.logger.Info().Str("session_id", id.String()).Msg("reschedule requested, session left unchanged")
	return sess, nil
}

func (s *Service) All(ctx context.Context) ([]Session, error) {
	return s.repo.List(ctx)
}

// List builds the session view for q.
func (s *Service) List(ctx context.Context, q Query) (view.Result[Session], error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return view.Result[Session]{}, err
	}
	return view.Build(items, q.Matches).WithActiveFilters(q.ActiveCount()), nil
}

// TherapyFacets lists the therapies present in the catalog in first-seen
// order, for the therapy selector.
func (s *Service) TherapyFacets(ctx context.Context) ([]string, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return view.Facets(items, func(sess Session) string { return sess.TherapyType }), nil
}

// PatientActivity summarises the catalog per linked patient: the day of
// the latest completed session and whether any session is upcoming.
func (s *Service) PatientActivity(ctx context.Context, _ time.Time) (map[uuid.UUID]patient.Activity, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]patient.Activity)
	for _, sess := range items {
		if sess.PatientID == uuid.Nil {
			continue
		}
		act := out[sess.PatientID]
		switch sess.Status {
		case StatusUpcoming:
			act.HasUpcoming = true
		case StatusCompleted:
			if day, ok := sess.Day(); ok && (act.LastSessionAt == nil || day.After(*act.LastSessionAt)) {
				act.LastSessionAt = &day
			}
		}
		out[sess.PatientID] = act
	}
	return out, nil
}

// Options lists the choices offered by the schedule-session form.
type Options struct {
	Therapies []Therapy `json:"therapies"`
	TimeSlots []string  `json:"time_slots"`
	Rooms     []string  `json:"rooms"`
	Checklist []string  `json:"checklist"`
	Statuses  []Status  `json:"statuses"`
	Catalog   []string  `json:"catalog_therapies"`
}

func (s *Service) Options(ctx context.Context) (Options, error) {
	facets, err := s.TherapyFacets(ctx)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Therapies: Therapies,
		TimeSlots: TimeSlots,
		Rooms:     Rooms,
		Checklist: ProtocolChecklist,
		Statuses:  []Status{StatusUpcoming, StatusOngoing, StatusCompleted, StatusRescheduled},
		Catalog:   facets,
	}, nil
}

func (s *Service) publish(ctx context.Context, eventType string, sess Session) {
	ev := websocket.NewEvent(websocket.TopicSessions, eventType, sess.ID.String(), sess)
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish failed")
	}
}
