package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/panchakarma/manager/internal/platform/filter"
	"github.com/panchakarma/manager/internal/platform/form"
	"github.com/panchakarma/manager/internal/platform/view"
	"github.com/panchakarma/manager/internal/platform/websocket"
)

// ActivitySource reports per-patient session activity as of now.
type ActivitySource interface {
	PatientActivity(ctx context.Context, now time.Time) (map[uuid.UUID]Activity, error)
}

// Query is the patient list state: the search box plus applied criteria.
type Query struct {
	Search   string   `json:"search"`
	Criteria Criteria `json:"criteria"`
}

// DefaultQuery returns an empty search with default criteria.
func DefaultQuery() Query {
	return Query{Criteria: DefaultCriteria()}
}

type Service struct {
	repo     Repository
	logger   zerolog.Logger
	activity ActivitySource
	pub      websocket.EventPublisher
	now      func() time.Time
}

func (s *Service) SetActivitySource(a ActivitySource)      { s.activity = a }
func (s *Service) SetPublisher(p websocket.EventPublisher) { s.pub = p }
func (s *Service) SetClock(now func() time.Time)           { s.now = now }

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "patient").Logger(),
		pub:    websocket.Discard{},
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Submit validates the draft and appends a new patient with a fresh ID.
// Nothing is stored when a required field is missing.
func (s *Service) Submit(ctx context.Context, d Draft) (Patient, error) {
	if err := d.Validate(); err != nil {
		return Patient{}, err
	}
	p := d.Build(uuid.New(), s.now())
	if err := s.repo.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	s.logger.Info().Str("patient_id", p.ID.String()).Msg("patient added")
	s.publish(ctx, "patient.created", p)
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Patient, error) {
	return s.repo.GetByID(ctx, id)
}

// Replace swaps the stored record for p as a whole. A zero CreatedAt keeps
// the stored value.
func (s *Service) Replace(ctx context.Context, p Patient) error {
	if err := form.Required(
		form.Field{Name: "name", Value: p.Name},
		form.Field{Name: "email", Value: p.Email},
		form.Field{Name: "phone", Value: p.Phone},
	); err != nil {
		return err
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	if p.Progress < 0 || p.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100, got %d", p.Progress)
	}

	existing, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = existing.CreatedAt
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.logger.Info().Str("patient_id", p.ID.String()).Msg("patient updated")
	s.publish(ctx, "patient.updated", p)
	return nil
}

// All returns the catalog in insertion order.
func (s *Service) All(ctx context.Context) ([]Patient, error) {
	return s.repo.List(ctx)
}

// List builds the patient view for q.
func (s *Service) List(ctx context.Context, q Query) (view.Result[Patient], error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return view.Result[Patient]{}, err
	}

	now := s.now()
	activity := map[uuid.UUID]Activity{}
	if s.activity != nil && (q.Criteria.lastSessionActive() || q.Criteria.UpcomingOnly) {
		if activity, err = s.activity.PatientActivity(ctx, now); err != nil {
			return view.Result[Patient]{}, fmt.Errorf("patient activity: %w", err)
		}
	}

	res := view.Build(items, func(p Patient) bool {
		return MatchesSearch(p, q.Search) && q.Criteria.Matches(p, activity[p.ID], now)
	})
	return res.WithActiveFilters(q.Criteria.ActiveCount()), nil
}

// FilterOptions describes the controls of the filter panel.
type FilterOptions struct {
	Therapies       []string     `json:"therapies"`
	Statuses        []Status     `json:"statuses"`
	Genders         []string     `json:"genders"`
	Stages          []string     `json:"stages"`
	Progress        filter.Range `json:"progress"`
	Age             filter.Range `json:"age"`
	LastSessionDays filter.Range `json:"last_session_days"`
	Defaults        Criteria     `json:"defaults"`
}

func (s *Service) FilterOptions() FilterOptions {
	return FilterOptions{
		Therapies:       TherapyOptions,
		Statuses:        StatusOptions,
		Genders:         GenderOptions,
		Stages:          StageOptions,
		Progress:        filter.Range{Min: 0, Max: 100},
		Age:             filter.Range{Min: MinAge, Max: MaxAge},
		LastSessionDays: filter.Range{Min: 1, Max: MaxLastSessionDays},
		Defaults:        DefaultCriteria(),
	}
}

func (s *Service) publish(ctx context.Context, eventType string, p Patient) {
	ev := websocket.NewEvent(websocket.TopicPatients, eventType, p.ID.String(), p)
	if err := s.pub.Publish(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Str("event", eventType).Msg("publish failed")
	}
}
