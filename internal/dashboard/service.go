package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/panchakarma/manager/internal/domain/notification"
	"github.com/panchakarma/manager/internal/domain/patient"
	"github.com/panchakarma/manager/internal/domain/session"
	"github.com/panchakarma/manager/internal/platform/view"
)

// Target names a multi-select list.
type Target string

const (
	TargetPatients      Target = "patients"
	TargetNotifications Target = "notifications"
)

// DraftKind names a form whose draft can be cancelled.
type DraftKind string

const (
	DraftPatient  DraftKind = "patient"
	DraftSession  DraftKind = "session"
	DraftCriteria DraftKind = "filters"
)

// View is a workspace rendered against the current catalogs.
type View struct {
	State         State                                  `json:"state"`
	Patients      view.Result[patient.Patient]           `json:"patients"`
	Sessions      view.Result[session.Session]           `json:"sessions"`
	Notifications view.Result[notification.Notification] `json:"notifications"`
	Patient       *patient.Patient                       `json:"patient,omitempty"`
	Session       *session.Session                       `json:"session,omitempty"`
}

// CompletionPatch edits the completion of the selected session. Nil
// fields are left alone.
type CompletionPatch struct {
	Notes    *string `json:"notes"`
	Feedback *string `json:"feedback"`
	Rating   *int    `json:"rating"`
}

type Service struct {
	registry      *Registry
	patients      *patient.Service
	sessions      *session.Service
	notifications *notification.Service
	logger        zerolog.Logger
	now           func() time.Time
}

func (s *Service) SetClock(now func() time.Time) { s.now = now }

func NewService(
	registry *Registry,
	patients *patient.Service,
	sessions *session.Service,
	notifications *notification.Service,
	logger zerolog.Logger,
) *Service {
	return &Service{
		registry:      registry,
		patients:      patients,
		sessions:      sessions,
		notifications: notifications,
		logger:        logger.With().Str("component", "dashboard").Logger(),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Create opens a new workspace.
func (s *Service) Create(_ context.Context) (State, error) {
	st := NewState(uuid.New(), s.now())
	if err := s.registry.Add(st); err != nil {
		return State{}, err
	}
	s.logger.Debug().Str("workspace_id", st.ID.String()).Int("open", s.registry.Len()).Msg("workspace created")
	return st, nil
}

func (s *Service) Get(_ context.Context, id uuid.UUID) (State, error) {
	return s.registry.Get(id)
}

func (s *Service) Delete(_ context.Context, id uuid.UUID) error {
	return s.registry.Delete(id)
}

// update runs fn on the workspace and stamps UpdatedAt on success.
func (s *Service) update(id uuid.UUID, fn func(*State) error) (State, error) {
	return s.registry.Update(id, func(st *State) error {
		if err := fn(st); err != nil {
			return err
		}
		st.UpdatedAt = s.now()
		return nil
	})
}

// Render builds every list view the workspace shows, plus the selected
// patient and session when they still exist.
func (s *Service) Render(ctx context.Context, id uuid.UUID) (View, error) {
	st, err := s.registry.Get(id)
	if err != nil {
		return View{}, err
	}

	patients, err := s.patients.List(ctx, st.PatientQuery())
	if err != nil {
		return View{}, err
	}
	sessions, err := s.sessions.List(ctx, st.SessionQuery)
	if err != nil {
		return View{}, err
	}
	notifications, err := s.notifications.List(ctx, st.NotificationQuery)
	if err != nil {
		return View{}, err
	}

	v := View{
		State:         st,
		Patients:      patients.WithSelected(st.PatientSelection.Len()),
		Sessions:      sessions,
		Notifications: notifications.WithSelected(st.NotificationSelection.Len()),
	}
	if st.SelectedPatient != nil {
		if p, err := s.patients.Get(ctx, *st.SelectedPatient); err == nil {
			v.Patient = &p
		}
	}
	if st.SelectedSession != nil {
		if sess, err := s.sessions.Get(ctx, *st.SelectedSession); err == nil {
			v.Session = &sess
		}
	}
	return v, nil
}

func (s *Service) SetTab(_ context.Context, id uuid.UUID, t Tab) (State, error) {
	return s.update(id, func(st *State) error { return st.SetTab(t) })
}

func (s *Service) OpenModal(_ context.Context, id uuid.UUID, m Modal) (State, error) {
	return s.update(id, func(st *State) error { return st.OpenModal(m) })
}

func (s *Service) CloseModal(_ context.Context, id uuid.UUID) (State, error) {
	return s.update(id, func(st *State) error {
		st.CloseModal()
		return nil
	})
}

// SelectPatient selects an existing patient.
func (s *Service) SelectPatient(ctx context.Context, id, patientID uuid.UUID) (State, error) {
	return s.update(id, func(st *State) error {
		if _, err := s.patients.Get(ctx, patientID); err != nil {
			return err
		}
		st.SelectPatient(patientID)
		return nil
	})
}

// SelectSession selects an existing session and starts its completion.
func (s *Service) SelectSession(ctx context.Context, id, sessionID uuid.UUID) (State, error) {
	return s.update(id, func(st *State) error {
		sess, err := s.sessions.Get(ctx, sessionID)
		if err != nil {
			return err
		}
		st.SelectSession(sess)
		return nil
	})
}

func (s *Service) ClearSelection(_ context.Context, id uuid.UUID) (State, error) {
	return s.update(id, func(st *State) error {
		st.ClearSelection()
		return nil
	})
}

// PatchPatientDraft sets several add-patient fields at once.
func (s *Service) PatchPatientDraft(_ context.Context, id uuid.UUID, values map[string]string) (State, error) {
	return s.update(id, func(st *State) error {
		d, err := st.PatientDraft.Apply(values)
		if err != nil {
			return err
		}
		st.PatientDraft = d
		return nil
	})
}

// SubmitPatientDraft adds the drafted patient, then resets the draft and
// closes the form. On failure the workspace is unchanged.
func (s *Service) SubmitPatientDraft(ctx context.Context, id uuid.UUID) (State, patient.Patient, error) {
	var created patient.Patient
	st, err := s.update(id, func(st *State) error {
		p, err := s.patients.Submit(ctx, st.PatientDraft)
		if err != nil {
			return err
		}
		created = p
		st.PatientDraft = patient.Draft{}
		if st.Modal == ModalAddPatient {
			st.Modal = ModalNone
		}
		return nil
	})
	return st, created, err
}

// PatchSessionDraft sets several schedule-session fields at once. A
// patient_id fills in the patient name from the patient catalog.
func (s *Service) PatchSessionDraft(ctx context.Context, id uuid.UUID, values map[string]string) (State, error) {
	return s.update(id, func(st *State) error {
		d, err := st.SessionDraft.Apply(values)
		if err != nil {
			return err
		}
		if _, ok := values["patient_id"]; ok {
			if d, err = s.sessions.SelectPatient(ctx, d, d.PatientID); err != nil {
				return err
			}
		}
		st.SessionDraft = d
		return nil
	})
}

// SubmitSessionDraft schedules the drafted session, then resets the draft
// and closes the form. On failure the workspace is unchanged.
func (s *Service) SubmitSessionDraft(ctx context.Context, id uuid.UUID) (State, session.Session, error) {
	var created session.Session
	st, err := s.update(id, func(st *State) error {
		sess, err := s.sessions.Submit(ctx, st.SessionDraft)
		if err != nil {
			return err
		}
		created = sess
		st.SessionDraft = session.Draft{}
		if st.Modal == ModalScheduleSession {
			st.Modal = ModalNone
		}
		return nil
	})
	return st, created, err
}

// CancelDraft discards one draft without touching any catalog.
func (s *Service) CancelDraft(_ context.Context, id uuid.UUID, kind DraftKind) (State, error) {
	return s.update(id, func(st *State) error {
		switch kind {
		case DraftPatient:
			st.PatientDraft = patient.Draft{}
		case DraftSession:
			st.SessionDraft = session.Draft{}
		case DraftCriteria:
			st.CriteriaDraft = st.Criteria
		default:
			return fmt.Errorf("unknown draft %q", kind)
		}
		return nil
	})
}

// SetCriteriaDraft replaces the filter panel draft. Nothing is applied
// until ApplyCriteria.
func (s *Service) SetCriteriaDraft(_ context.Context, id uuid.UUID, c patient.Criteria) (State, error) {
	return s.update(id, func(st *State) error {
		if c.TherapyTypes == nil {
			c.TherapyTypes = []string{}
		}
		st.CriteriaDraft = c
		return nil
	})
}

func (s *Service) ToggleCriteriaTherapy(_ context.Context, id uuid.UUID, therapy string) (State, error) {
	return s.update(id, func(st *State) error {
		st.CriteriaDraft = st.CriteriaDraft.ToggleTherapy(therapy)
		return nil
	})
}

func (s *Service) ApplyCriteria(ctx context.Context, id uuid.UUID) (State, error) {
	return s.update(id, func(st *State) error {
		if err := st.ApplyCriteria(); err != nil {
			return err
		}
		return s.retainPatients(ctx, st)
	})
}

func (s *Service) ClearCriteria(ctx context.Context, id uuid.UUID) (State, error) {
	return s.update(id, func(st *State) error {
		st.ClearCriteria()
		return s.retainPatients(ctx, st)
	})
}

func (s *Service) SetPatientSearch(ctx context.Context, id uuid.UUID, term string) (State, error) {
	return s.update(id, func(st *State) error {
		st.PatientSearch = term
		return s.retainPatients(ctx, st)
	})
}

func (s *Service) SetSessionQuery(_ context.Context, id uuid.UUID, q session.Query) (State, error) {
	return s.update(id, func(st *State) error {
		st.SessionQuery = q
		return nil
	})
}

func (s *Service) SetNotificationQuery(ctx context.Context, id uuid.UUID, q notification.Query) (State, error) {
	return s.update(id, func(st *State) error {
		st.NotificationQuery = q
		return s.retainNotifications(ctx, st)
	})
}

func (s *Service) visiblePatients(ctx context.Context, st *State) ([]uuid.UUID, error) {
	res, err := s.patients.List(ctx, st.PatientQuery())
	if err != nil {
		return nil, err
	}
	return lo.Map(res.Items, func(p patient.Patient, _ int) uuid.UUID { return p.ID }), nil
}

func (s *Service) visibleNotifications(ctx context.Context, st *State) ([]uuid.UUID, error) {
	res, err := s.notifications.List(ctx, st.NotificationQuery)
	if err != nil {
		return nil, err
	}
	return lo.Map(res.Items, func(n notification.Notification, _ int) uuid.UUID { return n.ID }), nil
}

// retainPatients drops selected patients that the list no longer shows.
func (s *Service) retainPatients(ctx context.Context, st *State) error {
	ids, err := s.visiblePatients(ctx, st)
	if err != nil {
		return err
	}
	st.PatientSelection.Retain(ids)
	return nil
}

func (s *Service) retainNotifications(ctx context.Context, st *State) error {
	ids, err := s.visibleNotifications(ctx, st)
	if err != nil {
		return err
	}
	st.NotificationSelection.Retain(ids)
	return nil
}

// ToggleSelection ticks or unticks one row of a list.
func (s *Service) ToggleSelection(_ context.Context, id uuid.UUID, target Target, key uuid.UUID) (State, error) {
	return s.update(id, func(st *State) error {
		switch target {
		case TargetPatients:
			st.PatientSelection.Toggle(key)
		case TargetNotifications:
			st.NotificationSelection.Toggle(key)
		default:
			return fmt.Errorf("unknown selection target %q", target)
		}
		return nil
	})
}

// SelectAll selects every row the list currently shows, or clears the
// selection when all of them are already selected.
func (s *Service) SelectAll(ctx context.Context, id uuid.UUID, target Target) (State, error) {
	return s.update(id, func(st *State) error {
		switch target {
		case TargetPatients:
			ids, err := s.visiblePatients(ctx, st)
			if err != nil {
				return err
			}
			st.PatientSelection.SelectAll(ids)
		case TargetNotifications:
			ids, err := s.visibleNotifications(ctx, st)
			if err != nil {
				return err
			}
			st.NotificationSelection.SelectAll(ids)
		default:
			return fmt.Errorf("unknown selection target %q", target)
		}
		return nil
	})
}

func (s *Service) ClearSelected(_ context.Context, id uuid.UUID, target Target) (State, error) {
	return s.update(id, func(st *State) error {
		switch target {
		case TargetPatients:
			st.PatientSelection.Clear()
		case TargetNotifications:
			st.NotificationSelection.Clear()
		default:
			return fmt.Errorf("unknown selection target %q", target)
		}
		return nil
	})
}

// MarkSelectedRead marks the selected notifications read and clears the
// selection.
func (s *Service) MarkSelectedRead(ctx context.Context, id uuid.UUID) (State, notification.MarkResult, error) {
	var res notification.MarkResult
	st, err := s.update(id, func(st *State) error {
		if st.NotificationSelection.Len() == 0 {
			return fmt.Errorf("mark read: %w", ErrSelectionRequired)
		}
		r, err := s.notifications.MarkRead(ctx, st.NotificationSelection.Keys())
		if err != nil {
			return err
		}
		res = r
		st.NotificationSelection.Clear()
		return nil
	})
	return st, res, err
}

// ToggleChecklist ticks or unticks a protocol item for the selected
// session.
func (s *Service) ToggleChecklist(_ context.Context, id uuid.UUID, item string) (State, error) {
	return s.update(id, func(st *State) error {
		if st.SelectedSession == nil {
			return fmt.Errorf("toggle checklist: %w", ErrSelectionRequired)
		}
		c, err := st.Completion.ToggleChecklist(item)
		if err != nil {
			return err
		}
		st.Completion = c
		return nil
	})
}

func (s *Service) PatchCompletion(_ context.Context, id uuid.UUID, patch CompletionPatch) (State, error) {
	return s.update(id, func(st *State) error {
		if st.SelectedSession == nil {
			return fmt.Errorf("edit completion: %w", ErrSelectionRequired)
		}
		c := st.Completion
		if patch.Rating != nil {
			var err error
			if c, err = c.SetRating(*patch.Rating); err != nil {
				return err
			}
		}
		if patch.Notes != nil {
			c.Notes = *patch.Notes
		}
		if patch.Feedback != nil {
			c.Feedback = *patch.Feedback
		}
		st.Completion = c
		return nil
	})
}

// StartSelectedSession starts the selected session.
func (s *Service) StartSelectedSession(ctx context.Context, id uuid.UUID) (State, session.Session, error) {
	var started session.Session
	st, err := s.update(id, func(st *State) error {
		if st.SelectedSession == nil {
			return fmt.Errorf("start session: %w", ErrSelectionRequired)
		}
		sess, err := s.sessions.Start(ctx, *st.SelectedSession)
		if err != nil {
			return err
		}
		started = sess
		return nil
	})
	return st, started, err
}

// CompleteSelectedSession completes the selected session with the
// workspace's completion and starts a fresh completion from the result.
func (s *Service) CompleteSelectedSession(ctx context.Context, id uuid.UUID) (State, session.Session, error) {
	var done session.Session
	st, err := s.update(id, func(st *State) error {
		if st.SelectedSession == nil {
			return fmt.Errorf("complete session: %w", ErrSelectionRequired)
		}
		sess, err := s.sessions.Complete(ctx, *st.SelectedSession, st.Completion)
		if err != nil {
			return err
		}
		done = sess
		st.Completion = session.NewCompletion(sess)
		return nil
	})
	return st, done, err
}

// Stats summarises the catalogs for the stats cards.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	patients, err := s.patients.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	sessions, err := s.sessions.All(ctx)
	if err != nil {
		return Stats{}, err
	}
	unread, err := s.notifications.UnreadCount(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(patients, sessions, unread, s.now()), nil
}

func (s *Service) Progress(ctx context.Context) (ProgressReport, error) {
	patients, err := s.patients.All(ctx)
	if err != nil {
		return ProgressReport{}, err
	}
	sessions, err := s.sessions.All(ctx)
	if err != nil {
		return ProgressReport{}, err
	}
	return ComputeProgress(patients, sessions), nil
}
