// Package dashboard holds the per-client view state of the clinic
// dashboard and orchestrates it against the patient, session and
// notification catalogs.
package dashboard

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/panchakarma/manager/internal/domain/notification"
	"github.com/panchakarma/manager/internal/domain/patient"
	"github.com/panchakarma/manager/internal/domain/session"
	"github.com/panchakarma/manager/internal/platform/filter"
)

// ErrSelectionRequired is returned when an action needs a selected patient
// or session and none is selected.
var ErrSelectionRequired = errors.New("selection required")

// Tab is the active dashboard tab.
type Tab string

const (
	TabDashboard     Tab = "dashboard"
	TabSchedule      Tab = "schedule"
	TabPatients      Tab = "patients"
	TabNotifications Tab = "notifications"
	TabProgress      Tab = "progress"
)

var tabs = map[Tab]bool{
	TabDashboard: true, TabSchedule: true, TabPatients: true, TabNotifications: true, TabProgress: true,
}

func (t Tab) Valid() bool { return tabs[t] }

// Modal is the open dialog. At most one is open at a time.
type Modal string

const (
	ModalNone             Modal = "none"
	ModalAddPatient       Modal = "add-patient"
	ModalScheduleSession  Modal = "schedule-session"
	ModalPatientProfile   Modal = "patient-profile"
	ModalSessionDetails   Modal = "session-details"
	ModalFilters          Modal = "filters"
	ModalAllSessions      Modal = "all-sessions"
	ModalAllNotifications Modal = "all-notifications"
)

var modals = map[Modal]bool{
	ModalNone: true, ModalAddPatient: true, ModalScheduleSession: true, ModalPatientProfile: true,
	ModalSessionDetails: true, ModalFilters: true, ModalAllSessions: true, ModalAllNotifications: true,
}

func (m Modal) Valid() bool { return modals[m] }

// State is one client's dashboard: navigation, selections, drafts and list
// queries. Catalog records are referenced by ID only.
type State struct {
	ID    uuid.UUID `json:"id"`
	Tab   Tab       `json:"tab"`
	Modal Modal     `json:"modal"`

	SelectedPatient *uuid.UUID `json:"selected_patient,omitempty"`
	SelectedSession *uuid.UUID `json:"selected_session,omitempty"`

	PatientDraft patient.Draft `json:"patient_draft"`
	SessionDraft session.Draft `json:"session_draft"`

	// Criteria is applied to the patient list; CriteriaDraft is what the
	// filter panel is editing.
	Criteria      patient.Criteria `json:"criteria"`
	CriteriaDraft patient.Criteria `json:"criteria_draft"`

	PatientSearch     string             `json:"patient_search"`
	SessionQuery      session.Query      `json:"session_query"`
	NotificationQuery notification.Query `json:"notification_query"`

	PatientSelection      filter.Selection[uuid.UUID] `json:"patient_selection"`
	NotificationSelection filter.Selection[uuid.UUID] `json:"notification_selection"`

	Completion session.Completion `json:"completion"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState returns a workspace on the dashboard tab with every draft,
// query and selection at its default.
func NewState(id uuid.UUID, now time.Time) State {
	return State{
		ID:                id,
		Tab:               TabDashboard,
		Modal:             ModalNone,
		Criteria:          patient.DefaultCriteria(),
		CriteriaDraft:     patient.DefaultCriteria(),
		SessionQuery:      session.DefaultQuery(),
		NotificationQuery: notification.DefaultQuery(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func (s *State) SetTab(t Tab) error {
	if !t.Valid() {
		return fmt.Errorf("unknown tab %q", t)
	}
	s.Tab = t
	return nil
}

// OpenModal opens m, replacing any open modal. The profile and details
// modals need a selected patient or session. The filter panel starts
// from the applied criteria.
func (s *State) OpenModal(m Modal) error {
	if !m.Valid() {
		return fmt.Errorf("unknown modal %q", m)
	}
	switch m {
	case ModalNone:
		s.CloseModal()
		return nil
	case ModalPatientProfile:
		if s.SelectedPatient == nil {
			return fmt.Errorf("open %s: %w", m, ErrSelectionRequired)
		}
	case ModalSessionDetails:
		if s.SelectedSession == nil {
			return fmt.Errorf("open %s: %w", m, ErrSelectionRequired)
		}
	case ModalFilters:
		s.CriteriaDraft = s.Criteria
	}
	s.Modal = m
	return nil
}

// CloseModal closes the open modal. Closing a form discards its draft.
func (s *State) CloseModal() {
	switch s.Modal {
	case ModalAddPatient:
		s.PatientDraft = patient.Draft{}
	case ModalScheduleSession:
		s.SessionDraft = session.Draft{}
	case ModalFilters:
		s.CriteriaDraft = s.Criteria
	case ModalSessionDetails:
		s.Completion = session.Completion{}
	}
	s.Modal = ModalNone
}

func (s *State) SelectPatient(id uuid.UUID) {
	s.SelectedPatient = &id
}

// SelectSession selects sess and starts a fresh completion from it.
func (s *State) SelectSession(sess session.Session) {
	id := sess.ID
	s.SelectedSession = &id
	s.Completion = session.NewCompletion(sess)
}

func (s *State) ClearSelection() {
	s.SelectedPatient = nil
	s.SelectedSession = nil
	s.Completion = session.Completion{}
	if s.Modal == ModalPatientProfile || s.Modal == ModalSessionDetails {
		s.Modal = ModalNone
	}
}

// ApplyCriteria copies the filter panel draft to the applied criteria and
// closes the panel. An invalid draft changes nothing.
func (s *State) ApplyCriteria() error {
	if err := s.CriteriaDraft.Validate(); err != nil {
		return err
	}
	s.Criteria = s.CriteriaDraft
	if s.Modal == ModalFilters {
		s.Modal = ModalNone
	}
	return nil
}

// ClearCriteria resets both the draft and the applied criteria.
func (s *State) ClearCriteria() {
	s.Criteria = patient.DefaultCriteria()
	s.CriteriaDraft = patient.DefaultCriteria()
}

// PatientQuery is the query the patient list is built from.
func (s State) PatientQuery() patient.Query {
	return patient.Query{Search: s.PatientSearch, Criteria: s.Criteria}
}
