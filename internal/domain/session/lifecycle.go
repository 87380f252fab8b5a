package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/panchakarma/manager/internal/platform/filter"
)

// ErrInvalidTransition is returned when an action is not allowed from the
// session's current status.
var ErrInvalidTransition = errors.New("invalid session transition")

// MaxRating is the top of the rating scale. A rating of 0 means none.
const MaxRating = 5

func transitionError(action string, from Status) error {
	return fmt.Errorf("%s from %s: %w", action, from, ErrInvalidTransition)
}

// Start moves an upcoming session to ongoing and stamps StartedAt.
func Start(s Session, now time.Time) (Session, error) {
	if s.Status != StatusUpcoming {
		return s, transitionError("start", s.Status)
	}
	s.Status = StatusOngoing
	s.StartedAt = &now
	return s, nil
}

// Complete moves an ongoing session to completed, recording what was
// captured during it, and stamps CompletedAt. A zero Completion is valid.
func Complete(s Session, c Completion, now time.Time) (Session, error) {
	if s.Status != StatusOngoing {
		return s, transitionError("complete", s.Status)
	}
	if err := c.Validate(); err != nil {
		return s, err
	}
	s.Status = StatusCompleted
	s.Checklist = c.Checklist.Keys()
	s.Notes = c.Notes
	s.Feedback = c.Feedback
	s.Rating = c.Rating
	s.CompletedAt = &now
	return s, nil
}

// CheckReschedule reports whether rescheduling is offered for s. Only
// upcoming sessions qualify. Rescheduling itself changes nothing.
func CheckReschedule(s Session) error {
	if s.Status != StatusUpcoming {
		return transitionError("reschedule", s.Status)
	}
	return nil
}

// Completion collects what is recorded while a session is ongoing.
type Completion struct {
	Checklist filter.Selection[string] `json:"checklist"`
	Notes     string                   `json:"notes"`
	Feedback  string                   `json:"feedback"`
	Rating    int                      `json:"rating"`
}

// NewCompletion starts a completion from the session's current notes.
func NewCompletion(s Session) Completion {
	return Completion{
		Checklist: *filter.NewSelection(s.Checklist...),
		Notes:     s.Notes,
	}
}

// ToggleChecklist ticks or unticks one protocol checklist item.
func (c Completion) ToggleChecklist(item string) (Completion, error) {
	if !lo.Contains(ProtocolChecklist, item) {
		return c, fmt.Errorf("unknown checklist item: %q", item)
	}
	c.Checklist.Toggle(item)
	return c, nil
}

// SetRating sets the rating; 0 clears it.
func (c Completion) SetRating(rating int) (Completion, error) {
	if rating < 0 || rating > MaxRating {
		return c, fmt.Errorf("rating must be between 0 and %d, got %d", MaxRating, rating)
	}
	c.Rating = rating
	return c, nil
}

func (c Completion) Validate() error {
	if c.Rating < 0 || c.Rating > MaxRating {
		return fmt.Errorf("rating must be between 0 and %d, got %d", MaxRating, c.Rating)
	}
	for _, item := range c.Checklist.Keys() {
		if !lo.Contains(ProtocolChecklist, item) {
			return fmt.Errorf("unknown checklist item: %q", item)
		}
	}
	return nil
}
