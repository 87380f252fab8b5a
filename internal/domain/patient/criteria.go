package patient

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/panchakarma/manager/internal/platform/filter"
)

// Bounds of the filter panel controls.
const (
	MinAge                 = 18
	MaxAge                 = 80
	DefaultLastSessionDays = 30
	MaxLastSessionDays     = 365
)

// Criteria is the filter panel configuration applied to the patient list.
// Each dimension restricts the list only while it differs from its default.
type Criteria struct {
	TherapyTypes    []string     `json:"therapy_types"`
	Status          string       `json:"status"`
	Progress        filter.Range `json:"progress"`
	Age             filter.Range `json:"age"`
	Gender          string       `json:"gender"`
	TreatmentStage  string       `json:"treatment_stage"`
	LastSessionDays int          `json:"last_session_days"`
	UpcomingOnly    bool         `json:"upcoming_only"`
}

// DefaultCriteria returns criteria that match every patient.
func DefaultCriteria() Criteria {
	return Criteria{
		TherapyTypes:    []string{},
		Status:          filter.All,
		Progress:        filter.Range{Min: 0, Max: 100},
		Age:             filter.Range{Min: MinAge, Max: MaxAge},
		Gender:          filter.All,
		TreatmentStage:  filter.All,
		LastSessionDays: DefaultLastSessionDays,
	}
}

// Activity is what the session catalog knows about a patient.
type Activity struct {
	LastSessionAt *time.Time `json:"last_session_at,omitempty"`
	HasUpcoming   bool       `json:"has_upcoming"`
}

func (c Criteria) progressActive() bool {
	return c.Progress != filter.Range{Min: 0, Max: 100}
}

func (c Criteria) ageActive() bool {
	return c.Age != filter.Range{Min: MinAge, Max: MaxAge}
}

func (c Criteria) lastSessionActive() bool {
	return c.LastSessionDays != DefaultLastSessionDays
}

// ActiveCount returns the number of dimensions that differ from their
// defaults.
func (c Criteria) ActiveCount() int {
	return lo.Count([]bool{
		len(c.TherapyTypes) > 0,
		!filter.IsAll(c.Status),
		c.progressActive(),
		c.ageActive(),
		!filter.IsAll(c.Gender),
		!filter.IsAll(c.TreatmentStage),
		c.lastSessionActive(),
		c.UpcomingOnly,
	}, true)
}

// Matches reports whether p satisfies every active dimension. act carries
// the patient's session activity; now anchors the last-session window.
func (c Criteria) Matches(p Patient, act Activity, now time.Time) bool {
	if !filter.AnyOf(c.TherapyTypes, p.Therapy) {
		return false
	}
	if !filter.Equal(c.Status, string(p.Status)) {
		return false
	}
	if c.progressActive() && !c.Progress.Contains(p.Progress) {
		return false
	}
	if c.ageActive() && !c.Age.Contains(p.Age) {
		return false
	}
	if !filter.Equal(c.Gender, p.Gender) {
		return false
	}
	if !filter.Equal(c.TreatmentStage, p.TreatmentStage) {
		return false
	}
	if c.lastSessionActive() && !withinDays(act.LastSessionAt, c.LastSessionDays, now) {
		return false
	}
	if c.UpcomingOnly && !act.HasUpcoming {
		return false
	}
	return true
}

// withinDays reports whether the calendar day of t is no more than days
// before the calendar day of now.
func withinDays(t *time.Time, days int, now time.Time) bool {
	if t == nil {
		return false
	}
	cutoff := startOfDay(now).AddDate(0, 0, -days)
	return !startOfDay(*t).Before(cutoff)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// MatchesSearch reports whether term occurs in the patient's name or
// therapy.
func MatchesSearch(p Patient, term string) bool {
	return filter.Search(term, p.Name, p.Therapy)
}

// ToggleTherapy adds or removes a therapy from the set, returning new
// criteria. Toggling the same therapy twice restores the original set.
func (c Criteria) ToggleTherapy(therapy string) Criteria {
	if lo.Contains(c.TherapyTypes, therapy) {
		c.TherapyTypes = lo.Without(c.TherapyTypes, therapy)
		return c
	}
	c.TherapyTypes = append(append([]string{}, c.TherapyTypes...), therapy)
	return c
}

// Validate checks the criteria against the filter panel bounds.
func (c Criteria) Validate() error {
	if !filter.IsAll(c.Status) && !Status(c.Status).Valid() {
		return fmt.Errorf("invalid status: %s", c.Status)
	}
	if !c.Progress.Valid(0, 100) {
		return fmt.Errorf("invalid progress range: [%d, %d]", c.Progress.Min, c.Progress.Max)
	}
	if !c.Age.Valid(MinAge, MaxAge) {
		return fmt.Errorf("invalid age range: [%d, %d]", c.Age.Min, c.Age.Max)
	}
	if !filter.IsAll(c.Gender) && !lo.Contains(GenderOptions, c.Gender) {
		return fmt.Errorf("invalid gender: %s", c.Gender)
	}
	if !filter.IsAll(c.TreatmentStage) && !lo.Contains(StageOptions, c.TreatmentStage) {
		return fmt.Errorf("invalid treatment stage: %s", c.TreatmentStage)
	}
	if c.LastSessionDays < 1 || c.LastSessionDays > MaxLastSessionDays {
		return fmt.Errorf("invalid last session days: %d", c.LastSessionDays)
	}
	return nil
}
