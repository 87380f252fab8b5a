package dashboard

import (
	"reflect"
	"testing"

	"github.com/panchakarma/manager/internal/domain/patient"
	"github.com/panchakarma/manager/internal/domain/session"
)

func TestComputeStats_Samples(t *testing.T) {
	got := ComputeStats(patient.Samples(testNow), session.Samples(testNow), 3, testNow)
	want := Stats{
		TotalPatients:       3,
		NewPatients:         0,
		TodaySessions:       1,
		InProgress:          0,
		CompletedSessions:   3,
		CompletionRate:      100,
		AverageRating:       4.5,
		Reviews:             2,
		UnreadNotifications: 3,
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	got := ComputeStats(nil, nil, 0, testNow)
	if got != (Stats{}) {
		t.Errorf("expected zero stats, got %+v", got)
	}
}

func TestComputeStats_CompletionRateSkipsRescheduledAndFuture(t *testing.T) {
	sessions := []session.Session{
		{Date: "2024-12-20", Status: session.StatusCompleted},
		{Date: "2024-12-19", Status: session.StatusOngoing},
		{Date: "2024-12-18", Status: session.StatusUpcoming},
		{Date: "2024-12-17", Status: session.StatusRescheduled},
		{Date: "2024-12-28", Status: session.StatusUpcoming},
	}
	got := ComputeStats(nil, sessions, 0, testNow)
	if got.CompletionRate != 33.3 {
		t.Errorf("expected 33.3, got %v", got.CompletionRate)
	}
	if got.InProgress != 1 || got.TodaySessions != 1 {
		t.Errorf("unexpected counts: %+v", got)
	}
}

func TestComputeStats_CompletionRateSkipsUnparsableDates(t *testing.T) {
	sessions := []session.Session{
		{Date: "2024-12-20", Status: session.StatusCompleted},
		{Date: "1/5/2025", Status: session.StatusUpcoming},
		{Date: "Dec 19", Status: session.StatusUpcoming},
	}
	got := ComputeStats(nil, sessions, 0, testNow)
	if got.CompletionRate != 100 {
		t.Errorf("expected 100, got %v", got.CompletionRate)
	}
	if got.TodaySessions != 1 || got.CompletedSessions != 1 {
		t.Errorf("unexpected counts: %+v", got)
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		progress int
		want     Band
	}{
		{100, BandExcellent},
		{85, BandExcellent},
		{84, BandGood},
		{70, BandGood},
		{69, BandModerate},
		{50, BandModerate},
		{49, BandEarly},
		{0, BandEarly},
	}
	for _, tt := range tests {
		if got := BandFor(tt.progress); got != tt.want {
			t.Errorf("BandFor(%d) = %s, want %s", tt.progress, got, tt.want)
		}
	}
}

func TestComputeProgress_Samples(t *testing.T) {
	rep := ComputeProgress(patient.Samples(testNow), session.Samples(testNow))

	bands := make([]Band, 0, len(rep.Patients))
	for _, row := range rep.Patients {
		bands = append(bands, row.Band)
	}
	if want := []Band{BandModerate, BandEarly, BandExcellent}; !reflect.DeepEqual(bands, want) {
		t.Errorf("expected bands %v, got %v", want, bands)
	}

	if len(rep.Therapies) != 3 || rep.Therapies[0].Therapy != "Panchakarma Detox" || rep.Therapies[0].Patients != 1 {
		t.Errorf("unexpected therapy distribution: %+v", rep.Therapies)
	}

	wantRatings := []RatingCount{{1, 0}, {2, 0}, {3, 0}, {4, 1}, {5, 1}}
	if !reflect.DeepEqual(rep.Ratings, wantRatings) {
		t.Errorf("expected ratings %+v, got %+v", wantRatings, rep.Ratings)
	}
	if rep.AverageProgress != 65 {
		t.Errorf("expected average progress 65, got %v", rep.AverageProgress)
	}
}

func TestComputeProgress_TherapyCounts(t *testing.T) {
	patients := []patient.Patient{
		{Therapy: "Abhyanga", Progress: 10},
		{Therapy: "Basti", Progress: 20},
		{Therapy: "Abhyanga", Progress: 30},
	}
	rep := ComputeProgress(patients, nil)
	want := []TherapyCount{{"Abhyanga", 2}, {"Basti", 1}}
	if !reflect.DeepEqual(rep.Therapies, want) {
		t.Errorf("expected %+v, got %+v", want, rep.Therapies)
	}
}
