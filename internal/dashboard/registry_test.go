package dashboard

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestRegistry_AddGetDelete(t *testing.T) {
	r := NewRegistry(0)
	st := NewState(uuid.New(), testNow)

	if err := r.Add(st); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := r.Add(st); err == nil {
		t.Error("expected duplicate id to be rejected")
	}

	got, err := r.Get(st.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != st.ID {
		t.Errorf("expected %s, got %s", st.ID, got.ID)
	}

	if err := r.Delete(st.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Get(st.ID); !errors.Is(err, ErrWorkspaceNotFound) {
		t.Errorf("expected ErrWorkspaceNotFound, got %v", err)
	}
	if err := r.Delete(st.ID); !errors.Is(err, ErrWorkspaceNotFound) {
		t.Errorf("expected ErrWorkspaceNotFound, got %v", err)
	}
}

func TestRegistry_Limit(t *testing.T) {
	r := NewRegistry(2)
	for i := 0; i < 2; i++ {
		if err := r.Add(NewState(uuid.New(), testNow)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := r.Add(NewState(uuid.New(), testNow)); !errors.Is(err, ErrWorkspaceLimit) {
		t.Errorf("expected ErrWorkspaceLimit, got %v", err)
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 workspaces, got %d", r.Len())
	}
}

func TestRegistry_FailedUpdateKeepsState(t *testing.T) {
	r := NewRegistry(0)
	st := NewState(uuid.New(), testNow)
	_ = r.Add(st)

	boom := errors.New("boom")
	_, err := r.Update(st.ID, func(s *State) error {
		s.Tab = TabPatients
		s.PatientSelection.Toggle(uuid.New())
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := r.Get(st.ID)
	if got.Tab != TabDashboard || got.PatientSelection.Len() != 0 {
		t.Errorf("expected state unchanged, got tab=%s selected=%d", got.Tab, got.PatientSelection.Len())
	}
}

func TestRegistry_UpdateKeepsID(t *testing.T) {
	r := NewRegistry(0)
	st := NewState(uuid.New(), testNow)
	_ = r.Add(st)

	got, err := r.Update(st.ID, func(s *State) error {
		s.ID = uuid.New()
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != st.ID {
		t.Errorf("expected id %s to be kept, got %s", st.ID, got.ID)
	}
}

func TestRegistry_ConcurrentUpdates(t *testing.T) {
	r := NewRegistry(0)
	st := NewState(uuid.New(), testNow)
	_ = r.Add(st)

	keys := make([]uuid.UUID, 40)
	for i := range keys {
		keys[i] = uuid.New()
	}

	var wg sync.WaitGroup
	for _, k := range keys {
		wg.Add(1)
		go func(k uuid.UUID) {
			defer wg.Done()
			_, _ = r.Update(st.ID, func(s *State) error {
				s.NotificationSelection.Toggle(k)
				return nil
			})
		}(k)
	}
	wg.Wait()

	got, _ := r.Get(st.ID)
	if got.NotificationSelection.Len() != len(keys) {
		t.Errorf("expected %d selected, got %d", len(keys), got.NotificationSelection.Len())
	}
}
