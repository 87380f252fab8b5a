package catalog

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   uuid.UUID
	Name string
}

func itemID(i item) uuid.UUID { return i.ID }

func TestStore_AppendKeepsOrder(t *testing.T) {
	s := New(itemID)
	names := []string{"a", "b", "c"}
	for _, n := range names {
		require.NoError(t, s.Append(item{ID: uuid.New(), Name: n}))
	}

	all := s.All()
	require.Len(t, all, 3)
	for i, n := range names {
		assert.Equal(t, n, all[i].Name)
	}
	assert.Equal(t, 3, s.Len())
}

func TestStore_AppendRejectsDuplicateAndNil(t *testing.T) {
	id := uuid.New()
	s := New(itemID, item{ID: id, Name: "seed"})

	err := s.Append(item{ID: id, Name: "again"})
	assert.True(t, errors.Is(err, ErrDuplicateID))
	assert.Error(t, s.Append(item{Name: "no id"}))
	assert.Equal(t, 1, s.Len())
}

func TestStore_NewSkipsBadSeeds(t *testing.T) {
	id := uuid.New()
	s := New(itemID, item{ID: id}, item{ID: id}, item{})
	assert.Equal(t, 1, s.Len())
}

func TestStore_ReplaceInPlace(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	s := New(itemID, item{ID: a, Name: "a"}, item{ID: b, Name: "b"})

	require.NoError(t, s.Replace(item{ID: a, Name: "a2"}))
	all := s.All()
	assert.Equal(t, "a2", all[0].Name)
	assert.Equal(t, "b", all[1].Name)

	err := s.Replace(item{ID: uuid.New()})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_Update(t *testing.T) {
	id := uuid.New()
	s := New(itemID, item{ID: id, Name: "before"})

	got, err := s.Update(id, func(i *item) error {
		i.Name = "after"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)

	_, err = s.Update(id, func(i *item) error {
		i.Name = "discarded"
		return errors.New("boom")
	})
	assert.Error(t, err)
	stored, _ := s.Get(id)
	assert.Equal(t, "after", stored.Name)

	_, err = s.Update(id, func(i *item) error {
		i.ID = uuid.New()
		return nil
	})
	assert.Error(t, err)

	_, err = s.Update(uuid.New(), func(*item) error { return nil })
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_GetAndHas(t *testing.T) {
	id := uuid.New()
	s := New(itemID, item{ID: id, Name: "x"})

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "x", got.Name)
	assert.True(t, s.Has(id))

	_, err = s.Get(uuid.New())
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestStore_AllIsSnapshot(t *testing.T) {
	id := uuid.New()
	s := New(itemID, item{ID: id, Name: "x"})
	snap := s.All()
	snap[0].Name = "mutated"

	got, _ := s.Get(id)
	assert.Equal(t, "x", got.Name)
}

func TestStore_ConcurrentAppend(t *testing.T) {
	s := New(itemID)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Append(item{ID: uuid.New()})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}
