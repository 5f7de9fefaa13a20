package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/courseapi/course-service/internal/course"
	"github.com/stretchr/testify/require"
)

func TestService_Scenario(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	c, err := svc.Get(ctx, "2")
	require.NoError(t, err)
	require.Equal(t, course.Course{ID: 2, Name: "course2"}, c)

	_, err = svc.Create(ctx, []byte(`{"name":"ab"}`))
	require.ErrorIs(t, err, ErrInvalidInput)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Contains(t, verr.Message(), "length must be at least 3")

	c, err = svc.Create(ctx, []byte(`{"name":"course4"}`))
	require.NoError(t, err)
	require.Equal(t, course.Course{ID: 4, Name: "course4"}, c)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)

	c, err = svc.Update(ctx, "1", []byte(`{"name":"updated"}`))
	require.NoError(t, err)
	require.Equal(t, course.Course{ID: 1, Name: "updated"}, c)

	c, err = svc.Delete(ctx, "3")
	require.NoError(t, err)
	require.Equal(t, course.Course{ID: 3, Name: "course3"}, c)
	_, err = svc.Get(ctx, "3")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_NonNumericIDIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	_, err := svc.Get(ctx, "abc")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Delete(ctx, "abc")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_UpdateMissingIDBeatsInvalidBody(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	_, err := svc.Update(ctx, "42", []byte(`{"name":"x"}`))
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, "1", []byte(`{"name":"x"}`))
	require.ErrorIs(t, err, ErrInvalidInput)
	c, err := svc.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "course1", c.Name)
}

func TestService_InvalidCreateLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()
	for _, body := range []string{`{"name":"ab"}`, `{}`, `{"title":"course"}`, `[]`} {
		_, err := svc.Create(ctx, []byte(body))
		require.ErrorIs(t, err, ErrInvalidInput, body)
	}
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, course.Seed(), list)
}

func TestService_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	svc := NewMemoryService()

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c, err := svc.Create(ctx, []byte(fmt.Sprintf(`{"name":"course-%d"}`, i)))
			if err == nil {
				ids <- c.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		require.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	require.Len(t, seen, n)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, n+3)
}

// failingRepo lets store errors surface through the service
type failingRepo struct {
	err error
}

func (f *failingRepo) List(context.Context) ([]course.Course, error) { return nil, f.err }
func (f *failingRepo) Get(context.Context, int) (course.Course, error) {
	return course.Course{ID: 1, Name: "course1"}, nil
}
func (f *failingRepo) Create(context.Context, string) (course.Course, error) {
	return course.Course{}, f.err
}
func (f *failingRepo) UpdateName(context.Context, int, string) (course.Course, error) {
	return course.Course{}, f.err
}
func (f *failingRepo) Delete(context.Context, int) (course.Course, error) {
	return course.Course{}, f.err
}
func (f *failingRepo) Count(context.Context) (int, error) { return 0, f.err }

func TestService_StoreErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	svc := New(&failingRepo{err: boom})

	_, err := svc.List(ctx)
	require.ErrorIs(t, err, boom)

	_, err = svc.Create(ctx, []byte(`{"name":"course4"}`))
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, ErrInvalidInput)
	require.NotErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, "1", []byte(`{"name":"course4"}`))
	require.ErrorIs(t, err, boom)

	_, err = svc.Delete(ctx, "1")
	require.ErrorIs(t, err, boom)
}
