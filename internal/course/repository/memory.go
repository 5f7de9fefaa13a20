package repository

import (
	"context"
	"sync"

	"github.com/courseapi/course-service/internal/course"
)

// MemoryRepo keeps the collection in an ordered slice for the lifetime of
// the process. Records are copied in and out so callers never alias them.
type MemoryRepo struct {
	mu      sync.RWMutex
	courses []course.Course
}

// NewMemoryRepo returns a repo holding the given records, in order.
func NewMemoryRepo(seed []course.Course) *MemoryRepo {
	courses := make([]course.Course, len(seed))
	copy(courses, seed)
	return &MemoryRepo{courses: courses}
}

func (m *MemoryRepo) List(_ context.Context) ([]course.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]course.Course, len(m.courses))
	copy(out, m.courses)
	return out, nil
}

func (m *MemoryRepo) Get(_ context.Context, id int) (course.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return m.courses[i], nil
	}
	return course.Course{}, ErrNotFound
}

// Create appends a record with id len+1. After a delete this id can
// collide with a surviving record; lookups then return the first match.
func (m *MemoryRepo) Create(_ context.Context, name string) (course.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := course.Course{ID: len(m.courses) + 1, Name: name}
	m.courses = append(m.courses, c)
	return c, nil
}

func (m *MemoryRepo) UpdateName(_ context.Context, id int, name string) (course.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return course.Course{}, ErrNotFound
	}
	m.courses[i].Name = name
	return m.courses[i], nil
}

func (m *MemoryRepo) Delete(_ context.Context, id int) (course.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOf(id)
	if i < 0 {
		return course.Course{}, ErrNotFound
	}
	c := m.courses[i]
	m.courses = append(m.courses[:i], m.courses[i+1:]...)
	return c, nil
}

func (m *MemoryRepo) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.courses), nil
}

// indexOf must be called with mu held.
func (m *MemoryRepo) indexOf(id int) int {
	for i := range m.courses {
		if m.courses[i].ID == id {
			return i
		}
	}
	return -1
}
