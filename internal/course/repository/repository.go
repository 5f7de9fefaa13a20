package repository

import (
	"context"
	"errors"

	"github.com/courseapi/course-service/internal/course"
)

var (
	ErrNotFound = errors.New("course not found")
)

// Repository is the ordered course collection. Implementations preserve
// insertion order in List and assign new ids as Count()+1.
type Repository interface {
	List(ctx context.Context) ([]course.Course, error)
	Get(ctx context.Context, id int) (course.Course, error)
	Create(ctx context.Context, name string) (course.Course, error)
	UpdateName(ctx context.Context, id int, name string) (course.Course, error)
	Delete(ctx context.Context, id int) (course.Course, error)
	Count(ctx context.Context) (int, error)
}
