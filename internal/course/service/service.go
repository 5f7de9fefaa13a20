package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/courseapi/course-service/internal/course"
	"github.com/courseapi/course-service/internal/course/repository"
	"github.com/courseapi/course-service/internal/course/validation"
	"github.com/courseapi/course-service/pkg/logger"
	"github.com/courseapi/course-service/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

// NotFoundMessage is the body returned for every unknown id.
const NotFoundMessage = "The course with the given ID was not found."

var (
	ErrNotFound     = errors.New("course not found")
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries the rule violations for a rejected payload.
// errors.Is(err, ErrInvalidInput) holds for it.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return e.Violations.Error() }

// Message is the first violation, the text surfaced to clients.
func (e *ValidationError) Message() string { return e.Violations.Error() }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// Service defines the course operations used by the handler layer.
// Ids arrive as raw path segments; payloads as raw request bodies.
type Service interface {
	List(ctx context.Context) ([]course.Course, error)
	Get(ctx context.Context, rawID string) (course.Course, error)
	Create(ctx context.Context, body []byte) (course.Course, error)
	Update(ctx context.Context, rawID string, body []byte) (course.Course, error)
	Delete(ctx context.Context, rawID string) (course.Course, error)
}

// NewMemoryService returns a Service backed by a freshly seeded in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo(course.Seed()))
}

// NewMongoService returns a Service backed by a MongoDB collection. The
// collection is reset and seeded. Caller owns the client.
func NewMongoService(ctx context.Context, col *mongo.Collection) (Service, error) {
	repo, err := repository.NewMongoRepo(ctx, col, course.Seed())
	if err != nil {
		return nil, err
	}
	return New(repo), nil
}

// New wraps any repository.
func New(repo repository.Repository) Service {
	s := &courseService{repo: repo}
	s.refreshGauge(context.Background())
	return s
}

// courseService serializes writers with mu: lookup, validation and the
// write of one mutation never interleave with another mutation.
type courseService struct {
	mu   sync.Mutex
	repo repository.Repository
}

func (s *courseService) List(ctx context.Context) ([]course.Course, error) {
	list, err := s.repo.List(ctx)
	s.record("list", err)
	return list, err
}

func (s *courseService) Get(ctx context.Context, rawID string) (course.Course, error) {
	c, err := s.lookup(ctx, rawID)
	s.record("get", err)
	return c, err
}

func (s *courseService) Create(ctx context.Context, body []byte) (course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := validate(body)
	if err != nil {
		s.record("create", err)
		return course.Course{}, err
	}
	c, err := s.repo.Create(ctx, name)
	if err != nil {
		err = fmt.Errorf("create course: %w", err)
	} else {
		logger.Debugf("course created: id=%d", c.ID)
	}
	s.record("create", err)
	s.refreshGauge(ctx)
	return c, err
}

func (s *courseService) Update(ctx context.Context, rawID string, body []byte) (course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// a missing id wins over an invalid body
	c, err := s.lookup(ctx, rawID)
	if err != nil {
		s.record("update", err)
		return course.Course{}, err
	}
	name, err := validate(body)
	if err != nil {
		s.record("update", err)
		return course.Course{}, err
	}
	c, err = s.repo.UpdateName(ctx, c.ID, name)
	err = s.translate("update course", err)
	s.record("update", err)
	return c, err
}

func (s *courseService) Delete(ctx context.Context, rawID string) (course.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.lookup(ctx, rawID)
	if err == nil {
		c, err = s.repo.Delete(ctx, c.ID)
		err = s.translate("delete course", err)
	}
	if err == nil {
		logger.Debugf("course deleted: id=%d", c.ID)
	}
	s.record("delete", err)
	s.refreshGauge(ctx)
	return c, err
}

func (s *courseService) lookup(ctx context.Context, rawID string) (course.Course, error) {
	id, ok := ParseID(rawID)
	if !ok {
		return course.Course{}, ErrNotFound
	}
	c, err := s.repo.Get(ctx, id)
	return c, s.translate("get course", err)
}

func (s *courseService) translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func validate(body []byte) (string, error) {
	name, err := validation.ValidateCourse(body)
	if err != nil {
		var v validation.Violations
		if errors.As(err, &v) {
			return "", &ValidationError{Violations: v}
		}
		return "", err
	}
	return name, nil
}

func (s *courseService) record(op string, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case errors.Is(err, ErrInvalidInput):
		outcome = metrics.OutcomeInvalidInput
	default:
		outcome = metrics.OutcomeError
		logger.Errorf("course %s failed: %v", op, err)
	}
	metrics.CourseOperations.WithLabelValues(op, outcome).Inc()
}

func (s *courseService) refreshGauge(ctx context.Context) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		logger.Warnf("count courses: %v", err)
		return
	}
	metrics.CoursesStored.Set(float64(n))
}
