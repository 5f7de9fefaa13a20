// Package snapshot exports the current course collection as a JSON object
// to object storage. Exports are write-only: nothing reads them back on
// startup.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/courseapi/course-service/internal/course"
	"github.com/google/uuid"
)

// ObjectStore is the subset of the storage client the exporter needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// Lister yields the collection to export.
type Lister interface {
	List(ctx context.Context) ([]course.Course, error)
}

// Document is the stored snapshot body.
type Document struct {
	TakenAt time.Time       `json:"takenAt"`
	Courses []course.Course `json:"courses"`
}

// Result describes a completed export.
type Result struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	URL   string `json:"url"`
}

type Exporter struct {
	store   ObjectStore
	courses Lister
	expires time.Duration
	now     func() time.Time
}

// NewExporter returns an exporter whose download links live for expires.
func NewExporter(store ObjectStore, courses Lister, expires time.Duration) *Exporter {
	if expires <= 0 {
		expires = 15 * time.Minute
	}
	return &Exporter{store: store, courses: courses, expires: expires, now: time.Now}
}

// Export uploads the collection under snapshots/ and returns a presigned link.
func (e *Exporter) Export(ctx context.Context) (*Result, error) {
	list, err := e.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	takenAt := e.now().UTC()
	b, err := json.Marshal(Document{TakenAt: takenAt, Courses: list})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	key := fmt.Sprintf("snapshots/courses-%s-%s.json", takenAt.Format("20060102T150405Z"), uuid.NewString())
	if err := e.store.UploadFile(ctx, key, bytes.NewReader(b), int64(len(b)), "application/json"); err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}
	url, err := e.store.GetPresignedURL(ctx, key, e.expires)
	if err != nil {
		return nil, fmt.Errorf("presign snapshot: %w", err)
	}
	return &Result{Key: key, Count: len(list), URL: url}, nil
}
