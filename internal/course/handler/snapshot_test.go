package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/courseapi/course-service/internal/course/service"
	"github.com/courseapi/course-service/internal/course/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	res *snapshot.Result
	err error
}

func (f *fakeExporter) Export(context.Context) (*snapshot.Result, error) { return f.res, f.err }

func TestSnapshotRoute(t *testing.T) {
	g := gin.New()
	RegisterCourseRoutes(g, service.NewMemoryService())
	RegisterSnapshotRoutes(g, &fakeExporter{res: &snapshot.Result{Key: "snapshots/a.json", Count: 3, URL: "http://x"}})

	w := do(g, http.MethodPost, BasePath+"/snapshots", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var res snapshot.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.Equal(t, 3, res.Count)

	// the course routes still resolve next to the snapshot route
	w = do(g, http.MethodGet, BasePath+"/1", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSnapshotRoute_Failure(t *testing.T) {
	g := gin.New()
	RegisterSnapshotRoutes(g, &fakeExporter{err: errors.New("down")})

	w := do(g, http.MethodPost, BasePath+"/snapshots", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
}
