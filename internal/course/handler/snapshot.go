package handler

import (
	"context"
	"net/http"

	"github.com/courseapi/course-service/internal/course/snapshot"
	"github.com/courseapi/course-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Exporter produces a snapshot of the collection.
type Exporter interface {
	Export(ctx context.Context) (*snapshot.Result, error)
}

// RegisterSnapshotRoutes mounts POST /api/v1/courses/snapshots.
func RegisterSnapshotRoutes(r gin.IRouter, exp Exporter) {
	r.POST(BasePath+"/snapshots", func(c *gin.Context) {
		res, err := exp.Export(c.Request.Context())
		if err != nil {
			logger.Errorf("course snapshot failed: %v", err)
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "snapshot upload failed"})
			return
		}
		c.JSON(http.StatusCreated, res)
	})
}
