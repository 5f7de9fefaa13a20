package handler

import (
	"errors"
	"net/http"

	"github.com/courseapi/course-service/internal/course/service"
	"github.com/gin-gonic/gin"
)

// BasePath is the collection route.
const BasePath = "/api/v1/courses"

// RegisterCourseRoutes mounts the course CRUD endpoints. Errors are plain
// text bodies; successes are JSON.
func RegisterCourseRoutes(r gin.IRouter, svc service.Service) {
	g := r.Group(BasePath)

	g.GET("", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	})

	g.GET("/:id", func(c *gin.Context) {
		course, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, course)
	})

	g.POST("", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.String(http.StatusBadRequest, "could not read request body")
			return
		}
		course, err := svc.Create(c.Request.Context(), body)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, course)
	})

	g.PUT("/:id", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.String(http.StatusBadRequest, "could not read request body")
			return
		}
		course, err := svc.Update(c.Request.Context(), c.Param("id"), body)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, course)
	})

	g.DELETE("/:id", func(c *gin.Context) {
		course, err := svc.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, course)
	})
}

func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.String(http.StatusNotFound, service.NotFoundMessage)
	case errors.As(err, &verr):
		c.String(http.StatusBadRequest, verr.Message())
	default:
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "internal error")
	}
}
