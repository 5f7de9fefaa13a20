package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the course service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>course-service — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "course-service", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Course": { "type": "object", "properties": { "id": { "type": "integer" }, "name": { "type": "string" } } },
      "CourseInput": { "type": "object", "required": ["name"], "additionalProperties": false, "properties": { "name": { "type": "string", "minLength": 3 } } }
    }
  },
  "paths": {
    "/": { "get": { "summary": "Greeting", "responses": { "200": { "description": "Hello World!" } } } },
    "/api/v1/courses": {
      "get": { "summary": "List courses", "responses": { "200": { "description": "all courses in insertion order", "content": { "application/json": { "schema": { "type": "array", "items": { "$ref": "#/components/schemas/Course" } } } } } } },
      "post": {
        "summary": "Create course",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/CourseInput" } } } },
        "responses": { "200": { "description": "created course" }, "400": { "description": "first validation error (text)" } }
      }
    },
    "/api/v1/courses/{id}": {
      "parameters": [ { "name": "id", "in": "path", "required": true, "schema": { "type": "integer" } } ],
      "get": { "summary": "Get course", "responses": { "200": { "description": "course" }, "404": { "description": "not found (text)" } } },
      "put": {
        "summary": "Rename course",
        "requestBody": { "content": { "application/json": { "schema": { "$ref": "#/components/schemas/CourseInput" } } } },
        "responses": { "200": { "description": "updated course" }, "400": { "description": "first validation error (text)" }, "404": { "description": "not found (text)" } }
      },
      "delete": { "summary": "Delete course", "responses": { "200": { "description": "deleted course" }, "404": { "description": "not found (text)" } } }
    },
    "/api/v1/courses/snapshots": {
      "post": { "summary": "Export collection to object storage (when configured)", "responses": { "201": { "description": "snapshot key and presigned URL" }, "502": { "description": "upload failed" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "exposition format" } } } }
  }
}`
