package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger serves the OpenAPI document of the word API.
// - GET /swagger/index.html  -> Swagger UI page loading the JSON below
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
    <title>wordcollab - Swagger</title>
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

// Routes are also served under /api.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "wordcollab", "version": "v1.0.0" },
  "components": {
    "schemas": {
      "Word": { "type": "object", "properties": {
        "id": {"type":"string"}, "text": {"type":"string"},
        "collaborators": {"type":"array","items":{"type":"string"}},
        "createdAt": {"type":"string","format":"date-time"} } },
      "Error": { "type": "object", "properties": { "error": {"type":"string"} } }
    }
  },
  "paths": {
    "/words": {
      "get": { "summary": "List words", "responses": { "200": { "description": "all words" }, "500": { "description": "store unavailable" } } },
      "post": {
        "summary": "Create a word",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["word"],"properties":{"word":{"type":"string"}}}}}},
        "responses": { "200": { "description": "created word" }, "400": { "description": "empty or duplicate word" }, "500": { "description": "store unavailable" } }
      }
    },
    "/words/{id}": {
      "get": { "summary": "Get a word", "parameters": [{"name":"id","in":"path","required":true,"schema":{"type":"string"}}], "responses": { "200": { "description": "word" }, "404": { "description": "not found" } } }
    },
    "/words/bulk": {
      "post": {
        "summary": "Create comma-separated words",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["words"],"properties":{"words":{"type":"string"}}}}}},
        "responses": { "200": { "description": "created and skipped words" }, "400": { "description": "no words given" } }
      }
    },
    "/collaborate": {
      "post": {
        "summary": "Add a collaborator to a word",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["wordId","name"],"properties":{"wordId":{"type":"string"},"name":{"type":"string"}}}}}},
        "responses": { "200": { "description": "updated word" }, "400": { "description": "missing field or duplicate collaborator" }, "404": { "description": "word not found" }, "500": { "description": "store unavailable" } }
      }
    },
    "/export": { "post": { "summary": "Export a snapshot to object storage", "responses": { "200": { "description": "snapshot key and presigned URL" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
