package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-review/internal/shared/telemetry"
)

const (
	htmlKey = "respondHTML"

	// ErrorTemplate is the page rendered for failures on HTML routes.
	ErrorTemplate = "error.html"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// HTMLPages marks the routes of a group as browser pages, so Error renders
// ErrorTemplate instead of the JSON envelope.
func HTMLPages() gin.HandlerFunc {
	return func(c *gin.Context) {
		MarkHTML(c)
		c.Next()
	}
}

// MarkHTML flags the current request as a browser page.
func MarkHTML(c *gin.Context) {
	c.Set(htmlKey, true)
}

// WantsHTML reports whether the current route was marked by HTMLPages.
func WantsHTML(c *gin.Context) bool {
	return c.GetBool(htmlKey)
}

// Error logs the failure and sends a standardized error response.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if analysisID := c.GetString("analysisId"); analysisID != "" {
		fields["analysis_id"] = analysisID
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	if WantsHTML(c) {
		c.HTML(status, ErrorTemplate, gin.H{
			"Status":    status,
			"Title":     http.StatusText(status),
			"Message":   message,
			"RequestID": c.GetString("requestId"),
		})
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}
