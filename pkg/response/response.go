package response

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-portal-api/internal/models"
	appErrors "github.com/noah-isme/school-portal-api/pkg/errors"
	"github.com/noah-isme/school-portal-api/pkg/logger"
	"github.com/noah-isme/school-portal-api/pkg/middleware/requestid"
)

// Envelope is the body of every JSON response. Business rule rejections
// carry the rule name inside Error so clients can branch on it.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON writes data with optional pagination and meta.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	noStore(c)
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.JSON(status, envelope)
}

func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data, nil)
}

func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Accepted acknowledges work handed to the background queue.
func Accepted(c *gin.Context, data interface{}) {
	JSON(c, http.StatusAccepted, data, nil)
}

// Error converts err to the envelope error shape. The request id is echoed
// in meta so a client report can be matched to the server log line. Rule
// violations are tagged for the request logger; 5xx causes are attached to
// the gin context.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError && appErr.Err != nil {
		_ = c.Error(appErr.Err)
	}
	if appErr.Rule != "" {
		c.Set(logger.RuleKey, appErr.Rule)
	}
	envelope := Envelope{Error: appErr}
	if reqID := requestid.Value(c); reqID != "" {
		envelope.Meta = map[string]interface{}{"request_id": reqID}
	}
	noStore(c)
	c.JSON(appErr.Status, envelope)
}

// Stream copies body to the client as a file download. The caller owns body.
func Stream(c *gin.Context, filename, contentType string, size int64, body io.Reader) {
	c.DataFromReader(http.StatusOK, size, contentType, body, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", filename),
		"Cache-Control":       "private, no-store",
	})
}

// Image serves generated image bytes that a browser may cache briefly.
func Image(c *gin.Context, contentType string, data []byte, maxAge int) {
	c.Header("Cache-Control", fmt.Sprintf("private, max-age=%d", maxAge))
	c.Data(http.StatusOK, contentType, data)
}

// NoContent flushes a bare 204 so the status is on the wire before any
// deferred middleware runs.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
	c.Writer.WriteHeaderNow()
}
