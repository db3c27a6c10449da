package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
)

// AuditWriter persists audit entries.
type AuditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditResourceKey lets a handler name the record it touched when the path
// id refers to something else, e.g. the job created under a class route.
const AuditResourceKey = "audit_resource_id"

// Audit records an audit log entry after every successful mutating request.
func Audit(repo AuditWriter, action, resource string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now().UTC()
		c.Next()

		if repo == nil || c.Writer.Status() >= 400 {
			return
		}

		entry := &models.AuditLog{
			Action:    action,
			Resource:  resource,
			IPAddress: c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
		}
		if claims, ok := Claims(c); ok {
			userID := claims.UserID
			entry.UserID = &userID
		}
		details := map[string]interface{}{
			"path":    c.FullPath(),
			"method":  c.Request.Method,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).Milliseconds(),
		}
		if id := c.GetString(AuditResourceKey); id != "" {
			entry.ResourceID = &id
			if parent := c.Param("id"); parent != "" && parent != id {
				details["parent_id"] = parent
			}
		} else if id := c.Param("id"); id != "" {
			entry.ResourceID = &id
		}
		entry.Details, _ = json.Marshal(details)

		// the request context may already be cancelled by the timeout middleware
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := repo.CreateAuditLog(ctx, entry); err != nil {
			logger.Warn("audit log write failed",
				zap.String("action", action),
				zap.String("resource", resource),
				zap.Error(err))
		}
	}
}
