package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/Musavirkhaliq/SukoonSphere-sub001/logger"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/metrics"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/models"
	"github.com/Musavirkhaliq/SukoonSphere-sub001/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	// UserIDHeader carries the caller identity set by the upstream gateway
	UserIDHeader = "X-User-ID"
	// SessionIDHeader optionally carries the client session
	SessionIDHeader = "X-Session-ID"

	ctxUserID      = "user_id"
	ctxContentType = "tracked_content_type"
	ctxContentKind = "tracked_content_kind"
)

// RequireUser rejects requests without a caller identity
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID == "" {
			respondUnauthorized(c, UserIDHeader+" header is required")
			c.Abort()
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// callerID returns the identity stored by RequireUser
func callerID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// CORS allows the configured browser origins
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", UserIDHeader, SessionIDHeader},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// RequestLogger writes one access log line per request
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if userID := c.GetHeader(UserIDHeader); userID != "" {
			fields = append(fields, "user_id", userID)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// Metrics records request latency by route
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// TrackActivity records an interaction for the caller once the wrapped handler
// has succeeded. The content id comes from the idParam path parameter. When
// contentType is empty the handler must provide it with markTracked.
// Tracking never changes the response.
func TrackActivity(tracker *services.Tracker, activity models.ActivityType, contentType models.ContentType, idParam string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if status := c.Writer.Status(); status < 200 || status >= 300 {
			return
		}
		userID := callerID(c)
		if userID == "" {
			userID = strings.TrimSpace(c.GetHeader(UserIDHeader))
		}
		contentID := c.Param(idParam)
		if userID == "" || contentID == "" {
			return
		}

		ct := contentType
		if v, ok := c.Get(ctxContentType); ok {
			ct = v.(models.ContentType)
		}
		kind := c.GetString(ctxContentKind)

		metadata := map[string]interface{}{}
		if ref := c.GetHeader("Referer"); ref != "" {
			metadata[models.MetaReferrer] = ref
		}
		if ua := c.GetHeader("User-Agent"); ua != "" {
			metadata[models.MetaDevice] = deviceClass(ua)
		}

		_, _ = tracker.Track(services.EventInput{
			UserID:       userID,
			ActivityType: activity,
			ContentType:  ct,
			ContentID:    contentID,
			ContentKind:  kind,
			Metadata:     metadata,
			SessionID:    c.GetHeader(SessionIDHeader),
		})
	}
}

// markTracked tells TrackActivity which content the handler served
func markTracked(c *gin.Context, contentType models.ContentType, kind string) {
	c.Set(ctxContentType, contentType)
	c.Set(ctxContentKind, kind)
}

// deviceClass reduces a User-Agent to mobile, tablet or desktop
func deviceClass(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		return "tablet"
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "mobile"
	default:
		return "desktop"
	}
}
