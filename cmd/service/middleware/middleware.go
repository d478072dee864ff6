package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/time/rate"

	"github.com/quka-ai/course-console/app/response"
	"github.com/quka-ai/course-console/pkg/errors"
	"github.com/quka-ai/course-console/pkg/i18n"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

func Cors(c *gin.Context) {
	method := c.Request.Method
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Accept-Language")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Type")
	}
	if method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
	}
	c.Next()
}

// AccessLog 请求日志
func AccessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	slog.Debug("http request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("elapsed", time.Since(start)),
		slog.String("request_id", c.GetString(response.RequestIDKey)))
}

// UseLimit 按 key 限流，key 由 genKeyFunc 从请求中生成
func UseLimit(perSecond float64, burst int, genKeyFunc func(c *gin.Context) string) gin.HandlerFunc {
	limiters := cmap.New[*rate.Limiter]()
	return func(c *gin.Context) {
		key := genKeyFunc(c)
		limiter := limiters.Upsert(key, nil, func(exist bool, old, _ *rate.Limiter) *rate.Limiter {
			if exist {
				return old
			}
			return rate.NewLimiter(rate.Limit(perSecond), burst)
		})
		if !limiter.Allow() {
			response.APIError(c, errors.New("middleware.limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}
