package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"sync"
	"time"

	powerwizard "power_wizard"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	ctxSessionID = "sessionId"

	limiterIdleTTL    = 10 * time.Minute
	limiterPruneEvery = time.Minute
)

// bearerToken extracts the token from "Authorization: Bearer <token>". On
// failure it aborts with 401 and returns false.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, powerwizard.ErrorResponse{
			Error: "missing Authorization header",
		})
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, powerwizard.ErrorResponse{
			Error: "invalid Authorization header format",
		})
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// sessionMiddleware resolves the bearer session token to a session id.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	token, ok := bearerToken(c)
	if !ok {
		return
	}

	sessionID, err := h.services.ParseToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, powerwizard.ErrorResponse{
			Error: "invalid or expired session token",
		})
		return
	}

	c.Set(ctxSessionID, sessionID)
	c.Next()
}

// funnelKeyMiddleware admits dashboard callers holding the configured key.
// Without a key the funnel routes are closed.
func (h *Handler) funnelKeyMiddleware(c *gin.Context) {
	if h.funnelKey == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, powerwizard.ErrorResponse{
			Error: "funnel access disabled",
		})
		return
	}
	token, ok := bearerToken(c)
	if !ok {
		return
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.funnelKey)) != 1 {
		if h.log != nil {
			h.log.Infow("funnel_key_rejected", "ip", c.ClientIP())
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, powerwizard.ErrorResponse{
			Error: "invalid funnel key",
		})
		return
	}
	c.Next()
}

func sessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

func (h *Handler) rateLimitMiddleware(c *gin.Context) {
	if h.limiter == nil {
		c.Next()
		return
	}
	if !h.limiter.allow(c.ClientIP()) {
		if h.log != nil {
			h.log.Infow("rate_limited", "ip", c.ClientIP(), "path", c.FullPath())
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, powerwizard.ErrorResponse{
			Error: "too many requests",
		})
		return
	}
	c.Next()
}

// clientLimiter keeps one token bucket per client key. Buckets idle for
// limiterIdleTTL are dropped.
type clientLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	now       func() time.Time
	clients   map[string]*clientBucket
	lastPrune time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newClientLimiter(rps float64, burst int, now func() time.Time) *clientLimiter {
	if burst <= 0 {
		burst = 1
	}
	if now == nil {
		now = time.Now
	}
	return &clientLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     now,
		clients: map[string]*clientBucket{},
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastPrune) >= limiterPruneEvery {
		for k, b := range l.clients {
			if now.Sub(b.lastSeen) > limiterIdleTTL {
				delete(l.clients, k)
			}
		}
		l.lastPrune = now
	}

	b, ok := l.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

func (l *clientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
