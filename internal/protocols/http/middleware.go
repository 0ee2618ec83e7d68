package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/time/rate"

	"bloghub/pkg/models"
)

const viewerKey = "viewer"

// jwtClaims is the token shape the identity provider issues.
type jwtClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func parseToken(tokenString, secret string) (*models.UserRef, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, models.ErrUnauthorized
	}
	return &models.UserRef{ID: claims.UserID, Role: models.UserRole(claims.Role)}, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthMiddleware validates the bearer token and stores the viewer in
// the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, models.Fail(models.ErrUnauthorized))
			c.Abort()
			return
		}

		user, err := parseToken(token, secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, models.Fail(models.ErrUnauthorized))
			c.Abort()
			return
		}

		c.Set(viewerKey, models.ViewerFor(*user))
		c.Next()
	}
}

// OptionalAuthMiddleware resolves a viewer when a valid token is
// present and falls back to the anonymous viewer otherwise.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := parseToken(token, secret); err == nil {
				c.Set(viewerKey, models.ViewerFor(*user))
			}
		}
		c.Next()
	}
}

// RequireModerator ensures the authenticated viewer has moderation
// capability. Must run after AuthMiddleware.
func RequireModerator() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer := GetViewer(c)
		if !viewer.CanModerate {
			c.JSON(http.StatusForbidden, models.Fail(models.ErrForbidden))
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetViewer extracts the viewer from gin context; zero value means
// anonymous.
func GetViewer(c *gin.Context) models.Viewer {
	if v, exists := c.Get(viewerKey); exists {
		if viewer, ok := v.(models.Viewer); ok {
			return viewer
		}
	}
	return models.Viewer{}
}

// clientLimiters holds one token bucket per client key and evicts
// entries that have been idle for longer than idleTTL, so the map stays
// bounded by the set of recently active clients rather than growing for
// the life of the process.
type clientLimiters struct {
	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	rps       rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const limiterIdleTTL = 10 * time.Minute

func newClientLimiters(rps float64, burst int) *clientLimiters {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 5
	}
	return &clientLimiters{
		limiters: make(map[string]*clientLimiter),
		rps:      rate.Limit(rps),
		burst:    burst,
		idleTTL:  limiterIdleTTL,
		now:      time.Now,
	}
}

func (cl *clientLimiters) allow(key string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	cl.sweepLocked(now)

	entry, ok := cl.limiters[key]
	if !ok {
		entry = &clientLimiter{limiter: rate.NewLimiter(cl.rps, cl.burst)}
		cl.limiters[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.Allow()
}

// sweepLocked drops idle entries at most once per idleTTL. A client
// evicted mid-window gets a fresh bucket, which only ever grants more
// headroom, never less.
func (cl *clientLimiters) sweepLocked(now time.Time) {
	if now.Sub(cl.lastSweep) < cl.idleTTL {
		return
	}
	cl.lastSweep = now

	for key, entry := range cl.limiters {
		if now.Sub(entry.lastSeen) >= cl.idleTTL {
			delete(cl.limiters, key)
		}
	}
}

// RateLimitMiddleware applies a per-client token bucket to write
// endpoints.
func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiters := newClientLimiters(rps, burst)

	return func(c *gin.Context) {
		if !limiters.allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, models.APIResponse{
				Success:   false,
				Error:     "rate limit exceeded",
				Timestamp: time.Now(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
