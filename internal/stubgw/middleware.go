package stubgw

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizdeck/quizdeck-client/internal/credential"
	"github.com/quizdeck/quizdeck-client/internal/model"
	"github.com/quizdeck/quizdeck-client/internal/response"
)

// contextKeyClaims is the Gin context key for verified JWT claims.
const contextKeyClaims = "claims"

// requireAuth validates a bearer token and loads its claims.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		claims, err := credential.VerifyToken(parts[1], s.cfg.JWTSecret)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		s.mu.RLock()
		u := s.users[claims.UserID]
		s.mu.RUnlock()
		if u == nil || !u.IsActive {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(contextKeyClaims, claims)
		c.Next()
	}
}

// requireAdmin rejects non-admin callers. Must run after requireAuth.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := getClaims(c)
		if claims == nil || claims.Role != model.RoleAdmin {
			response.AbortFail(c, http.StatusForbidden, response.ErrAdminAccessOnly)
			return
		}
		c.Next()
	}
}

// getClaims retrieves verified claims from the Gin context.
func getClaims(c *gin.Context) *credential.Claims {
	val, exists := c.Get(contextKeyClaims)
	if !exists {
		return nil
	}
	claims, ok := val.(*credential.Claims)
	if !ok {
		return nil
	}
	return claims
}

// rateLimiter is a simple per-IP token bucket for the auth routes.
type rateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	interval time.Duration
}

type visitor struct {
	tokens   int
	lastSeen time.Time
}

func newRateLimiter(rate int, interval time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		interval: interval,
	}
}

func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		rl.mu.Lock()
		v, ok := rl.visitors[ip]
		now := time.Now()
		if !ok || now.Sub(v.lastSeen) >= rl.interval {
			v = &visitor{tokens: rl.rate, lastSeen: now}
			rl.visitors[ip] = v
		}
		v.tokens--
		exhausted := v.tokens < 0
		rl.mu.Unlock()

		if exhausted {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}
