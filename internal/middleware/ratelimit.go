package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit allows `permits` requests per `window` per client IP.
func RateLimit(permits int, window time.Duration) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	interval := window / time.Duration(permits)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			// Prune idle clients when a new one shows up so the map stays
			// bounded by active traffic.
			cutoff := time.Now().Add(-3 * window)
			for key, existing := range clients {
				if existing.lastSeen.Before(cutoff) {
					delete(clients, key)
				}
			}
			cl = &client{limiter: rate.NewLimiter(rate.Every(interval), permits)}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()
		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			Envelope(c, http.StatusTooManyRequests, "Too many requests",
				"Request rate limit exceeded; slow down and retry.")
			c.Abort()
			return
		}
		c.Next()
	}
}
