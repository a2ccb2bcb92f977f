package server

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// LimitReason describes why a connection was rejected.
type LimitReason string

const (
	LimitReasonGlobal LimitReason = "global_limit"
	LimitReasonPerIP  LimitReason = "per_ip_limit"
	LimitReasonRate   LimitReason = "rate_limit"
)

const limiterIdleCutoff = 10 * time.Minute

// ConnectionLimits gates new websocket connections three ways: a global cap
// across the instance, a per-IP concurrent cap, and a per-IP token bucket on
// connection attempts.
type ConnectionLimits struct {
	global    atomic.Int64
	globalMax int64

	mu       sync.Mutex
	perIP    map[string]int
	perIPMax int

	buckets   map[string]*bucketEntry
	rate      rate.Limit
	burst     int
	cleanupAt time.Time
}

type bucketEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewConnectionLimits(globalMax int64, perIPMax int, attemptsPerSecond float64, burst int) *ConnectionLimits {
	return &ConnectionLimits{
		globalMax: globalMax,
		perIP:     make(map[string]int),
		perIPMax:  perIPMax,
		buckets:   make(map[string]*bucketEntry),
		rate:      rate.Limit(attemptsPerSecond),
		burst:     burst,
		cleanupAt: time.Now().Add(5 * time.Minute),
	}
}

// Acquire claims a slot for the given IP, or reports why it cannot.
func (l *ConnectionLimits) Acquire(ip string) (bool, LimitReason) {
	if !l.allowAttempt(ip) {
		return false, LimitReasonRate
	}

	for {
		current := l.global.Load()
		if current >= l.globalMax {
			return false, LimitReasonGlobal
		}
		if l.global.CompareAndSwap(current, current+1) {
			break
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.perIP[ip] >= l.perIPMax {
		l.global.Add(-1)
		return false, LimitReasonPerIP
	}
	l.perIP[ip]++
	return true, ""
}

// Release returns the slot claimed by Acquire.
func (l *ConnectionLimits) Release(ip string) {
	l.mu.Lock()
	if count := l.perIP[ip]; count > 0 {
		l.perIP[ip] = count - 1
		if l.perIP[ip] == 0 {
			delete(l.perIP, ip)
		}
	}
	l.mu.Unlock()
	l.global.Add(-1)
}

// Current returns the instance-wide connection count.
func (l *ConnectionLimits) Current() int64 {
	return l.global.Load()
}

func (l *ConnectionLimits) allowAttempt(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.After(l.cleanupAt) {
		cutoff := now.Add(-limiterIdleCutoff)
		for key, entry := range l.buckets {
			if entry.lastSeen.Before(cutoff) {
				delete(l.buckets, key)
			}
		}
		l.cleanupAt = now.Add(5 * time.Minute)
	}

	entry, exists := l.buckets[ip]
	if !exists {
		entry = &bucketEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

// rateLimitMiddleware applies the per-IP token bucket to REST requests. REST
// calls share the attempt bucket with websocket dials, so one abusive source
// is throttled on both paths.
func (s *Server) rateLimitMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.limits.allowAttempt(c.RealIP()) {
			return c.JSON(http.StatusTooManyRequests, errorBody(string(LimitReasonRate)))
		}
		return next(c)
	}
}
