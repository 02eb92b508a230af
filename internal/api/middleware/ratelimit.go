package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/pkg/tenant"
)

// RateLimiterConfig лимит запросов на одну организацию
type RateLimiterConfig struct {
	Rate  rate.Limit
	Burst int
}

type tenantLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов отдельно для каждой организации
type RateLimiter struct {
	config RateLimiterConfig
	idle   time.Duration

	mu       sync.Mutex
	limiters map[string]*tenantLimiter
}

// NewRateLimiter создаёт лимитер. Лимитеры организаций без запросов дольше idle удаляются.
func NewRateLimiter(config RateLimiterConfig, idle time.Duration) *RateLimiter {
	return &RateLimiter{
		config:   config,
		idle:     idle,
		limiters: make(map[string]*tenantLimiter),
	}
}

// Allow расходует один токен организации
func (rl *RateLimiter) Allow(orgID string) bool {
	now := time.Now()

	rl.mu.Lock()
	entry, ok := rl.limiters[orgID]
	if !ok {
		entry = &tenantLimiter{limiter: rate.NewLimiter(rl.config.Rate, rl.config.Burst)}
		rl.limiters[orgID] = entry
	}
	entry.lastSeen = now
	rl.evictLocked(now)
	rl.mu.Unlock()

	return entry.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) evictLocked(now time.Time) {
	if rl.idle <= 0 {
		return
	}
	for id, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.idle {
			delete(rl.limiters, id)
		}
	}
}

// Middleware должен стоять после Tenant
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		orgID, _ := tenant.FromContext(r.Context())
		if !rl.Allow(orgID) {
			w.Header().Set("Retry-After", "1")
			handlers.RespondError(w, http.StatusTooManyRequests, handlers.CodeRateLimited, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
