package auth

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ThrottleConfig bounds failed login attempts per email. Burst attempts may
// fail back to back; afterwards one more attempt is allowed every Refill.
// A zero Burst disables throttling.
type ThrottleConfig struct {
	Burst  int
	Refill time.Duration
}

// DefaultThrottle leaves throttling off. Setting Burst enables it with one
// extra attempt per minute.
var DefaultThrottle = ThrottleConfig{Refill: time.Minute}

// throttle tracks a token bucket per normalized email. Only failures consume
// tokens; a successful login forgets the bucket.
type throttle struct {
	cfg      ThrottleConfig
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newThrottle(cfg ThrottleConfig) *throttle {
	return &throttle{cfg: cfg, limiters: make(map[string]*rate.Limiter)}
}

func (t *throttle) enabled() bool { return t.cfg.Burst > 0 }

func (t *throttle) limiter(email string) *rate.Limiter {
	key := strings.ToLower(strings.TrimSpace(email))
	lim, ok := t.limiters[key]
	if !ok {
		every := rate.Inf
		if t.cfg.Refill > 0 {
			every = rate.Every(t.cfg.Refill)
		}
		lim = rate.NewLimiter(every, t.cfg.Burst)
		t.limiters[key] = lim
	}
	return lim
}

// blocked reports whether email has no attempts left at now.
func (t *throttle) blocked(email string, now time.Time) bool {
	if !t.enabled() {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.limiter(email).TokensAt(now) < 1
}

func (t *throttle) fail(email string, now time.Time) {
	if !t.enabled() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.limiter(email).AllowN(now, 1)
}

func (t *throttle) reset(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.limiters, strings.ToLower(strings.TrimSpace(email)))
}
