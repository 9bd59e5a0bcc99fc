package ratelimit

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emonxxx11/filegate/pkg/apiresponses"
	"github.com/emonxxx11/filegate/pkg/metrics"
)

// WindowConfig holds fixed-window limiter configuration
type WindowConfig struct {
	// Max is the number of requests allowed per window
	Max int
	// Window is the counting interval
	Window time.Duration
	// CleanupInterval is how often to clean up stale entries
	CleanupInterval time.Duration
	// MaxAge is how long to keep an entry after last access
	MaxAge time.Duration
}

// DefaultDownloadConfig returns the default config for the download
// limiter: 10 downloads per hour per IP.
func DefaultDownloadConfig() WindowConfig {
	return WindowConfig{
		Max:             10,
		Window:          time.Hour,
		CleanupInterval: 10 * time.Minute,
		MaxAge:          2 * time.Hour,
	}
}

// windowEntry is the per-key counter state. The count resets when the
// window elapses; there is no partial carry-over between windows.
type windowEntry struct {
	count       int
	windowStart time.Time
	lastAccess  time.Time
}

// WindowLimiter implements fixed-window request counting per key.
// All counter updates for a key happen under the limiter mutex, so
// concurrent bursts from the same key can never undercount.
type WindowLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	config  WindowConfig
	done    chan struct{}
	now     func() time.Time
}

// NewWindow creates a fixed-window limiter with the given configuration
func NewWindow(cfg WindowConfig) *WindowLimiter {
	if cfg.Max <= 0 {
		cfg.Max = 10
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Hour
	}
	if cfg.CleanupInterval == 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 2 * cfg.Window
	}

	wl := &WindowLimiter{
		entries: make(map[string]*windowEntry),
		config:  cfg,
		done:    make(chan struct{}),
		now:     time.Now,
	}

	go wl.cleanup()

	return wl
}

// SetClock overrides the time source. Used by tests to simulate window expiry.
func (wl *WindowLimiter) SetClock(now func() time.Time) {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	wl.now = now
}

// Allow counts a request for the given key. When the request is rejected
// the returned duration is the time remaining in the current window.
func (wl *WindowLimiter) Allow(key string) (bool, time.Duration) {
	wl.mu.Lock()
	defer wl.mu.Unlock()

	now := wl.now()
	e, exists := wl.entries[key]
	if !exists {
		e = &windowEntry{windowStart: now}
		wl.entries[key] = e
	}
	e.lastAccess = now

	if now.Sub(e.windowStart) >= wl.config.Window {
		e.windowStart = now
		e.count = 0
	}

	e.count++
	if e.count > wl.config.Max {
		return false, e.windowStart.Add(wl.config.Window).Sub(now)
	}
	return true, 0
}

// Middleware returns a Gin middleware that applies the window limit per IP
func (wl *WindowLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := wl.Allow(c.ClientIP())
		if !ok {
			metrics.RateLimited.WithLabelValues("download").Inc()
			apiresponses.RespondRateLimited(c, retryAfter)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Stop stops the cleanup goroutine
func (wl *WindowLimiter) Stop() {
	close(wl.done)
}

func (wl *WindowLimiter) cleanup() {
	ticker := time.NewTicker(wl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-wl.done:
			return
		case <-ticker.C:
			wl.cleanupStaleEntries()
		}
	}
}

func (wl *WindowLimiter) cleanupStaleEntries() {
	wl.mu.Lock()
	defer wl.mu.Unlock()

	now := wl.now()
	for key, e := range wl.entries {
		if now.Sub(e.lastAccess) > wl.config.MaxAge {
			delete(wl.entries, key)
		}
	}
}

// Len returns the current number of tracked keys (for testing/metrics)
func (wl *WindowLimiter) Len() int {
	wl.mu.Lock()
	defer wl.mu.Unlock()
	return len(wl.entries)
}

// Config returns a copy of the current configuration (for testing)
func (wl *WindowLimiter) Config() WindowConfig {
	return wl.config
}
