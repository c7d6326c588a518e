package status

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const checkTimeout = 2 * time.Second

// Pinger is a dependency that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a plain function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type StatusHandler struct {
	log    logger.Log
	checks map[string]Pinger
}

func NewStatusHandler(l logger.Log, checks map[string]Pinger) *StatusHandler {
	return &StatusHandler{
		log:    l,
		checks: checks,
	}
}

func (h *StatusHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Available"})
}

// Ready pings every dependency and answers 503 when one is down.
func (h *StatusHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	code := http.StatusOK
	result := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			h.log.ErrorErr("readiness check failed", err, "dependency", name)
			result[name] = "unavailable"
			code = http.StatusServiceUnavailable
			continue
		}
		result[name] = "ok"
	}
	c.JSON(code, gin.H{"checks": result})
}
