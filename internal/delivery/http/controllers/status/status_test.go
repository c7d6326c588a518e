package status

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h *StatusHandler, path string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/status", h.Status)
	r.GET("/status/ready", h.Ready)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestStatus(t *testing.T) {
	w := serve(NewStatusHandler(logger.Discard(), nil), "/status")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"Available"}`, w.Body.String())
}

func TestReady(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	w := serve(NewStatusHandler(logger.Discard(), map[string]Pinger{"postgres": up, "redis": up}), "/status/ready")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"checks":{"postgres":"ok","redis":"ok"}}`, w.Body.String())

	w = serve(NewStatusHandler(logger.Discard(), map[string]Pinger{"postgres": up, "redis": down}), "/status/ready")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"checks":{"postgres":"ok","redis":"unavailable"}}`, w.Body.String())
}
