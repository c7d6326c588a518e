package fcm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/SocialShift/Knowledge-Backend/internal/config"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func TestSendOnThisDay(t *testing.T) {
	id := uuid.New()
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key=secret", r.Header.Get("Authorization"))
		var err error
		got, err = json.Marshal(decode(t, r))
		require.NoError(t, err)
		_, _ = w.Write([]byte(`{"message_id": 42}`))
	}))
	defer srv.Close()

	c := NewClient(logger.Discard(), config.FCM{ServerKey: "secret", URL: srv.URL, Topic: "otd_updates", Timeout: time.Second})
	date := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.SendOnThisDay(context.Background(), "Greensboro sit-ins", date, id))
	assert.Equal(t, "/topics/otd_updates", gjson.GetBytes(got, "to").String())
	assert.Equal(t, "Greensboro sit-ins - February 01", gjson.GetBytes(got, "notification.body").String())
	assert.Equal(t, id.String(), gjson.GetBytes(got, "data.otd_id").String())
}

func TestSendOnThisDay_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error": "InvalidRegistration"}`))
	}))
	defer srv.Close()

	c := NewClient(logger.Discard(), config.FCM{ServerKey: "secret", URL: srv.URL, Topic: "t", Timeout: time.Second})
	err := c.SendOnThisDay(context.Background(), "x", time.Now(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvalidRegistration")
}

func TestSendOnThisDay_NoKey(t *testing.T) {
	c := NewClient(logger.Discard(), config.FCM{URL: "http://127.0.0.1:1"})
	assert.NoError(t, c.SendOnThisDay(context.Background(), "x", time.Now(), uuid.New()))
}

func decode(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
	return m
}
