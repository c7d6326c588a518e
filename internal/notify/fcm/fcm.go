package fcm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/SocialShift/Knowledge-Backend/internal/config"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

// Client pushes topic messages through the FCM legacy HTTP endpoint.
type Client struct {
	log       logger.Log
	http      *http.Client
	url       string
	serverKey string
	topic     string
}

func NewClient(l logger.Log, cfg config.FCM) *Client {
	return &Client{
		log:       l,
		http:      &http.Client{Timeout: cfg.Timeout},
		url:       cfg.URL,
		serverKey: cfg.ServerKey,
		topic:     cfg.Topic,
	}
}

type message struct {
	To           string            `json:"to"`
	Notification notification      `json:"notification"`
	Data         map[string]string `json:"data"`
}

type notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Sound string `json:"sound"`
}

func onThisDayMessage(topic, title string, date time.Time, id uuid.UUID) message {
	return message{
		To: "/topics/" + topic,
		Notification: notification{
			Title: "New On This Day Event",
			Body:  fmt.Sprintf("%s - %s", title, date.Format("January 02")),
			Sound: "default",
		},
		Data: map[string]string{
			"otd_id": id.String(),
			"type":   "on_this_day",
		},
	}
}

// SendOnThisDay announces an On This Day event to the topic subscribers.
// Without a server key nothing is sent.
func (c *Client) SendOnThisDay(ctx context.Context, title string, date time.Time, id uuid.UUID) error {
	if c.serverKey == "" {
		c.log.Warn("fcm server key not set, push skipped", "otd_id", id)
		return nil
	}

	body, err := json.Marshal(onThisDayMessage(c.topic, title, date, id))
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fcm request: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("fcm response: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("fcm status %d: %s", res.StatusCode, raw)
	}
	if errText := gjson.GetBytes(raw, "error").String(); errText != "" {
		return fmt.Errorf("fcm error: %s", errText)
	}
	c.log.Debug("fcm push sent", "otd_id", id, "message_id", gjson.GetBytes(raw, "message_id").String())
	return nil
}
