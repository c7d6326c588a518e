package sendgrid

import (
	"context"
	"net/http"
	"strings"
	"testing"

	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SocialShift/Knowledge-Backend/internal/config"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

func TestSendVerificationCode(t *testing.T) {
	m := NewMailer(logger.Discard(), config.SendGrid{APIKey: "key", FromName: "Knowledge", FromEmail: "noreply@knowledge.app"})

	var sent *sgmail.SGMailV3
	m.send = func(key string, msg *sgmail.SGMailV3) (int, error) {
		assert.Equal(t, "key", key)
		sent = msg
		return http.StatusAccepted, nil
	}

	require.NoError(t, m.SendVerificationCode(context.Background(), "ada@example.com", "123456"))
	require.NotNil(t, sent)
	assert.Equal(t, "noreply@knowledge.app", sent.From.Address)
	require.Len(t, sent.Personalizations, 1)
	assert.Equal(t, "ada@example.com", sent.Personalizations[0].To[0].Address)
	assert.True(t, strings.Contains(sent.Content[0].Value, "123456"))
}

func TestSendVerificationCode_Failure(t *testing.T) {
	m := NewMailer(logger.Discard(), config.SendGrid{APIKey: "key"})
	m.send = func(string, *sgmail.SGMailV3) (int, error) { return http.StatusUnauthorized, nil }

	assert.Error(t, m.SendVerificationCode(context.Background(), "ada@example.com", "123456"))
}

func TestSendVerificationCode_NoKey(t *testing.T) {
	m := NewMailer(logger.Discard(), config.SendGrid{})
	m.send = func(string, *sgmail.SGMailV3) (int, error) {
		t.Fatal("should not send without a key")
		return 0, nil
	}
	assert.NoError(t, m.SendVerificationCode(context.Background(), "ada@example.com", "123456"))
}
