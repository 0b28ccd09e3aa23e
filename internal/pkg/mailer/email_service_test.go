package mailer

import (
	"bytes"
	"errors"
	"testing"

	"sumii-mobile-api/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func newCapturingService(t *testing.T, sendErr error) (*emailService, *[]*gomail.Message) {
	t.Helper()
	sent := make([]*gomail.Message, 0)
	svc := NewEmailService(Config{SenderName: "Sumii", FromEmail: "noreply@sumii.de", FrontendURL: "https://app.sumii.de"}, logger.NewNopLogger()).(*emailService)
	svc.send = func(m ...*gomail.Message) error {
		sent = append(sent, m...)
		return sendErr
	}
	return svc, &sent
}

func render(t *testing.T, m *gomail.Message) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	return buf.String()
}

func TestSendPasswordResetBuildsLink(t *testing.T) {
	svc, sent := newCapturingService(t, nil)

	require.NoError(t, svc.SendPasswordReset("anna@example.com", "tok123"))
	require.Len(t, *sent, 1)

	m := (*sent)[0]
	assert.Equal(t, []string{"Reset your Sumii password"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{"anna@example.com"}, m.GetHeader("To"))
	assert.Contains(t, render(t, m), "https://app.sumii.de/reset-password?token=3Dtok123")
}

func TestSendVerificationPropagatesSendError(t *testing.T) {
	svc, _ := newCapturingService(t, errors.New("smtp down"))
	assert.EqualError(t, svc.SendVerification("anna@example.com", "tok"), "smtp down")
}

func TestUnconfiguredMailerSkips(t *testing.T) {
	svc := NewEmailService(Config{}, logger.NewNopLogger())
	err := svc.SendLawyerResponse(LawyerResponseMail{ToEmail: "anna@example.com", LawyerName: "Dr. Weber"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
