package notification

import (
	"context"
	"errors"
	"testing"

	"jobboard_backend/internal/email"
	"jobboard_backend/internal/events"
	"jobboard_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	smtp       bool
	adminEmail string
}

func (c testConfig) GetSMTPHost() string         { return "smtp.example.com" }
func (c testConfig) GetSMTPPort() int            { return 587 }
func (c testConfig) GetSMTPUsername() string     { return "" }
func (c testConfig) GetSMTPPassword() string     { return "" }
func (c testConfig) GetSMTPFrom() string         { return "noreply@example.com" }
func (c testConfig) IsSMTPEnabled() bool         { return c.smtp }
func (c testConfig) GetAdminNotifyEmail() string { return c.adminEmail }
func (c testConfig) GetSiteURL() string          { return "https://jobs.example.com" }

type testSender struct {
	to      []string
	notices []email.ApplicationNotice
	err     error
}

func (s *testSender) SendApplicationNotice(_ context.Context, to string, n email.ApplicationNotice) error {
	s.to = append(s.to, to)
	s.notices = append(s.notices, n)
	return s.err
}

func (s *testSender) SendConsultationReminder(context.Context, string, email.ConsultationReminder) error {
	return nil
}

func submitted() events.ApplicationSubmitted {
	return events.ApplicationSubmitted{
		BaseEvent:     events.NewBaseEvent(),
		ApplicationID: uuid.New(),
		JobID:         uuid.New(),
		JobTitle:      "倉庫スタッフ",
		UserID:        uuid.New(),
		ApplicantName: "山田 太郎",
	}
}

func TestApplicationSubmittedMailsAdmin(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testConfig{smtp: true, adminEmail: "admin@example.com"}, logger.Nop())

	require.NoError(t, m.Handle(context.Background(), submitted()))

	require.Len(t, sender.notices, 1)
	assert.Equal(t, []string{"admin@example.com"}, sender.to)
	assert.Equal(t, "山田 太郎", sender.notices[0].ApplicantName)
	assert.Equal(t, "https://jobs.example.com/admin/applications", sender.notices[0].AdminURL)
	assert.False(t, sender.notices[0].SubmittedAt.IsZero())
}

func TestApplicationSubmittedSkipsWithoutSMTP(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testConfig{smtp: false, adminEmail: "admin@example.com"}, logger.Nop())

	require.NoError(t, m.Handle(context.Background(), submitted()))
	assert.Empty(t, sender.notices)

	m = New(sender, testConfig{smtp: true}, logger.Nop())
	require.NoError(t, m.Handle(context.Background(), submitted()))
	assert.Empty(t, sender.notices)
}

func TestApplicationSubmittedReturnsSendError(t *testing.T) {
	sender := &testSender{err: errors.New("relay down")}
	m := New(sender, testConfig{smtp: true, adminEmail: "admin@example.com"}, logger.Nop())

	assert.Error(t, m.Handle(context.Background(), submitted()))
}

func TestBusDeliversToModule(t *testing.T) {
	sender := &testSender{}
	m := New(sender, testConfig{smtp: true, adminEmail: "admin@example.com"}, logger.Nop())
	bus := events.NewInMemoryBus(logger.Nop())
	m.RegisterHandlers(bus)

	require.NoError(t, bus.PublishSync(context.Background(), submitted()))
	assert.Len(t, sender.notices, 1)
	assert.NoError(t, bus.PublishSync(context.Background(), events.ConsultationBooked{BaseEvent: events.NewBaseEvent(), BookingID: uuid.New()}))
}
