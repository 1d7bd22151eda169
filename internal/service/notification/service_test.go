package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/caretrack/internal/gateway/memory"
	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/pkg/logger"
	"github.com/jwalitptl/caretrack/pkg/metrics"
)

func TestMessage(t *testing.T) {
	appt := model.AppointmentData{
		PrimaryPhysician:   "John Green",
		Schedule:           time.Date(2026, 11, 3, 14, 30, 0, 0, time.UTC),
		CancellationReason: "patient unavailable",
	}

	msg, err := Message(TemplateSchedule, appt, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Hi, it's caretrack. Your appointment has been scheduled for Nov 3, 2026, 2:30 PM with Dr. John Green.", msg)

	msg, err = Message(TemplateCancel, appt, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "Hi, it's caretrack. We regret to inform you that your appointment has been cancelled for the following reason: patient unavailable.", msg)

	_, err = Message("reminder", appt, time.UTC)
	assert.Error(t, err)
}

func TestSendDeliversOneMessage(t *testing.T) {
	backend := memory.New("http://backend.test")
	m := metrics.New("test")
	svc := NewService(backend, time.UTC, logger.Nop(), m)

	err := svc.Send(context.Background(), "user-1", TemplateCancel, model.AppointmentData{CancellationReason: "doctor ill"})
	require.NoError(t, err)

	outbox := backend.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, []string{"user-1"}, outbox[0].UserIDs)
	assert.Empty(t, outbox[0].Topics)
	assert.Contains(t, outbox[0].Content, "doctor ill")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("cancel", "sent")))
}

func TestSendFailureIsCounted(t *testing.T) {
	backend := memory.New("http://backend.test")
	backend.FailSMS = errors.New("provider down")
	m := metrics.New("test")
	svc := NewService(backend, nil, logger.Nop(), m)

	err := svc.Send(context.Background(), "user-1", TemplateSchedule, model.AppointmentData{PrimaryPhysician: "Jane Powell"})
	assert.Error(t, err)
	assert.Empty(t, backend.Outbox())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsSent.WithLabelValues("schedule", "error")))
}
