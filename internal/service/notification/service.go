package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/caretrack/internal/gateway"
	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/pkg/logger"
	"github.com/jwalitptl/caretrack/pkg/metrics"
)

// Template selects the text message sent after an appointment transition
type Template string

const (
	TemplateSchedule Template = "schedule"
	TemplateCancel   Template = "cancel"

	greeting = "Hi, it's caretrack."
)

type Service interface {
	// Send dispatches exactly one SMS to the user. A failure is logged and counted
	// and returned for the caller to ignore or surface.
	Send(ctx context.Context, userID string, tmpl Template, appointment model.AppointmentData) error
}

type service struct {
	messenger gateway.Messenger
	location  *time.Location
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(messenger gateway.Messenger, loc *time.Location, log *logger.Logger, m *metrics.Metrics) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		messenger: messenger,
		location:  loc,
		logger:    log,
		metrics:   m,
	}
}

// Message renders the text for a template
func Message(tmpl Template, appointment model.AppointmentData, loc *time.Location) (string, error) {
	switch tmpl {
	case TemplateSchedule:
		return fmt.Sprintf("%s Your appointment has been scheduled for %s with Dr. %s.",
			greeting, model.FormatDateTime(appointment.Schedule, loc), appointment.PrimaryPhysician), nil
	case TemplateCancel:
		return fmt.Sprintf("%s We regret to inform you that your appointment has been cancelled for the following reason: %s.",
			greeting, appointment.CancellationReason), nil
	}
	return "", fmt.Errorf("unknown notification template %q", tmpl)
}

func (s *service) Send(ctx context.Context, userID string, tmpl Template, appointment model.AppointmentData) error {
	log := s.logger.WithContext(ctx).WithFields(map[string]interface{}{
		"template": string(tmpl),
		"user_id":  userID,
	})

	content, err := Message(tmpl, appointment, s.location)
	if err != nil {
		s.record(tmpl, "error")
		log.Error(err, "failed to render notification")
		return err
	}

	receipt, err := s.messenger.CreateSMS(ctx, gateway.UniqueID(), content, nil, []string{userID})
	if err != nil {
		s.record(tmpl, "error")
		log.Error(err, "failed to send sms notification")
		return fmt.Errorf("failed to send sms: %w", err)
	}

	s.record(tmpl, "sent")
	log.Info("sms notification sent", "message_id", receipt.ID)
	return nil
}

func (s *service) record(tmpl Template, status string) {
	if s.metrics == nil {
		return
	}
	s.metrics.NotificationsSent.WithLabelValues(string(tmpl), status).Inc()
}
