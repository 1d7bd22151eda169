package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/caretrack/internal/form"
	"github.com/jwalitptl/caretrack/internal/gateway"
	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/internal/service/notification"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
	"github.com/jwalitptl/caretrack/pkg/logger"
	"github.com/jwalitptl/caretrack/pkg/metrics"
)

var ErrNotOwner = errors.New("appointment belongs to another user")

type Service struct {
	backend  gateway.Backend
	notifier notification.Service
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewService(backend gateway.Backend, notifier notification.Service, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		backend:  backend,
		notifier: notifier,
		logger:   log,
		metrics:  m,
	}
}

// Create stores a pending appointment requested by a patient
func (s *Service) Create(ctx context.Context, userID, patientID string, in form.AppointmentInput) (*model.Appointment, error) {
	if userID == "" || patientID == "" {
		return nil, apperrors.BadRequest("user and patient are required", nil)
	}
	if err := form.SchemaFor(form.ModeCreate).Validate(in); err != nil {
		return nil, err
	}

	data := model.AppointmentData{
		UserID:           userID,
		Patient:          model.Ref(patientID),
		PrimaryPhysician: in.PrimaryPhysician,
		Specialty:        in.Specialty,
		Schedule:         in.Schedule.UTC(),
		Status:           form.ModeCreate.Status(),
		Reason:           in.Reason,
		Note:             in.Note,
	}

	c := s.backend.Collections
	doc, err := s.backend.Documents.CreateDocument(ctx, c.DatabaseID, c.AppointmentCollectionID, gateway.UniqueID(), data)
	if err != nil {
		return nil, apperrors.Backend("failed to create appointment", err)
	}
	s.recordTransition(data.Status)

	s.logger.WithContext(ctx).Info("appointment created", "appointment_id", doc.ID, "user_id", userID)
	return decode(doc)
}

func (s *Service) Get(ctx context.Context, id string) (*model.Appointment, error) {
	c := s.backend.Collections
	doc, err := s.backend.Documents.GetDocument(ctx, c.DatabaseID, c.AppointmentCollectionID, id)
	if err != nil {
		return nil, translate("get", err)
	}
	return decode(doc)
}

// ListRecent returns every appointment, newest first, with per-status counts
func (s *Service) ListRecent(ctx context.Context) (*model.AppointmentStats, error) {
	c := s.backend.Collections
	list, err := s.backend.Documents.ListDocuments(ctx, c.DatabaseID, c.AppointmentCollectionID,
		gateway.OrderDesc(gateway.AttrCreatedAt))
	if err != nil {
		return nil, apperrors.Backend("failed to list appointments", err)
	}

	stats := &model.AppointmentStats{
		TotalCount: list.Total,
		Documents:  make([]model.Appointment, 0, len(list.Documents)),
	}
	for i := range list.Documents {
		a, err := decode(&list.Documents[i])
		if err != nil {
			return nil, err
		}
		stats.Count(*a)
		stats.Documents = append(stats.Documents, *a)
	}
	return stats, nil
}

// PatientNames resolves the patient name of each appointment. Every distinct patient
// is fetched once; a patient that cannot be fetched is left out.
func (s *Service) PatientNames(ctx context.Context, appointments []model.Appointment) map[string]string {
	c := s.backend.Collections
	names := make(map[string]string)
	tried := make(map[string]bool)

	for _, a := range appointments {
		id := a.Patient.String()
		if id == "" || tried[id] {
			continue
		}
		tried[id] = true

		doc, err := s.backend.Documents.GetDocument(ctx, c.DatabaseID, c.PatientCollectionID, id)
		if err != nil {
			s.logger.WithContext(ctx).Warn(err, "failed to resolve patient", "patient_id", id)
			continue
		}
		var p struct {
			Name string `json:"name"`
		}
		if err := doc.Decode(&p); err != nil {
			s.logger.WithContext(ctx).Warn(err, "failed to decode patient", "patient_id", id)
			continue
		}
		names[id] = p.Name
	}
	return names
}

// Update applies a schedule or cancel transition and notifies the patient by SMS.
// Only the fields the mode owns are written. The SMS outcome does not affect the result.
func (s *Service) Update(ctx context.Context, id string, mode form.Mode, in form.AppointmentInput) (*model.Appointment, error) {
	payload, tmpl, err := transition(mode, in)
	if err != nil {
		return nil, err
	}

	c := s.backend.Collections
	doc, err := s.backend.Documents.UpdateDocument(ctx, c.DatabaseID, c.AppointmentCollectionID, id, payload)
	if err != nil {
		return nil, translate("update", err)
	}
	updated, err := decode(doc)
	if err != nil {
		return nil, err
	}
	s.recordTransition(updated.Status)

	log := s.logger.WithContext(ctx)
	log.Info("appointment updated", "appointment_id", id, "status", string(updated.Status))

	if err := s.notifier.Send(ctx, updated.UserID, tmpl, updated.AppointmentData); err != nil {
		log.Warn(err, "appointment updated without notification", "appointment_id", id)
	}
	return updated, nil
}

// CancelByPatient lets a patient cancel one of their own appointments
func (s *Service) CancelByPatient(ctx context.Context, userID, id, reason string) (*model.Appointment, error) {
	in := form.AppointmentInput{CancellationReason: reason}
	if err := form.SchemaFor(form.ModeCancel).Validate(in); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.UserID != userID {
		return nil, apperrors.NotFound("appointment", ErrNotOwner)
	}
	return s.Update(ctx, id, form.ModeCancel, in)
}

func transition(mode form.Mode, in form.AppointmentInput) (map[string]any, notification.Template, error) {
	var (
		payload map[string]any
		tmpl    notification.Template
	)
	switch mode {
	case form.ModeSchedule:
		payload = map[string]any{
			"primaryPhysician": in.PrimaryPhysician,
			"specialty":        in.Specialty,
			"schedule":         in.Schedule.UTC().Format(time.RFC3339),
			"status":           mode.Status(),
		}
		tmpl = notification.TemplateSchedule
	case form.ModeCancel:
		payload = map[string]any{
			"status":             mode.Status(),
			"cancellationReason": in.CancellationReason,
		}
		tmpl = notification.TemplateCancel
	default:
		return nil, "", apperrors.BadRequest(fmt.Sprintf("mode %q does not update an appointment", mode), nil)
	}

	if err := form.SchemaFor(mode).Validate(in); err != nil {
		return nil, "", err
	}
	return payload, tmpl, nil
}

func (s *Service) recordTransition(status model.AppointmentStatus) {
	if s.metrics == nil {
		return
	}
	s.metrics.AppointmentTransitions.WithLabelValues(string(status)).Inc()
}

func decode(doc *gateway.Document) (*model.Appointment, error) {
	a := &model.Appointment{
		Base: model.Base{ID: doc.ID, CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt},
	}
	if err := doc.Decode(&a.AppointmentData); err != nil {
		return nil, apperrors.Internal(err)
	}
	return a, nil
}

func translate(action string, err error) error {
	if errors.Is(err, gateway.ErrNotFound) {
		return apperrors.NotFound("appointment", err)
	}
	return apperrors.Backend(fmt.Sprintf("failed to %s appointment", action), err)
}
