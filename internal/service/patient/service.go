package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jwalitptl/caretrack/internal/form"
	"github.com/jwalitptl/caretrack/internal/gateway"
	"github.com/jwalitptl/caretrack/internal/model"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
	"github.com/jwalitptl/caretrack/pkg/logger"
	"github.com/jwalitptl/caretrack/pkg/metrics"
)

const documentField = "identificationDocument"

type Service struct {
	backend gateway.Backend
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewService(backend gateway.Backend, log *logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		backend: backend,
		logger:  log,
		metrics: m,
	}
}

// CreateUser creates the directory user, or returns the existing one when the email
// is already registered.
func (s *Service) CreateUser(ctx context.Context, in form.UserInput) (*model.User, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	u, err := s.backend.Users.CreateUser(ctx, gateway.UniqueID(), in.Email, in.Phone, in.Name)
	if err == nil {
		return toUser(u), nil
	}
	if !errors.Is(err, gateway.ErrConflict) {
		return nil, apperrors.Backend("failed to create user", err)
	}

	list, err := s.backend.Users.ListUsers(ctx, gateway.Equal("email", in.Email))
	if err != nil {
		return nil, apperrors.Backend("failed to look up existing user", err)
	}
	if len(list.Users) == 0 {
		return nil, apperrors.Conflict("user already exists", gateway.ErrConflict)
	}

	s.logger.WithContext(ctx).Debug("user already registered", "user_id", list.Users[0].ID)
	return toUser(&list.Users[0]), nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.backend.Users.GetUser(ctx, userID)
	if err != nil {
		return nil, translate("user", err)
	}
	return toUser(u), nil
}

// GetPatient returns the patient registered by userID
func (s *Service) GetPatient(ctx context.Context, userID string) (*model.Patient, error) {
	c := s.backend.Collections
	list, err := s.backend.Documents.ListDocuments(ctx, c.DatabaseID, c.PatientCollectionID,
		gateway.Equal("userId", userID), gateway.Limit(1))
	if err != nil {
		return nil, apperrors.Backend("failed to get patient", err)
	}
	if len(list.Documents) == 0 {
		return nil, apperrors.NotFound("patient", gateway.ErrNotFound)
	}
	return decodePatient(&list.Documents[0])
}

// GetPatientByID returns a patient by document id
func (s *Service) GetPatientByID(ctx context.Context, patientID string) (*model.Patient, error) {
	c := s.backend.Collections
	doc, err := s.backend.Documents.GetDocument(ctx, c.DatabaseID, c.PatientCollectionID, patientID)
	if err != nil {
		return nil, translate("patient", err)
	}
	return decodePatient(doc)
}

// Register validates the intake form, uploads the identification document when one
// was given, then creates the patient document. Nothing reaches the backend when
// validation fails.
func (s *Service) Register(ctx context.Context, userID string, in form.RegistrationInput, file *gateway.InputFile) (*model.Patient, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if file != nil {
		if err := checkUpload(file); err != nil {
			return nil, err
		}
	}

	existing, err := s.GetPatient(ctx, userID)
	if err == nil {
		return nil, apperrors.Conflict("patient already registered", fmt.Errorf("patient %s: %w", existing.ID, gateway.ErrConflict))
	}
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		return nil, err
	}

	log := s.logger.WithContext(ctx).WithFields(map[string]interface{}{"user_id": userID})
	patient := in.Patient(userID)
	c := s.backend.Collections

	if file != nil {
		uploaded, err := s.backend.Files.CreateFile(ctx, c.BucketID, gateway.UniqueID(), *file)
		if err != nil {
			return nil, apperrors.Backend("failed to upload identification document", err)
		}
		patient.Identification.DocumentID = uploaded.ID
		patient.Identification.DocumentURL = s.backend.Files.FileViewURL(c.BucketID, uploaded.ID)
	}

	doc, err := s.backend.Documents.CreateDocument(ctx, c.DatabaseID, c.PatientCollectionID, gateway.UniqueID(), patient.Document())
	if err != nil {
		if patient.Identification.DocumentID != "" {
			log.Error(err, "identification document left without a patient", "file_id", patient.Identification.DocumentID)
			if s.metrics != nil {
				s.metrics.OrphanedUploads.Inc()
			}
		}
		return nil, apperrors.Backend("failed to register patient", err)
	}

	if s.metrics != nil {
		s.metrics.PatientsRegistered.Inc()
	}
	log.Info("patient registered", "patient_id", doc.ID)
	return decodePatient(doc)
}

// checkUpload accepts images and PDFs
func checkUpload(file *gateway.InputFile) error {
	if file.Reader == nil || file.Size == 0 {
		return apperrors.Validation(map[string]string{documentField: "Uploaded file is empty"})
	}
	ct := strings.ToLower(file.ContentType)
	if !strings.HasPrefix(ct, "image/") && ct != "application/pdf" {
		return apperrors.Validation(map[string]string{documentField: "Upload an image or a PDF"})
	}
	return nil
}

func decodePatient(doc *gateway.Document) (*model.Patient, error) {
	var body model.PatientDocument
	if err := doc.Decode(&body); err != nil {
		return nil, apperrors.Internal(err)
	}
	p := body.Patient(model.Base{ID: doc.ID, CreatedAt: doc.CreatedAt, UpdatedAt: doc.UpdatedAt})
	return &p, nil
}

func toUser(u *gateway.User) *model.User {
	return &model.User{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func translate(resource string, err error) error {
	if errors.Is(err, gateway.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Backend(fmt.Sprintf("failed to get %s", resource), err)
}
