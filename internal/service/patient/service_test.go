package patient

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/caretrack/internal/form"
	"github.com/jwalitptl/caretrack/internal/gateway"
	"github.com/jwalitptl/caretrack/internal/gateway/memory"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
	"github.com/jwalitptl/caretrack/pkg/logger"
	"github.com/jwalitptl/caretrack/pkg/metrics"
)

var collections = gateway.Collections{
	DatabaseID:              "db",
	PatientCollectionID:     "patients",
	AppointmentCollectionID: "appointments",
	BucketID:                "ids",
}

// countingDocuments records calls and can fail creates
type countingDocuments struct {
	gateway.DocumentStore
	calls     int
	failWrite error
}

func (c *countingDocuments) CreateDocument(ctx context.Context, db, coll, id string, data any) (*gateway.Document, error) {
	c.calls++
	if c.failWrite != nil {
		return nil, c.failWrite
	}
	return c.DocumentStore.CreateDocument(ctx, db, coll, id, data)
}

func (c *countingDocuments) ListDocuments(ctx context.Context, db, coll string, queries ...gateway.Query) (*gateway.DocumentList, error) {
	c.calls++
	return c.DocumentStore.ListDocuments(ctx, db, coll, queries...)
}

func newService(t *testing.T) (*Service, *memory.Backend, *countingDocuments, *metrics.Metrics) {
	t.Helper()
	mem := memory.New("http://backend.test/v1")
	backend := mem.Gateway(collections)
	docs := &countingDocuments{DocumentStore: backend.Documents}
	backend.Documents = docs
	m := metrics.New("test")
	return NewService(backend, logger.Nop(), m), mem, docs, m
}

func validRegistration() form.RegistrationInput {
	return form.RegistrationInput{
		Name:                   "Ada Lovelace",
		Email:                  "ada@example.com",
		Phone:                  "+14155550100",
		BirthDate:              time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		Gender:                 "female",
		Address:                "12 Analytical Row, London",
		Occupation:             "Mathematician",
		EmergencyContactName:   "Charles Babbage",
		EmergencyContactNumber: "+14155550101",
		PrimaryPhysician:       "John Green",
		InsuranceProvider:      "BlueCross",
		InsurancePolicyNumber:  "ABC123",
		IdentificationType:     "Passport",
		IdentificationNumber:   "P123456",
		TreatmentConsent:       true,
		DisclosureConsent:      true,
		PrivacyConsent:         true,
	}
}

func TestCreateUserReturnsExistingUserOnDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()
	in := form.UserInput{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "+14155550100"}

	first, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)

	in.Name = "Ada L."
	second, err := svc.CreateUser(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Ada Lovelace", second.Name)
}

func TestCreateUserValidatesInput(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.CreateUser(context.Background(), form.UserInput{Name: "A", Email: "nope", Phone: "555"})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Len(t, apperrors.As(err).Fields, 3)
}

func TestCreateUserStoresSpacedPhoneAsE164(t *testing.T) {
	svc, _, _, _ := newService(t)

	u, err := svc.CreateUser(context.Background(), form.UserInput{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "+1 (415) 555-0100"})
	require.NoError(t, err)
	assert.Equal(t, "+14155550100", u.Phone)
}

func TestRegisterStoresSpacedPhonesAsE164(t *testing.T) {
	svc, _, _, _ := newService(t)
	in := validRegistration()
	in.Phone = "+1 415 555 0100"
	in.EmergencyContactNumber = "+1 415-555-0101"

	p, err := svc.Register(context.Background(), "user-1", in, nil)
	require.NoError(t, err)
	assert.Equal(t, "+14155550100", p.Phone)
	assert.Equal(t, "+14155550101", p.EmergencyContact.Number)
}

func TestGetUserNotFound(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.GetUser(context.Background(), "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestRegisterWithIdentificationDocument(t *testing.T) {
	svc, mem, _, m := newService(t)
	ctx := context.Background()

	file := &gateway.InputFile{
		Name:        "passport.png",
		ContentType: "image/png",
		Size:        4,
		Reader:      bytes.NewReader([]byte("\x89PNG")),
	}
	p, err := svc.Register(ctx, "user-1", validRegistration(), file)
	require.NoError(t, err)

	require.NotEmpty(t, p.Identification.DocumentID)
	assert.Equal(t, "http://backend.test/v1/storage/buckets/ids/files/"+p.Identification.DocumentID+"/view", p.Identification.DocumentURL)
	content, ok := mem.FileContent("ids", p.Identification.DocumentID)
	require.True(t, ok)
	assert.Equal(t, []byte("\x89PNG"), content)

	fetched, err := svc.GetPatient(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, fetched.ID)
	assert.Equal(t, "Charles Babbage", fetched.EmergencyContact.Name)
	assert.True(t, fetched.Consents.Privacy)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PatientsRegistered))
}

func TestRegisterWithoutDocumentLeavesURLUnset(t *testing.T) {
	svc, _, _, _ := newService(t)

	p, err := svc.Register(context.Background(), "user-1", validRegistration(), nil)
	require.NoError(t, err)
	assert.Empty(t, p.Identification.DocumentID)
	assert.Empty(t, p.Identification.DocumentURL)
}

func TestRegisterWithUncheckedConsentsMakesNoBackendCall(t *testing.T) {
	svc, _, docs, _ := newService(t)

	in := validRegistration()
	in.TreatmentConsent = false
	in.DisclosureConsent = false
	in.PrivacyConsent = false

	_, err := svc.Register(context.Background(), "user-1", in, nil)
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	fields := apperrors.As(err).Fields
	assert.Contains(t, fields, "treatmentConsent")
	assert.Contains(t, fields, "disclosureConsent")
	assert.Contains(t, fields, "privacyConsent")
	assert.Zero(t, docs.calls)
}

func TestRegisterTwiceConflicts(t *testing.T) {
	svc, _, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "user-1", validRegistration(), nil)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "user-1", validRegistration(), nil)
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestRegisterCountsOrphanedUpload(t *testing.T) {
	svc, _, docs, m := newService(t)
	docs.failWrite = errors.New("collection unavailable")

	file := &gateway.InputFile{Name: "id.pdf", ContentType: "application/pdf", Size: 3, Reader: bytes.NewReader([]byte("pdf"))}
	_, err := svc.Register(context.Background(), "user-1", validRegistration(), file)

	require.True(t, apperrors.IsKind(err, apperrors.KindBackend))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrphanedUploads))
	assert.Zero(t, testutil.ToFloat64(m.PatientsRegistered))
}

func TestRegisterRejectsUnsupportedUpload(t *testing.T) {
	svc, _, docs, _ := newService(t)

	file := &gateway.InputFile{Name: "run.exe", ContentType: "application/octet-stream", Size: 2, Reader: bytes.NewReader([]byte("MZ"))}
	_, err := svc.Register(context.Background(), "user-1", validRegistration(), file)

	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	assert.Contains(t, apperrors.As(err).Fields, "identificationDocument")
	assert.Zero(t, docs.calls)
}
