package appointment

import (
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
	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/internal/service/notification"
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

type fixture struct {
	svc     *Service
	mem     *memory.Backend
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	mem := memory.New("http://backend.test")
	backend := mem.Gateway(collections)
	m := metrics.New("test")
	notifier := notification.NewService(backend.Messages, time.UTC, logger.Nop(), m)
	return fixture{
		svc:     NewService(backend, notifier, logger.Nop(), m),
		mem:     mem,
		metrics: m,
	}
}

func (f fixture) createPatient(t *testing.T, name string) string {
	t.Helper()
	doc, err := f.mem.CreateDocument(context.Background(), "db", "patients", gateway.UniqueID(),
		model.PatientDocument{UserID: "user-1", Name: name})
	require.NoError(t, err)
	return doc.ID
}

func checkUp() form.AppointmentInput {
	return form.AppointmentInput{
		Specialty:        "cardiology",
		PrimaryPhysician: "John Green",
		Schedule:         time.Now().Add(72 * time.Hour).Truncate(time.Second).UTC(),
		Reason:           "check-up",
	}
}

func TestCreateStoresPendingAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patientID := f.createPatient(t, "Ada Lovelace")
	in := checkUp()

	created, err := f.svc.Create(ctx, "user-1", patientID, in)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, model.AppointmentStatusPending, created.Status)

	fetched, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", fetched.UserID)
	assert.Equal(t, patientID, fetched.Patient.String())
	assert.Equal(t, "cardiology", fetched.Specialty)
	assert.Equal(t, "John Green", fetched.PrimaryPhysician)
	assert.Equal(t, "check-up", fetched.Reason)
	assert.True(t, in.Schedule.Equal(fetched.Schedule))
	assert.Empty(t, f.mem.Outbox(), "creating an appointment sends no sms")
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AppointmentTransitions.WithLabelValues("pending")))
}

func TestCreateValidatesBeforeWriting(t *testing.T) {
	f := newFixture(t)

	in := checkUp()
	in.PrimaryPhysician = "Dr. Nobody"
	in.Reason = ""
	_, err := f.svc.Create(context.Background(), "user-1", "patient-1", in)

	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	fields := apperrors.As(err).Fields
	assert.Contains(t, fields, "primaryPhysician")
	assert.Contains(t, fields, "reason")

	stats, err := f.svc.ListRecent(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalCount)
}

func TestGetMissingAppointment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), "missing")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestCancelSendsExactlyOneSMS(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, "user-1", f.createPatient(t, "Ada"), checkUp())
	require.NoError(t, err)

	updated, err := f.svc.Update(ctx, created.ID, form.ModeCancel, form.AppointmentInput{CancellationReason: "patient unavailable"})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
	assert.Equal(t, "patient unavailable", updated.CancellationReason)
	assert.Equal(t, "John Green", updated.PrimaryPhysician, "cancel leaves the schedule fields alone")

	outbox := f.mem.Outbox()
	require.Len(t, outbox, 1)
	assert.Contains(t, outbox[0].Content, "patient unavailable")
	assert.Equal(t, []string{"user-1"}, outbox[0].UserIDs)

	fetched, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, fetched.Status)
}

func TestScheduleSendsScheduleTemplate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, "user-1", f.createPatient(t, "Ada"), checkUp())
	require.NoError(t, err)

	when := time.Date(2026, 12, 1, 9, 15, 0, 0, time.UTC)
	updated, err := f.svc.Update(ctx, created.ID, form.ModeSchedule, form.AppointmentInput{
		PrimaryPhysician: "Leila Cameron",
		Specialty:        "neurology",
		Schedule:         when,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, updated.Status)
	assert.Equal(t, "Leila Cameron", updated.PrimaryPhysician)
	assert.Equal(t, "check-up", updated.Reason)

	outbox := f.mem.Outbox()
	require.Len(t, outbox, 1)
	assert.Equal(t, "Hi, it's caretrack. Your appointment has been scheduled for Dec 1, 2026, 9:15 AM with Dr. Leila Cameron.", outbox[0].Content)
}

func TestUpdateSucceedsWhenSMSFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, "user-1", f.createPatient(t, "Ada"), checkUp())
	require.NoError(t, err)

	f.mem.FailSMS = errors.New("provider down")
	updated, err := f.svc.Update(ctx, created.ID, form.ModeCancel, form.AppointmentInput{CancellationReason: "clinic closed"})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.NotificationsSent.WithLabelValues("cancel", "error")))
}

func TestUpdateRejectsInvalidInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, "user-1", f.createPatient(t, "Ada"), checkUp())
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, created.ID, form.ModeCancel, form.AppointmentInput{CancellationReason: "x"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = f.svc.Update(ctx, created.ID, form.ModeCreate, checkUp())
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	assert.Empty(t, f.mem.Outbox())
}

func TestUpdateMissingAppointment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), "missing", form.ModeCancel, form.AppointmentInput{CancellationReason: "no show"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Empty(t, f.mem.Outbox())
}

func TestCancelByPatientChecksOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, "user-1", f.createPatient(t, "Ada"), checkUp())
	require.NoError(t, err)

	_, err = f.svc.CancelByPatient(ctx, "user-2", created.ID, "changed my mind")
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	assert.Empty(t, f.mem.Outbox())

	cancelled, err := f.svc.CancelByPatient(ctx, "user-1", created.ID, "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	assert.Len(t, f.mem.Outbox(), 1)
}

func TestListRecentCountsAndOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	patientA := f.createPatient(t, "Ada")
	patientB := f.createPatient(t, "Grace")

	first, err := f.svc.Create(ctx, "user-1", patientA, checkUp())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, "user-1", patientB, checkUp())
	require.NoError(t, err)
	third, err := f.svc.Create(ctx, "user-1", patientA, checkUp())
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, first.ID, form.ModeCancel, form.AppointmentInput{CancellationReason: "no longer needed"})
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, second.ID, form.ModeSchedule, checkUp())
	require.NoError(t, err)

	stats, err := f.svc.ListRecent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, 1, stats.ScheduledCount)
	assert.Equal(t, 1, stats.PendingCount)
	assert.Equal(t, 1, stats.CancelledCount)
	require.Len(t, stats.Documents, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID},
		[]string{stats.Documents[0].ID, stats.Documents[1].ID, stats.Documents[2].ID})

	names := f.svc.PatientNames(ctx, stats.Documents)
	assert.Equal(t, map[string]string{patientA: "Ada", patientB: "Grace"}, names)
}
