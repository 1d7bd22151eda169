package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefDecodesIDOrExpandedDocument(t *testing.T) {
	var a AppointmentData
	require.NoError(t, json.Unmarshal([]byte(`{"patient":"p1"}`), &a))
	assert.Equal(t, Ref("p1"), a.Patient)

	require.NoError(t, json.Unmarshal([]byte(`{"patient":{"$id":"p2","name":"Ada"}}`), &a))
	assert.Equal(t, Ref("p2"), a.Patient)

	require.NoError(t, json.Unmarshal([]byte(`{"patient":null}`), &a))
	assert.Equal(t, Ref(""), a.Patient)
}

func TestPatientDocumentMapping(t *testing.T) {
	p := Patient{
		UserID:           "u1",
		Name:             "Ada Lovelace",
		EmergencyContact: EmergencyContact{Name: "Byron", Number: "+14155550100"},
		Insurance:        Insurance{Provider: "Acme", PolicyNumber: "123"},
		Identification:   Identification{Type: "Passport", Number: "X1", DocumentID: "f1", DocumentURL: "https://files/f1"},
		Consents:         Consents{Treatment: true, Disclosure: true, Privacy: true},
	}

	doc := p.Document()
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"emergencyContactName":"Byron"`)
	assert.Contains(t, string(raw), `"identificationDocumentId":"f1"`)
	assert.Contains(t, string(raw), `"treatmentConsent":true`)

	back := doc.Patient(Base{ID: "p1"})
	assert.Equal(t, "p1", back.ID)
	back.Base = Base{}
	assert.Equal(t, p, back)
}

func TestPatientDocumentOmitsMissingIdentificationFile(t *testing.T) {
	raw, err := json.Marshal(Patient{UserID: "u1"}.Document())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "identificationDocumentId")
	assert.NotContains(t, string(raw), "identificationDocumentUrl")
}

func TestAppointmentStatsCount(t *testing.T) {
	var s AppointmentStats
	for _, st := range []AppointmentStatus{"pending", "pending", "scheduled", "cancelled", "archived"} {
		s.Count(Appointment{AppointmentData: AppointmentData{Status: st}})
	}
	assert.Equal(t, 2, s.PendingCount)
	assert.Equal(t, 1, s.ScheduledCount)
	assert.Equal(t, 1, s.CancelledCount)
}

func TestCatalog(t *testing.T) {
	assert.Len(t, Doctors, 9)
	assert.Len(t, Specialties, 19)
	assert.Len(t, IdentificationTypes, 11)

	d, ok := FindDoctor("Alex Ramirez")
	require.True(t, ok)
	assert.Equal(t, "/assets/images/dr-remirez.png", d.Image)

	_, ok = FindDoctor("Gregory House")
	assert.False(t, ok)

	assert.True(t, IsSpecialty("cardiology"))
	assert.False(t, IsSpecialty("Cardiology"))
	assert.True(t, IsIdentificationType(DefaultIdentificationType))
}

func TestFormatDateTime(t *testing.T) {
	at := time.Date(2026, 11, 3, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "Nov 3, 2026, 2:30 PM", FormatDateTime(at, nil))

	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "Nov 3, 2026, 9:30 AM", FormatDateTime(at, ny))
}
