package web

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/caretrack/internal/form"
	"github.com/jwalitptl/caretrack/internal/model"
)

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status model.AppointmentStatus
		icon   string
		color  string
	}{
		{model.AppointmentStatusPending, "/assets/icons/pending.svg", "blue"},
		{model.AppointmentStatusScheduled, "/assets/icons/check.svg", "green"},
		{model.AppointmentStatusCancelled, "/assets/icons/cancelled.svg", "red"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b, ok := StatusBadge(tt.status)
			require.True(t, ok)
			assert.Equal(t, tt.icon, b.Icon)
			assert.Equal(t, tt.color, b.Color)
		})
	}

	_, ok := StatusBadge("archived")
	assert.False(t, ok)
}

func TestRows(t *testing.T) {
	appointments := []model.Appointment{
		{
			Base: model.Base{ID: "a2"},
			AppointmentData: model.AppointmentData{
				UserID:           "u1",
				Patient:          "p1",
				PrimaryPhysician: "Jane Powell",
				Schedule:         time.Date(2026, 11, 3, 14, 30, 0, 0, time.UTC),
				Status:           model.AppointmentStatusScheduled,
			},
		},
		{
			Base: model.Base{ID: "a1"},
			AppointmentData: model.AppointmentData{
				Patient:          "p2",
				PrimaryPhysician: "Dr. Unknown",
				Status:           "weird",
			},
		},
	}

	rows := Rows(appointments, map[string]string{"p1": "Ada Lovelace"}, time.UTC)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "Ada Lovelace", rows[0].PatientName)
	assert.Equal(t, "Nov 3, 2026, 2:30 PM", rows[0].Date)
	assert.Equal(t, "green", rows[0].Badge.Color)
	assert.Equal(t, "/assets/images/dr-powell.png", rows[0].Doctor.Image)
	assert.Equal(t, "Dr. Jane Powell", rows[0].DoctorLabel)

	assert.Equal(t, 2, rows[1].Index)
	assert.False(t, rows[1].HasBadge)
	assert.Empty(t, rows[1].PatientName)
	assert.Empty(t, rows[1].Doctor.Image)
}

func TestTemplatesRenderDashboard(t *testing.T) {
	tmpl := Templates()
	badge, _ := StatusBadge(model.AppointmentStatusPending)

	var buf bytes.Buffer
	err := tmpl.ExecuteTemplate(&buf, PageAdmin, DashboardPage{
		Toast:        UpdatedToast,
		PendingCount: 1,
		Rows: []Row{{
			Index:         1,
			AppointmentID: "a1",
			PatientName:   "Ada <Lovelace>",
			Date:          "Nov 3, 2026, 2:30 PM",
			Badge:         badge,
			HasBadge:      true,
			DoctorLabel:   "Dr. John Green",
		}},
	})
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, UpdatedToast)
	assert.Contains(t, html, "Ada &lt;Lovelace&gt;")
	assert.Contains(t, html, `/admin/appointments/a1/schedule`)
	assert.Contains(t, html, "badge-blue")
}

func TestTemplatesRenderForms(t *testing.T) {
	tmpl := Templates()

	view, err := NewFormView("/patients/u1/new-appointment", form.ModeCreate.SubmitLabel(),
		form.AppointmentFields(form.ModeCreate), nil, map[string]string{"reason": "Reason is required"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, PageNewAppointment, NewAppointmentPage{Form: view}))
	assert.Contains(t, buf.String(), "Create Appointment")
	assert.Contains(t, buf.String(), "Reason is required")

	reg, err := NewSectionedFormView("/patients/u1/register", "Submit and Continue", form.RegistrationSections(), nil, nil)
	require.NoError(t, err)
	reg.Multipart = true

	buf.Reset()
	require.NoError(t, tmpl.ExecuteTemplate(&buf, PageRegister, RegisterPage{Form: reg}))
	assert.Contains(t, buf.String(), `enctype="multipart/form-data"`)
}

func TestAssetsServeIcons(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dr-green.png"), []byte("png"), 0o600))
	fsys := Assets(dir)

	f, err := fsys.Open("/icons/check.svg")
	require.NoError(t, err)
	f.Close()

	f, err = fsys.Open("/images/dr-green.png")
	require.NoError(t, err)
	f.Close()

	_, err = Assets("").Open("/images/dr-green.png")
	assert.Error(t, err)
}
