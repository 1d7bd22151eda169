package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/internal/web"
)

func TestWriteAppointments(t *testing.T) {
	badge, _ := web.StatusBadge(model.AppointmentStatusCancelled)
	rows := []web.Row{{
		Index:        1,
		PatientName:  "Ada Lovelace",
		Date:         "Nov 3, 2026, 2:30 PM",
		Badge:        badge,
		HasBadge:     true,
		DoctorLabel:  "Dr. John Green",
		Specialty:    "cardiology",
		Reason:       "check-up",
		Cancellation: "patient unavailable",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteAppointments(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, Header, got[0])
	assert.Equal(t, []string{"1", "Ada Lovelace", "Nov 3, 2026, 2:30 PM", "cancelled", "Dr. John Green", "cardiology", "check-up", "patient unavailable"}, got[1])
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
}

func TestWriteAppointmentsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAppointments(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
