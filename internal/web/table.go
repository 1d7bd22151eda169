package web

import (
	"time"

	"github.com/jwalitptl/caretrack/internal/model"
)

// Row is one line of the admin appointment table
type Row struct {
	Index         int
	AppointmentID string
	UserID        string
	PatientID     string
	PatientName   string
	Date          string
	Badge         Badge
	HasBadge      bool
	Doctor        model.Doctor
	DoctorLabel   string
	Specialty     string
	Reason        string
	Cancellation  string
}

// Rows builds the table in listing order. names maps patient ids to display names.
func Rows(appointments []model.Appointment, names map[string]string, loc *time.Location) []Row {
	rows := make([]Row, len(appointments))
	for i, a := range appointments {
		badge, ok := StatusBadge(a.Status)
		doctor, found := model.FindDoctor(a.PrimaryPhysician)
		if !found {
			doctor = model.Doctor{Name: a.PrimaryPhysician}
		}
		rows[i] = Row{
			Index:         i + 1,
			AppointmentID: a.ID,
			UserID:        a.UserID,
			PatientID:     a.Patient.String(),
			PatientName:   names[a.Patient.String()],
			Date:          model.FormatDateTime(a.Schedule, loc),
			Badge:         badge,
			HasBadge:      ok,
			Doctor:        doctor,
			DoctorLabel:   "Dr. " + doctor.Name,
			Specialty:     a.Specialty,
			Reason:        a.Reason,
			Cancellation:  a.CancellationReason,
		}
	}
	return rows
}
