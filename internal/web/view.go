package web

import (
	"html/template"

	"github.com/jwalitptl/caretrack/internal/form"
	"github.com/jwalitptl/caretrack/internal/model"
)

const UpdatedToast = "Appointment updated successfully"

// FormView is a rendered form
type FormView struct {
	Action    string
	Multipart bool
	Submit    string
	Error     string
	Controls  []template.HTML
	Sections  []SectionView
}

type SectionView struct {
	Title    string
	Controls []template.HTML
}

// NewFormView renders fields with their current values and field errors
func NewFormView(action, submit string, fields []form.Field, values, errs map[string]string) (FormView, error) {
	controls, err := form.RenderAll(fields, values, errs)
	if err != nil {
		return FormView{}, err
	}
	return FormView{Action: action, Submit: submit, Controls: controls}, nil
}

// NewSectionedFormView renders a multi-section form such as the intake form
func NewSectionedFormView(action, submit string, sections []form.Section, values, errs map[string]string) (FormView, error) {
	v := FormView{Action: action, Submit: submit}
	for _, s := range sections {
		controls, err := form.RenderAll(s.Fields, values, errs)
		if err != nil {
			return FormView{}, err
		}
		v.Sections = append(v.Sections, SectionView{Title: s.Title, Controls: controls})
	}
	return v, nil
}

type HomePage struct {
	Form FormView
}

type RegisterPage struct {
	User model.User
	Form FormView
}

type NewAppointmentPage struct {
	PatientName string
	Form        FormView
}

type SuccessPage struct {
	Doctor            model.Doctor
	DoctorLabel       string
	Date              string
	NewAppointmentURL string
}

type LoginPage struct {
	Error string
}

type DashboardPage struct {
	Toast          string
	ScheduledCount int
	PendingCount   int
	CancelledCount int
	Rows           []Row
}

type DialogPage struct {
	Mode  form.Mode
	Title string
	Intro string
	Row   Row
	Form  FormView
}

// DialogCopy returns the heading and intro line of the admin dialog
func DialogCopy(mode form.Mode) (title, intro string) {
	if mode == form.ModeCancel {
		return "Cancel Appointment", "Are you sure you want to cancel your appointment?"
	}
	return "Schedule Appointment", "Please fill in the following details to schedule"
}

type ErrorPage struct {
	Status  int
	Message string
}
