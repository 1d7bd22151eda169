package form

import (
	"fmt"
	"time"

	"github.com/jwalitptl/caretrack/internal/model"
)

// Mode selects which appointment form is shown and how it validates
type Mode string

const (
	ModeCreate   Mode = "create"
	ModeSchedule Mode = "schedule"
	ModeCancel   Mode = "cancel"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCreate, ModeSchedule, ModeCancel:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown appointment form mode %q", s)
}

// Status is the appointment status a submit in this mode writes
func (m Mode) Status() model.AppointmentStatus {
	switch m {
	case ModeSchedule:
		return model.AppointmentStatusScheduled
	case ModeCancel:
		return model.AppointmentStatusCancelled
	default:
		return model.AppointmentStatusPending
	}
}

func (m Mode) SubmitLabel() string {
	switch m {
	case ModeSchedule:
		return "Confirm Appointment"
	case ModeCancel:
		return "Cancel Appointment"
	default:
		return "Create Appointment"
	}
}

// AppointmentInput is what the appointment form submits
type AppointmentInput struct {
	PrimaryPhysician   string    `json:"primaryPhysician"`
	Specialty          string    `json:"specialty"`
	Schedule           time.Time `json:"schedule"`
	Reason             string    `json:"reason"`
	Note               string    `json:"note"`
	CancellationReason string    `json:"cancellationReason"`
}

type createAppointmentSchema struct {
	PrimaryPhysician string    `json:"primaryPhysician" validate:"required,min=2,doctor"`
	Specialty        string    `json:"specialty" validate:"required,specialty"`
	Schedule         time.Time `json:"schedule" validate:"required"`
	Reason           string    `json:"reason" validate:"required,min=2,max=500"`
	Note             string    `json:"note" validate:"max=500"`
}

type scheduleAppointmentSchema struct {
	PrimaryPhysician string    `json:"primaryPhysician" validate:"required,min=2,doctor"`
	Specialty        string    `json:"specialty" validate:"required,specialty"`
	Schedule         time.Time `json:"schedule" validate:"required"`
	Reason           string    `json:"reason" validate:"max=500"`
	Note             string    `json:"note" validate:"max=500"`
}

type cancelAppointmentSchema struct {
	CancellationReason string `json:"cancellationReason" validate:"required,min=2,max=500"`
}

// Schema validates an AppointmentInput for one mode
type Schema struct {
	Mode     Mode
	Required []string
	project  func(AppointmentInput) any
}

func (s Schema) Validate(in AppointmentInput) error {
	return check(s.project(in))
}

var schemas = map[Mode]Schema{
	ModeCreate: {
		Mode:     ModeCreate,
		Required: requiredFields(createAppointmentSchema{}),
		project: func(in AppointmentInput) any {
			return createAppointmentSchema{
				PrimaryPhysician: in.PrimaryPhysician,
				Specialty:        in.Specialty,
				Schedule:         in.Schedule,
				Reason:           in.Reason,
				Note:             in.Note,
			}
		},
	},
	ModeSchedule: {
		Mode:     ModeSchedule,
		Required: requiredFields(scheduleAppointmentSchema{}),
		project: func(in AppointmentInput) any {
			return scheduleAppointmentSchema{
				PrimaryPhysician: in.PrimaryPhysician,
				Specialty:        in.Specialty,
				Schedule:         in.Schedule,
				Reason:           in.Reason,
				Note:             in.Note,
			}
		},
	},
	ModeCancel: {
		Mode:     ModeCancel,
		Required: requiredFields(cancelAppointmentSchema{}),
		project: func(in AppointmentInput) any {
			return cancelAppointmentSchema{CancellationReason: in.CancellationReason}
		},
	},
}

// SchemaFor returns the validation schema of a mode. Unknown modes get the create schema.
func SchemaFor(mode Mode) Schema {
	if s, ok := schemas[mode]; ok {
		return s
	}
	return schemas[ModeCreate]
}

// DefaultsFor returns the initial form values. Create starts empty and scheduled now;
// schedule and cancel start from the existing appointment with an empty cancellation reason.
func DefaultsFor(mode Mode, appointment *model.Appointment, now time.Time) AppointmentInput {
	if mode == ModeCreate || appointment == nil {
		return AppointmentInput{Schedule: now}
	}
	return AppointmentInput{
		PrimaryPhysician: appointment.PrimaryPhysician,
		Specialty:        appointment.Specialty,
		Schedule:         appointment.Schedule,
		Reason:           appointment.Reason,
		Note:             appointment.Note,
	}
}

func doctorOptions() []Option {
	opts := make([]Option, len(model.Doctors))
	for i, d := range model.Doctors {
		opts[i] = Option{Name: d.Name, Value: d.Name, Image: d.Image}
	}
	return opts
}

func specialtyOptions() []Option {
	opts := make([]Option, len(model.Specialties))
	for i, s := range model.Specialties {
		opts[i] = Option{Name: s.Name, Value: s.Value}
	}
	return opts
}

var scheduleField = Field{
	Type:           FieldDatePicker,
	Name:           "schedule",
	Label:          "Expected Appointment Date",
	Placeholder:    "Select your appointment date",
	IconSrc:        "/assets/icons/calendar.svg",
	IconAlt:        "calendar",
	DateFormat:     "dd/MM/yyyy - hh:mm",
	ShowTimeSelect: true,
}

// AppointmentFields lays out the form of a mode
func AppointmentFields(mode Mode) []Field {
	if mode == ModeCancel {
		return []Field{{
			Type:        FieldTextarea,
			Name:        "cancellationReason",
			Label:       "Reason for Cancellation",
			Placeholder: "Enter the reason for cancellation",
		}}
	}

	readOnly := mode == ModeSchedule
	return []Field{
		{
			Type:        FieldSelect,
			Name:        "specialty",
			Label:       "Specialty",
			Placeholder: "Select the specialty of the doctor",
			Options:     specialtyOptions(),
		},
		{
			Type:        FieldSelect,
			Name:        "primaryPhysician",
			Label:       "Doctor",
			Placeholder: "Select a doctor",
			Options:     doctorOptions(),
		},
		{
			Type:        FieldTextarea,
			Name:        "reason",
			Label:       "Reason for Appointment",
			Placeholder: "ex: Annual check-up, Urgent appointment",
			Disabled:    readOnly,
		},
		{
			Type:        FieldTextarea,
			Name:        "note",
			Label:       "Additional Notes",
			Placeholder: "ex: Prefer afternoon appointment",
			Disabled:    readOnly,
		},
		scheduleField,
	}
}

// Values flattens the input into control values
func (in AppointmentInput) Values(loc *time.Location) map[string]string {
	return map[string]string{
		"primaryPhysician":   in.PrimaryPhysician,
		"specialty":          in.Specialty,
		"schedule":           DateValue(scheduleField, in.Schedule, loc),
		"reason":             in.Reason,
		"note":               in.Note,
		"cancellationReason": in.CancellationReason,
	}
}

// AppointmentForm is the urlencoded body of the appointment page
type AppointmentForm struct {
	PrimaryPhysician   string `form:"primaryPhysician"`
	Specialty          string `form:"specialty"`
	Schedule           string `form:"schedule"`
	Reason             string `form:"reason"`
	Note               string `form:"note"`
	CancellationReason string `form:"cancellationReason"`
}

// Input converts the submitted strings. A schedule that does not parse is reported as a field error.
func (f AppointmentForm) Input(loc *time.Location) (AppointmentInput, map[string]string) {
	in := AppointmentInput{
		PrimaryPhysician:   f.PrimaryPhysician,
		Specialty:          f.Specialty,
		Reason:             f.Reason,
		Note:               f.Note,
		CancellationReason: f.CancellationReason,
	}
	schedule, err := ParseDateValue(f.Schedule, loc)
	if err != nil {
		return in, map[string]string{"schedule": "Invalid date"}
	}
	in.Schedule = schedule
	return in, nil
}
