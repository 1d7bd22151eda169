package forms

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/caretrack/internal/form"
	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/internal/service/appointment"
	"github.com/jwalitptl/caretrack/internal/service/patient"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
	"github.com/jwalitptl/caretrack/pkg/httputil"
)

// Handler describes the appointment and intake forms so a client can draw them
type Handler struct {
	appointments *appointment.Service
	patients     *patient.Service
	now          func() time.Time
}

func NewHandler(appointments *appointment.Service, patients *patient.Service) *Handler {
	return &Handler{
		appointments: appointments,
		patients:     patients,
		now:          time.Now,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	forms := r.Group("/forms")
	{
		forms.GET("/appointment", h.AppointmentForm)
		forms.GET("/registration", h.RegistrationForm)
	}
}

type AppointmentFormResponse struct {
	Mode        form.Mode             `json:"mode"`
	SubmitLabel string                `json:"submitLabel"`
	Required    []string              `json:"required"`
	Fields      []form.Field          `json:"fields"`
	Defaults    form.AppointmentInput `json:"defaults"`
}

type RegistrationFormResponse struct {
	Required []string               `json:"required"`
	Sections []form.Section         `json:"sections"`
	Defaults form.RegistrationInput `json:"defaults"`
}

// AppointmentForm takes ?mode= and, for schedule and cancel, ?appointmentId= to prefill from
func (h *Handler) AppointmentForm(c *gin.Context) {
	mode, err := form.ParseMode(c.DefaultQuery("mode", string(form.ModeCreate)))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("unknown form mode", err))
		return
	}

	var current *model.Appointment
	if id := c.Query("appointmentId"); id != "" && mode != form.ModeCreate {
		current, err = h.appointments.Get(c.Request.Context(), id)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
	}

	httputil.RespondWithSuccess(c, http.StatusOK, AppointmentFormResponse{
		Mode:        mode,
		SubmitLabel: mode.SubmitLabel(),
		Required:    form.SchemaFor(mode).Required,
		Fields:      form.AppointmentFields(mode),
		Defaults:    form.DefaultsFor(mode, current, h.now()),
	})
}

// RegistrationForm prefills name, email and phone from ?userId= when given
func (h *Handler) RegistrationForm(c *gin.Context) {
	var user model.User
	if id := c.Query("userId"); id != "" {
		u, err := h.patients.GetUser(c.Request.Context(), id)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		user = *u
	}

	httputil.RespondWithSuccess(c, http.StatusOK, RegistrationFormResponse{
		Required: form.RegistrationRequired(),
		Sections: form.RegistrationSections(),
		Defaults: form.RegistrationDefaults(user, h.now()),
	})
}
