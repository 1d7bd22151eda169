package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/caretrack/internal/form"
	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/internal/service/appointment"
	"github.com/jwalitptl/caretrack/internal/service/patient"
	"github.com/jwalitptl/caretrack/internal/web"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
	"github.com/jwalitptl/caretrack/pkg/httputil"
)

type Handler struct {
	service  *appointment.Service
	patients *patient.Service
}

func NewHandler(service *appointment.Service, patients *patient.Service) *Handler {
	return &Handler{
		service:  service,
		patients: patients,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("/:id", h.GetAppointment)
	}
	r.POST("/users/:userId/appointments/:id/cancel", h.CancelOwnAppointment)
}

// RegisterAdminRoutes mounts the dashboard endpoints on a group already guarded by the admin session
func (h *Handler) RegisterAdminRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.GET("", h.ListAppointments)
		appointments.PATCH("/:id/schedule", h.transition(form.ModeSchedule))
		appointments.PATCH("/:id/cancel", h.transition(form.ModeCancel))
	}
}

// CreateRequest is the JSON body of POST /appointments. PatientID is resolved
// from the user's registration when left empty.
type CreateRequest struct {
	UserID    string `json:"userId" binding:"required"`
	PatientID string `json:"patientId"`
	form.AppointmentInput
}

type CreateResponse struct {
	Appointment *model.Appointment `json:"appointment"`
	Redirect    string             `json:"redirect"`
}

type CancelRequest struct {
	CancellationReason string `json:"cancellationReason"`
}

type ListResponse struct {
	*model.AppointmentStats
	PatientNames map[string]string `json:"patientNames"`
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	ctx := c.Request.Context()
	if req.PatientID == "" {
		p, err := h.patients.GetPatient(ctx, req.UserID)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		req.PatientID = p.ID
	}

	appt, err := h.service.Create(ctx, req.UserID, req.PatientID, req.AppointmentInput)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, CreateResponse{
		Appointment: appt,
		Redirect:    web.SuccessURL(req.UserID, appt.ID),
	})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	appt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, appt)
}

func (h *Handler) CancelOwnAppointment(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	appt, err := h.service.CancelByPatient(c.Request.Context(), c.Param("userId"), c.Param("id"), req.CancellationReason)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, appt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.service.ListRecent(ctx)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, ListResponse{
		AppointmentStats: stats,
		PatientNames:     h.service.PatientNames(ctx, stats.Documents),
	})
}

func (h *Handler) transition(mode form.Mode) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in form.AppointmentInput
		if err := c.ShouldBindJSON(&in); err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
			return
		}

		appt, err := h.service.Update(c.Request.Context(), c.Param("id"), mode, in)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithSuccess(c, http.StatusOK, appt)
	}
}
