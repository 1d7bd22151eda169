package page

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/caretrack/internal/export"
	"github.com/jwalitptl/caretrack/internal/form"
	"github.com/jwalitptl/caretrack/internal/handler"
	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/internal/web"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
)

const invalidPasskey = "Invalid passkey. Please try again."

func (h *Handler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, web.PageAdminLogin, web.LoginPage{})
}

func (h *Handler) Login(c *gin.Context) {
	session, err := h.sessions.Login(c.Request.Context(), c.PostForm("passkey"))
	if err != nil {
		status, message := http.StatusUnauthorized, invalidPasskey
		if !apperrors.IsKind(err, apperrors.KindUnauthorized) {
			var fields map[string]string
			status, fields, message = formFailure(err)
			for _, m := range fields {
				message = m
			}
		}
		c.HTML(status, web.PageAdminLogin, web.LoginPage{Error: message})
		return
	}

	h.cfg.Cookie.SetSessionCookie(c, session)
	h.redirect(c, web.AdminPath)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c.Request.Context(), h.guard.Token(c)); err != nil {
		log.Warn().Err(err).Msg("failed to end admin session")
	}
	h.cfg.Cookie.ClearSessionCookie(c)
	h.redirect(c, "/")
}

func (h *Handler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.appointments.ListRecent(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}

	page := web.DashboardPage{
		ScheduledCount: stats.ScheduledCount,
		PendingCount:   stats.PendingCount,
		CancelledCount: stats.CancelledCount,
		Rows:           web.Rows(stats.Documents, h.appointments.PatientNames(ctx, stats.Documents), h.cfg.Location),
	}
	if c.Query("updated") != "" {
		page.Toast = web.UpdatedToast
	}
	c.HTML(http.StatusOK, web.PageAdmin, page)
}

// dialogMode accepts the two admin transitions
func dialogMode(c *gin.Context) (form.Mode, error) {
	mode, err := form.ParseMode(c.Param("mode"))
	if err != nil || mode == form.ModeCreate {
		return "", apperrors.NotFound("page", err)
	}
	return mode, nil
}

func (h *Handler) Dialog(c *gin.Context) {
	mode, err := dialogMode(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	appt, err := h.appointments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	values := form.DefaultsFor(mode, appt, h.now()).Values(h.cfg.Location)
	h.renderDialog(c, http.StatusOK, mode, appt, values, nil, "")
}

func (h *Handler) renderDialog(c *gin.Context, status int, mode form.Mode, appt *model.Appointment,
	values, errs map[string]string, message string) {
	view, err := web.NewFormView(web.DialogURL(appt.ID, string(mode)), mode.SubmitLabel(),
		form.AppointmentFields(mode), values, errs)
	if err != nil {
		h.renderError(c, apperrors.Internal(err))
		return
	}
	view.Error = message

	appointments := []model.Appointment{*appt}
	rows := web.Rows(appointments, h.appointments.PatientNames(c.Request.Context(), appointments), h.cfg.Location)
	title, intro := web.DialogCopy(mode)
	c.HTML(status, web.PageAppointmentDialog, web.DialogPage{
		Mode:  mode,
		Title: title,
		Intro: intro,
		Row:   rows[0],
		Form:  view,
	})
}

// UpdateAppointment applies the schedule or cancel form and returns to the
// dashboard with the update toast
func (h *Handler) UpdateAppointment(c *gin.Context) {
	mode, err := dialogMode(c)
	if err != nil {
		h.renderError(c, err)
		return
	}
	ctx := c.Request.Context()
	id := c.Param("id")

	var f form.AppointmentForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderError(c, apperrors.BadRequest("invalid form", err))
		return
	}
	in, errs := f.Input(h.cfg.Location)
	values := in.Values(h.cfg.Location)
	if errs != nil {
		values["schedule"] = f.Schedule
	}
	errs, _ = handler.MergeFields(errs, form.SchemaFor(mode).Validate(in))
	if errs != nil {
		appt, err := h.appointments.Get(ctx, id)
		if err != nil {
			h.renderError(c, err)
			return
		}
		h.renderDialog(c, http.StatusBadRequest, mode, appt, h.dialogValues(appt, mode, values), errs, "")
		return
	}

	if _, err := h.appointments.Update(ctx, id, mode, in); err != nil {
		appt, getErr := h.appointments.Get(ctx, id)
		if getErr != nil {
			h.renderError(c, err)
			return
		}
		status, fields, message := formFailure(err)
		h.renderDialog(c, status, mode, appt, h.dialogValues(appt, mode, values), fields, message)
		return
	}
	h.redirect(c, web.UpdatedURL())
}

// dialogValues keeps the read-only fields of the stored appointment, which a
// browser does not submit, under the submitted values
func (h *Handler) dialogValues(appt *model.Appointment, mode form.Mode, submitted map[string]string) map[string]string {
	values := form.DefaultsFor(mode, appt, h.now()).Values(h.cfg.Location)
	for k, v := range submitted {
		if v != "" {
			values[k] = v
		}
	}
	return values
}

func (h *Handler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	stats, err := h.appointments.ListRecent(ctx)
	if err != nil {
		h.renderError(c, err)
		return
	}
	rows := web.Rows(stats.Documents, h.appointments.PatientNames(ctx, stats.Documents), h.cfg.Location)

	var buf bytes.Buffer
	if err := export.WriteAppointments(&buf, rows); err != nil {
		h.renderError(c, apperrors.Internal(err))
		return
	}

	filename := fmt.Sprintf("appointments-%s.xlsx", h.now().In(h.cfg.Location).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
