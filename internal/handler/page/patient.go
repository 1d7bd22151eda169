package page

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/caretrack/internal/form"
	"github.com/jwalitptl/caretrack/internal/handler"
	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/internal/web"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
)

const (
	homeSubmit     = "Get Started"
	registerSubmit = "Submit and Continue"
)

func (h *Handler) Home(c *gin.Context) {
	h.renderHome(c, http.StatusOK, nil, nil, "")
}

func (h *Handler) renderHome(c *gin.Context, status int, values, errs map[string]string, message string) {
	view, err := web.NewFormView("/", homeSubmit, form.UserFields(), values, errs)
	if err != nil {
		h.renderError(c, apperrors.Internal(err))
		return
	}
	view.Error = message
	c.HTML(status, web.PageHome, web.HomePage{Form: view})
}

// CreateUser creates the user, or finds the one registered with the same email,
// and moves on to the intake form
func (h *Handler) CreateUser(c *gin.Context) {
	var in form.UserInput
	if err := c.ShouldBind(&in); err != nil {
		h.renderError(c, apperrors.BadRequest("invalid form", err))
		return
	}

	user, err := h.patients.CreateUser(c.Request.Context(), in)
	if err != nil {
		status, fields, message := formFailure(err)
		h.renderHome(c, status, in.Values(), fields, message)
		return
	}
	h.redirect(c, web.RegisterURL(user.ID))
}

func (h *Handler) RegisterForm(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")

	user, err := h.patients.GetUser(ctx, userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	_, err = h.patients.GetPatient(ctx, userID)
	switch {
	case err == nil:
		h.redirect(c, web.NewAppointmentURL(userID))
		return
	case !apperrors.IsKind(err, apperrors.KindNotFound):
		h.renderError(c, err)
		return
	}

	values := form.RegistrationDefaults(*user, h.now()).Values(h.cfg.Location)
	h.renderRegister(c, http.StatusOK, *user, values, nil, "")
}

func (h *Handler) renderRegister(c *gin.Context, status int, user model.User, values, errs map[string]string, message string) {
	view, err := web.NewSectionedFormView(web.RegisterURL(user.ID), registerSubmit, form.RegistrationSections(), values, errs)
	if err != nil {
		h.renderError(c, apperrors.Internal(err))
		return
	}
	view.Multipart = true
	view.Error = message
	c.HTML(status, web.PageRegister, web.RegisterPage{User: user, Form: view})
}

// Register validates the intake form before anything is uploaded or stored
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("userId")

	user, err := h.patients.GetUser(ctx, userID)
	if err != nil {
		h.renderError(c, err)
		return
	}

	var f form.RegistrationForm
	if err := c.ShouldBind(&f); err != nil {
		h.renderError(c, apperrors.BadRequest("invalid form", err))
		return
	}
	in, errs := f.Input(h.cfg.Location)
	values := in.Values(h.cfg.Location)
	if errs != nil {
		values["birthDate"] = f.BirthDate
	}
	errs, _ = handler.MergeFields(errs, in.Validate())
	if errs != nil {
		h.renderRegister(c, http.StatusBadRequest, *user, values, errs, "")
		return
	}

	file, closeFile, err := handler.ReadUpload(c, h.cfg.MaxUploadBytes)
	if err != nil {
		status, fields, message := formFailure(err)
		h.renderRegister(c, status, *user, values, fields, message)
		return
	}
	defer closeFile()

	if _, err := h.patients.Register(ctx, userID, in, file); err != nil {
		if apperrors.IsKind(err, apperrors.KindConflict) {
			h.redirect(c, web.NewAppointmentURL(userID))
			return
		}
		status, fields, message := formFailure(err)
		h.renderRegister(c, status, *user, values, fields, message)
		return
	}
	h.redirect(c, web.NewAppointmentURL(userID))
}

func (h *Handler) NewAppointmentForm(c *gin.Context) {
	p, ok := h.registeredPatient(c)
	if !ok {
		return
	}
	values := form.DefaultsFor(form.ModeCreate, nil, h.now()).Values(h.cfg.Location)
	h.renderNewAppointment(c, http.StatusOK, p, values, nil, "")
}

// registeredPatient loads the patient of :userId, sending unregistered users to the intake form
func (h *Handler) registeredPatient(c *gin.Context) (*model.Patient, bool) {
	userID := c.Param("userId")
	p, err := h.patients.GetPatient(c.Request.Context(), userID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			h.redirect(c, web.RegisterURL(userID))
		} else {
			h.renderError(c, err)
		}
		return nil, false
	}
	return p, true
}

func (h *Handler) renderNewAppointment(c *gin.Context, status int, p *model.Patient, values, errs map[string]string, message string) {
	view, err := web.NewFormView(web.NewAppointmentURL(p.UserID), form.ModeCreate.SubmitLabel(),
		form.AppointmentFields(form.ModeCreate), values, errs)
	if err != nil {
		h.renderError(c, apperrors.Internal(err))
		return
	}
	view.Error = message
	c.HTML(status, web.PageNewAppointment, web.NewAppointmentPage{PatientName: p.Name, Form: view})
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	p, ok := h.registeredPatient(c)
	if !ok {
		return
	}

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
	errs, _ = handler.MergeFields(errs, form.SchemaFor(form.ModeCreate).Validate(in))
	if errs != nil {
		h.renderNewAppointment(c, http.StatusBadRequest, p, values, errs, "")
		return
	}

	appt, err := h.appointments.Create(c.Request.Context(), p.UserID, p.ID, in)
	if err != nil {
		status, fields, message := formFailure(err)
		h.renderNewAppointment(c, status, p, values, fields, message)
		return
	}
	h.redirect(c, web.SuccessURL(p.UserID, appt.ID))
}

func (h *Handler) Success(c *gin.Context) {
	userID := c.Param("userId")
	id := c.Query("appointmentId")
	if id == "" {
		h.redirect(c, web.NewAppointmentURL(userID))
		return
	}

	appt, err := h.appointments.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if appt.UserID != userID {
		h.renderError(c, apperrors.NotFound("appointment", nil))
		return
	}

	doctor, found := model.FindDoctor(appt.PrimaryPhysician)
	if !found {
		doctor = model.Doctor{Name: appt.PrimaryPhysician}
	}
	c.HTML(http.StatusOK, web.PageSuccess, web.SuccessPage{
		Doctor:            doctor,
		DoctorLabel:       "Dr. " + doctor.Name,
		Date:              model.FormatDateTime(appt.Schedule, h.cfg.Location),
		NewAppointmentURL: web.NewAppointmentURL(userID),
	})
}
