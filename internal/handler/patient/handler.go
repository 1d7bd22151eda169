package patient

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/caretrack/internal/form"
	"github.com/jwalitptl/caretrack/internal/handler"
	"github.com/jwalitptl/caretrack/internal/service/patient"
	apperrors "github.com/jwalitptl/caretrack/pkg/errors"
	"github.com/jwalitptl/caretrack/pkg/httputil"
)

type Handler struct {
	service        *patient.Service
	location       *time.Location
	maxUploadBytes int64
}

func NewHandler(service *patient.Service, loc *time.Location, maxUploadBytes int64) *Handler {
	return &Handler{
		service:        service,
		location:       loc,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	users := r.Group("/users")
	{
		users.POST("", h.CreateUser)
		users.GET("/:userId", h.GetUser)
		users.GET("/:userId/patient", h.GetPatient)
	}
	r.POST("/patients", h.Register)
}

// RegisterRequest is the JSON body of POST /patients
type RegisterRequest struct {
	UserID string `json:"userId" binding:"required"`
	form.RegistrationInput
}

type registerForm struct {
	UserID string `form:"userId" binding:"required"`
	form.RegistrationForm
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req form.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, user)
}

func (h *Handler) GetPatient(c *gin.Context) {
	p, err := h.service.GetPatient(c.Request.Context(), c.Param("userId"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusOK, p)
}

// Register accepts the intake form as JSON, or as multipart with the
// identification document attached.
func (h *Handler) Register(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.registerMultipart(c)
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid request body", err))
		return
	}

	p, err := h.service.Register(c.Request.Context(), req.UserID, req.RegistrationInput, nil)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, p)
}

func (h *Handler) registerMultipart(c *gin.Context) {
	var req registerForm
	if err := c.ShouldBind(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid form", err))
		return
	}

	in, errs := req.Input(h.location)
	if errs != nil {
		errs, _ = handler.MergeFields(errs, in.Validate())
		httputil.RespondWithError(c, apperrors.Validation(errs))
		return
	}

	file, closeFile, err := handler.ReadUpload(c, h.maxUploadBytes)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	defer closeFile()

	p, err := h.service.Register(c.Request.Context(), req.UserID, in, file)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, http.StatusCreated, p)
}
