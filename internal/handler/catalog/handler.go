package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/caretrack/internal/model"
	"github.com/jwalitptl/caretrack/pkg/httputil"
)

// Handler serves the static catalogs behind the form selects
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	catalog := r.Group("/catalog")
	{
		catalog.GET("/doctors", h.ListDoctors)
		catalog.GET("/specialties", h.ListSpecialties)
		catalog.GET("/identification-types", h.ListIdentificationTypes)
		catalog.GET("/genders", h.ListGenders)
	}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	httputil.RespondWithSuccess(c, http.StatusOK, model.Doctors)
}

func (h *Handler) ListSpecialties(c *gin.Context) {
	httputil.RespondWithSuccess(c, http.StatusOK, model.Specialties)
}

func (h *Handler) ListIdentificationTypes(c *gin.Context) {
	httputil.RespondWithSuccess(c, http.StatusOK, model.IdentificationTypes)
}

func (h *Handler) ListGenders(c *gin.Context) {
	httputil.RespondWithSuccess(c, http.StatusOK, model.Genders)
}
