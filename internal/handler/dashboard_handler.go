package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hazrinhakim/project-psm-figma/internal/models"
	"github.com/hazrinhakim/project-psm-figma/internal/service"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
	"github.com/hazrinhakim/project-psm-figma/pkg/response"
)

// DashboardHandler serves role-scoped overview endpoints.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs a dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Admin godoc
// @Summary Admin dashboard totals
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/admin [get]
func (h *DashboardHandler) Admin(c *gin.Context) {
	overview, err := h.service.AdminOverview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// Staff godoc
// @Summary Personalised staff dashboard
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/staff [get]
func (h *DashboardHandler) Staff(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	overview, err := h.service.StaffOverview(c.Request.Context(), claims.UserID, claims.FullName)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil)
}

// Overview godoc
// @Summary Dashboard for the caller's role
// @Description Admin roles get system totals, staff get a personal summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	switch claims.Role {
	case models.RoleAdmin, models.RoleAdminAssistant:
		h.Admin(c)
	default:
		h.Staff(c)
	}
}
