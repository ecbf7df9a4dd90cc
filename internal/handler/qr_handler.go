package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hazrinhakim/project-psm-figma/internal/service"
	appErrors "github.com/hazrinhakim/project-psm-figma/pkg/errors"
	"github.com/hazrinhakim/project-psm-figma/pkg/response"
)

// QRHandler handles QR generation and scan resolution.
type QRHandler struct {
	service *service.QRService
}

// NewQRHandler constructs a QR handler.
func NewQRHandler(svc *service.QRService) *QRHandler {
	return &QRHandler{service: svc}
}

// Generate godoc
// @Summary Generate a QR code for an asset
// @Description Returns a base64 data URL and stores it on the asset row
// @Tags QR
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} response.Envelope
// @Router /assets/{id}/qr [post]
func (h *QRHandler) Generate(c *gin.Context) {
	result, err := h.service.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Scan godoc
// @Summary Resolve scanned QR content to an asset
// @Tags QR
// @Accept json
// @Produce json
// @Param payload body map[string]string true "Scanned content"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /qr/scan [post]
func (h *QRHandler) Scan(c *gin.Context) {
	payload := struct {
		Content string `json:"content" binding:"required"`
	}{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "scan content required"))
		return
	}

	asset, err := h.service.Resolve(c.Request.Context(), payload.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, asset, nil)
}
