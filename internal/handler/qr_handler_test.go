package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestQRHandlerScanRequiresContent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewQRHandler(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/qr/scan", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Scan(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
