package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fintrack/internal/services"
)

// DataHandler handles bulk data management requests.
type DataHandler struct {
	dataService  services.DataServicer
	auditService services.AuditServicer
}

// NewDataHandler creates a new DataHandler.
func NewDataHandler(dataService services.DataServicer, auditService services.AuditServicer) *DataHandler {
	return &DataHandler{dataService: dataService, auditService: auditService}
}

// ResetUserData wipes the caller's financial data
// @Summary     Reset user data
// @Description Permanently delete the caller's accounts, cards, expenses and earnings, leaving a fresh empty default account
// @Tags        data
// @Security    BearerAuth
// @Success     204 "User data reset"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /data/reset [delete]
func (h *DataHandler) ResetUserData(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.dataService.ResetUserData(userID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "RESET_DATA", "user", userID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
