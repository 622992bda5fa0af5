package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/birrama/careers/internal/dtos"
	"github.com/birrama/careers/internal/services"
)

type ConfirmationHandler struct {
	Notifier *services.NotificationService
}

func NewConfirmationHandler(n *services.NotificationService) *ConfirmationHandler {
	return &ConfirmationHandler{Notifier: n}
}

// SendConfirmation is POST /api/send-confirmation
func (h *ConfirmationHandler) SendConfirmation(c *gin.Context) {
	var req dtos.ConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ API error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	res, err := h.Notifier.Send(c.Request.Context(), services.Confirmation{
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
		ApplicationType: req.ApplicationType,
	})
	switch {
	case errors.Is(err, services.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
	case errors.Is(err, services.ErrSendFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send confirmation email"})
	case err != nil:
		log.Printf("❌ API error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	default:
		c.JSON(http.StatusOK, dtos.ConfirmationResponse{Success: res.Success, Message: res.Message})
	}
}
