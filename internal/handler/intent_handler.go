package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"groupnet/memberhub/internal/service"
	"groupnet/memberhub/pkg/response"
)

type IntentHandler struct {
	intentService service.IntentService
	logger        *zap.Logger
}

func NewIntentHandler(intentService service.IntentService, logger *zap.Logger) *IntentHandler {
	return &IntentHandler{intentService: intentService, logger: logger}
}

type SubmitIntentRequest struct {
	FullName string  `json:"full_name" binding:"required,min=3,max=256"`
	Email    string  `json:"email" binding:"required,email,max=320"`
	Phone    *string `json:"phone" binding:"omitempty,max=64"`
	Notes    *string `json:"notes" binding:"omitempty,max=2000"`
}

// Submit records a membership application.
func (h *IntentHandler) Submit(c *gin.Context) {
	var req SubmitIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	intent, err := h.intentService.Submit(c.Request.Context(), service.SubmitIntentInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Created(c, intent)
}
