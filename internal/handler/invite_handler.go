package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"groupnet/memberhub/internal/service"
	"groupnet/memberhub/pkg/response"
)

type InviteHandler struct {
	inviteService service.InviteService
	logger        *zap.Logger
}

func NewInviteHandler(inviteService service.InviteService, logger *zap.Logger) *InviteHandler {
	return &InviteHandler{inviteService: inviteService, logger: logger}
}

type RegisterRequest struct {
	Name     string  `json:"name" binding:"required,min=3,max=256"`
	Email    string  `json:"email" binding:"required,email,max=320"`
	Phone    *string `json:"phone" binding:"omitempty,max=64"`
	Password string  `json:"password" binding:"required,min=8,max=128"`
}

// Validate reports whether the invite token can be redeemed.
func (h *InviteHandler) Validate(c *gin.Context) {
	result, err := h.inviteService.Validate(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if !result.Valid {
		response.ErrorWithData(c, http.StatusGone, http.StatusGone, "invite is not usable: "+result.Reason, result)
		return
	}

	response.Success(c, result)
}

// Register redeems the invite and creates the member account.
func (h *InviteHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	member, err := h.inviteService.Register(c.Request.Context(), service.RegisterInput{
		Token:    c.Param("token"),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Created(c, member)
}
