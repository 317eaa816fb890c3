package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"groupnet/memberhub/internal/handler/middleware"
	"groupnet/memberhub/internal/model"
	"groupnet/memberhub/internal/service"
	"groupnet/memberhub/pkg/response"
)

type AdminHandler struct {
	intentService service.IntentService
	inviteService service.InviteService
	logger        *zap.Logger
}

func NewAdminHandler(intentService service.IntentService, inviteService service.InviteService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		intentService: intentService,
		inviteService: inviteService,
		logger:        logger,
	}
}

type ListIntentsQuery struct {
	Status   string `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1"`
}

// ListIntents returns one page of intents, newest first.
func (h *AdminHandler) ListIntents(c *gin.Context) {
	var q ListIntentsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query: "+err.Error())
		return
	}

	in := service.ListIntentsInput{Page: q.Page, PageSize: q.PageSize}
	if q.Status != "" {
		status := model.IntentStatus(q.Status)
		in.Status = &status
	}

	page, err := h.intentService.List(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, page)
}

// GetIntent returns a single intent.
func (h *AdminHandler) GetIntent(c *gin.Context) {
	id, err := intentIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	intent, err := h.intentService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, intent)
}

// GetIntentInvite returns the invite issued for an approved intent.
func (h *AdminHandler) GetIntentInvite(c *gin.Context) {
	id, err := intentIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	invite, err := h.inviteService.GetByIntent(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, invite)
}

func (h *AdminHandler) ApproveIntent(c *gin.Context) {
	id, err := intentIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.intentService.Approve(c.Request.Context(), id, middleware.Reviewer(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Created(c, result)
}

func (h *AdminHandler) RejectIntent(c *gin.Context) {
	id, err := intentIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	intent, err := h.intentService.Reject(c.Request.Context(), id, middleware.Reviewer(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	response.Success(c, gin.H{"intent": intent})
}
