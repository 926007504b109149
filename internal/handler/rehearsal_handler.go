package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/service"
	"github.com/bandhub/server/pkg/errors"
	"github.com/bandhub/server/pkg/httputil"
)

// RehearsalHandler 排练处理器
type RehearsalHandler struct {
	service *service.RehearsalService
}

// NewRehearsalHandler 创建排练处理器
func NewRehearsalHandler(service *service.RehearsalService) *RehearsalHandler {
	return &RehearsalHandler{service: service}
}

// CreateRehearsal 创建排练
func (h *RehearsalHandler) CreateRehearsal(c *gin.Context) {
	userID := c.GetString("user_id")
	bandID := c.Param("id")

	var req struct {
		Location  string    `json:"location"`
		StartsAt  time.Time `json:"starts_at" binding:"required"`
		EndsAt    time.Time `json:"ends_at"`
		SetlistID *string   `json:"setlist_id"`
		Notes     string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	rehearsal, err := h.service.CreateRehearsal(c.Request.Context(), userID, &domain.Rehearsal{
		BandID:    bandID,
		Location:  req.Location,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		SetlistID: req.SetlistID,
		Notes:     req.Notes,
	})
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, rehearsal)
}

// ListRehearsals 列出乐队排练
func (h *RehearsalHandler) ListRehearsals(c *gin.Context) {
	userID := c.GetString("user_id")
	bandID := c.Param("id")

	rehearsals, err := h.service.ListRehearsals(c.Request.Context(), userID, bandID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, rehearsals)
}

// GetRehearsal 获取排练详情
func (h *RehearsalHandler) GetRehearsal(c *gin.Context) {
	userID := c.GetString("user_id")

	rehearsal, err := h.service.GetRehearsal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, rehearsal)
}

// UpdateRehearsal 更新排练，仅修改请求中给出的字段
func (h *RehearsalHandler) UpdateRehearsal(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Location  *string    `json:"location"`
		StartsAt  *time.Time `json:"starts_at"`
		EndsAt    *time.Time `json:"ends_at"`
		SetlistID *string    `json:"setlist_id"`
		Notes     *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	rehearsal, err := h.service.UpdateRehearsal(c.Request.Context(), userID, c.Param("id"), func(r *domain.Rehearsal) {
		if req.Location != nil {
			r.Location = *req.Location
		}
		if req.StartsAt != nil {
			r.StartsAt = *req.StartsAt
		}
		if req.EndsAt != nil {
			r.EndsAt = *req.EndsAt
		}
		if req.SetlistID != nil {
			r.SetlistID = req.SetlistID
		}
		if req.Notes != nil {
			r.Notes = *req.Notes
		}
	})
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, rehearsal)
}

// DeleteRehearsal 删除排练
func (h *RehearsalHandler) DeleteRehearsal(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.service.DeleteRehearsal(c.Request.Context(), userID, c.Param("id")); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"deleted": true})
}
