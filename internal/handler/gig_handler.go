package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/service"
	"github.com/bandhub/server/pkg/errors"
	"github.com/bandhub/server/pkg/httputil"
)

// GigHandler 演出处理器
type GigHandler struct {
	service *service.GigService
}

// NewGigHandler 创建演出处理器
func NewGigHandler(service *service.GigService) *GigHandler {
	return &GigHandler{service: service}
}

// CreateGig 创建演出
func (h *GigHandler) CreateGig(c *gin.Context) {
	userID := c.GetString("user_id")
	bandID := c.Param("id")

	var req struct {
		Name      string    `json:"name" binding:"required"`
		Venue     string    `json:"venue"`
		StartsAt  time.Time `json:"starts_at" binding:"required"`
		SetlistID *string   `json:"setlist_id"`
		Notes     string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	gig, err := h.service.CreateGig(c.Request.Context(), userID, &domain.Gig{
		BandID:    bandID,
		Name:      req.Name,
		Venue:     req.Venue,
		StartsAt:  req.StartsAt,
		SetlistID: req.SetlistID,
		Notes:     req.Notes,
	})
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gig)
}

// ListGigs 列出乐队演出
func (h *GigHandler) ListGigs(c *gin.Context) {
	userID := c.GetString("user_id")
	bandID := c.Param("id")

	gigs, err := h.service.ListGigs(c.Request.Context(), userID, bandID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gigs)
}

// GetGig 获取演出详情
func (h *GigHandler) GetGig(c *gin.Context) {
	userID := c.GetString("user_id")

	gig, err := h.service.GetGig(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gig)
}

// UpdateGig 更新演出，仅修改请求中给出的字段
func (h *GigHandler) UpdateGig(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Name      *string    `json:"name"`
		Venue     *string    `json:"venue"`
		StartsAt  *time.Time `json:"starts_at"`
		SetlistID *string    `json:"setlist_id"`
		Notes     *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	gig, err := h.service.UpdateGig(c.Request.Context(), userID, c.Param("id"), func(g *domain.Gig) {
		if req.Name != nil {
			g.Name = *req.Name
		}
		if req.Venue != nil {
			g.Venue = *req.Venue
		}
		if req.StartsAt != nil {
			g.StartsAt = *req.StartsAt
		}
		if req.SetlistID != nil {
			g.SetlistID = req.SetlistID
		}
		if req.Notes != nil {
			g.Notes = *req.Notes
		}
	})
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gig)
}

// DeleteGig 删除演出
func (h *GigHandler) DeleteGig(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.service.DeleteGig(c.Request.Context(), userID, c.Param("id")); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"deleted": true})
}
