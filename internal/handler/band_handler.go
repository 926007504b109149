package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bandhub/server/internal/service"
	"github.com/bandhub/server/pkg/errors"
	"github.com/bandhub/server/pkg/httputil"
)

// BandHandler 乐队处理器
type BandHandler struct {
	service *service.BandService
}

// NewBandHandler 创建乐队处理器
func NewBandHandler(service *service.BandService) *BandHandler {
	return &BandHandler{service: service}
}

// CreateBand 创建乐队
func (h *BandHandler) CreateBand(c *gin.Context) {
	userID := c.GetString("user_id")

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	band, err := h.service.CreateBand(c.Request.Context(), userID, req.Name)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, band)
}

// ListBands 列出调用方所属的乐队
func (h *BandHandler) ListBands(c *gin.Context) {
	userID := c.GetString("user_id")

	bands, err := h.service.ListBands(c.Request.Context(), userID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, bands)
}

// GetBand 获取乐队详情
func (h *BandHandler) GetBand(c *gin.Context) {
	userID := c.GetString("user_id")
	bandID := c.Param("id")

	band, err := h.service.GetBand(c.Request.Context(), userID, bandID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, band)
}

// AddMember 添加乐队成员
func (h *BandHandler) AddMember(c *gin.Context) {
	callerID := c.GetString("user_id")
	bandID := c.Param("id")

	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	member, err := h.service.AddMember(c.Request.Context(), callerID, bandID, req.UserID, req.Role)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, member)
}

// ListMembers 列出乐队成员
func (h *BandHandler) ListMembers(c *gin.Context) {
	userID := c.GetString("user_id")
	bandID := c.Param("id")

	members, err := h.service.ListMembers(c.Request.Context(), userID, bandID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, members)
}
