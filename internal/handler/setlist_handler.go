package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bandhub/server/internal/service"
	"github.com/bandhub/server/pkg/errors"
	"github.com/bandhub/server/pkg/httputil"
)

// SetlistHandler 曲目单处理器
type SetlistHandler struct {
	service *service.SetlistService
}

// NewSetlistHandler 创建曲目单处理器
func NewSetlistHandler(service *service.SetlistService) *SetlistHandler {
	return &SetlistHandler{service: service}
}

// CreateSetlist 创建曲目单
func (h *SetlistHandler) CreateSetlist(c *gin.Context) {
	userID := c.GetString("user_id")
	bandID := c.Param("id")

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	setlist, err := h.service.CreateSetlist(c.Request.Context(), userID, bandID, req.Name)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, setlist)
}

// ListSetlists 列出乐队曲目单及重算的总时长
func (h *SetlistHandler) ListSetlists(c *gin.Context) {
	userID := c.GetString("user_id")
	bandID := c.Param("id")

	summaries, err := h.service.GetSetlistsWithTotals(c.Request.Context(), userID, bandID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, summaries)
}

// GetSetlist 获取曲目单详情
func (h *SetlistHandler) GetSetlist(c *gin.Context) {
	userID := c.GetString("user_id")
	setlistID := c.Param("id")

	detail, err := h.service.GetSetlistDetail(c.Request.Context(), userID, setlistID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, detail)
}

// RenameSetlist 重命名曲目单
func (h *SetlistHandler) RenameSetlist(c *gin.Context) {
	userID := c.GetString("user_id")
	setlistID := c.Param("id")

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	setlist, err := h.service.RenameSetlist(c.Request.Context(), userID, setlistID, req.Name)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, setlist)
}

// DeleteSetlist 删除曲目单
func (h *SetlistHandler) DeleteSetlist(c *gin.Context) {
	userID := c.GetString("user_id")
	setlistID := c.Param("id")

	if err := h.service.DeleteSetlist(c.Request.Context(), userID, setlistID); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"deleted": true})
}

// CopySetlist 复制曲目单
func (h *SetlistHandler) CopySetlist(c *gin.Context) {
	userID := c.GetString("user_id")
	bandID := c.Param("id")

	var req struct {
		SourceSetlistID string `json:"source_setlist_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	setlist, err := h.service.CopySetlist(c.Request.Context(), userID, bandID, req.SourceSetlistID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, setlist)
}

// ShareSetlist 生成曲目单分享文本
func (h *SetlistHandler) ShareSetlist(c *gin.Context) {
	userID := c.GetString("user_id")
	setlistID := c.Param("id")

	text, err := h.service.ShareText(c.Request.Context(), userID, setlistID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"share_text": text})
}

// AddSong 将歌曲追加到曲目单末尾
func (h *SetlistHandler) AddSong(c *gin.Context) {
	userID := c.GetString("user_id")
	setlistID := c.Param("id")

	var req struct {
		SongID          string  `json:"song_id" binding:"required"`
		BPM             *int    `json:"bpm"`
		Tuning          *string `json:"tuning"`
		DurationSeconds *int    `json:"duration_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	ss, err := h.service.AddSong(c.Request.Context(), userID, setlistID, req.SongID, req.BPM, req.Tuning, req.DurationSeconds)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, ss)
}

// DeleteSong 删除曲目单中的单首歌曲
func (h *SetlistHandler) DeleteSong(c *gin.Context) {
	userID := c.GetString("user_id")
	setlistID := c.Param("id")
	setlistSongID := c.Param("song_id")

	if err := h.service.DeleteSetlistSong(c.Request.Context(), userID, setlistSongID, setlistID); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"deleted": true})
}

// BulkDeleteSongs 批量删除曲目单中的歌曲
func (h *SetlistHandler) BulkDeleteSongs(c *gin.Context) {
	userID := c.GetString("user_id")
	setlistID := c.Param("id")

	var req struct {
		SetlistSongIDs []string `json:"setlist_song_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	if err := h.service.BulkDeleteSongs(c.Request.Context(), userID, setlistID, req.SetlistSongIDs); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"deleted": len(req.SetlistSongIDs)})
}

// CopySong 跨曲目单复制歌曲
func (h *SetlistHandler) CopySong(c *gin.Context) {
	userID := c.GetString("user_id")
	setlistID := c.Param("id")
	setlistSongID := c.Param("song_id")

	var req struct {
		DestinationSetlistID string `json:"destination_setlist_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	clone, err := h.service.CopySongToSetlist(c.Request.Context(), userID, setlistSongID, setlistID, req.DestinationSetlistID)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, clone)
}

// ReorderSongs 按完整新顺序重排曲目单
func (h *SetlistHandler) ReorderSongs(c *gin.Context) {
	userID := c.GetString("user_id")
	setlistID := c.Param("id")

	var req struct {
		SetlistSongIDs []string `json:"setlist_song_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	if err := h.service.Reorder(c.Request.Context(), userID, setlistID, req.SetlistSongIDs); err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, gin.H{"reordered": true})
}
