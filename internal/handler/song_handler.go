package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bandhub/server/internal/domain"
	"github.com/bandhub/server/internal/service"
	"github.com/bandhub/server/pkg/errors"
	"github.com/bandhub/server/pkg/httputil"
)

// SongHandler 歌曲目录处理器
type SongHandler struct {
	service *service.SongService
}

// NewSongHandler 创建歌曲目录处理器
func NewSongHandler(service *service.SongService) *SongHandler {
	return &SongHandler{service: service}
}

// CreateSong 向目录添加歌曲
func (h *SongHandler) CreateSong(c *gin.Context) {
	var req struct {
		Title           string  `json:"title" binding:"required"`
		Artist          string  `json:"artist"`
		DurationSeconds *int    `json:"duration_seconds"`
		BPM             *int    `json:"bpm"`
		Tuning          *string `json:"tuning"`
		IsLive          bool    `json:"is_live"`
		ArtworkURL      string  `json:"artwork_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ErrorResponse(c, errors.ErrValidation.WithMessage(err.Error()))
		return
	}

	song, err := h.service.CreateSong(c.Request.Context(), &domain.Song{
		Title:           req.Title,
		Artist:          req.Artist,
		DurationSeconds: req.DurationSeconds,
		BPM:             req.BPM,
		Tuning:          req.Tuning,
		IsLive:          req.IsLive,
		ArtworkURL:      req.ArtworkURL,
	})
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, song)
}

// GetSong 获取目录歌曲
func (h *SongHandler) GetSong(c *gin.Context) {
	song, err := h.service.GetSong(c.Request.Context(), c.Param("id"))
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.SuccessResponse(c, song)
}

// ListSongs 分页列出目录歌曲
func (h *SongHandler) ListSongs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	// 与服务层保持同一套边界，响应里报告的就是实际生效的分页参数
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	songs, total, err := h.service.ListSongs(c.Request.Context(), page, pageSize)
	if err != nil {
		httputil.ErrorResponse(c, err)
		return
	}
	httputil.PaginatedResponse(c, songs, page, pageSize, total)
}
