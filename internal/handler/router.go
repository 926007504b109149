package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bandhub/server/internal/middleware"
	"github.com/bandhub/server/pkg/jwt"
	"github.com/bandhub/server/pkg/logger"
)

// Handlers 路由挂载所需的全部处理器
type Handlers struct {
	Band      *BandHandler
	Song      *SongHandler
	Setlist   *SetlistHandler
	Gig       *GigHandler
	Rehearsal *RehearsalHandler
	WS        *WSHandler
}

// NewRouter 构建 HTTP 路由
func NewRouter(h *Handlers, jwtManager *jwt.Manager, corsOrigins []string, log logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logging(log),
		middleware.CORS(corsOrigins),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	auth := middleware.Auth(jwtManager, log)

	api := r.Group("/api/v1", auth)
	{
		bands := api.Group("/bands")
		{
			bands.POST("", h.Band.CreateBand)
			bands.GET("", h.Band.ListBands)
			bands.GET("/:id", h.Band.GetBand)
			bands.POST("/:id/members", h.Band.AddMember)
			bands.GET("/:id/members", h.Band.ListMembers)

			bands.POST("/:id/setlists", h.Setlist.CreateSetlist)
			bands.GET("/:id/setlists", h.Setlist.ListSetlists)
			bands.POST("/:id/setlists/copy", h.Setlist.CopySetlist)

			bands.POST("/:id/gigs", h.Gig.CreateGig)
			bands.GET("/:id/gigs", h.Gig.ListGigs)
			bands.POST("/:id/rehearsals", h.Rehearsal.CreateRehearsal)
			bands.GET("/:id/rehearsals", h.Rehearsal.ListRehearsals)
		}

		songs := api.Group("/songs")
		{
			songs.POST("", h.Song.CreateSong)
			songs.GET("", h.Song.ListSongs)
			songs.GET("/:id", h.Song.GetSong)
		}

		setlists := api.Group("/setlists")
		{
			setlists.GET("/:id", h.Setlist.GetSetlist)
			setlists.PATCH("/:id", h.Setlist.RenameSetlist)
			setlists.DELETE("/:id", h.Setlist.DeleteSetlist)
			setlists.GET("/:id/share", h.Setlist.ShareSetlist)

			setlists.POST("/:id/songs", h.Setlist.AddSong)
			setlists.DELETE("/:id/songs/:song_id", h.Setlist.DeleteSong)
			setlists.POST("/:id/songs/bulk-delete", h.Setlist.BulkDeleteSongs)
			setlists.POST("/:id/songs/:song_id/copy", h.Setlist.CopySong)
			setlists.PUT("/:id/songs/order", h.Setlist.ReorderSongs)
		}

		gigs := api.Group("/gigs")
		{
			gigs.GET("/:id", h.Gig.GetGig)
			gigs.PATCH("/:id", h.Gig.UpdateGig)
			gigs.DELETE("/:id", h.Gig.DeleteGig)
		}

		rehearsals := api.Group("/rehearsals")
		{
			rehearsals.GET("/:id", h.Rehearsal.GetRehearsal)
			rehearsals.PATCH("/:id", h.Rehearsal.UpdateRehearsal)
			rehearsals.DELETE("/:id", h.Rehearsal.DeleteRehearsal)
		}
	}

	r.GET("/ws", auth, h.WS.Serve)

	return r
}
