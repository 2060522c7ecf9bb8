package api

import (
	"github.com/gin-contrib/cors"
	"github.com/wb-go/wbf/ginext"

	"clubhub/cmd/middleware"
	"clubhub/internal/service"
)

type Routers struct {
	Service service.Service
}

func NewRouters(r *Routers) *ginext.Engine {
	app := ginext.New("release")

	app.Use(middleware.LoggingMiddleware())
	app.Use(cors.Default())
	apiGroup := app.Group("/v1")

	apiGroup.POST("/events", r.Service.CreateEvent)
	apiGroup.PUT("/events/:id", r.Service.UpdateEvent)
	apiGroup.GET("/events/:id", r.Service.GetInfo)
	apiGroup.GET("/events", r.Service.GetAllEvents)
	apiGroup.GET("/public/events/:slug", r.Service.GetPublicEvent)

	apiGroup.POST("/events/:id/register", r.Service.Register)
	apiGroup.GET("/registrations/confirm", r.Service.Confirm)

	apiGroup.POST("/events/:id/notify", r.Service.Notify)
	apiGroup.GET("/events/:id/notifications", r.Service.ListNotifications)
	apiGroup.POST("/admin/schema/repair", r.Service.RepairSchema)

	apiGroup.POST("/teams", r.Service.CreateTeam)
	apiGroup.GET("/teams", r.Service.GetAllTeams)
	apiGroup.POST("/teams/:id/members", r.Service.AddMember)
	apiGroup.GET("/teams/:id/members", r.Service.GetMembers)
	apiGroup.POST("/teams/:id/wall", r.Service.PostWallMessage)
	apiGroup.GET("/teams/:id/wall", r.Service.GetWallMessages)

	apiGroup.POST("/sponsors", r.Service.CreateSponsor)
	apiGroup.GET("/sponsors", r.Service.GetAllSponsors)

	return app
}
