package router

import (
	"github.com/gin-gonic/gin"

	"github.com/uslng/membergate/config"
	"github.com/uslng/membergate/verification"
	"github.com/uslng/membergate/webserver/controller"
)

func Run(gate *verification.Engine) error {
	controller.Init(gate)
	engine := gin.New()
	engine.Use(gin.Recovery())
	api := engine.Group("/api/group/:GroupIdentifier", controller.TokenAuth())
	{
		api.GET("pending", controller.GetPending)
		api.GET("journal", controller.GetJournal)
	}
	return engine.Run(config.GetConfig().Address)
}
