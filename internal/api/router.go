package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the gin engine serving h.
//
// Postcondition: Returns an engine with every battle route registered.
func NewRouter(h *BattleHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	{
		v1.GET("/zones", h.ListZones)

		actors := v1.Group("/actors/:actor")
		actors.GET("", h.Sheet)
		actors.POST("/fights", h.StartFight)
		actors.POST("/attack", h.Attack)
		actors.POST("/skills/:slot", h.UseSkill)
		actors.DELETE("/fight", h.Retreat)
		actors.PUT("/loadout/:slot", h.EquipSkill)
		actors.GET("/skills", h.ListSkills)
	}
	return router
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
