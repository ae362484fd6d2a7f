package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"marketplace/internal/handler"
	"marketplace/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	OrderHandler   *handler.OrderHandler
	AccountHandler *handler.AccountHandler
	DriverHandler  *handler.DriverHandler
	PricingHandler *handler.PricingHandler
	RedisClient    *redis.Client
	NewRelicApp    *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS())

	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.Idempotency(deps.RedisClient))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("/register", deps.AccountHandler.Register)
			accounts.GET("", deps.AccountHandler.GetAll)
			accounts.POST("/:id/topup", deps.AccountHandler.TopUp)
			accounts.GET("/:id/ledger", deps.AccountHandler.Ledger)
			accounts.GET("/:id/tip", deps.AccountHandler.Tip)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", deps.OrderHandler.PlaceOrder)
			orders.GET("", deps.OrderHandler.GetAll)
			orders.GET("/:id", deps.OrderHandler.GetOrder)
			orders.POST("/:id/accept", deps.OrderHandler.Accept)
			orders.POST("/:id/status", deps.OrderHandler.UpdateStatus)
			orders.POST("/:id/cancel", deps.OrderHandler.Cancel)
			orders.POST("/:id/rating", deps.OrderHandler.Rate)
		}

		drivers := v1.Group("/drivers")
		{
			drivers.POST("/:id/location", deps.DriverHandler.UpdateLocation)
			drivers.POST("/:id/duty", deps.DriverHandler.SetDuty)
			drivers.GET("/:id/route", deps.DriverHandler.Route)
			drivers.GET("/:id/orders", deps.DriverHandler.ActiveOrders)
		}

		pricing := v1.Group("/pricing")
		{
			pricing.POST("/estimate", deps.PricingHandler.Estimate)
		}
	}

	return router
}
