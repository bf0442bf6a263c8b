package routes

import (
	"foodcart/configs"
	"foodcart/controllers"
	"foodcart/middlewares"
	"foodcart/services"
	"foodcart/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func RegisterRoutes(r *gin.Engine, cfg *configs.Config, log zerolog.Logger,
	catalog *services.CatalogService, carts *services.CartService, hub *ws.CartHub) {
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.Recovery(log))
	r.Use(middlewares.CORSMiddleware(cfg.AllowOrigins))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	catalogCtrl := controllers.NewCatalogController(catalog)
	cartCtrl := controllers.NewCartController(carts)

	api := r.Group("/api")

	// Catalog (public, read-only)
	api.GET("/restaurants", catalogCtrl.ListRestaurants)
	api.GET("/restaurants/:id", catalogCtrl.GetRestaurant)
	api.GET("/restaurants/:id/menu-items", catalogCtrl.RestaurantMenu)
	api.GET("/menu-items", catalogCtrl.ListMenuItems)

	// Cart (scoped to the caller)
	cart := api.Group("/cart/:userId", middlewares.CartOwner(cfg.AuthJWTSecret))
	{
		cart.GET("", cartCtrl.Get)
		cart.POST("", cartCtrl.Add)
		cart.DELETE("", cartCtrl.Clear)
		cart.PUT("/item/:itemId", cartCtrl.UpdateQuantity)
		cart.DELETE("/item/:itemId", cartCtrl.RemoveItem)
		if hub != nil {
			cart.GET("/ws", hub.HandleWebSocket)
		}
	}
}

// NewRouter builds a gin engine with every route registered.
func NewRouter(cfg *configs.Config, log zerolog.Logger,
	catalog *services.CatalogService, carts *services.CartService, hub *ws.CartHub) *gin.Engine {
	r := gin.New()
	RegisterRoutes(r, cfg, log, catalog, carts, hub)
	return r
}
