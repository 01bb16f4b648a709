package routes

import (
	"furniture-shop/config"
	"furniture-shop/controllers"
	"furniture-shop/libs"
	"furniture-shop/middleware"
	"furniture-shop/models"
	"furniture-shop/repositories"
	"furniture-shop/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func SetupRoutes(router *gin.Engine) {
	cfg := config.AppConfig

	commerce := libs.NewCommerceClient(cfg.UpstreamAPIURL, cfg.UpstreamTimeout)
	guestRepo := repositories.NewGuestCartRepository(models.RedisClient, cfg.GuestCartTTL)
	snapshotRepo := repositories.NewCatalogSnapshotRepository(models.RedisClient, 0)
	promoRepo := repositories.NewPromoRepository()
	wishlistRepo := repositories.NewWishlistRepository()

	registry := services.NewCartRegistry(commerce, guestRepo)
	search := services.NewSearchService(commerce, snapshotRepo, cfg.SearchCacheTTL)

	cartCtrl := controllers.NewCartController(registry, promoRepo)
	searchCtrl := controllers.NewSearchController(search)
	promoCtrl := controllers.NewPromoController(promoRepo)
	wishlistCtrl := controllers.NewWishlistController(wishlistRepo)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })

	router.GET("/search", searchCtrl.Search)
	router.POST("/search/refresh", searchCtrl.Refresh)
	router.GET("/categories", searchCtrl.GetCategories)
	router.GET("/promos", promoCtrl.GetAllPromos)

	cart := router.Group("/cart")
	cart.Use(middleware.CartSessionMiddleware(), middleware.OptionalAuthMiddleware())
	{
		cart.GET("", cartCtrl.GetCart)
		cart.DELETE("", cartCtrl.ClearCart)
		cart.POST("/items", cartCtrl.AddItem)
		cart.PATCH("/items/:id", cartCtrl.UpdateQuantity)
		cart.PATCH("/items/:id/color", cartCtrl.UpdateColor)
		cart.DELETE("/items/:id", cartCtrl.RemoveItem)
		cart.PUT("/shipping", cartCtrl.SetShipping)
		cart.POST("/coupon", cartCtrl.ApplyCoupon)
		cart.DELETE("/coupon", cartCtrl.RemoveCoupon)
		cart.POST("/sync", cartCtrl.SyncCart)
	}

	wishlist := router.Group("/wishlist")
	wishlist.Use(middleware.AuthMiddleware())
	{
		wishlist.GET("", wishlistCtrl.GetWishlist)
		wishlist.POST("", wishlistCtrl.AddItem)
		wishlist.DELETE("/:variantId", wishlistCtrl.RemoveItem)
	}
}
