// Package router maps the HTTP surface of the dealership API onto the
// handlers and applies auth, caching and rate-limit middleware per
// group.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/auto-dealership/internal/config"
	"github.com/iliyamo/auto-dealership/internal/handler"
	"github.com/iliyamo/auto-dealership/internal/middleware"
	"github.com/iliyamo/auto-dealership/internal/model"
)

// Handlers bundles every handler the router wires up.
type Handlers struct {
	Auth      *handler.AuthHandler
	Catalog   *handler.CatalogHandler
	Gallery   *handler.GalleryHandler
	Review    *handler.ReviewHandler
	Favorites *handler.FavoriteHandler
	Orders    *handler.OrderHandler
	Admin     *handler.AdminOrderHandler
	Users     *handler.AdminUserHandler
	Stats     *handler.StatsHandler
}

// Register wires all routes.  Three tiers: public (browse, auth),
// customer (any valid token) and admin (ADMIN role).  Public GETs sit
// behind the Redis response cache; review writes are rate limited.
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// auth
	auth := e.Group("/v1/auth")
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	// public browse, cached
	pub := e.Group("/v1", middleware.CacheGET(config.LoadCacheConfig(), rdb))
	pub.GET("/cars", h.Catalog.ListCars)
	pub.GET("/cars/:id", h.Catalog.GetCar)
	pub.GET("/cars/:id/photos", h.Gallery.ListPhotos)

	// customer tier: any authenticated user
	user := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret))
	user.GET("/me", h.Auth.Me)
	user.POST("/logout", h.Auth.Logout)

	user.GET("/cars/:id/rating", h.Review.MyRating)
	user.DELETE("/reviews/:entry_id", h.Review.DeleteEntry)

	user.POST("/cars/:id/favorite", h.Favorites.Add)
	user.GET("/cars/:id/favorite", h.Favorites.Status)
	user.DELETE("/cars/:id/favorite", h.Favorites.Remove)
	user.GET("/favorites", h.Favorites.List)

	user.POST("/reservations", h.Orders.CreateReservation)
	user.GET("/reservations", h.Orders.MyReservations)
	user.POST("/purchases", h.Orders.CreatePurchase)
	user.GET("/purchases", h.Orders.MyPurchases)

	// review writes carry a rate limit on top of auth
	limited := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret),
		middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	limited.POST("/cars/:id/rating", h.Review.SetRating)
	limited.POST("/cars/:id/comments", h.Review.AddComment)

	// admin tier
	admin := e.Group("/v1/admin", middleware.JWTAuth(cfg.JWTSecret),
		middleware.RequireRole(model.RoleAdmin))
	admin.POST("/cars", h.Catalog.CreateCar)
	admin.PUT("/cars/:id", h.Catalog.UpdateCar)
	admin.DELETE("/cars/:id", h.Catalog.DeleteCar)

	admin.GET("/users", h.Users.List)
	admin.PUT("/users/:id", h.Users.Update)
	admin.PUT("/users/:id/active", h.Users.SetActive)
	admin.DELETE("/users/:id", h.Users.Delete)

	admin.POST("/cars/:id/photos", h.Gallery.AddPhoto)
	admin.PUT("/photos/:photo_id/main", h.Gallery.SetMain)
	admin.DELETE("/photos/:photo_id", h.Gallery.DeletePhoto)

	admin.GET("/reservations", h.Admin.ListReservations)
	admin.PUT("/reservations/:id/status", h.Admin.TransitionReservation)
	admin.DELETE("/reservations/:id", h.Admin.DeleteReservation)
	admin.GET("/purchases", h.Admin.ListPurchases)
	admin.PUT("/purchases/:id/status", h.Admin.TransitionPurchase)
	admin.DELETE("/purchases/:id", h.Admin.DeletePurchase)

	admin.GET("/stats", h.Stats.Overview)
	admin.GET("/stats/:kind", h.Stats.Details)
}
