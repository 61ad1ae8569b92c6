package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/auto-dealership/internal/config"
	"github.com/iliyamo/auto-dealership/internal/database"
	"github.com/iliyamo/auto-dealership/internal/handler"
	"github.com/iliyamo/auto-dealership/internal/queue"
	"github.com/iliyamo/auto-dealership/internal/repository"
	"github.com/iliyamo/auto-dealership/internal/router"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// nil when Redis is unreachable; cache and rate limit degrade to no-ops
	rdb := config.NewRedisClient()

	cars := repository.NewCarRepo(db)
	photos := repository.NewPhotoRepo(db)
	ratings := repository.NewRatingRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	reservations := repository.NewReservationRepo(db)
	purchases := repository.NewPurchaseRepo(db)
	stats := repository.NewStatsRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users, tokens),
		Catalog:   handler.NewCatalogHandler(cars, photos, ratings, favorites),
		Gallery:   handler.NewGalleryHandler(photos),
		Review:    handler.NewReviewHandler(cars, ratings),
		Favorites: handler.NewFavoriteHandler(cars, favorites),
		Orders:    handler.NewOrderHandler(cars, reservations, purchases),
		Admin:     handler.NewAdminOrderHandler(reservations, purchases),
		Users:     handler.NewAdminUserHandler(users, tokens),
		Stats:     handler.NewStatsHandler(stats),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e, h, cfg, rdb)

	// order event consumer runs for the lifetime of the process and
	// reconnects on broker failures
	go func() {
		if err := queue.StartOrderConsumer(); err != nil {
			log.Printf("order consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
