package main // Entry point package

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/admin-panel-api/internal/cache"
	"github.com/iliyamo/admin-panel-api/internal/config"
	"github.com/iliyamo/admin-panel-api/internal/database"
	"github.com/iliyamo/admin-panel-api/internal/handler"
	"github.com/iliyamo/admin-panel-api/internal/middleware"
	"github.com/iliyamo/admin-panel-api/internal/queue"
	"github.com/iliyamo/admin-panel-api/internal/repository"
	"github.com/iliyamo/admin-panel-api/internal/router"
	"github.com/iliyamo/admin-panel-api/internal/service"
	"github.com/iliyamo/admin-panel-api/internal/utils"
)

func main() {
	// .env is a local development convenience; in production the variables
	// come from the process environment and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// The consumer drains security events into the audit log.  It reconnects
	// on its own, so a broker outage at boot is not fatal.
	go func() {
		if err := queue.StartSecurityConsumer(); err != nil {
			log.Printf("security consumer: %v", err)
		}
	}()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	menuRepo := repository.NewMenuRepo(db)
	dictRepo := repository.NewDictRepo(db)
	newsRepo := repository.NewNewsRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)

	codec := utils.NewTokenCodec(cfg.JWTSecret)
	events := queue.NewPublisher()
	permCache := cache.NewPermissionCache(rdb, cfg.PermCacheTTL)

	authSvc := service.NewAuthService(codec, userRepo, tokenRepo, events,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour)
	permSvc := service.NewPermissionService(roleRepo, permCache)
	menuSvc := service.NewMenuService(menuRepo, roleRepo)

	h := &router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, permSvc, menuSvc),
		Users:      handler.NewUserHandler(userRepo, roleRepo, permCache, cfg.BcryptCost),
		Roles:      handler.NewRoleHandler(roleRepo, permCache),
		Menus:      handler.NewMenuHandler(menuRepo, menuSvc, permCache),
		Dicts:      handler.NewDictHandler(dictRepo),
		News:       handler.NewNewsHandler(newsRepo),
		Orders:     handler.NewOrderHandler(orderRepo),
		Products:   handler.NewProductHandler(productRepo),
		Categories: handler.NewCategoryHandler(categoryRepo),
	}

	authed := middleware.JWTAuth(authSvc, userRepo)
	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, h, authed, rateLimit)
	router.RegisterSystem(e, h, authed, permSvc)
	router.RegisterBusiness(e, h, authed, permSvc)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
