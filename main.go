package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"raci-approval-backend/config"
	apiv1 "raci-approval-backend/controllers/v1"
	"raci-approval-backend/controllers/v1/dict"
	"raci-approval-backend/db"
	_ "raci-approval-backend/docs"
	"raci-approval-backend/fiberlog"
	"raci-approval-backend/initializers"
	"raci-approval-backend/lib/metrics"
	"raci-approval-backend/lib/ws"
	"raci-approval-backend/middleware"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberRecover "github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"
)

// @title RACI approval API
// @version 1.0
// @description Матрица RACI мероприятий и многоуровневое согласование
// @BasePath /
func main() {
	ctx, cancel := context.WithCancel(context.Background())

	initializers.InitAllServices(ctx)

	app := fiber.New(fiber.Config{
		BodyLimit: config.Conf.App.BodyLimit,
	})
	app.Use(fiberRecover.New())
	app.Use(middleware.WithBodyLimit(int64(config.Conf.App.BodyLimit)))

	swaggerCfg := swagger.Config{
		Path:     "/swagger",
		FilePath: "./docs/swagger.json",
	}
	app.Use(swagger.New(swaggerCfg))
	app.Get("/metrics", metrics.Handler())
	app.Get("/health", func(ctx *fiber.Ctx) error {
		if err := db.PingDB(); err != nil {
			log.WithError(err).Error("БД недоступна")
			return ctx.SendStatus(fiber.StatusServiceUnavailable)
		}
		return ctx.SendStatus(fiber.StatusOK)
	})

	//api
	apiV1 := fiber.New()
	apiV1.Use(fiberlog.New(*initializers.LoggerConfig))
	app.Mount("/api/v1", apiV1)
	apiV1.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + fiberlog.RequestIDHeader,
		AllowMethods:  "GET, POST, PATCH, DELETE, PUT",
		ExposeHeaders: "Content-Disposition, " + fiberlog.RequestIDHeader,
	}))
	apiv1.InitAuthApiRouters(apiV1)

	//dict
	dicts := fiber.New()
	apiV1.Mount("/dict", dicts)
	dicts.Use(middleware.AuthorizationRequired())
	dicts.Use(middleware.RbacMiddleware())
	dict.InitDepartmentDictApiRouters(dicts)
	dict.InitEmployeeDictApiRouters(dicts)
	dict.InitRoleDictApiRouters(dicts)

	//мероприятия
	events := fiber.New()
	apiV1.Mount("/event", events)
	events.Use(middleware.AuthorizationRequired())
	events.Use(middleware.RbacMiddleware())
	apiv1.InitEventApiRouters(events)
	apiv1.InitMatrixApiRouters(events)

	//согласование
	approvals := fiber.New()
	apiV1.Mount("/approval", approvals)
	approvals.Use(middleware.AuthorizationRequired())
	approvals.Use(middleware.RbacMiddleware())
	apiv1.InitApprovalApiRouters(approvals)

	//websocket
	wsRouter := app.Group("/ws", middleware.WsAuthorizationRequired())
	ws.InitWs(wsRouter)

	// gracefully shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = <-c
		log.Info("Gracefully shutting down...")
		cancel()
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Error("Error when try gracefully shutting down")
		}
		time.Sleep(time.Second)
		log.Info("Gracefully shutting down finished")
	}()

	// run HTTP server
	if err := app.Listen(fmt.Sprintf("%s:%d", config.Conf.App.ListenAddr, config.Conf.App.Port)); err != nil {
		log.Fatal(err)
	}

	wg.Wait()
	log.Info("HTTP server successfully stopped")
}
