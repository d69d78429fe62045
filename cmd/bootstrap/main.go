package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"

	adaptermiddleware "github.com/bigmelo-com/bigmelo-dashboard/internal/adapters/http/middleware"
	adapterlogger "github.com/bigmelo-com/bigmelo-dashboard/internal/adapters/logger"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/application"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/bigmelo"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/infrastructure"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/infrastructure/auth"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/infrastructure/dynamodb"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/infrastructure/postgres"
	httpiface "github.com/bigmelo-com/bigmelo-dashboard/internal/interfaces/http"
	"github.com/bigmelo-com/bigmelo-dashboard/internal/ports"
)

func main() {
	logger := adapterlogger.New()
	ctx := context.Background()

	cfg, err := infrastructure.LoadConfig()
	if err != nil {
		logger.Error(ctx, "configuration error", "error", err)
		os.Exit(1)
	}
	xray.Configure(xray.Config{LogLevel: "error"})

	var users ports.UserRepository
	var sessions ports.SessionRepository
	switch cfg.StoreBackend {
	case infrastructure.StorePostgres:
		pool, perr := postgres.NewPool(ctx, cfg.DatabaseURL)
		if perr != nil {
			logger.Error(ctx, "failed to connect to postgres", "error", perr)
			os.Exit(1)
		}
		defer pool.Close()
		users = postgres.NewUserRepository(pool)
		sessions = postgres.NewSessionRepository(pool)
	case infrastructure.StoreDynamoDB:
		client, derr := dynamodb.NewClient(ctx, cfg.Region, cfg.TableName)
		if derr != nil {
			logger.Error(ctx, "failed to initialize dynamodb client", "error", derr)
			os.Exit(1)
		}
		users = dynamodb.NewUserRepository(client)
		sessions = dynamodb.NewSessionRepository(client)
	}

	api := bigmelo.NewClient(cfg.APIBaseURL, logger, bigmelo.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}))
	sessionCookie := auth.NewSessionCookie(cfg.SessionSecret)

	sessionSvc := application.NewSessionService(api, users, sessions, logger)
	organisationSvc := application.NewOrganisationService(api)
	profileSvc := application.NewProfileService(api, users)
	dashboardSvc := application.NewDashboardService(api)

	e := httpiface.NewRouter(httpiface.Handlers{
		Auth:          httpiface.NewAuthHandler(sessionSvc, sessionCookie),
		Dashboard:     httpiface.NewDashboardHandler(organisationSvc, dashboardSvc),
		Organisations: httpiface.NewOrganisationsHandler(organisationSvc),
		Profile:       httpiface.NewProfileHandler(profileSvc),
	}, httpiface.Middleware{
		XRay:             adaptermiddleware.XRayMiddleware("bigmelo-dashboard"),
		RequestLogger:    adaptermiddleware.RequestLogger(logger),
		ServerTiming:     adaptermiddleware.ServerTiming(),
		RequireSession:   adaptermiddleware.RequireSession(sessionSvc, sessionCookie),
		RequireAnonymous: adaptermiddleware.RequireAnonymous(sessionSvc, sessionCookie),
	})

	logger.Info(ctx, "starting http server", "port", cfg.Port, "store", cfg.StoreBackend)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
