package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/nstepanov/eshop/internal/authgate"
	"github.com/nstepanov/eshop/internal/config"
	"github.com/nstepanov/eshop/internal/es"
	"github.com/nstepanov/eshop/internal/handlers"
	"github.com/nstepanov/eshop/internal/httpserver"
	"github.com/nstepanov/eshop/internal/logging"
	"github.com/nstepanov/eshop/internal/mykafka"
	"github.com/nstepanov/eshop/internal/service"
	"github.com/nstepanov/eshop/internal/token"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)
	slog.SetDefault(logger)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	prod := mykafka.NewProducer([]string{configuration.KAFKA_ADDRESS})

	esClient, err := es.NewClient(configuration)
	if err != nil {
		log.Fatal(err)
	}

	tokens := token.NewService([]byte(configuration.JWT_SECRET), token.DefaultTTL)

	gate := authgate.New(tokens, configuration.API_URL)
	gate.Exempt = append(gate.Exempt, authgate.ExemptRule{
		Pattern: regexp.MustCompile(`^/health(.*)`),
		Methods: []string{http.MethodGet},
	})

	orderSvc := &service.OrderService{DB: db}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		Gate:            gate,
		AuthHandler:     &handlers.AuthHandler{DB: db, Tokens: tokens, Producer: prod},
		UserHandler:     &handlers.UserHandler{DB: db, Producer: prod},
		CategoryHandler: &handlers.CategoryHandler{DB: db, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod},
		OrderHandler:    &handlers.OrderHandler{Svc: orderSvc, Producer: prod},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: "products"},
	}

	httpserver.Register(e, configuration.API_URL, configuration.UPLOADS_DIR, &deps)

	srv := &http.Server{
		Addr:         ":" + configuration.APP_PORT,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if err := prod.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	log.Println("shutdown complete")
}
