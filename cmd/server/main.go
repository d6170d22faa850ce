package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/theatre-booking/internal/config"
	"github.com/iliyamo/theatre-booking/internal/database"
	"github.com/iliyamo/theatre-booking/internal/handler"
	"github.com/iliyamo/theatre-booking/internal/logger"
	"github.com/iliyamo/theatre-booking/internal/queue"
	"github.com/iliyamo/theatre-booking/internal/repository"
	"github.com/iliyamo/theatre-booking/internal/router"
	"github.com/iliyamo/theatre-booking/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
	log.Info("server stopped")
}

func run(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	dsn := database.SQLiteDSN(cfg.DBPath)
	if cfg.DBDriver == database.DriverMySQL {
		dsn = database.MySQLDSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	}
	db, err := database.Open(cfg.DBDriver, dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	var publisher service.EventPublisher = queue.NopPublisher{}
	if cfg.AMQPURL != "" {
		publisher = queue.NewPublisher(cfg.AMQPURL, log)
	} else {
		log.Info("AMQP url not set; reservation events disabled")
	}

	plays := repository.NewPlayRepo(db)
	actors := repository.NewActorRepo(db)
	genres := repository.NewGenreRepo(db)
	halls := repository.NewHallRepo(db)
	performances := repository.NewPerformanceRepo(db)
	tickets := repository.NewTicketRepo(db)
	reservations := repository.NewReservationRepo(db)

	availability := service.NewAvailabilityService(performances, log)
	booking := service.NewReservationService(reservations, tickets, performances, publisher, log)

	e := router.New(router.Deps{
		JWTSecret:    cfg.JWTSecret,
		Log:          log,
		Redis:        rdb,
		RateLimit:    config.LoadRateLimitConfig(),
		Cache:        config.LoadCacheConfig(),
		DB:           db,
		Catalog:      handler.NewCatalogHandler(plays, actors, genres, halls, performances, tickets, availability),
		Reservations: handler.NewReservationHandler(booking),
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr := ":" + cfg.Port
		log.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env, "db": cfg.DBDriver}).Info("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if cfg.AMQPURL != "" {
		g.Go(func() error {
			return queue.NewConsumer(cfg.AMQPURL, log).Run(ctx)
		})
	}
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
