package main // Entry point package

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/seat-reservation/internal/booking"
	"github.com/iliyamo/seat-reservation/internal/config"
	"github.com/iliyamo/seat-reservation/internal/database"
	"github.com/iliyamo/seat-reservation/internal/handler"
	"github.com/iliyamo/seat-reservation/internal/logger"
	"github.com/iliyamo/seat-reservation/internal/mail"
	"github.com/iliyamo/seat-reservation/internal/middleware"
	"github.com/iliyamo/seat-reservation/internal/queue"
	"github.com/iliyamo/seat-reservation/internal/repository"
	"github.com/iliyamo/seat-reservation/internal/router"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zl, err := logger.New(cfg.LogLevel, "seat-reservation")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		return errors.Wrap(err, "open database")
	}
	defer db.Close()
	if err := database.Migrate(db, zl); err != nil {
		return errors.Wrap(err, "migrate")
	}

	rdb, err := config.NewRedisClient(ctx)
	if err != nil {
		zl.Warn("redis unavailable; cache off, in-memory rate limiting", zap.Error(err))
		rdb = nil
	}
	if rdb != nil {
		defer rdb.Close()
	}

	ncfg, err := config.LoadNotifyConfig()
	if err != nil {
		return err
	}
	publisher := queue.NewAMQPPublisher(ncfg.RabbitURL, ncfg.Queue)
	defer publisher.Close()
	dispatcher := queue.NewDispatcher(publisher, ncfg.Buffer, ncfg.PublishTimeout, zl)

	var mailer mail.Mailer = mail.LogMailer{Log: zl.Named("mail")}
	if ncfg.SMTPHost != "" {
		mailer = mail.NewSMTPMailer(ncfg.SMTPHost, ncfg.SMTPPort, ncfg.SMTPUser, ncfg.SMTPPass, ncfg.MailFrom)
	}

	// repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	seats := repository.NewSeatRepo(db)
	reservations := repository.NewReservationRepo(db)

	// booking engine
	resolver := booking.NewResolver(seats)
	manager := booking.NewManager(reservations, seats, users, dispatcher, booking.SystemClock{}, zl)

	e := router.New(zl)
	router.RegisterRoutes(e, db)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens, zl), cfg.JWTSecret)
	router.RegisterIntern(e,
		handler.NewReservationHandler(manager, resolver, zl),
		cfg.JWTSecret,
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, zl))
	router.RegisterAdmin(e,
		handler.NewAdminSeatHandler(seats, zl),
		handler.NewAdminReservationHandler(reservations, zl),
		cfg.JWTSecret,
		middleware.NewResponseCache(config.LoadCacheConfig(), rdb, zl))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return dispatcher.Run(gctx) })
	if ncfg.ConsumerOn {
		consumer := queue.NewConsumer(ncfg.RabbitURL, ncfg.Queue, mailer, zl)
		g.Go(func() error { return consumer.Run(gctx) })
	}
	g.Go(func() error {
		addr := ":" + cfg.Port
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(sctx)
	})
	return g.Wait()
}
