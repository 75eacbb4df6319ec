package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"tickettrack/internal/config"
	"tickettrack/internal/model"
	mysqlClient "tickettrack/internal/platform/mysql"
	rabbitmqClient "tickettrack/internal/platform/rabbitmq"
	redisClient "tickettrack/internal/platform/redis"
	"tickettrack/internal/repository"
	"tickettrack/internal/session"
	"tickettrack/internal/worker"
)

type App struct {
	Config         *config.Config
	DB             *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	SessionStore   session.Store
	ActivityWorker *worker.ActivityPersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Ticket{}, &model.TicketActivity{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	sessionStore := session.NewRedisStore(redisCli, time.Duration(cfg.Session.LifetimeSeconds)*time.Second)

	mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	activityRepo := repository.NewTicketActivityRepository(db)
	activityWorker := worker.NewActivityPersistWorker(mqConn, activityRepo, cfg.RabbitMQ.ActivityQueue)
	if err := activityWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start activity worker failed: %w", err)
	}

	return &App{
		Config:         cfg,
		DB:             db,
		Redis:          redisCli,
		MQConn:         mqConn,
		SessionStore:   sessionStore,
		ActivityWorker: activityWorker,
		StartedAt:      time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.ActivityWorker != nil {
		a.ActivityWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.DB != nil {
		sqlDB, err := a.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
