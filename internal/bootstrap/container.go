package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/joeystdio/handoff-app/internal/config"
	"github.com/joeystdio/handoff-app/internal/infra/blob"
	"github.com/joeystdio/handoff-app/internal/infra/cache"
	"github.com/joeystdio/handoff-app/internal/infra/db"
	"github.com/joeystdio/handoff-app/internal/infra/httpclient"
	"github.com/joeystdio/handoff-app/internal/infra/logger"
	mq "github.com/joeystdio/handoff-app/internal/infra/queue"
	"github.com/joeystdio/handoff-app/internal/modules/authz"
	"github.com/joeystdio/handoff-app/internal/modules/handler"
	"github.com/joeystdio/handoff-app/internal/modules/model"
	"github.com/joeystdio/handoff-app/internal/modules/repo"
	"github.com/joeystdio/handoff-app/internal/modules/service"
	"github.com/joeystdio/handoff-app/internal/modules/tracking"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			_ = d.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto")

			_ = d.AutoMigrate(
				&model.Freelancer{},
				&model.Portal{},
				&model.Client{},
				&model.Project{},
				&model.Task{},
				&model.Update{},
				&model.File{},
				&model.FileDownload{},
				&model.ClientView{},
			)
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg)
	})

	// RabbitMQ (optional; analytics fan-out only)
	do.Provide(inj, func(i *do.Injector) (mq.DialFunc, error) {
		cfg := do.MustInvoke[*config.Config](i)

		dialFn := func() (*amqp.Connection, error) {
			useTLS := cfg.RabbitMQ.EnableTLS || strings.HasPrefix(cfg.RabbitMQ.URL, "amqps://")

			if useTLS {
				tlsConfig := &tls.Config{
					MinVersion: tls.VersionTLS12,
				}
				url := cfg.RabbitMQ.URL
				if strings.HasPrefix(url, "amqp://") {
					url = strings.Replace(url, "amqp://", "amqps://", 1)
				}
				return amqp.DialTLS(url, tlsConfig)
			}

			return amqp.Dial(cfg.RabbitMQ.URL)
		}

		return dialFn, nil
	})
	do.Provide(inj, func(i *do.Injector) (*mq.Publisher, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if !cfg.RabbitMQ.Enabled {
			return nil, nil
		}
		dialFn := do.MustInvoke[mq.DialFunc](i)
		conn, err := dialFn()
		if err != nil {
			return nil, err
		}
		log := do.MustInvoke[*zap.Logger](i)
		return mq.NewPublisher(conn, log, cfg)
	})

	// S3
	do.Provide(inj, func(i *do.Injector) (*blob.S3Deps, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return blob.NewS3(context.Background(), cfg)
	})

	// Invite mailer
	do.Provide(inj, func(i *do.Injector) (*httpclient.Mailer, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		return httpclient.NewMailer(cfg, log), nil
	})

	// Authorizer
	do.Provide(inj, func(i *do.Injector) (authz.Checker, error) {
		return authz.NewAuthorizer(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Tracking recorder
	do.Provide(inj, func(i *do.Injector) (*tracking.Recorder, error) {
		return tracking.NewRecorder(
			do.MustInvoke[*gorm.DB](i),
			do.MustInvoke[*mq.Publisher](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.FreelancerRepo, error) {
		return repo.NewFreelancerRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.PortalRepo, error) {
		return repo.NewPortalRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ClientRepo, error) {
		return repo.NewClientRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.TaskRepo, error) {
		return repo.NewTaskRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.UpdateRepo, error) {
		return repo.NewUpdateRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.FileRepo, error) {
		return repo.NewFileRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ActivityRepo, error) {
		return repo.NewActivityRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.AuthService, error) {
		return service.NewAuthService(
			do.MustInvoke[repo.FreelancerRepo](i),
			do.MustInvoke[*config.Config](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.PortalService, error) {
		return service.NewPortalService(
			do.MustInvoke[repo.PortalRepo](i),
			do.MustInvoke[authz.Checker](i),
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ClientService, error) {
		return service.NewClientService(
			do.MustInvoke[repo.ClientRepo](i),
			do.MustInvoke[repo.ActivityRepo](i),
			do.MustInvoke[authz.Checker](i),
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*httpclient.Mailer](i),
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(
			do.MustInvoke[repo.ProjectRepo](i),
			do.MustInvoke[authz.Checker](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.TaskService, error) {
		return service.NewTaskService(
			do.MustInvoke[repo.TaskRepo](i),
			do.MustInvoke[authz.Checker](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.UpdateService, error) {
		return service.NewUpdateService(
			do.MustInvoke[repo.UpdateRepo](i),
			do.MustInvoke[authz.Checker](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.FileService, error) {
		return service.NewFileService(
			do.MustInvoke[repo.FileRepo](i),
			do.MustInvoke[authz.Checker](i),
			do.MustInvoke[*blob.S3Deps](i),
			do.MustInvoke[*config.Config](i),
		), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.AuthHandler, error) {
		return handler.NewAuthHandler(do.MustInvoke[service.AuthService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.PortalHandler, error) {
		return handler.NewPortalHandler(do.MustInvoke[service.PortalService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ClientHandler, error) {
		return handler.NewClientHandler(do.MustInvoke[service.ClientService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.TaskHandler, error) {
		return handler.NewTaskHandler(do.MustInvoke[service.TaskService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.UpdateHandler, error) {
		return handler.NewUpdateHandler(do.MustInvoke[service.UpdateService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.FileHandler, error) {
		return handler.NewFileHandler(do.MustInvoke[service.FileService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ClientPortalHandler, error) {
		return handler.NewClientPortalHandler(
			do.MustInvoke[service.ProjectService](i),
			do.MustInvoke[service.TaskService](i),
			do.MustInvoke[service.UpdateService](i),
			do.MustInvoke[service.FileService](i),
			do.MustInvoke[*tracking.Recorder](i),
		), nil
	})
	return inj
}
