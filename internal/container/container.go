package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/harshu1611/todoAppServer/config"
	"github.com/harshu1611/todoAppServer/internal/application"
	"github.com/harshu1611/todoAppServer/internal/domain/repository"
	"github.com/harshu1611/todoAppServer/internal/infrastructure/media"
	mongoinfra "github.com/harshu1611/todoAppServer/internal/infrastructure/mongo"
	pginfra "github.com/harshu1611/todoAppServer/internal/infrastructure/postgres"
	"github.com/harshu1611/todoAppServer/internal/infrastructure/session"
	"github.com/harshu1611/todoAppServer/pkg/helpers"
	"github.com/harshu1611/todoAppServer/pkg/mailer"
)

// Container holds the constructed infrastructure shared by the router modules.
type Container struct {
	Config   *config.Config
	Logger   *logrus.Logger
	Users    repository.UserRepository
	JWT      *helpers.JWTManager
	Cookies  *helpers.Manager
	Redis    *redis.Client          // nil when REDIS_ENABLED=false
	Sessions *session.RedisDenylist // nil without Redis
	Notifier application.Notifier
	Uploader application.AvatarUploader

	closers []func()
}

// New returns a container with the in-process components only; nothing is connected.
func New(cfg *config.Config, logger *logrus.Logger) *Container {
	return &Container{
		Config:  cfg,
		Logger:  logger,
		JWT:     helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL()),
		Cookies: helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
}

// Build connects every backend selected by cfg. On error the partially built
// container is closed.
func Build(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (ct *Container, err error) {
	ct = New(cfg, logger)
	defer func() {
		if err != nil {
			ct.Close()
			ct = nil
		}
	}()

	if ct.Users, err = ct.OpenUsers(ctx); err != nil {
		return ct, fmt.Errorf("user store: %w", err)
	}
	if cfg.RedisEnabled {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return ct, fmt.Errorf("redis: %w", err)
		}
		ct.onClose(func() { _ = rdb.Close() })
		ct.Redis = rdb
		ct.Sessions = session.NewRedisDenylist(rdb)
	} else {
		logger.Warn("redis disabled; logout only clears the cookie and rate limits are off")
	}
	if ct.Uploader, err = ct.openMedia(ctx); err != nil {
		return ct, fmt.Errorf("media store: %w", err)
	}
	if ct.Notifier, err = ct.openMail(); err != nil {
		return ct, fmt.Errorf("mail: %w", err)
	}
	return ct, nil
}

func (ct *Container) onClose(fn func()) { ct.closers = append(ct.closers, fn) }

// Close releases connections in reverse order of creation.
func (ct *Container) Close() {
	for i := len(ct.closers) - 1; i >= 0; i-- {
		ct.closers[i]()
	}
	ct.closers = nil
}

// OpenUsers connects the user store selected by DB_DRIVER, running migrations
// for postgres and index creation for mongo.
func (ct *Container) OpenUsers(ctx context.Context) (repository.UserRepository, error) {
	cfg := ct.Config
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := pginfra.Open(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMaxIdleConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, err
		}
		ct.onClose(func() { _ = db.Close() })
		if err := pginfra.Migrate(db.DB, cfg.MigrationsDir, ct.Logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return pginfra.NewUserRepository(db), nil
	default:
		client, err := mongoinfra.NewClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		ct.onClose(func() { _ = client.Disconnect(context.Background()) })
		repo := mongoinfra.NewUserRepository(client.Database(cfg.MongoDatabase).Collection(cfg.MongoUsersCollection))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("indexes: %w", err)
		}
		return repo, nil
	}
}

func (ct *Container) openMedia(ctx context.Context) (application.AvatarUploader, error) {
	cfg := ct.Config
	var store media.ObjectStore
	switch cfg.MediaProvider {
	case config.MediaS3:
		s3, err := media.NewS3Store(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3PublicBaseURL)
		if err != nil {
			return nil, err
		}
		store = s3
	default:
		client, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, err
		}
		ct.onClose(func() { _ = client.Close() })
		store = media.NewGCSStore(client, cfg.GCSBucket)
	}
	return media.NewAvatarUploader(store, cfg.AvatarFolder, cfg.AvatarMaxDimension), nil
}

func (ct *Container) openMail() (application.Notifier, error) {
	cfg := ct.Config
	if !cfg.MailSendEnabled {
		ct.Logger.Warn("MAIL_SEND_ENABLED=false; otp emails are not sent")
		return &mailer.DisabledSender{Logger: ct.Logger}, nil
	}
	if cfg.MailTransport == config.MailQueue {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, err
		}
		ct.onClose(pub.Close)
		return mailer.NewQueueSender(pub, cfg.AppName), nil
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		return nil, fmt.Errorf("mailgun is not configured")
	}
	return mailer.NewDirectSender(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), cfg.AppName), nil
}

// AccountService wires the account use cases over the container's backends.
func (ct *Container) AccountService() *application.Service {
	var revoker application.TokenRevoker
	if ct.Sessions != nil {
		revoker = ct.Sessions
	}
	return application.NewService(
		ct.Users,
		ct.JWT,
		ct.Notifier,
		ct.Uploader,
		revoker,
		ct.Logger,
		ct.Config.OTPTTL(),
		ct.Config.ResetOTPTTL,
	)
}
