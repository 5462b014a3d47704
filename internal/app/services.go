package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"tutor-platform/internal/config"
	domainAccount "tutor-platform/internal/domain/account"
	"tutor-platform/internal/infrastructure/cache"
	"tutor-platform/internal/infrastructure/database/postgres"
	"tutor-platform/internal/infrastructure/storage"
	"tutor-platform/internal/logger"
	"tutor-platform/internal/metrics"
	"tutor-platform/internal/notify"
	"tutor-platform/internal/routes"
	"tutor-platform/internal/usecase/account"
	"tutor-platform/internal/usecase/auth"
	"tutor-platform/pkg/mqtt"
	"tutor-platform/pkg/utils"
)

// Services holds every wired component plus the resources to release.
type Services struct {
	DB       *postgres.DB
	Auth     *auth.Service
	Accounts *account.Service
	Images   storage.ImageStore
	Metrics  *metrics.Collectors

	closers []func()
}

// NewServices wires repositories, optional infrastructure and use cases.
// Redis and MQTT are best effort: a failed connection is logged and the
// service runs without them.
func NewServices(cfg *config.Config, db *postgres.DB) (*Services, error) {
	if !cfg.ResetToken.ExposeInResponse && !cfg.SMTP.Enabled() {
		return nil, fmt.Errorf("reset tokens are not returned in responses and SMTP is not configured: set SMTP_HOST/SMTP_FROM or RESET_TOKEN_IN_RESPONSE=true")
	}

	s := &Services{DB: db}

	if cfg.Metrics.Enabled {
		s.Metrics = metrics.New("tutor_platform")
	}

	accounts := postgres.NewAccountRepository(db)
	profiles := postgres.NewProfileRepository(db)
	var sessions domainAccount.SessionRepository = postgres.NewSessionRepository(db)

	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Warn("Session cache disabled", zap.Error(err))
		} else {
			sessions = cache.NewCachedSessionRepository(sessions, cache.NewRedisStore(client, cfg.Redis.CacheTTL))
			s.closers = append(s.closers, func() { _ = client.Close() })
		}
	}

	notifier := s.buildNotifier(cfg)
	hasher := utils.NewBcryptHasher(cfg.Session.BcryptCost)

	s.Images = storage.NewFileStore(cfg.Media.Root, cfg.Media.MaxBytes)
	s.Auth = auth.NewService(
		accounts,
		sessions,
		hasher,
		utils.SessionKeyGenerator{},
		utils.ResetTokenGenerator{},
		cfg.ResetToken,
		auth.WithNotifier(notifier),
		auth.WithMetrics(s.Metrics),
	)
	s.Accounts = account.NewService(accounts, profiles, s.Auth, hasher, s.Images, notifier, s.Metrics)

	return s, nil
}

func (s *Services) buildNotifier(cfg *config.Config) notify.Notifier {
	var notifiers notify.Multi

	if cfg.SMTP.Enabled() {
		notifiers = append(notifiers, notify.NewEmailNotifier(cfg.SMTP))
		logger.Info("Email notifications enabled", zap.String("smtp_host", cfg.SMTP.Host))
	}

	if cfg.MQTT.Enabled() {
		client := mqtt.NewClient(&mqtt.Config{
			Broker:               cfg.MQTT.Broker,
			ClientID:             cfg.MQTT.ClientID,
			Username:             cfg.MQTT.Username,
			Password:             cfg.MQTT.Password,
			CleanSession:         true,
			KeepAlive:            60,
			ConnectTimeout:       10,
			AutoReconnect:        true,
			MaxReconnectInterval: 30 * time.Second,
		}, logger.Logger)

		if err := client.Connect(); err != nil {
			logger.Warn("Account events disabled", zap.Error(err))
		} else {
			notifiers = append(notifiers, notify.NewEventPublisher(client, cfg.MQTT.TopicPrefix))
			s.closers = append(s.closers, client.Disconnect)
		}
	}

	if len(notifiers) == 0 {
		return notify.Nop{}
	}
	return notifiers
}

func (s *Services) Dependencies() routes.Dependencies {
	return routes.Dependencies{
		Health:   s.DB,
		Auth:     s.Auth,
		Accounts: s.Accounts,
		Images:   s.Images,
		Metrics:  s.Metrics,
	}
}

// Close releases cache and broker connections in reverse order.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
