package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	authMiddleware "github.com/code19m/pulsechat/internal/auth/middleware"

	authHttp "github.com/code19m/pulsechat/internal/auth/controller/http"
	authInfra "github.com/code19m/pulsechat/internal/auth/infra"
	"github.com/code19m/pulsechat/internal/auth/usecase/authuc"
	"github.com/code19m/pulsechat/internal/auth/usecase/userqueryuc"

	"github.com/code19m/pulsechat/internal/account/usecase/accountuc"

	chatHttp "github.com/code19m/pulsechat/internal/chat/controller/http"
	chatInfra "github.com/code19m/pulsechat/internal/chat/infra"
	"github.com/code19m/pulsechat/internal/chat/usecase/chatlister"
	"github.com/code19m/pulsechat/internal/chat/usecase/membershipuc"
	"github.com/code19m/pulsechat/internal/chat/usecase/messageuc"

	"github.com/code19m/pulsechat/internal/config"
	"github.com/code19m/pulsechat/internal/notifications"
	notificationUC "github.com/code19m/pulsechat/internal/notifications/usecase"
	"github.com/code19m/pulsechat/internal/realtime"

	"github.com/code19m/pulsechat/pkg/email"
	"github.com/code19m/pulsechat/pkg/filestore"
	"github.com/code19m/pulsechat/pkg/hasher"
	"github.com/code19m/pulsechat/pkg/kafka"
	"github.com/code19m/pulsechat/pkg/middleware"
	"github.com/code19m/pulsechat/pkg/pg"
	"github.com/code19m/pulsechat/pkg/redis"
	"github.com/code19m/pulsechat/pkg/token"

	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	cfg         *config.Config
	pool        *pgxpool.Pool
	redisClient *redis.Client
	infra       *infrastructure
	uc          *useCases
}

type infrastructure struct {
	tokenService   *token.Service
	passwordHasher hasher.Hasher
	fileStore      filestore.Store
	eventProducer  *kafka.Producer
	emailSender    email.Sender

	userRepo       *authInfra.PgUserRepo
	chatRepo       *chatInfra.PgChatRepo
	messageRepo    *chatInfra.PgMessageRepo
	membershipRepo *chatInfra.PgMembershipRepo
	invitationRepo *chatInfra.PgInvitationRepo

	registry *realtime.Registry
	fabric   *realtime.Fabric
	relay    *realtime.Relay

	auth *authMiddleware.Auth
}

type useCases struct {
	auth       authuc.UseCase
	userQuery  userqueryuc.UseCase
	account    accountuc.UseCase
	membership membershipuc.UseCase
	message    messageuc.UseCase
	emailNotif notificationUC.UseCase
}

func Build(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := pg.NewPostgresPool(ctx, cfg.Postgres.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres pool: %w", err)
	}

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init redis client: %w", err)
	}

	infra, err := initInfrastructure(pool, redisClient, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init infrastructure: %w", err)
	}
	uc := initUseCases(infra)

	return &App{
		cfg:         cfg,
		pool:        pool,
		redisClient: redisClient,
		infra:       infra,
		uc:          uc,
	}, nil
}

func (a *App) Close() {
	if a.infra.relay != nil {
		a.infra.relay.Close()
		log.Println("NATS relay closed")
	}

	if a.infra.eventProducer != nil {
		if err := a.infra.eventProducer.Close(); err != nil {
			log.Printf("Failed to close Kafka producer: %v", err)
		} else {
			log.Println("Kafka producer closed")
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			log.Printf("Failed to close Redis client: %v", err)
		} else {
			log.Println("Redis client closed")
		}
	}

	if a.pool != nil {
		a.pool.Close()
		log.Println("Postgres pool closed")
	}
}

func initInfrastructure(pool *pgxpool.Pool, redisClient *redis.Client, cfg *config.Config) (*infrastructure, error) {
	tokenGenerator := token.NewGenerator(
		cfg.AuthToken.Secret,
		cfg.AuthToken.AccessTokenTTL,
		cfg.AuthToken.RefreshTokenTTL,
	)

	tokenService := token.NewService(
		tokenGenerator,
		redisClient,
		cfg.AuthToken.AccessTokenTTL,
		cfg.AuthToken.RefreshTokenTTL,
	)

	passwordHasher := hasher.NewHasher(12)

	fileStore := filestore.NewMinioStore(filestore.Config{
		Endpoint:        cfg.MinIO.Endpoint,
		Bucket:          cfg.MinIO.Bucket,
		AccessKeyID:     cfg.MinIO.AccessKeyID,
		SecretAccessKey: cfg.MinIO.SecretAccessKey,
		UseSSL:          cfg.MinIO.UseSSL,
	})

	eventProducer, err := kafka.NewProducer(
		kafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			SaslUsername: cfg.Kafka.SaslUsername,
			SaslPassword: cfg.Kafka.SaslPassword,
		},
		"user.registration.email",
		"pulsechat-api",
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	emailSender := email.New(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	userRepo := authInfra.NewPgUserRepo(pool)
	chatRepo := chatInfra.NewPgChatRepo(pool)
	messageRepo := chatInfra.NewPgMessageRepo(pool)
	membershipRepo := chatInfra.NewPgMembershipRepo(pool)
	invitationRepo := chatInfra.NewPgInvitationRepo(pool)

	registry := realtime.NewRegistry(cfg.Realtime.ControlBuffer)
	fabric := realtime.NewFabric(cfg.Realtime.ChatTopicBuffer)

	relay, err := realtime.NewRelay(cfg.NATS.URL, cfg.NATS.SubjectPrefix, fabric, slog.Default())
	if err != nil {
		return nil, fmt.Errorf("connect nats relay: %w", err)
	}

	auth := authMiddleware.NewAuth(tokenService, userRepo)

	return &infrastructure{
		tokenService:   tokenService,
		passwordHasher: passwordHasher,
		fileStore:      fileStore,
		eventProducer:  eventProducer,
		emailSender:    emailSender,
		userRepo:       userRepo,
		chatRepo:       chatRepo,
		messageRepo:    messageRepo,
		membershipRepo: membershipRepo,
		invitationRepo: invitationRepo,
		registry:       registry,
		fabric:         fabric,
		relay:          relay,
		auth:           auth,
	}, nil
}

func initUseCases(infra *infrastructure) *useCases {
	return &useCases{
		auth: authuc.New(
			infra.userRepo,
			infra.passwordHasher,
			infra.tokenService,
			infra.eventProducer,
		),
		userQuery: userqueryuc.New(infra.userRepo, infra.fileStore),
		account: accountuc.New(
			infra.userRepo,
			infra.chatRepo,
			infra.membershipRepo,
			infra.tokenService,
			infra.registry,
		),
		membership: membershipuc.New(
			infra.chatRepo,
			infra.membershipRepo,
			infra.invitationRepo,
			infra.messageRepo,
			infra.userRepo,
			infra.fabric,
			infra.registry,
		),
		message: messageuc.New(
			infra.messageRepo,
			infra.membershipRepo,
			infra.fabric,
			infra.relay,
		),
		emailNotif: notificationUC.New(infra.emailSender),
	}
}

func (a *App) RunHTTPServer() error {
	srv := a.setupHTTPServer()
	return a.runServer(srv)
}

func (a *App) setupHTTPServer() *http.Server {
	mux := http.NewServeMux()

	realtimeHandler := realtime.NewHandler(
		a.infra.registry,
		a.infra.fabric,
		a.uc.message,
		chatlister.New(a.infra.membershipRepo),
		a.infra.relay,
		realtime.Config{
			InboundRateInterval: a.cfg.Realtime.InboundRateInterval,
			IdleTimeout:         a.cfg.Realtime.IdleTimeout,
			FlushInterval:       a.cfg.Realtime.FlushInterval,
			FlushBatchSize:      a.cfg.Realtime.FlushBatchSize,
		},
		slog.Default(),
	)

	authHttp.Register(mux, "", a.uc.auth, a.uc.userQuery, a.uc.account, a.infra.auth, true, 24*time.Hour)
	chatHttp.Register(mux, "", a.uc.membership, a.uc.message, a.infra.membershipRepo, realtimeHandler, a.infra.auth)

	handler := middleware.Recovery(middleware.Logger(middleware.CORS(a.cfg.Server.AllowedOrigins)(mux)))

	return &http.Server{
		Addr:         a.cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}
}

func (a *App) runServer(srv *http.Server) error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting server on %s", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Printf("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			if closeErr := srv.Close(); closeErr != nil {
				return fmt.Errorf("failed to close server: %w", closeErr)
			}
			return fmt.Errorf("failed to gracefully shutdown server: %w", err)
		}

		log.Println("Server stopped gracefully")
		return nil
	}
}

func (a *App) RunNotificationConsumer() error {
	const (
		serviceName    = "pulsechat-notifications"
		serviceVersion = "1.0.0"
		topicName      = "user.registration.email"
	)

	slog.Info("starting notification consumer service", "version", serviceVersion)

	handler := notifications.NewHandler(a.uc.emailNotif)

	consumer, err := kafka.NewConsumer(
		kafka.ConsumerConfig{
			Brokers:      a.cfg.Kafka.Brokers,
			SaslUsername: a.cfg.Kafka.SaslUsername,
			SaslPassword: a.cfg.Kafka.SaslPassword,
			GroupID:      serviceName,
		},
		topicName,
		serviceName,
		serviceVersion,
		handler.HandleUserRegistration,
	)
	if err != nil {
		return fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	slog.Info("kafka consumer initialized",
		"topic", topicName,
		"group_id", serviceName,
	)

	consumerErrors := make(chan error, 1)
	go func() {
		slog.Info("starting kafka consumer")
		consumerErrors <- consumer.Start()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-consumerErrors:
		return fmt.Errorf("consumer error: %w", err)

	case sig := <-shutdown:
		slog.Info("received shutdown signal", "signal", sig)

		if err := consumer.Stop(); err != nil {
			slog.Error("failed to stop consumer", "error", err)
			return fmt.Errorf("failed to stop consumer: %w", err)
		}

		slog.Info("notification consumer stopped gracefully")
		return nil
	}
}
