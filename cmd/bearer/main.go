package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/bearer/internal/application/ports"
	"github.com/amirhosseinghanipour/bearer/internal/application/session"
	"github.com/amirhosseinghanipour/bearer/internal/config"
	infraauth "github.com/amirhosseinghanipour/bearer/internal/infrastructure/auth"
	httprouter "github.com/amirhosseinghanipour/bearer/internal/infrastructure/http"
	"github.com/amirhosseinghanipour/bearer/internal/infrastructure/http/handlers"
	"github.com/amirhosseinghanipour/bearer/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/bearer/internal/infrastructure/persistence/postgres"
	"github.com/amirhosseinghanipour/bearer/internal/infrastructure/queue"
	"github.com/amirhosseinghanipour/bearer/internal/infrastructure/security"
	"github.com/amirhosseinghanipour/bearer/internal/infrastructure/storage"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("ping database")
	}
	if err := postgres.RunMigrations(ctx, cfg.Database.URL); err != nil {
		log.Fatal().Err(err).Msg("run migrations")
	}

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("parse REDIS_URL")
		}
		redisClient = redis.NewClient(opt)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis ping failed; continuing without redis")
			redisClient = nil
		}
	}

	healthHandler := handlers.NewHealthHandler(pool, redisClient)
	userRepo := postgres.NewUserRepository(pool)

	var taskEnqueuer ports.TaskEnqueuer
	var asynqWorker *queue.Worker
	if redisClient != nil {
		redisOpt, _ := redis.ParseURL(cfg.Redis.URL)
		asynqOpt := asynq.RedisClientOpt{Addr: redisOpt.Addr, Password: redisOpt.Password, DB: redisOpt.DB}
		asynqEnq := queue.NewAsynqEnqueuer(asynqOpt, log)
		defer asynqEnq.Close()
		taskEnqueuer = asynqEnq
		asynqWorker = queue.NewWorker(asynqOpt, log)
		go func() {
			if err := asynqWorker.Run(); err != nil {
				log.Warn().Err(err).Msg("asynq worker stopped")
			}
		}()
	} else {
		taskEnqueuer = queue.NewNoopEnqueuer()
	}

	hasher := security.NewHasher(security.Params{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
	})

	codec, err := infraauth.NewCodec([]byte(cfg.JWT.Secret), cfg.JWT.Algorithm)
	if err != nil {
		log.Fatal().Err(err).Msg("create token codec")
	}
	tokens := infraauth.NewService(codec,
		time.Duration(cfg.JWT.AccessExpiry)*time.Second,
		time.Duration(cfg.JWT.RefreshExpiry)*time.Second,
		time.Duration(cfg.JWT.ConfirmationExpiry)*time.Second,
	)

	var avatarStore ports.AvatarStore
	if cfg.S3.Bucket != "" {
		s3Store, err := storage.NewS3AvatarStore(ctx, storage.S3Config{
			Region:        cfg.S3.Region,
			Bucket:        cfg.S3.Bucket,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			BaseEndpoint:  cfg.S3.BaseEndpoint,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("create avatar store")
		}
		avatarStore = s3Store
	}

	requestEmailUC := session.NewRequestConfirmation(userRepo, tokens, taskEnqueuer, cfg.Confirmation.BaseURL)
	registerUC := session.NewRegister(userRepo, hasher, requestEmailUC)
	loginUC := session.NewLogin(userRepo, hasher, tokens)
	refreshUC := session.NewRefresh(userRepo, tokens)
	confirmEmailUC := session.NewConfirmEmail(userRepo, tokens)
	logoutUC := session.NewLogout(userRepo)

	ipLimit, err := middleware.NewIPRateLimiter(cfg.RateLimit.RatePerIP)
	if err != nil {
		log.Fatal().Err(err).Msg("create IP rate limiter")
	}
	userLimit, err := middleware.NewUserRateLimiter(cfg.RateLimit.RatePerUser)
	if err != nil {
		log.Fatal().Err(err).Msg("create user rate limiter")
	}
	secureMiddleware := middleware.NewSecure(middleware.SecureOptions(cfg.Secure.IsDevelopment))

	authHandler := handlers.NewAuthHandler(registerUC, loginUC, refreshUC, confirmEmailUC, requestEmailUC, logoutUC, log)
	usersHandler := handlers.NewUsersHandler(userRepo, avatarStore, log)
	requireJWT := middleware.NewAuthValidator(tokens).Handler
	router := httprouter.NewRouter(httprouter.RouterConfig{
		AuthHandler:   authHandler,
		UsersHandler:  usersHandler,
		HealthHandler: healthHandler,
		RequireJWT:    requireJWT,
		Log:           log,
		Secure:        secureMiddleware,
		IPRateLimit:   ipLimit,
		UserRateLimit: userLimit,
		Metrics:       true,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if asynqWorker != nil {
		asynqWorker.Shutdown()
	}
	log.Info().Msg("server stopped")
}
