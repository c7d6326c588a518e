package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	goredis "github.com/go-redis/redis/v8"

	"github.com/SocialShift/Knowledge-Backend/internal/app/server"
	"github.com/SocialShift/Knowledge-Backend/internal/config"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http"
	authctl "github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/auth"
	communityctl "github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/community"
	contentctl "github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/content"
	gamectl "github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/game"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/httputil"
	leaderboardctl "github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/leaderboard"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/middleware"
	profilectl "github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/profile"
	quizctl "github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/quiz"
	"github.com/SocialShift/Knowledge-Backend/internal/delivery/http/controllers/status"
	"github.com/SocialShift/Knowledge-Backend/internal/mail/sendgrid"
	"github.com/SocialShift/Knowledge-Backend/internal/metrics"
	"github.com/SocialShift/Knowledge-Backend/internal/notify/fcm"
	"github.com/SocialShift/Knowledge-Backend/internal/scheduler"
	"github.com/SocialShift/Knowledge-Backend/internal/service/auth"
	"github.com/SocialShift/Knowledge-Backend/internal/service/badge"
	"github.com/SocialShift/Knowledge-Backend/internal/service/community"
	"github.com/SocialShift/Knowledge-Backend/internal/service/content"
	"github.com/SocialShift/Knowledge-Backend/internal/service/game"
	"github.com/SocialShift/Knowledge-Backend/internal/service/leaderboard"
	"github.com/SocialShift/Knowledge-Backend/internal/service/media"
	"github.com/SocialShift/Knowledge-Backend/internal/service/profile"
	"github.com/SocialShift/Knowledge-Backend/internal/service/quiz"
	"github.com/SocialShift/Knowledge-Backend/internal/service/streak"
	"github.com/SocialShift/Knowledge-Backend/internal/storage/elastic"
	"github.com/SocialShift/Knowledge-Backend/internal/storage/minio_storage"
	"github.com/SocialShift/Knowledge-Backend/internal/storage/postgres"
	"github.com/SocialShift/Knowledge-Backend/internal/storage/redis"
	"github.com/SocialShift/Knowledge-Backend/pkg/logger"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func Run(cfg *config.Config) error {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: " + cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if cfg.Postgres.AutoMigrate {
		if err := postgres.MigrateUp(cfg.Postgres.URL()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info("migrations applied")
	}

	pg, err := postgres.NewPostgresPool(ctx, cfg.Postgres.URL())
	if err != nil {
		return err
	}
	defer pg.Close()

	rdb, err := redis.NewClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.ErrorErr("redis close", err)
		}
	}()

	es, err := elastic.NewElasticClient(ctx, cfg.ES)
	if err != nil {
		return err
	}
	searchRepo := elastic.NewContentSearchRepository(es, cfg.ES.Index)
	if err := searchRepo.CreateIndexIfNotExist(ctx); err != nil {
		return err
	}

	minioStorage, err := minio_storage.NewMinioStorage(cfg.Minio)
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	mediaStorage, err := minio_storage.NewMediaStorage(ctx, minioStorage, cfg.Minio.Bucket("media"))
	if err != nil {
		return fmt.Errorf("minio: %w", err)
	}
	mediaStore := media.NewStore(log, mediaStorage)

	if err := httputil.RegisterValidators(); err != nil {
		return err
	}

	m := metrics.New()
	mailer := sendgrid.NewMailer(log, cfg.SendGrid)
	pusher := fcm.NewClient(log, cfg.FCM)

	userRepo := postgres.NewUserPostgres(pg.Pool)
	tokenRepo := postgres.NewTokensPostgres(pg.Pool)
	profileRepo := postgres.NewProfilePostgres(pg.Pool)
	progressRepo := postgres.NewProgressPostgres(pg.Pool)

	badges := badge.NewBadgeService(log, progressRepo, profileRepo, m)
	streaks := streak.NewStreakService(log, profileRepo, redis.NewStreakGuard(rdb), redis.NewNoticeStore(rdb), badges)
	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := auth.NewAuthService(log, jwtManager, userRepo, tokenRepo, mailer, streaks, profileRepo, badges)
	profiles := profile.NewProfileService(log, profileRepo, userRepo, streaks, mediaStore)
	ranks := leaderboard.NewLeaderboardService(log, profileRepo, redis.NewLeaderboardCache(rdb), mediaStore)
	contents := content.NewContentService(log, content.Repos{
		Characters: postgres.NewCharacterPostgres(pg.Pool),
		Timelines:  postgres.NewTimelinePostgres(pg.Pool),
		Stories:    postgres.NewStoryPostgres(pg.Pool),
		OnThisDay:  postgres.NewOnThisDayPostgres(pg.Pool),
	}, searchRepo, pusher, badges, mediaStore)
	quizzes := quiz.NewQuizService(log, postgres.NewQuizPostgres(pg.Pool), profileRepo, badges, m)
	games := game.NewGameService(log, postgres.NewGamePostgres(pg.Pool), badges, m, mediaStore)
	communities := community.NewCommunityService(log, postgres.NewCommunityPostgres(pg.Pool),
		postgres.NewPostPostgres(pg.Pool), postgres.NewReportPostgres(pg.Pool), mediaStore)

	cron := scheduler.New(log, m)
	err = scheduler.Register(cron, log, cfg.Scheduler, scheduler.Deps{
		Badges:    badges,
		OTPs:      userRepo,
		OnThisDay: contents,
		Push:      pusher,
	})
	if err != nil {
		return err
	}

	r := http.InitRoutes(log, cfg, http.Handlers{
		Status:        status.NewStatusHandler(log, readinessChecks(pg.Pool, rdb, es)),
		Auth:          authctl.NewAuthHandler(log, authService),
		Profile:       profilectl.NewProfileHandler(log, profiles, badges),
		Leaderboard:   leaderboardctl.NewLeaderboardHandler(log, ranks),
		Content:       contentctl.NewContentHandler(log, contents),
		Quiz:          quizctl.NewQuizHandler(log, quizzes),
		Game:          gamectl.NewGameHandler(log, games),
		Community:     communityctl.NewCommunityHandler(log, communities),
		Authenticator: middleware.NewAuthMiddlewareProvider(log, authService),
		Streak:        middleware.StreakMiddleware(log, streaks),
		Metrics:       m,
	})

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	cron.Start()
	log.Info("server started", "address", cfg.HTTPServer.Address)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err, ok := <-srv.Notify():
		if ok {
			log.ErrorErr("http server stopped", err)
			runErr = err
		}
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorErr("http server shutdown", err)
	}
	if err := cron.Stop(shutdownCtx); err != nil {
		log.ErrorErr("scheduler shutdown", err)
	}
	log.Info("shutdown complete")
	return runErr
}

func readinessChecks(pool status.Pinger, rdb *goredis.Client, es *elasticsearch.Client) map[string]status.Pinger {
	return map[string]status.Pinger{
		"postgres": pool,
		"redis": status.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}),
		"elasticsearch": status.PingFunc(func(ctx context.Context) error {
			res, err := es.Ping(es.Ping.WithContext(ctx))
			if err != nil {
				return err
			}
			defer res.Body.Close()
			if res.IsError() {
				return fmt.Errorf("elasticsearch: %s", res.Status())
			}
			return nil
		}),
	}
}
