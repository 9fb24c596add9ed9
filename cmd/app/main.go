package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"github.com/wichananm65/travel-destination-backend/internal/auth"
	"github.com/wichananm65/travel-destination-backend/internal/config"
	"github.com/wichananm65/travel-destination-backend/internal/database"
	"github.com/wichananm65/travel-destination-backend/internal/destination"
	"github.com/wichananm65/travel-destination-backend/internal/favorite"
	"github.com/wichananm65/travel-destination-backend/internal/logging"
	"github.com/wichananm65/travel-destination-backend/internal/mail"
	"github.com/wichananm65/travel-destination-backend/internal/metrics"
	"github.com/wichananm65/travel-destination-backend/internal/recommendation"
	"github.com/wichananm65/travel-destination-backend/internal/review"
	"github.com/wichananm65/travel-destination-backend/internal/user"
)

type stores struct {
	users        user.Repository
	destinations destination.Repository
	reviews      func(authors review.AuthorLookup, places review.PlaceLookup) review.Repository
	favorites    favorite.Repository
	resetTokens  user.ResetTokenStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if !cfg.UseMemoryStores() {
		db, err = database.Open(ctx, cfg.Database.URL)
		if err != nil {
			logging.Logger().Fatal().Err(err).Msg("connect database")
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			logging.Logger().Fatal().Err(err).Msg("ensure schema")
		}
	}
	st := buildStores(ctx, db)

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.ResetTokenTTL)
	mailer := buildMailer(cfg)

	userService := user.NewService(st.users, cfg.Auth.BcryptCost)
	userService.UseResetTokenStore(st.resetTokens)
	destinationService := destination.NewService(st.destinations)
	reviewService := review.NewService(st.reviews(userService, destinationService), destinationService)
	favoriteService := favorite.NewService(st.favorites, destinationService)

	var recCache recommendation.Cache
	if rc := connectRedis(ctx, cfg); rc != nil {
		defer rc.Close()
		recCache = recommendation.NewRedisCache(rc, cfg.Redis.CacheTTL)
	}
	recommendationService := recommendation.NewService(userService, destinationService, recCache)

	app := fiber.New(fiber.Config{
		AppName:      "travel-destination-backend",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(logging.Middleware(auth.OptionalUserID))
	app.Use(metrics.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		if db != nil {
			if err := db.PingContext(c.UserContext()); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", metrics.Handler())

	userHandler := user.NewHandler(userService, tokens, mailer, user.HandlerOptions{
		ResetURLBase:       cfg.Auth.ResetURLBase,
		ResetRatePerMinute: cfg.Auth.ResetRatePerMinute,
	})
	destinationHandler := destination.NewHandler(destinationService, cfg.Dev.AllowResetDestinations)
	reviewHandler := review.NewHandler(reviewService)
	favoriteHandler := favorite.NewHandler(favoriteService)
	recommendationHandler := recommendation.NewHandler(recommendationService)

	userHandler.RegisterPublicRoutes(app)
	destinationHandler.RegisterPublicRoutes(app)
	reviewHandler.RegisterPublicRoutes(app)

	protect := tokens.Middleware()
	userHandler.RegisterProtectedRoutes(app, protect)
	destinationHandler.RegisterProtectedRoutes(app, protect)
	reviewHandler.RegisterProtectedRoutes(app, protect)
	favoriteHandler.RegisterProtectedRoutes(app, protect)
	recommendationHandler.RegisterProtectedRoutes(app, protect)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "route not found"})
	})

	go func() {
		<-ctx.Done()
		logging.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logging.Error().Err(err).Msg("shutdown")
		}
	}()

	logging.Info().Str("addr", cfg.Server.Addr).Bool("memory_stores", db == nil).Msg("server listening")
	if err := app.Listen(cfg.Server.Addr); err != nil {
		logging.Logger().Fatal().Err(err).Msg("listen")
	}
}

func buildStores(ctx context.Context, db *sql.DB) stores {
	if db != nil {
		return stores{
			users:        user.NewPostgresRepository(db),
			destinations: destination.NewPostgresRepository(db),
			reviews: func(review.AuthorLookup, review.PlaceLookup) review.Repository {
				return review.NewPostgresRepository(db)
			},
			favorites:   favorite.NewPostgresRepository(db),
			resetTokens: user.NewPostgresResetTokenStore(db),
		}
	}

	logging.Warn().Msg("DATABASE_URL not set, using in-memory stores")
	destinations := destination.NewInMemoryRepository(nil)
	if _, err := destinations.Reset(ctx, destination.SampleDestinations()); err != nil {
		logging.Warn().Err(err).Msg("seed sample destinations")
	}
	return stores{
		users:        user.NewInMemoryRepository(nil),
		destinations: destinations,
		reviews: func(authors review.AuthorLookup, places review.PlaceLookup) review.Repository {
			return review.NewInMemoryRepository(authors, places)
		},
		favorites:   favorite.NewInMemoryRepository(),
		resetTokens: user.NewInMemoryResetTokenStore(),
	}
}

func buildMailer(cfg *config.Config) mail.Mailer {
	if cfg.SMTP.Host == "" {
		logging.Warn().Msg("SMTP_HOST not set, reset emails are logged instead of sent")
		return mail.NewLogMailer(logging.WithComponent("mail"))
	}
	return mail.NewSMTPMailer(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	}, logging.WithComponent("mail"))
}

// connectRedis returns nil when no cache is configured or reachable;
// recommendations then skip caching.
func connectRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	if cfg.Redis.URL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logging.Warn().Err(err).Msg("invalid REDIS_URL, recommendation cache disabled")
		return nil
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logging.Warn().Err(err).Msg("redis unreachable, recommendation cache disabled")
		client.Close()
		return nil
	}
	return client
}
