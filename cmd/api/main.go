package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/easyselect/easyselect-api/internal/config"
	"github.com/easyselect/easyselect-api/internal/domain/ads"
	"github.com/easyselect/easyselect-api/internal/domain/auth"
	"github.com/easyselect/easyselect-api/internal/domain/catalog"
	"github.com/easyselect/easyselect-api/internal/domain/coin"
	"github.com/easyselect/easyselect-api/internal/domain/profile"
	"github.com/easyselect/easyselect-api/internal/domain/promotion"
	"github.com/easyselect/easyselect-api/internal/domain/request"
	"github.com/easyselect/easyselect-api/internal/domain/settings"
	"github.com/easyselect/easyselect-api/internal/domain/video"
	"github.com/easyselect/easyselect-api/internal/middleware"
	"github.com/easyselect/easyselect-api/internal/pkg/database"
	pkgimaging "github.com/easyselect/easyselect-api/internal/pkg/imaging"
	"github.com/easyselect/easyselect-api/internal/pkg/jwt"
	"github.com/easyselect/easyselect-api/internal/pkg/recognition"
	pkgresponse "github.com/easyselect/easyselect-api/internal/pkg/response"
	"github.com/easyselect/easyselect-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting EasySelect API")

	if err := database.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTTTL)

	media, err := storage.New(storage.Config{
		S3Endpoint:  cfg.S3Endpoint,
		S3Region:    cfg.S3Region,
		S3AccessKey: cfg.S3AccessKey,
		S3SecretKey: cfg.S3SecretKey,
		S3Bucket:    cfg.S3Bucket,
		S3PublicURL: cfg.S3PublicURL,
		LocalDir:    cfg.LocalMedia,
		LocalURL:    "/media",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize media storage")
	}

	visionClient := recognition.NewClient(cfg.VisionAPIURL, cfg.VisionAPIKey, 30*time.Second)

	// ---------- Repositories ----------
	profileRepo := profile.NewRepository(db)
	coinRepo := coin.NewRepository(db)
	settingsRepo := settings.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	registrationRepo := auth.NewRegistrationRepository(db)
	sessionRepo := auth.NewSessionRepository(redis, cfg.JWTTTL)
	requestRepo := request.NewRepository(db)
	promotionRepo := promotion.NewRepository(db)
	videoRepo := video.NewRepository(db)

	// ---------- Live feed ----------
	feed := request.NewFeed(redis)
	go feed.Run()
	defer feed.Shutdown()

	// ---------- Services ----------
	settingsService := settings.NewService(settingsRepo, cfg.DefaultCoinMultiplier, cfg.DefaultWelcomeBonus)
	coinService := coin.NewService(coinRepo, cfg.AdReward)
	authService := auth.NewService(profileRepo, registrationRepo, sessionRepo, jwtService, settingsService, cfg.AdminPhone, cfg.ReferralCredit)
	catalogService := catalog.NewService(catalogRepo, settingsService)
	requestService := request.NewService(requestRepo, profileRepo, catalogRepo, settingsService, feed)
	promotionService := promotion.NewService(promotionRepo, media, pkgimaging.NewProcessor(pkgimaging.DefaultConfig()))
	reactionState := video.NewRedisReactionState(redis)
	videoService := video.NewService(videoRepo, media, reactionState, requestService)
	adsService := ads.NewService(redis)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	coinHandler := coin.NewHandler(coinService)
	settingsHandler := settings.NewHandler(settingsService)
	catalogHandler := catalog.NewHandler(catalogService, visionClient)
	requestHandler := request.NewHandler(requestService, feed, cfg.AllowedOrigins)
	promotionHandler := promotion.NewHandler(promotionService)
	videoHandler := video.NewHandler(videoService)
	adsHandler := ads.NewHandler(adsService)

	authMiddleware := middleware.Auth(jwtService)
	adminMiddleware := middleware.RequireAdmin()

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint (before Compress). Browsers cannot set headers on
	// WS dials, so the token rides in the query string.
	r.Get("/ws/admin/requests", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(adminMiddleware(http.HandlerFunc(requestHandler.LiveFeed))).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	// Locally stored media is served by the API itself
	if local, ok := media.(*storage.LocalStorage); ok {
		fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(local.BasePath())))
		r.Get("/media/*", fileServer.ServeHTTP)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chimw.Compress(5))

		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/coins", coinHandler.Routes(authMiddleware))
		r.Mount("/packages", catalogHandler.Routes())
		r.Mount("/promotions", promotionHandler.Routes())

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Mount("/requests", requestHandler.Routes())
			r.Mount("/videos", videoHandler.Routes())
			r.Mount("/ads", adsHandler.Routes())
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(adminMiddleware)

			r.Mount("/packages", catalogHandler.AdminRoutes())
			r.Mount("/requests", requestHandler.AdminRoutes())
			r.Mount("/promotions", promotionHandler.AdminRoutes())
			r.Mount("/videos", videoHandler.AdminRoutes())
			r.Mount("/settings", settingsHandler.Routes())
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
