package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/vnkhanh/wikismart-edu-backend/config"
	"github.com/vnkhanh/wikismart-edu-backend/controllers"
	"github.com/vnkhanh/wikismart-edu-backend/logging"
	"github.com/vnkhanh/wikismart-edu-backend/middleware"
	"github.com/vnkhanh/wikismart-edu-backend/routes"
	"github.com/vnkhanh/wikismart-edu-backend/services"
	"github.com/vnkhanh/wikismart-edu-backend/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logging.Debug().Msg("no .env file found, using process environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("invalid configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := config.InitDB(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("database initialisation failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SeedData {
		if err := services.SeedData(ctx, db); err != nil {
			logging.Fatal().Err(err).Msg("seeding failed")
		}
	}

	groq := services.NewGroqClient(cfg.GroqAPIKey, cfg.GroqModel, cfg.GroqBaseURL, cfg.LLMTemperature, cfg.LLMMaxTokens)
	geminiTranslate, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelTranslation, cfg.LLMTemperature, cfg.LLMMaxTokens)
	if err != nil {
		logging.Fatal().Err(err).Msg("gemini client")
	}
	defer geminiTranslate.Close()
	geminiQuiz, err := services.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelQuiz, cfg.LLMTemperature, cfg.LLMMaxTokens)
	if err != nil {
		logging.Fatal().Err(err).Msg("gemini client")
	}
	defer geminiQuiz.Close()

	if cfg.GroqAPIKey == "" {
		logging.Warn().Msg("GROQ_API_KEY is not set, summaries will fail with PROVIDER_UNAVAILABLE")
	}
	if cfg.GeminiAPIKey == "" {
		logging.Warn().Msg("GEMINI_API_KEY is not set, translations and quizzes will fail with PROVIDER_UNAVAILABLE")
	}

	gateway := services.NewGateway(services.GatewayConfig{
		Summarizer:    groq,
		Translator:    geminiTranslate,
		QuizGenerator: geminiQuiz,
		MaxInputChars: cfg.LLMMaxInputChars,
		Timeout:       cfg.ProviderTimeout,
	})
	wiki := services.NewWikipediaClient(cfg.WikipediaAPIURL, cfg.WikipediaUserAgent, cfg.FetchTimeout)

	var archive services.Archiver
	if a := utils.NewUploadArchive(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket); a != nil {
		archive = a
	}

	tokens := utils.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL)
	users := services.NewUserService(db)
	articles := services.NewArticleService(db, wiki, gateway, archive)
	quizzes := services.NewQuizService(db, articles, services.NewQuizKeyStore(cfg.QuizKeyCacheSize, cfg.QuizKeyTTL))
	guard := services.NewAccessGuard(tokens, users)

	h := &controllers.Handler{
		DB:             db,
		Users:          users,
		Tokens:         tokens,
		Articles:       articles,
		Quizzes:        quizzes,
		Stats:          services.NewStatsService(users, articles, quizzes),
		MaxUploadBytes: cfg.MaxUploadMB << 20,
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Auth-Token", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
	}))
	r.MaxMultipartMemory = cfg.MaxUploadMB << 20
	routes.SetupRouter(r, h, guard)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}
