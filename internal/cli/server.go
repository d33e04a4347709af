package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"mathbattle-service/internal/app"
	"mathbattle-service/internal/config"
	"mathbattle-service/internal/domain"
	"mathbattle-service/internal/infra/memory"
	pgloader "mathbattle-service/internal/infra/postgres"
	redisinfra "mathbattle-service/internal/infra/redis"
	"mathbattle-service/internal/question"
	transport "mathbattle-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the math battle server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.BankLoader = memory.NewStaticBankLoader(question.DefaultBank())
	if pool != nil {
		loader = pgloader.NewQuestionLoader(pool)
	}

	bankTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
	var banks app.BankRepository
	if redisClient != nil {
		banks = redisinfra.NewBankRepository(redisClient, loader, bankTTL)
	} else {
		banks = memory.NewBankRepository(loader, bankTTL)
	}

	var presence app.Presence
	if redisClient != nil {
		presence = redisinfra.NewPresence(redisClient, redisTTL)
	}

	hub := transport.NewHub()
	engine := app.NewEngine(engineConfig(cfg), banks, hub, presence)
	engine.StartSweeper()
	defer engine.Shutdown()

	wsHandler := transport.NewWSHandler(engine, hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting math battle service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// engineConfig maps the YAML surface onto engine tuning, leaving zero values
// for the engine's own defaults.
func engineConfig(cfg config.Config) app.Config {
	defaults := app.DefaultSettings()
	if cfg.Game.MaxPlayers > 0 {
		defaults.MaxPlayers = cfg.Game.MaxPlayers
	}
	if cfg.Game.QuestionTime > 0 {
		defaults.QuestionTime = cfg.Game.QuestionTime
	}
	if cfg.Game.TotalQuestions > 0 {
		defaults.TotalQuestions = cfg.Game.TotalQuestions
	}
	if d := domain.Difficulty(cfg.Game.Difficulty); d == domain.DifficultyEasy || d == domain.DifficultyMedium || d == domain.DifficultyHard {
		defaults.Difficulty = d
	}
	if len(cfg.Game.Categories) > 0 {
		var cats []domain.Category
		for _, raw := range cfg.Game.Categories {
			switch c := domain.Category(raw); c {
			case domain.CategoryArithmetic, domain.CategoryLogic, domain.CategoryGeometry:
				cats = append(cats, c)
			}
		}
		if len(cats) > 0 {
			defaults.Categories = cats
		}
	}

	return app.Config{
		Defaults:       defaults,
		StartDelay:     config.TTLDuration(cfg.Game.StartDelay, 0),
		NextRoundDelay: config.TTLDuration(cfg.Game.NextRoundDelay, 0),
		RoundGrace:     config.TTLDuration(cfg.Game.RoundGrace, 0),
		IdleTimeout:    config.TTLDuration(cfg.Game.IdleTimeout, 0),
		SweepInterval:  config.TTLDuration(cfg.Game.SweepInterval, 0),
	}
}
