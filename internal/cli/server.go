package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"sophical-quiz-service/internal/app"
	"sophical-quiz-service/internal/config"
	"sophical-quiz-service/internal/domain"
	"sophical-quiz-service/internal/infra/memory"
	pgloader "sophical-quiz-service/internal/infra/postgres"
	redisinfra "sophical-quiz-service/internal/infra/redis"
	"sophical-quiz-service/internal/logging"
	transport "sophical-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the assessment server",
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

	slog.SetDefault(slog.New(logging.NewHandler(os.Stderr, logging.ParseLevel(cfg.Log.Level))))

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
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 2*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = pgloader.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}
	service := app.NewSessionService(store, quizRepo)
	wsHandler := transport.NewWSHandler(service)

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
		slog.Info("starting assessment server", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes seeds a demo quiz; swap the loader for Postgres in production.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-react-ts-1": {
			ID:               "quiz-react-ts-1",
			Title:            "React & TypeScript Fundamentals Quiz",
			Description:      "Test your knowledge of core React and TypeScript concepts covered in the initial modules.",
			TimeLimitSeconds: 15 * 60,
			Questions: []domain.Question{
				{
					ID:         "q1",
					Kind:       domain.KindSingleChoice,
					Prompt:     "What is JSX?",
					Points:     5,
					AutoGraded: true,
					Choices: []domain.Choice{
						{ID: "q1c1", Text: "A JavaScript library for building UIs"},
						{ID: "q1c2", Text: "A syntax extension for JavaScript, recommended for use with React"},
						{ID: "q1c3", Text: "A state management pattern"},
						{ID: "q1c4", Text: "A CSS preprocessor"},
					},
					CorrectChoiceID: "q1c2",
				},
				{
					ID:         "q2",
					Kind:       domain.KindMultiChoice,
					Prompt:     "Which of the following are valid React Hooks? (Select all that apply)",
					Points:     10,
					AutoGraded: true,
					Choices: []domain.Choice{
						{ID: "q2c1", Text: "useState"},
						{ID: "q2c2", Text: "useEffect"},
						{ID: "q2c3", Text: "useComponent"},
						{ID: "q2c4", Text: "useContext"},
						{ID: "q2c5", Text: "useReducer"},
					},
					CorrectChoiceIDs: []string{"q2c1", "q2c2", "q2c4", "q2c5"},
				},
				{
					ID:     "q3",
					Kind:   domain.KindShortAnswer,
					Prompt: "Explain the concept of \"props\" in React in one sentence.",
					Points: 10,
				},
				{
					ID:         "q4",
					Kind:       domain.KindMatching,
					Prompt:     "Match the TypeScript type to its description.",
					Points:     15,
					AutoGraded: true,
					LeftItems: []domain.MatchItem{
						{ID: "q4l1", Text: "string"},
						{ID: "q4l2", Text: "boolean"},
						{ID: "q4l3", Text: "number"},
						{ID: "q4l4", Text: "any"},
					},
					RightItems: []domain.MatchItem{
						{ID: "q4r1", Text: "Represents true or false values"},
						{ID: "q4r2", Text: "Represents numerical values"},
						{ID: "q4r3", Text: "Represents textual data"},
						{ID: "q4r4", Text: "Disables type checking"},
						{ID: "q4r5", Text: "Represents an array of items"},
					},
					CorrectPairs: []domain.MatchPair{
						{LeftID: "q4l1", RightID: "q4r3"},
						{LeftID: "q4l2", RightID: "q4r1"},
						{LeftID: "q4l3", RightID: "q4r2"},
						{LeftID: "q4l4", RightID: "q4r4"},
					},
				},
				{
					ID:     "q5",
					Kind:   domain.KindCodeAnswer,
					Prompt: "Write a simple React functional component named `Greeting` that accepts a `name` prop (string) and renders `<h1>Hello, {name}!</h1>`. Use TypeScript for prop typing.",
					Points: 10,
				},
			},
		},
	}
}
