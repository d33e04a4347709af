package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"mathbattle-service/internal/app"
	"mathbattle-service/internal/domain"
	pgloader "mathbattle-service/internal/infra/postgres"
	pgmigrations "mathbattle-service/internal/infra/postgres/migrations"
	infraredis "mathbattle-service/internal/infra/redis"
	"mathbattle-service/internal/question"
)

func TestFullGameAgainstRealStores(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedQuestions(t, ctx, pgURL, question.DefaultBank())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}

	loader := pgloader.NewQuestionLoader(pool)
	banks := infraredis.NewBankRepository(redisClient, loader, 5*time.Minute)

	rec := &recorder{}
	engine := app.NewEngine(app.Config{
		StartDelay:     5 * time.Millisecond,
		NextRoundDelay: 5 * time.Millisecond,
		RoundGrace:     time.Minute,
	}, banks, rec, infraredis.NewPresence(redisClient, time.Minute))
	defer engine.Shutdown()

	created, err := engine.CreateRoom("c1", "Alice", domain.GameSettings{TotalQuestions: 1})
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	code := created.RoomCode
	if _, err := engine.JoinRoom("c2", "Bob", code); err != nil {
		t.Fatalf("join room: %v", err)
	}

	// Room liveness is mirrored into Redis.
	if n, err := redisClient.Exists(ctx, "battle:room:"+code).Result(); err != nil || n != 1 {
		t.Fatalf("expected presence key for %s, exists=%d err=%v", code, n, err)
	}

	if err := engine.StartGame(ctx, "c1", code); err != nil {
		t.Fatalf("start game: %v", err)
	}

	// The bank came out of Postgres and is now warm in Redis.
	if n, err := redisClient.Exists(ctx, "battle:questions:bank").Result(); err != nil || n != 1 {
		t.Fatalf("expected cached bank in redis, exists=%d err=%v", n, err)
	}

	q := rec.waitFor(t, domain.EventNewQuestion).Payload.(domain.NewQuestionPayload).Question
	if q.Answer == "" {
		t.Fatalf("loaded question has no canonical answer: %+v", q)
	}

	alice, err := engine.SubmitAnswer("c1", code, q.Answer, 10)
	if err != nil {
		t.Fatalf("alice answers: %v", err)
	}
	if !alice.Correct || alice.PointsEarned <= 0 {
		t.Fatalf("expected correct scored answer, got %+v", alice)
	}
	if _, err := engine.SubmitAnswer("c2", code, "definitely wrong", 10); err != nil {
		t.Fatalf("bob answers: %v", err)
	}

	rec.waitFor(t, domain.EventRoundResults)
	final := rec.waitFor(t, domain.EventGameFinished).Payload.(domain.FinalResults)
	if len(final.Standings) != 2 {
		t.Fatalf("expected 2 standings, got %+v", final.Standings)
	}
	if final.Winner == nil || final.Winner.Name != "Alice" {
		t.Fatalf("expected Alice to win, got %+v", final.Winner)
	}

	// Closing the room clears its presence key.
	engine.CloseRoom(code)
	if n, _ := redisClient.Exists(ctx, "battle:room:"+code).Result(); n != 0 {
		t.Fatalf("expected presence key cleared after close")
	}
}

// recorder captures engine events so the test can follow the match without a
// websocket transport.
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) Broadcast(_ string, ev domain.Event) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) Unicast(_ string, ev domain.Event) {
	r.Broadcast("", ev)
}

func (r *recorder) waitFor(t *testing.T, eventType string) domain.Event {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		for _, ev := range r.events {
			if ev.Type == eventType {
				r.mu.Unlock()
				return ev
			}
		}
		r.mu.Unlock()
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("no %s event within deadline", eventType)
	return domain.Event{}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "battle", "POSTGRES_PASSWORD": "battlepass", "POSTGRES_DB": "battledb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://battle:battlepass@%s:%s/battledb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedQuestions(t *testing.T, ctx context.Context, dsn string, bank question.Bank) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for _, byDiff := range bank {
		for _, pool := range byDiff {
			for _, q := range pool {
				opts, err := json.Marshal(q.Options)
				if err != nil {
					t.Fatalf("marshal options: %v", err)
				}
				if _, err := db.ExecContext(ctx,
					`INSERT INTO questions (prompt, options, answer, explanation, category, difficulty) VALUES (?, ?::jsonb, ?, ?, ?, ?)`,
					q.Prompt, string(opts), q.Answer, q.Explanation, string(q.Category), string(q.Difficulty),
				); err != nil {
					t.Fatalf("insert question: %v", err)
				}
			}
		}
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
