package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bryanwahyu/askdata/internal/application"
	appasking "github.com/bryanwahyu/askdata/internal/application/asking"
	appdatasets "github.com/bryanwahyu/askdata/internal/application/datasets"
	"github.com/bryanwahyu/askdata/internal/application/orchestrate"
	"github.com/bryanwahyu/askdata/internal/config"
	"github.com/bryanwahyu/askdata/internal/domain/answer"
	domaindatasets "github.com/bryanwahyu/askdata/internal/domain/datasets"
	"github.com/bryanwahyu/askdata/internal/domain/queries"
	ollamaai "github.com/bryanwahyu/askdata/internal/infra/ai/ollama"
	openaiai "github.com/bryanwahyu/askdata/internal/infra/ai/openai"
	"github.com/bryanwahyu/askdata/internal/infra/csvload"
	"github.com/bryanwahyu/askdata/internal/infra/db/memory"
	mysqlp "github.com/bryanwahyu/askdata/internal/infra/db/mysql"
	postgresp "github.com/bryanwahyu/askdata/internal/infra/db/postgres"
	"github.com/bryanwahyu/askdata/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/askdata/internal/infra/storage"
	"github.com/bryanwahyu/askdata/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()
	checkers := map[string]middleware.HealthChecker{}

	// pilih repo history sesuai driver
	var repo queries.Repository
	var db *sql.DB
	switch cfg.Database.Driver {
	case "mysql":
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewQueryRepository(db)
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = postgresp.NewQueryRepository(db)
	case "":
		log.Println("no database configured, keeping query history in memory")
		repo = memory.NewQueryRepository()
	default:
		log.Fatalf("unknown database driver: %s", cfg.Database.Driver)
	}
	if db != nil {
		defer db.Close()
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	}

	// init minio (optional archive untuk raw CSV)
	var archive domaindatasets.ArchiveStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		archive = store
	} else {
		log.Println("no minio configured, uploads are kept in memory only")
	}

	// pilih model client; nil client → fallback engine only
	var client answer.Client
	switch cfg.AI.Provider {
	case "openai":
		client = openaiai.NewClient(cfg.AI.APIKey, cfg.AI.Model)
	case "ollama":
		client = ollamaai.NewClient(cfg.AI.BaseURL, cfg.AI.Model)
	case "":
		log.Println("no model provider configured, answering with the deterministic engine")
	default:
		log.Fatalf("unknown ai provider: %s", cfg.AI.Provider)
	}

	// init services
	datasetsSvc := appdatasets.NewService(
		domaindatasets.LoaderFunc(csvload.Load),
		archive,
		application.SystemClock{},
	)
	askingSvc := appasking.NewService(datasetsSvc, orchestrate.New(client), repo, application.SystemClock{})

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(datasetsSvc, askingSvc, checkers))

	// outer middleware: auth dan rate limit, keduanya opsional
	var handler http.Handler = mux
	if cfg.RateLimit.Capacity > 0 {
		handler = middleware.RateLimitMiddleware(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)(handler)
	}
	if len(cfg.Auth.APIKeys) > 0 {
		handler = middleware.APIKeyAuth(cfg.Auth.APIKeys)(handler)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
