package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/surveyforge/surveyforge/internal/api"
	"github.com/surveyforge/surveyforge/internal/db"
	"github.com/surveyforge/surveyforge/internal/logging"
	"github.com/surveyforge/surveyforge/internal/middleware"
	"github.com/surveyforge/surveyforge/internal/utils"
)

func main() {
	_ = godotenv.Load()
	logging.Setup()

	addr := utils.SafeEnv("SURVEYFORGE_ADDR", ":8080")
	commit := os.Getenv("SURVEYFORGE_COMMIT")
	buildTime := os.Getenv("SURVEYFORGE_BUILD_TIME")

	store, cleanup, err := openStore()
	if err != nil {
		slog.Error("store init failed", "err", err)
		os.Exit(1)
	}
	if cleanup != nil {
		defer cleanup()
	}

	mux := http.NewServeMux()
	api.NewRouter(store).Register(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		locale := middleware.LocaleFromContext(r.Context())
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "SurveyForge API",
			"locale":     locale,
			"msg":        utils.T(locale, "health.ok"),
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})

	// Static frontend, when bundled into the image.
	if staticDir := os.Getenv("SURVEYFORGE_STATIC_DIR"); staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	handler := middleware.NoStore(
		middleware.LocaleMiddleware(
			middleware.CORS(
				middleware.SecureHeaders(
					middleware.WithAuth(mux)))))

	slog.Info("surveyforge server listening", "addr", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

// openStore picks the backend from SURVEYFORGE_DB: memory (default),
// sqlite, or mongo.
func openStore() (api.Store, func(), error) {
	switch backend := utils.SafeEnv("SURVEYFORGE_DB", "memory"); backend {
	case "memory":
		slog.Info("using in-memory store")
		return api.NewMemoryStore(), nil, nil

	case "sqlite":
		path := utils.SafeEnv("SURVEYFORGE_SQLITE_PATH", "data/surveyforge.db")
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		dsn := fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(path))
		sqliteDB, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.RunMigrations(sqliteDB, os.Getenv("SURVEYFORGE_MIGRATIONS_DIR")); err != nil {
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		store, err := db.NewSQLiteStore(sqliteDB)
		if err != nil {
			return nil, nil, fmt.Errorf("init sqlite store: %w", err)
		}
		slog.Info("using sqlite store", "path", path)
		cleanup := func() {
			if err := sqliteDB.Close(); err != nil {
				slog.Warn("close sqlite db", "err", err)
			}
		}
		return store, cleanup, nil

	case "mongo":
		uri := utils.SafeEnv("SURVEYFORGE_MONGO_URI", "mongodb://localhost:27017")
		name := utils.SafeEnv("SURVEYFORGE_MONGO_DB", "surveyforge")
		store, err := db.ConnectMongo(uri, name)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("using mongo store", "db", name)
		cleanup := func() {
			if err := store.Close(); err != nil {
				slog.Warn("disconnect mongo", "err", err)
			}
		}
		return store, cleanup, nil

	default:
		return nil, nil, fmt.Errorf("unknown SURVEYFORGE_DB backend %q", backend)
	}
}
