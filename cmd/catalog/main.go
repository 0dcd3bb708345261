package main

import (
	"database/sql"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"ProductCatalog/internal/auth"
	"ProductCatalog/internal/catalog"
	"ProductCatalog/pkg/kit"
)

func main() {
	service := "catalog"
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	port := getenv("PORT", "8080")

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		log.Fatal("JWT_SECRET is required and must be at least 32 chars")
	}

	adminPass := os.Getenv("ADMIN_PASSWORD")
	if adminPass == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}
	op, err := auth.NewOperator(getenv("ADMIN_USER", "admin"), adminPass)
	if err != nil {
		log.Fatal("init operator failed", zap.Error(err))
	}

	store, err := buildStore(log)
	if err != nil {
		log.Fatal("init store failed", zap.Error(err))
	}

	jwt := auth.NewTokenMaker(jwtSecret)

	s := &catalog.Server{Store: store, Log: log, JWT: jwt}
	as := &auth.Server{Log: log, Operator: op, JWT: jwt}

	reg := prometheus.NewRegistry()
	h := catalog.NewHandler(s, as, catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: getenv("METRICS_ENABLED", "1") == "1",
		MetricsToken:   os.Getenv("METRICS_TOKEN"),
		CORSOrigins:    splitCSV(os.Getenv("CORS_ORIGINS")),
	})

	if err := kit.RunHTTPServer(":"+port, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

// buildStore picks the backend: Postgres when DATABASE_URL is set, the
// flat-file store otherwise.
func buildStore(log *zap.Logger) (catalog.Store, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, err
		}
		log.Info("using postgres store")
		return catalog.NewPostgresStore(db), nil
	}

	path := getenv("PRODUCTS_FILE", catalog.DefaultFilePath)
	s, _ := catalog.OpenFileStore(path, log)
	return s, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
