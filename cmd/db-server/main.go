package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"onsdagar/internal/cardmatch"
	"onsdagar/internal/config"
	"onsdagar/internal/logging"
	"onsdagar/pkg/database"
)

// db-server serves the generated card database read-only, for checking a
// fresh db.json before it is published.
func main() {
	var (
		configPath = flag.String("config", "settings.yaml", "settings file")
		dbPath     = flag.String("db", "", "card database JSON (default from settings)")
		fromSQLite = flag.Bool("sqlite", false, "serve the sqlite cards table instead of db.json")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger, err := logging.New(logging.Options{Verbose: *verbose})
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}
	if *dbPath == "" {
		*dbPath = cfg.CardDBPath()
		if *fromSQLite {
			*dbPath = cfg.DBPath
		}
	}

	var m *cardmatch.Matcher
	if *fromSQLite {
		m, err = loadSQLite(context.Background(), *dbPath)
	} else {
		m, err = cardmatch.Load(*dbPath)
	}
	if err != nil {
		logger.Fatal("load card database", zap.Error(err))
	}

	router := newRouter(m, *dbPath)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("db-server listening", zap.String("addr", cfg.Server.Addr), zap.Int("cards", m.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// loadSQLite reads the cards table written by `admin db --sqlite`.
func loadSQLite(ctx context.Context, path string) (*cardmatch.Matcher, error) {
	db, err := database.Open(database.Config{Path: path})
	if err != nil {
		return nil, err
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	cards, err := database.ListCards(ctx, db, "")
	if err != nil {
		return nil, err
	}
	return cardmatch.New(cards), nil
}

func newRouter(m *cardmatch.Matcher, dbPath string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": dbPath, "cards": m.Len()})
	})

	cardmatch.NewHandler(m).RegisterRoutes(router.Group("/cards"))
	return router
}
