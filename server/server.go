package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VocaRank/cache"
	"VocaRank/config"
	"VocaRank/core/ingest"
	"VocaRank/core/ranking"
	"VocaRank/core/search"
	"VocaRank/db"
	"VocaRank/logger"
	"VocaRank/repository"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	})

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.CloseDB()

	if err := db.ConnectGormDB(cfg); err != nil {
		log.Fatalf("Failed to connect to database with GORM: %v", err)
	}
	defer db.CloseGormDB()

	// Initialize database schema
	if err := db.InitDB(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Connect to Redis
	if err := cache.ConnectRedis(cfg); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer cache.CloseRedis()
	log.Println("Successfully connected to Redis")

	store := cache.NewRedisStore(cache.RedisClient, cfg.CacheNamespace,
		time.Duration(cfg.CacheTTLSeconds)*time.Second)
	cacheTTL := time.Duration(cfg.CacheTTLSeconds) * time.Second

	songRepo := repository.NewGormSongRepository(db.GormDB)
	artistRepo := repository.NewGormArtistRepository(db.GormDB)
	viewsRepo := repository.NewGormViewsRepository(db.GormDB)
	rankingRepo := repository.NewMySQLRankingRepository(db.DB)

	rankingEngine := ranking.NewEngine(rankingRepo, songRepo, artistRepo, viewsRepo, store, cacheTTL, cfg.MaxEntries)
	searchEngine := search.NewEngine(songRepo, artistRepo, store, cacheTTL, cfg.MaxEntries)
	ingestService := ingest.NewService(db.GormDB, songRepo, artistRepo, viewsRepo, store)

	// 后台运行采集批次目录的监听器
	watcherCtx, cancelWatcher := context.WithCancel(context.Background())
	defer cancelWatcher()
	watcher := ingest.NewWatcher(cfg.IngestSpoolDir, ingestService)
	go func() {
		if err := watcher.Run(watcherCtx); err != nil && err != context.Canceled {
			logger.Error("ingest spool watcher stopped", logger.ErrorField(err))
		}
	}()

	apiHandler := NewAPIHandler(rankingEngine, searchEngine, ingestService, viewsRepo, cfg)

	// 使用 gorilla/mux 创建路由器
	router := mux.NewRouter()

	// 添加 CORS 中间件
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	// Ranking and search endpoints
	router.HandleFunc("/api/rankings/songs", apiHandler.SongRankingsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/rankings/artists", apiHandler.ArtistRankingsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/search", apiHandler.SearchHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/timestamps", apiHandler.GetTimestampsHandler).Methods(http.MethodGet)

	// Ingestion endpoints, consumed by the scraper
	router.HandleFunc("/api/ingest/batch", apiHandler.IngestBatchHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/ingest/songs", apiHandler.IngestSongHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/ingest/artists", apiHandler.IngestArtistHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/ingest/views", apiHandler.IngestViewsHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/ingest/timestamps", apiHandler.IngestTimestampHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/ingest/songs/{id}/exists", apiHandler.SongExistsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/ingest/artists/{id}/exists", apiHandler.ArtistExistsHandler).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 优雅关闭
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")
		cancelWatcher()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped.")
}
