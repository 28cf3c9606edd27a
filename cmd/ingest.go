package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"VocaRank/cache"
	"VocaRank/config"
	"VocaRank/core/ingest"
	"VocaRank/db"
	"VocaRank/logger"
	"VocaRank/repository"

	"github.com/spf13/cobra"
)

var ingestSpoolDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "批次采集目录监听器",
	Long:  `独立运行采集批次目录监听器，不启动HTTP服务器。爬虫将批次文件放入目录后会被自动写入数据库。`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		if ingestSpoolDir != "" {
			cfg.IngestSpoolDir = ingestSpoolDir
		}

		logger.InitLogger(logger.Config{
			Level:      logger.LogLevel(cfg.LogLevel),
			OutputPath: cfg.LogPath,
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		})

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("无法连接数据库: %v", err)
		}
		defer db.CloseGormDB()

		// Redis不可用时降级为不清缓存，采集照常进行
		var store cache.Store
		if err := cache.ConnectRedis(cfg); err != nil {
			log.Printf("Redis不可用，跳过缓存清理: %v", err)
		} else {
			defer cache.CloseRedis()
			store = cache.NewRedisStore(cache.RedisClient, cfg.CacheNamespace, 0)
		}

		songRepo := repository.NewGormSongRepository(db.GormDB)
		artistRepo := repository.NewGormArtistRepository(db.GormDB)
		viewsRepo := repository.NewGormViewsRepository(db.GormDB)
		service := ingest.NewService(db.GormDB, songRepo, artistRepo, viewsRepo, store)

		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			cancel()
		}()

		watcher := ingest.NewWatcher(cfg.IngestSpoolDir, service)
		if err := watcher.Run(ctx); err != nil && err != context.Canceled {
			log.Fatalf("监听器运行失败: %v", err)
		}
		log.Println("采集监听器已停止。")
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVarP(&ingestSpoolDir, "spool", "s", "", "批次文件目录（默认取INGEST_SPOOL_DIR）")
}
