package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"VocaRank/cache"
	"VocaRank/config"

	"github.com/spf13/cobra"
)

var cachePurge bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "结果缓存管理",
	Long:  `测试Redis连接是否成功，并可清空结果缓存命名空间。`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("开始测试Redis连接...")

		// 加载配置
		cfg := config.Load()
		fmt.Printf("Redis配置: %s:%s, DB: %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		// 连接Redis
		if err := cache.ConnectRedis(cfg); err != nil {
			log.Fatalf("无法连接到Redis: %v", err)
		}
		fmt.Println("Redis连接成功！")

		if cachePurge {
			store := cache.NewRedisStore(cache.RedisClient, cfg.CacheNamespace, 0)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			fmt.Printf("清空缓存命名空间: %s\n", cfg.CacheNamespace)
			if err := store.Purge(ctx); err != nil {
				log.Fatalf("清空缓存失败: %v", err)
			}
			fmt.Println("缓存已清空！")
		}

		// 关闭连接
		if err := cache.CloseRedis(); err != nil {
			log.Printf("关闭Redis连接时发生错误: %v", err)
		}
		fmt.Println("Redis测试完成，连接已关闭。")
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.Flags().BoolVarP(&cachePurge, "purge", "p", false, "清空结果缓存命名空间下的全部键")
}
