package cmd

import (
	"fmt"
	"log"

	"VocaRank/config"
	"VocaRank/db"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "数据库迁移",
	Long:  `使用GORM自动迁移全部实体模型，并执行原生建表语句补齐索引和外键约束。`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("开始数据库迁移...")

		cfg := config.Load()

		if err := db.ConnectDB(cfg); err != nil {
			log.Fatalf("无法连接数据库: %v", err)
		}
		defer db.CloseDB()

		if err := db.ConnectGormDB(cfg); err != nil {
			log.Fatalf("无法通过GORM连接数据库: %v", err)
		}
		defer db.CloseGormDB()

		if err := db.InitDB(); err != nil {
			log.Fatalf("建表失败: %v", err)
		}

		if err := db.AutoMigrateModels(); err != nil {
			log.Fatalf("模型迁移失败: %v", err)
		}

		fmt.Println("数据库迁移完成！")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
